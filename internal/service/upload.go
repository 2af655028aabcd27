package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultRequestTimeout  = 30 * time.Second
	defaultTransferTimeout = 300 * time.Second
)

// UploadInput describes the file picked for upload.
type UploadInput struct {
	Name     string
	Size     int64
	MimeType string
	Body     io.Reader
}

type brokerRequest struct {
	Filename string `json:"filename"`
	Filesize int64  `json:"filesize"`
	Filetype string `json:"filetype"`
}

type brokerResponse struct {
	UploadURL string `json:"uploadURL"`
	UID       string `json:"uid"`
}

// Uploader streams files to the video host. It first asks the broker for
// a one-time upload target, then transfers the file body there, reporting
// monotonic progress along the way.
type Uploader struct {
	BrokerURL       string
	RequestTimeout  time.Duration
	TransferTimeout time.Duration
	HTTP            *http.Client
}

func NewUploader() *Uploader {
	reqTimeout := viper.GetDuration("broker.request_timeout")
	if reqTimeout == 0 {
		reqTimeout = defaultRequestTimeout
	}

	trTimeout := viper.GetDuration("broker.transfer_timeout")
	if trTimeout == 0 {
		trTimeout = defaultTransferTimeout
	}

	return &Uploader{
		BrokerURL:       viper.GetString("broker.url"),
		RequestTimeout:  reqTimeout,
		TransferTimeout: trTimeout,
		HTTP:            &http.Client{},
	}
}

// Upload runs one full upload attempt and returns the video UID assigned
// by the host. onProgress receives a non-decreasing sequence of values
// that reaches 100 only when the host has acknowledged the transfer.
func (u *Uploader) Upload(ctx context.Context, sess *Session, in UploadInput, onProgress func(int)) (string, error) {
	emit := func(p int) {
		if sess.bump(p) && onProgress != nil {
			onProgress(sess.Progress())
		}
	}

	sess.setStatus(StatusRequestingTarget)
	emit(progressStarted)

	target, err := u.requestTarget(ctx, in)
	if err != nil {
		sess.setStatus(StatusFailed)
		return "", err
	}

	zap.L().Debug("Obtained upload target",
		zap.String("session", sess.ID),
		zap.String("uid", target.UID),
	)
	emit(progressGotTarget)

	sess.setStatus(StatusTransferring)

	if err := u.transfer(ctx, target.UploadURL, in, emit); err != nil {
		sess.setStatus(StatusFailed)
		return "", err
	}

	emit(progressDone)
	sess.setStatus(StatusComplete)

	zap.L().Info("Upload finished",
		zap.String("session", sess.ID),
		zap.String("uid", target.UID),
		zap.Int64("size", in.Size),
	)

	return target.UID, nil
}

func (u *Uploader) requestTarget(ctx context.Context, in UploadInput) (*brokerResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, u.RequestTimeout)
	defer cancel()

	body, _ := json.Marshal(brokerRequest{
		Filename: in.Name,
		Filesize: in.Size,
		Filetype: in.MimeType,
	})

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, u.BrokerURL, bytes.NewReader(body))
	if err != nil {
		return nil, &BrokerError{Kind: KindUnreachable, Detail: err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := u.HTTP.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &BrokerError{Kind: KindTimeout, Detail: err.Error()}
		}

		return nil, &BrokerError{Kind: KindUnreachable, Detail: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &e)

		detail := e.Error
		if detail == "" {
			detail = strings.TrimSpace(string(respBody))
		}

		kind := KindUpstream
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			kind = KindRateLimited
		case http.StatusRequestEntityTooLarge:
			kind = KindTooLarge
		}

		return nil, &BrokerError{Kind: kind, Status: resp.StatusCode, Detail: detail}
	}

	var br brokerResponse
	if err := json.Unmarshal(respBody, &br); err != nil || br.UploadURL == "" || br.UID == "" {
		return nil, &BrokerError{Kind: KindBadResponse}
	}

	return &br, nil
}

func (u *Uploader) transfer(ctx context.Context, uploadURL string, in UploadInput, emit func(int)) error {
	trCtx, cancel := context.WithTimeout(ctx, u.TransferTimeout)
	defer cancel()

	src := &progressReader{r: in.Body, size: in.Size, report: emit}

	// The multipart body is produced on the fly so arbitrarily large files
	// never sit in memory.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", in.Name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}

		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(trCtx, http.MethodPost, uploadURL, pr)
	if err != nil {
		return &TransferError{Kind: KindUnreachable, Detail: err.Error()}
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.HTTP.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return &TransferError{Kind: KindCanceled}
		case isTimeout(err):
			return &TransferError{Kind: KindTimeout}
		default:
			return &TransferError{Kind: KindUnreachable, Detail: err.Error()}
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch resp.StatusCode {
	case http.StatusRequestEntityTooLarge:
		return &TransferError{Kind: KindTooLarge, Status: resp.StatusCode}
	case http.StatusTooManyRequests:
		return &TransferError{Kind: KindRateLimited, Status: resp.StatusCode}
	default:
		return &TransferError{
			Kind:   KindUpstream,
			Status: resp.StatusCode,
			Detail: strings.TrimSpace(string(respBody)),
		}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
