// Package cloudflare provides a client for interacting with the Cloudflare API.
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

const defaultAPIBase = "https://api.cloudflare.com/client/v4"

// UploadTarget is a one-shot upload destination issued by Cloudflare
// Stream. It is valid for a single transfer and must not be reused.
type UploadTarget struct {
	UploadURL string
	UID       string
}

type StreamClient struct {
	AccountID string
	APIToken  string
	APIBase   string
	HTTP      *http.Client
}

func NewStream() *StreamClient {
	base := viper.GetString("cloudflare.api_base")
	if base == "" {
		base = defaultAPIBase
	}

	return &StreamClient{
		AccountID: viper.GetString("cloudflare.account_id"),
		APIToken:  viper.GetString("cloudflare.api_token"),
		APIBase:   base,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

type createTargetRequest struct {
	File string `json:"file"`
	// Signed playback URLs are disabled so the viewer page can embed the
	// video with just its UID.
	RequireSignedURLs bool `json:"requireSignedURLs"`
}

type streamEnvelope struct {
	Result struct {
		UploadURL string `json:"uploadURL"`
		UID       string `json:"uid"`
		ID        string `json:"id"`
	} `json:"result"`
}

// CreateUploadTarget asks the Stream API for a direct-upload URL for the
// given file. The returned target is single-use.
func (s *StreamClient) CreateUploadTarget(ctx context.Context, filename string) (*UploadTarget, error) {
	if err := s.checkConfig(); err != nil {
		return nil, err
	}

	body, _ := json.Marshal(createTargetRequest{
		File:              filename,
		RequireSignedURLs: false,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/accounts/%s/stream", s.APIBase, s.AccountID), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build Stream API request, %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach the Stream API, %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var env streamEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, &ProtocolError{Body: string(respBody)}
	}

	uid := env.Result.UID
	if uid == "" {
		uid = env.Result.ID
	}

	if env.Result.UploadURL == "" || uid == "" {
		return nil, &ProtocolError{Body: string(respBody)}
	}

	return &UploadTarget{
		UploadURL: env.Result.UploadURL,
		UID:       uid,
	}, nil
}

// GetVideo proxies a video metadata lookup. Upstream error statuses are
// surfaced verbatim through the returned UpstreamError.
func (s *StreamClient) GetVideo(ctx context.Context, uid string) (json.RawMessage, error) {
	if err := s.checkConfig(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/accounts/%s/stream/%s", s.APIBase, s.AccountID, uid), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Stream API request, %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.APIToken)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach the Stream API, %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var env struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(respBody, &env); err == nil && len(env.Result) > 0 && string(env.Result) != "null" {
		return env.Result, nil
	}

	return respBody, nil
}

func (s *StreamClient) checkConfig() error {
	if s.AccountID == "" {
		return &ConfigError{Missing: "account ID"}
	}

	if s.APIToken == "" {
		return &ConfigError{Missing: "API token"}
	}

	return nil
}
