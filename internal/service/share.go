package service

import (
	"blueclova/share-api/db"
	"blueclova/share-api/internal/viewer"
	"blueclova/share-api/pkg/util"
	"context"
	"errors"

	"go.uber.org/zap"
)

// RecordStore persists one record per successful upload.
type RecordStore interface {
	SaveRecord(ctx context.Context, videoID, password string) (string, error)
}

// UploadPipeline is what Share needs from the Uploader.
type UploadPipeline interface {
	Upload(ctx context.Context, sess *Session, in UploadInput, onProgress func(int)) (string, error)
}

type ShareResult struct {
	VideoID   string
	Password  string
	RecordID  string
	ViewerURL string

	// Degraded is set when the upload succeeded but the record could not
	// be saved. The viewer link then falls back to the raw video ID.
	Degraded bool
	Warning  string
}

// Share drives one complete attempt: generate a password, upload the
// file, persist the record and resolve the viewer link.
type Share struct {
	Pipeline UploadPipeline
	Store    RecordStore // nil when no record store is configured
	Links    *viewer.Resolver
}

func NewShare(p UploadPipeline, store RecordStore, links *viewer.Resolver) *Share {
	return &Share{
		Pipeline: p,
		Store:    store,
		Links:    links,
	}
}

func (s *Share) Do(ctx context.Context, in UploadInput, onProgress func(int)) (*ShareResult, error) {
	// The password is generated before the transfer starts so it exists
	// even when persistence later fails.
	password := util.GeneratePassword()

	sess := NewSession(in.Name, in.Size, in.MimeType)

	uid, err := s.Pipeline.Upload(ctx, sess, in, onProgress)
	if err != nil {
		return nil, err
	}

	res := &ShareResult{
		VideoID:  uid,
		Password: password,
	}

	sess.setStatus(StatusPersisting)

	recordID, err := s.saveRecord(ctx, uid, password)
	if err != nil {
		// A failed record write never fails the upload. The video ID and
		// password above stay valid, the link just gets less friendly.
		zap.L().Warn("Record store write failed, continuing in degraded mode",
			zap.String("session", sess.ID),
			zap.String("uid", uid),
			zap.Error(err),
		)

		res.Degraded = true
		res.Warning = "The upload finished, but the record could not be saved. The viewer link below uses the raw video ID instead."
	} else {
		res.RecordID = recordID
	}

	sess.setStatus(StatusComplete)

	res.ViewerURL = s.Links.Resolve(res.RecordID, res.VideoID)

	return res, nil
}

func (s *Share) saveRecord(ctx context.Context, videoID, password string) (string, error) {
	if s.Store == nil {
		return "", &db.PersistenceError{Err: errors.New("record store is not configured")}
	}

	return s.Store.SaveRecord(ctx, videoID, password)
}
