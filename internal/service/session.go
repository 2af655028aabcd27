package service

import (
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type SessionStatus string

const (
	StatusIdle             SessionStatus = "idle"
	StatusRequestingTarget SessionStatus = "requesting-target"
	StatusTransferring     SessionStatus = "transferring"
	StatusPersisting       SessionStatus = "persisting"
	StatusComplete         SessionStatus = "complete"
	StatusFailed           SessionStatus = "failed"
)

// A Session tracks one upload attempt. Progress is written only by the
// pipeline and read by whoever renders it, so plain atomic fields are
// enough. The ID keys progress reporting so a future concurrent-transfer
// extension doesn't need an interface change.
type Session struct {
	ID       string
	Filename string
	Size     int64
	MimeType string

	progress atomic.Int32
	status   atomic.Value
}

func NewSession(filename string, size int64, mimeType string) *Session {
	id, err := gonanoid.New(12)
	if err != nil {
		id = "session"
	}

	s := &Session{
		ID:       id,
		Filename: filename,
		Size:     size,
		MimeType: mimeType,
	}
	s.status.Store(StatusIdle)

	return s
}

func (s *Session) Progress() int {
	return int(s.progress.Load())
}

func (s *Session) Status() SessionStatus {
	return s.status.Load().(SessionStatus)
}

func (s *Session) setStatus(st SessionStatus) {
	s.status.Store(st)
}

// bump raises the progress to p and reports whether it increased.
// Progress never regresses, whatever order callers observe events in.
func (s *Session) bump(p int) bool {
	for {
		cur := s.progress.Load()
		if int32(p) <= cur {
			return false
		}

		if s.progress.CompareAndSwap(cur, int32(p)) {
			return true
		}
	}
}
