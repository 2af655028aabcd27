// Package viewer derives the public viewer link for an uploaded video.
package viewer

import "strings"

// A Resolver builds viewer page URLs from a fixed base host.
type Resolver struct {
	BaseURL string
}

func New(baseURL string) *Resolver {
	return &Resolver{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Resolve returns the viewer URL for a record. The record ID always wins
// when present so a video is never reachable under two different URL
// schemes. When persistence failed the raw video ID is used instead
// (degraded mode). With neither there is no link yet and an empty string
// is returned.
func (r *Resolver) Resolve(recordID, videoID string) string {
	switch {
	case recordID != "":
		return r.BaseURL + "/view/" + recordID
	case videoID != "":
		return r.BaseURL + "/view/" + videoID
	default:
		return ""
	}
}
