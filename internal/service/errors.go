package service

import (
	"fmt"
	"strings"
)

// ErrorKind classifies what went wrong while talking to the broker or
// streaming bytes to the upload target. The caller renders an actionable
// message from it.
type ErrorKind int

const (
	KindUnreachable ErrorKind = iota
	KindTimeout
	KindTooLarge
	KindRateLimited
	KindUpstream
	KindBadResponse
	KindCanceled
)

// BrokerError means requesting an upload target from the broker failed,
// either because the broker could not be reached or because it reported a
// failure of its own.
type BrokerError struct {
	Kind   ErrorKind
	Status int
	Detail string
}

func (e *BrokerError) Error() string {
	switch e.Kind {
	case KindUnreachable:
		return "could not reach the upload broker: " + e.Detail
	case KindTimeout:
		return "timed out waiting for the upload broker"
	case KindRateLimited:
		return "the broker is rate limiting requests, try again in a moment"
	case KindBadResponse:
		return "the broker response was missing the upload URL or video ID"
	default:
		msg := fmt.Sprintf("the broker rejected the request (%d)", e.Status)
		if e.Detail != "" {
			msg += ": " + e.Detail
		}

		return msg + remediationHint(e.Detail)
	}
}

// TransferError means streaming the file to the upload target failed. The
// kind distinguishes at minimum: unreachable host, timeout, oversized
// payload, rate limiting and generic upstream rejection.
type TransferError struct {
	Kind   ErrorKind
	Status int
	Detail string
}

func (e *TransferError) Error() string {
	switch e.Kind {
	case KindUnreachable:
		return "could not reach the upload host: " + e.Detail
	case KindTimeout:
		return "the transfer timed out, the file may be too large for your connection"
	case KindTooLarge:
		return "the upload host rejected the file as too large"
	case KindRateLimited:
		return "the upload host is rate limiting requests, try again in a moment"
	case KindCanceled:
		return "the upload was canceled"
	default:
		msg := fmt.Sprintf("the upload host rejected the transfer (%d)", e.Status)
		if e.Detail != "" {
			msg += ": " + e.Detail
		}

		return msg
	}
}

// remediationHint appends setup guidance when an upstream error message
// points at missing broker configuration.
func remediationHint(detail string) string {
	d := strings.ToLower(detail)
	if strings.Contains(d, "configuration") || strings.Contains(d, "missing") {
		return "\n\nThe broker appears to be misconfigured. Make sure cloudflare.account_id and cloudflare.api_token are set in its environment."
	}

	return ""
}
