package service

import "io"

// Progress checkpoints. 5 signals that the pipeline started requesting a
// target, 10 that a target was obtained. Both are UX checkpoints, not
// measured facts. Transferred bytes map into [10, 95]; 100 is reserved for
// the moment the upload host acknowledges the transfer.
const (
	progressStarted   = 5
	progressGotTarget = 10
	progressCeiling   = 95
	progressDone      = 100
)

// scaleProgress maps transferred bytes into the [10, 95] band. Both
// scaling passes use integer floor division, so the value rounds half
// down and stays monotone as sent grows.
func scaleProgress(sent, size int64) int {
	if size <= 0 {
		return progressGotTarget
	}

	pct := sent * 100 / size
	if pct > 100 {
		pct = 100
	}

	total := progressGotTarget + int(pct*85/100)
	if total > progressCeiling {
		total = progressCeiling
	}

	return total
}

// progressReader reports transfer progress as the upload request body is
// consumed. Only file bytes count; multipart framing overhead does not.
type progressReader struct {
	r      io.Reader
	size   int64
	sent   int64
	report func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.report(scaleProgress(p.sent, p.size))
	}

	return n, err
}
