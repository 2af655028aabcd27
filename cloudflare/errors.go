package cloudflare

import "fmt"

// ConfigError means the Stream account ID or API token is missing. The
// broker refuses the request outright instead of leaking partial behavior.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return "missing Cloudflare Stream configuration: " + e.Missing
}

// UpstreamError carries a non-success response from the Stream API. The
// status and body are kept for diagnostics; the bearer token never appears
// in either.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Stream API responded with status %d: %s", e.Status, e.Body)
}

// ProtocolError means the Stream API answered 2xx but the response was
// missing the upload URL or video UID.
type ProtocolError struct {
	Body string
}

func (e *ProtocolError) Error() string {
	return "unexpected Stream API response shape: " + e.Body
}
