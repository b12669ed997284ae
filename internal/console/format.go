package console

import (
	"bytes"
	"encoding/json"
)

// Status classes for response rendering.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// FormatJSON pretty prints body with two-space indentation. Bodies that are
// not JSON come back unchanged.
func FormatJSON(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}

// StatusClass buckets an HTTP status: 2xx success, 4xx warning, 5xx error.
// Anything else, including 0 for network failures, has no class.
func StatusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return StatusSuccess
	case status >= 400 && status < 500:
		return StatusWarning
	case status >= 500:
		return StatusError
	}
	return ""
}
