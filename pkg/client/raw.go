package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// maxResponseBody caps how much of a console response is kept.
const maxResponseBody = 4 << 20

// Request is a raw call issued from the console. Path may carry a query string.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Response is what the console shows for a raw call. Status is 0 when the
// request never reached the service.
type Response struct {
	OK         bool
	Status     int
	StatusText string
	Body       []byte
	RequestID  string
	Duration   time.Duration
	URL        string
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Send issues r and returns whatever came back. It never fails: transport
// errors are folded into a Status 0 "Network Error" response whose body is
// {"error": "<message>"}.
func (c *Client) Send(ctx context.Context, r Request) *Response {
	start := time.Now()

	var body io.Reader
	contentType := ""
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, r.Method, r.Path, body, contentType)
	if err != nil {
		return networkError(c.baseURL+r.Path, "", err, start)
	}
	reqID := req.Header.Get("X-Request-ID")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkError(req.URL.String(), reqID, err, start)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return networkError(req.URL.String(), reqID, err, start)
	}

	return &Response{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Body:       data,
		RequestID:  reqID,
		Duration:   time.Since(start),
		URL:        req.URL.String(),
	}
}

func networkError(url, reqID string, err error, start time.Time) *Response {
	body, _ := json.Marshal(map[string]string{"error": err.Error()}) //nolint:errcheck // map of strings always marshals
	return &Response{
		Status:     0,
		StatusText: "Network Error",
		Body:       body,
		RequestID:  reqID,
		Duration:   time.Since(start),
		URL:        url,
	}
}
