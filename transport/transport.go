// Package transport defines the fetch capability the client depends on and
// its default HTTP implementation. The interface exists so tests and callers
// can substitute their own transport; there is no shared global to patch.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Error codes.
const (
	CodeHTTPStatus = "http_status"
	CodeNetwork    = "network"
	CodeReadBody   = "read_body"
)

// Error reports a failed fetch. The client never retries; the error reaches
// the caller that triggered the fetch as-is.
type Error struct {
	Code   string
	URL    string
	Status int // HTTP status when Code is CodeHTTPStatus
	Cause  error
}

func (e *Error) Error() string {
	if e.Code == CodeHTTPStatus {
		return fmt.Sprintf("dap: transport: %s %d for %s", e.Code, e.Status, e.URL)
	}
	return fmt.Sprintf("dap: transport: %s for %s: %v", e.Code, e.URL, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Response is a completed fetch.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Fetcher retrieves a URL synchronously. Implementations must return a
// non-nil *Error (or wrapped equivalent) on network failure or non-success
// status, never a partial body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (*Response, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (*Response, error) {
	return f(ctx, url)
}

// HTTPFetcher is the default Fetcher over net/http.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
	Log       logrus.FieldLogger
}

// NewHTTPFetcher returns a fetcher over the given client, or
// http.DefaultClient when nil.
func NewHTTPFetcher(c *http.Client) *HTTPFetcher {
	if c == nil {
		c = http.DefaultClient
	}
	return &HTTPFetcher{Client: c}
}

func (h *HTTPFetcher) logger() logrus.FieldLogger {
	if h.Log != nil {
		return h.Log
	}
	return logrus.StandardLogger()
}

// Fetch performs a blocking GET. Timeouts and cancellation arrive through ctx
// or the underlying http.Client.
func (h *HTTPFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Code: CodeNetwork, URL: url, Cause: err}
	}
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}
	start := time.Now()
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, &Error{Code: CodeNetwork, URL: url, Cause: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Code: CodeReadBody, URL: url, Cause: err}
	}
	h.logger().WithFields(logrus.Fields{
		"url":      url,
		"status":   resp.StatusCode,
		"bytes":    len(body),
		"duration": time.Since(start),
	}).Debug("dap fetch")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Code: CodeHTTPStatus, URL: url, Status: resp.StatusCode}
	}
	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
