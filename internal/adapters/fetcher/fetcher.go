// Package fetcher retrieves remote documents over HTTP.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	// DefaultMaxBodyBytes caps the size of a fetched document.
	DefaultMaxBodyBytes int64 = 10 << 20

	defaultUserAgent = "api-explorer"
	defaultAccept    = "application/json, application/yaml;q=0.9, */*;q=0.8"
)

// ErrBodyTooLarge is returned when the response body exceeds the configured cap.
var ErrBodyTooLarge = errors.New("response body too large")

// TransportError reports a failed request or a non-success HTTP status.
// StatusCode is zero when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Status     string // status text, e.g. "Not Found"
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("failed to fetch API docs from %s: %v", e.URL, e.Err)
	}

	return fmt.Sprintf("failed to fetch API docs from %s (status: %d %s)", e.URL, e.StatusCode, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithAccept sets the Accept header.
func WithAccept(accept string) Option {
	return func(c *Client) {
		if accept != "" {
			c.accept = accept
		}
	}
}

// WithMaxBodyBytes caps the response body size.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// Client performs GET requests. It sets no timeout of its own: abandoned
// requests are left to finish and their results are discarded by the caller.
type Client struct {
	http         *http.Client
	userAgent    string
	accept       string
	maxBodyBytes int64
}

// New creates a new Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:         http.DefaultClient,
		userAgent:    defaultUserAgent,
		accept:       defaultAccept,
		maxBodyBytes: DefaultMaxBodyBytes,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch retrieves the body at url. A status outside 2xx is a *TransportError.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	req.Header.Set("Accept", c.accept)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

		return nil, &TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	if int64(len(body)) > c.maxBodyBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, c.maxBodyBytes)
	}

	return body, nil
}
