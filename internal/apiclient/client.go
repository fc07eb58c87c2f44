// Package apiclient talks to the remote campus API.  Read helpers never
// fail: transport errors, non-2xx answers and unexpected JSON degrade to an
// empty result and a log line.  Write helpers return the error so the page
// can tell the user and stay where it is.  Nothing is retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
)

var (
	// ErrTransport wraps network and request-building failures.
	ErrTransport = errors.New("apiclient: transport failure")
	// ErrUnexpectedStatus wraps non-2xx responses.
	ErrUnexpectedStatus = errors.New("apiclient: unexpected status")
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// Client is safe for concurrent use.
type Client struct {
	base string
	http *http.Client
	log  *log.Logger
}

// New returns a client for the API at base with a per-call timeout.
func New(base string, timeout time.Duration) *Client {
	return NewWithHTTPClient(base, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient lets tests and callers supply the transport.
func NewWithHTTPClient(base string, hc *http.Client) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: hc,
		log:  log.New("apiclient"),
	}
}

// Base is the API base URL without a trailing slash.
func (c *Client) Base() string { return c.base }

// do performs one call.  token may be empty for public endpoints.
func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: read body: %v", ErrTransport, method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return data, fmt.Errorf("%w: %s %s returned %d", ErrUnexpectedStatus, method, path, resp.StatusCode)
	}
	return data, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: encode %s %s: %v", ErrTransport, method, path, err)
		}
		body = bytes.NewReader(b)
	}
	return c.do(ctx, method, path, token, body, "application/json")
}

// read performs a GET and logs failures.  ok is false when the caller
// should fall back to its empty value.
func (c *Client) read(ctx context.Context, path, token, what string) ([]byte, bool) {
	data, err := c.do(ctx, http.MethodGet, path, token, nil, "")
	if err != nil {
		c.log.Warnf("%s: %v", what, err)
		return nil, false
	}
	return data, true
}
