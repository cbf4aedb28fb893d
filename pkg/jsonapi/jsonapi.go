// Package jsonapi posts JSON to bearer-authenticated REST APIs. It is the
// transport shared by the hand-written LLM clients.
package jsonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// maxErrorBody bounds how much of a failed response is kept in StatusError.
const maxErrorBody = 4 << 10

// StatusError is returned for non-200 responses.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
	// RetryAfter is parsed from the Retry-After header, zero when absent.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Caller holds what every request of one API shares.
type Caller struct {
	Service string
	BaseURL string
	APIKey  string
	Header  http.Header
	HTTP    *http.Client
}

// DefaultHTTPClient returns the client used when none is configured. Web
// search answers can take well over a minute.
func DefaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 90 * time.Second,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Post sends in as JSON to BaseURL+path and decodes a 200 answer into out.
func (c *Caller) Post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return eris.Wrapf(err, "%s: marshal request", c.Service)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrapf(err, "%s: create request", c.Service)
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	hc := c.HTTP
	if hc == nil {
		hc = DefaultHTTPClient()
	}
	resp, err := hc.Do(req)
	if err != nil {
		return eris.Wrapf(err, "%s: send request", c.Service)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Service:    c.Service,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrapf(err, "%s: read response", c.Service)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return eris.Wrapf(err, "%s: unmarshal response", c.Service)
	}
	return nil
}

// ParseRetryAfter reads a Retry-After value given in seconds or as an HTTP
// date. Unparseable or past values return zero.
func ParseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}
