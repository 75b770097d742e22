// Package listing talks to the remote ideas API and builds the queries sent to
// it.
package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher retrieves one page of the listing. *Client implements it and tests
// substitute their own.
type Fetcher interface {
	FetchPage(ctx context.Context, q QuerySpec) (*Page, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// ErrFetch is matched by every error FetchPage returns.
var ErrFetch = errors.New("listing fetch failed")

// FetchError describes a failed listing request. Status is zero for transport
// and decode failures.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("listing %s returned status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("listing %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrFetch) match any FetchError.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// Client talks to the listing API.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
}

const defaultUserAgent = "ideas/0.1"

// NewClient builds a Client for the listing endpoint. A zero timeout leaves
// requests unbounded.
func NewClient(endpoint string, timeout time.Duration) (*Client, error) {
	u, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	return &Client{
		endpoint:  u,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// SetUserAgent overrides the User-Agent header sent with each request.
func (c *Client) SetUserAgent(ua string) {
	if ua = strings.TrimSpace(ua); ua != "" {
		c.userAgent = ua
	}
}

// FetchPage requests one page of ideas.
func (c *Client) FetchPage(ctx context.Context, q QuerySpec) (*Page, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values, err := q.Values()
	if err != nil {
		return nil, &FetchError{URL: c.endpoint.String(), Err: fmt.Errorf("encode query: %w", err)}
	}
	reqURL := *c.endpoint
	reqURL.RawQuery = values.Encode()

	var page Page
	if err := c.get(ctx, &reqURL, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) get(ctx context.Context, reqURL *url.URL, dest any) error {
	target := reqURL.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &FetchError{URL: target, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{URL: target, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{URL: target, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &FetchError{URL: target, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func parseEndpoint(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("listing endpoint is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", endpoint, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
