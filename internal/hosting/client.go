// Package hosting talks to the hosting provider's redeploy-trigger endpoint.
package hosting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.render.com/v1"
	defaultTimeout = 20 * time.Second

	// maxBodyExcerpt bounds how much of an error response body is surfaced.
	maxBodyExcerpt = 400
)

// Client triggers redeploys using the hosting-secret as a bearer credential.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
	timeout time.Duration
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithVerbose(enabled bool, w io.Writer) Option {
	return func(c *Client) {
		if !enabled {
			return
		}
		if w == nil {
			w = os.Stderr
		}
		c.http = &http.Client{Transport: &loggingRoundTripper{base: http.DefaultTransport, w: w}}
	}
}

func NewClient(key string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		key:     key,
		http:    &http.Client{},
		timeout: defaultTimeout,
	}
	for _, apply := range opts {
		if apply != nil {
			apply(c)
		}
	}
	return c
}

type loggingRoundTripper struct {
	base http.RoundTripper
	w    io.Writer
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	_, _ = fmt.Fprintf(t.w, "[verbose] hosting api: %s %s\n", req.Method, req.URL.String())
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start)
	if err != nil {
		_, _ = fmt.Fprintf(t.w, "[verbose] hosting api: error after %s: %v\n", dur.Truncate(time.Millisecond), err)
	} else {
		_, _ = fmt.Fprintf(t.w, "[verbose] hosting api: %d %s (%s)\n", resp.StatusCode, http.StatusText(resp.StatusCode), dur.Truncate(time.Millisecond))
	}
	return resp, err
}

// Deploy is the provider's acknowledgement of a redeploy request.
type Deploy struct {
	ID string `json:"id"`
}

// StatusError reports a redeploy request the provider did not accept.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("hosting provider responded HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("hosting provider responded HTTP %d: %s", e.StatusCode, e.Body)
}

// TriggerDeploy requests a redeploy of serviceID. The two accepted statuses
// are 201 and 202; anything else returns a *StatusError with a bounded body
// excerpt. Network failures and timeouts return the transport error.
func (c *Client) TriggerDeploy(ctx context.Context, serviceID string) (*Deploy, error) {
	if strings.TrimSpace(serviceID) == "" {
		return nil, errors.New("hosting: service ID is empty")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	url := fmt.Sprintf("%s/services/%s/deploys", c.baseURL, serviceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("hosting: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hosting: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       readExcerpt(resp.Body),
		}
	}

	var d Deploy
	// The acknowledgement body is informational; a malformed one is not a
	// failed deploy.
	_ = json.NewDecoder(resp.Body).Decode(&d)
	return &d, nil
}

func readExcerpt(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxBodyExcerpt+1))
	s := strings.TrimSpace(string(b))
	if len(s) > maxBodyExcerpt {
		s = s[:maxBodyExcerpt]
	}
	return s
}
