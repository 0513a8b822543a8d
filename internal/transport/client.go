// Package transport delivers accepted submissions to a collecting
// endpoint. It knows nothing about validation; callers validate first.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/pnptools/internal/logger"
	"github.com/MrSnakeDoc/pnptools/internal/submission"
	"github.com/MrSnakeDoc/pnptools/internal/utils"
)

// Source tags every delivered submission.
const Source = "pnp-tools"

// ErrTransport wraps every delivery failure.
var ErrTransport = errors.New("submission transport failed")

// Outcome tells how much is known about a delivery that returned no error.
type Outcome int

const (
	// OutcomeVerified means the endpoint answered with a 2xx status.
	OutcomeVerified Outcome = iota + 1
	// OutcomeSent means the request left without a readable response.
	OutcomeSent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVerified:
		return "verified"
	case OutcomeSent:
		return "sent"
	default:
		return "unknown"
	}
}

// scriptHosts answer cross-origin posts without a usable response, so the
// primary attempt is skipped for them.
var scriptHosts = []string{"script.google.com", "script.googleusercontent.com"}

// StatusError is a non-2xx answer from the endpoint.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string { return e.Message }

func (e *StatusError) Is(target error) bool { return target == ErrTransport }

// Envelope is the wire body: the payload plus delivery metadata.
type Envelope struct {
	submission.Payload
	SubmittedAt string `json:"submitted_at"`
	Source      string `json:"source"`
}

// NewEnvelope stamps p with submittedAt in UTC millisecond ISO-8601.
func NewEnvelope(p submission.Payload, submittedAt time.Time) Envelope {
	return Envelope{
		Payload:     p.Sanitized(),
		SubmittedAt: submittedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		Source:      Source,
	}
}

// Client posts submissions. The zero value is not usable; use New.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	log     logger.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBaseURL sets the URL relative endpoints are resolved against.
func WithBaseURL(base *url.URL) Option {
	return func(c *Client) { c.baseURL = base }
}

func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{Timeout: 10 * time.Second},
		log:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Deliver sends p to endpoint. Absolute http(s) endpoints get one
// fire-and-forget retry when the primary attempt fails; relative endpoints
// do not.
func (c *Client) Deliver(ctx context.Context, endpoint string, p submission.Payload, submittedAt time.Time) (Outcome, error) {
	target, absolute, err := c.resolve(endpoint)
	if err != nil {
		return 0, err
	}

	body, err := json.Marshal(NewEnvelope(p, submittedAt))
	if err != nil {
		return 0, fmt.Errorf("%w: encode payload: %v", ErrTransport, err)
	}

	if isScriptHost(target.Hostname()) {
		if err := c.fireAndForget(ctx, target.String(), body); err != nil {
			return 0, err
		}
		return OutcomeSent, nil
	}

	primaryErr := c.post(ctx, target.String(), body)
	if primaryErr == nil {
		return OutcomeVerified, nil
	}
	if !absolute {
		return 0, primaryErr
	}

	c.log.Warn("primary delivery failed, sending without confirmation",
		logger.String("endpoint", target.Redacted()),
		logger.Error(primaryErr),
	)
	if err := c.fireAndForget(ctx, target.String(), body); err != nil {
		return 0, errors.Join(primaryErr, err)
	}
	return OutcomeSent, nil
}

func (c *Client) resolve(endpoint string) (*url.URL, bool, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, false, fmt.Errorf("%w: empty endpoint", ErrTransport)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, false, fmt.Errorf("%w: invalid endpoint %q: %v", ErrTransport, endpoint, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if (scheme == "http" || scheme == "https") && u.Host != "" {
		return u, true, nil
	}
	if u.IsAbs() {
		return nil, false, fmt.Errorf("%w: unsupported endpoint scheme %q", ErrTransport, u.Scheme)
	}
	if c.baseURL == nil {
		return nil, false, fmt.Errorf("%w: relative endpoint %q without base URL", ErrTransport, endpoint)
	}
	return c.baseURL.ResolveReference(u), false, nil
}

func (c *Client) post(ctx context.Context, target string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg := fmt.Sprintf("Save failed (%d)", resp.StatusCode)
	var data struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&data); err == nil && data.Error != "" {
		msg = data.Error
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}

// fireAndForget posts body as plain text and ignores the response.
func (c *Client) fireAndForget(ctx context.Context, target string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	utils.Close(resp.Body)
	return nil
}

func isScriptHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range scriptHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
