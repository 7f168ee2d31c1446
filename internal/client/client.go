// Package client is the owner-side SDK for the portfolio server: a session,
// cached data hooks that validate before sending, uploads, the profile
// realtime watcher and the contact relay.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/templui/portfolio/internal/cache"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/validation"
)

type Client struct {
	baseURL      *url.URL
	http         *http.Client
	query        *cache.Query
	memory       *cache.Memory
	notify       func(model.Notification)
	defaultOwner string

	Session      *Session
	Projects     *Projects
	Certificates *Certificates
	Problems     *Problems
	Profile      *ProfileHook
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithNotifier receives the outcome of every write.
func WithNotifier(fn func(model.Notification)) Option {
	return func(c *Client) { c.notify = fn }
}

// WithDefaultOwner sets whose profile is shown while signed out.
func WithDefaultOwner(userID string) Option {
	return func(c *Client) { c.defaultOwner = userID }
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.useCache(ttl) }
}

func (c *Client) useCache(ttl time.Duration) {
	c.memory = cache.NewMemory()
	c.query = cache.NewQuery(c.memory, ttl)
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 30 * time.Second},
		notify:  func(model.Notification) {},
	}
	c.useCache(5 * time.Minute)
	for _, opt := range opts {
		opt(c)
	}

	c.Session = &Session{c: c}
	c.Projects = newProjects(c)
	c.Certificates = newCertificates(c)
	c.Problems = newProblems(c)
	c.Profile = &ProfileHook{c: c}

	return c, nil
}

type envelope struct {
	Data         json.RawMessage     `json:"data"`
	Notification *model.Notification `json:"notification"`
	OwnerID      string              `json:"owner_id,omitempty"`

	status int
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// do sends a JSON request and decodes the data field of the answer into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (*model.Notification, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) (*model.Notification, error) {
	env, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	if out != nil && len(env.Data) > 0 {
		err = json.Unmarshal(env.Data, out)
		if err != nil {
			return nil, &BackendError{Status: env.status, Message: "invalid response data: " + err.Error()}
		}
	}
	return env.Notification, nil
}

// roundTrip sends req and returns the decoded envelope of a 2xx answer.
func (c *Client) roundTrip(req *http.Request) (*envelope, error) {
	req.Header.Set("Accept", "application/json")
	if token := c.Session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &BackendError{Message: err.Error()}
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Debug("failed to close response body", "error", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &BackendError{Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if json.Unmarshal(raw, &eb) != nil || eb.Error == "" {
			eb.Error = http.StatusText(resp.StatusCode)
		}
		return nil, &BackendError{Status: resp.StatusCode, Message: eb.Error, Fields: eb.Fields}
	}

	var env envelope
	err = json.Unmarshal(raw, &env)
	if err != nil {
		return nil, &BackendError{Status: resp.StatusCode, Message: "invalid response: " + err.Error()}
	}
	env.status = resp.StatusCode
	return &env, nil
}

func (c *Client) url(path string) string {
	return c.baseURL.String() + path
}

// requireSession fails fast, before any request, when nobody is signed in.
func (c *Client) requireSession() error {
	if c.Session.User() == nil {
		c.notify(model.Notification{Title: "Error", Description: "You must be logged in", Variant: model.NotificationError})
		return ErrUnauthenticated
	}
	return nil
}

// report turns the outcome of a write into a notification.
func (c *Client) report(n *model.Notification, err error, failure string) {
	if err == nil {
		if n != nil {
			c.notify(*n)
		}
		return
	}

	// requireSession already said so
	if errors.Is(err, ErrUnauthenticated) {
		return
	}

	msg := failure
	var be *BackendError
	switch {
	case errors.As(err, &be) && be.Message != "":
		msg = be.Message
	case errors.Is(err, validation.ErrValidation), errors.Is(err, validation.ErrInvalidFile):
		msg = err.Error()
	}
	c.notify(model.Notification{Title: "Error", Description: msg, Variant: model.NotificationError})
}
