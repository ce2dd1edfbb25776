// Package client implements the Linistrate API client. Every protected call
// is issued through a single pipeline that attaches the bearer credential
// from the session store, treats a 401 as session expiry by clearing the
// session, and normalizes all other failures into typed errors.
package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/linistrate/linictl/internal/session"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 30 * time.Second

	// each call is an independent request, no retries unless configured
	defaultRetryMax = 0
)

type Client struct {
	endpoint string
	session  *session.Store
	http     *retryablehttp.Client
	logger   *logrus.Logger
}

type Option func(*Client)

// WithTimeout overrides the transport timeout on the underlying HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.HTTPClient.Timeout = timeout
	}
}

// WithRetryMax sets the transport-level retry count for connection and 5xx
// failures. The pipeline itself performs no application-level retries.
func WithRetryMax(retryMax int) Option {
	return func(c *Client) {
		c.http.RetryMax = retryMax
	}
}

func New(endpoint string, sess *session.Store, logger *logrus.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("invalid endpoint URL: " + endpoint)
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = defaultRetryMax
	httpClient.HTTPClient.Timeout = defaultTimeout
	httpClient.Logger = nil

	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		session:  sess,
		http:     httpClient,
		logger:   logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Session returns the session store backing this client.
func (c *Client) Session() *session.Store {
	return c.session
}

// do issues a protected API call - the single chokepoint of the pipeline.
//
// The bearer token is attached when a session is present. A 401 response
// clears the session and returns ErrSessionExpired without decoding a body,
// so the caller never receives data from an expired-session call. Any other
// non-2xx response returns an *HTTPError. The 2xx body is decoded into out
// verbatim, no schema validation.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.roundTrip(ctx, method, path, body, true)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if cerr := c.session.Clear(); cerr != nil {
			c.logger.WithError(cerr).Warn("clearing expired session")
		}

		return ErrSessionExpired
	}

	return c.decode(resp, out)
}

// public issues an unauthenticated call (login, registration, liveness).
// No credential is attached and a 401 is reported as a plain HTTPError.
func (c *Client) public(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.roundTrip(ctx, method, path, body, false)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	return c.decode(resp, out)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body interface{}, authed bool) (*http.Response, error) {
	var payload []byte

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(ErrRequest, "encoding request body: "+err.Error())
		}

		payload = b
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.endpoint+path, payload)
	if err != nil {
		return nil, errors.Wrap(ErrRequest, err.Error())
	}

	requestID := uuid.NewString()

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	if authed {
		if token, err := c.session.Token(); err == nil {
			req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	}).Debug("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(ErrRequest, err.Error())
	}

	return resp, nil
}

func (c *Client) decode(resp *http.Response, out interface{}) error {
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newHTTPError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(ErrRequest, "decoding response: "+err.Error())
	}

	return nil
}
