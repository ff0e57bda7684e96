// Package api is the HTTP transport shared by every gateway and repository of the client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/yogastudio/yoga/internal/prom"
	"github.com/yogastudio/yoga/pkg/model"
)

// RequestIDHeader carries the per-request id, on the way out and in logs.
const RequestIDHeader = "X-Request-ID"

// TokenSource provides the bearer token attached to outgoing requests, if any.
type TokenSource interface {
	Token() (string, bool)
}

// Client issues JSON requests against the backend. It imposes no timeout and never retries.
type Client struct {
	log    *log.Entry
	base   *url.URL
	cl     *http.Client
	tokens TokenSource
}

// NewClient returns a client rooted at baseURL. tokens may be nil for unauthenticated use.
func NewClient(baseURL string, tokens TokenSource) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing base url %q", baseURL)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Errorf("base url %q must be http or https", baseURL)
	}
	return &Client{
		log:    log.WithField("component", "api-client"),
		base:   base,
		cl:     cleanhttp.DefaultClient(),
		tokens: tokens,
	}, nil
}

// WithHTTPClient swaps the underlying http.Client; used by tests.
func (c *Client) WithHTTPClient(cl *http.Client) *Client {
	c.cl = cl
	return c
}

// Get decodes the response of GET path into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post sends in as JSON and decodes the response into out, when out is non-nil.
func (c *Client) Post(ctx context.Context, path string, in, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

// Put sends in as JSON and decodes the response into out, when out is non-nil.
func (c *Client) Put(ctx context.Context, path string, in, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, in, out)
}

// Delete issues DELETE path and decodes the response into out, when out is non-nil.
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs one round trip. Non-2xx responses come back as *StatusError; network failures and
// undecodable bodies wrap ErrTransport.
func (c *Client) Do(ctx context.Context, method, path string, in, out interface{}) (err error) {
	route := RouteOf(path)
	defer prom.Time(prom.APIRequestDuration.WithLabelValues(method, route))()
	defer prom.ErrCount(prom.APIErrors.WithLabelValues(method, route), &err)

	requestID := uuid.New().String()
	logger := c.log.WithFields(log.Fields{
		"method":     method,
		"path":       path,
		"request-id": requestID,
	})

	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return err
	}
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.cl.Do(req)
	if err != nil {
		prom.APIRequests.WithLabelValues(method, route, "error").Inc()
		logger.WithError(err).Debug("request failed")
		return AsErrTransport(err, "%s %s", method, path)
	}
	defer func() {
		if cErr := resp.Body.Close(); cErr != nil {
			logger.WithError(cErr).Warn("failed to close response body")
		}
	}()

	prom.APIRequests.WithLabelValues(method, route, strconv.Itoa(resp.StatusCode)).Inc()
	logger = logger.WithField("code", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return AsErrTransport(err, "reading response of %s %s", method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Debug("request rejected")
		return &StatusError{
			Method:  method,
			Path:    path,
			Code:    resp.StatusCode,
			Message: messageOf(body),
		}
	}
	logger.Debug("request done")

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return AsErrTransport(err, "decoding response of %s %s", method, path)
	}
	return nil
}

func (c *Client) newRequest(
	ctx context.Context, method, path string, in interface{},
) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing path %q", path)
	}
	target := c.base.ResolveReference(ref)
	if c.base.Path != "" && c.base.Path != "/" {
		target = c.base.JoinPath(ref.Path)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding body of %s %s", method, path)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, errors.Wrapf(err, "creating request %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// messageOf extracts the "message" of a JSON error body, or falls back to the raw text.
func messageOf(body []byte) string {
	var m model.MessageResponse
	if err := json.Unmarshal(body, &m); err == nil && m.Message != "" {
		return m.Message
	}
	return strings.TrimSpace(string(body))
}

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// RouteOf collapses numeric path segments so that metrics keep a bounded label set.
func RouteOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	for numericSegment.MatchString(path) {
		path = numericSegment.ReplaceAllString(path, "/:id$1")
	}
	return path
}
