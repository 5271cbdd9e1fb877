// Package network implements the network port over net/http.
package network

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
)

var _ ports.Network = (*Client)(nil)

// hopHeaders are connection-scoped and never forwarded or stored.
var hopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Client fetches requests addressed to the gateway scope from the upstream
// origin. Requests to other origins are fetched as they are.
type Client struct {
	httpClient *http.Client
	scope      *url.URL
	upstream   *url.URL
	timeout    time.Duration
}

// NewClient creates a client that maps scope onto upstream.
// A zero timeout means requests are bounded only by their context.
func NewClient(scope, upstream *url.URL, timeout time.Duration) *Client {
	return NewClientWithHTTP(&http.Client{}, scope, upstream, timeout)
}

// NewClientWithHTTP is NewClient with a caller supplied http.Client.
func NewClientWithHTTP(hc *http.Client, scope, upstream *url.URL, timeout time.Duration) *Client {
	return &Client{
		httpClient: hc,
		scope:      scope,
		upstream:   upstream,
		timeout:    timeout,
	}
}

// Fetch performs req and snapshots the response.
func (c *Client) Fetch(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	if req == nil || req.URL == nil {
		return nil, &FetchError{Cause: ErrCauseInvalidRequest, Message: "missing url"}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.toUpstream(req.URL)
	hreq, err := http.NewRequestWithContext(ctx, method, target.String(), nil)
	if err != nil {
		return nil, &FetchError{Cause: ErrCauseInvalidRequest, Message: err.Error(), Err: err}
	}
	hreq.Header = outgoingHeader(req.Header)

	resp, err := c.httpClient.Do(hreq)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Cause: ErrCauseReadResponseBody, Message: err.Error(), Err: err}
	}

	final := target
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL
	}

	header := resp.Header.Clone()
	for _, h := range hopHeaders {
		header.Del(h)
	}
	header.Del("Content-Length")
	if resp.Uncompressed {
		header.Del("Content-Encoding")
	}

	return &domain.Response{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Header:     header,
		Body:       body,
		Type:       c.responseType(final),
		URL:        c.fromUpstream(final),
	}, nil
}

// toUpstream rewrites a scope URL onto the upstream origin.
func (c *Client) toUpstream(u *url.URL) *url.URL {
	if c.upstream == nil || !domain.SameOrigin(c.scope, u) {
		return u
	}
	out := *u
	out.Scheme = c.upstream.Scheme
	out.Host = c.upstream.Host
	out.Fragment = ""
	out.RawFragment = ""
	if base := strings.TrimSuffix(c.upstream.Path, "/"); base != "" {
		out.Path = base + u.Path
		out.RawPath = ""
	}
	return &out
}

// fromUpstream maps an upstream URL back into the scope.
func (c *Client) fromUpstream(u *url.URL) *url.URL {
	if c.upstream == nil || !domain.SameOrigin(c.upstream, u) {
		return u
	}
	out := *u
	out.Scheme = c.scope.Scheme
	out.Host = c.scope.Host
	if base := strings.TrimSuffix(c.upstream.Path, "/"); base != "" {
		out.Path = strings.TrimPrefix(u.Path, base)
		out.RawPath = ""
	}
	return &out
}

func (c *Client) responseType(final *url.URL) domain.ResponseType {
	if c.upstream != nil && domain.SameOrigin(c.upstream, final) {
		return domain.ResponseBasic
	}
	if domain.SameOrigin(c.scope, final) {
		return domain.ResponseBasic
	}
	return domain.ResponseCORS
}

func outgoingHeader(in http.Header) http.Header {
	out := in.Clone()
	if out == nil {
		out = make(http.Header)
	}
	for _, h := range hopHeaders {
		out.Del(h)
	}
	// Let the transport negotiate compression so stored bodies are decoded.
	out.Del("Accept-Encoding")
	out.Del("Host")
	return out
}

func classify(err error) *FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Cause: ErrCauseTimeout, Message: err.Error(), Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &FetchError{Cause: ErrCauseTimeout, Message: err.Error(), Err: err}
	}
	return &FetchError{Cause: ErrCauseNetworkFailure, Message: err.Error(), Err: err}
}
