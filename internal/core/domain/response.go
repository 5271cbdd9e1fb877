package domain

import (
	"bytes"
	"net/http"
	"net/url"
	"time"
)

// ResponseType mirrors the fetch response type.
type ResponseType string

const (
	// ResponseBasic is a same-origin, non-opaque response.
	ResponseBasic ResponseType = "basic"
	// ResponseCORS is a cross-origin response with readable body.
	ResponseCORS ResponseType = "cors"
	// ResponseOpaque is a cross-origin response without readable body.
	ResponseOpaque ResponseType = "opaque"
	// ResponseError is a network error response.
	ResponseError ResponseType = "error"
)

// Response is a snapshot of an HTTP response, as stored in a cache bucket.
type Response struct {
	Status     int
	StatusText string
	Header     http.Header
	Body       []byte
	Type       ResponseType
	URL        *url.URL
	StoredAt   time.Time
}

// OK reports whether the status is in the 200-299 range.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status <= 299
}

// Cacheable reports whether a network response may be stored during fetch
// interception: status exactly 200 and a basic response.
func (r *Response) Cacheable() bool {
	return r != nil && r.Status == http.StatusOK && r.Type == ResponseBasic
}

// Clone returns a deep copy of the response.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	c := *r
	c.Header = r.Header.Clone()
	if c.Header == nil {
		c.Header = make(http.Header)
	}
	c.Body = bytes.Clone(r.Body)
	if r.URL != nil {
		u := *r.URL
		c.URL = &u
	}
	return &c
}

// ResponseSource tells where a handled response came from.
type ResponseSource string

const (
	// SourceCache means the response was read from the current bucket.
	SourceCache ResponseSource = "hit"
	// SourceNetwork means the response came from the network.
	SourceNetwork ResponseSource = "miss"
	// SourceFallback means the offline document was served.
	SourceFallback ResponseSource = "fallback"
)

// FetchResult is what a worker answers for an intercepted request.
type FetchResult struct {
	Response *Response
	Source   ResponseSource
}
