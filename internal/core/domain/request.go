package domain

import (
	"net/http"
	"net/url"
	"strings"
)

// Destination describes what the requester intends to do with the response.
type Destination string

const (
	// DestinationDocument is a top-level navigation.
	DestinationDocument Destination = "document"
	// DestinationScript is a script load.
	DestinationScript Destination = "script"
	// DestinationStyle is a stylesheet load.
	DestinationStyle Destination = "style"
	// DestinationImage is an image load.
	DestinationImage Destination = "image"
	// DestinationFont is a font load.
	DestinationFont Destination = "font"
	// DestinationManifest is a web app manifest load.
	DestinationManifest Destination = "manifest"
	// DestinationEmpty is used for fetch()/XHR and anything unknown.
	DestinationEmpty Destination = ""
)

// RequestMode mirrors the fetch request mode.
type RequestMode string

const (
	// ModeNavigate is used for document navigations.
	ModeNavigate RequestMode = "navigate"
	// ModeSameOrigin is used for same-origin subresources.
	ModeSameOrigin RequestMode = "same-origin"
	// ModeCORS is used for cross-origin subresources.
	ModeCORS RequestMode = "cors"
	// ModeNoCORS is used for opaque cross-origin loads.
	ModeNoCORS RequestMode = "no-cors"
)

// Request is the descriptor a cache entry is keyed by.
type Request struct {
	Method      string
	URL         *url.URL
	Destination Destination
	Mode        RequestMode
	Header      http.Header
}

// NewRequest builds a GET request for rawURL with an empty destination.
func NewRequest(u *url.URL) *Request {
	return &Request{
		Method: http.MethodGet,
		URL:    u,
		Header: make(http.Header),
	}
}

// CacheKey identifies the request inside a bucket: method plus URL without fragment.
func (r *Request) CacheKey() string {
	return CacheKey(r.Method, r.URL)
}

// CacheKey builds the key used for a method and URL.
func CacheKey(method string, u *url.URL) string {
	if method == "" {
		method = http.MethodGet
	}
	if u == nil {
		return strings.ToUpper(method) + " "
	}
	clean := *u
	clean.Fragment = ""
	clean.RawFragment = ""
	return strings.ToUpper(method) + " " + clean.String()
}

// ParseCacheKey splits a key produced by CacheKey.
func ParseCacheKey(key string) (method string, rawURL string) {
	method, rawURL, found := strings.Cut(key, " ")
	if !found {
		return http.MethodGet, key
	}
	return method, rawURL
}

// IsNavigation reports whether the request is a document navigation.
func (r *Request) IsNavigation() bool {
	return r.Destination == DestinationDocument || r.Mode == ModeNavigate
}

// DestinationFromHeader infers the destination from Fetch Metadata headers,
// falling back to the Accept header for clients that do not send them.
func DestinationFromHeader(h http.Header) (Destination, RequestMode) {
	mode := RequestMode(strings.ToLower(h.Get("Sec-Fetch-Mode")))

	switch strings.ToLower(h.Get("Sec-Fetch-Dest")) {
	case "document", "iframe", "frame":
		return DestinationDocument, ModeNavigate
	case "script", "worker", "sharedworker", "serviceworker":
		return DestinationScript, mode
	case "style":
		return DestinationStyle, mode
	case "image":
		return DestinationImage, mode
	case "font":
		return DestinationFont, mode
	case "manifest":
		return DestinationManifest, mode
	case "empty":
		return DestinationEmpty, mode
	}

	if mode == ModeNavigate {
		return DestinationDocument, ModeNavigate
	}

	accept := strings.ToLower(h.Get("Accept"))
	if strings.Contains(accept, "text/html") {
		return DestinationDocument, ModeNavigate
	}
	return DestinationEmpty, mode
}
