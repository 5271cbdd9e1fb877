package network

import "fmt"

// FetchErrorCause classifies a failed fetch.
type FetchErrorCause string

const (
	// ErrCauseTimeout means the request did not finish in time.
	ErrCauseTimeout FetchErrorCause = "timeout"
	// ErrCauseNetworkFailure means no response was received.
	ErrCauseNetworkFailure FetchErrorCause = "network issues"
	// ErrCauseReadResponseBody means the response body could not be read.
	ErrCauseReadResponseBody FetchErrorCause = "failed to read response body"
	// ErrCauseInvalidRequest means the request could not be built.
	ErrCauseInvalidRequest FetchErrorCause = "invalid request"
)

// FetchError is returned when a fetch produced no response. Fetches are
// never retried.
type FetchError struct {
	Message string
	Cause   FetchErrorCause
	Err     error
}

func (e *FetchError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fetch error: %s", e.Cause)
	}
	return fmt.Sprintf("fetch error: %s: %s", e.Cause, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
