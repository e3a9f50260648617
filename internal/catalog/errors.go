package catalog

import (
	"errors"
	"fmt"
)

const (
	networkErrorMessage = "Network error occurred"
	failedFetchMessage  = "Failed to fetch satellites"
	malformedMessage    = "Malformed response from catalog service"
)

// FetchError is the single error kind a catalog query can produce. Message is
// suitable for display; Err carries the underlying cause for logs.
type FetchError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Detail includes the underlying cause, for logs.
func (e *FetchError) Detail() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Err != nil && e.StatusCode > 0:
		return fmt.Sprintf("%s (status %d): %v", e.Message, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// AsFetchError converts any error into a *FetchError, keeping an existing one
// intact and wrapping anything else behind the generic network message.
func AsFetchError(err error) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{Message: networkErrorMessage, Err: err}
}
