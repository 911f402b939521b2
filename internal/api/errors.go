package api

import (
	"errors"
	"fmt"
)

// Resource indicates which provider resource an error relates to.
type Resource string

const (
	// ResourceUnknown means the resource is not specified.
	ResourceUnknown Resource = ""
	// ResourceMailbox means the error relates to a mailbox.
	ResourceMailbox Resource = "mailbox"
	// ResourceMessage means the error relates to a message.
	ResourceMessage Resource = "message"
)

// APIError represents a non-2xx, non-auth response from the provider.
type APIError struct {
	StatusCode int
	Message    string
	Resource   Resource
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error %d", e.StatusCode)
}

// WithResource returns a copy of the error with the resource set.
// If the error is not an *APIError, it is returned unchanged.
func WithResource(err error, r Resource) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Resource:   r,
		}
	}
	return err
}

// NetworkError represents a transport-level failure, distinct from a
// provider response with an error status.
type NetworkError struct {
	Err error
	URL string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}
