package tempmail

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/patrick-siotti/temp-email/internal/api"
	"github.com/patrick-siotti/temp-email/internal/challenge"
	"github.com/patrick-siotti/temp-email/internal/session"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrClientClosed is returned when operations are attempted on a
	// closed client.
	ErrClientClosed = errors.New("client has been closed")

	// ErrNoAddress is returned when mailbox operations are attempted
	// before GenerateAddress.
	ErrNoAddress = errors.New("no active mailbox address")

	// ErrChallengeUnsolvable is returned when the provider's challenge
	// scheme is not the one this client version understands. Not
	// retryable; it requires a new solver version.
	ErrChallengeUnsolvable = errors.New("anti-bot challenge unsolvable")

	// ErrSessionEstablishment is returned when the provider's handshake
	// deviates from the expected shape for every attempt.
	ErrSessionEstablishment = errors.New("session establishment failed")

	// ErrMessageNotFound is returned when a message identifier is stale
	// (expired or deleted on the provider side).
	ErrMessageNotFound = errors.New("message not found")

	// ErrWaitTimeout is returned when no new message arrives within the
	// wait window. Expected and recoverable, unlike provider breakage.
	ErrWaitTimeout = errors.New("no new message within timeout")
)

// APIError represents a non-2xx, non-auth response from the provider,
// or repeated transient poll failures.
type APIError struct {
	StatusCode int
	Message    string

	resource api.Resource
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	if e.StatusCode == http.StatusNotFound && e.resource == api.ResourceMessage {
		return target == ErrMessageNotFound
	}
	return false
}

// NetworkError represents a transport-level failure reaching the
// provider, distinct from the polling-level wait timeout.
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

// ChallengeError reports that the anti-bot challenge could not be
// solved by this client version.
type ChallengeError struct {
	Err error
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("challenge failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ChallengeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *ChallengeError) Is(target error) bool {
	return target == ErrChallengeUnsolvable
}

// SessionError reports a failed session handshake after bounded retries.
type SessionError struct {
	Attempts int
	Err      error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session establishment failed after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the underlying error.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *SessionError) Is(target error) bool {
	return target == ErrSessionEstablishment
}

// TimeoutError reports that no new message arrived within the wait
// window.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v", e.Operation, e.Timeout)
}

// Is implements errors.Is for sentinel error matching.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrWaitTimeout
}

// wrapError converts internal errors to public ones so that errors.Is()
// checks work with the public sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, challenge.ErrUnsolvable) {
		return &ChallengeError{Err: err}
	}

	var estErr *session.EstablishError
	if errors.As(err, &estErr) {
		return &SessionError{Attempts: estErr.Attempts, Err: estErr.Err}
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			resource:   apiErr.Resource,
		}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{Err: netErr.Err, URL: netErr.URL}
	}

	return err
}
