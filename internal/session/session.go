package session

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/patrick-siotti/temp-email/internal/challenge"
)

// Session is one isolated, established session with the provider. It is
// immutable apart from its request counter; a stale Session is replaced
// by the Manager, never patched in place.
type Session struct {
	httpClient *http.Client // bound to this session's cookie jar
	credential *challenge.Credential
	userAgent  string
	expiresAt  time.Time
	requests   atomic.Int64
}

// Do sends a request on this session, attaching the clearance credential
// and browser-equivalent headers, and counts it against the session's
// request budget.
func (s *Session) Do(req *http.Request) (*http.Response, error) {
	s.requests.Add(1)
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	if s.credential != nil {
		req.Header.Set(challenge.ClearanceHeader, s.credential.Token)
	}
	return s.httpClient.Do(req)
}

// Requests returns how many requests have been made on this session.
func (s *Session) Requests() int64 {
	return s.requests.Load()
}

// ExpiresAt returns when the session's credential expires.
func (s *Session) ExpiresAt() time.Time {
	return s.expiresAt
}

// usable reports whether the session can still carry requests: credential
// unexpired and request budget not exceeded.
func (s *Session) usable(budget int64, now time.Time) bool {
	return now.Before(s.expiresAt) && s.requests.Load() < budget
}
