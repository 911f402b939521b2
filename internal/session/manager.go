package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/patrick-siotti/temp-email/internal/challenge"
)

// State is the session lifecycle state, exposed for observability.
type State int

const (
	// Unestablished means no session exists yet.
	Unestablished State = iota
	// Establishing means a handshake is in flight.
	Establishing
	// Active means the current session is usable.
	Active
	// Expired means the current session was invalidated or timed out
	// and the next Ensure will re-handshake.
	Expired
)

func (s State) String() string {
	switch s {
	case Unestablished:
		return "unestablished"
	case Establishing:
		return "establishing"
	case Active:
		return "active"
	case Expired:
		return "expired"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Default handshake policy.
const (
	DefaultMaxAttempts    = 3
	DefaultRetryBaseDelay = 500 * time.Millisecond
	DefaultRequestBudget  = 256
	DefaultProbePath      = "/"

	// unchallengedTTL is the assumed lifetime of a session the provider
	// established without issuing a challenge. The provider can still
	// reject it early, which triggers Invalidate.
	unchallengedTTL = 10 * time.Minute

	// maxDescriptorSize bounds how much of a challenge body is read.
	maxDescriptorSize = 64 << 10
)

// errCredentialRejected is returned by a single handshake when the
// provider refused a freshly solved credential.
var errCredentialRejected = errors.New("provider rejected solved credential")

// Solver computes a credential for a challenge descriptor. It is the
// challenge.Solve signature, injectable for tests.
type Solver func(ctx context.Context, d *challenge.Descriptor) (*challenge.Credential, error)

// EstablishError reports that the provider's handshake protocol deviated
// from the expected initial-request / challenge / authenticated-retry
// shape for every attempt.
type EstablishError struct {
	Attempts int
	Err      error
}

func (e *EstablishError) Error() string {
	return fmt.Sprintf("session establishment failed after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the last attempt's error.
func (e *EstablishError) Unwrap() error {
	return e.Err
}

// Config configures a Manager.
type Config struct {
	// BaseURL is the provider origin. Required.
	BaseURL string
	// HTTPClient supplies the transport and timeout; each session gets
	// its own cookie jar on top of it. Defaults to a 30s-timeout client.
	HTTPClient *http.Client
	// UserAgent is sent on every session request.
	UserAgent string
	// ProbePath is the unauthenticated request used to trigger and
	// verify the challenge exchange. Defaults to DefaultProbePath.
	ProbePath string
	// Solver solves challenge descriptors. Defaults to challenge.Solve.
	Solver Solver
	// MaxAttempts bounds handshake attempts. Defaults to DefaultMaxAttempts.
	MaxAttempts int
	// RetryBaseDelay is the first backoff delay between handshake
	// attempts; it doubles per attempt. Defaults to DefaultRetryBaseDelay.
	RetryBaseDelay time.Duration
	// RequestBudget is the provider's per-session request cap; crossing
	// it triggers a proactive re-handshake. Defaults to DefaultRequestBudget.
	RequestBudget int64
}

// Manager owns one Session and re-establishes it on demand.
type Manager struct {
	baseURL        string
	httpClient     *http.Client
	userAgent      string
	probePath      string
	solver         Solver
	maxAttempts    int
	retryBaseDelay time.Duration
	requestBudget  int64

	now func() time.Time // overridable in tests

	mu      sync.Mutex
	current *Session
	state   State
}

// NewManager creates a session manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	m := &Manager{
		baseURL:        cfg.BaseURL,
		httpClient:     cfg.HTTPClient,
		userAgent:      cfg.UserAgent,
		probePath:      cfg.ProbePath,
		solver:         cfg.Solver,
		maxAttempts:    cfg.MaxAttempts,
		retryBaseDelay: cfg.RetryBaseDelay,
		requestBudget:  cfg.RequestBudget,
		now:            time.Now,
		state:          Unestablished,
	}
	if m.httpClient == nil {
		m.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if m.probePath == "" {
		m.probePath = DefaultProbePath
	}
	if m.solver == nil {
		m.solver = challenge.Solve
	}
	if m.maxAttempts <= 0 {
		m.maxAttempts = DefaultMaxAttempts
	}
	if m.retryBaseDelay <= 0 {
		m.retryBaseDelay = DefaultRetryBaseDelay
	}
	if m.requestBudget <= 0 {
		m.requestBudget = DefaultRequestBudget
	}

	return m, nil
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Invalidate drops the current session so the next Ensure re-handshakes.
// Called when the provider rejects a session that still looked valid
// locally (early expiry on the provider side).
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	m.state = Expired
}

// Ensure returns the current session, establishing a fresh one if none
// exists, the credential expired, or the request budget is spent. The
// manager mutex is held for the whole handshake, so at most one
// handshake is ever in flight per Manager.
func (m *Manager) Ensure(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.current.usable(m.requestBudget, m.now()) {
		return m.current, nil
	}

	m.current = nil
	m.state = Establishing

	var lastErr error
	rejections := 0

	for attempt := 0; attempt < m.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := m.wait(ctx, attempt); err != nil {
				m.state = Expired
				return nil, err
			}
		}

		sess, err := m.handshake(ctx)
		if err == nil {
			m.current = sess
			m.state = Active
			return sess, nil
		}
		lastErr = err

		if errors.Is(err, challenge.ErrUnsolvable) {
			m.state = Unestablished
			return nil, err
		}
		if ctx.Err() != nil {
			m.state = Expired
			return nil, err
		}

		// A correctly computed response rejected twice in a row means
		// the provider changed its validation, not a transient glitch.
		if errors.Is(err, errCredentialRejected) {
			rejections++
			if rejections >= 2 {
				m.state = Unestablished
				return nil, fmt.Errorf("credential rejected twice: %w", challenge.ErrUnsolvable)
			}
		} else {
			rejections = 0
		}
	}

	m.state = Unestablished
	return nil, &EstablishError{Attempts: m.maxAttempts, Err: lastErr}
}

// wait sleeps the exponential backoff delay for the given attempt,
// aborting early on context cancellation.
func (m *Manager) wait(ctx context.Context, attempt int) error {
	delay := m.retryBaseDelay << (attempt - 1)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// handshake performs one three-step exchange: unauthenticated probe,
// challenge solve, authenticated retry of the probe.
func (m *Manager) handshake(ctx context.Context) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	sess := &Session{
		httpClient: &http.Client{
			Transport:     m.httpClient.Transport,
			CheckRedirect: m.httpClient.CheckRedirect,
			Timeout:       m.httpClient.Timeout,
			Jar:           jar,
		},
		userAgent: m.userAgent,
	}

	// Step 1: unauthenticated probe.
	resp, err := m.probe(ctx, sess)
	if err != nil {
		return nil, err
	}

	if !challenge.IsChallenge(resp) {
		// Provider is not challenging right now; the session is just
		// its cookies until it says otherwise.
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			sess.expiresAt = m.now().Add(unchallengedTTL)
			return sess, nil
		}
		return nil, fmt.Errorf("unexpected probe status %d", resp.StatusCode)
	}

	// Step 2: extract the descriptor and solve it.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDescriptorSize))
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read challenge body: %w", err)
	}

	desc, err := challenge.Parse(body)
	if err != nil {
		return nil, err
	}

	cred, err := m.solver(ctx, desc)
	if err != nil {
		return nil, err
	}

	sess.credential = cred
	sess.expiresAt = cred.ExpiresAt

	// Step 3: verify by re-issuing the probe with the credential.
	verify, err := m.probe(ctx, sess)
	if err != nil {
		return nil, err
	}
	defer verify.Body.Close()

	if challenge.IsChallenge(verify) || verify.StatusCode == http.StatusUnauthorized {
		return nil, errCredentialRejected
	}
	if verify.StatusCode < 200 || verify.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d on authenticated retry", verify.StatusCode)
	}

	return sess, nil
}

func (m *Manager) probe(ctx context.Context, sess *Session) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+m.probePath, nil)
	if err != nil {
		return nil, fmt.Errorf("create probe request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := sess.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", m.baseURL+m.probePath, err)
	}
	return resp, nil
}
