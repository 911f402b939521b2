package tempmail

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/patrick-siotti/temp-email/internal/challenge"
)

// fakeMessage is one message held by the fake provider.
type fakeMessage struct {
	ID        string
	From      string
	Subject   string
	Preview   string
	Body      string
	Source    string
	CreatedAt time.Time
}

// fakeProvider is an httptest-backed temp-mail provider. It can
// optionally demand solved challenges, and its /messages responses can
// be scripted to fail for specific calls.
type fakeProvider struct {
	t      *testing.T
	issuer *challenge.TestIssuer // nil means never challenge

	mu         sync.Mutex
	seq        int
	tokens     map[string]string        // token -> address
	messages   map[string][]fakeMessage // token -> newest first
	listScript []int                    // 0 normal, >0 status code, -1 drop connection
	listCalls  int
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	return &fakeProvider{
		t:        t,
		tokens:   make(map[string]string),
		messages: make(map[string][]fakeMessage),
	}
}

// challenged makes the provider demand a valid clearance token on every
// request.
func (p *fakeProvider) challenged() *fakeProvider {
	issuer, err := challenge.NewTestIssuer()
	if err != nil {
		p.t.Fatalf("NewTestIssuer() error = %v", err)
	}
	p.issuer = issuer
	return p
}

// addMessage delivers a message to the mailbox behind token, newest
// first like the provider.
func (p *fakeProvider) addMessage(token string, m fakeMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	p.messages[token] = append([]fakeMessage{m}, p.messages[token]...)
}

// scriptListResponses sets the outcome of the next /messages calls.
func (p *fakeProvider) scriptListResponses(codes ...int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listScript = append(p.listScript, codes...)
}

func (p *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p.issuer != nil {
		token := r.Header.Get(challenge.ClearanceHeader)
		if token == "" || !p.issuer.ValidToken(token) {
			w.Header().Set(challenge.ChallengeHeader, challenge.SchemeVersion)
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(p.issuer.NewDescriptor(8, 600))
			return
		}
	}

	switch {
	case r.URL.Path == "/":
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodPost && r.URL.Path == "/mailbox":
		p.createMailbox(w, r)

	case r.Method == http.MethodGet && r.URL.Path == "/messages":
		p.listMessages(w, r)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/messages/"):
		p.getMessage(w, r)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (p *fakeProvider) createMailbox(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	json.NewDecoder(r.Body).Decode(&req)

	p.mu.Lock()
	p.seq++
	address := req["mailbox"]
	if address == "" {
		address = fmt.Sprintf("box%d@fake.test", p.seq)
	}
	token := fmt.Sprintf("tok%d", p.seq)
	p.tokens[token] = address
	p.mu.Unlock()

	json.NewEncoder(w).Encode(map[string]string{"token": token, "mailbox": address})
}

func (p *fakeProvider) bearer(r *http.Request) (string, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	p.mu.Lock()
	_, ok := p.tokens[token]
	p.mu.Unlock()
	return token, ok
}

type messageJSON struct {
	ID          string    `json:"_id"`
	From        string    `json:"from"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body,omitempty"`
	BodyPreview string    `json:"bodyPreview"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *fakeProvider) listMessages(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.listCalls++
	var scripted int
	if len(p.listScript) > 0 {
		scripted = p.listScript[0]
		p.listScript = p.listScript[1:]
	}
	p.mu.Unlock()

	if scripted == -1 {
		// Simulate a transport-level failure.
		hj, ok := w.(http.Hijacker)
		if !ok {
			p.t.Fatal("response writer does not support hijacking")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			p.t.Fatalf("hijack: %v", err)
		}
		conn.Close()
		return
	}
	if scripted > 0 {
		w.WriteHeader(scripted)
		json.NewEncoder(w).Encode(map[string]string{"error": "scripted failure"})
		return
	}

	token, ok := p.bearer(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	p.mu.Lock()
	list := make([]messageJSON, 0, len(p.messages[token]))
	for _, m := range p.messages[token] {
		list = append(list, messageJSON{
			ID:          m.ID,
			From:        m.From,
			Subject:     m.Subject,
			BodyPreview: m.Preview,
			CreatedAt:   m.CreatedAt,
		})
	}
	p.mu.Unlock()

	json.NewEncoder(w).Encode(map[string]interface{}{"messages": list})
}

func (p *fakeProvider) getMessage(w http.ResponseWriter, r *http.Request) {
	token, ok := p.bearer(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/messages/")
	id, isSource := rest, false
	if strings.HasSuffix(rest, "/source") {
		id, isSource = strings.TrimSuffix(rest, "/source"), true
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range p.messages[token] {
		if m.ID != id {
			continue
		}
		if isSource {
			json.NewEncoder(w).Encode(map[string]string{"_id": m.ID, "mimeSource": m.Source})
			return
		}
		json.NewEncoder(w).Encode(messageJSON{
			ID:          m.ID,
			From:        m.From,
			Subject:     m.Subject,
			Body:        m.Body,
			BodyPreview: m.Preview,
			CreatedAt:   m.CreatedAt,
		})
		return
	}
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{"error": "message not found"})
}

// newTestClient starts a server for the provider and returns a client
// pointed at it, with fast polling defaults for tests.
func newTestClient(t *testing.T, p *fakeProvider, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(p)
	t.Cleanup(server.Close)

	opts = append([]Option{
		WithBaseURL(server.URL),
		WithPollInterval(10 * time.Millisecond),
		WithTimeout(2 * time.Second),
	}, opts...)

	client, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// token returns the bearer token the provider issued for the client's
// current address.
func (p *fakeProvider) token(t *testing.T, address string) string {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	for token, addr := range p.tokens {
		if addr == address {
			return token
		}
	}
	t.Fatalf("no token issued for %q", address)
	return ""
}
