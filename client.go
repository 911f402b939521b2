package tempmail

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/patrick-siotti/temp-email/internal/api"
	"github.com/patrick-siotti/temp-email/internal/mailparse"
	"github.com/patrick-siotti/temp-email/internal/session"
)

// Client is a temp-mail client. Each instance owns exactly one provider
// session, at most one mailbox address, and the set of message IDs it
// has seen for that address. Instances share nothing; any number can be
// used concurrently.
type Client struct {
	apiClient *api.Client
	sessions  *session.Manager

	timeout      time.Duration
	pollInterval time.Duration

	mu         sync.Mutex
	address    string
	authToken  string
	seen       map[string]struct{}
	seenPrimed bool
	closed     bool
}

// New creates a temp-mail client. No network traffic happens until the
// first provider call; the session is established lazily.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL:      defaultBaseURL,
		timeout:      defaultWaitTimeout,
		pollInterval: defaultPollInterval,
		userAgent:    defaultUserAgent,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	sessions, err := session.NewManager(session.Config{
		BaseURL:    cfg.baseURL,
		HTTPClient: cfg.httpClient,
		UserAgent:  cfg.userAgent,
	})
	if err != nil {
		return nil, err
	}

	apiClient, err := api.NewClient(api.Config{
		BaseURL:  cfg.baseURL,
		Sessions: sessions,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		apiClient:    apiClient,
		sessions:     sessions,
		timeout:      cfg.timeout,
		pollInterval: cfg.pollInterval,
		seen:         make(map[string]struct{}),
	}, nil
}

// checkClosed returns ErrClientClosed if the client has been closed.
func (c *Client) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// auth returns the current address and its bearer token, or ErrNoAddress.
func (c *Client) auth() (address, token string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", "", ErrClientClosed
	}
	if c.authToken == "" {
		return "", "", ErrNoAddress
	}
	return c.address, c.authToken, nil
}

// GenerateAddress requests a fresh mailbox address from the provider.
// The previous address, its token and its seen-message state are
// discarded; messages of the old mailbox become unreachable through
// this client.
func (c *Client) GenerateAddress(ctx context.Context) (string, error) {
	return c.generateAddress(ctx, "")
}

// GenerateAddressWithPrefix requests a mailbox whose local part starts
// with the given prefix, with a random suffix for uniqueness. The
// provider may still substitute an address of its own choosing.
func (c *Client) GenerateAddressWithPrefix(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("prefix must not be empty")
	}
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return c.generateAddress(ctx, prefix+"-"+suffix)
}

func (c *Client) generateAddress(ctx context.Context, requested string) (string, error) {
	if err := c.checkClosed(); err != nil {
		return "", err
	}

	mb, err := c.apiClient.CreateMailbox(ctx, requested)
	if err != nil {
		return "", wrapError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", ErrClientClosed
	}
	c.address = mb.Address
	c.authToken = mb.Token
	c.seen = make(map[string]struct{})
	c.seenPrimed = false

	return mb.Address, nil
}

// Address returns the current mailbox address, or "" before the first
// GenerateAddress.
func (c *Client) Address() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.address
}

// Messages lists the mailbox's messages in provider order (newest
// first). Bodies are the provider's previews; use GetMessage for the
// full text. An empty mailbox yields an empty slice, not an error.
func (c *Client) Messages(ctx context.Context) ([]Message, error) {
	_, token, err := c.auth()
	if err != nil {
		return nil, err
	}

	summaries, err := c.apiClient.GetMessages(ctx, token)
	if err != nil {
		return nil, wrapError(err)
	}

	c.mu.Lock()
	for _, s := range summaries {
		c.seen[s.ID] = struct{}{}
	}
	c.seenPrimed = true
	c.mu.Unlock()

	msgs := make([]Message, 0, len(summaries))
	for _, s := range summaries {
		msgs = append(msgs, Message{
			ID:          s.ID,
			From:        s.From,
			Subject:     s.Subject,
			BodyPreview: s.BodyPreview,
			ReceivedAt:  s.CreatedAt,
		})
	}
	return msgs, nil
}

// GetMessage fetches one message with its full, untruncated body.
// Returns an error matching ErrMessageNotFound if the identifier is
// stale (message expired or deleted on the provider side).
func (c *Client) GetMessage(ctx context.Context, id string) (*Message, error) {
	_, token, err := c.auth()
	if err != nil {
		return nil, err
	}

	detail, err := c.apiClient.GetMessage(ctx, token, id)
	if err != nil {
		return nil, wrapError(err)
	}

	return &Message{
		ID:          detail.ID,
		From:        detail.From,
		Subject:     detail.Subject,
		Body:        detail.Body,
		BodyPreview: detail.BodyPreview,
		ReceivedAt:  detail.CreatedAt,
	}, nil
}

// GetMessageSource fetches a message's raw RFC 822 source and extracts
// its text and HTML bodies.
func (c *Client) GetMessageSource(ctx context.Context, id string) (*MessageSource, error) {
	_, token, err := c.auth()
	if err != nil {
		return nil, err
	}

	src, err := c.apiClient.GetMessageSource(ctx, token, id)
	if err != nil {
		return nil, wrapError(err)
	}

	parsed, err := mailparse.Extract(strings.NewReader(src.MIMESource))
	if err != nil {
		return nil, fmt.Errorf("parse message source: %w", err)
	}

	return &MessageSource{
		ID:   src.ID,
		Raw:  src.MIMESource,
		Text: parsed.Text,
		HTML: parsed.HTML,
	}, nil
}

// Close closes the client. Further operations fail with ErrClientClosed.
// Close is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.sessions.Invalidate()
	c.address = ""
	c.authToken = ""
	c.seen = make(map[string]struct{})

	return nil
}
