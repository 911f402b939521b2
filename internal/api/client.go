package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/patrick-siotti/temp-email/internal/challenge"
	"github.com/patrick-siotti/temp-email/internal/session"
)

// maxErrorBody bounds how much of an error response body is kept for
// the error message.
const maxErrorBody = 8 << 10

// Client is the provider API client. One client rides one session
// manager; it has no state of its own beyond configuration.
type Client struct {
	baseURL  string
	sessions *session.Manager
}

// Config configures the API client.
type Config struct {
	// BaseURL is the provider origin. Required.
	BaseURL string
	// Sessions supplies the challenge-passing session. Required.
	Sessions *session.Manager
}

// NewClient creates a provider API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &Client{baseURL: cfg.BaseURL, sessions: cfg.Sessions}, nil
}

// do performs one provider call: ensure a session, send the request with
// clearance and optional Bearer auth, and decode the JSON result.
//
// An auth rejection (401, or a challenge response on an API path)
// invalidates the session and retries exactly once; a second rejection
// surfaces as *APIError. Transport failures surface as *NetworkError.
func (c *Client) do(ctx context.Context, method, path, auth string, body, result interface{}) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = data
	}

	invalidated := false
	for {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if auth != "" {
			req.Header.Set("Authorization", "Bearer "+auth)
		}

		sess, err := c.sessions.Ensure(ctx)
		if err != nil {
			return err
		}

		resp, err := sess.Do(req)
		if err != nil {
			return &NetworkError{Err: err, URL: c.baseURL + path}
		}

		if resp.StatusCode == http.StatusUnauthorized || challenge.IsChallenge(resp) {
			resp.Body.Close()
			if !invalidated {
				// The session looked valid locally but the provider
				// disagrees; covers provider-side early expiry.
				invalidated = true
				c.sessions.Invalidate()
				continue
			}
			return &APIError{
				StatusCode: resp.StatusCode,
				Message:    "authorization rejected after session refresh",
			}
		}

		return decodeResponse(resp, result)
	}
}

func decodeResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return &APIError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("invalid JSON response: %v", err),
			}
		}
	}
	return nil
}

func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		if errResp.Message != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
		}
	}

	return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
}
