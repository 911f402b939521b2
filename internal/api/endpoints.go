package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Mailbox is the POST /mailbox response: a fresh address and the bearer
// token scoped to it.
type Mailbox struct {
	Token   string `json:"token"`
	Address string `json:"mailbox"`
}

// MessageSummary is one entry of the GET /messages list. The body is the
// provider's preview, usually truncated.
type MessageSummary struct {
	ID          string    `json:"_id"`
	From        string    `json:"from"`
	Subject     string    `json:"subject"`
	BodyPreview string    `json:"bodyPreview"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MessageDetail is the GET /messages/{id} response with the full body.
type MessageDetail struct {
	ID          string    `json:"_id"`
	From        string    `json:"from"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	BodyPreview string    `json:"bodyPreview"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MessageSource is the GET /messages/{id}/source response carrying the
// raw RFC 822 text.
type MessageSource struct {
	ID         string `json:"_id"`
	MIMESource string `json:"mimeSource"`
}

// CreateMailbox requests a new address. An empty requested string lets
// the provider pick; otherwise the provider is asked for that address
// and may still substitute its own.
func (c *Client) CreateMailbox(ctx context.Context, requested string) (*Mailbox, error) {
	var body interface{}
	if requested != "" {
		body = map[string]string{"mailbox": requested}
	}

	var result Mailbox
	if err := c.do(ctx, http.MethodPost, "/mailbox", "", body, &result); err != nil {
		return nil, WithResource(err, ResourceMailbox)
	}
	if result.Token == "" || result.Address == "" {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    "mailbox response missing token or address",
			Resource:   ResourceMailbox,
		}
	}
	return &result, nil
}

// GetMessages lists the mailbox's messages in provider order (newest
// first). An empty mailbox yields an empty slice, not an error.
func (c *Client) GetMessages(ctx context.Context, auth string) ([]MessageSummary, error) {
	var result struct {
		Messages []MessageSummary `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/messages", auth, nil, &result); err != nil {
		return nil, WithResource(err, ResourceMailbox)
	}
	if result.Messages == nil {
		return []MessageSummary{}, nil
	}
	return result.Messages, nil
}

// GetMessage fetches one message with its full, untruncated body.
func (c *Client) GetMessage(ctx context.Context, auth, id string) (*MessageDetail, error) {
	path := fmt.Sprintf("/messages/%s", url.PathEscape(id))
	var result MessageDetail
	if err := c.do(ctx, http.MethodGet, path, auth, nil, &result); err != nil {
		return nil, WithResource(err, ResourceMessage)
	}
	return &result, nil
}

// GetMessageSource fetches a message's raw RFC 822 source.
func (c *Client) GetMessageSource(ctx context.Context, auth, id string) (*MessageSource, error) {
	path := fmt.Sprintf("/messages/%s/source", url.PathEscape(id))
	var result MessageSource
	if err := c.do(ctx, http.MethodGet, path, auth, nil, &result); err != nil {
		return nil, WithResource(err, ResourceMessage)
	}
	return &result, nil
}
