// Package mailparse extracts readable bodies from raw RFC 822 message
// source.
package mailparse

import (
	"io"
	"strings"

	gomessage "github.com/emersion/go-message"
)

// Body holds the readable parts of a parsed message.
type Body struct {
	Text string
	HTML string
}

// Extract parses raw message source and returns its text and HTML parts.
// Multipart messages are walked recursively; the first text/plain and
// first text/html parts win. Attachments are skipped.
func Extract(r io.Reader) (*Body, error) {
	entity, err := gomessage.Read(r)
	if err != nil && !gomessage.IsUnknownCharset(err) {
		return nil, err
	}

	b := &Body{}
	walkEntity(b, entity)
	return b, nil
}

func walkEntity(b *Body, entity *gomessage.Entity) {
	if mr := entity.MultipartReader(); mr != nil {
		walkMultipart(b, mr)
		return
	}

	ct, _, _ := entity.Header.ContentType()
	body, err := io.ReadAll(entity.Body)
	if err != nil {
		return
	}
	if strings.HasPrefix(ct, "text/html") {
		if b.HTML == "" {
			b.HTML = string(body)
		}
	} else if b.Text == "" {
		b.Text = string(body)
	}
}

func walkMultipart(b *Body, mr gomessage.MultipartReader) {
	for {
		part, err := mr.NextPart()
		if err != nil {
			return
		}
		ct, _, _ := part.Header.ContentType()

		switch {
		case strings.HasPrefix(ct, "multipart/"):
			if nested := part.MultipartReader(); nested != nil {
				walkMultipart(b, nested)
			}

		case strings.HasPrefix(ct, "text/plain") && b.Text == "":
			if body, err := io.ReadAll(part.Body); err == nil {
				b.Text = string(body)
			}

		case strings.HasPrefix(ct, "text/html") && b.HTML == "":
			if body, err := io.ReadAll(part.Body); err == nil {
				b.HTML = string(body)
			}
		}
	}
}
