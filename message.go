package tempmail

import "time"

// Message represents one received message in the current mailbox.
// Message is a pure data value, copied freely; use Client methods to
// fetch messages.
type Message struct {
	// ID is the provider's opaque, stable message identifier.
	ID string
	// From is the sender address.
	From string
	// Subject is the message subject.
	Subject string
	// Body is the full message text. Empty for messages obtained from
	// Messages, which only carries the provider's preview.
	Body string
	// BodyPreview is the provider's truncated body from the list view.
	BodyPreview string
	// ReceivedAt is when the provider received the message.
	ReceivedAt time.Time
}

// MessageSource is a message's raw RFC 822 source together with the
// bodies extracted from it.
type MessageSource struct {
	ID   string
	Raw  string
	Text string
	HTML string
}
