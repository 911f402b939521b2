// Package api is the HTTP client for the temp-mail provider endpoints.
//
// All requests ride on a session established by internal/session, which
// handles the anti-bot challenge. This package adds the provider's
// semantic operations (create mailbox, list messages, fetch one message)
// plus error classification: auth rejections trigger exactly one
// session-invalidate-and-retry before surfacing, other non-2xx responses
// become *APIError, and transport failures become *NetworkError.
package api
