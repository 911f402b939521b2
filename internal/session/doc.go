// Package session establishes and owns browser-equivalent provider
// sessions.
//
// A Session bundles everything the provider associates with one
// "browser": its cookie jar, the solved-challenge clearance credential,
// the credential's expiry, and a count of requests made on it. Each
// Manager owns exactly one Session at a time and replaces it wholesale
// when the credential expires, the request budget is spent, or the
// provider rejects it early. Sessions are never shared across managers;
// isolation between client instances is a correctness requirement, not
// an optimization.
package session
