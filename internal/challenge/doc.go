// Package challenge solves the provider's anti-bot challenge.
//
// The provider gates its API behind a proof-of-work challenge: requests
// from a client without a valid clearance token receive a 403 response
// carrying a challenge descriptor. The descriptor format is pinned to
// the provider's current scheme version ("pow-v1"); when the provider
// changes its defenses, this package is the only one that needs a new
// solver.
//
// Solving is pure computation: verify the descriptor's signature, search
// for a nonce whose hash meets the difficulty target, and derive the
// clearance token from the winning digest. No network access happens
// here; the session layer owns the handshake.
package challenge
