package challenge

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Descriptor is the challenge payload the provider embeds in a 403
// response. The format is pinned to scheme version "pow-v1".
type Descriptor struct {
	// Algorithm names the puzzle type (e.g. "pow-sha256").
	Algorithm string `json:"algorithm"`
	// Seed is the puzzle input the nonce is appended to.
	Seed string `json:"seed"`
	// Difficulty is the required number of leading zero bits in the
	// winning digest.
	Difficulty int `json:"difficulty"`
	// Salt is the HKDF salt for clearance-token derivation (base64url).
	Salt string `json:"salt"`
	// Sig is the provider's Ed25519 signature over the descriptor
	// transcript (base64url).
	Sig string `json:"sig"`
	// SigPk is the provider's Ed25519 public key (base64url).
	SigPk string `json:"sigPk"`
	// TTL is the clearance lifetime in seconds.
	TTL int `json:"ttl"`
}

// IsChallenge reports whether resp is a challenge response rather than a
// normal API response. The provider signals a challenge with a 403 or
// 503 status plus the challenge marker header.
func IsChallenge(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusServiceUnavailable {
		return false
	}
	return resp.Header.Get(ChallengeHeader) != ""
}

// Parse decodes a descriptor from a challenge response body. A body that
// does not decode into the pinned format means the provider moved to a
// scheme this solver does not know, so parse failures wrap ErrUnsolvable.
func Parse(body []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("decode challenge descriptor: %v: %w", err, ErrUnsolvable)
	}
	if d.Algorithm == "" || d.Seed == "" || d.Sig == "" || d.SigPk == "" {
		return nil, fmt.Errorf("challenge descriptor missing required fields: %w", ErrUnsolvable)
	}
	return &d, nil
}
