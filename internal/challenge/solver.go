package challenge

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"math/bits"
	"strconv"
	"time"

	"golang.org/x/crypto/hkdf"
)

// Credential is a solved clearance usable as a request header value
// until it expires.
type Credential struct {
	// Token is the clearance token, sent in the ClearanceHeader.
	Token string
	// ExpiresAt is when the provider stops accepting the token.
	ExpiresAt time.Time
}

// ctxCheckInterval is how many nonces are tried between context checks
// during the proof-of-work search.
const ctxCheckInterval = 4096

// Solve computes the clearance credential for a challenge descriptor.
//
// The descriptor signature is verified first; an unknown algorithm, an
// out-of-range difficulty, or a bad signature fails with ErrUnsolvable.
// The nonce search honors ctx cancellation.
func Solve(ctx context.Context, d *Descriptor) (*Credential, error) {
	if d.Algorithm != AlgorithmPoWSHA256 {
		return nil, fmt.Errorf("unknown challenge algorithm %q: %w", d.Algorithm, ErrUnsolvable)
	}
	if d.Difficulty <= 0 || d.Difficulty > MaxDifficulty {
		return nil, fmt.Errorf("challenge difficulty %d out of range: %w", d.Difficulty, ErrUnsolvable)
	}
	if err := VerifyDescriptor(d); err != nil {
		return nil, err
	}

	salt, err := FromBase64URL(d.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %v: %w", err, ErrUnsolvable)
	}

	nonce, digest, err := search(ctx, d.Seed, d.Difficulty)
	if err != nil {
		return nil, err
	}

	key, err := deriveClearanceKey(digest, salt)
	if err != nil {
		return nil, err
	}

	return &Credential{
		Token:     fmt.Sprintf("%s:%d:%s", d.Seed, nonce, ToBase64URL(key)),
		ExpiresAt: time.Now().Add(time.Duration(d.TTL) * time.Second),
	}, nil
}

// search finds the smallest nonce whose digest meets the difficulty
// target. Returns the nonce and the winning digest.
func search(ctx context.Context, seed string, difficulty int) (uint64, []byte, error) {
	for nonce := uint64(0); ; nonce++ {
		if nonce%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, nil, err
			}
		}
		digest := powDigest(seed, nonce)
		if leadingZeroBits(digest) >= difficulty {
			return nonce, digest, nil
		}
	}
}

// powDigest computes SHA-256(seed ":" nonce-decimal).
func powDigest(seed string, nonce uint64) []byte {
	h := sha256.New()
	h.Write([]byte(seed))
	h.Write([]byte{':'})
	h.Write([]byte(strconv.FormatUint(nonce, 10)))
	return h.Sum(nil)
}

// leadingZeroBits counts leading zero bits in the digest.
func leadingZeroBits(digest []byte) int {
	n := 0
	for _, b := range digest {
		if b == 0 {
			n += 8
			continue
		}
		n += bits.LeadingZeros8(b)
		break
	}
	return n
}

// deriveClearanceKey derives the clearance key from the winning digest
// using HKDF-SHA-256. Binding the token to the digest (not just the
// nonce) keeps it unforgeable without redoing the work.
func deriveClearanceKey(digest, salt []byte) ([]byte, error) {
	reader := hkdf.New(sha256.New, digest, salt, []byte(HKDFContext))
	key := make([]byte, ClearanceKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive clearance key: %w", err)
	}
	return key, nil
}
