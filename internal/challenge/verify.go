package challenge

import (
	"encoding/binary"
	"fmt"

	"github.com/cloudflare/circl/sign/ed25519"
)

// VerifyDescriptor checks the provider's Ed25519 signature over the
// descriptor. This MUST pass before any proof-of-work is attempted: a
// bad signature means the descriptor was tampered with or the provider
// changed its signing scheme, and grinding hashes for it would be wasted
// work at best.
func VerifyDescriptor(d *Descriptor) error {
	salt, err := FromBase64URL(d.Salt)
	if err != nil {
		return fmt.Errorf("decode salt: %v: %w", err, ErrUnsolvable)
	}

	sig, err := FromBase64URL(d.Sig)
	if err != nil {
		return fmt.Errorf("decode signature: %v: %w", err, ErrUnsolvable)
	}

	pk, err := FromBase64URL(d.SigPk)
	if err != nil {
		return fmt.Errorf("decode signing key: %v: %w", err, ErrUnsolvable)
	}
	if len(pk) != ed25519.PublicKeySize {
		return fmt.Errorf("signing key size %d: %w", len(pk), ErrUnsolvable)
	}

	transcript := buildTranscript(d.Algorithm, d.Seed, d.Difficulty, salt)
	if !ed25519.Verify(ed25519.PublicKey(pk), transcript, sig) {
		return fmt.Errorf("descriptor signature invalid: %w", ErrUnsolvable)
	}

	return nil
}

// buildTranscript constructs the signed byte sequence exactly as the
// provider does: version byte, algorithm, seed, difficulty (big-endian
// uint32), salt.
func buildTranscript(algorithm, seed string, difficulty int, salt []byte) []byte {
	transcript := []byte{byte(transcriptVersion)}
	transcript = append(transcript, []byte(algorithm)...)
	transcript = append(transcript, []byte(seed)...)

	var diff [4]byte
	binary.BigEndian.PutUint32(diff[:], uint32(difficulty))
	transcript = append(transcript, diff[:]...)

	transcript = append(transcript, salt...)
	return transcript
}
