package challenge

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"

	"github.com/cloudflare/circl/sign/ed25519"
)

// TestIssuer issues and validates challenges the way the provider does.
// It exists so tests (including fake provider HTTP servers in other
// packages) can exercise the full challenge exchange without the real
// service.
type TestIssuer struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey

	mu     sync.Mutex
	issued map[string]*Descriptor // keyed by seed
}

// NewTestIssuer creates an issuer with a fresh Ed25519 keypair.
func NewTestIssuer() (*TestIssuer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &TestIssuer{
		pub:    pub,
		priv:   priv,
		issued: make(map[string]*Descriptor),
	}, nil
}

// NewDescriptor issues a signed descriptor with a random seed and salt.
func (ti *TestIssuer) NewDescriptor(difficulty, ttl int) *Descriptor {
	seed := make([]byte, 16)
	salt := make([]byte, 16)
	rand.Read(seed)
	rand.Read(salt)

	d := &Descriptor{
		Algorithm:  AlgorithmPoWSHA256,
		Seed:       hex.EncodeToString(seed),
		Difficulty: difficulty,
		Salt:       ToBase64URL(salt),
		SigPk:      ToBase64URL(ti.pub),
		TTL:        ttl,
	}
	transcript := buildTranscript(d.Algorithm, d.Seed, d.Difficulty, salt)
	d.Sig = ToBase64URL(ed25519.Sign(ti.priv, transcript))

	ti.mu.Lock()
	ti.issued[d.Seed] = d
	ti.mu.Unlock()

	return d
}

// ValidToken reports whether a clearance token is a correct solution to
// a descriptor this issuer handed out.
func (ti *TestIssuer) ValidToken(token string) bool {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return false
	}

	ti.mu.Lock()
	d, ok := ti.issued[parts[0]]
	ti.mu.Unlock()
	if !ok {
		return false
	}

	nonce, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return false
	}
	key, err := FromBase64URL(parts[2])
	if err != nil {
		return false
	}

	digest := powDigest(d.Seed, nonce)
	if leadingZeroBits(digest) < d.Difficulty {
		return false
	}

	salt, err := FromBase64URL(d.Salt)
	if err != nil {
		return false
	}
	want, err := deriveClearanceKey(digest, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(key, want) == 1
}
