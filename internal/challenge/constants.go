package challenge

const (
	// SchemeVersion is the challenge scheme this solver understands.
	// Sent by the provider in the ChallengeHeader value.
	SchemeVersion = "pow-v1"

	// AlgorithmPoWSHA256 is the only algorithm the provider currently uses.
	AlgorithmPoWSHA256 = "pow-sha256"

	// ChallengeHeader marks a response as a challenge. The body carries
	// the descriptor JSON.
	ChallengeHeader = "X-Tempmail-Challenge"

	// ClearanceHeader carries the solved clearance token on
	// authenticated requests.
	ClearanceHeader = "X-Tempmail-Clearance"

	// HKDFContext is the context string used in clearance-token
	// derivation for domain separation.
	HKDFContext = "tempmail:clearance:v1"

	// MaxDifficulty bounds the leading-zero-bit target. A descriptor
	// above this is treated as a scheme change, not a puzzle to grind.
	MaxDifficulty = 32

	// ClearanceKeySize is the size of the derived clearance key in bytes.
	ClearanceKeySize = 32

	// transcriptVersion is the version byte prefixed to the signature
	// transcript.
	transcriptVersion = 1
)
