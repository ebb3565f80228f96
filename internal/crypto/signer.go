// Package crypto defines the signature capability contract every COSE signature
// algorithm implements, and a manager that resolves implementations by identifier.
//
// Implementations live in subpackages (eddsa, rsassa). They are stateless and safe
// for concurrent use.
package crypto

import (
	"context"

	"github.com/mrz1836/cose/internal/key"
)

// Signer produces signatures.
type Signer interface {
	// Sign signs data with k and returns the raw signature bytes.
	// Returns ErrInvalidKeyUsage when k has no private component and
	// ErrUnsupportedAlgorithm when k's family or curve does not fit the algorithm.
	Sign(ctx context.Context, data []byte, k key.Material) ([]byte, error)
}

// Verifier checks signatures.
type Verifier interface {
	// Verify reports whether signature is valid for data under k.
	// Cryptographic rejection and engine faults both yield false with a nil error;
	// only a key that does not fit the algorithm returns an error.
	Verify(ctx context.Context, data []byte, k key.Material, signature []byte) (bool, error)
}

// Algorithm is the full capability contract: sign, verify and a fixed registry identifier.
type Algorithm interface {
	Signer
	Verifier

	// Identifier returns the algorithm's COSE registry value.
	Identifier() int
}
