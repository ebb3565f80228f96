// Package engine defines the primitive signing engine the algorithm layer delegates to,
// along with an in-process implementation built on the Go standard library.
//
// The engine performs the signing math; it knows nothing about COSE keys or
// algorithm identifiers. Callers hand it raw secrets, raw public keys or PEM text.
package engine

import (
	"crypto"
	_ "crypto/sha1" // register SHA-1 for RS1
	_ "crypto/sha256"
	_ "crypto/sha512"
	"errors"
)

// Hash selects the digest an RSA operation uses.
type Hash int

// Supported digests.
const (
	SHA1 Hash = iota + 1
	SHA256
	SHA384
	SHA512
)

// String returns the digest name.
func (h Hash) String() string {
	switch h {
	case SHA1:
		return "SHA-1"
	case SHA256:
		return "SHA-256"
	case SHA384:
		return "SHA-384"
	case SHA512:
		return "SHA-512"
	default:
		return "unknown"
	}
}

// Valid reports whether h is one of the supported digests.
func (h Hash) Valid() bool {
	return h >= SHA1 && h <= SHA512
}

// CryptoHash maps h to the standard library identifier. It returns 0 for invalid values.
func (h Hash) CryptoHash() crypto.Hash {
	switch h {
	case SHA1:
		return crypto.SHA1
	case SHA256:
		return crypto.SHA256
	case SHA384:
		return crypto.SHA384
	case SHA512:
		return crypto.SHA512
	default:
		return 0
	}
}

// VerifyResult is the engine's native RSA verification outcome.
type VerifyResult int

// Verification outcomes. The numeric values follow the usual native convention:
// 1 valid, 0 rejected, -1 fault.
const (
	ResultError   VerifyResult = -1
	ResultInvalid VerifyResult = 0
	ResultValid   VerifyResult = 1
)

// String returns the outcome name used in logs.
func (r VerifyResult) String() string {
	switch r {
	case ResultValid:
		return "valid"
	case ResultInvalid:
		return "rejected"
	default:
		return "fault"
	}
}

// Errors returned by the engine.
var (
	// ErrSignatureMismatch is a genuine cryptographic rejection from DetachedVerify.
	ErrSignatureMismatch = errors.New("signature verification failed")

	// ErrInvalidSecretSize indicates an Ed25519 secret that is not seed||public.
	ErrInvalidSecretSize = errors.New("invalid secret size")

	// ErrInvalidPublicKeySize indicates an Ed25519 public key of the wrong length.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidSignatureSize indicates an Ed25519 signature of the wrong length.
	ErrInvalidSignatureSize = errors.New("invalid signature size")

	// ErrMalformedPEM indicates PEM text that does not hold a usable RSA key.
	ErrMalformedPEM = errors.New("malformed PEM key")

	// ErrNotPrivate indicates a public key where a signing key was required.
	ErrNotPrivate = errors.New("PEM key is not a private key")

	// ErrInvalidHash indicates a Hash outside the supported set.
	ErrInvalidHash = errors.New("invalid hash algorithm")
)

// Engine is the primitive signing engine.
type Engine interface {
	// DetachedSign signs message with an Ed25519 secret laid out as seed followed by public key.
	DetachedSign(message, secret []byte) ([]byte, error)

	// DetachedVerify checks an Ed25519 signature. It returns nil only when the signature is valid,
	// ErrSignatureMismatch on rejection, and another error on malformed input.
	DetachedVerify(signature, message, publicKey []byte) error

	// RSASign produces an RSASSA-PKCS1-v1_5 signature over message with the PEM-encoded private key.
	RSASign(message []byte, pemKey string, hash Hash) ([]byte, error)

	// RSAVerify checks an RSASSA-PKCS1-v1_5 signature against a PEM-encoded key, public or private.
	RSAVerify(message, signature []byte, pemKey string, hash Hash) VerifyResult
}
