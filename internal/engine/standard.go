package engine

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// Indirections so tests can inject primitive failures.
var (
	rsaSignPKCS1v15   = rsa.SignPKCS1v15   //nolint:gochecknoglobals // test seam
	rsaVerifyPKCS1v15 = rsa.VerifyPKCS1v15 //nolint:gochecknoglobals // test seam
)

// Standard is the in-process engine backed by crypto/ed25519 and crypto/rsa.
// It holds no state and is safe for concurrent use.
type Standard struct{}

// New returns the standard engine.
func New() *Standard {
	return &Standard{}
}

// DetachedSign implements Engine.
func (Standard) DetachedSign(message, secret []byte) ([]byte, error) {
	if len(secret) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidSecretSize, ed25519.PrivateKeySize, len(secret))
	}
	return ed25519.Sign(ed25519.PrivateKey(secret), message), nil
}

// DetachedVerify implements Engine.
func (Standard) DetachedVerify(signature, message, publicKey []byte) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidPublicKeySize, ed25519.PublicKeySize, len(publicKey))
	}
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidSignatureSize, ed25519.SignatureSize, len(signature))
	}
	if !ed25519.Verify(ed25519.PublicKey(publicKey), message, signature) {
		return ErrSignatureMismatch
	}
	return nil
}

// RSASign implements Engine.
func (Standard) RSASign(message []byte, pemKey string, hash Hash) ([]byte, error) {
	if !hash.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHash, int(hash))
	}

	priv, _, err := parseRSAPEM(pemKey)
	if err != nil {
		return nil, err
	}
	if priv == nil {
		return nil, ErrNotPrivate
	}

	digest := sum(hash, message)
	sig, err := rsaSignPKCS1v15(rand.Reader, priv, hash.CryptoHash(), digest)
	if err != nil {
		return nil, fmt.Errorf("rsa sign: %w", err)
	}
	return sig, nil
}

// RSAVerify implements Engine.
func (Standard) RSAVerify(message, signature []byte, pemKey string, hash Hash) VerifyResult {
	if !hash.Valid() {
		return ResultError
	}

	_, pub, err := parseRSAPEM(pemKey)
	if err != nil {
		return ResultError
	}

	if err := rsaVerifyPKCS1v15(pub, hash.CryptoHash(), sum(hash, message), signature); err != nil {
		return ResultInvalid
	}
	return ResultValid
}

func sum(hash Hash, message []byte) []byte {
	h := hash.CryptoHash().New()
	_, _ = h.Write(message)
	return h.Sum(nil)
}

// parseRSAPEM decodes the first PEM block. It returns the private key when the block
// holds one, and the public key in every successful case.
func parseRSAPEM(pemKey string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemKey))
	if block == nil {
		return nil, nil, fmt.Errorf("%w: no PEM block", ErrMalformedPEM)
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrMalformedPEM, err)
		}
		return priv, &priv.PublicKey, nil
	case "PRIVATE KEY":
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrMalformedPEM, err)
		}
		priv, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, nil, fmt.Errorf("%w: not an RSA key (%T)", ErrMalformedPEM, parsed)
		}
		return priv, &priv.PublicKey, nil
	case "RSA PUBLIC KEY":
		pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrMalformedPEM, err)
		}
		return nil, pub, nil
	case "PUBLIC KEY":
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrMalformedPEM, err)
		}
		pub, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, nil, fmt.Errorf("%w: not an RSA key (%T)", ErrMalformedPEM, parsed)
		}
		return nil, pub, nil
	default:
		return nil, nil, fmt.Errorf("%w: unexpected block type %q", ErrMalformedPEM, block.Type)
	}
}

var _ Engine = Standard{}
