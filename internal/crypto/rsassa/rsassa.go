// Package rsassa implements the COSE RSASSA-PKCS1-v1_5 signature algorithms.
//
// One type covers the whole family; the hash it is constructed with fixes the
// registry identifier (RS1, RS256, RS384 or RS512).
package rsassa

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/cose/internal/constants"
	"github.com/mrz1836/cose/internal/crypto"
	"github.com/mrz1836/cose/internal/engine"
	coseerrors "github.com/mrz1836/cose/internal/errors"
	"github.com/mrz1836/cose/internal/key"
)

// identifiers maps each supported digest to its registry value.
//
//nolint:gochecknoglobals // Static registry table
var identifiers = map[engine.Hash]int{
	engine.SHA1:   constants.AlgorithmRS1,
	engine.SHA256: constants.AlgorithmRS256,
	engine.SHA384: constants.AlgorithmRS384,
	engine.SHA512: constants.AlgorithmRS512,
}

// RSASSA signs and verifies with RSA keys under a fixed digest.
// It holds no mutable state and is safe for concurrent use.
type RSASSA struct {
	hash   engine.Hash
	id     int
	engine engine.Engine
}

// New returns the family member for hash backed by e. A nil engine selects engine.New().
// Returns ErrUnsupportedHash when hash is outside the supported set.
func New(hash engine.Hash, e engine.Engine) (*RSASSA, error) {
	id, ok := identifiers[hash]
	if !ok {
		return nil, coseerrors.Wrapf(coseerrors.ErrUnsupportedHash, "hash %d", int(hash))
	}
	if e == nil {
		e = engine.New()
	}
	return &RSASSA{hash: hash, id: id, engine: e}, nil
}

// Identifier implements crypto.Algorithm.
func (a *RSASSA) Identifier() int {
	return a.id
}

// Hash returns the digest this instance signs with.
func (a *RSASSA) Hash() engine.Hash {
	return a.hash
}

// Sign implements crypto.Signer.
func (a *RSASSA) Sign(ctx context.Context, data []byte, k key.Material) ([]byte, error) {
	rk, err := asRSA(k)
	if err != nil {
		return nil, err
	}
	if !rk.IsPrivate() {
		return nil, coseerrors.ErrInvalidKeyUsage
	}

	pemKey, err := rk.PEM()
	if err != nil {
		return nil, coseerrors.WithCause(coseerrors.ErrSigningFailed, err)
	}

	sig, err := a.engine.RSASign(data, pemKey, a.hash)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Int("alg", a.id).Msg("engine failed to sign")
		return nil, coseerrors.WithCause(coseerrors.ErrSigningFailed, err)
	}
	return sig, nil
}

// Verify implements crypto.Verifier. Rejections and engine faults both return false.
func (a *RSASSA) Verify(ctx context.Context, data []byte, k key.Material, signature []byte) (bool, error) {
	rk, err := asRSA(k)
	if err != nil {
		return false, err
	}

	pemKey, err := rk.PEM()
	if err != nil {
		return crypto.Accept(ctx, a.id, engine.ResultError, err), nil
	}

	result := a.engine.RSAVerify(data, signature, pemKey, a.hash)
	return crypto.Accept(ctx, a.id, result, nil), nil
}

func asRSA(k key.Material) (*key.RSA, error) {
	rk, ok := k.(*key.RSA)
	if !ok || rk == nil {
		name := "no key"
		if k != nil {
			name = key.TypeName(k.Type())
		}
		return nil, coseerrors.Wrapf(coseerrors.ErrUnsupportedAlgorithm, "RSASSA requires an RSA key, got %s", name)
	}
	return rk, nil
}

var _ crypto.Algorithm = (*RSASSA)(nil)
