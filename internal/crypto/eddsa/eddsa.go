// Package eddsa implements the COSE EdDSA signature algorithm (identifier -8).
//
// Only the Ed25519 curve is supported. Keys on any other OKP curve, and keys of
// any other family, are rejected before the engine is reached.
package eddsa

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mrz1836/cose/internal/constants"
	"github.com/mrz1836/cose/internal/crypto"
	"github.com/mrz1836/cose/internal/engine"
	coseerrors "github.com/mrz1836/cose/internal/errors"
	"github.com/mrz1836/cose/internal/key"
)

// EdDSA signs and verifies with Ed25519 OKP keys.
// It holds no mutable state and is safe for concurrent use.
type EdDSA struct {
	engine engine.Engine
}

// New returns an EdDSA algorithm backed by e. A nil engine selects engine.New().
func New(e engine.Engine) *EdDSA {
	if e == nil {
		e = engine.New()
	}
	return &EdDSA{engine: e}
}

// Identifier implements crypto.Algorithm.
func (*EdDSA) Identifier() int {
	return constants.AlgorithmEdDSA
}

// Sign implements crypto.Signer. The engine receives the secret as d followed by x.
func (a *EdDSA) Sign(ctx context.Context, data []byte, k key.Material) ([]byte, error) {
	okp, err := asOKP(k)
	if err != nil {
		return nil, err
	}
	if !okp.IsPrivate() {
		return nil, coseerrors.ErrInvalidKeyUsage
	}
	if err := checkCurve(okp); err != nil {
		return nil, err
	}

	secret := make([]byte, 0, len(okp.D())+len(okp.X()))
	secret = append(secret, okp.D()...)
	secret = append(secret, okp.X()...)
	defer clear(secret)

	sig, err := a.engine.DetachedSign(data, secret)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Int("alg", constants.AlgorithmEdDSA).Msg("engine failed to sign")
		return nil, coseerrors.WithCause(coseerrors.ErrSigningFailed, err)
	}
	return sig, nil
}

// Verify implements crypto.Verifier. Rejections and engine faults both return false.
func (a *EdDSA) Verify(ctx context.Context, data []byte, k key.Material, signature []byte) (bool, error) {
	okp, err := asOKP(k)
	if err != nil {
		return false, err
	}
	if err := checkCurve(okp); err != nil {
		return false, err
	}

	result, cause := engine.ResultValid, a.engine.DetachedVerify(signature, data, okp.X())
	switch {
	case cause == nil:
	case errors.Is(cause, engine.ErrSignatureMismatch):
		result = engine.ResultInvalid
	default:
		result = engine.ResultError
	}
	return crypto.Accept(ctx, constants.AlgorithmEdDSA, result, cause), nil
}

func asOKP(k key.Material) (*key.OKP, error) {
	okp, ok := k.(*key.OKP)
	if !ok || okp == nil {
		return nil, coseerrors.Wrapf(coseerrors.ErrUnsupportedAlgorithm, "EdDSA requires an OKP key, got %s", typeName(k))
	}
	return okp, nil
}

func checkCurve(okp *key.OKP) error {
	if okp.Curve() != constants.CurveEd25519 {
		return coseerrors.Wrapf(coseerrors.ErrUnsupportedAlgorithm, "EdDSA does not support curve %s", key.CurveName(okp.Curve()))
	}
	return nil
}

func typeName(k key.Material) string {
	if k == nil {
		return "no key"
	}
	return key.TypeName(k.Type())
}

var _ crypto.Algorithm = (*EdDSA)(nil)
