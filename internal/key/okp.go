package key

import (
	"github.com/mrz1836/cose/internal/constants"
	"github.com/mrz1836/cose/internal/errors"
)

// okpSizes maps each registered OKP curve to its public and private component lengths.
//
//nolint:gochecknoglobals // Static curve table
var okpSizes = map[int]struct{ x, d int }{
	constants.CurveX25519:  {x: 32, d: 32},
	constants.CurveX448:    {x: 56, d: 56},
	constants.CurveEd25519: {x: 32, d: 32},
	constants.CurveEd448:   {x: 57, d: 57},
}

// OKP is an octet key pair: a curve, a public component x and an optional private component d.
type OKP struct {
	curve int
	x     []byte
	d     []byte
}

// NewOKP validates data as an OKP key.
// kty, crv and x are required; d is optional and makes the key private.
func NewOKP(data Data) (*OKP, error) {
	if err := data.expectType(constants.KeyTypeOKP); err != nil {
		return nil, err
	}

	curve, err := data.requireInt(constants.OKPLabelCurve)
	if err != nil {
		return nil, errors.Wrap(err, "okp curve")
	}
	sizes, ok := okpSizes[curve]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnsupportedCurve, "okp curve %d", curve)
	}

	x, err := data.requireBytes(constants.OKPLabelX)
	if err != nil {
		return nil, errors.Wrap(err, "okp x")
	}
	if len(x) != sizes.x {
		return nil, errors.Wrapf(errors.ErrKeyInvalidParameter, "okp x must be %d bytes, got %d", sizes.x, len(x))
	}

	d, _, err := data.optionalBytes(constants.OKPLabelD)
	if err != nil {
		return nil, errors.Wrap(err, "okp d")
	}
	if d != nil && len(d) != sizes.d {
		return nil, errors.Wrapf(errors.ErrKeyInvalidParameter, "okp d must be %d bytes, got %d", sizes.d, len(d))
	}

	return &OKP{curve: curve, x: x, d: d}, nil
}

// Type implements Material.
func (k *OKP) Type() int { return constants.KeyTypeOKP }

// IsPrivate implements Material.
func (k *OKP) IsPrivate() bool { return k.d != nil }

// Curve returns the COSE curve identifier.
func (k *OKP) Curve() int { return k.curve }

// X returns the public component. The slice must not be modified.
func (k *OKP) X() []byte { return k.x }

// D returns the private component, or nil for a public key. The slice must not be modified.
func (k *OKP) D() []byte { return k.d }

// Public returns a public-only view of the key.
func (k *OKP) Public() *OKP {
	return &OKP{curve: k.curve, x: k.x}
}

func (k *OKP) material() {}

// CurveName returns the registry name of an OKP curve.
func CurveName(curve int) string {
	switch curve {
	case constants.CurveX25519:
		return "X25519"
	case constants.CurveX448:
		return "X448"
	case constants.CurveEd25519:
		return "Ed25519"
	case constants.CurveEd448:
		return "Ed448"
	default:
		return "unknown"
	}
}
