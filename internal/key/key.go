// Package key provides validated, family-specific views of COSE key data.
//
// Generic key data arrives as a label-keyed map (Data). The factories in this
// package check the fields each family requires and return either a complete
// Material value or a descriptive error; partially-valid keys are never returned.
//
// Material values hold references to the caller's byte slices and must be treated
// as read-only. They are meant to live for a single sign or verify call.
package key

import (
	"fmt"
	"math"

	"github.com/mrz1836/cose/internal/constants"
	"github.com/mrz1836/cose/internal/errors"
)

// Data is generic COSE key data keyed by integer label.
// Byte-string parameters are []byte; integer parameters may be any Go integer type.
type Data map[int]any

// Material is an asymmetric key of one supported family.
// The set of implementations is closed: *OKP and *RSA.
type Material interface {
	// Type returns the COSE key type (constants.KeyTypeOKP or constants.KeyTypeRSA).
	Type() int
	// IsPrivate reports whether the key carries its private component.
	IsPrivate() bool

	material()
}

// New builds the family-specific Material for data, dispatching on the kty label.
func New(data Data) (Material, error) {
	kty, err := data.requireInt(constants.KeyLabelKty)
	if err != nil {
		return nil, err
	}

	switch kty {
	case constants.KeyTypeOKP:
		return NewOKP(data)
	case constants.KeyTypeRSA:
		return NewRSA(data)
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedKeyType, "kty %d", kty)
	}
}

// TypeName returns a short display name for a COSE key type.
func TypeName(kty int) string {
	switch kty {
	case constants.KeyTypeOKP:
		return "OKP"
	case constants.KeyTypeEC2:
		return "EC2"
	case constants.KeyTypeRSA:
		return "RSA"
	default:
		return fmt.Sprintf("kty(%d)", kty)
	}
}

// expectType checks the kty label against the family a factory builds.
func (d Data) expectType(kty int) error {
	got, err := d.requireInt(constants.KeyLabelKty)
	if err != nil {
		return err
	}
	if got != kty {
		return errors.Wrapf(errors.ErrKeyTypeMismatch, "expected %s key, got %s", TypeName(kty), TypeName(got))
	}
	return nil
}

func (d Data) requireInt(label int) (int, error) {
	v, ok := d[label]
	if !ok {
		return 0, errors.Wrapf(errors.ErrKeyMissingParameter, "label %d", label)
	}
	n, ok := asInt(v)
	if !ok {
		return 0, errors.Wrapf(errors.ErrKeyInvalidParameter, "label %d must be an integer, got %T", label, v)
	}
	return n, nil
}

func (d Data) requireBytes(label int) ([]byte, error) {
	b, ok, err := d.optionalBytes(label)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(errors.ErrKeyMissingParameter, "label %d", label)
	}
	return b, nil
}

func (d Data) optionalBytes(label int) ([]byte, bool, error) {
	v, ok := d[label]
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, errors.Wrapf(errors.ErrKeyInvalidParameter, "label %d must be a byte string, got %T", label, v)
	}
	if len(b) == 0 {
		return nil, false, errors.Wrapf(errors.ErrKeyInvalidParameter, "label %d is empty", label)
	}
	return b, true, nil
}

// asInt accepts the integer shapes produced by CBOR, JSON and YAML decoders.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
