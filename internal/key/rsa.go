package key

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"math/big"

	"github.com/mrz1836/cose/internal/constants"
	"github.com/mrz1836/cose/internal/errors"
)

// RSA is an RSA key. Private keys carry the full CRT form.
type RSA struct {
	pub  *rsa.PublicKey
	priv *rsa.PrivateKey
}

// NewRSA validates data as an RSA key.
// n and e are always required. When d is present the key is private and p and q
// become required; dP, dQ and qInv are optional but must match the primes when given.
func NewRSA(data Data) (*RSA, error) {
	if err := data.expectType(constants.KeyTypeRSA); err != nil {
		return nil, err
	}

	n, err := data.requireBytes(constants.RSALabelN)
	if err != nil {
		return nil, errors.Wrap(err, "rsa n")
	}
	eBytes, err := data.requireBytes(constants.RSALabelE)
	if err != nil {
		return nil, errors.Wrap(err, "rsa e")
	}
	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() || e.Int64() < 3 || e.Int64() > 1<<31-1 {
		return nil, errors.Wrapf(errors.ErrKeyInvalidParameter, "rsa e out of range")
	}

	pub := &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: int(e.Int64())}

	d, ok, err := data.optionalBytes(constants.RSALabelD)
	if err != nil {
		return nil, errors.Wrap(err, "rsa d")
	}
	if !ok {
		return &RSA{pub: pub}, nil
	}

	priv, err := buildPrivate(data, pub, d)
	if err != nil {
		return nil, err
	}
	return &RSA{pub: &priv.PublicKey, priv: priv}, nil
}

func buildPrivate(data Data, pub *rsa.PublicKey, d []byte) (*rsa.PrivateKey, error) {
	p, err := data.requireBytes(constants.RSALabelP)
	if err != nil {
		return nil, errors.Wrap(err, "rsa p")
	}
	q, err := data.requireBytes(constants.RSALabelQ)
	if err != nil {
		return nil, errors.Wrap(err, "rsa q")
	}

	priv := &rsa.PrivateKey{
		PublicKey: *pub,
		D:         new(big.Int).SetBytes(d),
		Primes:    []*big.Int{new(big.Int).SetBytes(p), new(big.Int).SetBytes(q)},
	}
	if err := priv.Validate(); err != nil {
		return nil, errors.Wrapf(errors.ErrKeyInvalidParameter, "rsa private key: %v", err)
	}
	priv.Precompute()

	crt := []struct {
		label int
		name  string
		want  *big.Int
	}{
		{constants.RSALabelDP, "dP", priv.Precomputed.Dp},
		{constants.RSALabelDQ, "dQ", priv.Precomputed.Dq},
		{constants.RSALabelQInv, "qInv", priv.Precomputed.Qinv},
	}
	for _, c := range crt {
		got, ok, err := data.optionalBytes(c.label)
		if err != nil {
			return nil, errors.Wrapf(err, "rsa %s", c.name)
		}
		if ok && c.want != nil && new(big.Int).SetBytes(got).Cmp(c.want) != 0 {
			return nil, errors.Wrapf(errors.ErrKeyInvalidParameter, "rsa %s does not match the primes", c.name)
		}
	}

	return priv, nil
}

// FromPublicKey wraps an existing RSA public key.
func FromPublicKey(pub *rsa.PublicKey) *RSA {
	return &RSA{pub: pub}
}

// FromPrivateKey wraps an existing RSA private key.
func FromPrivateKey(priv *rsa.PrivateKey) *RSA {
	return &RSA{pub: &priv.PublicKey, priv: priv}
}

// Type implements Material.
func (k *RSA) Type() int { return constants.KeyTypeRSA }

// IsPrivate implements Material.
func (k *RSA) IsPrivate() bool { return k.priv != nil }

// PublicKey returns the public half.
func (k *RSA) PublicKey() *rsa.PublicKey { return k.pub }

// PrivateKey returns the private half, or nil for a public key.
func (k *RSA) PrivateKey() *rsa.PrivateKey { return k.priv }

// Public returns a public-only view of the key.
func (k *RSA) Public() *RSA {
	return &RSA{pub: k.pub}
}

// PEM exports the key in PEM form: a PKCS#1 "RSA PRIVATE KEY" block for private
// keys, a PKIX "PUBLIC KEY" block otherwise.
func (k *RSA) PEM() (string, error) {
	if k.priv != nil {
		block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(k.priv)}
		return string(pem.EncodeToMemory(block)), nil
	}

	der, err := x509.MarshalPKIXPublicKey(k.pub)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode rsa public key")
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

func (k *RSA) material() {}
