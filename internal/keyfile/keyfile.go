// Package keyfile reads and writes key documents.
//
// A key document is a JWK-shaped YAML or JSON object. Byte-valued members are
// base64url encoded, with or without padding:
//
//	kty: OKP
//	crv: Ed25519
//	x: 11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo
//	d: nWGxne_9WmC6hEr0kuwsxERJxWl7MmkZcDusAxyuf2A
//
// Documents are converted to key.Data so that key construction goes through the
// same validating factories as any other key source.
package keyfile

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/cose/internal/constants"
	"github.com/mrz1836/cose/internal/errors"
	"github.com/mrz1836/cose/internal/key"
)

// maxFileSize bounds key documents and manifests read from disk.
const maxFileSize = 1 << 20

// Document is a key document.
type Document struct {
	Kty string `json:"kty" yaml:"kty"`
	Kid string `json:"kid,omitempty" yaml:"kid,omitempty"`
	Alg string `json:"alg,omitempty" yaml:"alg,omitempty"`

	// OKP members.
	Crv string `json:"crv,omitempty" yaml:"crv,omitempty"`
	X   string `json:"x,omitempty" yaml:"x,omitempty"`

	// Private exponent for RSA, private scalar for OKP.
	D string `json:"d,omitempty" yaml:"d,omitempty"`

	// RSA members.
	N  string `json:"n,omitempty" yaml:"n,omitempty"`
	E  string `json:"e,omitempty" yaml:"e,omitempty"`
	P  string `json:"p,omitempty" yaml:"p,omitempty"`
	Q  string `json:"q,omitempty" yaml:"q,omitempty"`
	DP string `json:"dp,omitempty" yaml:"dp,omitempty"`
	DQ string `json:"dq,omitempty" yaml:"dq,omitempty"`
	QI string `json:"qi,omitempty" yaml:"qi,omitempty"`
}

// Load reads a key document from path.
// The format is detected from the extension (.json for JSON, otherwise YAML).
func Load(path string) (*Document, error) {
	data, err := readFile(path, errors.ErrKeyFileInvalid)
	if err != nil {
		return nil, err
	}
	return Parse(data, detectFormat(path))
}

// Parse decodes a key document in the given format ("json" or "yaml").
func Parse(data []byte, format string) (*Document, error) {
	var doc Document
	if err := decode(data, format, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrKeyFileInvalid, err)
	}
	if doc.Kty == "" {
		return nil, errors.Wrap(errors.ErrKeyFileInvalid, "kty is required")
	}
	return &doc, nil
}

// Material converts the document and builds the validated key.
func (d *Document) Material() (key.Material, error) {
	data, err := d.Data()
	if err != nil {
		return nil, err
	}
	return key.New(data)
}

// Data converts the document to generic COSE key data.
func (d *Document) Data() (key.Data, error) {
	data := key.Data{}

	switch strings.ToUpper(d.Kty) {
	case "OKP":
		data[constants.KeyLabelKty] = constants.KeyTypeOKP
		crv, err := curveID(d.Crv)
		if err != nil {
			return nil, err
		}
		data[constants.OKPLabelCurve] = crv
		if err := setBytes(data, constants.OKPLabelX, "x", d.X); err != nil {
			return nil, err
		}
		if err := setBytes(data, constants.OKPLabelD, "d", d.D); err != nil {
			return nil, err
		}
	case "RSA":
		data[constants.KeyLabelKty] = constants.KeyTypeRSA
		members := []struct {
			label int
			name  string
			value string
		}{
			{constants.RSALabelN, "n", d.N},
			{constants.RSALabelE, "e", d.E},
			{constants.RSALabelD, "d", d.D},
			{constants.RSALabelP, "p", d.P},
			{constants.RSALabelQ, "q", d.Q},
			{constants.RSALabelDP, "dp", d.DP},
			{constants.RSALabelDQ, "dq", d.DQ},
			{constants.RSALabelQInv, "qi", d.QI},
		}
		for _, m := range members {
			if err := setBytes(data, m.label, m.name, m.value); err != nil {
				return nil, err
			}
		}
	case "EC":
		data[constants.KeyLabelKty] = constants.KeyTypeEC2
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedKeyType, "kty %q", d.Kty)
	}

	if d.Kid != "" {
		data[constants.KeyLabelKid] = []byte(d.Kid)
	}
	return data, nil
}

// FromMaterial encodes a key as a document. Private components are included when present.
func FromMaterial(m key.Material) (*Document, error) {
	switch k := m.(type) {
	case *key.OKP:
		doc := &Document{Kty: "OKP", Crv: key.CurveName(k.Curve()), X: encode(k.X())}
		if k.IsPrivate() {
			doc.D = encode(k.D())
		}
		return doc, nil
	case *key.RSA:
		pub := k.PublicKey()
		doc := &Document{
			Kty: "RSA",
			N:   encode(pub.N.Bytes()),
			E:   encode(big.NewInt(int64(pub.E)).Bytes()),
		}
		if priv := k.PrivateKey(); priv != nil {
			if len(priv.Primes) != 2 {
				return nil, errors.Wrapf(errors.ErrUnsupportedKeyType, "rsa key with %d primes", len(priv.Primes))
			}
			dp, dq, qi, err := crtValues(priv.D, priv.Primes[0], priv.Primes[1])
			if err != nil {
				return nil, err
			}
			doc.D = encode(priv.D.Bytes())
			doc.P = encode(priv.Primes[0].Bytes())
			doc.Q = encode(priv.Primes[1].Bytes())
			doc.DP = encode(dp.Bytes())
			doc.DQ = encode(dq.Bytes())
			doc.QI = encode(qi.Bytes())
		}
		return doc, nil
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedKeyType, "%T", m)
	}
}

// crtValues derives d mod (p-1), d mod (q-1) and q^-1 mod p without touching the
// caller's key.
func crtValues(d, p, q *big.Int) (dp, dq, qi *big.Int, err error) {
	one := big.NewInt(1)
	dp = new(big.Int).Mod(d, new(big.Int).Sub(p, one))
	dq = new(big.Int).Mod(d, new(big.Int).Sub(q, one))
	qi = new(big.Int).ModInverse(q, p)
	if qi == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnsupportedKeyType, "rsa primes are not coprime")
	}
	return dp, dq, qi, nil
}

// Write stores the document at path with owner-only permissions.
func Write(path string, doc *Document) error {
	var (
		out []byte
		err error
	)
	if detectFormat(path) == "json" {
		out, err = json.MarshalIndent(doc, "", "  ")
	} else {
		out, err = yaml.Marshal(doc)
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode key document")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create key directory")
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write key file %s", path)
	}
	return nil
}

// DecodeBase64 decodes base64url text with or without padding.
func DecodeBase64(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(s), "="))
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func setBytes(data key.Data, label int, name, value string) error {
	if value == "" {
		return nil
	}
	b, err := DecodeBase64(value)
	if err != nil {
		return fmt.Errorf("%w: member %s: %w", errors.ErrKeyFileInvalid, name, err)
	}
	data[label] = b
	return nil
}

func curveID(name string) (int, error) {
	switch name {
	case "Ed25519":
		return constants.CurveEd25519, nil
	case "Ed448":
		return constants.CurveEd448, nil
	case "X25519":
		return constants.CurveX25519, nil
	case "X448":
		return constants.CurveX448, nil
	case "":
		return 0, errors.Wrap(errors.ErrKeyFileInvalid, "crv is required for OKP keys")
	default:
		return 0, errors.Wrapf(errors.ErrUnsupportedCurve, "crv %q", name)
	}
}

func detectFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}

func decode(data []byte, format string, v any) error {
	if format == "json" {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

func readFile(path string, sentinel error) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", path)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("%w: file too large (%d > %d bytes)", sentinel, info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the user
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}
