package keyfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/cose/internal/errors"
)

// Manifest lists payload and signature pairs for batch verification.
//
//	algorithm: RS256
//	entries:
//	  - name: release
//	    payload: dist/release.tar.gz
//	    signature: kW1...
//	  - name: inline
//	    payload_b64: aGVsbG8
//	    signature: Qx9...
type Manifest struct {
	// Algorithm optionally names the algorithm; the command line flag takes precedence.
	Algorithm string  `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Entries   []Entry `json:"entries" yaml:"entries"`

	dir string
}

// Entry is one payload to verify.
type Entry struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Payload is a file path, relative to the manifest's directory unless absolute.
	Payload string `json:"payload,omitempty" yaml:"payload,omitempty"`

	// PayloadB64 is an inline base64url payload.
	PayloadB64 string `json:"payload_b64,omitempty" yaml:"payload_b64,omitempty"`

	// Signature is the base64url signature.
	Signature string `json:"signature" yaml:"signature"`
}

// LoadManifest reads and validates a manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := readFile(path, errors.ErrManifestInvalid)
	if err != nil {
		return nil, err
	}

	m, err := ParseManifest(data, detectFormat(path))
	if err != nil {
		return nil, err
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// ParseManifest decodes and validates a manifest. Relative payload paths resolve
// against the working directory.
func ParseManifest(data []byte, format string) (*Manifest, error) {
	var m Manifest
	if err := decode(data, format, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrManifestInvalid, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that every entry names exactly one payload source and a signature.
func (m *Manifest) Validate() error {
	if len(m.Entries) == 0 {
		return errors.Wrap(errors.ErrManifestInvalid, "no entries")
	}
	for i, e := range m.Entries {
		if (e.Payload == "") == (e.PayloadB64 == "") {
			return errors.Wrapf(errors.ErrManifestInvalid, "entry %d: exactly one of payload and payload_b64 is required", i)
		}
		if e.Signature == "" {
			return errors.Wrapf(errors.ErrManifestInvalid, "entry %d: signature is required", i)
		}
	}
	return nil
}

// Label returns the entry's display name.
func (e Entry) Label(index int) string {
	if e.Name != "" {
		return e.Name
	}
	if e.Payload != "" {
		return e.Payload
	}
	return fmt.Sprintf("entry-%d", index)
}

// Resolve loads the payload and decodes the signature of entry i.
func (m *Manifest) Resolve(i int) (payload, signature []byte, err error) {
	e := m.Entries[i]

	signature, err = DecodeBase64(e.Signature)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: entry %s: signature: %w", errors.ErrManifestInvalid, e.Label(i), err)
	}

	if e.PayloadB64 != "" {
		payload, err = DecodeBase64(e.PayloadB64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: entry %s: payload: %w", errors.ErrManifestInvalid, e.Label(i), err)
		}
		return payload, signature, nil
	}

	path := e.Payload
	if !filepath.IsAbs(path) && m.dir != "" {
		path = filepath.Join(m.dir, path)
	}
	payload, err = os.ReadFile(path) //nolint:gosec // path comes from the user's manifest
	if err != nil {
		return nil, nil, errors.Wrapf(err, "entry %s: failed to read payload", e.Label(i))
	}
	return payload, signature, nil
}
