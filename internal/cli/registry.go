package cli

import (
	"strconv"
	"strings"

	"github.com/mrz1836/cose/internal/constants"
	"github.com/mrz1836/cose/internal/crypto"
	"github.com/mrz1836/cose/internal/crypto/eddsa"
	"github.com/mrz1836/cose/internal/crypto/rsassa"
	"github.com/mrz1836/cose/internal/engine"
	"github.com/mrz1836/cose/internal/errors"
	"github.com/mrz1836/cose/internal/key"
	"github.com/mrz1836/cose/internal/keyfile"
)

// newEngine builds the primitive engine the commands use. Tests replace it.
var newEngine = func() engine.Engine { return engine.New() } //nolint:gochecknoglobals // test seam

// newManager registers every supported algorithm against eng.
func newManager(eng engine.Engine) (*crypto.Manager, error) {
	m := crypto.NewManager()
	m.Register(constants.AlgorithmNameEdDSA, eddsa.New(eng))

	family := []struct {
		name string
		hash engine.Hash
	}{
		{constants.AlgorithmNameRS256, engine.SHA256},
		{constants.AlgorithmNameRS384, engine.SHA384},
		{constants.AlgorithmNameRS512, engine.SHA512},
		{constants.AlgorithmNameRS1, engine.SHA1},
	}
	for _, f := range family {
		alg, err := rsassa.New(f.hash, eng)
		if err != nil {
			return nil, errors.Wrapf(err, "register %s", f.name)
		}
		m.Register(f.name, alg)
	}
	return m, nil
}

// loadedKey is a key document together with the key built from it.
type loadedKey struct {
	doc      *keyfile.Document
	material key.Material
}

// loadKey reads and validates the key document at path.
func loadKey(path string) (*loadedKey, error) {
	if path == "" {
		return nil, errors.Wrap(errors.ErrEmptyValue, "--key is required")
	}

	doc, err := keyfile.Load(path)
	if err != nil {
		return nil, err
	}
	m, err := doc.Material()
	if err != nil {
		return nil, errors.Wrapf(err, "key %s", path)
	}
	return &loadedKey{doc: doc, material: m}, nil
}

// resolveAlgorithm picks the algorithm for k.
// Precedence: the explicit selector, the key document's alg member, then the
// configured default. When the configured default belongs to the other key
// family it is replaced by that family's default (EdDSA for OKP, RS256 for RSA).
func resolveAlgorithm(m *crypto.Manager, selector string, k *loadedKey, configDefault string) (crypto.Algorithm, string, error) {
	name := strings.TrimSpace(selector)
	if name == "" && k.doc != nil {
		name = k.doc.Alg
	}
	if name == "" {
		name = familyDefault(k.material, configDefault)
	}

	if id, err := strconv.Atoi(name); err == nil {
		alg, err := m.Get(id)
		if err != nil {
			return nil, "", err
		}
		return alg, nameFor(m, id), nil
	}

	alg, err := m.Lookup(name)
	if err != nil {
		return nil, "", err
	}
	return alg, name, nil
}

func familyDefault(k key.Material, configDefault string) string {
	isEdDSA := configDefault == constants.AlgorithmNameEdDSA
	switch k.Type() {
	case constants.KeyTypeRSA:
		if isEdDSA {
			return constants.AlgorithmNameRS256
		}
	case constants.KeyTypeOKP:
		if !isEdDSA {
			return constants.AlgorithmNameEdDSA
		}
	}
	return configDefault
}

func nameFor(m *crypto.Manager, id int) string {
	for _, e := range m.List() {
		if e.Identifier == id {
			return e.Name
		}
	}
	return strconv.Itoa(id)
}
