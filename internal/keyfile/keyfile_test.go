package keyfile

import (
	"crypto/rand"
	"crypto/rsa"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/cose/internal/constants"
	coseerrors "github.com/mrz1836/cose/internal/errors"
	"github.com/mrz1836/cose/internal/key"
)

const (
	ed25519X = "11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo"
	ed25519D = "nWGxne_9WmC6hEr0kuwsxERJxWl7MmkZcDusAxyuf2A"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_OKP(t *testing.T) {
	t.Run("yaml private key", func(t *testing.T) {
		path := writeFile(t, "ed.yaml", "kty: OKP\ncrv: Ed25519\nx: "+ed25519X+"\nd: "+ed25519D+"\nkid: signer-1\n")

		doc, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "signer-1", doc.Kid)

		m, err := doc.Material()
		require.NoError(t, err)
		okp, ok := m.(*key.OKP)
		require.True(t, ok)
		assert.True(t, okp.IsPrivate())
		assert.Equal(t, constants.CurveEd25519, okp.Curve())
		assert.Len(t, okp.X(), 32)
	})

	t.Run("json public key with padding", func(t *testing.T) {
		path := writeFile(t, "ed.json", `{"kty":"OKP","crv":"Ed25519","x":"`+ed25519X+`="}`)

		doc, err := Load(path)
		require.NoError(t, err)
		m, err := doc.Material()
		require.NoError(t, err)
		assert.False(t, m.IsPrivate())
	})

	t.Run("data carries labels", func(t *testing.T) {
		doc := &Document{Kty: "OKP", Crv: "X25519", X: ed25519X}
		data, err := doc.Data()
		require.NoError(t, err)
		assert.Equal(t, constants.KeyTypeOKP, data[constants.KeyLabelKty])
		assert.Equal(t, constants.CurveX25519, data[constants.OKPLabelCurve])
		assert.NotContains(t, data, constants.OKPLabelD)
	})
}

func TestDocument_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr error
	}{
		{name: "unknown kty", doc: Document{Kty: "oct"}, wantErr: coseerrors.ErrUnsupportedKeyType},
		{name: "ec key", doc: Document{Kty: "EC"}, wantErr: coseerrors.ErrUnsupportedKeyType},
		{name: "missing crv", doc: Document{Kty: "OKP", X: ed25519X}, wantErr: coseerrors.ErrKeyFileInvalid},
		{name: "unknown crv", doc: Document{Kty: "OKP", Crv: "P-256", X: ed25519X}, wantErr: coseerrors.ErrUnsupportedCurve},
		{name: "bad base64", doc: Document{Kty: "OKP", Crv: "Ed25519", X: "not base64!"}, wantErr: coseerrors.ErrKeyFileInvalid},
		{name: "missing x", doc: Document{Kty: "OKP", Crv: "Ed25519"}, wantErr: coseerrors.ErrKeyMissingParameter},
		{name: "short x", doc: Document{Kty: "OKP", Crv: "Ed25519", X: "AQID"}, wantErr: coseerrors.ErrKeyInvalidParameter},
		{name: "rsa missing n", doc: Document{Kty: "RSA", E: "AQAB"}, wantErr: coseerrors.ErrKeyMissingParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.Material()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("kty: [unclosed"), "yaml")
	require.ErrorIs(t, err, coseerrors.ErrKeyFileInvalid)

	_, err = Parse([]byte(`{"crv":"Ed25519"}`), "json")
	require.ErrorIs(t, err, coseerrors.ErrKeyFileInvalid)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestFromMaterial_RoundTrip(t *testing.T) {
	t.Run("rsa private", func(t *testing.T) {
		priv, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		doc, err := FromMaterial(key.FromPrivateKey(priv))
		require.NoError(t, err)
		assert.Equal(t, "RSA", doc.Kty)
		assert.Equal(t, "AQAB", doc.E)
		assert.NotEmpty(t, doc.QI)

		path := filepath.Join(t.TempDir(), "keys", "rsa.yaml")
		require.NoError(t, Write(path, doc))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		loaded, err := Load(path)
		require.NoError(t, err)
		m, err := loaded.Material()
		require.NoError(t, err)

		rk, ok := m.(*key.RSA)
		require.True(t, ok)
		assert.True(t, rk.IsPrivate())
		assert.Equal(t, 0, priv.N.Cmp(rk.PublicKey().N))
		assert.Equal(t, 0, priv.D.Cmp(rk.PrivateKey().D))
	})

	t.Run("rsa public json", func(t *testing.T) {
		priv, err := rsa.GenerateKey(rand.Reader, 1024)
		require.NoError(t, err)

		doc, err := FromMaterial(key.FromPublicKey(&priv.PublicKey))
		require.NoError(t, err)
		assert.Empty(t, doc.D)

		path := filepath.Join(t.TempDir(), "rsa.json")
		require.NoError(t, Write(path, doc))

		loaded, err := Load(path)
		require.NoError(t, err)
		m, err := loaded.Material()
		require.NoError(t, err)
		assert.False(t, m.IsPrivate())
	})

	t.Run("okp", func(t *testing.T) {
		doc := &Document{Kty: "OKP", Crv: "Ed25519", X: ed25519X, D: ed25519D}
		m, err := doc.Material()
		require.NoError(t, err)

		out, err := FromMaterial(m)
		require.NoError(t, err)
		assert.Equal(t, ed25519X, out.X)
		assert.Equal(t, ed25519D, out.D)
		assert.Equal(t, "Ed25519", out.Crv)
	})

	t.Run("nil material", func(t *testing.T) {
		_, err := FromMaterial(nil)
		require.ErrorIs(t, err, coseerrors.ErrUnsupportedKeyType)
	})
}

func TestFromMaterial_LeavesKeyUntouched(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	bare := &rsa.PrivateKey{PublicKey: priv.PublicKey, D: priv.D, Primes: priv.Primes}

	doc, err := FromMaterial(key.FromPrivateKey(bare))
	require.NoError(t, err)

	assert.Nil(t, bare.Precomputed.Dp)
	assert.Nil(t, bare.Precomputed.Dq)
	assert.Nil(t, bare.Precomputed.Qinv)

	assert.Equal(t, encode(priv.Precomputed.Dp.Bytes()), doc.DP)
	assert.Equal(t, encode(priv.Precomputed.Dq.Bytes()), doc.DQ)
	assert.Equal(t, encode(priv.Precomputed.Qinv.Bytes()), doc.QI)

	m, err := doc.Material()
	require.NoError(t, err)
	rk, ok := m.(*key.RSA)
	require.True(t, ok)
	assert.Equal(t, 0, priv.D.Cmp(rk.PrivateKey().D))
}

func TestCRTValues(t *testing.T) {
	dp, dq, qi, err := crtValues(big.NewInt(7), big.NewInt(11), big.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, int64(7), dp.Int64())
	assert.Equal(t, int64(3), dq.Int64())
	assert.Equal(t, int64(9), qi.Int64())

	_, _, _, err = crtValues(big.NewInt(7), big.NewInt(11), big.NewInt(22))
	require.ErrorIs(t, err, coseerrors.ErrUnsupportedKeyType)
}

func TestDecodeBase64(t *testing.T) {
	b, err := DecodeBase64("aGVsbG8")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)

	b, err = DecodeBase64(" aGVsbG8=\n")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)

	_, err = DecodeBase64("a+b/")
	require.Error(t, err)
}
