package keyfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coseerrors "github.com/mrz1836/cose/internal/errors"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "payload.bin"), []byte("hello"), 0o600))

	manifest := `algorithm: EdDSA
entries:
  - name: from-file
    payload: payload.bin
    signature: AQID
  - payload_b64: aGVsbG8
    signature: BAUG
`
	path := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o600))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "EdDSA", m.Algorithm)
	require.Len(t, m.Entries, 2)

	payload, sig, err := m.Resolve(0)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), payload)
	assert.Equal(t, []byte{1, 2, 3}, sig)
	assert.Equal(t, "from-file", m.Entries[0].Label(0))

	payload, sig, err = m.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), payload)
	assert.Equal(t, []byte{4, 5, 6}, sig)
	assert.Equal(t, "entry-1", m.Entries[1].Label(1))
}

func TestParseManifest_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed", content: "entries: [unclosed"},
		{name: "no entries", content: "algorithm: RS256\n"},
		{name: "no payload", content: "entries:\n  - signature: AQID\n"},
		{name: "both payloads", content: "entries:\n  - payload: a\n    payload_b64: AQID\n    signature: AQID\n"},
		{name: "no signature", content: "entries:\n  - payload: a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.content), "yaml")
			require.ErrorIs(t, err, coseerrors.ErrManifestInvalid)
		})
	}
}

func TestManifest_ResolveErrors(t *testing.T) {
	m, err := ParseManifest([]byte(`{"entries":[{"payload_b64":"aGVsbG8","signature":"!!"},{"payload":"/does/not/exist","signature":"AQID"}]}`), "json")
	require.NoError(t, err)

	_, _, err = m.Resolve(0)
	require.ErrorIs(t, err, coseerrors.ErrManifestInvalid)

	_, _, err = m.Resolve(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/does/not/exist")
}
