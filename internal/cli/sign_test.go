package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/cose/internal/engine"
	"github.com/mrz1836/cose/internal/errors"
)

// brokenEngine fails every operation.
type brokenEngine struct{}

func (brokenEngine) DetachedSign(_, _ []byte) ([]byte, error) { return nil, engine.ErrInvalidSecretSize }

func (brokenEngine) DetachedVerify(_, _, _ []byte) error { return engine.ErrInvalidPublicKeySize }

func (brokenEngine) RSASign(_ []byte, _ string, _ engine.Hash) ([]byte, error) {
	return nil, engine.ErrMalformedPEM
}

func (brokenEngine) RSAVerify(_, _ []byte, _ string, _ engine.Hash) engine.VerifyResult {
	return engine.ResultError
}

func useEngine(t *testing.T, e engine.Engine) {
	t.Helper()

	orig := newEngine
	newEngine = func() engine.Engine { return e }
	t.Cleanup(func() { newEngine = orig })
}

func TestSign_Ed25519Vector(t *testing.T) {
	dir := isolate(t)
	keyPath := writeEd25519Key(t, dir, true)

	stdout, _, err := runCLI(t, "", "sign", "--key", keyPath)
	require.NoError(t, err)
	assert.Equal(t, ed25519EmptySig+"\n", stdout)

	// Identifier selectors resolve the same algorithm.
	stdout, _, err = runCLI(t, "", "sign", "--key", keyPath, "--alg", "-8")
	require.NoError(t, err)
	assert.Equal(t, ed25519EmptySig+"\n", stdout)
}

func TestSign_FromFileToFile(t *testing.T) {
	dir := isolate(t)
	keyPath := writeEd25519Key(t, dir, true)
	in := writeTestFile(t, dir, "payload.txt", "")
	out := filepath.Join(dir, "payload.sig")

	stdout, _, err := runCLI(t, "", "sign", "-k", keyPath, "-i", in, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signature written to "+out)

	data, err := os.ReadFile(out) //nolint:gosec // test temp dir
	require.NoError(t, err)
	assert.Equal(t, ed25519EmptySig, strings.TrimSpace(string(data)))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSign_JSONOutput(t *testing.T) {
	dir := isolate(t)
	keyPath := writeRSAKey(t, dir, true)

	stdout, _, err := runCLI(t, "hello", "-o", "json", "sign", "--key", keyPath, "--alg", "RS512")
	require.NoError(t, err)

	var result signResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "RS512", result.Algorithm)
	assert.Equal(t, -259, result.Identifier)
	assert.NotEmpty(t, result.Signature)
}

func TestSign_RSADefaultsToRS256(t *testing.T) {
	dir := isolate(t)
	keyPath := writeRSAKey(t, dir, true)

	stdout, _, err := runCLI(t, "payload", "-o", "json", "sign", "--key", keyPath)
	require.NoError(t, err)

	var result signResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "RS256", result.Algorithm)
	assert.Equal(t, -257, result.Identifier)
}

func TestSign_Errors(t *testing.T) {
	dir := isolate(t)
	okpPriv := writeEd25519Key(t, dir, true)
	okpPub := writeEd25519Key(t, dir, false)

	tests := []struct {
		name    string
		args    []string
		wantErr error
		code    int
	}{
		{name: "public key cannot sign", args: []string{"sign", "--key", okpPub}, wantErr: errors.ErrInvalidKeyUsage, code: ExitError},
		{name: "family mismatch", args: []string{"sign", "--key", okpPriv, "--alg", "RS256"}, wantErr: errors.ErrUnsupportedAlgorithm, code: ExitError},
		{name: "unknown algorithm", args: []string{"sign", "--key", okpPriv, "--alg", "ES256"}, wantErr: errors.ErrAlgorithmNotFound, code: ExitError},
		{name: "unknown identifier", args: []string{"sign", "--key", okpPriv, "--alg", "-7"}, wantErr: errors.ErrAlgorithmNotFound, code: ExitError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, "payload", tc.args...)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.code, ExitCodeForError(err))
		})
	}

	_, _, err := runCLI(t, "", "sign")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestSign_EngineFailureKeepsCause(t *testing.T) {
	dir := isolate(t)
	useEngine(t, brokenEngine{})

	_, _, err := runCLI(t, "payload", "sign", "--key", writeEd25519Key(t, dir, true))
	require.ErrorIs(t, err, errors.ErrSigningFailed)
	require.ErrorIs(t, err, engine.ErrInvalidSecretSize)

	_, _, err = runCLI(t, "payload", "sign", "--key", writeRSAKey(t, dir, true))
	require.ErrorIs(t, err, errors.ErrSigningFailed)
	require.ErrorIs(t, err, engine.ErrMalformedPEM)
}

func TestReadPayload(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "p.bin", "from file")

	data, err := readPayload(path, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "from file", string(data))

	data, err = readPayload("-", strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(data))

	_, err = readPayload(filepath.Join(dir, "missing"), nil)
	require.Error(t, err)
}
