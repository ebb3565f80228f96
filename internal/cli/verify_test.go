package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/cose/internal/errors"
)

func TestVerify_Ed25519(t *testing.T) {
	dir := isolate(t)
	pub := writeEd25519Key(t, dir, false)

	stdout, _, err := runCLI(t, "", "verify", "--key", pub, "--sig-b64", ed25519EmptySig)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", stdout)

	// Same signature over a different payload.
	stdout, _, err = runCLI(t, "x", "verify", "--key", pub, "--sig-b64", ed25519EmptySig)
	require.ErrorIs(t, err, errors.ErrSignatureInvalid)
	assert.Equal(t, "invalid\n", stdout)
	assert.Equal(t, ExitInvalidSignature, ExitCodeForError(err))
}

func TestVerify_SignatureFile(t *testing.T) {
	dir := isolate(t)
	pub := writeEd25519Key(t, dir, false)
	sigPath := writeTestFile(t, dir, "empty.sig", ed25519EmptySig+"\n")
	payload := writeTestFile(t, dir, "empty.txt", "")

	stdout, _, err := runCLI(t, "", "verify", "-k", pub, "-i", payload, "--sig", sigPath)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", stdout)
}

func TestVerify_RSARoundTrip(t *testing.T) {
	dir := isolate(t)
	priv := writeRSAKey(t, dir, true)
	pub := writeRSAKey(t, dir, false)

	for _, alg := range []string{"RS1", "RS256", "RS384", "RS512"} {
		t.Run(alg, func(t *testing.T) {
			sig, _, err := runCLI(t, "release v1", "sign", "--key", priv, "--alg", alg)
			require.NoError(t, err)
			sig = strings.TrimSpace(sig)

			stdout, _, err := runCLI(t, "release v1", "-o", "json", "verify", "--key", pub, "--alg", alg, "--sig-b64", sig)
			require.NoError(t, err)

			var result verifyResult
			require.NoError(t, json.Unmarshal([]byte(stdout), &result))
			assert.True(t, result.Valid)
			assert.Equal(t, alg, result.Algorithm)

			// A different hash rejects the signature instead of failing.
			other := "RS256"
			if alg == "RS256" {
				other = "RS512"
			}
			_, stderr, err := runCLI(t, "release v1", "-o", "json", "verify", "--key", pub, "--alg", other, "--sig-b64", sig)
			require.ErrorIs(t, err, errors.ErrSignatureInvalid)
			require.ErrorIs(t, err, errors.ErrJSONErrorOutput)
			assert.Equal(t, ExitInvalidSignature, ExitCodeForError(err))
			assert.Empty(t, stderr)
		})
	}
}

func TestVerify_EngineFaultIsInvalid(t *testing.T) {
	dir := isolate(t)
	useEngine(t, brokenEngine{})

	_, _, err := runCLI(t, "", "verify", "--key", writeEd25519Key(t, dir, false), "--sig-b64", ed25519EmptySig)
	require.ErrorIs(t, err, errors.ErrSignatureInvalid)

	_, _, err = runCLI(t, "", "verify", "--key", writeRSAKey(t, dir, false), "--sig-b64", "AAAA")
	require.ErrorIs(t, err, errors.ErrSignatureInvalid)
}

func TestVerify_InputErrors(t *testing.T) {
	dir := isolate(t)
	pub := writeEd25519Key(t, dir, false)

	tests := []struct {
		name    string
		args    []string
		wantErr error
		code    int
	}{
		{
			name:    "bad base64",
			args:    []string{"verify", "--key", pub, "--sig-b64", "not*base64"},
			wantErr: errors.ErrSignatureEncoding,
			code:    ExitError,
		},
		{
			name:    "wrong family",
			args:    []string{"verify", "--key", pub, "--alg", "RS384", "--sig-b64", ed25519EmptySig},
			wantErr: errors.ErrUnsupportedAlgorithm,
			code:    ExitError,
		},
		{
			name:    "missing key file",
			args:    []string{"verify", "--key", filepath.Join(dir, "nope.yaml"), "--sig-b64", ed25519EmptySig},
			wantErr: os.ErrNotExist,
			code:    ExitError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, "", tc.args...)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.code, ExitCodeForError(err))
		})
	}

	_, _, err := runCLI(t, "", "verify", "--key", pub, "--sig", "a.sig", "--sig-b64", ed25519EmptySig)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))

	_, _, err = runCLI(t, "", "verify", "--key", pub)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}
