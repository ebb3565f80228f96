package cli

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/cose/internal/key"
	"github.com/mrz1836/cose/internal/keyfile"
)

// Ed25519 key from RFC 8032 test 1.
const (
	ed25519X = "11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo"
	ed25519D = "nWGxne_9WmC6hEr0kuwsxERJxWl7MmkZcDusAxyuf2A"

	// Signature of the empty message under the key above.
	ed25519EmptySig = "5VZDAMNgrHKQhuLMgG6CioSHfx645dl02HPgZSJJAVVfuIIVkKM7rMYeOXAc-bRr0lv18FlbviRlUUFDjnoQCw"
)

var (
	rsaOnce sync.Once       //nolint:gochecknoglobals // shared test fixture
	rsaKey  *rsa.PrivateKey //nolint:gochecknoglobals // shared test fixture
)

func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	rsaOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		rsaKey = k
	})
	return rsaKey
}

// isolate points HOME, COSE_HOME and the working directory at temp dirs so
// commands never read the developer's configuration.
func isolate(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("COSE_HOME", filepath.Join(home, ".cose"))
	for _, name := range []string{"COSE_CRYPTO_DEFAULT_ALGORITHM", "COSE_OUTPUT", "COSE_VERBOSE", "COSE_QUIET"} {
		t.Setenv(name, "")
	}
	work := t.TempDir()
	t.Chdir(work)
	t.Cleanup(CloseLogFile)
	return work
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeEd25519Key(t *testing.T, dir string, private bool) string {
	t.Helper()

	content := "kty: OKP\ncrv: Ed25519\nx: " + ed25519X + "\n"
	name := "ed25519.pub.yaml"
	if private {
		content += "d: " + ed25519D + "\n"
		name = "ed25519.yaml"
	}
	return writeTestFile(t, dir, name, content)
}

func writeRSAKey(t *testing.T, dir string, private bool) string {
	t.Helper()

	priv := testRSAKey(t)
	var m key.Material = key.FromPrivateKey(priv)
	name := "rsa.json"
	if !private {
		m = key.FromPublicKey(&priv.PublicKey)
		name = "rsa.pub.json"
	}

	doc, err := keyfile.FromMaterial(m)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, keyfile.Write(path, doc))
	return path
}
