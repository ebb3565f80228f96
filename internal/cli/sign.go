package cli

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/cose/internal/errors"
)

// signOptions holds the flags of the sign command.
type signOptions struct {
	keyPath string
	alg     string
	in      string
	out     string
}

// signResult is the JSON response of the sign command.
type signResult struct {
	Algorithm  string `json:"algorithm"`
	Identifier int    `json:"identifier"`
	Signature  string `json:"signature"`
	Output     string `json:"output,omitempty"`
}

// AddSignCommand adds the sign command to the root command.
func AddSignCommand(root *cobra.Command) {
	root.AddCommand(newSignCmd())
}

func newSignCmd() *cobra.Command {
	opts := &signOptions{}

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a payload",
		Long: `Sign a payload with a private key and print the detached signature
as base64url text.

The algorithm is taken from --alg, then the key document's alg member,
then crypto.default_algorithm from configuration.

Examples:
  cose sign --key ed25519.yaml --in message.txt
  cat message.txt | cose sign --key rsa.yaml --alg RS256 --out message.sig`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSign(cmd.Context(), cmd, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.keyPath, "key", "k", "", "key document (YAML or JSON)")
	cmd.Flags().StringVarP(&opts.alg, "alg", "a", "", "algorithm name or COSE identifier")
	cmd.Flags().StringVarP(&opts.in, "in", "i", "-", "payload file, - for stdin")
	cmd.Flags().StringVar(&opts.out, "out", "", "write the signature to this file instead of stdout")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func runSign(ctx context.Context, cmd *cobra.Command, opts *signOptions, w io.Writer) error {
	logger := zerolog.Ctx(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	k, err := loadKey(opts.keyPath)
	if err != nil {
		return err
	}

	m, err := newManager(newEngine())
	if err != nil {
		return err
	}
	alg, name, err := resolveAlgorithm(m, opts.alg, k, cfg.Crypto.DefaultAlgorithm)
	if err != nil {
		return err
	}

	payload, err := readPayload(opts.in, cmd.InOrStdin())
	if err != nil {
		return err
	}

	sig, err := alg.Sign(ctx, payload, k.material)
	if err != nil {
		return err
	}
	encoded := base64.RawURLEncoding.EncodeToString(sig)

	logger.Debug().
		Str("algorithm", name).
		Int("payload_bytes", len(payload)).
		Int("signature_bytes", len(sig)).
		Msg("payload signed")

	if opts.out != "" {
		if err := os.WriteFile(opts.out, []byte(encoded+"\n"), 0o600); err != nil {
			return errors.Wrapf(err, "failed to write signature to %s", opts.out)
		}
	}

	if outputFormat(cmd) == OutputJSON {
		result := signResult{Algorithm: name, Identifier: alg.Identifier(), Signature: encoded, Output: opts.out}
		return writeJSON(w, result)
	}

	if opts.out != "" {
		_, err = fmt.Fprintf(w, "Signature written to %s\n", opts.out)
		return err
	}
	_, err = fmt.Fprintln(w, encoded)
	return err
}

// readPayload reads the payload from path, or from stdin when path is empty or "-".
func readPayload(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read payload from stdin")
		}
		return data, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the user
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read payload %s", path)
	}
	return data, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
