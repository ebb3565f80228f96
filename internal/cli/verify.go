package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/cose/internal/errors"
	"github.com/mrz1836/cose/internal/keyfile"
)

// verifyOptions holds the flags of the verify command.
type verifyOptions struct {
	keyPath string
	alg     string
	in      string
	sigPath string
	sigB64  string
}

// verifyResult is the JSON response of the verify command.
type verifyResult struct {
	Algorithm  string `json:"algorithm"`
	Identifier int    `json:"identifier"`
	Valid      bool   `json:"valid"`
}

// AddVerifyCommand adds the verify command to the root command.
func AddVerifyCommand(root *cobra.Command) {
	root.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	opts := &verifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a detached signature",
		Long: `Verify a base64url signature over a payload with a public or private key.

Prints "valid" or "invalid". An invalid signature exits with status 3.

Examples:
  cose verify --key ed25519.pub.yaml --in message.txt --sig message.sig
  cose verify --key rsa.json --alg RS384 --in message.txt --sig-b64 kW1...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd.Context(), cmd, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.keyPath, "key", "k", "", "key document (YAML or JSON)")
	cmd.Flags().StringVarP(&opts.alg, "alg", "a", "", "algorithm name or COSE identifier")
	cmd.Flags().StringVarP(&opts.in, "in", "i", "-", "payload file, - for stdin")
	cmd.Flags().StringVar(&opts.sigPath, "sig", "", "file holding the base64url signature")
	cmd.Flags().StringVar(&opts.sigB64, "sig-b64", "", "base64url signature")
	_ = cmd.MarkFlagRequired("key")
	cmd.MarkFlagsMutuallyExclusive("sig", "sig-b64")
	cmd.MarkFlagsOneRequired("sig", "sig-b64")

	return cmd
}

func runVerify(ctx context.Context, cmd *cobra.Command, opts *verifyOptions, w io.Writer) error {
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

	sig, err := readSignature(opts)
	if err != nil {
		return err
	}

	payload, err := readPayload(opts.in, cmd.InOrStdin())
	if err != nil {
		return err
	}

	valid, err := alg.Verify(ctx, payload, k.material, sig)
	if err != nil {
		return err
	}

	logger.Debug().Str("algorithm", name).Bool("valid", valid).Msg("signature checked")

	if outputFormat(cmd) == OutputJSON {
		if err := writeJSON(w, verifyResult{Algorithm: name, Identifier: alg.Identifier(), Valid: valid}); err != nil {
			return err
		}
		if !valid {
			return fmt.Errorf("%w: %w", errors.ErrJSONErrorOutput, errors.ErrSignatureInvalid)
		}
		return nil
	}

	if !valid {
		_, _ = fmt.Fprintln(w, "invalid")
		return errors.ErrSignatureInvalid
	}
	_, err = fmt.Fprintln(w, "valid")
	return err
}

// readSignature decodes the signature from --sig-b64 or the file named by --sig.
func readSignature(opts *verifyOptions) ([]byte, error) {
	text := opts.sigB64
	source := "--sig-b64"
	if opts.sigPath != "" {
		data, err := os.ReadFile(opts.sigPath) //nolint:gosec // path is supplied by the user
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read signature %s", opts.sigPath)
		}
		text = string(data)
		source = opts.sigPath
	}

	sig, err := keyfile.DecodeBase64(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrSignatureEncoding, source, err)
	}
	return sig, nil
}
