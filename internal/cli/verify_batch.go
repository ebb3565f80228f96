package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/cose/internal/config"
	"github.com/mrz1836/cose/internal/crypto"
	"github.com/mrz1836/cose/internal/errors"
	"github.com/mrz1836/cose/internal/key"
	"github.com/mrz1836/cose/internal/keyfile"
)

// verifyBatchOptions holds the flags of the verify-batch command.
type verifyBatchOptions struct {
	keyPath      string
	manifestPath string
	alg          string
	concurrency  int
	timeout      time.Duration
}

// batchEntryResult is the outcome of one manifest entry.
type batchEntryResult struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// batchResult is the JSON response of the verify-batch command.
type batchResult struct {
	Algorithm string             `json:"algorithm"`
	Total     int                `json:"total"`
	Valid     int                `json:"valid"`
	Entries   []batchEntryResult `json:"entries"`
}

// AddVerifyBatchCommand adds the verify-batch command to the root command.
func AddVerifyBatchCommand(root *cobra.Command) {
	root.AddCommand(newVerifyBatchCmd())
}

func newVerifyBatchCmd() *cobra.Command {
	opts := &verifyBatchOptions{}

	cmd := &cobra.Command{
		Use:   "verify-batch",
		Short: "Verify every entry of a manifest",
		Long: `Verify many payload and signature pairs against one key.

Entries are verified concurrently (batch.concurrency, default 4). The command
exits with status 3 if any entry is invalid or cannot be read.

Examples:
  cose verify-batch --key release.pub.yaml --manifest signatures.yaml
  cose verify-batch --key rsa.json --manifest sigs.json --concurrency 16 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerifyBatch(cmd.Context(), cmd, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.keyPath, "key", "k", "", "key document (YAML or JSON)")
	cmd.Flags().StringVarP(&opts.manifestPath, "manifest", "m", "", "manifest listing payloads and signatures")
	cmd.Flags().StringVarP(&opts.alg, "alg", "a", "", "algorithm name or COSE identifier")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "entries verified in parallel (overrides batch.concurrency)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "limit for the whole run (overrides batch.timeout)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func runVerifyBatch(ctx context.Context, cmd *cobra.Command, opts *verifyBatchOptions, w io.Writer) error {
	logger := zerolog.Ctx(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	cfg, err = config.WithOverrides(cfg, &config.Config{
		Batch: config.BatchConfig{Concurrency: opts.concurrency, Timeout: opts.timeout},
	})
	if err != nil {
		return err
	}

	k, err := loadKey(opts.keyPath)
	if err != nil {
		return err
	}

	manifest, err := keyfile.LoadManifest(opts.manifestPath)
	if err != nil {
		return err
	}

	m, err := newManager(newEngine())
	if err != nil {
		return err
	}
	selector := opts.alg
	if selector == "" {
		selector = manifest.Algorithm
	}
	alg, name, err := resolveAlgorithm(m, selector, k, cfg.Crypto.DefaultAlgorithm)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("algorithm", name).
		Int("entries", len(manifest.Entries)).
		Int("concurrency", cfg.Batch.Concurrency).
		Dur("timeout", cfg.Batch.Timeout).
		Msg("starting batch verification")

	ctx, cancel := context.WithTimeout(ctx, cfg.Batch.Timeout)
	defer cancel()

	results, err := verifyEntries(ctx, manifest, alg, k.material, cfg.Batch.Concurrency)
	if err != nil {
		return errors.Wrap(err, "batch verification did not finish")
	}

	valid := 0
	for _, r := range results {
		if r.Valid {
			valid++
		}
	}

	if outputFormat(cmd) == OutputJSON {
		if err := writeJSON(w, batchResult{Algorithm: name, Total: len(results), Valid: valid, Entries: results}); err != nil {
			return err
		}
	} else {
		writeBatchText(w, results, valid)
	}

	if valid != len(results) {
		err := errors.Wrapf(errors.ErrSignatureInvalid, "%d of %d entries failed", len(results)-valid, len(results))
		if outputFormat(cmd) == OutputJSON {
			return fmt.Errorf("%w: %w", errors.ErrJSONErrorOutput, err)
		}
		return err
	}
	return nil
}

// verifyEntries verifies every manifest entry with at most limit in flight.
// Per-entry failures are recorded in the results; only cancellation aborts the run.
func verifyEntries(ctx context.Context, manifest *keyfile.Manifest, alg crypto.Verifier, k key.Material, limit int) ([]batchEntryResult, error) {
	results := make([]batchEntryResult, len(manifest.Entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range manifest.Entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i].Name = manifest.Entries[i].Label(i)

			payload, sig, err := manifest.Resolve(i)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}

			valid, err := alg.Verify(gctx, payload, k, sig)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				results[i].Error = err.Error()
				return nil
			}
			results[i].Valid = valid
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeBatchText(w io.Writer, results []batchEntryResult, valid int) {
	for _, r := range results {
		status := "valid"
		switch {
		case r.Error != "":
			status = "error"
		case !r.Valid:
			status = "invalid"
		}
		line := fmt.Sprintf("%-8s %s", status, r.Name)
		if r.Error != "" {
			line += ": " + r.Error
		}
		_, _ = fmt.Fprintln(w, line)
	}
	_, _ = fmt.Fprintf(w, "%d/%d valid\n", valid, len(results))
}
