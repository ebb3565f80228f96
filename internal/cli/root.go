// Package cli provides the command-line interface for cose.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/cose/internal/config"
	"github.com/mrz1836/cose/internal/errors"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// This is set during PersistentPreRunE and should be accessed via GetLogger.
// Access is protected by globalLoggerMu for thread safety.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// IMPORTANT: This function MUST only be called after the root command's
// PersistentPreRunE has executed. Calling it before initialization will
// return a zero-value logger that discards all log output.
//
// Subcommands normally use zerolog.Ctx(cmd.Context()) instead, which carries
// the same logger plus the invocation's op_id.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// configKey carries the loaded configuration in a command's context.
type configKey struct{}

// loadConfig returns the configuration loaded by the root command, loading it
// afresh when the command runs without the root's pre-run hook.
func loadConfig(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg, nil
	}
	return config.Load(ctx)
}

// loadRootConfig loads the layered configuration. An explicit --config file
// takes the place of the project file and must exist.
func loadRootConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		return config.Load(ctx)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}
	global, err := config.GlobalConfigPath()
	if err != nil {
		global = ""
	}
	return config.LoadFromPaths(ctx, path, global)
}

// newRootCmd creates and returns the root command for the cose CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "cose",
		Short: "cose - COSE signature algorithms from the command line",
		Long: `cose signs and verifies payloads with the COSE signature algorithms
EdDSA (Ed25519) and RSASSA-PKCS1-v1_5 (RS1, RS256, RS384, RS512).

Keys are read from JWK-shaped YAML or JSON documents. Signatures are
written and read as base64url text.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			resolveGlobalFlags(v, flags)

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := loadRootConfig(ctx, flags.ConfigFile)
			if err != nil {
				return err
			}

			logger := InitLogger(flags.Verbose, flags.Quiet, cfg.Logging.FileEnabled).
				With().Str("op_id", uuid.NewString()).Str("command", cmd.Name()).Logger()

			globalLoggerMu.Lock()
			globalLogger = logger
			globalLoggerMu.Unlock()

			cmd.SetContext(logger.WithContext(context.WithValue(ctx, configKey{}, cfg)))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddSignCommand(cmd)
	AddVerifyCommand(cmd)
	AddVerifyBatchCommand(cmd)
	AddAlgorithmsCommand(cmd)
	AddKeyCommand(cmd)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
// Errors are printed to stderr in user-facing form before being returned.
func Execute(ctx context.Context, info BuildInfo) error {
	defer CloseLogFile()

	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
	}
	return err
}

// printError writes the user-facing message and suggested action for err.
// Errors already reported as JSON are not printed again.
func printError(w io.Writer, err error) {
	if stderrors.Is(err, errors.ErrJSONErrorOutput) {
		return
	}

	message, action := errors.Actionable(err)
	_, _ = fmt.Fprintf(w, "Error: %s\n", message)
	if detail := err.Error(); detail != message {
		_, _ = fmt.Fprintf(w, "  %s\n", detail)
	}
	if action != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", action)
	}
}
