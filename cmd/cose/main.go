// Package main provides the entry point for the cose CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/cose/internal/cli"
	"github.com/mrz1836/cose/internal/signal"
)

// Set via ldflags at build time.
var (
	version = "dev"     //nolint:gochecknoglobals // ldflags target
	commit  = "none"    //nolint:gochecknoglobals // ldflags target
	date    = "unknown" //nolint:gochecknoglobals // ldflags target
)

func main() {
	h := signal.NewHandler(context.Background())
	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	interrupted := h.Received() != nil
	h.Stop()

	switch {
	case interrupted:
		os.Exit(signal.ExitCode)
	case err != nil:
		os.Exit(cli.ExitCodeForError(err))
	}
}
