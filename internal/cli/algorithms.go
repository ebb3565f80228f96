package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mrz1836/cose/internal/crypto"
)

// AddAlgorithmsCommand adds the algorithms command to the root command.
func AddAlgorithmsCommand(root *cobra.Command) {
	root.AddCommand(newAlgorithmsCmd())
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the supported signature algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAlgorithms(cmd, cmd.OutOrStdout())
		},
	}
}

func runAlgorithms(cmd *cobra.Command, w io.Writer) error {
	m, err := newManager(newEngine())
	if err != nil {
		return err
	}
	entries := m.List()

	if outputFormat(cmd) == OutputJSON {
		if entries == nil {
			entries = []crypto.Entry{}
		}
		return writeJSON(w, entries)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tIDENTIFIER")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%d\n", e.Name, e.Identifier)
	}
	return tw.Flush()
}
