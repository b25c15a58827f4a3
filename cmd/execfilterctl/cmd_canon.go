package main

import (
	"fmt"

	"github.com/firejail/execfilter/internal/policy/canon"
	"github.com/spf13/cobra"
)

func newCanonCmd() *cobra.Command {
	var mode string
	var nolinks bool

	cmd := &cobra.Command{
		Use:   "canon <path>",
		Short: "Canonicalize a path the way the preload library does",
		Args:  cobra.ExactArgs(1),
		Example: `  execfilterctl canon ~/docs/./../docs
  execfilterctl canon --mode=missing --nolinks /tmp/does/not/exist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseCanonMode(mode)
			if err != nil {
				return err
			}
			out, err := canon.Canonicalize(args[0], m, nolinks)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "existing", "existence requirement: existing, all-but-last, or missing")
	cmd.Flags().BoolVar(&nolinks, "nolinks", false, "detect symlinks but never resolve them")
	return cmd
}

func parseCanonMode(s string) (canon.Mode, error) {
	switch s {
	case "existing":
		return canon.Existing, nil
	case "all-but-last":
		return canon.AllButLast, nil
	case "missing":
		return canon.Missing, nil
	default:
		return 0, fmt.Errorf("canon: unknown mode %q (want existing, all-but-last, or missing)", s)
	}
}
