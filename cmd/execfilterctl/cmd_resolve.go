package main

import (
	"fmt"
	"os"

	"github.com/firejail/execfilter/internal/policy/pathres"
	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "resolve <name>",
		Short: "Search $PATH for a bare command name the way execvpe would",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := pathres.Resolve(args[0], path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resolved)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", defaultPath(), "colon-separated search path (defaults to $PATH)")
	return cmd
}

func defaultPath() string {
	if p, ok := os.LookupEnv("PATH"); ok {
		return p
	}
	return pathres.DefaultSearchPath
}
