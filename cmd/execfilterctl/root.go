package main

import (
	"log/slog"
	"os"

	"github.com/firejail/execfilter/internal/policy"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// policyFlags holds the paths shared by every subcommand that touches
// the policy-file cache or the association config.
type policyFlags struct {
	helperBins   string
	managedBins  string
	managedFiles string
	assocConfig  string
}

func (f *policyFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.helperBins, "helpers", policy.HelperBinsPath, "path to the helper-bins policy list")
	cmd.PersistentFlags().StringVar(&f.managedBins, "managed-bins", policy.ManagedBinsPath, "path to the managed-bins policy list")
	cmd.PersistentFlags().StringVar(&f.managedFiles, "managed-files", policy.ManagedFilesPath, "path to the managed-files policy list")
	cmd.PersistentFlags().StringVar(&f.assocConfig, "assoc-config", "/etc/firejail/self/associations.yaml", "path to the YAML association-group config")
}

func newRootCmd() *cobra.Command {
	flags := &policyFlags{}

	root := &cobra.Command{
		Use:   "execfilterctl",
		Short: "Inspect and exercise the exec-call interceptor's policy engine",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo})))
		},
	}
	flags.register(root)

	root.AddCommand(newDecideCmd(flags))
	root.AddCommand(newCanonCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newAssocCmd(flags))
	root.AddCommand(newPolicyCmd(flags))

	return root
}
