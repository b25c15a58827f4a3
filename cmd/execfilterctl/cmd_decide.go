package main

import (
	"fmt"

	"github.com/firejail/execfilter/internal/policy"
	"github.com/firejail/execfilter/internal/policy/assoc"
	"github.com/firejail/execfilter/internal/policy/canon"
	"github.com/firejail/execfilter/internal/policy/engine"
	"github.com/spf13/cobra"
)

func newDecideCmd(flags *policyFlags) *cobra.Command {
	var emitEnvHints bool

	cmd := &cobra.Command{
		Use:   "decide <target> [args...]",
		Short: "Run the decision engine against a hypothetical exec call",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			argv := args

			canonical, err := canon.Realpath(target)
			if err != nil {
				return fmt.Errorf("canonicalize target: %w", err)
			}

			e := engine.NewEngine(engine.Paths{
				HelperBins:   flags.helperBins,
				ManagedBins:  flags.managedBins,
				ManagedFiles: flags.managedFiles,
			})
			decision := e.Decide(engine.Call{Target: canonical, Argv: argv})

			out := cmd.OutOrStdout()
			switch {
			case decision.Allowed != nil:
				fmt.Fprintf(out, "ALLOWED %s %v\n", decision.Allowed.Target, decision.Allowed.Argv)
			case decision.Forbidden != nil:
				sentinel := policy.SentinelPrefix + decision.Forbidden.Target
				fmt.Fprintf(out, "FORBIDDEN notify=%s argv=%v\n", sentinel, decision.Forbidden.Argv)
			}

			if emitEnvHints {
				printEnvHints(cmd, target)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&emitEnvHints, "emit-env-hints", false, "print what the reserved FIREJAIL_* hand-off variables would contain for this call")
	return cmd
}

// printEnvHints prints, without ever setting or reading them, what the
// reserved environment variables from spec.md §6 would contain for this
// target — a prototyping aid for supervisor authors (SPEC_FULL §5).
func printEnvHints(cmd *cobra.Command, target string) {
	r := assoc.New()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s=%s\n", policy.EnvAssociations, r.DescribeFor(target))
	fmt.Fprintf(out, "%s=%s\n", policy.EnvSandboxManaged, "")
	fmt.Fprintf(out, "%s=%s\n", policy.EnvSandboxFiles, "")
}
