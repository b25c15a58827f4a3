package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/firejail/execfilter/internal/policy/assocconfig"
	"github.com/firejail/execfilter/internal/policy/watch"
	"github.com/spf13/cobra"
)

func newPolicyCmd(flags *policyFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Validate and watch the policy files",
	}
	cmd.AddCommand(newPolicyValidateCmd(flags))
	cmd.AddCommand(newPolicyWatchCmd(flags))
	return cmd
}

func newPolicyValidateCmd(flags *policyFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every configured policy file is readable and well formed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, p := range []string{flags.helperBins, flags.managedBins, flags.managedFiles} {
				if _, err := os.ReadFile(p); err != nil {
					return fmt.Errorf("policy: %s: %w", p, err)
				}
				fmt.Fprintf(out, "ok   %s\n", p)
			}

			if _, err := os.Stat(flags.assocConfig); os.IsNotExist(err) {
				fmt.Fprintf(out, "skip %s (not present)\n", flags.assocConfig)
				return nil
			}
			if err := assocconfig.Validate(flags.assocConfig); err != nil {
				return fmt.Errorf("policy: %s: %w", flags.assocConfig, err)
			}
			fmt.Fprintf(out, "ok   %s\n", flags.assocConfig)
			return nil
		},
	}
}

func newPolicyWatchCmd(flags *policyFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the policy files and re-validate on every change until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := []string{flags.helperBins, flags.managedBins, flags.managedFiles}
			validators := map[string]watch.Validator{}

			if _, err := os.Stat(flags.assocConfig); err == nil {
				paths = append(paths, flags.assocConfig)
				validators[flags.assocConfig] = assocconfig.Validate
			}

			w, err := watch.New(paths, validators, slog.Default())
			if err != nil {
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(cmd.OutOrStdout(), "watching policy files, press ctrl-c to stop")
			if err := w.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
}
