package main

import (
	"fmt"
	"os"

	"github.com/firejail/execfilter/internal/policy/assoc"
	"github.com/firejail/execfilter/internal/policy/assocconfig"
	"github.com/spf13/cobra"
)

// buildRegistry returns the built-in association registry, extended with
// whatever groups are defined in the configured YAML file, if it exists.
// A missing file is not an error; a malformed one is.
func buildRegistry(configPath string) (*assoc.Registry, error) {
	r := assoc.New()
	if configPath == "" {
		return r, nil
	}
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, err
	}
	groups, err := assocconfig.Load(configPath)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		r.AddGroup(g)
	}
	return r, nil
}

func newAssocCmd(flags *policyFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assoc",
		Short: "Inspect the binary-association registry",
	}
	cmd.AddCommand(newAssocDescribeCmd(flags))
	cmd.AddCommand(newAssocIsAssociatedCmd(flags))
	cmd.AddCommand(newAssocListCmd(flags))
	return cmd
}

func newAssocDescribeCmd(flags *policyFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <binary>",
		Short: "Print the colon-joined membership description for a binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildRegistry(flags.assocConfig)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.DescribeFor(args[0]))
			return nil
		},
	}
}

func newAssocIsAssociatedCmd(flags *policyFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "is-associated <caller> <callee>",
		Short: "Report whether two binaries belong to the same association group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildRegistry(flags.assocConfig)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.IsAssociated(args[0], args[1]))
			return nil
		},
	}
}

func newAssocListCmd(flags *policyFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every association group's main key and members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildRegistry(flags.assocConfig)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range r.MainKeys() {
				fmt.Fprintf(out, "%s: %s\n", key, r.DescribeFor(key))
			}
			return nil
		},
	}
}
