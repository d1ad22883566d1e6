package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/promptcheck/fixture"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <fixture-file>...",
		Short: "Structurally validate fixture files and list their groups",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed bool
			for _, path := range args {
				m, err := fixture.ReadFixtureMap(path)
				if err != nil {
					failed = true
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}

				groups := make([]string, 0, len(m))
				for name := range m {
					groups = append(groups, name)
				}
				sort.Strings(groups)

				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d group(s))\n", path, len(groups))
				for _, name := range groups {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d item(s)\n", name, len(m[name]))
				}
			}
			if failed {
				return fmt.Errorf("validate: one or more fixture files are invalid")
			}
			return nil
		},
	}
}
