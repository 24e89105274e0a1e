package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/kestrel/internal/output"
)

// VersionsCmd creates the versions command
func VersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List archived schema versions",
		Long:  "Lists every archived schema version in ascending order and marks the latest.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFor(cmd)
			if err != nil {
				return err
			}

			store := openStore(cfg)
			versions, err := store.Versions()
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				output.Info(fmt.Sprintf("No archived schema versions in %s", store.Dir()))
				return nil
			}

			latest, _, err := store.Latest()
			if err != nil {
				return err
			}

			output.Plain(fmt.Sprintf("Archived schema versions (%s):", store.Dir()))
			for _, v := range versions {
				line := "  v" + v
				if v == latest {
					line += " (latest)"
				}
				output.Plain(line)
			}
			return nil
		},
	}
}
