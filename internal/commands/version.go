package commands

import (
	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/kestrel"
	"github.com/simonhull/firebird-suite/kestrel/internal/output"
)

// VersionCmd creates the version command
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kestrel version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			output.Plain("kestrel " + kestrel.Version)
		},
	}
}
