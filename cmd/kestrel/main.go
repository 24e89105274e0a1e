package main

import (
	"os"

	"github.com/simonhull/firebird-suite/kestrel/internal/commands"
	"github.com/simonhull/firebird-suite/kestrel/internal/output"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.ArchiveCmd())
	rootCmd.AddCommand(commands.CheckCmd())
	rootCmd.AddCommand(commands.ValidateCmd())
	rootCmd.AddCommand(commands.VersionsCmd())
	rootCmd.AddCommand(commands.LintCmd())
	rootCmd.AddCommand(commands.VersionCmd())

	if err := rootCmd.Execute(); err != nil {
		if !commands.IsReported(err) {
			output.Error(err.Error())
		}
		os.Exit(1)
	}
}
