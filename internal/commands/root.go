package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/kestrel"
	"github.com/simonhull/firebird-suite/kestrel/internal/logger"
	"github.com/simonhull/firebird-suite/kestrel/internal/output"
)

// RootCmd creates and returns the root command for the Kestrel CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "kestrel",
		Short: "Schema guard for YAML configuration files",
		Long: `Kestrel keeps YAML configuration files honest.

It checks documents against a versioned schema template and guards the
template itself against breaking changes:
• Validate configuration files against the live or an archived schema
• Archive each schema version as it ships
• Refuse template edits that remove or retype existing fields

Learn more: https://github.com/simonhull/firebird-suite`,
		Version:       kestrel.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			output.SetVerbose(verbose)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			level := cfg.LogLevel
			if verbose {
				level = logger.LevelDebug
			}
			logger.SetDefault(logger.New(level, logOutput))

			if cfg.File != "" {
				output.Verbose(fmt.Sprintf("Config: %s", cfg.File))
			}
			output.Verbose(fmt.Sprintf("Template: %s", cfg.Template))
			output.Verbose(fmt.Sprintf("Schemas: %s (index %s)", cfg.SchemasDir, cfg.IndexFile))

			cmd.SetContext(withConfig(cmd.Context(), cfg))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (default ./kestrel.yml)")
	cmd.PersistentFlags().StringP("template", "t", "template.yaml", "Path to the live schema template")
	cmd.PersistentFlags().String("schemas-dir", "schemas", "Directory holding archived schema versions")
	cmd.PersistentFlags().String("log-level", "warn", "Diagnostic log level (debug, info, warn, error, silent)")

	return cmd
}
