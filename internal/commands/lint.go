package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/kestrel/internal/output"
	"github.com/simonhull/firebird-suite/kestrel/internal/template"
)

// LintCmd creates the lint command
func LintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Report unknown type placeholders in the template",
		Long: `Checks the live template for placeholder strings such as <sheet_name>
that map to no known type. Validation accepts any value for such fields,
which usually means a typo.

Known placeholders: <int>, <string>, <column_name_or_index>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFor(cmd)
			if err != nil {
				return err
			}

			tmpl, err := template.Load(fs, cfg.Template)
			if err != nil {
				return fmt.Errorf("loading %s: %w", cfg.Template, err)
			}

			issues := template.Lint(tmpl)
			if len(issues) == 0 {
				output.Success(fmt.Sprintf("No unknown placeholders in %s", cfg.Template))
				return nil
			}

			for _, issue := range issues {
				output.Warn(issue.String())
			}
			return reported(fmt.Errorf("%d unknown placeholder(s) in %s", len(issues), cfg.Template))
		},
	}
}
