package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/kestrel/internal/compat"
	"github.com/simonhull/firebird-suite/kestrel/internal/logger"
	"github.com/simonhull/firebird-suite/kestrel/internal/output"
	"github.com/simonhull/firebird-suite/kestrel/internal/template"
)

// CheckCmd creates the check command
func CheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the template is backwards compatible",
		Long: `Compares the live template against the latest archived version.

Every field of the previous version must still exist with the same type,
and the version number must increase. With nothing archived yet the check
passes.

Examples:
  kestrel check
  kestrel check --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFor(cmd)
			if err != nil {
				return err
			}

			current, err := template.Load(fs, cfg.Template)
			if err != nil {
				return fmt.Errorf("loading %s: %w", cfg.Template, err)
			}

			report, err := compat.NewChecker(openStore(cfg), logger.Default()).Check(current)
			var incompatible *compat.CompatibilityError
			if errors.As(err, &incompatible) {
				output.Error("Backwards compatibility check failed!")
				output.Plain("")
				output.Plain("The following issues were found:")
				for _, issue := range incompatible.Issues {
					output.Plain("  - " + issue.String())
				}
				output.Plain("")
				output.Plain("To maintain backwards compatibility, all fields from previous versions must remain.")
				output.Plain("You can add new optional fields, but cannot remove or change existing ones.")
				return reported(err)
			}
			if err != nil {
				return err
			}

			if report.FirstVersion {
				output.Info("No previous schema versions found. First commit allowed.")
				return nil
			}
			output.Success(fmt.Sprintf("Compatibility check passed! (v%s -> v%s)", report.Previous, report.Current))
			return nil
		},
	}
}
