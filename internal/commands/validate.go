package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/kestrel/internal/output"
	"github.com/simonhull/firebird-suite/kestrel/internal/validate"
)

// ValidateCmd creates the validate command
func ValidateCmd() *cobra.Command {
	var schemaVersion string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a YAML file against the schema",
		Long: `Validates a configuration file against the live template, or against an
archived schema version with --schema-version.

Errors fail validation. Warnings (optional fields left out, unknown fields)
are reported but only fail validation with --strict.

Examples:
  kestrel validate config/run.yaml
  kestrel validate config/run.yaml --schema-version 1.2
  kestrel validate config/run.yaml --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFor(cmd)
			if err != nil {
				return err
			}

			file := args[0]
			exists, err := afero.Exists(fs, file)
			if err != nil {
				return fmt.Errorf("checking %s: %w", file, err)
			}
			if !exists {
				return fmt.Errorf("File '%s' not found", file)
			}

			var v *validate.Validator
			if schemaVersion != "" {
				v, err = validate.NewForVersion(openStore(cfg), schemaVersion)
			} else {
				v, err = validate.NewFromFile(fs, cfg.Template)
			}
			if err != nil {
				return err
			}

			result, err := v.ValidateFile(fs, file)
			if err != nil {
				return err
			}

			printResult(result, filepath.Base(file), schemaVersion, cfg.Strict)

			if err := result.Err(cfg.Strict); err != nil {
				return reported(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&schemaVersion, "schema-version", "s", "", "Validate against an archived schema version")
	cmd.Flags().Bool("strict", false, "Treat warnings as failures")

	return cmd
}

func printResult(result *validate.Result, name, schemaVersion string, strict bool) {
	if !result.Valid {
		output.Error("Validation FAILED")
		output.Plain("")
		output.Plain("Errors:")
		for _, e := range result.Errors {
			output.Plain("  - " + e)
		}
	}

	if len(result.Warnings) > 0 {
		if !result.Valid {
			output.Plain("")
		}
		output.Plain("Warnings:")
		for _, w := range result.Warnings {
			output.Warn(w)
		}
	}

	switch {
	case result.Passed(strict):
		output.Success(fmt.Sprintf("Validation PASSED for '%s'", name))
		if schemaVersion != "" {
			output.Step(fmt.Sprintf("(validated against schema version %s)", schemaVersion))
		}
	case result.Valid:
		output.Plain("")
		output.Error("Validation FAILED: warnings are not allowed in strict mode")
	}
}
