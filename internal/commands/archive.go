package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/kestrel/internal/archive"
	"github.com/simonhull/firebird-suite/kestrel/internal/output"
)

// ArchiveCmd creates the archive command
func ArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Archive the current schema template",
		Long: `Copies the live template into the schemas directory as v<version>.yaml
and records the version in the index.

Archiving a version that is already archived with the same content is a
no-op. Archiving different content under an existing version fails.

Examples:
  kestrel archive
  kestrel archive --template config/template.yaml --schemas-dir config/schemas`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFor(cmd)
			if err != nil {
				return err
			}

			data, err := afero.ReadFile(fs, cfg.Template)
			if err != nil {
				return fmt.Errorf("loading %s: %w", cfg.Template, err)
			}

			result, err := openStore(cfg).Archive(data)
			var conflict *archive.ConflictError
			if errors.As(err, &conflict) {
				output.Error(fmt.Sprintf("Version %s already exists with different content!", conflict.Version))
				output.Step(fmt.Sprintf("Please increment the version number in %s", cfg.Template))
				return reported(err)
			}
			if err != nil {
				return err
			}

			if result.Outcome == archive.Unchanged {
				output.Info(fmt.Sprintf("Schema version %s already archived and unchanged.", result.Version))
				return nil
			}
			output.Success(fmt.Sprintf("Archived schema version %s to %s", result.Version, result.Path))
			return nil
		},
	}
}
