package commands

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/kestrel/internal/archive"
	"github.com/simonhull/firebird-suite/kestrel/internal/config"
	"github.com/simonhull/firebird-suite/kestrel/internal/logger"
)

var (
	// fs is the filesystem every command reads and writes through.
	fs afero.Fs = afero.NewOsFs()
	// logOutput receives diagnostic logging.
	logOutput io.Writer = os.Stderr
)

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey{}, cfg)
}

// reportedError marks a failure whose details were already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

// IsReported reports whether err's details were already written to the
// output, so the caller only needs to set the exit code.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// configFor returns the configuration resolved before cmd ran, loading it
// if cmd is run on its own.
func configFor(cmd *cobra.Command) (*config.Config, error) {
	if ctx := cmd.Context(); ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return cfg, nil
		}
	}
	return loadConfig(cmd)
}

// loadConfig resolves configuration for cmd from its --config flag, the
// environment and its other flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(fs, path, cmd.Flags())
}

// openStore returns the archive described by cfg.
func openStore(cfg *config.Config) *archive.Store {
	return archive.NewStore(fs, cfg.SchemasDir,
		archive.WithIndexFile(cfg.IndexFile),
		archive.WithLogger(logger.Default()))
}
