package config

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/simonhull/firebird-suite/kestrel/internal/archive"
	"github.com/simonhull/firebird-suite/kestrel/internal/logger"
)

// FileName is the config file looked up in the working directory when no
// explicit path is given.
const FileName = "kestrel"

// Config holds the resolved settings for one invocation.
type Config struct {
	Template   string
	SchemasDir string
	IndexFile  string
	Strict     bool
	LogLevel   logger.Level

	// File is the config file that was read, or empty when none was found.
	File string
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"template":    "template",
	"schemas-dir": "schemas_dir",
	"strict":      "strict",
	"log-level":   "log_level",
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() *Config {
	return &Config{
		Template:   "template.yaml",
		SchemasDir: "schemas",
		IndexFile:  archive.DefaultIndexFile,
		Strict:     false,
		LogLevel:   logger.LevelWarn,
	}
}

// Load resolves configuration from, lowest precedence first: defaults,
// kestrel.yml (or the file at path), KESTREL_* environment variables, then
// any flags in flags that were set. A missing kestrel.yml is fine; a missing
// explicit path is not.
func Load(fs afero.Fs, path string, flags *pflag.FlagSet) (*Config, error) {
	defaults := Defaults()

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
	}

	v.SetDefault("template", defaults.Template)
	v.SetDefault("schemas_dir", defaults.SchemasDir)
	v.SetDefault("index_file", defaults.IndexFile)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("log_level", defaults.LogLevel.String())

	// Enable environment variable overrides
	v.SetEnvPrefix("KESTREL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	level, err := logger.ParseLevel(v.GetString("log_level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log_level: %w", err)
	}

	cfg := &Config{
		Template:   v.GetString("template"),
		SchemasDir: v.GetString("schemas_dir"),
		IndexFile:  v.GetString("index_file"),
		Strict:     v.GetBool("strict"),
		LogLevel:   level,
		File:       v.ConfigFileUsed(),
	}

	if cfg.Template == "" {
		return nil, fmt.Errorf("template path not specified")
	}
	if cfg.SchemasDir == "" {
		return nil, fmt.Errorf("schemas directory not specified")
	}
	if cfg.IndexFile == "" {
		cfg.IndexFile = defaults.IndexFile
	}

	return cfg, nil
}
