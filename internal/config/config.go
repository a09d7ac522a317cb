// Package config loads the YAML settings file and process environment for
// the command line tools.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/tactica/tactica-core/internal/errors"
	"github.com/tactica/tactica-core/internal/game/match"
)

// EnvPrefix prefixes environment overrides of file keys, e.g.
// TACTICA_LOGGING_LEVEL.
const EnvPrefix = "TACTICA"

// LoggingConfig selects the log level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// File is the settings file layout.
type File struct {
	Logging LoggingConfig   `mapstructure:"logging"`
	Seed    *uint32         `mapstructure:"seed"`
	Match   match.Overrides `mapstructure:"match"`
}

// Load reads path into a File. An empty path yields the defaults, still
// subject to environment overrides.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Config(errors.CodeConfigRead, "read config %s", path).Wrap(err)
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, errors.Config(errors.CodeConfigRead, "decode config %s", path).Wrap(err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the logging section and that the match overrides resolve.
func (f *File) Validate() error {
	switch f.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Config(errors.CodeInvalidLoggingLevel, "unknown logging level %q", f.Logging.Level)
	}
	_, err := match.Resolve(&f.Match)
	return err
}

// Options turns the file into match options.
func (f *File) Options() match.Options {
	o := f.Match
	opts := match.Options{Config: &o}
	if f.Seed != nil {
		seed := *f.Seed
		opts.Seed = &seed
	}
	return opts
}
