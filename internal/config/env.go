package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Process holds settings read from the environment of a command.
type Process struct {
	LogLevel   string `env:"LOG_LEVEL"`
	LogFormat  string `env:"LOG_FORMAT"`
	MatchSeed  uint32 `env:"MATCH_SEED" envDefault:"101"`
	MatchCount int    `env:"MATCH_COUNT" envDefault:"8"`
	ConfigPath string `env:"CONFIG_PATH"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadProcess parses Process from the environment.
func LoadProcess() (Process, error) {
	var p Process
	if err := ParseEnv(&p); err != nil {
		return Process{}, err
	}
	return p, nil
}

// Apply lets non-empty process settings win over the file's logging section.
func (p Process) Apply(f *File) {
	if p.LogLevel != "" {
		f.Logging.Level = p.LogLevel
	}
	if p.LogFormat != "" {
		f.Logging.Format = p.LogFormat
	}
}
