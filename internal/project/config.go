// Package project locates the project manifest and loads interpreter
// configuration from rlox.toml.
package project

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the parsed rlox.toml. Zero values mean "use the default"; the
// CLI applies flag overrides on top.
type Config struct {
	Interpreter InterpreterConfig `toml:"interpreter"`
	GC          GCConfig          `toml:"gc"`
	Check       CheckConfig       `toml:"check"`
	Repl        ReplConfig        `toml:"repl"`
}

// InterpreterConfig tunes diagnostics and output.
type InterpreterConfig struct {
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Color          string `toml:"color"` // auto|always|never
}

// GCConfig tunes the collector.
type GCConfig struct {
	Threshold int  `toml:"threshold"`
	Growth    int  `toml:"growth"`
	Stress    bool `toml:"stress"`
	Log       bool `toml:"log"`
}

// CheckConfig tunes the directory checker.
type CheckConfig struct {
	Cache bool `toml:"cache"`
	Jobs  int  `toml:"jobs"`
}

// ReplConfig tunes the interactive prompt.
type ReplConfig struct {
	Banner bool `toml:"banner"`
}

// DefaultConfig returns the configuration used when no manifest exists.
func DefaultConfig() Config {
	return Config{
		Interpreter: InterpreterConfig{
			MaxDiagnostics: 100,
			Color:          "auto",
		},
		Check: CheckConfig{
			Cache: true,
		},
		Repl: ReplConfig{
			Banner: true,
		},
	}
}

// LoadConfig parses an rlox.toml. Missing sections keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigFrom walks up from startDir and loads the nearest rlox.toml,
// falling back to defaults when none exists.
func LoadConfigFrom(startDir string) (Config, error) {
	path, ok, err := FindRloxToml(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}
