package util

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Configuration is the process-level settings block assembled in cmd/app
// from flags and an optional probe config file.
type Configuration struct {
	Version   string
	BuildDate string
	Commit    string

	// Probe settings from the TOML config file.
	Probe ProbeConfig
}

// ProbeConfig mirrors the TOML probe config file: which target profile to
// select and the profiles themselves.
type ProbeConfig struct {
	DefaultTarget string                  `toml:"default_target"`
	Targets       map[string]TargetConfig `toml:"targets"`
}

// TargetConfig is one target profile: initial register values for the
// offline mock plus a script evaluated before the user's own.
type TargetConfig struct {
	Description string            `toml:"description"`
	Registers   map[string]uint64 `toml:"registers"`
	InitScript  string            `toml:"init_script"`
}

// LoadProbeConfig reads a TOML probe config file. A missing path is not an
// error; it yields an empty config.
func LoadProbeConfig(path string) (ProbeConfig, error) {
	var cfg ProbeConfig
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("probe config %s: %w", path, err)
	}
	return cfg, nil
}

// Target resolves a profile by name, falling back to the configured
// default.
func (c ProbeConfig) Target(name string) (TargetConfig, bool) {
	if name == "" {
		name = c.DefaultTarget
	}
	t, ok := c.Targets[name]
	return t, ok
}

// ReadScript loads a script file into memory.
func ReadScript(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("script %s: %w", path, err)
	}
	return string(b), nil
}
