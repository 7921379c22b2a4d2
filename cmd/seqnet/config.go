package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const envSeqnetConfig = "SEQNET_CONFIG"

// Config represents the seqnet configuration file
// (~/.config/seqnet/config.yaml).  All fields are pointers so we can
// distinguish "not set" from zero values.
type Config struct {
	Seed      *int64   `yaml:"seed"`
	Samples   *int64   `yaml:"samples"`
	Amplitude *float64 `yaml:"amplitude"`
	Step      *float64 `yaml:"step"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Effect chain
	GainDB     *float64 `yaml:"gain_db"`
	SampleRate *float64 `yaml:"sample_rate"`

	// Server
	ServerAddress string `yaml:"server_address"`
	MaxRuns       *int64 `yaml:"max_runs"`
}

func configPath() string {
	if configFile != "" {
		return configFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "seqnet", "config.yaml")
}

// LoadConfig reads the config file.  A missing file yields a zero Config; a
// file that exists but does not parse is an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyLoggingConfig applies config file defaults to the root logging flags.
func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyModelConfig applies config file defaults to the seed flag when it was
// not explicitly set.
func applyModelConfig(c *cli.Command, cfg Config) {
	if cfg.Seed != nil && !c.IsSet("seed") {
		seed = *cfg.Seed
	}
}

// applySignalConfig applies config file defaults to the signal flags.
func applySignalConfig(c *cli.Command, cfg Config) {
	if cfg.Samples != nil && !c.IsSet("samples") {
		samples = *cfg.Samples
	}
	if cfg.Amplitude != nil && !c.IsSet("amplitude") {
		amplitude = *cfg.Amplitude
	}
	if cfg.Step != nil && !c.IsSet("step") {
		step = *cfg.Step
	}
}

// applyProcessConfig applies config file defaults to process command
// variables.
func applyProcessConfig(c *cli.Command, cfg Config, gainDB, sampleRate *float64) {
	if cfg.GainDB != nil && !c.IsSet("gain-db") {
		*gainDB = *cfg.GainDB
	}
	if cfg.SampleRate != nil && !c.IsSet("sample-rate") {
		*sampleRate = *cfg.SampleRate
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string, maxRuns *int64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.MaxRuns != nil && !c.IsSet("max-runs") {
		*maxRuns = *cfg.MaxRuns
	}
}
