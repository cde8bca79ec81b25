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

// Config represents the blasq configuration file (~/.config/blasq/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Kernels and queue
	Kernels    string `yaml:"kernels"`
	Device     *int   `yaml:"device"`
	ForkSize   *int   `yaml:"fork_size"`
	MaxStreams *int   `yaml:"max_streams"`

	// Server
	ServerAddress string `yaml:"server_address"`

	// Bench defaults
	BenchSize  *int `yaml:"bench_size"`
	BenchBatch *int `yaml:"bench_batch"`
	BenchRuns  *int `yaml:"bench_runs"`
}

// loadedConfig is the file read by setup, consulted by subcommands.
var loadedConfig Config

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "blasq", "config.yaml")
}

// loadConfig reads the config file. A missing file yields a zero Config; a
// malformed one is an error.
func loadConfig(path string) (Config, error) {
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
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// applyGlobalConfig applies config file defaults to root flags when the
// corresponding CLI flag was not explicitly set.
func applyGlobalConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if cfg.Kernels != "" && !c.IsSet("kernels") {
		kernelName = cfg.Kernels
	}
}

// applyQueueConfig applies config file defaults to the queue flags.
func applyQueueConfig(c *cli.Command, cfg Config) {
	if cfg.Device != nil && !c.IsSet("device") {
		deviceID = *cfg.Device
	}
	if cfg.ForkSize != nil && !c.IsSet("fork-size") {
		forkSize = *cfg.ForkSize
	}
	if cfg.MaxStreams != nil && !c.IsSet("max-streams") {
		maxStreams = *cfg.MaxStreams
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	applyQueueConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// applyBenchConfig applies config file defaults to bench command variables.
func applyBenchConfig(c *cli.Command, cfg Config, size, batch, runs *int) {
	applyQueueConfig(c, cfg)
	if cfg.BenchSize != nil && !c.IsSet("size") {
		*size = *cfg.BenchSize
	}
	if cfg.BenchBatch != nil && !c.IsSet("batch") {
		*batch = *cfg.BenchBatch
	}
	if cfg.BenchRuns != nil && !c.IsSet("runs") {
		*runs = *cfg.BenchRuns
	}
}
