package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/internal/logger"
	"github.com/samcharles93/blasq/internal/stream"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	debug      bool
	kernelName string
	deviceID   int
	forkSize   int
	maxStreams int
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "config file (default $XDG_CONFIG_HOME/blasq/config.yaml)",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func kernelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "kernels",
			Aliases:     []string{"k"},
			Usage:       "kernel set (see blasq info)",
			Destination: &kernelName,
		},
	}
}

func queueFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "device",
			Usage:       "device id",
			Destination: &deviceID,
		},
		&cli.IntFlag{
			Name:        "fork-size",
			Usage:       "sub-streams a batched call forks into (0 = min(10, max streams))",
			Destination: &forkSize,
		},
		&cli.IntFlag{
			Name:        "max-streams",
			Usage:       "upper bound on the fork width (0 = max(fork size, cpus))",
			Destination: &maxStreams,
		},
	}
}

// setup loads the config file, applies it to the global flags the caller
// left unset and installs the logger in the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := configFile
	if path == "" {
		path = configPath()
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	loadedConfig = cfg
	applyGlobalConfig(cmd, cfg)

	if debug {
		logLevel = "debug"
	}
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	format, err := logger.ParseFormat(logFormat)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	log := logger.New(os.Stderr, logger.Options{Level: level, Format: format})
	return logger.WithContext(ctx, log), nil
}

// kernelSet resolves --kernels, falling back to the build's default set.
func kernelSet() (*kernel.Set, error) {
	if kernelName == "" {
		return kernel.Default(), nil
	}
	set, err := kernel.ByName(kernelName)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	return set, nil
}

func queueConfig(set *kernel.Set, log logger.Logger) stream.Config {
	return stream.Config{
		Device:     deviceID,
		ForkSize:   forkSize,
		MaxStreams: maxStreams,
		Kernels:    set,
		Logger:     log,
	}
}
