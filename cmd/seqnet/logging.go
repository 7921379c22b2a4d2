package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/seqnet/internal/logger"
)

// stderrIsTTY is a small seam for tests.
var stderrIsTTY = func() bool { return isTerminal(os.Stderr) }

type configKey struct{}

// setupLogging loads the config file and installs the logger into the
// context shared by every subcommand.
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(configPath())
	if err != nil {
		return ctx, cli.Exit("error: "+err.Error(), 1)
	}
	applyLoggingConfig(cmd, cfg)

	level := logger.ParseLevel(logLevel)
	if debug {
		level = slog.LevelDebug
	}
	log := newLogger(logFormat, os.Stderr, level)
	ctx = logger.WithContext(ctx, log)
	return context.WithValue(ctx, configKey{}, cfg), nil
}

// newLogger resolves "auto" to pretty output on a terminal and plain text
// otherwise.
func newLogger(format string, w io.Writer, level slog.Level) logger.Logger {
	if format == "auto" || format == "" {
		format = "text"
		if stderrIsTTY() {
			format = "pretty"
		}
	}
	return logger.ForFormat(format, w, level)
}

func configFromContext(ctx context.Context) Config {
	cfg, _ := ctx.Value(configKey{}).(Config)
	return cfg
}
