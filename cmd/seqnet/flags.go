package main

import (
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/seqnet/internal/signal"
)

var (
	configFile string
	seed       int64
	samples    int64
	amplitude  float64
	step       float64
	logLevel   string
	logFormat  string
	debug      bool
)

func modelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "parameter initialisation seed (default -1 = time-seeded)",
			Value:       -1,
			Destination: &seed,
		},
	}
}

func signalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "samples",
			Aliases:     []string{"n"},
			Usage:       "number of input samples",
			Value:       signal.DefaultSamples,
			Destination: &samples,
		},
		&cli.Float64Flag{
			Name:        "amplitude",
			Usage:       "peak value of the generated sine",
			Value:       signal.DefaultAmplitude,
			Destination: &amplitude,
		},
		&cli.Float64Flag{
			Name:        "step",
			Usage:       "phase advance per sample, in units of pi",
			Value:       signal.DefaultStep,
			Destination: &step,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (auto, pretty, json, text)",
			Value:       "auto",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
