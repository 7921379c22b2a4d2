package main

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
	dspsignal "github.com/cwbudde/algo-dsp/dsp/signal"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/seqnet/internal/effect"
	"github.com/samcharles93/seqnet/internal/logger"
	"github.com/samcharles93/seqnet/internal/model"
	"github.com/samcharles93/seqnet/internal/tensor"
)

func processCmd() *cli.Command {
	var (
		sampleRate float64
		gainDB     float64
		freqHz     float64
		level      float64
		frames     int64
		blockSize  int64
		channels   int64
		plotPath   string
	)

	return &cli.Command{
		Name:  "process",
		Usage: "Run the network as a streaming audio effect over a test tone",
		Flags: append(modelFlags(),
			&cli.Float64Flag{
				Name:        "sample-rate",
				Aliases:     []string{"sr"},
				Usage:       "sample rate in Hz",
				Value:       48000,
				Destination: &sampleRate,
			},
			&cli.Float64Flag{
				Name:        "gain-db",
				Usage:       "input gain in dB (a fixed +25 dB is always added)",
				Destination: &gainDB,
			},
			&cli.Float64Flag{
				Name:        "freq",
				Usage:       "test tone frequency in Hz",
				Value:       440,
				Destination: &freqHz,
			},
			&cli.Float64Flag{
				Name:        "level",
				Usage:       "test tone peak level",
				Value:       0.1,
				Destination: &level,
			},
			&cli.Int64Flag{
				Name:        "frames",
				Usage:       "number of frames to process",
				Value:       48000,
				Destination: &frames,
			},
			&cli.Int64Flag{
				Name:        "block-size",
				Usage:       "frames per processing block",
				Value:       512,
				Destination: &blockSize,
			},
			&cli.Int64Flag{
				Name:        "channels",
				Usage:       "channel count (1 or 2)",
				Value:       2,
				Destination: &channels,
			},
			&cli.StringFlag{
				Name:        "plot",
				Usage:       "write an SVG plot of the first channel to this path",
				Destination: &plotPath,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := configFromContext(ctx)
			applyModelConfig(c, cfg)
			applyProcessConfig(c, cfg, &gainDB, &sampleRate)
			log := logger.FromContext(ctx)

			runner, err := model.New(model.Config{Seed: seed})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			fxCfg := effect.DefaultConfig()
			fxCfg.GainDB = gainDB
			fx := effect.New(runner, fxCfg)
			if err := fx.Prepare(sampleRate, int(channels)); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			tone, err := dspsignal.NewGenerator(core.WithSampleRate(sampleRate)).Sine(freqHz, level, int(frames))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			out, err := processBlocks(ctx, fx, tone, int(channels), int(blockSize))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			log.Info("processed",
				"seed", runner.Seed(),
				"sample_rate", sampleRate,
				"channels", channels,
				"frames", len(tone),
				"input_gain", fx.InputGain(),
				"input_peak", tensor.MaxAbs(tone),
				"output_peak", tensor.MaxAbs(out),
				"output_rms", rms(out),
			)
			if plotPath != "" {
				if err := writePlot(plotPath, tone, out); err != nil {
					return cli.Exit(fmt.Sprintf("error: write plot: %v", err), 1)
				}
				log.Info("wrote plot", "path", plotPath)
			}
			return nil
		},
	}
}

// processBlocks feeds tone to every channel in blocks of blockSize and
// returns the first channel's output.
func processBlocks(ctx context.Context, fx *effect.Processor, tone []float64, channels, blockSize int) ([]float64, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("block size must be > 0: %d", blockSize)
	}
	out := make([]float64, 0, len(tone))
	block := make([][]float64, channels)
	for start := 0; start < len(tone); start += blockSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+blockSize, len(tone))
		for ch := range block {
			block[ch] = append(block[ch][:0], tone[start:end]...)
		}
		if err := fx.Process(block); err != nil {
			return nil, err
		}
		out = append(out, block[0]...)
	}
	return out, nil
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(tensor.Dot(x, x) / float64(len(x)))
}
