package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/seqnet/internal/logger"
	"github.com/samcharles93/seqnet/internal/model"
	"github.com/samcharles93/seqnet/internal/plot"
	"github.com/samcharles93/seqnet/internal/signal"
	"github.com/samcharles93/seqnet/internal/spectrum"
	"github.com/samcharles93/seqnet/internal/tensor"
)

// runResult is the --json dump of one run.
type runResult struct {
	Seed           int64              `json:"seed"`
	Stages         []model.StageInfo  `json:"stages"`
	Input          []float64          `json:"input"`
	Output         []float64          `json:"output"`
	InputSpectrum  *spectrum.Spectrum `json:"input_spectrum,omitempty"`
	OutputSpectrum *spectrum.Spectrum `json:"output_spectrum,omitempty"`
}

func runCmd() *cli.Command {
	var (
		plotPath string
		jsonPath string
		quiet    bool
	)

	flags := append(modelFlags(), signalFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "plot",
			Usage:       "write an SVG plot of input and output to this path",
			Destination: &plotPath,
		},
		&cli.StringFlag{
			Name:        "json",
			Usage:       "write input, output and spectra as JSON to this path",
			Destination: &jsonPath,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "do not print output samples to stdout",
			Destination: &quiet,
		},
	)

	return &cli.Command{
		Name:  "run",
		Usage: "Run one forward pass over a generated sine",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := configFromContext(ctx)
			applyModelConfig(c, cfg)
			applySignalConfig(c, cfg)
			log := logger.FromContext(ctx)

			res, err := runOnce(ctx, log)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if !quiet {
				if err := printSamples(os.Stdout, res.Output); err != nil {
					return err
				}
			}
			if plotPath != "" {
				if err := writePlot(plotPath, res.Input, res.Output); err != nil {
					return cli.Exit(fmt.Sprintf("error: write plot: %v", err), 1)
				}
				log.Info("wrote plot", "path", plotPath)
			}
			if jsonPath != "" {
				if err := writeJSONFile(jsonPath, res); err != nil {
					return cli.Exit(fmt.Sprintf("error: write json: %v", err), 1)
				}
				log.Info("wrote result", "path", jsonPath)
			}
			return nil
		},
	}
}

func runOnce(ctx context.Context, log logger.Logger) (*runResult, error) {
	runner, err := model.New(model.Config{Seed: seed})
	if err != nil {
		return nil, err
	}
	log.Debug("built network", "seed", runner.Seed(), "parameters", runner.ParamCount())

	input, err := signal.Sine(int(samples), signal.WithAmplitude(amplitude), signal.WithStep(step))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	output, err := runner.Run(ctx, input)
	if err != nil {
		return nil, err
	}
	took := time.Since(start)

	res := &runResult{
		Seed:   runner.Seed(),
		Stages: runner.Summary(),
		Input:  input,
		Output: output,
	}
	if s, err := spectrum.Analyze(input); err == nil {
		res.InputSpectrum = &s
	}
	if s, err := spectrum.Analyze(output); err == nil {
		res.OutputSpectrum = &s
	}

	lo, hi := tensor.MinMax(output)
	args := []any{"seed", res.Seed, "samples", len(output), "min", lo, "max", hi, "took", took}
	if res.InputSpectrum != nil && res.OutputSpectrum != nil {
		args = append(args,
			"input_peak_bin", res.InputSpectrum.PeakBin,
			"output_peak_bin", res.OutputSpectrum.PeakBin,
		)
	}
	log.Info("run complete", args...)
	log.Debug("output", "seed", res.Seed, "samples", output)
	return res, nil
}

func printSamples(w io.Writer, values []float64) error {
	for _, v := range values {
		if _, err := fmt.Fprintf(w, "%.8f\n", v); err != nil {
			return err
		}
	}
	return nil
}

func writePlot(path string, input, output []float64) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if err := plot.SVG(f, input, output, plot.Options{Title: "seqnet: input vs output"}); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func createFile(path string) (*os.File, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
