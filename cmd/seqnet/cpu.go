package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"

	"github.com/cwbudde/algo-vecmath/cpu"
	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

// cpuReport lists what the vector kernels can dispatch on.
type cpuReport struct {
	GoVersion    string          `json:"go_version"`
	GoOS         string          `json:"go_os"`
	GoArch       string          `json:"go_arch"`
	CPUs         int             `json:"cpus"`
	Architecture string          `json:"architecture"`
	ForceGeneric bool            `json:"force_generic,omitempty"`
	Features     map[string]bool `json:"features"`
}

func newCPUReport(f cpu.Features) cpuReport {
	return cpuReport{
		GoVersion:    runtime.Version(),
		GoOS:         runtime.GOOS,
		GoArch:       runtime.GOARCH,
		CPUs:         runtime.NumCPU(),
		Architecture: f.Architecture,
		ForceGeneric: f.ForceGeneric,
		Features: map[string]bool{
			"SSE2":   f.HasSSE2,
			"AVX":    f.HasAVX,
			"AVX2":   f.HasAVX2,
			"AVX512": f.HasAVX512,
			"NEON":   f.HasNEON,
		},
	}
}

func cpuCmd() *cli.Command {
	var asJSON bool
	return &cli.Command{
		Name:  "cpu",
		Usage: "Print the CPU features used for vector kernel dispatch",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			report := newCPUReport(cpu.DetectFeatures())
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printCPUReport(os.Stdout, report)
		},
	}
}

func printCPUReport(w io.Writer, r cpuReport) error {
	if _, err := fmt.Fprintf(w, "go:    %s %s/%s (%d cpus)\narch:  %s\n", r.GoVersion, r.GoOS, r.GoArch, r.CPUs, r.Architecture); err != nil {
		return err
	}
	names := make([]string, 0, len(r.Features))
	for name := range r.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mark := "-"
		if r.Features[name] {
			mark = "+"
		}
		if _, err := fmt.Fprintf(w, "  %s %s\n", mark, name); err != nil {
			return err
		}
	}
	return nil
}
