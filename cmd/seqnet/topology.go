package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/seqnet/internal/model"
)

func topologyCmd() *cli.Command {
	return &cli.Command{
		Name:  "topology",
		Usage: "Print the stage table and parameter counts",
		Flags: modelFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			applyModelConfig(c, configFromContext(ctx))
			runner, err := model.New(model.Config{Seed: seed})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return printTopology(os.Stdout, runner)
		},
	}
}

func printTopology(w io.Writer, runner *model.Runner) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tKIND\tIN\tOUT\tACTIVATION\tDETAIL\tPARAMS")
	for _, st := range runner.Summary() {
		s := st.Spec
		detail := "-"
		switch s.Kind {
		case model.KindConv1D:
			detail = fmt.Sprintf("k=%d d=%d causal", s.KernelWidth, s.Dilation)
		case model.KindGRU:
			detail = fmt.Sprintf("gates=%s", s.RecurrentActivation)
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%d\n",
			st.Index, s.Kind, s.In, s.Out, s.Activation, detail, st.Params)
	}
	_, _ = fmt.Fprintf(tw, "\t\t\t\t\ttotal\t%d\n", runner.ParamCount())
	return tw.Flush()
}
