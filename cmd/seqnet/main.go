package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	app := &cli.Command{
		Name:  "seqnet",
		Usage: "Sequence network inference demo",
		Flags: append(loggingFlags(),
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to config.yaml (default $XDG_CONFIG_HOME/seqnet/config.yaml)",
				Sources:     cli.EnvVars(envSeqnetConfig),
				Destination: &configFile,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			runCmd(),
			processCmd(),
			topologyCmd(),
			serveCmd(),
			cpuCmd(),
			versionCmd(),
		},
	}
	// Root flags are persistent, so they are only fully parsed once the
	// subcommand has consumed its own arguments.
	for _, cmd := range app.Commands {
		cmd.Before = setupLogging
	}
	return app
}
