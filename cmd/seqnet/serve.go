package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/seqnet/internal/api"
	"github.com/samcharles93/seqnet/internal/logger"
	"github.com/samcharles93/seqnet/internal/model"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		maxRuns     int64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the inference REST API",
		Flags: append(modelFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "max-runs",
				Usage:       "number of runs kept in memory (0 = unlimited)",
				Value:       256,
				Destination: &maxRuns,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := configFromContext(ctx)
			applyModelConfig(c, cfg)
			applyServeConfig(c, cfg, &addr, &maxRuns)
			log := logger.FromContext(ctx)

			runner, err := model.New(model.Config{Seed: seed})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			server := api.NewServer(runner, api.NewRunStore(int(maxRuns)), log.With("component", "api"))
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "seed", runner.Seed(), "parameters", runner.ParamCount())
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
