package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/samcharles93/blasq/internal/api"
	"github.com/samcharles93/blasq/internal/logger"
	"github.com/urfave/cli/v3"
)

func serveCmd() *cli.Command {
	var (
		addr         string
		readTimeout  time.Duration
		maxBodyBytes int64
		maxBatch     int
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API over the dispatch layer",
		Flags: append(queueFlags(),
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
				Name:        "max-body",
				Usage:       "request body limit in bytes",
				Value:       api.DefaultMaxBodyBytes,
				Destination: &maxBodyBytes,
			},
			&cli.IntFlag{
				Name:        "max-batch",
				Usage:       "largest batch_count a batched request may carry",
				Value:       api.DefaultMaxBatchCount,
				Destination: &maxBatch,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, loadedConfig, &addr)

			set, err := kernelSet()
			if err != nil {
				return err
			}
			server, err := api.NewServer(api.Config{
				Kernels:       set,
				Queue:         queueConfig(set, log),
				Logger:        log,
				MaxBodyBytes:  maxBodyBytes,
				MaxBatchCount: maxBatch,
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "kernels", set.Name)
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
