package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/md3fix/internal/api"
	"github.com/samcharles93/md3fix/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		maxBody     int64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the repair over HTTP (POST /v1/fix, POST /v1/inspect)",
		Flags: []cli.Flag{
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
				Name:        "max-body-bytes",
				Usage:       "largest accepted model upload",
				Value:       api.DefaultMaxBodyBytes,
				Destination: &maxBody,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, configFromContext(ctx), &addr, &maxBody)

			server := api.NewServer(api.Config{
				MaxBodyBytes: maxBody,
				Strict:       strict,
				Logger:       log,
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "max_body_bytes", maxBody, "strict", strict)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					srv.ReadTimeout = readTimeout
					return nil
				},
			}
			if err := sc.Start(ctx, e); err != nil {
				return fail(ctx, "server stopped", err)
			}
			return nil
		},
	}
}
