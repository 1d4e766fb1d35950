package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/md3fix/internal/logger"
	"github.com/samcharles93/md3fix/internal/version"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	if err := app.Run(ctx, args); err != nil {
		if msg := err.Error(); msg != "" {
			_, _ = fmt.Fprintln(stderr, msg)
		}
		return exitCode(err)
	}
	return exitOK
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "md3fix",
		Usage:     "Renormalize the tag orientation matrices of an MD3 model",
		ArgsUsage: "<inputfile> <outputfile>",
		Version:   version.String(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     append(loggingFlags(), patchFlags()...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := LoadConfig(configPath())
			if err != nil {
				return ctx, err
			}
			applyConfig(cmd, cfg)
			log, err := newLogger(stderr)
			if err != nil {
				return ctx, fmt.Errorf("%w: %v", errUsage, err)
			}
			ctx = logger.WithContext(ctx, log)
			return withConfig(ctx, cfg), nil
		},
		Action: fixAction,
		Commands: []*cli.Command{
			inspectCmd(),
			serveCmd(),
			versionCmd(),
		},
		// Exit statuses are decided in run, not by the cli package.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

func newLogger(w io.Writer) (logger.Logger, error) {
	if debug {
		logLevel = "debug"
	}
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return logger.NewFormat(w, logFormat, level)
}

type configKey struct{}

func withConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFromContext(ctx context.Context) Config {
	cfg, _ := ctx.Value(configKey{}).(Config)
	return cfg
}

// fail logs err and turns it into the matching exit status.
func fail(ctx context.Context, msg string, err error) error {
	logger.FromContext(ctx).Error(msg, "error", err)
	return cli.Exit("", exitCode(err))
}
