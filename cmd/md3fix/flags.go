package main

import (
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/md3fix/internal/report"
)

var (
	configFile   string
	logLevel     string
	logFormat    string
	debug        bool
	reportFormat string
	dryRun       bool
	strict       bool
)

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
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Sources:     cli.EnvVars("MD3FIX_CONFIG"),
			Destination: &configFile,
		},
	}
}

func patchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "report",
			Usage:       "progress report on stdout (text, json, none)",
			Value:       report.FormatText,
			Destination: &reportFormat,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Aliases:     []string{"n"},
			Usage:       "report the repair without writing the output file",
			Destination: &dryRun,
		},
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "reject models whose ident is not IDP3 or whose version is not 15",
			Destination: &strict,
		},
	}
}
