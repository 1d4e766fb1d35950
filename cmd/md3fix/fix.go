package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/md3fix/internal/logger"
	"github.com/samcharles93/md3fix/internal/patcher"
	"github.com/samcharles93/md3fix/internal/report"
	"github.com/samcharles93/md3fix/pkg/md3"
)

type fixOptions struct {
	report string
	dryRun bool
	strict bool
	// stdout receives the progress report.
	stdout io.Writer
}

func fixAction(ctx context.Context, cmd *cli.Command) error {
	if n := cmd.Args().Len(); n != 2 {
		_, _ = fmt.Fprintf(cmd.Root().ErrWriter, "Usage: %s [flags] %s\n", cmd.Root().Name, cmd.ArgsUsage)
		return fail(ctx, "wrong number of arguments", fmt.Errorf("%w: expected 2 arguments, got %d", errUsage, n))
	}
	in, out := cmd.Args().Get(0), cmd.Args().Get(1)

	_, err := runFix(ctx, in, out, fixOptions{
		report: reportFormat,
		dryRun: dryRun,
		strict: strict,
		stdout: cmd.Root().Writer,
	})
	if err != nil {
		return fail(ctx, "fix failed", err)
	}
	return nil
}

// runFix reads in, repairs every tag record and writes the result to out.
// Nothing is written to out unless the whole repair succeeded.
func runFix(ctx context.Context, in, out string, opts fixOptions) (patcher.Result, error) {
	log := logger.FromContext(ctx)

	rep, err := report.New(opts.report, opts.stdout)
	if err != nil {
		return patcher.Result{}, fmt.Errorf("%w: %v", errUsage, err)
	}

	buf, err := md3.ReadFile(in)
	if err != nil {
		return patcher.Result{}, fmt.Errorf("read input: %w", err)
	}
	log.Debug("model loaded", "input", in, "bytes", len(buf))

	res, err := patcher.Patch(ctx, buf,
		patcher.WithReporter(rep),
		patcher.WithSource(in),
		patcher.WithDryRun(opts.dryRun),
		patcher.WithStrict(opts.strict),
	)
	if err != nil {
		return res, fmt.Errorf("patch %s: %w", in, err)
	}
	if e, ok := rep.(interface{ Err() error }); ok && e.Err() != nil {
		log.Warn("report output failed", "error", e.Err())
	}

	if opts.dryRun {
		log.Info("dry run, output not written", "records", res.Records, "changed", res.Changed)
		return res, nil
	}
	if err := md3.WriteFile(out, buf); err != nil {
		return res, fmt.Errorf("write output: %w", err)
	}
	log.Info("model written", "output", out, "records", res.Records, "changed", res.Changed)
	return res, nil
}
