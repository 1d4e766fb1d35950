package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/md3fix/internal/patcher"
	"github.com/samcharles93/md3fix/pkg/md3"
)

func inspectCmd() *cli.Command {
	var (
		asJSON   bool
		onlyBad  bool
		tagLimit int64
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the header and tag records of an MD3 model without modifying it",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the inspection as JSON",
				Destination: &asJSON,
			},
			&cli.BoolFlag{
				Name:        "unhealthy",
				Usage:       "only list tags whose matrix is not an orthonormal basis",
				Destination: &onlyBad,
			},
			&cli.Int64Flag{
				Name:        "limit",
				Usage:       "maximum number of tags to list (0 = all)",
				Destination: &tagLimit,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fail(ctx, "wrong number of arguments", fmt.Errorf("%w: inspect expects 1 argument, got %d", errUsage, cmd.Args().Len()))
			}
			path := cmd.Args().First()
			buf, err := md3.ReadFile(path)
			if err != nil {
				return fail(ctx, "inspect failed", fmt.Errorf("read input: %w", err))
			}
			in, err := patcher.Inspect(buf)
			if err != nil {
				return fail(ctx, "inspect failed", fmt.Errorf("inspect %s: %w", path, err))
			}

			w := cmd.Root().Writer
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(in)
			}
			printInspection(w, path, in, onlyBad, int(tagLimit))
			return nil
		},
	}
}

func printInspection(w io.Writer, path string, in *patcher.Inspection, onlyBad bool, limit int) {
	section(w, "Header")
	row(w, "File", path)
	row(w, "Ident", in.Ident)
	row(w, "Version", fmt.Sprintf("%d", in.Version))
	row(w, "Name", in.Name)
	rowInt(w, "Flags", int(in.Flags))
	row(w, "Frames", fmt.Sprintf("%d", in.Frames))
	row(w, "Tags per frame", fmt.Sprintf("%d", in.TagsPerFrame))
	rowInt(w, "Meshes", int(in.Meshes))
	rowInt(w, "Skins", int(in.Skins))
	row(w, "Tag offset", fmt.Sprintf("%d", in.TagOffset))
	row(w, "End offset", fmt.Sprintf("%d", in.EndOffset))
	row(w, "Size", formatBytes(uint64(in.Size)))
	row(w, "Unhealthy tags", fmt.Sprintf("%d of %d", in.Unhealthy, len(in.Tags)))
	row(w, "Skewed tags", fmt.Sprintf("%d of %d", in.Skewed, len(in.Tags)))

	if len(in.Tags) == 0 {
		return
	}
	section(w, "Tags")
	shown := 0
	for _, t := range in.Tags {
		if onlyBad && t.Normalized && t.Orthonormal {
			continue
		}
		if limit > 0 && shown >= limit {
			_, _ = fmt.Fprintf(w, "... limit of %d tags reached\n", limit)
			break
		}
		shown++
		status := "ok"
		switch {
		case !t.Normalized:
			status = "NOT NORMALIZED"
		case !t.Orthonormal:
			status = "SKEWED"
		}
		_, _ = fmt.Fprintf(w, "[%d:%d] %-24s %s  det=%g\n", t.Frame, t.Slot, t.Name, status, float32(t.Det))
		_, _ = fmt.Fprintf(w, "    origin    %s\n", formatFloats(t.Origin))
		for r := range 3 {
			_, _ = fmt.Fprintf(w, "    row %d     %s  |%g|\n", r, formatFloats(t.Matrix[3*r:3*r+3]), t.RowNorms[r])
		}
	}
}

func section(w io.Writer, title string) {
	line := strings.Repeat("-", len(title)+8)
	_, _ = fmt.Fprintf(w, "\n%s\n--- %s ---\n%s\n", line, title, line)
}

func row(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "%-24s %s\n", label+":", value)
}

func rowInt(w io.Writer, label string, v int) {
	if v == 0 {
		return
	}
	row(w, label, fmt.Sprintf("%d", v))
}

func formatFloats(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = fmt.Sprintf("%10.6f", f)
	}
	return strings.Join(parts, " ")
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
