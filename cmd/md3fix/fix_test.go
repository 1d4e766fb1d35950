package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/samcharles93/md3fix/internal/logger"
	"github.com/samcharles93/md3fix/pkg/md3"
	"github.com/samcharles93/md3fix/pkg/md3/md3test"
)

func quietCtx() context.Context {
	return logger.WithContext(context.Background(), logger.Text(io.Discard, slog.LevelError))
}

func writeModel(t *testing.T, dir string, h md3.Header, tags []md3.Tag) (string, []byte) {
	t.Helper()
	buf := md3test.Build(h, tags)
	path := filepath.Join(dir, "in.md3")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path, buf
}

func weapon() (md3.Header, []md3.Tag) {
	return md3test.Header(1, 1, 40), []md3.Tag{
		md3test.Tag("tag_weapon", mgl32.Vec3{0, 0, 0}, md3.Matrix{2, 0, 0, 0, 3, 0, 0, 0, 0}),
	}
}

func TestRunFixScenario(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h, tags := weapon()
	in, orig := writeModel(t, dir, h, tags)
	out := filepath.Join(dir, "out.md3")

	var stdout bytes.Buffer
	res, err := runFix(quietCtx(), in, out, fixOptions{report: "text", strict: true, stdout: &stdout})
	if err != nil {
		t.Fatalf("runFix: %v", err)
	}
	if res.Records != 1 || res.Changed != 1 {
		t.Fatalf("result: %+v", res)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(got) != len(orig) {
		t.Fatalf("output length %d, want %d", len(got), len(orig))
	}
	matrix := int(h.TagOffset) + md3.TagOffMatrix
	if !bytes.Equal(got[:matrix], orig[:matrix]) || !bytes.Equal(got[matrix+md3.MatrixSize:], orig[matrix+md3.MatrixSize:]) {
		t.Fatal("bytes outside the matrix changed")
	}
	table, _ := md3.NewTagTable(got, h)
	if m := table.Record(0).Matrix(); m != (md3.Matrix{1, 0, 0, 0, 1, 0, 0, 0, 0}) {
		t.Fatalf("matrix: %v", m)
	}

	report := stdout.String()
	for _, want := range []string{
		"Amount of tags: 1\n",
		"Amount of frames: 1\n",
		"tag name: tag_weapon\n",
		"rotation matrix:\n   2.000000 0.000000 0.000000\n   0.000000 3.000000 0.000000\n   0.000000 0.000000 0.000000\n",
		"normalized rotation matrix:\n   1.000000 0.000000 0.000000\n   0.000000 1.000000 0.000000\n   0.000000 0.000000 0.000000\n",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRunFixDryRunWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h, tags := weapon()
	in, _ := writeModel(t, dir, h, tags)
	out := filepath.Join(dir, "out.md3")

	if _, err := runFix(quietCtx(), in, out, fixOptions{report: "none", dryRun: true, stdout: io.Discard}); err != nil {
		t.Fatalf("runFix: %v", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("dry run created output: %v", err)
	}
}

func TestRunFixFailuresLeaveNoOutput(t *testing.T) {
	t.Parallel()

	h, tags := weapon()
	badVersion := h
	badVersion.Version = 14

	tests := []struct {
		name  string
		input func(dir string) string
		want  int
	}{
		{"missing", func(dir string) string { return filepath.Join(dir, "absent.md3") }, exitIO},
		{"directory", func(dir string) string { return dir }, exitIO},
		{"empty", func(dir string) string {
			p := filepath.Join(dir, "empty.md3")
			_ = os.WriteFile(p, nil, 0o644)
			return p
		}, exitShortRead},
		{"truncated", func(dir string) string {
			p := filepath.Join(dir, "short.md3")
			buf := md3test.Build(h, tags)
			_ = os.WriteFile(p, buf[:int(h.TagOffset)+50], 0o644)
			return p
		}, exitMalformed},
		{"unsupported", func(dir string) string {
			p := filepath.Join(dir, "v14.md3")
			_ = os.WriteFile(p, md3test.Build(badVersion, tags), 0o644)
			return p
		}, exitUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			out := filepath.Join(dir, "out.md3")
			_, err := runFix(quietCtx(), tt.input(dir), out, fixOptions{report: "none", strict: true, stdout: io.Discard})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := exitCode(err); got != tt.want {
				t.Fatalf("exit code: got %d want %d (%v)", got, tt.want, err)
			}
			if _, err := os.Stat(out); !errors.Is(err, fs.ErrNotExist) {
				t.Fatalf("output file exists after failure: %v", err)
			}
		})
	}
}

func TestRunFixZeroTags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in, orig := writeModel(t, dir, md3test.Header(3, 0, 16), nil)
	out := filepath.Join(dir, "out.md3")

	var stdout bytes.Buffer
	res, err := runFix(quietCtx(), in, out, fixOptions{report: "text", strict: true, stdout: &stdout})
	if err != nil {
		t.Fatalf("runFix: %v", err)
	}
	if res.Records != 0 {
		t.Fatalf("records: %d", res.Records)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, orig) {
		t.Fatal("output differs from input")
	}
	if !strings.Contains(stdout.String(), "Amount of tags: 0\n") {
		t.Fatalf("report: %s", stdout.String())
	}
}

func TestRunFixUnknownReport(t *testing.T) {
	t.Parallel()

	_, err := runFix(quietCtx(), "in", "out", fixOptions{report: "xml", stdout: io.Discard})
	if exitCode(err) != exitUsage {
		t.Fatalf("expected usage error, got %v", err)
	}
}
