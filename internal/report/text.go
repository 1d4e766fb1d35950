package report

import (
	"fmt"
	"io"
)

// Text writes the human-readable progress log.
type Text struct {
	w   io.Writer
	err error
}

func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

func (t *Text) Begin(s Summary) {
	t.printf("Amount of tags: %d\n", s.Tags)
	t.printf("Amount of frames: %d\n", s.Frames)
}

func (t *Text) Tag(e TagEvent) {
	t.printf("tag name: %s\n", e.Name)
	t.matrix("rotation matrix", e.Before)
	t.matrix("normalized rotation matrix", e.After)
}

func (t *Text) End(r Totals) {
	if r.DryRun {
		t.printf("dry run: %d of %d tag records would change\n", r.Changed, r.Records)
		return
	}
	t.printf("repaired %d of %d tag records\n", r.Changed, r.Records)
}

// Err returns the first write error, if any.
func (t *Text) Err() error {
	return t.err
}

func (t *Text) matrix(title string, m [9]float32) {
	t.printf("%s:\n   %f %f %f\n   %f %f %f\n   %f %f %f\n", title,
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

func (t *Text) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}
