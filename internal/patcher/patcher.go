// Package patcher repairs the tag orientation matrices of an MD3 model buffer in place.
package patcher

import (
	"context"
	"math"

	"github.com/samcharles93/md3fix/internal/logger"
	"github.com/samcharles93/md3fix/internal/orient"
	"github.com/samcharles93/md3fix/internal/report"
	"github.com/samcharles93/md3fix/pkg/md3"
)

// Result summarizes a Patch call.
type Result struct {
	Header  md3.Header
	Records int
	// Changed counts records whose matrix bytes differ after repair.
	Changed int
	DryRun  bool
}

type options struct {
	reporter report.Reporter
	log      logger.Logger
	source   string
	dryRun   bool
	strict   bool
}

// Option configures Patch.
type Option func(*options)

// WithReporter sends per-record progress to r.
func WithReporter(r report.Reporter) Option {
	return func(o *options) { o.reporter = r }
}

// WithLogger overrides the logger taken from the context.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithSource labels the buffer (usually its path) in reports and logs.
func WithSource(name string) Option {
	return func(o *options) { o.source = name }
}

// WithDryRun computes and reports the repair without writing to the buffer.
func WithDryRun(dryRun bool) Option {
	return func(o *options) { o.dryRun = dryRun }
}

// WithStrict rejects buffers whose ident is not "IDP3" or whose version is not 15.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// Patch renormalizes the orientation matrix of every tag record in buf and writes
// it back over the original 36 bytes. No other byte of buf is modified.
//
// The tag table must lie inside buf; otherwise Patch returns md3.ErrMalformedLayout
// without touching buf. If ctx is cancelled between frames, Patch stops and returns
// ctx.Err(); records of frames already processed stay repaired.
func Patch(ctx context.Context, buf []byte, opts ...Option) (Result, error) {
	o := options{reporter: report.Discard}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.FromContext(ctx)
	}

	hdr, err := md3.ParseHeader(buf)
	if err != nil {
		return Result{}, err
	}
	res := Result{Header: hdr, DryRun: o.dryRun}
	if o.strict {
		if err := hdr.Validate(); err != nil {
			return res, err
		}
	}
	table, err := md3.NewTagTable(buf, hdr)
	if err != nil {
		return res, err
	}

	log := o.log.With("source", o.source)
	log.Debug("tag table located",
		"frames", table.Frames(),
		"tags", table.TagsPerFrame(),
		"offset", hdr.TagOffset,
		"records", table.Len(),
	)
	o.reporter.Begin(report.Summary{Source: o.source, Frames: table.Frames(), Tags: table.TagsPerFrame()})

	for f := range table.Frames() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		for s := range table.TagsPerFrame() {
			v := table.At(f, s)
			before := v.Matrix()
			after := md3.Matrix(orient.NormalizeRows(before))

			o.reporter.Tag(report.TagEvent{
				Index:  res.Records,
				Frame:  f,
				Slot:   s,
				Name:   v.Name(),
				Origin: v.Origin(),
				Before: before,
				After:  after,
			})

			if !sameBits(before, after) {
				res.Changed++
			}
			if !o.dryRun {
				v.SetMatrix(after)
			}
			res.Records++
		}
	}

	o.reporter.End(report.Totals{Records: res.Records, Changed: res.Changed, DryRun: o.dryRun})
	log.Debug("tag records normalized", "records", res.Records, "changed", res.Changed, "dry_run", o.dryRun)
	return res, nil
}

func sameBits(a, b md3.Matrix) bool {
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			return false
		}
	}
	return true
}
