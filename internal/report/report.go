// Package report renders patch progress: the header counts, every tag record's
// matrix before and after repair, and the final totals.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// Reporter receives patch progress events in order: one Begin, a Tag per record,
// one End. Implementations must not retain the event values' slices.
type Reporter interface {
	Begin(Summary)
	Tag(TagEvent)
	End(Totals)
}

// Summary describes the tag table about to be patched.
type Summary struct {
	Source string
	Frames int
	Tags   int
}

// TagEvent is emitted once per tag record.
type TagEvent struct {
	Index  int
	Frame  int
	Slot   int
	Name   string
	Origin [3]float32
	Before [9]float32
	After  [9]float32
}

// Totals closes a run.
type Totals struct {
	Records int
	Changed int
	DryRun  bool
}

// Discard drops every event.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Begin(Summary) {}
func (discard) Tag(TagEvent)  {}
func (discard) End(Totals)    {}

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatNone = "none"
)

// New returns the Reporter for format writing to w.
func New(format string, w io.Writer) (Reporter, error) {
	switch format {
	case FormatText, "":
		return NewText(w), nil
	case FormatJSON:
		return NewJSON(w), nil
	case FormatNone:
		return Discard, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want text, json or none)", format)
	}
}

// Floats marshals to a JSON array. Non-finite values, which JSON cannot carry,
// are written as the strings "NaN", "+Inf" and "-Inf" and read back the same way.
type Floats []float32

func (f Floats) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 2+len(f)*12)
	buf = append(buf, '[')
	for i, v := range f {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendFloat(buf, v)
	}
	buf = append(buf, ']')
	return buf, nil
}

func (f *Floats) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*f = nil
		return nil
	}
	out := make(Floats, len(raw))
	for i, r := range raw {
		v, err := parseFloat(r)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	*f = out
	return nil
}

// Float is a single value with the same JSON encoding as Floats.
type Float float32

func (f Float) MarshalJSON() ([]byte, error) {
	return appendFloat(nil, float32(f)), nil
}

func (f *Float) UnmarshalJSON(b []byte) error {
	v, err := parseFloat(b)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

func appendFloat(buf []byte, v float32) []byte {
	x := float64(v)
	switch {
	case math.IsNaN(x):
		return append(buf, `"NaN"`...)
	case math.IsInf(x, 1):
		return append(buf, `"+Inf"`...)
	case math.IsInf(x, -1):
		return append(buf, `"-Inf"`...)
	default:
		return strconv.AppendFloat(buf, x, 'g', -1, 32)
	}
}

func parseFloat(b []byte) (float32, error) {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, err
		}
		switch s {
		case "NaN":
			return float32(math.NaN()), nil
		case "+Inf", "Inf":
			return float32(math.Inf(1)), nil
		case "-Inf":
			return float32(math.Inf(-1)), nil
		default:
			return 0, fmt.Errorf("invalid float %q", s)
		}
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return 0, err
	}
	return float32(v), nil
}
