package report

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// JSON writes one JSON object per event (JSON lines). Every line carries the
// run id so interleaved logs from several runs can be told apart.
type JSON struct {
	enc   *json.Encoder
	runID string
	err   error
}

type jsonEvent struct {
	RunID   string `json:"run_id"`
	Event   string `json:"event"`
	Source  string `json:"source,omitempty"`
	Frames  *int   `json:"frames,omitempty"`
	Tags    *int   `json:"tags,omitempty"`
	Index   *int   `json:"index,omitempty"`
	Frame   *int   `json:"frame,omitempty"`
	Slot    *int   `json:"slot,omitempty"`
	Name    string `json:"name,omitempty"`
	Origin  Floats `json:"origin,omitempty"`
	Before  Floats `json:"before,omitempty"`
	After   Floats `json:"after,omitempty"`
	Records *int   `json:"records,omitempty"`
	Changed *int   `json:"changed,omitempty"`
	DryRun  bool   `json:"dry_run,omitempty"`
}

func NewJSON(w io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(w), runID: uuid.NewString()}
}

// RunID identifies this reporter's events.
func (j *JSON) RunID() string {
	return j.runID
}

func (j *JSON) Begin(s Summary) {
	j.emit(jsonEvent{Event: "begin", Source: s.Source, Frames: &s.Frames, Tags: &s.Tags})
}

func (j *JSON) Tag(e TagEvent) {
	j.emit(jsonEvent{
		Event:  "tag",
		Index:  &e.Index,
		Frame:  &e.Frame,
		Slot:   &e.Slot,
		Name:   e.Name,
		Origin: Floats(e.Origin[:]),
		Before: Floats(e.Before[:]),
		After:  Floats(e.After[:]),
	})
}

func (j *JSON) End(r Totals) {
	j.emit(jsonEvent{Event: "end", Records: &r.Records, Changed: &r.Changed, DryRun: r.DryRun})
}

// Err returns the first encoding or write error, if any.
func (j *JSON) Err() error {
	return j.err
}

func (j *JSON) emit(ev jsonEvent) {
	if j.err != nil {
		return
	}
	ev.RunID = j.runID
	j.err = j.enc.Encode(ev)
}
