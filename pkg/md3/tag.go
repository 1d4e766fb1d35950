package md3

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Matrix is a row-major 3x3 orientation matrix: Matrix[3*r+c] is row r, column c.
type Matrix [9]float32

// Row returns row r.
func (m Matrix) Row(r int) [3]float32 {
	return [3]float32{m[3*r], m[3*r+1], m[3*r+2]}
}

// Tag is a decoded copy of one tag record.
type Tag struct {
	Name   [NameLen]byte
	Origin mgl32.Vec3
	Matrix Matrix
}

// NameString returns the tag name up to the first NUL.
func (t Tag) NameString() string {
	return cString(t.Name[:])
}

// MarshalBinary encodes the tag into its TagSize on-disk form.
func (t Tag) MarshalBinary() ([]byte, error) {
	b := make([]byte, TagSize)
	copy(b[TagOffName:TagOffName+NameLen], t.Name[:])
	for i := range 3 {
		EncodeF32LE(b[TagOffOrigin+4*i:], t.Origin[i])
	}
	TagView(b).SetMatrix(t.Matrix)
	return b, nil
}

// TagView is a window onto one tag record inside a model buffer.
// Reads and writes go straight to the underlying bytes.
type TagView []byte

// Name returns the record name, never reading past NameLen bytes.
func (v TagView) Name() string {
	return cString(v[TagOffName : TagOffName+NameLen])
}

// Origin decodes the record's origin.
func (v TagView) Origin() mgl32.Vec3 {
	return mgl32.Vec3{
		DecodeF32LE(v[TagOffOrigin:]),
		DecodeF32LE(v[TagOffOrigin+4:]),
		DecodeF32LE(v[TagOffOrigin+8:]),
	}
}

// Matrix decodes the record's orientation matrix.
func (v TagView) Matrix() Matrix {
	var m Matrix
	for i := range m {
		m[i] = DecodeF32LE(v[TagOffMatrix+4*i:])
	}
	return m
}

// SetMatrix overwrites the 36 matrix bytes of the record and nothing else.
func (v TagView) SetMatrix(m Matrix) {
	for i := range m {
		EncodeF32LE(v[TagOffMatrix+4*i:], m[i])
	}
}

// Tag decodes the whole record.
func (v TagView) Tag() Tag {
	var t Tag
	copy(t.Name[:], v[TagOffName:TagOffName+NameLen])
	t.Origin = v.Origin()
	t.Matrix = v.Matrix()
	return t
}

// TagTable addresses the frames*tags records of a model buffer. Records are stored
// frame by frame: all tags of frame 0, then all tags of frame 1, and so on.
type TagTable struct {
	data   []byte
	frames int
	tags   int
}

// NewTagTable locates the tag table of buf as described by h.
// It fails with ErrMalformedLayout if the table does not fit inside buf.
func NewTagTable(buf []byte, h Header) (*TagTable, error) {
	start, end, err := h.TagTableRange(len(buf))
	if err != nil {
		return nil, err
	}
	t := &TagTable{frames: int(h.FrameCount), tags: int(h.TagCount)}
	if end > start {
		t.data = buf[start:end:end]
	}
	return t, nil
}

// Frames is the number of frames in the table.
func (t *TagTable) Frames() int { return t.frames }

// TagsPerFrame is the number of tags in every frame.
func (t *TagTable) TagsPerFrame() int { return t.tags }

// Len is the total number of records.
func (t *TagTable) Len() int { return len(t.data) / TagSize }

// Record returns the i-th record in file order.
func (t *TagTable) Record(i int) TagView {
	if i < 0 || i >= t.Len() {
		panic(fmt.Sprintf("md3: tag record %d out of range [0,%d)", i, t.Len()))
	}
	off := i * TagSize
	return TagView(t.data[off : off+TagSize : off+TagSize])
}

// At returns the record for tag slot of frame.
func (t *TagTable) At(frame, slot int) TagView {
	return t.Record(frame*t.tags + slot)
}
