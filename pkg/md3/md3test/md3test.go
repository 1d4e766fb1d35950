// Package md3test builds synthetic MD3 buffers for tests.
package md3test

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/samcharles93/md3fix/pkg/md3"
)

// FrameInfoSize is the on-disk size of one MD3 frame record (bounds, origin,
// radius, name). Build fills that region with filler bytes only.
const FrameInfoSize = 56

// Header returns a valid version 15 header for frames*tags tag records placed
// directly after the frame lump, followed by trailer bytes of mesh data.
func Header(frames, tags int32, trailer int) md3.Header {
	var h md3.Header
	copy(h.Ident[:], md3.Ident)
	h.Version = md3.Version
	copy(h.Name[:], "models/test/test.md3")
	h.FrameCount = frames
	h.TagCount = tags
	h.FrameOffset = md3.HeaderSize
	h.TagOffset = h.FrameOffset + frames*FrameInfoSize
	h.MeshOffset = h.TagOffset + frames*tags*md3.TagSize
	h.EndOffset = h.MeshOffset + int32(trailer)
	return h
}

// Tag builds a tag record value.
func Tag(name string, origin mgl32.Vec3, m md3.Matrix) md3.Tag {
	t := md3.Tag{Origin: origin, Matrix: m}
	copy(t.Name[:], name)
	return t
}

// Build lays out h at offset 0, tags at h.TagOffset and enough trailing bytes to
// reach h.EndOffset. Every byte not covered by the header or a tag gets a
// position-dependent filler value so stray writes are detectable.
func Build(h md3.Header, tags []md3.Tag) []byte {
	size := int(h.EndOffset)
	if tagEnd := int(h.TagOffset) + len(tags)*md3.TagSize; tagEnd > size {
		size = tagEnd
	}
	if size < md3.HeaderSize {
		size = md3.HeaderSize
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = byte(i*7 + 3)
	}
	hb, _ := h.MarshalBinary()
	copy(buf, hb)
	for i, t := range tags {
		tb, _ := t.MarshalBinary()
		copy(buf[int(h.TagOffset)+i*md3.TagSize:], tb)
	}
	return buf
}

// Identity is the 3x3 identity matrix.
var Identity = md3.Matrix{1, 0, 0, 0, 1, 0, 0, 0, 1}
