package md3

import "math"

// Header field offsets. All fields after the name are 32-bit little-endian.
const (
	OffIdent       = 0
	OffVersion     = 4
	OffName        = 8
	OffFlags       = OffName + NameLen
	OffFrameCount  = OffFlags + 4
	OffTagCount    = OffFrameCount + 4
	OffMeshCount   = OffTagCount + 4
	OffSkinCount   = OffMeshCount + 4
	OffFrameOffset = OffSkinCount + 4
	OffTagOffset   = OffFrameOffset + 4
	OffMeshOffset  = OffTagOffset + 4
	OffEndOffset   = OffMeshOffset + 4

	HeaderSize = OffEndOffset + 4
)

// Tag record field offsets, relative to the start of the record.
const (
	TagOffName   = 0
	TagOffOrigin = TagOffName + NameLen
	TagOffMatrix = TagOffOrigin + 3*4

	TagSize = TagOffMatrix + 9*4

	// MatrixSize is the number of bytes rewritten per tag record.
	MatrixSize = 9 * 4
)

// TagTableSize returns the byte length of a table of frames*tags tag records.
// ok is false for negative counts or when the size does not fit in an int64.
func TagTableSize(frames, tags int32) (size int64, ok bool) {
	if frames < 0 || tags < 0 {
		return 0, false
	}
	n := int64(frames) * int64(tags)
	if n > math.MaxInt64/TagSize {
		return 0, false
	}
	return n * TagSize, true
}
