package md3

import (
	"bytes"
	"fmt"
)

// Header is a decoded copy of the fixed MD3 model header at offset 0.
type Header struct {
	Ident   [4]byte
	Version int32
	Name    [NameLen]byte
	Flags   int32

	FrameCount int32
	TagCount   int32
	MeshCount  int32
	SkinCount  int32

	FrameOffset int32
	TagOffset   int32
	MeshOffset  int32
	EndOffset   int32
}

// ParseHeader decodes the header at the start of buf.
// It does not check the ident or version; see Validate.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrMalformedLayout, len(buf), HeaderSize)
	}
	return decodeHeader(buf[:HeaderSize]), nil
}

func decodeHeader(b []byte) Header {
	var h Header
	copy(h.Ident[:], b[OffIdent:OffIdent+4])
	h.Version = DecodeI32LE(b[OffVersion:])
	copy(h.Name[:], b[OffName:OffName+NameLen])
	h.Flags = DecodeI32LE(b[OffFlags:])
	h.FrameCount = DecodeI32LE(b[OffFrameCount:])
	h.TagCount = DecodeI32LE(b[OffTagCount:])
	h.MeshCount = DecodeI32LE(b[OffMeshCount:])
	h.SkinCount = DecodeI32LE(b[OffSkinCount:])
	h.FrameOffset = DecodeI32LE(b[OffFrameOffset:])
	h.TagOffset = DecodeI32LE(b[OffTagOffset:])
	h.MeshOffset = DecodeI32LE(b[OffMeshOffset:])
	h.EndOffset = DecodeI32LE(b[OffEndOffset:])
	return h
}

func encodeHeader(b []byte, h Header) {
	copy(b[OffIdent:OffIdent+4], h.Ident[:])
	EncodeI32LE(b[OffVersion:], h.Version)
	copy(b[OffName:OffName+NameLen], h.Name[:])
	EncodeI32LE(b[OffFlags:], h.Flags)
	EncodeI32LE(b[OffFrameCount:], h.FrameCount)
	EncodeI32LE(b[OffTagCount:], h.TagCount)
	EncodeI32LE(b[OffMeshCount:], h.MeshCount)
	EncodeI32LE(b[OffSkinCount:], h.SkinCount)
	EncodeI32LE(b[OffFrameOffset:], h.FrameOffset)
	EncodeI32LE(b[OffTagOffset:], h.TagOffset)
	EncodeI32LE(b[OffMeshOffset:], h.MeshOffset)
	EncodeI32LE(b[OffEndOffset:], h.EndOffset)
}

// MarshalBinary encodes the header into its HeaderSize on-disk form.
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	encodeHeader(b, h)
	return b, nil
}

// Validate reports whether the header carries the MD3 ident and the supported version.
func (h Header) Validate() error {
	if string(h.Ident[:]) != Ident {
		return fmt.Errorf("%w: %q", ErrInvalidIdent, h.Ident[:])
	}
	if h.Version != Version {
		return fmt.Errorf("%w: %d (want %d)", ErrUnsupportedVersion, h.Version, Version)
	}
	return nil
}

// ModelName returns the header name up to the first NUL.
func (h Header) ModelName() string {
	return cString(h.Name[:])
}

// Records is the number of tag records in the tag table.
func (h Header) Records() int64 {
	if h.FrameCount < 0 || h.TagCount < 0 {
		return 0
	}
	return int64(h.FrameCount) * int64(h.TagCount)
}

// TagTableRange returns the half-open byte range [start,end) of the tag table and
// checks that it lies inside a buffer of bufLen bytes.
func (h Header) TagTableRange(bufLen int) (start, end int, err error) {
	if h.FrameCount < 0 || h.TagCount < 0 {
		return 0, 0, fmt.Errorf("%w: negative counts (frames=%d tags=%d)", ErrMalformedLayout, h.FrameCount, h.TagCount)
	}
	size, ok := TagTableSize(h.FrameCount, h.TagCount)
	if !ok {
		return 0, 0, fmt.Errorf("%w: tag table size overflows (frames=%d tags=%d)", ErrMalformedLayout, h.FrameCount, h.TagCount)
	}
	if size == 0 {
		return 0, 0, nil
	}
	if h.TagOffset < HeaderSize {
		return 0, 0, fmt.Errorf("%w: tag lump %d overlaps header", ErrMalformedLayout, h.TagOffset)
	}
	end64 := int64(h.TagOffset) + size
	if end64 > int64(bufLen) {
		return 0, 0, fmt.Errorf("%w: tag table [%d,%d) exceeds %d byte buffer", ErrMalformedLayout, h.TagOffset, end64, bufLen)
	}
	return int(h.TagOffset), int(end64), nil
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
