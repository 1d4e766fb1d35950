// Package md3 implements the parts of the MD3 model format needed to locate and
// rewrite per-frame tag records.
//
// Everything is little-endian on disk regardless of host byte order. Header and tag
// records are fixed-size structures at fixed offsets; the tag table is found through
// the header's tag lump.
package md3

const (
	// Ident is the file magic, encoded as "IDP3".
	Ident = "IDP3"

	// Version is the only format version whose layout this package understands.
	Version int32 = 15

	// NameLen is the width of every fixed-length name field. Names are NUL padded
	// but not necessarily NUL terminated.
	NameLen = 64
)
