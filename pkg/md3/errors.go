package md3

import "errors"

var (
	ErrInvalidIdent       = errors.New("invalid MD3 ident")
	ErrUnsupportedVersion = errors.New("unsupported MD3 version")
	ErrMalformedLayout    = errors.New("malformed MD3 layout")
	ErrEmptyFile          = errors.New("input file is empty")
	ErrShortRead          = errors.New("short read")
	ErrFileTooLarge       = errors.New("file too large to buffer")
)
