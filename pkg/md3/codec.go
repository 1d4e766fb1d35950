package md3

import (
	"encoding/binary"
	"math"
)

// DecodeI32LE reads a little-endian int32 from the first 4 bytes of b.
func DecodeI32LE(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

// EncodeI32LE writes v into the first 4 bytes of b, least significant byte first.
func EncodeI32LE(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b, uint32(v))
}

// DecodeF32LE reinterprets the first 4 bytes of b as a little-endian IEEE-754
// single. The bit pattern is kept as is, including NaN payloads and -0.
func DecodeF32LE(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// EncodeF32LE is the inverse of DecodeF32LE.
func EncodeF32LE(b []byte, f float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
}
