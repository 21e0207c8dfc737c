// Package binary reads and writes little endian unsigned integers using generics.
package binary

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/constraints"
)

// Enc is the byte order of every integer this module writes outside of a packed record.
var Enc = binary.LittleEndian

// Size is the encoded size of T in bytes.
func Size[T constraints.Unsigned]() int {
	var v T
	switch any(v).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	}
	return 8
}

// Get decodes a T from the start of b. b must hold at least Size[T]() bytes.
func Get[T constraints.Unsigned](b []byte) T {
	var r T
	switch any(r).(type) {
	case uint8:
		return T(b[0])
	case uint16:
		return T(Enc.Uint16(b))
	case uint32:
		return T(Enc.Uint32(b))
	case uint64, uint, uintptr:
		return T(Enc.Uint64(b))
	}
	panic(fmt.Sprintf("unsupported type that passed the type constraint %T", r))
}

// Put encodes v at the start of b. b must hold at least Size[T]() bytes.
func Put[T constraints.Unsigned](b []byte, v T) {
	switch any(v).(type) {
	case uint8:
		b[0] = byte(v)
	case uint16:
		Enc.PutUint16(b, uint16(v))
	case uint32:
		Enc.PutUint32(b, uint32(v))
	default:
		Enc.PutUint64(b, uint64(v))
	}
}
