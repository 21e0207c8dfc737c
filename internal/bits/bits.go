// Package bits provides the bit codec for packed records: reading and writing unsigned values
// of 1 to 64 bits at any bit offset of a byte slice. This is not a replacement for math/bits.
//
// Bits are numbered LSB first. Bit n of a buffer is bit n%8 of byte n/8, so a value that spans
// a byte boundary keeps its low order bits in the lower byte.
package bits

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// MaxWidth is the widest value the codec can read or write.
const MaxWidth = 64

// Get reads "width" bits of "buf" starting at bit "offset" and returns them right justified.
// Bit 0 of the result is bit "offset" of buf. width must be 1..64 and the range must lie
// inside buf or this panics.
func Get(buf []byte, offset, width uint) uint64 {
	end := checkRange(buf, offset, width)

	var v uint64
	for b := offset / 8; b*8 < end; b++ {
		lo, hi := span(b, offset, end)
		chunk := uint64((buf[b] & byteMask(lo, hi)) >> lo)
		v |= chunk << (b*8 + lo - offset)
	}
	return v
}

// Set writes the low "width" bits of "v" into "buf" starting at bit "offset". Every other bit
// of every byte it touches is left unchanged. Bits of v above width are ignored; callers that
// must not lose data check the value against the width first. width must be 1..64 and the
// range must lie inside buf or this panics.
func Set(buf []byte, offset, width uint, v uint64) {
	end := checkRange(buf, offset, width)

	for b := offset / 8; b*8 < end; b++ {
		lo, hi := span(b, offset, end)
		m := byteMask(lo, hi)
		n := byte(v>>(b*8+lo-offset)) << lo
		buf[b] = (buf[b] &^ m) | (n & m)
	}
}

// GetFlag reads the single bit at "offset".
func GetFlag(buf []byte, offset uint) bool {
	return GetBit(buf[offset/8], uint8(offset%8))
}

// SetFlag sets the single bit at "offset" to 1 if val is true, or clears it if val is false.
func SetFlag(buf []byte, offset uint, val bool) {
	i := offset / 8
	buf[i] = SetBit(buf[i], uint8(offset%8), val)
}

// span returns the [lo, hi) bit positions inside byte b that fall in [offset, end).
func span(b, offset, end uint) (lo, hi uint) {
	start := b * 8
	lo, hi = 0, 8
	if offset > start {
		lo = offset - start
	}
	if end < start+8 {
		hi = end - start
	}
	return lo, hi
}

// byteMask selects bits [lo, hi) of a byte. A fully covered byte never goes through the
// shifting path.
func byteMask(lo, hi uint) byte {
	if lo == 0 && hi == 8 {
		return 0xFF
	}
	return Mask[uint8](uint64(lo), uint64(hi))
}

func checkRange(buf []byte, offset, width uint) (end uint) {
	if width == 0 || width > MaxWidth {
		panic(fmt.Sprintf("bits: width %d is not between 1 and %d", width, MaxWidth))
	}
	end = offset + width
	if end > uint(len(buf))*8 {
		panic(fmt.Sprintf("bits: range [%d:%d] is outside a %d byte buffer", offset, end, len(buf)))
	}
	return end
}

// GetBit gets a single bit value from "store" in position "pos". true if set, false if not.
func GetBit[U constraints.Unsigned](store U, pos uint8) bool {
	checkPos(store, pos)
	return store&(1<<pos) != 0
}

// SetBit sets a single bit in "store" at position "pos" to value "val". If val is true,
// the bit is set to 1, if false, it is set to 0.
func SetBit[U constraints.Unsigned](store U, pos uint8, val bool) U {
	checkPos(store, pos)
	if val {
		return store | (1 << pos)
	}
	return store &^ (1 << pos)
}

func checkPos[U constraints.Unsigned](store U, pos uint8) {
	var size uint8
	switch any(store).(type) {
	case uint8:
		size = 8
	case uint16:
		size = 16
	case uint32:
		size = 32
	case uint64:
		size = 64
	default:
		return
	}
	if pos >= size {
		panic(fmt.Sprintf("can't access bit %d of a %d bit number", pos, size))
	}
}

// Mask creates a mask for setting, getting and clearing a set of bits.
// start is the bit location you wish to start at and end is the bit you wish to end at (exclusive).
// Index starts at 0. So Mask(1, 4) will create a mask that includes bits at location 1 to 3.
// If start >= end or end is larger than U, this will panic.
func Mask[U constraints.Unsigned](start, end uint64) U {
	var size uint64
	switch any(U(0)).(type) {
	case uint8:
		size = 8
	case uint16:
		size = 16
	case uint32:
		size = 32
	default:
		size = 64
	}

	if start >= end {
		panic("start cannot be >= end")
	}
	if end > size {
		panic(fmt.Sprintf("end %d exceeds width %d", end, size))
	}

	width := end - start
	if width == 64 {
		// Shifting by 64 would produce 0, not a full mask.
		all := ^uint64(0)
		return U(all)
	}
	return U((uint64(1)<<width - 1) << start)
}

// BytesInBinary renders bs as binary, one space separated group of 8 bits per byte with the
// most significant bit of each byte first.
func BytesInBinary(bs []byte) string {
	buff := strings.Builder{}
	for i, n := range bs {
		if i > 0 {
			buff.WriteByte(' ')
		}
		buff.WriteString(fmt.Sprintf("%08b", n))
	}
	return buff.String()
}
