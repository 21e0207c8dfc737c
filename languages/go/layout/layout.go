// Package layout validates the placement of packed fields.
//
// Fields are placed back to back in declaration order starting at bit 0, with no per field
// alignment. The only constraint is on the whole: the sum of the widths must be a whole
// number of bytes. That is checked once, when the Layout is built, so no record can exist
// for a layout that fails it.
package layout

import (
	"fmt"
	"strings"

	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bitfield/internal/bits"
	"github.com/bearlytools/bitfield/languages/go/errors"
)

// Layout is the computed placement of an ordered list of fields.
type Layout struct {
	widths  []uint8
	offsets []uint
	total   uint
}

// New computes the Layout for fields of the given widths, in order.
func New(widths ...int) (Layout, error) {
	ctx := context.Background()

	l := Layout{
		widths:  make([]uint8, len(widths)),
		offsets: make([]uint, len(widths)),
	}
	for i, w := range widths {
		if w < 1 || w > bits.MaxWidth {
			return Layout{}, errors.Ef(ctx, errors.CatUser, errors.TypeLayout, "field %d has width %d: %w", i, w, errors.ErrWidth)
		}
		l.widths[i] = uint8(w)
		l.offsets[i] = l.total
		l.total += uint(w)
	}

	if l.total%8 != 0 {
		return Layout{}, errors.Ef(
			ctx, errors.CatUser, errors.TypeLayout,
			"fields total %d bits, %d bits short of the next byte: %w", l.total, 8-l.total%8, errors.ErrUnaligned,
		)
	}
	return l, nil
}

// Len is the number of fields.
func (l Layout) Len() int {
	return len(l.widths)
}

// Offset is the bit offset of field i.
func (l Layout) Offset(i int) uint {
	return l.offsets[i]
}

// Width is the width in bits of field i.
func (l Layout) Width(i int) uint {
	return uint(l.widths[i])
}

// Bits is the total size in bits.
func (l Layout) Bits() uint {
	return l.total
}

// Bytes is the total size in bytes.
func (l Layout) Bytes() int {
	return int(l.total / 8)
}

// String renders the layout as "[0:1) [1:4) [4:8)".
func (l Layout) String() string {
	sb := strings.Builder{}
	for i := range l.widths {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "[%d:%d)", l.offsets[i], l.offsets[i]+uint(l.widths[i]))
	}
	return sb.String()
}
