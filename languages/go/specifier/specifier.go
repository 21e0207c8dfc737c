// Package specifier holds the registry of fixed width unsigned field types, B1 through B64.
//
// Every width maps to the smallest Go unsigned type that can hold it: 1-8 bits are uint8,
// 9-16 are uint16, 17-32 are uint32 and 33-64 are uint64. That is the "natural" type callers
// see for a field; the codec's 64 bit accumulator is narrowed to it on reads and zero
// extended from it on writes.
package specifier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gostdlib/base/context"
	"golang.org/x/exp/constraints"

	"github.com/bearlytools/bitfield/languages/go/errors"
	"github.com/bearlytools/bitfield/languages/go/field"
)

// MinBits and MaxBits are the smallest and largest widths in the registry.
const (
	MinBits = 1
	MaxBits = 64
)

// Specifier describes an unsigned field type of a fixed bit width.
type Specifier struct {
	// Bits is the width of the field.
	Bits uint8
	// Natural is the unsigned Go type values are exchanged as.
	Natural field.Type
}

// Name returns the declaration name of the Specifier, such as "B12".
func (s Specifier) Name() string {
	return "B" + strconv.Itoa(int(s.Bits))
}

// String implements fmt.Stringer.
func (s Specifier) String() string {
	return fmt.Sprintf("%s(%s)", s.Name(), s.Natural)
}

// Max is the largest value that fits in the Specifier.
func (s Specifier) Max() uint64 {
	if s.Bits >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<s.Bits - 1
}

// Fits reports if v can be stored in the Specifier without losing bits.
func (s Specifier) Fits(v uint64) bool {
	return v <= s.Max()
}

// registry is indexed by width. Index 0 is the zero Specifier.
var registry = func() [MaxBits + 1]Specifier {
	var r [MaxBits + 1]Specifier
	for i := MinBits; i <= MaxBits; i++ {
		s := Specifier{Bits: uint8(i)}
		switch {
		case i <= 8:
			s.Natural = field.FTUint8
		case i <= 16:
			s.Natural = field.FTUint16
		case i <= 32:
			s.Natural = field.FTUint32
		default:
			s.Natural = field.FTUint64
		}
		r[i] = s
	}
	return r
}()

// Lookup returns the Specifier for a width of "bits".
func Lookup(bits int) (Specifier, error) {
	if bits < MinBits || bits > MaxBits {
		return Specifier{}, errors.Ef(context.Background(), errors.CatUser, errors.TypeLayout, "B%d: %w", bits, errors.ErrWidth)
	}
	return registry[bits], nil
}

// B returns the Specifier for a width of "bits". It panics if bits is not 1..64, so it is
// meant for package level declarations.
func B(bits int) Specifier {
	s, err := Lookup(bits)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse returns the Specifier for a declaration name such as "B7". ok is false if name is not
// a Specifier name.
func Parse(name string) (s Specifier, ok bool) {
	rest, found := strings.CutPrefix(name, "B")
	if !found {
		return Specifier{}, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || strconv.Itoa(n) != rest {
		return Specifier{}, false
	}
	s, err = Lookup(n)
	if err != nil {
		return Specifier{}, false
	}
	return s, true
}

// All returns every Specifier in width order.
func All() []Specifier {
	out := make([]Specifier, 0, MaxBits)
	return append(out, registry[MinBits:]...)
}

// Natural returns the field.Type that matches the Go unsigned type U. uint and uintptr are
// platform sized and report field.FTUnknown.
func Natural[U constraints.Unsigned]() field.Type {
	switch any(U(0)).(type) {
	case uint8:
		return field.FTUint8
	case uint16:
		return field.FTUint16
	case uint32:
		return field.FTUint32
	case uint64:
		return field.FTUint64
	}
	return field.FTUnknown
}
