// Package enums implements the enum codec: enumerations whose values are packed into the
// smallest number of bits that exactly covers them.
//
// A Group must have a power of two number of variants so that every bit pattern of its
// width names exactly one variant. Discriminants follow C rules: a variant without an
// explicit value is one more than the variant before it, and the first variant defaults
// to 0. Every discriminant must land in [0, Len()) and be unique.
package enums

import (
	"math"
	mathbits "math/bits"

	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bitfield/internal/bits"
	"github.com/bearlytools/bitfield/languages/go/errors"
)

// Decl declares one variant of an enumeration.
type Decl struct {
	// Name is the name of the variant.
	Name string
	// Value is the explicit discriminant. If nil, the value is the previous variant's
	// value plus one.
	Value *int64
}

// Auto declares a variant that takes the next discriminant.
func Auto(name string) Decl {
	return Decl{Name: name}
}

// At declares a variant with the explicit discriminant v.
func At(name string, v int64) Decl {
	return Decl{Name: name, Value: &v}
}

// Assign returns the discriminant of each declaration, in order. It does not check the values
// against any range, only that auto-increment does not overflow.
func Assign(decls ...Decl) ([]int64, error) {
	out := make([]int64, len(decls))

	next := int64(0)
	overflow := false
	for i, d := range decls {
		if d.Value != nil {
			next = *d.Value
			overflow = false
		} else if overflow {
			return nil, errors.Ef(
				context.Background(), errors.CatUser, errors.TypeEnum,
				"variant %q: implicit discriminant overflows int64: %w", d.Name, errors.ErrDiscriminant,
			)
		}
		out[i] = next
		if next == math.MaxInt64 {
			overflow = true
		} else {
			next++
		}
	}
	return out, nil
}

// Enum is a single variant of a Group. The zero value is not a member of any Group.
type Enum struct {
	group  *Group
	name   string
	number uint64
}

// Name is the name of the variant.
func (e Enum) Name() string {
	return e.name
}

// Number is the discriminant, which is also the bit pattern stored in a record.
func (e Enum) Number() uint64 {
	return e.number
}

// Group is the Group the variant belongs to.
func (e Enum) Group() *Group {
	return e.group
}

// IsValid reports if the Enum belongs to a Group.
func (e Enum) IsValid() bool {
	return e.group != nil
}

// String implements fmt.Stringer.
func (e Enum) String() string {
	if e.group == nil {
		return "<invalid>"
	}
	return e.name
}

// Group is a validated enumeration.
type Group struct {
	name   string
	size   uint8
	values []Enum
	// byNumber maps discriminant to an index in values. It is dense: len == len(values).
	byNumber []int
	byName   map[string]int
}

// New validates decls and builds the Group named name.
func New(name string, decls ...Decl) (*Group, error) {
	ctx := context.Background()

	count := len(decls)
	if count < 2 {
		return nil, errors.Ef(ctx, errors.CatUser, errors.TypeEnum, "enum %q has %d variants, needs at least 2 to occupy a bit: %w", name, count, errors.ErrWidth)
	}
	if count&(count-1) != 0 {
		return nil, errors.Ef(ctx, errors.CatUser, errors.TypeEnum, "enum %q has %d variants: %w", name, count, errors.ErrNotPowerOfTwo)
	}

	nums, err := Assign(decls...)
	if err != nil {
		return nil, errors.Ef(ctx, errors.CatUser, errors.TypeEnum, "enum %q: %w", name, err)
	}

	g := &Group{
		name:     name,
		size:     uint8(mathbits.TrailingZeros(uint(count))),
		values:   make([]Enum, count),
		byNumber: make([]int, count),
		byName:   make(map[string]int, count),
	}
	for i := range g.byNumber {
		g.byNumber[i] = -1
	}

	for i, d := range decls {
		if d.Name == "" {
			return nil, errors.Ef(ctx, errors.CatUser, errors.TypeEnum, "enum %q: variant %d has no name", name, i)
		}
		if _, ok := g.byName[d.Name]; ok {
			return nil, errors.Ef(ctx, errors.CatUser, errors.TypeEnum, "enum %q: variant %q: %w", name, d.Name, errors.ErrDuplicate)
		}
		n := nums[i]
		if n < 0 || n >= int64(count) {
			return nil, errors.Ef(ctx, errors.CatUser, errors.TypeEnum, "enum %q: variant %q = %d, must be in [0, %d): %w", name, d.Name, n, count, errors.ErrDiscriminant)
		}
		if prev := g.byNumber[n]; prev != -1 {
			return nil, errors.Ef(
				ctx, errors.CatUser, errors.TypeEnum,
				"enum %q: variant %q and %q both = %d: %w", name, g.values[prev].name, d.Name, n, errors.ErrDuplicate,
			)
		}

		g.values[i] = Enum{group: g, name: d.Name, number: uint64(n)}
		g.byNumber[n] = i
		g.byName[d.Name] = i
	}
	return g, nil
}

// MustNew is New() that panics on error. Use it for package level declarations.
func MustNew(name string, decls ...Decl) *Group {
	g, err := New(name, decls...)
	if err != nil {
		panic(err)
	}
	return g
}

// Name is the name of the enum group.
func (g *Group) Name() string {
	return g.name
}

// Len reports the number of enum values.
func (g *Group) Len() int {
	return len(g.values)
}

// Size returns the size in bits of the enumerator.
func (g *Group) Size() uint8 {
	return g.size
}

// Values returns the variants in declaration order.
func (g *Group) Values() []Enum {
	out := make([]Enum, len(g.values))
	copy(out, g.values)
	return out
}

// ByName returns the variant called s.
func (g *Group) ByName(s string) (Enum, bool) {
	i, ok := g.byName[s]
	if !ok {
		return Enum{}, false
	}
	return g.values[i], true
}

// ByValue returns the variant whose discriminant is v.
func (g *Group) ByValue(v uint64) (Enum, bool) {
	if v >= uint64(len(g.byNumber)) {
		return Enum{}, false
	}
	i := g.byNumber[v]
	if i < 0 {
		return Enum{}, false
	}
	return g.values[i], true
}

// Decode maps a stored bit pattern to its variant. A pattern with no variant means the buffer
// was not written by this Group and is returned as a decode error.
func (g *Group) Decode(v uint64) (Enum, error) {
	e, ok := g.ByValue(v)
	if !ok {
		return Enum{}, errors.Ef(context.Background(), errors.CatInternal, errors.TypeDecode, "enum %q: value %d: %w", g.name, v, errors.ErrDecode)
	}
	return e, nil
}

// Contains reports if e is a variant of g.
func (g *Group) Contains(e Enum) bool {
	return e.group == g
}

// Get reads the variant stored at bit offset of buf.
func (g *Group) Get(buf []byte, offset uint) (Enum, error) {
	return g.Decode(bits.Get(buf, offset, uint(g.size)))
}

// Set stores e at bit offset of buf. e must be a variant of g.
func (g *Group) Set(buf []byte, offset uint, e Enum) error {
	if !g.Contains(e) {
		return errors.Ef(context.Background(), errors.CatUser, errors.TypeParameter, "enum %q: %q is not a variant: %w", g.name, e.String(), errors.ErrKind)
	}
	bits.Set(buf, offset, uint(g.size), e.number)
	return nil
}
