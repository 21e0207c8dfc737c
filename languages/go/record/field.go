package record

import (
	"fmt"

	"github.com/gostdlib/base/context"
	"golang.org/x/exp/constraints"

	"github.com/bearlytools/bitfield/internal/bits"
	"github.com/bearlytools/bitfield/languages/go/enums"
	"github.com/bearlytools/bitfield/languages/go/errors"
	"github.com/bearlytools/bitfield/languages/go/field"
	"github.com/bearlytools/bitfield/languages/go/specifier"
)

// Field is a field of a Schema bound to its place in the record. Fields are created by
// NewSchema and are immutable.
type Field struct {
	schema *Schema
	name   string
	index  int
	kind   field.Kind
	typ    field.Type
	spec   specifier.Specifier
	enum   *enums.Group
	offset uint
	width  uint
}

// Name is the name of the field.
func (f *Field) Name() string {
	return f.name
}

// Index is the position of the field in its Schema.
func (f *Field) Index() int {
	return f.index
}

// Kind is the logical kind of the field.
func (f *Field) Kind() field.Kind {
	return f.kind
}

// Type is the type values of this field are exchanged as.
func (f *Field) Type() field.Type {
	return f.typ
}

// Specifier is the unsigned type of a KindUnsigned field. It is the zero Specifier for other kinds.
func (f *Field) Specifier() specifier.Specifier {
	return f.spec
}

// Enum is the Group of a KindEnum field, nil for other kinds.
func (f *Field) Enum() *enums.Group {
	return f.enum
}

// Offset is the bit offset of the field in the record.
func (f *Field) Offset() uint {
	return f.offset
}

// Width is the width of the field in bits.
func (f *Field) Width() uint {
	return f.width
}

// Schema is the Schema the field belongs to.
func (f *Field) Schema() *Schema {
	return f.schema
}

// String implements fmt.Stringer.
func (f *Field) String() string {
	var t string
	switch f.kind {
	case field.KindUnsigned:
		t = f.spec.Name()
	case field.KindEnum:
		t = f.enum.Name()
	default:
		t = f.typ.String()
	}
	return fmt.Sprintf("%s %s [%d:%d)", f.name, t, f.offset, f.offset+f.width)
}

func (f *Field) want(kind field.Kind) error {
	if f.kind != kind {
		return errors.Ef(context.Background(), errors.CatUser, errors.TypeParameter, "%s.%s is %s, not %s: %w", f.schema.name, f.name, f.kind, kind, errors.ErrKind)
	}
	return nil
}

func (f *Field) mustBelong(r *Record) {
	if r.schema != f.schema {
		panic(fmt.Sprintf("field %s.%s used with a %s record", f.schema.name, f.name, r.schema.name))
	}
}

func (f *Field) getUint(r *Record) uint64 {
	return bits.Get(r.data, f.offset, f.width)
}

// setUint range checks v before anything is written, so a value that is too wide leaves the
// record, including neighboring fields, untouched.
func (f *Field) setUint(r *Record, v uint64) error {
	if !f.spec.Fits(v) {
		return errors.Ef(
			context.Background(), errors.CatUser, errors.TypeRange,
			"%s.%s: %d does not fit in %d bits (max %d): %w", f.schema.name, f.name, v, f.width, f.spec.Max(), errors.ErrOutOfRange,
		)
	}
	bits.Set(r.data, f.offset, f.width, v)
	return nil
}

func (f *Field) getBool(r *Record) bool {
	return bits.GetFlag(r.data, f.offset)
}

func (f *Field) setBool(r *Record, v bool) {
	bits.SetFlag(r.data, f.offset, v)
}

func (f *Field) getEnum(r *Record) (enums.Enum, error) {
	e, err := f.enum.Get(r.data, f.offset)
	if err != nil {
		return enums.Enum{}, errors.Ef(context.Background(), errors.CatInternal, errors.TypeDecode, "%s.%s: %w", f.schema.name, f.name, err)
	}
	return e, nil
}

func (f *Field) setEnum(r *Record, e enums.Enum) error {
	if err := f.enum.Set(r.data, f.offset, e); err != nil {
		return errors.Ef(context.Background(), errors.CatUser, errors.TypeParameter, "%s.%s: %w", f.schema.name, f.name, err)
	}
	return nil
}

// UintAccessor reads and writes an unsigned field as its natural type U.
type UintAccessor[U constraints.Unsigned] struct {
	f *Field
}

// Uint returns an accessor for the unsigned field f. U must be the field's natural type: the
// smallest of uint8, uint16, uint32 and uint64 that holds its width.
func Uint[U constraints.Unsigned](f *Field) (UintAccessor[U], error) {
	if err := f.want(field.KindUnsigned); err != nil {
		return UintAccessor[U]{}, err
	}
	n := specifier.Natural[U]()
	switch {
	case !field.IsUnsigned(n):
		var zero U
		return UintAccessor[U]{}, errors.Ef(
			context.Background(), errors.CatUser, errors.TypeParameter,
			"%s.%s: accessor type %T is platform sized: %w", f.schema.name, f.name, zero, errors.ErrKind,
		)
	case n != f.typ:
		return UintAccessor[U]{}, errors.Ef(
			context.Background(), errors.CatUser, errors.TypeParameter,
			"%s.%s is %s, accessor type is %s: %w", f.schema.name, f.name, f.typ, n, errors.ErrKind,
		)
	}
	return UintAccessor[U]{f: f}, nil
}

// MustUint is Uint() that panics on error.
func MustUint[U constraints.Unsigned](f *Field) UintAccessor[U] {
	a, err := Uint[U](f)
	if err != nil {
		panic(err)
	}
	return a
}

// Field is the field the accessor is bound to.
func (a UintAccessor[U]) Field() *Field {
	return a.f
}

// Get reads the field from r. It panics if r is not a record of the field's Schema.
func (a UintAccessor[U]) Get(r *Record) U {
	a.f.mustBelong(r)
	return U(a.f.getUint(r))
}

// Set writes v to the field of r. A v wider than the field is rejected and r is not changed.
// It panics if r is not a record of the field's Schema.
func (a UintAccessor[U]) Set(r *Record, v U) error {
	a.f.mustBelong(r)
	return a.f.setUint(r, uint64(v))
}

// BoolAccessor reads and writes a bool field.
type BoolAccessor struct {
	f *Field
}

// BoolOf returns an accessor for the bool field f.
func BoolOf(f *Field) (BoolAccessor, error) {
	if err := f.want(field.KindBool); err != nil {
		return BoolAccessor{}, err
	}
	return BoolAccessor{f: f}, nil
}

// Field is the field the accessor is bound to.
func (a BoolAccessor) Field() *Field {
	return a.f
}

// Get reads the field from r. It panics if r is not a record of the field's Schema.
func (a BoolAccessor) Get(r *Record) bool {
	a.f.mustBelong(r)
	return a.f.getBool(r)
}

// Set writes v to the field of r. It panics if r is not a record of the field's Schema.
func (a BoolAccessor) Set(r *Record, v bool) {
	a.f.mustBelong(r)
	a.f.setBool(r, v)
}

// EnumAccessor reads and writes an enum field.
type EnumAccessor struct {
	f *Field
}

// EnumOf returns an accessor for the enum field f.
func EnumOf(f *Field) (EnumAccessor, error) {
	if err := f.want(field.KindEnum); err != nil {
		return EnumAccessor{}, err
	}
	return EnumAccessor{f: f}, nil
}

// Field is the field the accessor is bound to.
func (a EnumAccessor) Field() *Field {
	return a.f
}

// Get reads the field from r. An error means the stored bits name no variant.
// It panics if r is not a record of the field's Schema.
func (a EnumAccessor) Get(r *Record) (enums.Enum, error) {
	a.f.mustBelong(r)
	return a.f.getEnum(r)
}

// Set writes e to the field of r. e must be a variant of the field's Group.
// It panics if r is not a record of the field's Schema.
func (a EnumAccessor) Set(r *Record, e enums.Enum) error {
	a.f.mustBelong(r)
	return a.f.setEnum(r, e)
}
