// Package record provides packed records: fixed size byte buffers holding a list of bit
// fields laid out back to back.
//
// A Schema is built once from an ordered list of FieldSpecs. Building it checks every width,
// enum and total size, so an invalid layout never produces a Record. Records are created
// from a Schema with every bit zero and are then read and written field by field:
//
//	var header = record.MustSchema(
//		"Header",
//		record.Unsigned("a", 1),
//		record.Unsigned("b", 3),
//		record.Unsigned("c", 4),
//		record.Unsigned("d", 24),
//	)
//
//	r := header.New()
//	if err := r.SetUint("d", 0xABCDEF); err != nil {
//		// handle error
//	}
//
// Binary layout: field 0 starts at bit 0 of byte 0 and later fields follow upward. Within a
// byte, bits are numbered from the least significant. A field that crosses a byte boundary
// keeps its low order bits in the lower byte.
//
// Records are not safe for concurrent use. Schemas are immutable and may be shared.
package record

import (
	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bitfield/languages/go/enums"
	"github.com/bearlytools/bitfield/languages/go/errors"
	"github.com/bearlytools/bitfield/languages/go/field"
	"github.com/bearlytools/bitfield/languages/go/layout"
	"github.com/bearlytools/bitfield/languages/go/specifier"
)

// FieldSpec declares one field of a Schema.
type FieldSpec struct {
	// Name is the field's name. It must be unique inside a Schema.
	Name string
	// Kind is the logical kind of the field.
	Kind field.Kind
	// Bits is the width of a KindUnsigned field. It is ignored for other kinds: a bool is
	// always 1 bit and an enum is as wide as its Group.
	Bits int
	// Enum is the Group of a KindEnum field.
	Enum *enums.Group
	// WantBits, if not 0, asserts the width the field's type must have. Schema construction
	// fails if the type resolves to a different width.
	WantBits int
}

// Unsigned declares an unsigned field of "bits" width.
func Unsigned(name string, bits int) FieldSpec {
	return FieldSpec{Name: name, Kind: field.KindUnsigned, Bits: bits}
}

// Bool declares a single bit boolean field.
func Bool(name string) FieldSpec {
	return FieldSpec{Name: name, Kind: field.KindBool}
}

// Enum declares a field holding a variant of g.
func Enum(name string, g *enums.Group) FieldSpec {
	return FieldSpec{Name: name, Kind: field.KindEnum, Enum: g}
}

// Assert returns a copy of the FieldSpec that requires its type to be "bits" wide.
func (f FieldSpec) Assert(bits int) FieldSpec {
	f.WantBits = bits
	return f
}

// Schema is the validated, immutable layout of a packed record.
type Schema struct {
	name   string
	fields []*Field
	byName map[string]*Field
	layout layout.Layout
}

// NewSchema validates specs and builds a Schema named name.
func NewSchema(name string, specs ...FieldSpec) (*Schema, error) {
	ctx := context.Background()

	s := &Schema{
		name:   name,
		fields: make([]*Field, len(specs)),
		byName: make(map[string]*Field, len(specs)),
	}

	widths := make([]int, len(specs))
	for i, spec := range specs {
		f, err := s.newField(ctx, i, spec)
		if err != nil {
			return nil, err
		}
		if _, ok := s.byName[f.name]; ok {
			return nil, errors.Ef(ctx, errors.CatUser, errors.TypeSchema, "%s.%s: %w", name, f.name, errors.ErrDuplicate)
		}
		s.fields[i] = f
		s.byName[f.name] = f
		widths[i] = int(f.width)
	}

	l, err := layout.New(widths...)
	if err != nil {
		return nil, errors.Ef(ctx, errors.CatUser, errors.TypeLayout, "%s: %w", name, err)
	}
	for i, f := range s.fields {
		f.offset = l.Offset(i)
	}
	s.layout = l
	return s, nil
}

// MustSchema is NewSchema() that panics on error. Use it for package level declarations.
func MustSchema(name string, specs ...FieldSpec) *Schema {
	s, err := NewSchema(name, specs...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) newField(ctx context.Context, i int, spec FieldSpec) (*Field, error) {
	if spec.Name == "" {
		return nil, errors.Ef(ctx, errors.CatUser, errors.TypeSchema, "%s: field %d has no name", s.name, i)
	}

	f := &Field{schema: s, name: spec.Name, index: i, kind: spec.Kind}
	switch spec.Kind {
	case field.KindUnsigned:
		sp, err := specifier.Lookup(spec.Bits)
		if err != nil {
			return nil, errors.Ef(ctx, errors.CatUser, errors.TypeLayout, "%s.%s: %w", s.name, spec.Name, err)
		}
		f.spec = sp
		f.typ = sp.Natural
		f.width = uint(sp.Bits)
	case field.KindBool:
		f.typ = field.FTBool
		f.width = 1
	case field.KindEnum:
		if spec.Enum == nil {
			return nil, errors.Ef(ctx, errors.CatUser, errors.TypeSchema, "%s.%s: enum field without an enum group", s.name, spec.Name)
		}
		f.enum = spec.Enum
		f.typ = field.FTEnum
		f.width = uint(spec.Enum.Size())
	default:
		return nil, errors.Ef(ctx, errors.CatUser, errors.TypeSchema, "%s.%s: field kind %s: %w", s.name, spec.Name, spec.Kind, errors.ErrKind)
	}

	if spec.WantBits != 0 && uint(spec.WantBits) != f.width {
		return nil, errors.Ef(
			ctx, errors.CatUser, errors.TypeSchema,
			"%s.%s: type is %d bits, declared bits = %d: %w", s.name, spec.Name, f.width, spec.WantBits, errors.ErrBitsMismatch,
		)
	}
	return f, nil
}

// Name is the name of the Schema.
func (s *Schema) Name() string {
	return s.name
}

// Len is the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []*Field {
	out := make([]*Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// FieldAt returns the ith field. It panics if i is out of bounds.
func (s *Schema) FieldAt(i int) *Field {
	return s.fields[i]
}

// Field returns the field called name.
func (s *Schema) Field(name string) (*Field, error) {
	f, ok := s.byName[name]
	if !ok {
		return nil, errors.Ef(context.Background(), errors.CatUser, errors.TypeParameter, "%s has no field %q: %w", s.name, name, errors.ErrNotFound)
	}
	return f, nil
}

// Layout is the computed layout of the fields.
func (s *Schema) Layout() layout.Layout {
	return s.layout
}

// Bits is the size of a record in bits.
func (s *Schema) Bits() uint {
	return s.layout.Bits()
}

// Bytes is the size of a record in bytes.
func (s *Schema) Bytes() int {
	return s.layout.Bytes()
}

// New creates a Record with every bit set to zero.
func (s *Schema) New() *Record {
	return &Record{schema: s, data: make([]byte, s.layout.Bytes())}
}

// FromBytes creates a Record holding a copy of b. b must be exactly Bytes() long.
func (s *Schema) FromBytes(b []byte) (*Record, error) {
	r := s.New()
	if err := r.Load(b); err != nil {
		return nil, err
	}
	return r, nil
}
