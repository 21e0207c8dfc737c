package record

import (
	"fmt"
	"io"
	"strings"

	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bitfield/internal/bits"
	"github.com/bearlytools/bitfield/languages/go/enums"
	"github.com/bearlytools/bitfield/languages/go/errors"
	"github.com/bearlytools/bitfield/languages/go/field"
)

// Record is a packed record. Its buffer is the only storage for its fields.
type Record struct {
	schema *Schema
	data   []byte
}

// Schema is the Schema the record was created from.
func (r *Record) Schema() *Schema {
	return r.schema
}

// Bytes returns a copy of the record's buffer.
func (r *Record) Bytes() []byte {
	out := make([]byte, len(r.data))
	copy(out, r.data)
	return out
}

// AppendBytes appends the record's buffer to b.
func (r *Record) AppendBytes(b []byte) []byte {
	return append(b, r.data...)
}

// WriteTo implements io.WriterTo by writing the raw buffer.
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// Load replaces the record's buffer with a copy of b. b must be exactly Schema().Bytes() long.
func (r *Record) Load(b []byte) error {
	if len(b) != len(r.data) {
		return errors.Ef(context.Background(), errors.CatUser, errors.TypeParameter, "%s: got %d bytes, want %d: %w", r.schema.name, len(b), len(r.data), errors.ErrSize)
	}
	copy(r.data, b)
	return nil
}

// Reset sets every bit to zero.
func (r *Record) Reset() {
	clear(r.data)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	return &Record{schema: r.schema, data: r.Bytes()}
}

// Equal reports if both records share a Schema and hold the same bits.
func (r *Record) Equal(o *Record) bool {
	if r.schema != o.schema {
		return false
	}
	return string(r.data) == string(o.data)
}

func (r *Record) field(name string, kind field.Kind) (*Field, error) {
	f, err := r.schema.Field(name)
	if err != nil {
		return nil, err
	}
	if err := f.want(kind); err != nil {
		return nil, err
	}
	return f, nil
}

// Uint reads the unsigned field called name.
func (r *Record) Uint(name string) (uint64, error) {
	f, err := r.field(name, field.KindUnsigned)
	if err != nil {
		return 0, err
	}
	return f.getUint(r), nil
}

// SetUint writes v to the unsigned field called name. A v wider than the field is rejected
// with an error wrapping errors.ErrOutOfRange and the record is not changed.
func (r *Record) SetUint(name string, v uint64) error {
	f, err := r.field(name, field.KindUnsigned)
	if err != nil {
		return err
	}
	return f.setUint(r, v)
}

// Bool reads the bool field called name.
func (r *Record) Bool(name string) (bool, error) {
	f, err := r.field(name, field.KindBool)
	if err != nil {
		return false, err
	}
	return f.getBool(r), nil
}

// SetBool writes v to the bool field called name.
func (r *Record) SetBool(name string, v bool) error {
	f, err := r.field(name, field.KindBool)
	if err != nil {
		return err
	}
	f.setBool(r, v)
	return nil
}

// Enum reads the enum field called name. An error wrapping errors.ErrDecode means the stored
// bits name no variant.
func (r *Record) Enum(name string) (enums.Enum, error) {
	f, err := r.field(name, field.KindEnum)
	if err != nil {
		return enums.Enum{}, err
	}
	return f.getEnum(r)
}

// SetEnum writes e to the enum field called name. e must be a variant of the field's Group.
func (r *Record) SetEnum(name string, e enums.Enum) error {
	f, err := r.field(name, field.KindEnum)
	if err != nil {
		return err
	}
	return f.setEnum(r, e)
}

// SetEnumName writes the variant called variant to the enum field called name.
func (r *Record) SetEnumName(name, variant string) error {
	f, err := r.field(name, field.KindEnum)
	if err != nil {
		return err
	}
	e, ok := f.enum.ByName(variant)
	if !ok {
		return errors.Ef(
			context.Background(), errors.CatUser, errors.TypeParameter,
			"%s.%s: enum %s has no variant %q: %w", r.schema.name, name, f.enum.Name(), variant, errors.ErrNotFound,
		)
	}
	return f.setEnum(r, e)
}

// Value reads field f and returns it as its natural type: uint8, uint16, uint32, uint64,
// bool or enums.Enum.
func (r *Record) Value(f *Field) (any, error) {
	f.mustBelong(r)
	switch f.typ {
	case field.FTBool:
		return f.getBool(r), nil
	case field.FTEnum:
		return f.getEnum(r)
	case field.FTUint8:
		return uint8(f.getUint(r)), nil
	case field.FTUint16:
		return uint16(f.getUint(r)), nil
	case field.FTUint32:
		return uint32(f.getUint(r)), nil
	case field.FTUint64:
		return f.getUint(r), nil
	}
	return nil, errors.Ef(context.Background(), errors.CatInternal, errors.TypeBug, "%s.%s: unhandled type %s", r.schema.name, f.name, f.typ)
}

// SetValue writes v to field f. v may be any Go unsigned integer for an unsigned field, a
// bool for a bool field, or an enums.Enum or variant name for an enum field.
func (r *Record) SetValue(f *Field, v any) error {
	f.mustBelong(r)

	switch f.kind {
	case field.KindBool:
		b, ok := v.(bool)
		if !ok {
			return r.badValue(f, v)
		}
		f.setBool(r, b)
		return nil
	case field.KindEnum:
		switch x := v.(type) {
		case enums.Enum:
			return f.setEnum(r, x)
		case string:
			return r.SetEnumName(f.name, x)
		}
		return r.badValue(f, v)
	case field.KindUnsigned:
		var u uint64
		switch x := v.(type) {
		case uint8:
			u = uint64(x)
		case uint16:
			u = uint64(x)
		case uint32:
			u = uint64(x)
		case uint64:
			u = x
		case uint:
			u = uint64(x)
		default:
			return r.badValue(f, v)
		}
		return f.setUint(r, u)
	}
	return r.badValue(f, v)
}

func (r *Record) badValue(f *Field, v any) error {
	return errors.Ef(context.Background(), errors.CatUser, errors.TypeParameter, "%s.%s is %s, got %T: %w", r.schema.name, f.name, f.kind, v, errors.ErrKind)
}

// Validate checks that every enum field holds a declared variant.
func (r *Record) Validate() error {
	for _, f := range r.schema.fields {
		if f.kind != field.KindEnum {
			continue
		}
		if _, err := f.getEnum(r); err != nil {
			return err
		}
	}
	return nil
}

// String renders the record as Name{field: value, ...}. Enum fields holding an undeclared
// pattern render as !(bits).
func (r *Record) String() string {
	sb := strings.Builder{}
	sb.WriteString(r.schema.name)
	sb.WriteByte('{')
	for i, f := range r.schema.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.name)
		sb.WriteString(": ")
		switch f.kind {
		case field.KindEnum:
			e, err := f.getEnum(r)
			if err != nil {
				fmt.Fprintf(&sb, "!(%d)", f.getUint(r))
				continue
			}
			sb.WriteString(e.Name())
		case field.KindBool:
			fmt.Fprint(&sb, f.getBool(r))
		default:
			fmt.Fprint(&sb, f.getUint(r))
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

// Binary renders the record's buffer as binary, most significant bit of each byte first.
func (r *Record) Binary() string {
	return bits.BytesInBinary(r.data)
}
