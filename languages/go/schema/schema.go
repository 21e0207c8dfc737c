// Package schema holds declarative descriptions of enums and packed records and compiles
// them into enums.Group and record.Schema values.
//
// Declarations come from the .bf language (see internal/idl) or from YAML:
//
//	package: demo
//	enums:
//	  - name: Mode
//	    values:
//	      - name: "Off"
//	      - name: "On"
//	records:
//	  - name: Header
//	    fields:
//	      - {name: a, type: B7}
//	      - {name: mode, type: Mode, bits: 1}
//
// A field type is B1 through B64, bool, or the name of an enum declared in the same File.
package schema

import (
	"bytes"
	"io"

	"github.com/gostdlib/base/context"
	"gopkg.in/yaml.v3"

	"github.com/bearlytools/bitfield/languages/go/enums"
	"github.com/bearlytools/bitfield/languages/go/errors"
	"github.com/bearlytools/bitfield/languages/go/record"
	"github.com/bearlytools/bitfield/languages/go/specifier"
)

// TypeBool is the field type name of a single bit boolean.
const TypeBool = "bool"

// File is a set of declarations.
type File struct {
	// Package names the declarations. It is informational.
	Package string       `yaml:"package"`
	Enums   []EnumDecl   `yaml:"enums"`
	Records []RecordDecl `yaml:"records"`
}

// EnumDecl declares an enumeration.
type EnumDecl struct {
	Name   string      `yaml:"name"`
	Values []ValueDecl `yaml:"values"`
	// Line is the line the declaration started on, 0 if unknown.
	Line int `yaml:"-"`
}

// ValueDecl declares one variant. A nil Value is one more than the variant before it.
type ValueDecl struct {
	Name  string `yaml:"name"`
	Value *int64 `yaml:"value,omitempty"`
}

// RecordDecl declares a packed record.
type RecordDecl struct {
	Name   string      `yaml:"name"`
	Fields []FieldDecl `yaml:"fields"`
	Line   int         `yaml:"-"`
}

// FieldDecl declares a field of a record.
type FieldDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	// Bits, if not 0, asserts the width of Type.
	Bits int `yaml:"bits,omitempty"`
	Line int `yaml:"-"`
}

// FromYAML decodes a File from YAML. Unknown keys are an error.
func FromYAML(b []byte) (File, error) {
	f := File{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return File{}, nil
		}
		return File{}, errors.Ef(context.Background(), errors.CatUser, errors.TypeSchema, "yaml schema: %w", err)
	}
	return f, nil
}

// ToYAML encodes f as YAML.
func ToYAML(f File) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, errors.Ef(context.Background(), errors.CatInternal, errors.TypeBug, "yaml schema: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Set is a compiled File.
type Set struct {
	pkg     string
	enums   []*enums.Group
	records []*record.Schema
	byEnum  map[string]*enums.Group
	byRec   map[string]*record.Schema
}

// Compile validates f and builds every enum and record in it.
func Compile(f File) (*Set, error) {
	ctx := context.Background()

	s := &Set{
		pkg:     f.Package,
		byEnum:  make(map[string]*enums.Group, len(f.Enums)),
		byRec:   make(map[string]*record.Schema, len(f.Records)),
		enums:   make([]*enums.Group, 0, len(f.Enums)),
		records: make([]*record.Schema, 0, len(f.Records)),
	}

	for _, ed := range f.Enums {
		if err := s.checkName(ctx, ed.Name, ed.Line); err != nil {
			return nil, err
		}
		decls := make([]enums.Decl, len(ed.Values))
		for i, v := range ed.Values {
			decls[i] = enums.Decl{Name: v.Name, Value: v.Value}
		}
		g, err := enums.New(ed.Name, decls...)
		if err != nil {
			return nil, at(ctx, ed.Line, err)
		}
		s.enums = append(s.enums, g)
		s.byEnum[g.Name()] = g
	}

	for _, rd := range f.Records {
		if err := s.checkName(ctx, rd.Name, rd.Line); err != nil {
			return nil, err
		}
		specs := make([]record.FieldSpec, len(rd.Fields))
		for i, fd := range rd.Fields {
			spec, err := s.fieldSpec(ctx, rd.Name, fd)
			if err != nil {
				return nil, err
			}
			specs[i] = spec
		}
		rs, err := record.NewSchema(rd.Name, specs...)
		if err != nil {
			return nil, at(ctx, rd.Line, err)
		}
		s.records = append(s.records, rs)
		s.byRec[rs.Name()] = rs
	}
	return s, nil
}

// MustCompile is Compile() that panics on error.
func MustCompile(f File) *Set {
	s, err := Compile(f)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Set) checkName(ctx context.Context, name string, line int) error {
	if name == "" {
		return at(ctx, line, errors.New("declaration without a name"))
	}
	if name == TypeBool {
		return at(ctx, line, errors.Ef(ctx, errors.CatUser, errors.TypeSchema, "%q is a builtin type", name))
	}
	if _, ok := specifier.Parse(name); ok {
		return at(ctx, line, errors.Ef(ctx, errors.CatUser, errors.TypeSchema, "%q is a builtin type", name))
	}
	_, e := s.byEnum[name]
	_, r := s.byRec[name]
	if e || r {
		return at(ctx, line, errors.Ef(ctx, errors.CatUser, errors.TypeSchema, "%q declared twice: %w", name, errors.ErrDuplicate))
	}
	return nil
}

func (s *Set) fieldSpec(ctx context.Context, rec string, fd FieldDecl) (record.FieldSpec, error) {
	var spec record.FieldSpec
	switch {
	case fd.Type == TypeBool:
		spec = record.Bool(fd.Name)
	default:
		if sp, ok := specifier.Parse(fd.Type); ok {
			spec = record.Unsigned(fd.Name, int(sp.Bits))
			break
		}
		g, ok := s.byEnum[fd.Type]
		if !ok {
			return record.FieldSpec{}, at(
				ctx, fd.Line,
				errors.Ef(ctx, errors.CatUser, errors.TypeSchema, "%s.%s: unknown type %q: %w", rec, fd.Name, fd.Type, errors.ErrNotFound),
			)
		}
		spec = record.Enum(fd.Name, g)
	}
	return spec.Assert(fd.Bits), nil
}

// at adds a line number to err when one is known.
func at(ctx context.Context, line int, err error) error {
	if line == 0 {
		return err
	}
	return errors.Ef(ctx, errors.CatUser, errors.TypeSchema, "line %d: %w", line, err)
}

// Package is the package name of the File.
func (s *Set) Package() string {
	return s.pkg
}

// Enums returns the enums in declaration order.
func (s *Set) Enums() []*enums.Group {
	out := make([]*enums.Group, len(s.enums))
	copy(out, s.enums)
	return out
}

// Records returns the record schemas in declaration order.
func (s *Set) Records() []*record.Schema {
	out := make([]*record.Schema, len(s.records))
	copy(out, s.records)
	return out
}

// Enum returns the enum called name.
func (s *Set) Enum(name string) (*enums.Group, bool) {
	g, ok := s.byEnum[name]
	return g, ok
}

// Record returns the record schema called name.
func (s *Set) Record(name string) (*record.Schema, error) {
	r, ok := s.byRec[name]
	if !ok {
		return nil, errors.Ef(context.Background(), errors.CatUser, errors.TypeParameter, "no record %q: %w", name, errors.ErrNotFound)
	}
	return r, nil
}
