package schema

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/bearlytools/bitfield/languages/go/errors"
)

func i64(v int64) *int64 {
	return &v
}

var demo = File{
	Package: "demo",
	Enums: []EnumDecl{
		{
			Name: "Mode",
			Values: []ValueDecl{
				{Name: "Off"},
				{Name: "On"},
				{Name: "Auto", Value: i64(3)},
				{Name: "Manual", Value: i64(2)},
			},
		},
	},
	Records: []RecordDecl{
		{
			Name: "Header",
			Fields: []FieldDecl{
				{Name: "a", Type: "B1"},
				{Name: "b", Type: "B3"},
				{Name: "mode", Type: "Mode", Bits: 2},
				{Name: "flag", Type: "bool"},
				{Name: "d", Type: "B25"},
			},
		},
	},
}

const demoYAML = `
package: demo
enums:
  - name: Mode
    values:
      - name: "Off"
      - name: "On"
      - name: Auto
        value: 3
      - name: Manual
        value: 2
records:
  - name: Header
    fields:
      - {name: a, type: B1}
      - {name: b, type: B3}
      - {name: mode, type: Mode, bits: 2}
      - {name: flag, type: bool}
      - {name: d, type: B25}
`

func TestCompile(t *testing.T) {
	s, err := Compile(demo)
	if err != nil {
		t.Fatalf("TestCompile: got err == %s, want err == nil", err)
	}
	if s.Package() != "demo" {
		t.Errorf("TestCompile: got package %q, want demo", s.Package())
	}

	mode, ok := s.Enum("Mode")
	if !ok {
		t.Fatalf("TestCompile: enum Mode missing")
	}
	if mode.Size() != 2 {
		t.Errorf("TestCompile: Mode is %d bits, want 2", mode.Size())
	}
	manual, _ := mode.ByName("Manual")
	if manual.Number() != 2 {
		t.Errorf("TestCompile: Manual = %d, want 2", manual.Number())
	}

	h, err := s.Record("Header")
	if err != nil {
		t.Fatal(err)
	}
	if h.Bytes() != 4 {
		t.Errorf("TestCompile: Header is %d bytes, want 4", h.Bytes())
	}
	got := []string{}
	for _, f := range h.Fields() {
		got = append(got, f.String())
	}
	want := []string{"a B1 [0:1)", "b B3 [1:4)", "mode Mode [4:6)", "flag bool [6:7)", "d B25 [7:32)"}
	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("TestCompile: -want/+got:\n%s", diff)
	}

	if _, err := s.Record("Nope"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("TestCompile: Record(Nope): got err == %v, want errors.ErrNotFound", err)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		desc string
		file File
		want error
	}{
		{
			desc: "unknown type",
			file: File{Records: []RecordDecl{{Name: "R", Fields: []FieldDecl{{Name: "x", Type: "Color"}}}}},
			want: errors.ErrNotFound,
		},
		{
			desc: "bits assertion fails",
			file: File{Records: []RecordDecl{{Name: "R", Fields: []FieldDecl{{Name: "x", Type: "B8", Bits: 7}}}}},
			want: errors.ErrBitsMismatch,
		},
		{
			desc: "unaligned record",
			file: File{Records: []RecordDecl{{Name: "R", Fields: []FieldDecl{{Name: "x", Type: "B7"}}}}},
			want: errors.ErrUnaligned,
		},
		{
			desc: "three variants",
			file: File{Enums: []EnumDecl{{Name: "E", Values: []ValueDecl{{Name: "A"}, {Name: "B"}, {Name: "C"}}}}},
			want: errors.ErrNotPowerOfTwo,
		},
		{
			desc: "enum and record share a name",
			file: File{
				Enums:   []EnumDecl{{Name: "X", Values: []ValueDecl{{Name: "A"}, {Name: "B"}}}},
				Records: []RecordDecl{{Name: "X", Fields: []FieldDecl{{Name: "x", Type: "B8"}}}},
			},
			want: errors.ErrDuplicate,
		},
		{
			desc: "enum type never declared",
			file: File{Records: []RecordDecl{{Name: "R", Fields: []FieldDecl{{Name: "m", Type: "Mode"}}}}},
			want: errors.ErrNotFound,
		},
	}

	for _, test := range tests {
		_, err := Compile(test.file)
		if !errors.Is(err, test.want) {
			t.Errorf("TestCompileErrors(%s): got err == %v, want %s", test.desc, err, test.want)
		}
	}
}

func TestCompileBuiltinName(t *testing.T) {
	for _, name := range []string{"bool", "B8", ""} {
		f := File{Enums: []EnumDecl{{Name: name, Values: []ValueDecl{{Name: "A"}, {Name: "B"}}}}}
		if _, err := Compile(f); err == nil {
			t.Errorf("TestCompileBuiltinName(%q): got err == nil, want err != nil", name)
		}
	}
}

func TestFromYAML(t *testing.T) {
	got, err := FromYAML([]byte(demoYAML))
	if err != nil {
		t.Fatalf("TestFromYAML: got err == %s, want err == nil", err)
	}
	if diff := pretty.Compare(demo, got); diff != "" {
		t.Errorf("TestFromYAML: -want/+got:\n%s", diff)
	}

	if _, err := FromYAML([]byte("package: x\nrecrods: []\n")); err == nil {
		t.Errorf("TestFromYAML(misspelled key): got err == nil, want err != nil")
	}

	b, err := ToYAML(demo)
	if err != nil {
		t.Fatal(err)
	}
	again, err := FromYAML(b)
	if err != nil {
		t.Fatalf("TestFromYAML: reading ToYAML output: %s", err)
	}
	if diff := pretty.Compare(demo, again); diff != "" {
		t.Errorf("TestFromYAML(ToYAML): -want/+got:\n%s", diff)
	}
}
