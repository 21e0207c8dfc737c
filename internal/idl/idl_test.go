package idl

import (
	"testing"

	"github.com/gostdlib/base/context"
	"github.com/kylelemons/godebug/pretty"

	"github.com/bearlytools/bitfield/languages/go/schema"
)

func i64(v int64) *int64 {
	return &v
}

func TestParse(t *testing.T) {
	content := `
// A comment
// About something
package demo // Yeah I can comment here

Enum Mode {
	Off // zero
	On
	Auto @3
	Manual @2
}

// Header is 4 bytes.
Record Header {
	a B1
	b B3
	mode Mode bits(2) // asserted
	flag bool

	d B25
}
`
	want := schema.File{
		Package: "demo",
		Enums: []schema.EnumDecl{
			{
				Name: "Mode",
				Values: []schema.ValueDecl{
					{Name: "Off"},
					{Name: "On"},
					{Name: "Auto", Value: i64(3)},
					{Name: "Manual", Value: i64(2)},
				},
			},
		},
		Records: []schema.RecordDecl{
			{
				Name: "Header",
				Fields: []schema.FieldDecl{
					{Name: "a", Type: "B1"},
					{Name: "b", Type: "B3"},
					{Name: "mode", Type: "Mode", Bits: 2},
					{Name: "flag", Type: "bool"},
					{Name: "d", Type: "B25"},
				},
			},
		},
	}

	got, err := Parse(context.Background(), content)
	if err != nil {
		t.Fatalf("TestParse: got err == %s, want err == nil", err)
	}

	if got.Enums[0].Line == 0 || got.Records[0].Line <= got.Enums[0].Line {
		t.Errorf("TestParse: declaration lines not recorded: enum %d, record %d", got.Enums[0].Line, got.Records[0].Line)
	}
	clearLines(&got)
	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("TestParse: -want/+got:\n%s", diff)
	}

	s, err := schema.Compile(got)
	if err != nil {
		t.Fatalf("TestParse: Compile(): %s", err)
	}
	h, err := s.Record("Header")
	if err != nil {
		t.Fatal(err)
	}
	if h.Bytes() != 4 {
		t.Errorf("TestParse: Header is %d bytes, want 4", h.Bytes())
	}
}

func clearLines(f *schema.File) {
	for i := range f.Enums {
		f.Enums[i].Line = 0
	}
	for i := range f.Records {
		f.Records[i].Line = 0
		for j := range f.Records[i].Fields {
			f.Records[i].Fields[j].Line = 0
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		desc    string
		content string
	}{
		{
			desc:    "empty",
			content: "",
		},
		{
			desc:    "missing package",
			content: "Enum Mode {\n\tA\n\tB\n}\n",
		},
		{
			desc:    "uppercase package keyword",
			content: "Package demo\n",
		},
		{
			desc:    "uppercase package name",
			content: "package Demo\n",
		},
		{
			desc:    "lowercase Enum keyword",
			content: "package demo\nenum Mode {\n\tA\n\tB\n}\n",
		},
		{
			desc:    "enum not closed",
			content: "package demo\nEnum Mode {\n\tA\n\tB\n",
		},
		{
			desc:    "enum value without @",
			content: "package demo\nEnum Mode {\n\tA 3\n\tB\n}\n",
		},
		{
			desc:    "enum value not a number",
			content: "package demo\nEnum Mode {\n\tA @x\n\tB\n}\n",
		},
		{
			desc:    "lowercase enum value",
			content: "package demo\nEnum Mode {\n\ta\n\tB\n}\n",
		},
		{
			desc:    "duplicate enum value name",
			content: "package demo\nEnum Mode {\n\tA\n\tA\n}\n",
		},
		{
			desc:    "empty enum",
			content: "package demo\nEnum Mode {\n}\n",
		},
		{
			desc:    "missing brace",
			content: "package demo\nRecord R\n\ta B8\n}\n",
		},
		{
			desc:    "field without a type",
			content: "package demo\nRecord R {\n\ta\n}\n",
		},
		{
			desc:    "bad bits attribute",
			content: "package demo\nRecord R {\n\ta B8 bits8\n}\n",
		},
		{
			desc:    "zero bits attribute",
			content: "package demo\nRecord R {\n\ta B8 bits(0)\n}\n",
		},
		{
			desc:    "duplicate field",
			content: "package demo\nRecord R {\n\ta B4\n\ta B4\n}\n",
		},
		{
			desc:    "duplicate declaration",
			content: "package demo\nRecord R {\n\ta B8\n}\nEnum R {\n\tA\n\tB\n}\n",
		},
		{
			desc:    "unknown top level",
			content: "package demo\nStruct R {\n}\n",
		},
	}

	for _, test := range tests {
		if _, err := Parse(context.Background(), test.content); err == nil {
			t.Errorf("TestParseErrors(%s): got err == nil, want err != nil", test.desc)
		}
	}
}

func TestWords(t *testing.T) {
	content := "package demo\nRecord R {\n\ta B8 bits(8)// trailing\n}\n"
	got, err := Parse(context.Background(), content)
	if err != nil {
		t.Fatalf("TestWords: got err == %s, want err == nil", err)
	}
	if len(got.Records) != 1 || len(got.Records[0].Fields) != 1 {
		t.Fatalf("TestWords: got %+v, want a single record with one field", got)
	}
	if b := got.Records[0].Fields[0].Bits; b != 8 {
		t.Errorf("TestWords: got bits %d, want 8", b)
	}
}
