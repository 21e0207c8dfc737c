package bitjson

import (
	"strings"
	"testing"

	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bitfield/languages/go/enums"
	"github.com/bearlytools/bitfield/languages/go/errors"
	"github.com/bearlytools/bitfield/languages/go/record"
)

var (
	mode   = enums.MustNew("Mode", enums.Auto("Off"), enums.Auto("On"), enums.Auto("Auto"), enums.Auto("Test"))
	header = record.MustSchema(
		"Header",
		record.Unsigned("a", 1),
		record.Unsigned("b", 3),
		record.Enum("mode", mode),
		record.Bool("flag"),
		record.Unsigned("rest", 1),
		record.Unsigned("d", 40),
	)
)

func sample(t *testing.T) *record.Record {
	t.Helper()
	r := header.New()
	if err := r.SetUint("a", 1); err != nil {
		t.Fatal(err)
	}
	if err := r.SetUint("b", 5); err != nil {
		t.Fatal(err)
	}
	if err := r.SetEnumName("mode", "Auto"); err != nil {
		t.Fatal(err)
	}
	if err := r.SetBool("flag", true); err != nil {
		t.Fatal(err)
	}
	if err := r.SetUint("d", 1<<40-1); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestMarshal(t *testing.T) {
	ctx := context.Background()
	r := sample(t)

	tests := []struct {
		desc string
		opts []MarshalOption
		want string
	}{
		{
			desc: "enum names",
			want: `{"a":1,"b":5,"mode":"Auto","flag":true,"rest":0,"d":1099511627775}`,
		},
		{
			desc: "enum numbers",
			opts: []MarshalOption{WithUseEnumNumbers(true)},
			want: `{"a":1,"b":5,"mode":2,"flag":true,"rest":0,"d":1099511627775}`,
		},
	}

	for _, test := range tests {
		got, err := Marshal(ctx, r, test.opts...)
		if err != nil {
			t.Errorf("TestMarshal(%s): got err == %s, want err == nil", test.desc, err)
			continue
		}
		if string(got) != test.want {
			t.Errorf("TestMarshal(%s): got %s, want %s", test.desc, got, test.want)
		}
	}

	multi, err := Marshal(ctx, r, WithMultiline(true))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(multi), "\n") != 7 {
		t.Errorf("TestMarshal(multiline): got %q, want one member per line", multi)
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := sample(t)

	for _, opts := range [][]MarshalOption{nil, {WithUseEnumNumbers(true)}, {WithMultiline(true)}} {
		b, err := Marshal(ctx, r, opts...)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Unmarshal(ctx, header, b)
		if err != nil {
			t.Fatalf("TestRoundTrip: Unmarshal(%s): %s", b, err)
		}
		if !got.Equal(r) {
			t.Errorf("TestRoundTrip: got %s, want %s", got, r)
		}
	}
}

func TestUnmarshalPartial(t *testing.T) {
	got, err := Unmarshal(context.Background(), header, []byte(`{"b": 7, "flag": false}`))
	if err != nil {
		t.Fatal(err)
	}
	if want := "Header{a: 0, b: 7, mode: Off, flag: false, rest: 0, d: 0}"; got.String() != want {
		t.Errorf("TestUnmarshalPartial: got %s, want %s", got, want)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		desc string
		data string
		want error
	}{
		{desc: "out of range", data: `{"b": 8}`, want: errors.ErrOutOfRange},
		{desc: "negative", data: `{"b": -1}`, want: errors.ErrOutOfRange},
		{desc: "fraction", data: `{"b": 1.5}`, want: errors.ErrOutOfRange},
		{desc: "unknown variant", data: `{"mode": "Sideways"}`, want: errors.ErrNotFound},
		{desc: "enum number out of range", data: `{"mode": 4}`, want: errors.ErrOutOfRange},
		{desc: "unknown field", data: `{"zzz": 1}`, want: errors.ErrNotFound},
		{desc: "bool as number", data: `{"flag": 1}`, want: errors.ErrKind},
		{desc: "number as string", data: `{"a": "1"}`, want: errors.ErrKind},
		{desc: "null", data: `{"a": null}`, want: errors.ErrKind},
		{desc: "not an object", data: `[1, 2]`, want: errors.ErrDecode},
		{desc: "truncated", data: `{"a": 1`, want: errors.ErrDecode},
		{desc: "trailing data", data: `{"a": 1} {}`, want: errors.ErrDecode},
		{desc: "duplicate member", data: `{"a": 1, "a": 0}`, want: errors.ErrDecode},
	}

	for _, test := range tests {
		_, err := Unmarshal(context.Background(), header, []byte(test.data))
		if !errors.Is(err, test.want) {
			t.Errorf("TestUnmarshalErrors(%s): got err == %v, want %s", test.desc, err, test.want)
		}
	}
}

func TestIgnoreUnknownFields(t *testing.T) {
	data := []byte(`{"zzz": {"nested": [1, 2]}, "a": 1}`)
	got, err := Unmarshal(context.Background(), header, data, WithIgnoreUnknownFields(true))
	if err != nil {
		t.Fatalf("TestIgnoreUnknownFields: got err == %s, want err == nil", err)
	}
	if a, _ := got.Uint("a"); a != 1 {
		t.Errorf("TestIgnoreUnknownFields: a: got %d, want 1", a)
	}
}
