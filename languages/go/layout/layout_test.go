package layout

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/bearlytools/bitfield/languages/go/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		desc        string
		widths      []int
		wantOffsets []uint
		wantBytes   int
		wantErr     error
	}{
		{
			desc:        "1, 3, 4 is one byte",
			widths:      []int{1, 3, 4},
			wantOffsets: []uint{0, 1, 4},
			wantBytes:   1,
		},
		{
			desc:        "1, 3, 4, 24 is four bytes",
			widths:      []int{1, 3, 4, 24},
			wantOffsets: []uint{0, 1, 4, 8},
			wantBytes:   4,
		},
		{
			desc:        "unaligned fields that add up",
			widths:      []int{3, 64, 5},
			wantOffsets: []uint{0, 3, 67},
			wantBytes:   9,
		},
		{
			desc:        "no fields",
			widths:      nil,
			wantOffsets: []uint{},
			wantBytes:   0,
		},
		{
			desc:    "1, 3, 3 is seven bits",
			widths:  []int{1, 3, 3},
			wantErr: errors.ErrUnaligned,
		},
		{
			desc:    "a single 12 bit field",
			widths:  []int{12},
			wantErr: errors.ErrUnaligned,
		},
		{
			desc:    "zero width",
			widths:  []int{8, 0},
			wantErr: errors.ErrWidth,
		},
		{
			desc:    "width over 64",
			widths:  []int{65, 7},
			wantErr: errors.ErrWidth,
		},
	}

	for _, test := range tests {
		l, err := New(test.widths...)
		switch {
		case err == nil && test.wantErr != nil:
			t.Errorf("TestNew(%s): got err == nil, want err != nil", test.desc)
			continue
		case err != nil && test.wantErr == nil:
			t.Errorf("TestNew(%s): got err == %s, want err == nil", test.desc, err)
			continue
		case err != nil:
			if !errors.Is(err, test.wantErr) {
				t.Errorf("TestNew(%s): got err == %s, want %s", test.desc, err, test.wantErr)
			}
			continue
		}

		offsets := make([]uint, 0, l.Len())
		for i := 0; i < l.Len(); i++ {
			offsets = append(offsets, l.Offset(i))
			if l.Width(i) != uint(test.widths[i]) {
				t.Errorf("TestNew(%s): field %d: got width %d, want %d", test.desc, i, l.Width(i), test.widths[i])
			}
		}
		if diff := pretty.Compare(test.wantOffsets, offsets); diff != "" {
			t.Errorf("TestNew(%s): offsets -want/+got:\n%s", test.desc, diff)
		}
		if l.Bytes() != test.wantBytes {
			t.Errorf("TestNew(%s): got %d bytes, want %d", test.desc, l.Bytes(), test.wantBytes)
		}
		if l.Bits() != uint(test.wantBytes)*8 {
			t.Errorf("TestNew(%s): got %d bits, want %d", test.desc, l.Bits(), test.wantBytes*8)
		}
	}
}

func TestString(t *testing.T) {
	l, err := New(1, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := l.String(), "[0:1) [1:4) [4:8)"; got != want {
		t.Errorf("TestString: got %q, want %q", got, want)
	}
}
