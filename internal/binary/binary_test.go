package binary

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestPutGet(t *testing.T) {
	b := make([]byte, 8)

	Put(b, uint32(0xABCDEF01))
	if diff := pretty.Compare([]byte{0x01, 0xEF, 0xCD, 0xAB, 0, 0, 0, 0}, b); diff != "" {
		t.Errorf("TestPutGet(uint32): -want/+got:\n%s", diff)
	}
	if got := Get[uint32](b); got != 0xABCDEF01 {
		t.Errorf("TestPutGet(uint32): got %#x, want 0xabcdef01", got)
	}

	Put(b, uint64(1<<63|5))
	if got := Get[uint64](b); got != 1<<63|5 {
		t.Errorf("TestPutGet(uint64): got %#x", got)
	}
	Put(b, uint16(0x0102))
	if got := Get[uint16](b); got != 0x0102 {
		t.Errorf("TestPutGet(uint16): got %#x", got)
	}
	Put(b, uint8(7))
	if got := Get[uint8](b); got != 7 {
		t.Errorf("TestPutGet(uint8): got %d", got)
	}
}

func TestSize(t *testing.T) {
	if Size[uint8]() != 1 || Size[uint16]() != 2 || Size[uint32]() != 4 || Size[uint64]() != 8 {
		t.Errorf("TestSize: got %d %d %d %d, want 1 2 4 8", Size[uint8](), Size[uint16](), Size[uint32](), Size[uint64]())
	}
}
