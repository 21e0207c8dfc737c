package conversions

import (
	"testing"
)

func TestConversions(t *testing.T) {
	if got := ByteSlice2String([]byte("package demo")); got != "package demo" {
		t.Errorf("TestConversions: ByteSlice2String: got %q, want %q", got, "package demo")
	}
	if got := ByteSlice2String(nil); got != "" {
		t.Errorf("TestConversions: ByteSlice2String(nil): got %q, want empty", got)
	}
	if got := string(UnsafeGetBytes(`{"a": 1}`)); got != `{"a": 1}` {
		t.Errorf("TestConversions: UnsafeGetBytes: got %q", got)
	}
	if got := UnsafeGetBytes(""); got != nil {
		t.Errorf("TestConversions: UnsafeGetBytes(\"\"): got %v, want nil", got)
	}
}
