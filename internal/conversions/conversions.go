// Package conversions holds zero copy conversions between strings and byte slices.
package conversions

import (
	"unsafe"
)

// ByteSlice2String converts bs to a string without a copy. bs must not be modified after this.
func ByteSlice2String(bs []byte) string {
	if len(bs) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(bs), len(bs))
}

// UnsafeGetBytes returns the bytes held in s without a copy. The result must never be modified.
func UnsafeGetBytes(s string) []byte {
	if s == "" {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
