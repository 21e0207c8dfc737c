// Package field details the field kinds and value types used by packed records.
package field

//go:generate stringer -type=Kind -linecomment

// Kind is the logical kind of a packed field.
type Kind uint8

const (
	KindUnknown  Kind = 0 // Unknown
	KindUnsigned Kind = 1 // Unsigned
	KindBool     Kind = 2 // Bool
	KindEnum     Kind = 3 // Enum
)

//go:generate stringer -type=Type -linecomment

// Type represents the Go type a field's value is handed to callers as.
type Type uint8

const (
	FTUnknown Type = 0  // Unknown
	FTBool    Type = 1  // bool
	FTUint8   Type = 6  // uint8
	FTUint16  Type = 7  // uint16
	FTUint32  Type = 8  // uint32
	FTUint64  Type = 9  // uint64
	FTEnum    Type = 20 // enum
)

// IsUnsigned determines if a Type is a fixed size unsigned integer.
func IsUnsigned(ft Type) bool {
	switch ft {
	case FTUint8, FTUint16, FTUint32, FTUint64:
		return true
	}
	return false
}

// Size returns the size in bits of an unsigned Type. It returns 0 for every other Type.
func Size(ft Type) uint8 {
	switch ft {
	case FTUint8:
		return 8
	case FTUint16:
		return 16
	case FTUint32:
		return 32
	case FTUint64:
		return 64
	}
	return 0
}
