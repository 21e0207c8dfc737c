// Package errors provides the errors package for bitfield. It includes all of the stdlib's
// functions and types, the error categories and types used across the module and the
// sentinel errors that callers can test for with Is().
package errors

import (
	"fmt"

	"github.com/gostdlib/base/context"
	"github.com/gostdlib/base/errors"
)

//go:generate stringer -type=Category -linecomment

// Category represents the category of the error.
type Category uint32

func (c Category) Category() string {
	return c.String()
}

const (
	// CatUnknown represents an unknown category. This should not be used.
	CatUnknown Category = Category(0) // Unknown
	// CatUser represents an error that is caused by bad user input, such as a schema
	// that cannot be laid out or a value that does not fit a field.
	CatUser Category = Category(1) // User
	// CatInternal represents an internal error.
	CatInternal Category = Category(2) // Internal
)

//go:generate stringer -type=Type -linecomment

// Type represents the type of the error.
type Type uint16

func (t Type) Type() string {
	return t.String()
}

const (
	// TypeUnknown represents an unknown type.
	TypeUnknown Type = Type(0) // Unknown
	// TypeBug represents a bug in the calling code. This is only bugs that are known bugs and
	// not because of bad user input.
	TypeBug Type = Type(1) // Bug
	// TypeParameter represents an error with a parameter that didn't pass validation, such
	// as asking for a field that doesn't exist or using an accessor of the wrong kind.
	TypeParameter Type = Type(2) // Parameter

	// TypeLayout represents a field layout that cannot be packed: a width outside 1..64 or
	// a total size that is not a whole number of bytes.
	TypeLayout Type = Type(100) // Layout
	// TypeEnum represents an enumeration declaration that cannot be encoded.
	TypeEnum Type = Type(101) // Enum
	// TypeSchema represents a schema declaration error that is not a layout or enum error.
	TypeSchema Type = Type(102) // Schema
	// TypeRange represents a value that does not fit in the bits of its field.
	TypeRange Type = Type(103) // Range
	// TypeDecode represents stored bits that do not match the declared schema.
	TypeDecode Type = Type(104) // Decode
	// TypeStream represents an error reading or writing a record stream.
	TypeStream Type = Type(105) // Stream
)

// Sentinel errors. Everything returned by this module wraps one of these when it applies.
var (
	// ErrWidth indicates a field width outside of 1..64.
	ErrWidth = New("field width must be between 1 and 64 bits")
	// ErrUnaligned indicates the total size of a layout is not a multiple of 8 bits.
	ErrUnaligned = New("total bit size is not a multiple of 8")
	// ErrNotPowerOfTwo indicates an enumeration whose variant count is not a power of two.
	ErrNotPowerOfTwo = New("enum variant count is not a power of two")
	// ErrDiscriminant indicates an enumeration discriminant outside [0, variant count).
	ErrDiscriminant = New("enum discriminant out of range")
	// ErrDuplicate indicates a duplicate name or discriminant.
	ErrDuplicate = New("duplicate declaration")
	// ErrBitsMismatch indicates a field whose asserted width differs from its type's width.
	ErrBitsMismatch = New("field width does not match asserted bits")
	// ErrOutOfRange indicates a value that does not fit in its field.
	ErrOutOfRange = New("value out of range for field")
	// ErrDecode indicates a bit pattern that matches no enum variant.
	ErrDecode = New("bit pattern does not match any enum variant")
	// ErrKind indicates an accessor was used on a field of a different kind.
	ErrKind = New("wrong field kind")
	// ErrNotFound indicates a named field, record or enum that does not exist.
	ErrNotFound = New("not found")
	// ErrSize indicates a buffer whose length doesn't match the schema.
	ErrSize = New("buffer size does not match schema")
)

// LogAttrer is an interface that can be implemented by an error to return a list of attributes
// used in logging.
type LogAttrer = errors.LogAttrer

// Error is the error type for this module. Error implements github.com/gostdlib/base/errors.E .
type Error = errors.Error

// EOption is an optional argument for E().
type EOption = errors.EOption

// WithCallNum is used if you need to set the runtime.CallNum() in order to get the correct filename and line.
// This can happen if you create a call wrapper around E(), because you would then need to look up one more stack frame
// for every wrapper. This defaults to 1 which sets to the frame of the caller of E().
func WithCallNum(i int) EOption {
	return errors.WithCallNum(i)
}

// WithStackTrace will add a stack trace to the error. This is not recommended for general use
// as it can cause performance issues when errors are created frequently.
func WithStackTrace() EOption {
	return errors.WithStackTrace()
}

// E creates a new Error with the given parameters.
func E(ctx context.Context, c errors.Category, t errors.Type, msg error, options ...errors.EOption) Error {
	// This makes sure we do the correct call number since we are a wrapper. Now, if they set the
	// call number, this will not override it.
	opts := make([]errors.EOption, 0, len(options)+1)
	opts = append(opts, WithCallNum(2))
	opts = append(opts, options...)

	return errors.E(ctx, c, t, msg, opts...)
}

// Ef is E() with a message built by fmt.Errorf(). Use %w in format to wrap a sentinel.
func Ef(ctx context.Context, c errors.Category, t errors.Type, format string, a ...any) Error {
	return errors.E(ctx, c, t, fmt.Errorf(format, a...), WithCallNum(2))
}
