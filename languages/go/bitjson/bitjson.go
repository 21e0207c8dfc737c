// Package bitjson converts packed records to and from JSON objects.
//
// A record becomes an object with one member per field, in field order. Unsigned fields are
// numbers, bool fields are booleans and enum fields are the variant name (or its number with
// WithUseEnumNumbers). Decoding applies the same range checks as setting a field directly.
package bitjson

import (
	"bytes"
	"io"
	"strconv"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bitfield/languages/go/errors"
	"github.com/bearlytools/bitfield/languages/go/field"
	"github.com/bearlytools/bitfield/languages/go/record"
)

// marshalOptions provides options for writing records to JSON.
type marshalOptions struct {
	UseEnumNumbers bool
	Multiline      bool
}

// MarshalOption provides options for marshaling records to JSON.
type MarshalOption func(marshalOptions) (marshalOptions, error)

// WithUseEnumNumbers configures whether enum values are emitted as numbers or strings.
func WithUseEnumNumbers(use bool) MarshalOption {
	return func(m marshalOptions) (marshalOptions, error) {
		m.UseEnumNumbers = use
		return m, nil
	}
}

// WithMultiline indents the output, one member per line.
func WithMultiline(multi bool) MarshalOption {
	return func(m marshalOptions) (marshalOptions, error) {
		m.Multiline = multi
		return m, nil
	}
}

// Marshal marshals r to JSON.
func Marshal(ctx context.Context, r *record.Record, options ...MarshalOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := MarshalWriter(ctx, r, &buf, options...); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalWriter marshals r to JSON, writing to w.
func MarshalWriter(ctx context.Context, r *record.Record, w io.Writer, options ...MarshalOption) error {
	opts := marshalOptions{}
	for _, opt := range options {
		var err error
		opts, err = opt(opts)
		if err != nil {
			return err
		}
	}

	var encOpts []jsontext.Options
	if opts.Multiline {
		encOpts = append(encOpts, jsontext.Multiline(true), jsontext.WithIndent("\t"))
	}
	enc := jsontext.NewEncoder(w, encOpts...)

	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, f := range r.Schema().Fields() {
		if err := enc.WriteToken(jsontext.String(f.Name())); err != nil {
			return err
		}
		tok, err := valueToken(r, f, opts)
		if err != nil {
			return err
		}
		if err := enc.WriteToken(tok); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

func valueToken(r *record.Record, f *record.Field, opts marshalOptions) (jsontext.Token, error) {
	switch f.Kind() {
	case field.KindBool:
		v, err := r.Bool(f.Name())
		if err != nil {
			return jsontext.Token{}, err
		}
		return jsontext.Bool(v), nil
	case field.KindEnum:
		e, err := r.Enum(f.Name())
		if err != nil {
			return jsontext.Token{}, err
		}
		if opts.UseEnumNumbers {
			return jsontext.Uint(e.Number()), nil
		}
		return jsontext.String(e.Name()), nil
	default:
		v, err := r.Uint(f.Name())
		if err != nil {
			return jsontext.Token{}, err
		}
		return jsontext.Uint(v), nil
	}
}

// unmarshalOptions provides options for reading records from JSON.
type unmarshalOptions struct {
	IgnoreUnknownFields bool
}

// UnmarshalOption provides options for unmarshaling JSON to records.
type UnmarshalOption func(unmarshalOptions) (unmarshalOptions, error)

// WithIgnoreUnknownFields configures whether unknown JSON members should be ignored.
func WithIgnoreUnknownFields(ignore bool) UnmarshalOption {
	return func(u unmarshalOptions) (unmarshalOptions, error) {
		u.IgnoreUnknownFields = ignore
		return u, nil
	}
}

// Unmarshal decodes a JSON object into a new record of s. Fields missing from the object are 0.
func Unmarshal(ctx context.Context, s *record.Schema, data []byte, options ...UnmarshalOption) (*record.Record, error) {
	r := s.New()
	if err := UnmarshalReader(ctx, bytes.NewReader(data), r, options...); err != nil {
		return nil, err
	}
	return r, nil
}

// UnmarshalReader decodes a JSON object from rd into r. Only fields named in the object are
// written. If an error is returned r may have been partially written.
func UnmarshalReader(ctx context.Context, rd io.Reader, r *record.Record, options ...UnmarshalOption) error {
	opts := unmarshalOptions{}
	for _, opt := range options {
		var err error
		opts, err = opt(opts)
		if err != nil {
			return err
		}
	}

	dec := jsontext.NewDecoder(rd)
	tok, err := dec.ReadToken()
	if err != nil {
		return decodeErr(ctx, err)
	}
	if tok.Kind() != '{' {
		return errors.Ef(ctx, errors.CatUser, errors.TypeDecode, "bitjson: want a JSON object, got %s: %w", tok.Kind(), errors.ErrDecode)
	}

	s := r.Schema()
	for dec.PeekKind() != '}' {
		tok, err := dec.ReadToken()
		if err != nil {
			return decodeErr(ctx, err)
		}
		name := tok.String()

		f, err := s.Field(name)
		if err != nil {
			if opts.IgnoreUnknownFields {
				if err := dec.SkipValue(); err != nil {
					return decodeErr(ctx, err)
				}
				continue
			}
			return err
		}

		v, err := dec.ReadValue()
		if err != nil {
			return decodeErr(ctx, err)
		}
		if err := setField(ctx, r, f, v); err != nil {
			return err
		}
	}
	if _, err := dec.ReadToken(); err != nil {
		return decodeErr(ctx, err)
	}
	if _, err := dec.ReadToken(); err != io.EOF {
		return errors.Ef(ctx, errors.CatUser, errors.TypeDecode, "bitjson: data after the JSON object: %w", errors.ErrDecode)
	}
	return nil
}

func setField(ctx context.Context, r *record.Record, f *record.Field, v jsontext.Value) error {
	switch v.Kind() {
	case '0':
		u, err := strconv.ParseUint(string(v), 10, 64)
		if err != nil {
			return errors.Ef(ctx, errors.CatUser, errors.TypeRange, "bitjson: field %s: %s is not an unsigned integer: %w", f.Name(), v, errors.ErrOutOfRange)
		}
		switch f.Kind() {
		case field.KindUnsigned:
			return r.SetUint(f.Name(), u)
		case field.KindEnum:
			e, ok := f.Enum().ByValue(u)
			if !ok {
				return errors.Ef(ctx, errors.CatUser, errors.TypeRange, "bitjson: field %s: enum %s has no value %d: %w", f.Name(), f.Enum().Name(), u, errors.ErrOutOfRange)
			}
			return r.SetEnum(f.Name(), e)
		}
	case 't', 'f':
		if f.Kind() == field.KindBool {
			return r.SetBool(f.Name(), v.Kind() == 't')
		}
	case '"':
		if f.Kind() == field.KindEnum {
			var name string
			if err := jsonv2.Unmarshal(v, &name); err != nil {
				return decodeErr(ctx, err)
			}
			return r.SetEnumName(f.Name(), name)
		}
	}
	return errors.Ef(ctx, errors.CatUser, errors.TypeDecode, "bitjson: field %s is %s, got JSON %s: %w", f.Name(), f.Kind(), v.Kind(), errors.ErrKind)
}

func decodeErr(ctx context.Context, err error) error {
	return errors.Ef(ctx, errors.CatUser, errors.TypeDecode, "bitjson: %w", errors.Join(errors.ErrDecode, err))
}
