package stream

import (
	"io"

	"github.com/golang/snappy"
	"github.com/gostdlib/base/context"
	"github.com/klauspost/compress/zstd"

	"github.com/bearlytools/bitfield/languages/go/errors"
	"github.com/bearlytools/bitfield/languages/go/record"
)

// compressor is the part of a snappy or zstd writer that Writer uses.
type compressor interface {
	io.Writer
	Flush() error
	Close() error
}

// Writer writes records of one Schema to an io.Writer. It is not safe for concurrent use.
type Writer struct {
	schema *record.Schema
	w      io.Writer
	cmp    compressor
	count  counters
	closed bool
}

// NewWriter writes the stream header to w and returns a Writer for records of s.
func NewWriter(ctx context.Context, w io.Writer, s *record.Schema, options ...Option) (*Writer, error) {
	opts, err := applyOptions(options)
	if err != nil {
		return nil, err
	}
	if s.Bytes() == 0 || s.Bytes() > MaxRecordSize {
		return nil, errors.Ef(ctx, errors.CatUser, errors.TypeStream, "%s: records of %d bytes cannot be streamed: %w", s.Name(), s.Bytes(), errors.ErrSize)
	}

	count, err := newCounters(ctx, opts.mp, "write", opts.cmp)
	if err != nil {
		return nil, errors.Ef(ctx, errors.CatInternal, errors.TypeStream, "stream metrics: %w", err)
	}

	h := header{cmp: opts.cmp, size: uint32(s.Bytes())}.encode()
	if _, err := w.Write(h[:]); err != nil {
		return nil, errors.Ef(ctx, errors.CatInternal, errors.TypeStream, "writing stream header: %w", err)
	}

	sw := &Writer{schema: s, w: w, count: count}
	switch opts.cmp {
	case CmpSnappy:
		sw.cmp = snappy.NewBufferedWriter(w)
	case CmpZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, errors.Ef(ctx, errors.CatInternal, errors.TypeStream, "zstd: %w", err)
		}
		sw.cmp = enc
	}
	return sw, nil
}

// Schema is the Schema of the records in the stream.
func (w *Writer) Schema() *record.Schema {
	return w.schema
}

// Write appends r to the stream. r must be a record of the Writer's Schema.
func (w *Writer) Write(ctx context.Context, r *record.Record) error {
	if w.closed {
		return errors.Ef(ctx, errors.CatUser, errors.TypeStream, "write on closed stream.Writer")
	}
	if r.Schema() != w.schema {
		return errors.Ef(ctx, errors.CatUser, errors.TypeParameter, "stream of %s got a %s record: %w", w.schema.Name(), r.Schema().Name(), errors.ErrKind)
	}

	var dst io.Writer = w.w
	if w.cmp != nil {
		dst = w.cmp
	}
	n, err := r.WriteTo(dst)
	if err != nil {
		return errors.Ef(ctx, errors.CatInternal, errors.TypeStream, "writing record: %w", err)
	}
	w.count.add(ctx, int(n))
	return nil
}

// Flush pushes any buffered compressed data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if w.cmp == nil || w.closed {
		return nil
	}
	return w.cmp.Flush()
}

// Close flushes the stream and ends the compressed frame. It does not close the underlying
// io.Writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.cmp == nil {
		return nil
	}
	return w.cmp.Close()
}
