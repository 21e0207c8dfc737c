package stream

import (
	"io"
	"iter"

	"github.com/golang/snappy"
	"github.com/gostdlib/base/context"
	"github.com/klauspost/compress/zstd"

	"github.com/bearlytools/bitfield/languages/go/errors"
	"github.com/bearlytools/bitfield/languages/go/record"
)

// Reader reads records of one Schema from an io.Reader. It is not safe for concurrent use.
type Reader struct {
	schema *record.Schema
	cmp    Compression
	src    io.Reader
	zdec   *zstd.Decoder
	buf    []byte
	count  counters
}

// NewReader reads the stream header from r and returns a Reader for records of s. The record
// size in the header must match s.
func NewReader(ctx context.Context, r io.Reader, s *record.Schema, options ...Option) (*Reader, error) {
	opts, err := applyOptions(options)
	if err != nil {
		return nil, err
	}

	var hb [HeaderSize]byte
	if _, err := io.ReadFull(r, hb[:]); err != nil {
		return nil, errors.Ef(ctx, errors.CatUser, errors.TypeStream, "reading stream header: %w", errors.Join(errors.ErrDecode, err))
	}
	h, err := decodeHeader(ctx, hb)
	if err != nil {
		return nil, err
	}
	if int64(h.size) != int64(s.Bytes()) {
		return nil, errors.Ef(
			ctx, errors.CatUser, errors.TypeStream,
			"stream holds %d byte records, %s is %d bytes: %w", h.size, s.Name(), s.Bytes(), errors.ErrSize,
		)
	}

	count, err := newCounters(ctx, opts.mp, "read", h.cmp)
	if err != nil {
		return nil, errors.Ef(ctx, errors.CatInternal, errors.TypeStream, "stream metrics: %w", err)
	}

	sr := &Reader{schema: s, cmp: h.cmp, src: r, buf: make([]byte, s.Bytes()), count: count}
	switch h.cmp {
	case CmpSnappy:
		sr.src = snappy.NewReader(r)
	case CmpZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Ef(ctx, errors.CatInternal, errors.TypeStream, "zstd: %w", err)
		}
		sr.zdec = dec
		sr.src = dec
	}
	return sr, nil
}

// Schema is the Schema of the records in the stream.
func (r *Reader) Schema() *record.Schema {
	return r.schema
}

// Compression is the compressor named in the stream header.
func (r *Reader) Compression() Compression {
	return r.cmp
}

// Read fills rec with the next record. It returns io.EOF when the stream ends cleanly. A
// stream that ends partway through a record is an error wrapping errors.ErrDecode.
func (r *Reader) Read(ctx context.Context, rec *record.Record) error {
	if rec.Schema() != r.schema {
		return errors.Ef(ctx, errors.CatUser, errors.TypeParameter, "stream of %s got a %s record: %w", r.schema.Name(), rec.Schema().Name(), errors.ErrKind)
	}

	_, err := io.ReadFull(r.src, r.buf)
	switch err {
	case nil:
	case io.EOF:
		return io.EOF
	case io.ErrUnexpectedEOF:
		return errors.Ef(ctx, errors.CatUser, errors.TypeStream, "stream ends inside a record: %w", errors.ErrDecode)
	default:
		return errors.Ef(ctx, errors.CatUser, errors.TypeStream, "reading record: %w", errors.Join(errors.ErrDecode, err))
	}

	if err := rec.Load(r.buf); err != nil {
		return err
	}
	r.count.add(ctx, len(r.buf))
	return nil
}

// Records yields each record of the stream until it ends. Each record is newly allocated.
// Iteration stops after the first error is yielded.
func (r *Reader) Records(ctx context.Context) iter.Seq2[*record.Record, error] {
	return func(yield func(*record.Record, error) bool) {
		for {
			rec := r.schema.New()
			err := r.Read(ctx, rec)
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Close releases the decompressor. It does not close the underlying io.Reader.
func (r *Reader) Close() {
	if r.zdec != nil {
		r.zdec.Close()
		r.zdec = nil
	}
}
