// Package stream reads and writes sequences of packed records of a single Schema.
//
// Wire format:
//
//	+-------------+------------------+--------------------------------+
//	| Compression | Record Size      | Records                        |
//	| (1 byte)    | (4 bytes LE)     | (Record Size bytes each)       |
//	+-------------+------------------+--------------------------------+
//
// The header is never compressed. Everything after it is the raw record buffers back to
// back, passed through the compressor named in the header.
package stream

import (
	"github.com/gostdlib/base/context"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bearlytools/bitfield/internal/binary"
	"github.com/bearlytools/bitfield/languages/go/errors"
)

//go:generate stringer -type=Compression -linecomment

// Compression is the compressor used after the header.
type Compression uint8

const (
	CmpNone   Compression = 0 // none
	CmpSnappy Compression = 1 // snappy
	CmpZstd   Compression = 2 // zstd
)

// HeaderSize is the size of the stream header.
const HeaderSize = 5

// MaxRecordSize is the largest record a stream can carry.
const MaxRecordSize = 1<<32 - 1

type header struct {
	cmp  Compression
	size uint32
}

func (h header) encode() [HeaderSize]byte {
	var b [HeaderSize]byte
	b[0] = byte(h.cmp)
	binary.Put(b[1:], h.size)
	return b
}

func decodeHeader(ctx context.Context, b [HeaderSize]byte) (header, error) {
	h := header{cmp: Compression(b[0]), size: binary.Get[uint32](b[1:])}
	switch h.cmp {
	case CmpNone, CmpSnappy, CmpZstd:
	default:
		return header{}, errors.Ef(ctx, errors.CatUser, errors.TypeStream, "stream header: unknown compression %d: %w", b[0], errors.ErrDecode)
	}
	return h, nil
}

// options holds the settings for a Writer or Reader.
type options struct {
	cmp Compression
	mp  metric.MeterProvider
}

// Option is an option for NewWriter or NewReader.
type Option func(options) (options, error)

// WithCompression sets the compressor a Writer uses. It is ignored by a Reader, which uses
// the compressor named in the stream header. The default is CmpNone.
func WithCompression(c Compression) Option {
	return func(o options) (options, error) {
		switch c {
		case CmpNone, CmpSnappy, CmpZstd:
		default:
			return o, errors.Ef(context.Background(), errors.CatUser, errors.TypeParameter, "unknown compression %d", c)
		}
		o.cmp = c
		return o, nil
	}
}

// WithMeterProvider sets the MeterProvider for stream metrics. By default the meter is
// taken from the Context.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o options) (options, error) {
		o.mp = mp
		return o, nil
	}
}

func applyOptions(opts []Option) (options, error) {
	o := options{}
	for _, opt := range opts {
		var err error
		o, err = opt(o)
		if err != nil {
			return o, err
		}
	}
	return o, nil
}

// counters holds the metric instruments of one Writer or Reader.
type counters struct {
	records metric.Int64Counter
	bytes   metric.Int64Counter
	attrs   metric.MeasurementOption
}

func newCounters(ctx context.Context, mp metric.MeterProvider, direction string, cmp Compression) (counters, error) {
	var meter metric.Meter
	if mp != nil {
		meter = mp.Meter("bitfield")
	} else {
		meter = context.Meter(ctx)
	}

	c := counters{
		attrs: metric.WithAttributes(
			attribute.String("direction", direction),
			attribute.String("compression", cmp.String()),
		),
	}
	var err error
	c.records, err = meter.Int64Counter(
		"bitfield.stream.records",
		metric.WithDescription("Number of records moved through record streams"),
	)
	if err != nil {
		return counters{}, err
	}
	c.bytes, err = meter.Int64Counter(
		"bitfield.stream.bytes",
		metric.WithDescription("Uncompressed record bytes moved through record streams"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return counters{}, err
	}
	return c, nil
}

func (c counters) add(ctx context.Context, n int) {
	c.records.Add(ctx, 1, c.attrs)
	c.bytes.Add(ctx, int64(n), c.attrs)
}
