package record

import (
	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"
)

// Pool recycles Records of a single Schema. Records handed out by Get are always zeroed.
type Pool struct {
	schema *Schema
	pool   *sync.Pool[*Record]
}

// NewPool creates a Pool for records of s.
func NewPool(ctx context.Context, s *Schema) *Pool {
	return &Pool{
		schema: s,
		pool: sync.NewPool[*Record](
			ctx,
			"record.Pool."+s.name,
			func() *Record {
				return s.New()
			},
		),
	}
}

// Schema is the Schema of the pooled records.
func (p *Pool) Schema() *Schema {
	return p.schema
}

// Get returns a zeroed Record.
func (p *Pool) Get(ctx context.Context) *Record {
	return p.pool.Get(ctx)
}

// Put returns r to the pool. r must not be used after this. Records of another Schema are dropped.
func (p *Pool) Put(ctx context.Context, r *Record) {
	if r == nil || r.schema != p.schema {
		return
	}
	r.Reset()
	p.pool.Put(ctx, r)
}
