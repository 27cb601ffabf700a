package storage

import (
	"fmt"

	"github.com/arloliu/vptopo/types"
)

const defaultChunkSize = 64 * 1024

// PoolSet is the default per-thread memory pool allocator: one bump
// allocator per thread, growing in fixed-size chunks.
//
// Each Pool belongs to exactly one thread and is not safe for concurrent
// use; the set itself is only reshaped from the quiescent configuration
// phase via Init.
type PoolSet struct {
	chunkSize int
	pools     []*Pool
}

var _ types.PoolAllocator = (*PoolSet)(nil)

// PoolSetOption configures a PoolSet.
type PoolSetOption func(*PoolSet)

// WithChunkSize sets the arena chunk size in bytes (default: 64KiB).
func WithChunkSize(size int) PoolSetOption {
	return func(p *PoolSet) {
		p.chunkSize = size
	}
}

// NewPoolSet creates a pool set with a single pool.
func NewPoolSet(opts ...PoolSetOption) *PoolSet {
	ps := &PoolSet{chunkSize: defaultChunkSize}
	for _, opt := range opts {
		opt(ps)
	}

	ps.pools = []*Pool{newPool(ps.chunkSize)}

	return ps
}

// Init establishes one fresh pool per thread, discarding previous pools.
//
// Returns:
//   - error: if numThreads < 1
func (p *PoolSet) Init(numThreads int) error {
	if numThreads < 1 {
		return fmt.Errorf("pool set: %w", types.ErrInvalidThreadCount)
	}

	pools := make([]*Pool, numThreads)
	for i := range pools {
		pools[i] = newPool(p.chunkSize)
	}
	p.pools = pools

	return nil
}

// NumThreads returns the current pool count.
func (p *PoolSet) NumThreads() int {
	return len(p.pools)
}

// Pool returns the pool owned by the given thread.
//
// Panics on an out-of-range thread: thread-indexed access before the
// resize protocol has completed is a programming error, not a recoverable
// condition.
func (p *PoolSet) Pool(thread types.Thread) *Pool {
	return p.pools[thread]
}

// Pool is a bump allocator over fixed-size chunks.
type Pool struct {
	chunkSize int
	chunks    [][]byte
	offset    int
	allocated int
}

func newPool(chunkSize int) *Pool {
	return &Pool{chunkSize: chunkSize}
}

// Alloc returns a zeroed slice of the requested size from the pool.
//
// Allocations are aligned to 8 bytes. Requests larger than the chunk size
// get a dedicated chunk.
func (p *Pool) Alloc(size int) []byte {
	if size <= 0 {
		return nil
	}

	aligned := (size + 7) &^ 7
	p.allocated += aligned

	if aligned > p.chunkSize {
		chunk := make([]byte, aligned)
		// Keep the current bump chunk last so offset stays valid.
		if n := len(p.chunks); n > 0 {
			p.chunks = append(p.chunks[:n-1], chunk, p.chunks[n-1])
		} else {
			p.chunks = append(p.chunks, chunk)
			p.offset = p.chunkSize // force a fresh chunk on the next small alloc
		}

		return chunk[:size]
	}

	if len(p.chunks) == 0 || p.offset+aligned > p.chunkSize {
		p.chunks = append(p.chunks, make([]byte, p.chunkSize))
		p.offset = 0
	}

	chunk := p.chunks[len(p.chunks)-1]
	buf := chunk[p.offset : p.offset+size : p.offset+aligned]
	p.offset += aligned

	return buf
}

// Reset discards all allocations, retaining the first chunk for reuse.
func (p *Pool) Reset() {
	if len(p.chunks) > 1 {
		p.chunks = p.chunks[:1]
	}
	if len(p.chunks) == 1 {
		clear(p.chunks[0])
	}
	p.offset = 0
	p.allocated = 0
}

// Allocated returns the total aligned bytes handed out since the last Reset.
func (p *Pool) Allocated() int {
	return p.allocated
}
