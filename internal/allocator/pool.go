package allocator

import "sync"

// Pool lends out reset Allocators sized for a given stop count, backed
// by a sync.Pool so a server handling many concurrent queries doesn't
// pay an allocation per request once the pool has warmed up.
type Pool struct {
	pool sync.Pool
}

// NewPool returns an empty Pool. Allocators are created lazily on first
// Get, sized for numStops.
func NewPool() *Pool {
	return &Pool{}
}

// Get returns an Allocator ready for a fresh solve against a repository
// with numStops stops, reusing a pooled instance when one is available
// and its size still matches.
func (p *Pool) Get(numStops int) *Allocator {
	v := p.pool.Get()
	if v == nil {
		return New(numStops)
	}
	a := v.(*Allocator)
	a.Reset(numStops)
	return a
}

// Put returns an Allocator to the pool for reuse.
func (p *Pool) Put(a *Allocator) {
	p.pool.Put(a)
}
