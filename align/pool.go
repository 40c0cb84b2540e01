package align

import "sync"

// ScratchPool hands out per-goroutine Buffers so a worker pool (see
// package batch) can reuse H/E/F scratch space across reads without
// sharing a single Buffer across goroutines. Grounded on the
// per-worker-local-state style of the teacher's bio-fusion driver,
// which constructs one stitcher per worker goroutine rather than
// pooling a shared one.
type ScratchPool struct {
	pool sync.Pool
}

// NewScratchPool returns a ready-to-use ScratchPool.
func NewScratchPool() *ScratchPool {
	return &ScratchPool{pool: sync.Pool{New: func() interface{} { return NewBuffer() }}}
}

// Get returns a Buffer for exclusive use by the caller until Put.
func (p *ScratchPool) Get() *Buffer {
	return p.pool.Get().(*Buffer)
}

// Put returns buf to the pool for reuse by a future Get.
func (p *ScratchPool) Put(buf *Buffer) {
	p.pool.Put(buf)
}
