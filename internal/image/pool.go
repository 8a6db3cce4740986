package image

// Pool is a free list of PixelBuffers that all share one size.
//
// Pool is owned by a single compositing tree and is not safe for concurrent
// use. Buffers handed out by Get keep whatever pixels they held when they
// were returned with Put.
type Pool struct {
	width  int
	height int
	free   []*PixelBuffer

	allocated int
}

// NewPool creates an empty pool for buffers of the given size.
func NewPool(width, height int) *Pool {
	return &Pool{width: width, height: height}
}

// Get pops a buffer from the free list or allocates a new one.
func (p *Pool) Get() *PixelBuffer {
	if n := len(p.free); n > 0 {
		buf := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return buf
	}
	p.allocated++
	return MustPixelBuffer(p.width, p.height)
}

// Put returns buf to the free list. Buffers of the wrong size are dropped.
func (p *Pool) Put(buf *PixelBuffer) {
	if buf == nil || buf.width != p.width || buf.height != p.height {
		return
	}
	p.free = append(p.free, buf)
}

// Drain empties the free list, leaving dropped buffers to the garbage
// collector. It returns the number of buffers released.
func (p *Pool) Drain() int {
	n := len(p.free)
	clear(p.free)
	p.free = p.free[:0]
	return n
}

// Len returns the number of buffers currently in the free list.
func (p *Pool) Len() int {
	return len(p.free)
}

// Allocated returns how many buffers the pool has created over its lifetime.
func (p *Pool) Allocated() int {
	return p.allocated
}
