package pools

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// Buffer size limits
const (
	// DefaultBufferSize is the capacity new buffers start with, enough for
	// the overview of a small network.
	DefaultBufferSize = 16 << 10
	// MaxPooledSize caps what goes back to the pool; bigger buffers are
	// dropped so one huge render does not pin its memory forever.
	MaxPooledSize = 1 << 20
)

// BufferPool recycles bytes.Buffers.
type BufferPool struct {
	pool    sync.Pool
	maxSize int

	gets      atomic.Int64
	discarded atomic.Int64
}

// NewBufferPool creates a pool whose new buffers have initialSize capacity
// and which keeps buffers no larger than maxSize. Non-positive arguments take
// the defaults.
func NewBufferPool(initialSize, maxSize int) *BufferPool {
	if initialSize <= 0 {
		initialSize = DefaultBufferSize
	}
	if maxSize <= 0 {
		maxSize = MaxPooledSize
	}
	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, initialSize))
			},
		},
		maxSize: maxSize,
	}
}

// Get returns an empty buffer.
func (p *BufferPool) Get() *bytes.Buffer {
	p.gets.Add(1)
	buf := p.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Put hands buf back. The caller must not touch it afterwards.
func (p *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	if buf.Cap() > p.maxSize {
		p.discarded.Add(1)
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}

// BufferPoolStats counts pool traffic.
type BufferPoolStats struct {
	Gets      int64
	Discarded int64
}

// Stats reports how many buffers were handed out and how many oversized ones
// were dropped on Put.
func (p *BufferPool) Stats() BufferPoolStats {
	return BufferPoolStats{Gets: p.gets.Load(), Discarded: p.discarded.Load()}
}

var defaultBufferPool = NewBufferPool(0, 0)

// GetBuffer takes a buffer from the shared pool.
func GetBuffer() *bytes.Buffer {
	return defaultBufferPool.Get()
}

// PutBuffer returns a buffer to the shared pool.
func PutBuffer(buf *bytes.Buffer) {
	defaultBufferPool.Put(buf)
}
