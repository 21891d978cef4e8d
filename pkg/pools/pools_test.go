package pools

import (
	"bytes"
	"sync"
	"testing"
)

func TestBufferPool_Get(t *testing.T) {
	pool := NewBufferPool(64, 1024)

	buf := pool.Get()
	if buf.Len() != 0 {
		t.Errorf("Len() = %d, want 0", buf.Len())
	}
	if buf.Cap() < 64 {
		t.Errorf("Cap() = %d, want >= 64", buf.Cap())
	}
}

func TestBufferPool_PutResets(t *testing.T) {
	pool := NewBufferPool(64, 1024)

	buf := pool.Get()
	buf.WriteString("<svg/>")
	pool.Put(buf)

	// sync.Pool may or may not hand the same buffer back; either way it
	// must come out empty
	if got := pool.Get(); got.Len() != 0 {
		t.Errorf("reused buffer holds %q", got.String())
	}
}

func TestBufferPool_DropsOversized(t *testing.T) {
	pool := NewBufferPool(16, 128)

	big := bytes.NewBuffer(make([]byte, 0, 4096))
	pool.Put(big)
	pool.Put(nil)

	if got := pool.Stats().Discarded; got != 1 {
		t.Errorf("Discarded = %d, want 1", got)
	}
}

func TestBufferPool_Defaults(t *testing.T) {
	pool := NewBufferPool(0, -1)
	if pool.maxSize != MaxPooledSize {
		t.Errorf("maxSize = %d, want %d", pool.maxSize, MaxPooledSize)
	}
	if buf := pool.Get(); buf.Cap() < DefaultBufferSize {
		t.Errorf("Cap() = %d, want >= %d", buf.Cap(), DefaultBufferSize)
	}
}

func TestBufferPool_Concurrent(t *testing.T) {
	pool := NewBufferPool(32, 1024)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf := pool.Get()
				buf.WriteString("node")
				if buf.String() != "node" {
					t.Errorf("buffer shared between goroutines: %q", buf.String())
				}
				pool.Put(buf)
			}
		}()
	}
	wg.Wait()

	if got := pool.Stats().Gets; got != 5000 {
		t.Errorf("Gets = %d, want 5000", got)
	}
}

func TestSharedPool(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("x")
	PutBuffer(buf)
	if got := GetBuffer(); got.Len() != 0 {
		t.Errorf("shared pool returned %q", got.String())
	}
}

func BenchmarkBufferPool(b *testing.B) {
	pool := NewBufferPool(0, 0)
	payload := bytes.Repeat([]byte("<circle/>"), 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf := pool.Get()
		buf.Write(payload)
		pool.Put(buf)
	}
}
