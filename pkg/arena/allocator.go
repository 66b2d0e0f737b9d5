//go:build go1.23

package arena

import (
	"math/bits"
	"runtime"
	"sync"
	"unsafe"

	"github.com/flier/seqarena/internal/xsync"
	"github.com/flier/seqarena/pkg/seq"
	"github.com/flier/seqarena/pkg/xunsafe"
)

// Allocator is the contract an arena requires of a backing block source.
//
// The three built-in families are [Pooled], [PinnedPool], and [Heap]; any
// other implementation is treated as a foreign source. An allocator may be
// shared between arenas, in which case it must tolerate concurrent use per
// its own contract; the arenas themselves remain single-owner.
type Allocator[T any] interface {
	// Alloc obtains a buffer of at least n elements. The buffer the source
	// hands back may be longer than requested; the block built over it
	// advertises the full returned length.
	Alloc(n int) ([]T, error)

	// Free returns a buffer previously obtained from Alloc.
	Free(buf []T)

	// Clear zeros the first n elements of buf.
	Clear(buf []T, n int)

	// Base returns the stable address of the buffer's first element, or nil
	// if the source does not pin its buffers.
	Base(buf []T) unsafe.Pointer
}

// originated is implemented by the built-in sources to classify the blocks
// they produce.
type originated interface {
	origin() seq.Origin
}

func originOf[T any](a Allocator[T]) seq.Origin {
	if o, ok := a.(originated); ok {
		return o.origin()
	}
	return seq.OriginForeign
}

// sizeClass returns the log2 size class that holds n elements.
func sizeClass(n int) int {
	return bits.Len(uint(n - 1))
}

// Pooled is an [Allocator] that rents buffers from per-size-class free
// lists, rounding each request up to a power of two.
//
// The zero value is empty and ready to use.
type Pooled[T any] struct {
	classes [64]xsync.Pool[[]T]
}

// Alloc rents a buffer of at least n elements from the pool.
func (p *Pooled[T]) Alloc(n int) ([]T, error) {
	if n <= 0 {
		return nil, ErrInvalidArgument
	}

	c := sizeClass(n)
	h := p.classes[c].Get()
	buf := *h
	*h = nil
	if buf == nil {
		buf = make([]T, 1<<c)
	}
	return buf, nil
}

// Free returns a buffer to its size class for reuse. Buffers whose capacity
// is not a whole size class are trimmed down to one.
func (p *Pooled[T]) Free(buf []T) {
	if cap(buf) == 0 {
		return
	}

	c := bits.Len(uint(cap(buf))) - 1
	buf = buf[:1<<c]
	p.classes[c].Put(&buf)
}

// Clear zeros the first n elements of buf.
func (p *Pooled[T]) Clear(buf []T, n int) { clear(buf[:n]) }

// Base returns nil: pooled buffers are not pinned.
func (p *Pooled[T]) Base([]T) unsafe.Pointer { return nil }

func (p *Pooled[T]) origin() seq.Origin { return seq.OriginPooled }

// PinnedPool is a [Pooled] allocator whose buffers are pinned on rental, so
// that a stable base address exists for each buffer's lifetime. Buffers are
// unpinned when freed.
//
// The zero value is empty and ready to use.
type PinnedPool[T any] struct {
	pool Pooled[T]

	mu   sync.Mutex
	pins map[unsafe.Pointer]*runtime.Pinner
}

// Alloc rents a buffer and pins its storage.
func (p *PinnedPool[T]) Alloc(n int) ([]T, error) {
	buf, err := p.pool.Alloc(n)
	if err != nil {
		return nil, err
	}

	pin := new(runtime.Pinner)
	pin.Pin(unsafe.SliceData(buf))

	p.mu.Lock()
	if p.pins == nil {
		p.pins = make(map[unsafe.Pointer]*runtime.Pinner)
	}
	p.pins[xunsafe.SliceBase(buf)] = pin
	p.mu.Unlock()

	return buf, nil
}

// Free unpins a buffer and returns it to the pool.
func (p *PinnedPool[T]) Free(buf []T) {
	p.mu.Lock()
	base := xunsafe.SliceBase(buf)
	if pin := p.pins[base]; pin != nil {
		pin.Unpin()
		delete(p.pins, base)
	}
	p.mu.Unlock()

	p.pool.Free(buf)
}

// Clear zeros the first n elements of buf.
func (p *PinnedPool[T]) Clear(buf []T, n int) { clear(buf[:n]) }

// Base returns the pinned address of the buffer's first element.
func (p *PinnedPool[T]) Base(buf []T) unsafe.Pointer { return xunsafe.SliceBase(buf) }

func (p *PinnedPool[T]) origin() seq.Origin { return seq.OriginPinned }

// Heap is an [Allocator] that allocates each buffer directly from the Go
// heap and lets the garbage collector reclaim it once freed.
//
// Heap buffers always expose a base address: a reachable Go heap object
// never moves.
type Heap[T any] struct{}

// Alloc allocates a buffer of exactly n elements.
func (Heap[T]) Alloc(n int) ([]T, error) {
	if n <= 0 {
		return nil, ErrInvalidArgument
	}
	return make([]T, n), nil
}

// Free drops the buffer; reclamation is the collector's.
func (Heap[T]) Free([]T) {}

// Clear zeros the first n elements of buf.
func (Heap[T]) Clear(buf []T, n int) { clear(buf[:n]) }

// Base returns the address of the buffer's first element.
func (Heap[T]) Base(buf []T) unsafe.Pointer { return xunsafe.SliceBase(buf) }

func (Heap[T]) origin() seq.Origin { return seq.OriginHeap }
