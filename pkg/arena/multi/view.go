//go:build go1.23

package multi

import (
	"unsafe"

	"github.com/flier/seqarena/internal/debug"
	"github.com/flier/seqarena/pkg/arena"
	"github.com/flier/seqarena/pkg/seq"
	"github.com/flier/seqarena/pkg/xunsafe"
	"github.com/flier/seqarena/pkg/xunsafe/layout"
)

// Typed is a handle to the arena serving one element type: either a
// dedicated [arena.Arena], or a typed view over a shared byte arena.
type Typed[T any] struct {
	dedicated *arena.Arena[T]
	view      *view[T]
}

// Allocate returns a sequence covering n fresh elements.
func (t *Typed[T]) Allocate(n int) (seq.Sequence[T], error) {
	if t.dedicated != nil {
		return t.dedicated.Allocate(n)
	}
	return t.view.allocate(n)
}

// AllocateSingle returns a reference to one fresh element.
func (t *Typed[T]) AllocateSingle() (seq.Ref[T], error) {
	if t.dedicated != nil {
		return t.dedicated.AllocateSingle()
	}

	s, err := t.view.allocate(1)
	if err != nil {
		return seq.Ref[T]{}, err
	}
	return s.At(0), nil
}

// Shared reports whether the handle re-views a shared byte arena.
func (t *Typed[T]) Shared() bool { return t.view != nil }

func (t *Typed[T]) resetHandle() error {
	if t.dedicated != nil {
		return t.dedicated.Reset()
	}
	t.view.invalidate()
	return nil
}

func (t *Typed[T]) disposeHandle() error {
	if t.dedicated != nil {
		return t.dedicated.Dispose()
	}
	t.view.invalidate()
	return nil
}

// view re-interprets a byte arena's blocks as elements of type T.
//
// Each byte block the view touches is mapped, once, to a [seq.Segment] of T
// covering the whole block; mapped segments are chained in block order, with
// running indexes in element units. A mapped segment must never outlive the
// block under it, so the map is dropped whenever the backing arena resets.
type view[T any] struct {
	bytes *arena.Arena[byte]

	head, tail *seq.Segment[T]
	mapped     map[*seq.Segment[byte]]*seq.Segment[T]
}

func newView[T any](bytes *arena.Arena[byte]) *view[T] {
	return &view[T]{
		bytes:  bytes,
		mapped: make(map[*seq.Segment[byte]]*seq.Segment[T]),
	}
}

func (v *view[T]) invalidate() {
	v.head, v.tail = nil, nil
	v.mapped = make(map[*seq.Segment[byte]]*seq.Segment[T])
}

// allocate carves n elements of T out of the byte arena.
//
// The byte cursor is first brought to a T boundary: leftover bytes smaller
// than one element are burned, and a block that cannot hold even one T is
// skipped entirely. Whole blocks are then consumed one by one; a block that
// ends exactly on the last requested element is followed by a page skip, so
// the allocation's end coincides with the next T start.
func (v *view[T]) allocate(n int) (seq.Sequence[T], error) {
	if n < 0 {
		return seq.Sequence[T]{}, arena.ErrInvalidArgument
	}

	size := layout.Size[T]()

	// Align the byte cursor to a T boundary.
	if overlap := v.bytes.CurrentOffset() % size; overlap != 0 {
		pad := size - overlap
		if v.bytes.Remaining() < pad {
			if err := v.bytes.SkipToNextPage(); err != nil {
				return seq.Sequence[T]{}, err
			}
		} else if _, err := v.bytes.Allocate(pad); err != nil {
			return seq.Sequence[T]{}, err
		}
	}

	// Make sure at least one T fits in the current block.
	if v.bytes.Remaining() < size {
		if err := v.bytes.SkipToNextPage(); err != nil {
			return seq.Sequence[T]{}, err
		}
	}

	if n == 0 {
		return seq.Single(v.mapCurrent(), v.bytes.CurrentOffset()/size, 0), nil
	}

	startSeg := v.mapCurrent()
	startOff := v.bytes.CurrentOffset() / size

	for {
		cur := v.mapCurrent()
		r := v.bytes.Remaining() / size

		if n < r {
			if _, err := v.bytes.Allocate(n * size); err != nil {
				return seq.Sequence[T]{}, err
			}
			return seq.Spanning(startSeg, startOff, cur, v.bytes.CurrentOffset()/size), nil
		}

		if _, err := v.bytes.Allocate(r * size); err != nil {
			return seq.Sequence[T]{}, err
		}
		endOff := v.bytes.CurrentOffset() / size

		if err := v.bytes.SkipToNextPage(); err != nil {
			return seq.Sequence[T]{}, err
		}

		if n == r {
			return seq.Spanning(startSeg, startOff, cur, endOff), nil
		}
		n -= r
	}
}

// mapCurrent returns the per-T segment over the byte block under the cursor,
// mapping and chaining it on first sight.
//
// A pinned byte block is re-viewed for free through its stable base address;
// an unpinned one gets a manager that re-interprets the bytes on access.
func (v *view[T]) mapCurrent() *seq.Segment[T] {
	b := v.bytes.CurrentSegment()
	if t, ok := v.mapped[b]; ok {
		return t
	}

	size := layout.Size[T]()
	elems := b.Len() / size
	debug.Assert(elems > 0, "byte block %v cannot hold a single element of size %d", b, size)

	var t *seq.Segment[T]
	if base := b.Base(); base != nil {
		t = seq.NewSegment(unsafe.Slice((*T)(base), elems), base, b.Origin())
	} else {
		t = seq.NewManagedSegment[T](reinterp[T]{b}, elems, b.Origin())
	}

	if v.tail == nil {
		v.head, v.tail = t, t
	} else {
		v.tail = v.tail.Chain(t)
	}
	v.mapped[b] = t
	return t
}

// reinterp is the manager behind an unpinned re-viewed block: it
// re-interprets the block's bytes as T on every span access.
type reinterp[T any] struct {
	b *seq.Segment[byte]
}

func (r reinterp[T]) Span() []T {
	b := r.b.Span()
	return xunsafe.ReinterpretSlice[T](b, len(b)/layout.Size[T]())
}
