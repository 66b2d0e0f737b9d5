package seq

import (
	"fmt"

	"github.com/flier/seqarena/pkg/xunsafe"
)

// Ref is a compact pointer-equivalent to one element inside a backing
// buffer: an (object, offset) pair.
//
// The object is an array, a segment, or a memory manager. Like a sequence, a
// reference is a pure view; the storage it points into must outlive it.
type Ref[T any] struct {
	seg *Segment[T]
	mem Memory[T]
	arr []T
	off int
}

// RefOf constructs a reference into an arbitrary memory object.
//
// obj must decompose into a []T, a *Segment[T], or a [Memory] manager; any
// other shape fails with [ErrUnsupportedMemoryShape]. The offset is checked
// against the object's length.
func RefOf[T any](obj any, off int) (Ref[T], error) {
	switch m := obj.(type) {
	case []T:
		if off < 0 || off >= len(m) {
			return Ref[T]{}, ErrIndexOutOfRange
		}
		return Ref[T]{arr: m, off: off}, nil

	case *Segment[T]:
		if off < 0 || off >= m.Len() {
			return Ref[T]{}, ErrIndexOutOfRange
		}
		return Ref[T]{seg: m, off: off}, nil

	case Memory[T]:
		if off < 0 || off >= len(m.Span()) {
			return Ref[T]{}, ErrIndexOutOfRange
		}
		return Ref[T]{mem: m, off: off}, nil

	default:
		return Ref[T]{}, fmt.Errorf("%w: %T", ErrUnsupportedMemoryShape, obj)
	}
}

// Get returns a pointer to the referenced element.
//
// Pinned segments are dereferenced through their stable base address;
// everything else goes through the backing span.
func (r Ref[T]) Get() *T {
	switch {
	case r.arr != nil:
		return &r.arr[r.off]
	case r.seg != nil:
		if base := r.seg.Base(); base != nil {
			return xunsafe.Add((*T)(base), r.off)
		}
		return &r.seg.Span()[r.off]
	case r.mem != nil:
		return &r.mem.Span()[r.off]
	default:
		panic("seq: dereference of a nil reference")
	}
}

// Load returns the referenced element's value.
func (r Ref[T]) Load() T { return *r.Get() }

// Store sets the referenced element's value.
func (r Ref[T]) Store(v T) { *r.Get() = v }

// IsZero reports whether the reference refers to no object.
func (r Ref[T]) IsZero() bool { return r.seg == nil && r.mem == nil && r.arr == nil }

// Equal reports whether two references identify the same element: the same
// backing object and the same offset.
func (r Ref[T]) Equal(q Ref[T]) bool {
	if r.seg != q.seg || r.mem != q.mem || r.off != q.off {
		return false
	}
	return xunsafe.SliceBase(r.arr) == xunsafe.SliceBase(q.arr) && len(r.arr) == len(q.arr)
}

// Format implements [fmt.Formatter].
func (r Ref[T]) Format(state fmt.State, v rune) {
	switch {
	case r.seg != nil:
		_, _ = fmt.Fprintf(state, "&%v[%d]", r.seg, r.off)
	case r.arr != nil || r.mem != nil:
		_, _ = fmt.Fprintf(state, "&mem[%d]", r.off)
	default:
		_, _ = fmt.Fprint(state, "&nil")
	}
}
