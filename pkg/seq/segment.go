package seq

import (
	"fmt"
	"unsafe"

	"github.com/flier/seqarena/internal/debug"
)

// Segment is one link in a chain of element buffers.
//
// A segment owns one contiguous buffer and a forward link to its successor.
// Apart from that link, a segment is immutable after creation: its length,
// running index, and ordinal are fixed when it is chained. The chain is
// forward-only and never cyclic.
type Segment[T any] struct {
	buf []T
	mem Memory[T]
	n   int

	next    *Segment[T]
	running int64
	index   int

	base   unsafe.Pointer
	origin Origin
}

// NewSegment creates an unchained segment over the given buffer.
//
// base, when non-nil, is the stable address of the buffer's first element;
// segments with a base can be dereferenced without touching the slice header.
func NewSegment[T any](buf []T, base unsafe.Pointer, origin Origin) *Segment[T] {
	return &Segment[T]{buf: buf, n: len(buf), base: base, origin: origin}
}

// NewManagedSegment creates an unchained segment whose storage is produced on
// demand by mem. The segment advertises n elements; mem.Span() must return at
// least that many.
func NewManagedSegment[T any](mem Memory[T], n int, origin Origin) *Segment[T] {
	return &Segment[T]{mem: mem, n: n, origin: origin}
}

// Len returns the segment's advertised length in elements.
func (s *Segment[T]) Len() int { return s.n }

// Next returns the segment's successor, or nil for the chain tail.
func (s *Segment[T]) Next() *Segment[T] { return s.next }

// RunningIndex returns the sum of the lengths of all predecessors: the
// element-unit offset of this segment's first element in the logical stream.
func (s *Segment[T]) RunningIndex() int64 { return s.running }

// Index returns the segment's ordinal within its chain.
func (s *Segment[T]) Index() int { return s.index }

// Origin returns the classification of the segment's buffer.
func (s *Segment[T]) Origin() Origin { return s.origin }

// Base returns the stable address of the segment's first element, or nil if
// the segment is not pinned.
func (s *Segment[T]) Base() unsafe.Pointer { return s.base }

// Pinned reports whether the segment exposes a stable base address.
func (s *Segment[T]) Pinned() bool { return s.base != nil }

// Span returns the segment's elements.
func (s *Segment[T]) Span() []T {
	switch {
	case s.buf != nil:
		return s.buf[:s.n]
	case s.mem != nil:
		return s.mem.Span()[:s.n]
	default:
		return nil
	}
}

// Chain appends next as this segment's successor and returns it.
//
// The chain is append-only at the tail: s must not already have a successor,
// and next must be freshly created. Chaining establishes next's running index
// and ordinal.
func (s *Segment[T]) Chain(next *Segment[T]) *Segment[T] {
	debug.Assert(s.next == nil, "segment %d already has a successor", s.index)
	debug.Assert(next.next == nil && next.running == 0 && next.index == 0,
		"segment is already part of a chain")

	next.running = s.running + int64(s.n)
	next.index = s.index + 1
	s.next = next
	return next
}

// DetachNext splits the chain by severing this segment's forward link,
// returning the former successor (the head of the detached tail) for
// disposal.
func (s *Segment[T]) DetachNext() *Segment[T] {
	t := s.next
	s.next = nil
	return t
}

// Format implements [fmt.Formatter].
func (s *Segment[T]) Format(state fmt.State, v rune) {
	_, _ = fmt.Fprintf(state, "#%d@%d[%d]", s.index, s.running, s.n)
}
