// Package seq provides a zero-copy sequence value type over chained element
// buffers.
//
// A [Sequence] denotes a logically contiguous range of elements backed by a
// plain slice, a single [Segment], or a span of several chained segments. It
// is a value: copying is free, and no sequence owns the storage it points
// into. The arena that produced a sequence must outlive every use of it.
package seq

import (
	"fmt"

	"github.com/flier/seqarena/internal/debug"
	"github.com/flier/seqarena/pkg/opt"
	"github.com/flier/seqarena/pkg/zc"
)

// Sequence is a contiguous logical range of elements over one or more
// backing buffers.
//
// A sequence takes one of four shapes, distinguished by which fields are
// present:
//
//   - default/empty: no backing object, both packed integers zero;
//   - slice-backed: arr is set, a single contiguous range within it;
//   - segment-backed: head is set and tail is not, a single contiguous range
//     within one segment;
//   - spanning: head and tail are both set, a range that starts inside head
//     and ends inside tail, crossing every segment between them.
//
// The packed pair carries the start offset within the starting buffer and,
// for single-backed shapes, the element length; for the spanning shape, the
// offset within tail at which the range ends. A sequence is empty exactly
// when it has no tail and the packed value is zero.
type Sequence[T any] struct {
	head *Segment[T]
	tail *Segment[T]
	arr  []T
	pair zc.View
}

// FromSlice creates a sequence over all of s.
func FromSlice[T any](s []T) Sequence[T] {
	if len(s) == 0 {
		return Sequence[T]{}
	}
	return Sequence[T]{arr: s, pair: zc.Raw(0, len(s))}
}

// SliceOf creates a sequence over s[off : off+n].
//
// Unlike slicing s first, the sequence remembers the whole array as its
// backing object, so positions and references taken from it compare equal to
// those of other sequences over the same array.
func SliceOf[T any](s []T, off, n int) Sequence[T] {
	if off < 0 || n < 0 || off+n > len(s) {
		panic(ErrIndexOutOfRange)
	}
	return Sequence[T]{arr: s, pair: zc.Raw(off, n)}
}

// Single creates a sequence over n elements of one segment starting at off.
func Single[T any](seg *Segment[T], off, n int) Sequence[T] {
	debug.Assert(off >= 0 && n >= 0 && off+n <= seg.Len(),
		"range [%d:%d] outside segment %v", off, off+n, seg)
	return Sequence[T]{head: seg, pair: zc.Raw(off, n)}
}

// Spanning creates a sequence that starts at startOff inside start and ends
// at endOff inside end. end must be reachable from start by following the
// chain. A range that starts and ends in the same segment collapses to the
// single-segment shape.
func Spanning[T any](start *Segment[T], startOff int, end *Segment[T], endOff int) Sequence[T] {
	if start == end {
		return Single(start, startOff, endOff-startOff)
	}
	debug.Assert(startOff >= 0 && startOff <= start.Len(), "start offset %d outside %v", startOff, start)
	debug.Assert(endOff >= 0 && endOff <= end.Len(), "end offset %d outside %v", endOff, end)
	debug.Assert(end.RunningIndex() > start.RunningIndex(),
		"end %v does not follow start %v", end, start)
	return Sequence[T]{head: start, tail: end, pair: zc.Raw(startOff, endOff)}
}

// IsEmpty reports whether the sequence contains no elements.
func (s Sequence[T]) IsEmpty() bool { return s.tail == nil && s.pair.Value() == 0 }

// IsSingleSegment reports whether all elements live in one contiguous buffer.
func (s Sequence[T]) IsSingleSegment() bool { return s.tail == nil }

// Len returns the number of elements in the sequence.
func (s Sequence[T]) Len() int64 {
	if s.tail == nil {
		return int64(s.pair.Value())
	}
	return (s.tail.RunningIndex() + int64(s.pair.Value())) -
		(s.head.RunningIndex() + int64(s.pair.Start()))
}

// FirstSpan returns the first contiguous run of elements, or nil for an
// empty sequence.
func (s Sequence[T]) FirstSpan() []T {
	for chunk := range s.Chunks() {
		return chunk.span()
	}
	return nil
}

// span returns the elements of a single-backed sequence.
func (s Sequence[T]) span() []T {
	debug.Assert(s.tail == nil, "span of a spanning sequence")

	off, n := s.pair.Start(), s.pair.Value()
	switch {
	case n == 0:
		return nil
	case s.arr != nil:
		return s.arr[off : off+n]
	default:
		return s.head.Span()[off : off+n]
	}
}

// At returns a reference to the i-th element.
//
// Panics with [ErrIndexOutOfRange] if i is outside the sequence.
func (s Sequence[T]) At(i int64) Ref[T] {
	if i < 0 || i >= s.Len() {
		panic(ErrIndexOutOfRange)
	}

	if s.tail == nil {
		off := s.pair.Start() + int(i)
		if s.arr != nil {
			return Ref[T]{arr: s.arr, off: off}
		}
		return Ref[T]{seg: s.head, off: off}
	}

	seg, off := s.seek(i)
	return Ref[T]{seg: seg, off: off}
}

// CheckedAt is like [Sequence.At], but returns None instead of panicking.
func (s Sequence[T]) CheckedAt(i int64) opt.Option[Ref[T]] {
	if i < 0 || i >= s.Len() {
		return opt.None[Ref[T]]()
	}
	return opt.Some(s.At(i))
}

// Load returns the value of the i-th element.
func (s Sequence[T]) Load(i int64) T { return s.At(i).Load() }

// CheckedLoad is like [Sequence.Load], but returns None instead of
// panicking.
func (s Sequence[T]) CheckedLoad(i int64) opt.Option[T] {
	if i < 0 || i >= s.Len() {
		return opt.None[T]()
	}
	return opt.Some(s.Load(i))
}

// seek locates the segment holding logical index i of a spanning sequence,
// walking forward from the start and skipping empty segments. i must satisfy
// 0 <= i < Len().
func (s Sequence[T]) seek(i int64) (*Segment[T], int) {
	global := s.head.RunningIndex() + int64(s.pair.Start()) + i
	seg := s.head
	for global >= seg.RunningIndex()+int64(seg.Len()) {
		seg = seg.Next()
	}
	return seg, int(global - seg.RunningIndex())
}

// seekEnd locates the segment containing the exclusive end offset i,
// stopping at a segment's end rather than rolling into its successor.
func (s Sequence[T]) seekEnd(i int64) (*Segment[T], int) {
	global := s.head.RunningIndex() + int64(s.pair.Start()) + i
	seg := s.head
	for global > seg.RunningIndex()+int64(seg.Len()) {
		seg = seg.Next()
	}
	return seg, int(global - seg.RunningIndex())
}

// Slice returns the subsequence of length n starting at start.
//
// Slicing within the first backing buffer is O(1) and retains the backing
// shape exactly; otherwise the chain is walked to locate the new start and
// end segments. Panics with [ErrIndexOutOfRange] on out-of-bounds ranges.
func (s Sequence[T]) Slice(start, n int64) Sequence[T] {
	if start < 0 || n < 0 || start+n > s.Len() {
		panic(ErrIndexOutOfRange)
	}

	if s.tail == nil {
		off := s.pair.Start() + int(start)
		if s.arr != nil {
			return Sequence[T]{arr: s.arr, pair: zc.Raw(off, int(n))}
		}
		return Sequence[T]{head: s.head, pair: zc.Raw(off, int(n))}
	}

	if n == 0 {
		seg, off := s.seekEnd(start)
		return Sequence[T]{head: seg, pair: zc.Raw(off, 0)}
	}

	startSeg, startOff := s.seek(start)
	endSeg, endOff := s.seekEnd(start + n)
	return Spanning(startSeg, startOff, endSeg, endOff)
}

// SliceFrom returns the subsequence from start to the end of the sequence.
func (s Sequence[T]) SliceFrom(start int64) Sequence[T] {
	return s.Slice(start, s.Len()-start)
}

// CheckedSlice is like [Sequence.Slice], but reports bad bounds as an error.
func (s Sequence[T]) CheckedSlice(start, n int64) (Sequence[T], error) {
	if start < 0 || n < 0 || start+n > s.Len() {
		return Sequence[T]{}, ErrIndexOutOfRange
	}
	return s.Slice(start, n), nil
}

// Equal reports whether the two sequences denote the same range: the same
// start and end positions after normalization.
func (s Sequence[T]) Equal(t Sequence[T]) bool {
	if s.IsEmpty() && t.IsEmpty() {
		return true
	}
	return s.Start().Equal(t.Start()) && s.End().Equal(t.End())
}

// Format implements [fmt.Formatter].
func (s Sequence[T]) Format(state fmt.State, v rune) {
	switch {
	case s.IsEmpty():
		_, _ = fmt.Fprint(state, "seq[]")
	case s.tail != nil:
		_, _ = fmt.Fprintf(state, "seq[%v+%d .. %v+%d]", s.head, s.pair.Start(), s.tail, s.pair.Value())
	default:
		_, _ = fmt.Fprintf(state, "seq[%d:%d]", s.pair.Start(), s.pair.Start()+s.pair.Value())
	}
}
