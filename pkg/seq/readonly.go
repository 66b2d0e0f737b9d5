package seq

import "github.com/flier/seqarena/pkg/xunsafe"

// ReadOnly is the read-only interop form of a sequence: a pair of positions
// delimiting a range.
//
// It carries no length or shape of its own; everything is derived from the
// two positions, which makes it safe to hand across package boundaries to
// code that must not mutate the range.
type ReadOnly[T any] struct {
	start, end Position[T]
}

// ReadOnly converts the sequence into its read-only position-pair form.
func (s Sequence[T]) ReadOnly() ReadOnly[T] {
	return ReadOnly[T]{s.Start(), s.End()}
}

// Start returns the range's first position.
func (ro ReadOnly[T]) Start() Position[T] { return ro.start }

// End returns the position just past the range's last element.
func (ro ReadOnly[T]) End() Position[T] { return ro.end }

// FromPositions builds a read-only range from a pair of positions.
func FromPositions[T any](start, end Position[T]) ReadOnly[T] {
	return ReadOnly[T]{start.normalize(), end.normalize()}
}

// FromReadOnly reconstructs a sequence from its read-only form.
//
// Reconstruction succeeds when both positions refer into the same chain
// (with the end reachable from the start) or into the same array with
// start <= end; it reports ok=false otherwise. Round-tripping a sequence
// through [Sequence.ReadOnly] and back yields an equal sequence.
func FromReadOnly[T any](ro ReadOnly[T]) (_ Sequence[T], ok bool) {
	start, end := ro.start.normalize(), ro.end.normalize()

	switch {
	case start.IsZero() && end.IsZero():
		return Sequence[T]{}, true

	case start.arr != nil && end.arr != nil:
		if xunsafe.SliceBase(start.arr) != xunsafe.SliceBase(end.arr) ||
			len(start.arr) != len(end.arr) || start.off > end.off {
			return Sequence[T]{}, false
		}
		return SliceOf(start.arr, start.off, end.off-start.off), true

	case start.seg != nil && end.seg != nil:
		if start.seg == end.seg {
			if start.off > end.off {
				return Sequence[T]{}, false
			}
			return Single(start.seg, start.off, end.off-start.off), true
		}

		// The chain is forward-only; the end must lie ahead of the start.
		for seg := start.seg.Next(); seg != nil; seg = seg.Next() {
			if seg == end.seg {
				return Spanning(start.seg, start.off, end.seg, end.off), true
			}
		}
		return Sequence[T]{}, false

	default:
		return Sequence[T]{}, false
	}
}
