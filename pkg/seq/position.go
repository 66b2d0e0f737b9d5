package seq

import (
	"fmt"

	"github.com/flier/seqarena/internal/debug"
	"github.com/flier/seqarena/pkg/xunsafe"
)

// Position is an abstract cursor: a point inside (or at the boundary of) a
// backing buffer.
//
// Positions at the end of one segment and at the start of its successor
// denote the same point; comparisons roll the cursor forward across segment
// boundaries (and across empty segments) before testing equality. Rolling is
// forward-only: a chain has no back links, so positions can never be
// normalized backward.
type Position[T any] struct {
	seg *Segment[T]
	arr []T
	off int
}

// PositionAt returns the normalized position off elements into seg.
func PositionAt[T any](seg *Segment[T], off int) Position[T] {
	debug.Assert(off >= 0 && off <= seg.Len(), "offset %d outside segment %v", off, seg)
	return Position[T]{seg: seg, off: off}.normalize()
}

// SlicePosition returns the position off elements into the array s.
func SlicePosition[T any](s []T, off int) Position[T] {
	return Position[T]{arr: s, off: off}
}

// Segment returns the segment the position points into, or nil for
// slice-backed and zero positions.
func (p Position[T]) Segment() *Segment[T] { return p.seg }

// Offset returns the element offset within the position's backing object.
func (p Position[T]) Offset() int { return p.off }

// IsZero reports whether the position refers to no object.
func (p Position[T]) IsZero() bool { return p.seg == nil && p.arr == nil }

// normalize rolls the position forward while it sits at the end of a segment
// that has a successor. Empty segments have length zero, so the same roll
// skips over them.
func (p Position[T]) normalize() Position[T] {
	for p.seg != nil && p.seg.Next() != nil && p.off >= p.seg.Len() {
		p.off -= p.seg.Len()
		p.seg = p.seg.Next()
	}
	return p
}

// Equal reports whether two positions denote the same point after forward
// normalization.
func (p Position[T]) Equal(q Position[T]) bool {
	p, q = p.normalize(), q.normalize()

	if p.seg != q.seg {
		return false
	}
	if p.arr != nil || q.arr != nil {
		if xunsafe.SliceBase(p.arr) != xunsafe.SliceBase(q.arr) || len(p.arr) != len(q.arr) {
			return false
		}
	}
	return p.off == q.off
}

// Compare orders two positions within the same chain (or the same array) by
// (segment ordinal, offset). The result is unspecified for positions into
// unrelated objects.
func (p Position[T]) Compare(q Position[T]) int {
	p, q = p.normalize(), q.normalize()

	pi, qi := 0, 0
	if p.seg != nil {
		pi = p.seg.Index()
	}
	if q.seg != nil {
		qi = q.seg.Index()
	}

	switch {
	case pi != qi:
		if pi < qi {
			return -1
		}
		return 1
	case p.off != q.off:
		if p.off < q.off {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Format implements [fmt.Formatter].
func (p Position[T]) Format(state fmt.State, v rune) {
	switch {
	case p.seg != nil:
		_, _ = fmt.Fprintf(state, "%v+%d", p.seg, p.off)
	case p.arr != nil:
		_, _ = fmt.Fprintf(state, "arr+%d", p.off)
	default:
		_, _ = fmt.Fprintf(state, "pos(nil)")
	}
}
