//go:build go1.23

package seq

import "iter"

// Chunks returns an iterator over the sequence's contiguous pieces, each a
// single-buffer sequence with its backing object preserved.
//
// Empty segments are skipped transparently, so every yielded chunk is
// non-empty. The iterator is finite and may be restarted by ranging over it
// again.
func (s Sequence[T]) Chunks() iter.Seq[Sequence[T]] {
	return func(yield func(Sequence[T]) bool) {
		if s.IsEmpty() {
			return
		}

		if s.tail == nil {
			yield(s)
			return
		}

		seg, off := s.head, s.pair.Start()
		for seg != nil {
			n := seg.Len() - off
			if seg == s.tail {
				n = s.pair.Value() - off
			}

			if n > 0 && !yield(Single(seg, off, n)) {
				return
			}
			if seg == s.tail {
				return
			}

			seg, off = seg.Next(), 0
		}
	}
}

// Spans returns an iterator over the sequence's contiguous element runs, one
// non-empty span per underlying buffer.
func (s Sequence[T]) Spans() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for chunk := range s.Chunks() {
			if !yield(chunk.span()) {
				return
			}
		}
	}
}

// Values returns an iterator over the sequence's elements in logical order.
func (s Sequence[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for chunk := range s.Chunks() {
			for _, v := range chunk.span() {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// All returns an iterator over (index, value) pairs in logical order.
func (s Sequence[T]) All() iter.Seq2[int64, T] {
	return func(yield func(int64, T) bool) {
		var i int64
		for v := range s.Values() {
			if !yield(i, v) {
				return
			}
			i++
		}
	}
}
