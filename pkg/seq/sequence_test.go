//go:build go1.23

package seq_test

import (
	"slices"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/seqarena/pkg/seq"
)

// chain builds a segment chain out of the given spans and returns its head
// and tail.
func chain[T any](spans ...[]T) (head, tail *seq.Segment[T]) {
	for _, sp := range spans {
		s := seq.NewSegment(sp, nil, seq.OriginHeap)
		if head == nil {
			head, tail = s, s
		} else {
			tail = tail.Chain(s)
		}
	}
	return
}

func TestSequence(t *testing.T) {
	Convey("Given a sequence over the chain [a b c d][e f g]", t, func() {
		head, tail := chain([]byte("abcd"), []byte("efg"))
		s := seq.Spanning(head, 0, tail, 3)

		So(s.Len(), ShouldEqual, 7)
		So(s.IsEmpty(), ShouldBeFalse)
		So(s.IsSingleSegment(), ShouldBeFalse)

		Convey("Then elements are indexable across the boundary", func() {
			So(s.Load(0), ShouldEqual, byte('a'))
			So(s.Load(3), ShouldEqual, byte('d'))
			So(s.Load(4), ShouldEqual, byte('e'))
			So(s.Load(6), ShouldEqual, byte('g'))

			So(s.CheckedLoad(7).IsNone(), ShouldBeTrue)
			So(s.CheckedLoad(-1).IsNone(), ShouldBeTrue)
			So(func() { s.Load(7) }, ShouldPanicWith, seq.ErrIndexOutOfRange)
		})

		Convey("Then iteration yields the elements in order", func() {
			So(slices.Collect(s.Values()), ShouldResemble, []byte("abcdefg"))

			var spans [][]byte
			for sp := range s.Spans() {
				spans = append(spans, sp)
			}
			So(spans, ShouldResemble, [][]byte{[]byte("abcd"), []byte("efg")})

			var chunks []int64
			for c := range s.Chunks() {
				chunks = append(chunks, c.Len())
			}
			So(chunks, ShouldResemble, []int64{4, 3})
		})

		Convey("Then every iterator view agrees on the element order", func() {
			byValue := slices.Collect(s.Values())

			var bySpan []byte
			for sp := range s.Spans() {
				bySpan = append(bySpan, sp...)
			}

			var byChunk []byte
			for c := range s.Chunks() {
				for v := range c.Values() {
					byChunk = append(byChunk, v)
				}
			}

			So(bySpan, ShouldResemble, byValue)
			So(byChunk, ShouldResemble, byValue)

			var byIndex []byte
			for i, v := range s.All() {
				So(v, ShouldEqual, byValue[i])
				byIndex = append(byIndex, v)
			}
			So(byIndex, ShouldResemble, byValue)
		})

		Convey("When slicing 2..6", func() {
			sub := s.Slice(2, 4)

			So(sub.Len(), ShouldEqual, 4)
			So(slices.Collect(sub.Values()), ShouldResemble, []byte("cdef"))

			Convey("Then the first span stops at the segment boundary", func() {
				So(sub.FirstSpan(), ShouldResemble, []byte("cd"))
			})
		})

		Convey("When slicing within the first segment", func() {
			sub := s.Slice(1, 2)

			So(sub.IsSingleSegment(), ShouldBeTrue)
			So(slices.Collect(sub.Values()), ShouldResemble, []byte("bc"))
			So(sub.FirstSpan(), ShouldResemble, []byte("bc"))
		})

		Convey("When slicing entirely inside the second segment", func() {
			sub := s.Slice(4, 3)

			So(sub.IsSingleSegment(), ShouldBeTrue)
			So(slices.Collect(sub.Values()), ShouldResemble, []byte("efg"))
		})

		Convey("When slicing to zero length", func() {
			So(s.Slice(3, 0).IsEmpty(), ShouldBeTrue)
			So(s.Slice(7, 0).IsEmpty(), ShouldBeTrue)
			So(s.SliceFrom(7).IsEmpty(), ShouldBeTrue)
		})

		Convey("Then bad slices are rejected", func() {
			So(func() { s.Slice(-1, 2) }, ShouldPanicWith, seq.ErrIndexOutOfRange)
			So(func() { s.Slice(0, 8) }, ShouldPanicWith, seq.ErrIndexOutOfRange)
			So(func() { s.Slice(6, 2) }, ShouldPanicWith, seq.ErrIndexOutOfRange)

			_, err := s.CheckedSlice(6, 2)
			So(err, ShouldEqual, seq.ErrIndexOutOfRange)
		})

		Convey("Then adjacent slices share a position", func() {
			a, b := s.Slice(0, 4), s.Slice(4, 3)

			So(a.End().Equal(b.Start()), ShouldBeTrue)
			So(s.GetPosition(4).Equal(seq.PositionAt(tail, 0)), ShouldBeTrue)
		})

		Convey("Then a slice of the whole range equals the range", func() {
			So(s.Slice(0, 7).Equal(s), ShouldBeTrue)
			So(s.Slice(1, 5).Equal(s), ShouldBeFalse)
		})

		Convey("When copying out", func() {
			dst := make([]byte, 7)
			s.CopyTo(dst)
			So(dst, ShouldResemble, []byte("abcdefg"))

			So(s.TryCopyTo(make([]byte, 3)), ShouldBeFalse)
			So(func() { s.CopyTo(make([]byte, 3)) }, ShouldPanicWith, seq.ErrIndexOutOfRange)
		})

		Convey("When copying in", func() {
			n := s.Slice(2, 4).CopyFrom([]byte("WXYZ"))

			So(n, ShouldEqual, 4)
			So(slices.Collect(s.Values()), ShouldResemble, []byte("abWXYZg"))
		})
	})

	Convey("Given a chain with an empty segment in the middle", t, func() {
		head, tail := chain([]byte("ab"), []byte{}, []byte("cd"))
		s := seq.Spanning(head, 0, tail, 2)

		So(s.Len(), ShouldEqual, 4)

		Convey("Then iteration skips the empty segment", func() {
			So(slices.Collect(s.Values()), ShouldResemble, []byte("abcd"))

			var n int
			for range s.Chunks() {
				n++
			}
			So(n, ShouldEqual, 2)
		})

		Convey("Then positions roll forward across it", func() {
			So(s.GetPosition(2).Equal(seq.PositionAt(tail, 0)), ShouldBeTrue)
			So(seq.PositionAt(head, 2).Equal(seq.PositionAt(tail, 0)), ShouldBeTrue)
		})

		Convey("Then indexing lands past it", func() {
			So(s.Load(2), ShouldEqual, byte('c'))
			So(s.At(3).Load(), ShouldEqual, byte('d'))
		})
	})

	Convey("Given an array-backed sequence", t, func() {
		arr := []int{10, 20, 30, 40, 50}
		s := seq.FromSlice(arr)

		So(s.Len(), ShouldEqual, 5)
		So(s.IsSingleSegment(), ShouldBeTrue)
		So(s.FirstSpan(), ShouldResemble, arr)

		Convey("Then slicing stays array-backed", func() {
			sub := s.Slice(1, 3)

			So(sub.IsSingleSegment(), ShouldBeTrue)
			So(slices.Collect(sub.Values()), ShouldResemble, []int{20, 30, 40})

			Convey("And positions over the same array compare equal", func() {
				So(sub.End().Equal(s.GetPosition(4)), ShouldBeTrue)
				So(sub.Start().Equal(seq.SlicePosition(arr, 1)), ShouldBeTrue)
			})
		})

		Convey("Then SliceOf remembers the whole array", func() {
			sub := seq.SliceOf(arr, 2, 2)

			So(sub.Len(), ShouldEqual, 2)
			So(sub.Start().Equal(s.GetPosition(2)), ShouldBeTrue)
			So(func() { seq.SliceOf(arr, 4, 2) }, ShouldPanicWith, seq.ErrIndexOutOfRange)
		})

		Convey("Then stores are visible through the array", func() {
			s.At(2).Store(99)
			So(arr[2], ShouldEqual, 99)
		})
	})

	Convey("Given an empty sequence", t, func() {
		var s seq.Sequence[int]

		So(s.IsEmpty(), ShouldBeTrue)
		So(s.Len(), ShouldEqual, 0)
		So(s.FirstSpan(), ShouldBeNil)
		So(slices.Collect(s.Values()), ShouldBeNil)
		So(func() { s.At(0) }, ShouldPanicWith, seq.ErrIndexOutOfRange)
		So(s.Slice(0, 0).IsEmpty(), ShouldBeTrue)
		So(s.Equal(seq.FromSlice([]int(nil))), ShouldBeTrue)
	})
}

func TestPositionOrder(t *testing.T) {
	Convey("Given positions along a chain", t, func() {
		head, tail := chain([]int{1, 2, 3}, []int{4, 5})

		a := seq.PositionAt(head, 1)
		b := seq.PositionAt(head, 3) // rolls to tail+0
		c := seq.PositionAt(tail, 1)

		So(a.Compare(b), ShouldBeLessThan, 0)
		So(b.Compare(c), ShouldBeLessThan, 0)
		So(c.Compare(a), ShouldBeGreaterThan, 0)
		So(b.Compare(seq.PositionAt(tail, 0)), ShouldEqual, 0)
		So(b.Segment(), ShouldNotBeNil)
	})
}
