package seq_test

import (
	"slices"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/seqarena/pkg/seq"
)

func TestReadOnly(t *testing.T) {
	Convey("Given a spanning sequence", t, func() {
		head, tail := chain([]byte("abcd"), []byte("efg"))
		s := seq.Spanning(head, 1, tail, 2)

		Convey("Then it round-trips through the read-only form", func() {
			back, ok := seq.FromReadOnly(s.ReadOnly())

			So(ok, ShouldBeTrue)
			So(back.Equal(s), ShouldBeTrue)
			So(slices.Collect(back.Values()), ShouldResemble, slices.Collect(s.Values()))
		})

		Convey("Then a single-segment slice round-trips too", func() {
			sub := s.Slice(0, 2)
			back, ok := seq.FromReadOnly(sub.ReadOnly())

			So(ok, ShouldBeTrue)
			So(back.Equal(sub), ShouldBeTrue)
		})

		Convey("Then reversed positions are not reconstructible", func() {
			_, ok := seq.FromReadOnly(seq.FromPositions(s.End(), s.Start()))
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given an array-backed sequence", t, func() {
		arr := []byte("hello")
		s := seq.SliceOf(arr, 1, 3)

		Convey("Then it round-trips through the read-only form", func() {
			back, ok := seq.FromReadOnly(s.ReadOnly())

			So(ok, ShouldBeTrue)
			So(back.Equal(s), ShouldBeTrue)
		})

		Convey("Then positions into different arrays are not reconstructible", func() {
			other := seq.FromSlice([]byte("world"))

			_, ok := seq.FromReadOnly(seq.FromPositions(s.Start(), other.End()))
			So(ok, ShouldBeFalse)
		})

		Convey("Then mixing array and segment positions fails", func() {
			head, _ := chain([]byte("xy"))

			_, ok := seq.FromReadOnly(seq.FromPositions(s.Start(), seq.PositionAt(head, 1)))
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a pair of zero positions", t, func() {
		s, ok := seq.FromReadOnly(seq.ReadOnly[byte]{})

		So(ok, ShouldBeTrue)
		So(s.IsEmpty(), ShouldBeTrue)
	})
}
