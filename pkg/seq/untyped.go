package seq

import (
	"fmt"
	"reflect"

	"github.com/flier/seqarena/pkg/zc"
)

// Untyped is a sequence that has forgotten its element type.
//
// It remembers enough to give the type back: [Cast] restores the original
// Sequence[T], and fails with [ErrInvalidCast] for any other element type.
type Untyped struct {
	elem            reflect.Type
	head, tail, arr any
	pair            zc.View
}

// Erase forgets the element type of s.
func Erase[T any](s Sequence[T]) Untyped {
	u := Untyped{elem: reflect.TypeFor[T](), pair: s.pair}
	if s.head != nil {
		u.head = s.head
	}
	if s.tail != nil {
		u.tail = s.tail
	}
	if s.arr != nil {
		u.arr = s.arr
	}
	return u
}

// Elem returns the erased element type, or nil for the zero Untyped.
func (u Untyped) Elem() reflect.Type { return u.elem }

// Cast gives the element type back to an untyped sequence.
//
// The requested type must be exactly the erased one; a mismatch fails with
// [ErrInvalidCast]. The zero Untyped casts to the empty sequence of any
// type.
func Cast[T any](u Untyped) (Sequence[T], error) {
	if u.elem == nil {
		return Sequence[T]{}, nil
	}

	if want := reflect.TypeFor[T](); u.elem != want {
		return Sequence[T]{}, fmt.Errorf("%w: have %v, want %v", ErrInvalidCast, u.elem, want)
	}

	var s Sequence[T]
	s.pair = u.pair
	if u.head != nil {
		s.head = u.head.(*Segment[T])
	}
	if u.tail != nil {
		s.tail = u.tail.(*Segment[T])
	}
	if u.arr != nil {
		s.arr = u.arr.([]T)
	}
	return s, nil
}
