//go:build go1.23

package seq

import (
	"iter"

	"github.com/flier/seqarena/pkg/opt"
)

// List is a read-only indexed adapter over a sequence.
//
// It exists for callers that want list semantics (length plus positional
// access) without caring how the elements are segmented underneath.
type List[T any] struct {
	s Sequence[T]
}

// ListOf adapts a sequence into a read-only list.
func ListOf[T any](s Sequence[T]) List[T] { return List[T]{s} }

// Len returns the number of elements.
func (l List[T]) Len() int64 { return l.s.Len() }

// At returns the i-th element. Panics with [ErrIndexOutOfRange] if i is
// outside the list.
func (l List[T]) At(i int64) T { return l.s.Load(i) }

// CheckedAt is like [List.At], but returns None instead of panicking.
func (l List[T]) CheckedAt(i int64) opt.Option[T] { return l.s.CheckedLoad(i) }

// Values returns an iterator over the elements in order.
func (l List[T]) Values() iter.Seq[T] { return l.s.Values() }

// Sequence returns the underlying sequence.
func (l List[T]) Sequence() Sequence[T] { return l.s }
