//go:build go1.23

package arena

import (
	"github.com/flier/seqarena/pkg/seq"
)

// Appender builds a growing sequence out of an arena's allocation stream.
//
// It captures the arena's position when created; everything allocated on the
// arena from that point until [Appender.Sequence] is called becomes part of
// the list, so an appender assumes it has the arena to itself between
// appends.
type Appender[T any] struct {
	a     *Arena[T]
	start seq.Position[T]
	n     int64
}

// Appender starts an appendable list at the arena's current position.
func (a *Arena[T]) Appender() *Appender[T] {
	return &Appender[T]{a: a, start: a.Position()}
}

// Append allocates room for values and copies them in.
func (ap *Appender[T]) Append(values ...T) error {
	s, err := ap.a.Allocate(len(values))
	if err != nil {
		return err
	}

	s.CopyFrom(values)
	ap.n += int64(len(values))
	return nil
}

// Len returns the number of elements appended.
func (ap *Appender[T]) Len() int64 { return ap.n }

// Sequence returns the sequence from the appender's starting position to the
// arena's current position.
func (ap *Appender[T]) Sequence() seq.Sequence[T] {
	s, ok := seq.FromReadOnly(seq.FromPositions(ap.start, ap.a.Position()))
	if !ok {
		return seq.Sequence[T]{}
	}
	return s
}

// List returns the appended elements as a read-only list.
func (ap *Appender[T]) List() seq.List[T] { return seq.ListOf(ap.Sequence()) }
