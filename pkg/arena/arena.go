//go:build go1.23

// Package arena provides lifetime-bound allocation of logically contiguous
// element ranges backed by chained blocks.
//
// An [Arena] hands out [seq.Sequence] values: zero-copy views over one or
// more fixed-size blocks obtained from a backing [Allocator]. Allocation is
// a cursor bump on the fast path; when a request does not fit the current
// block, the arena extends (or re-walks) its block chain and returns a
// sequence spanning every block it touched.
//
// # Lifetimes
//
// Sequences and references are pure views. Reset invalidates every view the
// arena has handed out and re-cursors the chain for reuse; how much capacity
// survives a reset is decided by the arena's retention [Policy]. Dispose
// tears the chain down for good.
//
// # Ownership
//
// An arena is single-owner: it must not be used from two goroutines at once.
// Under the debug build tag the owning goroutine is recorded at construction
// and asserted on every mutating operation. The backing allocator may be shared
// between arenas; blocks themselves are owned exclusively.
package arena

import (
	"fmt"

	"github.com/flier/seqarena/internal/debug"
	"github.com/flier/seqarena/pkg/seq"
	"github.com/flier/seqarena/pkg/xunsafe"
	"github.com/flier/seqarena/pkg/xunsafe/layout"
)

// Arena is a typed arena: a chain of equally-sized blocks of T and a cursor
// over them.
type Arena[T any] struct {
	_ xunsafe.NoCopy

	alloc Allocator[T]

	head    *seq.Segment[T]
	current *seq.Segment[T]
	used    int // elements consumed in the current block

	elemSize   int
	blockElems int
	flags      Flags
	retain     Policy
	lastRetain int64 // bytes
	origin     seq.Origin

	disposed bool
	owner    int64
}

// New creates an arena for elements of type T.
//
// Construction allocates the head block eagerly, so the returned arena has a
// valid position from the start. Fails with [ErrUnsupportedElementType] for
// zero-sized T and with [ErrBlockAllocationFailed] if the head block cannot
// be obtained.
func New[T any](opts Options[T]) (*Arena[T], error) {
	size := layout.Size[T]()
	if size == 0 {
		return nil, ErrUnsupportedElementType
	}

	flags := opts.Flags.Normalize(layout.PointerFree[T]())
	opts.Flags = flags

	a := &Arena[T]{
		alloc:      opts.source(),
		elemSize:   size,
		blockElems: opts.blockElems(size),
		flags:      flags,
		retain:     opts.Retention,
		owner:      debug.Goid(),
	}
	a.origin = originOf(a.alloc)

	head, err := a.newBlock()
	if err != nil {
		return nil, err
	}
	a.head, a.current = head, head

	a.log("new", "%T x %d/block, flags %b", *new(T), a.blockElems, flags)
	return a, nil
}

// check verifies the arena is usable by the calling goroutine.
func (a *Arena[T]) check() error {
	if a.disposed {
		return ErrArenaDisposed
	}
	debug.Assert(a.owner == debug.Goid(), "arena used from goroutine %d, owned by %d",
		debug.Goid(), a.owner)
	return nil
}

// newBlock obtains a fresh, unchained block from the backing source.
func (a *Arena[T]) newBlock() (*seq.Segment[T], error) {
	buf, err := a.alloc.Alloc(a.blockElems)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBlockAllocationFailed, err)
	}
	if len(buf) == 0 {
		a.alloc.Free(buf)
		return nil, ErrBlockAllocationFailed
	}

	return seq.NewSegment(buf, a.alloc.Base(buf), a.origin), nil
}

// advance moves the cursor to the next block, reusing a retained successor
// when one exists and requesting a new block otherwise.
//
// On failure the cursor is left where it was and the unchained block, if
// any, has already been released; the chain stays valid.
func (a *Arena[T]) advance() error {
	if next := a.current.Next(); next != nil {
		a.current = next
		a.used = 0
		return nil
	}

	seg, err := a.newBlock()
	if err != nil {
		return err
	}

	a.current.Chain(seg)
	a.current = seg
	a.used = 0
	a.log("grow", "%v", seg)
	return nil
}

// Allocate returns a sequence covering n contiguously-indexed fresh
// elements; the range may span multiple blocks.
//
// A zero-length allocation returns an empty sequence but still advances past
// a fully-filled current block. Fails with [ErrInvalidArgument] for n < 0
// and with [ErrBlockAllocationFailed] if the chain cannot be extended.
func (a *Arena[T]) Allocate(n int) (seq.Sequence[T], error) {
	if err := a.check(); err != nil {
		return seq.Sequence[T]{}, err
	}
	if n < 0 {
		return seq.Sequence[T]{}, ErrInvalidArgument
	}

	if r := a.current.Len() - a.used; n > 0 && n <= r {
		s := seq.Single(a.current, a.used, n)
		a.used += n
		a.log("alloc", "%d @ %v", n, s)
		return s, nil
	}

	return a.allocateSlow(n)
}

func (a *Arena[T]) allocateSlow(n int) (seq.Sequence[T], error) {
	if a.used == a.current.Len() {
		if err := a.advance(); err != nil {
			return seq.Sequence[T]{}, err
		}
	}

	if n == 0 {
		return seq.Single(a.current, a.used, 0), nil
	}

	start, startOff := a.current, a.used
	for n > 0 {
		r := a.current.Len() - a.used
		if n < r {
			a.used += n
			break
		}

		// An allocation that exactly fills the block advances immediately,
		// so its end lands at the start of the next block.
		n -= r
		a.used = a.current.Len()
		if err := a.advance(); err != nil {
			return seq.Sequence[T]{}, err
		}
	}

	s := seq.Spanning(start, startOff, a.current, a.used)
	a.log("alloc", "%v", s)
	return s, nil
}

// AllocateSingle returns a reference to one fresh element.
func (a *Arena[T]) AllocateSingle() (seq.Ref[T], error) {
	s, err := a.Allocate(1)
	if err != nil {
		return seq.Ref[T]{}, err
	}
	return s.At(0), nil
}

// SkipToNextPage forces the cursor to the start of the next block.
//
// If the cursor already sits at offset zero of its block, nothing happens.
// Otherwise the remainder of the current block is consumed and the cursor
// advances, extending the chain if needed.
func (a *Arena[T]) SkipToNextPage() error {
	if err := a.check(); err != nil {
		return err
	}
	if a.used == 0 {
		return nil
	}

	a.used = a.current.Len()
	return a.advance()
}

// Reserve extends the chain until n elements can be allocated without a trip
// to the backing source.
func (a *Arena[T]) Reserve(n int) error {
	if err := a.check(); err != nil {
		return err
	}

	free := a.current.Len() - a.used
	tail := a.current
	for tail.Next() != nil {
		tail = tail.Next()
		free += tail.Len()
	}

	for free < n {
		seg, err := a.newBlock()
		if err != nil {
			return err
		}
		tail = tail.Chain(seg)
		free += seg.Len()
	}
	return nil
}

// Allocated returns the number of elements handed out since the last reset.
func (a *Arena[T]) Allocated() int64 {
	if a.current == nil {
		return 0
	}
	return a.current.RunningIndex() + int64(a.used)
}

// AllocatedBytes returns [Arena.Allocated] scaled to bytes.
func (a *Arena[T]) AllocatedBytes() int64 { return a.Allocated() * int64(a.elemSize) }

// Capacity returns the total number of elements across all current blocks.
func (a *Arena[T]) Capacity() int64 {
	var n int64
	for seg := a.head; seg != nil; seg = seg.Next() {
		n += int64(seg.Len())
	}
	return n
}

// CapacityBytes returns [Arena.Capacity] scaled to bytes.
func (a *Arena[T]) CapacityBytes() int64 { return a.Capacity() * int64(a.elemSize) }

// Position returns the position immediately past the last allocated element.
func (a *Arena[T]) Position() seq.Position[T] {
	if a.current == nil {
		return seq.Position[T]{}
	}
	return seq.PositionAt(a.current, a.used)
}

// CurrentSegment returns the block under the cursor.
func (a *Arena[T]) CurrentSegment() *seq.Segment[T] { return a.current }

// CurrentOffset returns the number of elements consumed in the current
// block.
func (a *Arena[T]) CurrentOffset() int { return a.used }

// Remaining returns the number of elements left in the current block.
func (a *Arena[T]) Remaining() int { return a.current.Len() - a.used }

// Reset invalidates every sequence and reference the arena has handed out
// and makes its capacity available for reuse.
//
// If the arena clears at reset, the used portion of every block is zeroed
// first. The retention policy is then consulted with the bytes used since
// the previous reset, and tail blocks beyond the new target are released.
// The head block always survives.
func (a *Arena[T]) Reset() error {
	if err := a.check(); err != nil {
		return err
	}

	usedBytes := a.AllocatedBytes()

	if a.flags&ClearAtReset != 0 {
		for seg := a.head; seg != nil; seg = seg.Next() {
			n := seg.Len()
			if seg == a.current {
				n = a.used
			}
			a.alloc.Clear(seg.Span(), n)
			if seg == a.current {
				break
			}
		}
	}

	a.current = a.head
	a.used = 0

	policy := a.retain
	if policy == nil {
		policy = RetainDefault
	}
	a.lastRetain = policy(a.lastRetain, usedBytes)
	a.trim(a.lastRetain)

	a.log("reset", "used %d B, retain %d B", usedBytes, a.lastRetain)
	return nil
}

// trim releases tail blocks once the cumulative chain capacity exceeds the
// retention target. The head block is never trimmed.
func (a *Arena[T]) trim(target int64) {
	seg := a.head
	cum := int64(seg.Len()) * int64(a.elemSize)
	for seg.Next() != nil && cum < target {
		seg = seg.Next()
		cum += int64(seg.Len()) * int64(a.elemSize)
	}

	rest := seg.DetachNext()
	for rest != nil {
		next := rest.DetachNext()
		a.alloc.Free(rest.Span())
		rest = next
	}
}

// Dispose tears down the entire chain and releases its backing buffers.
//
// If the arena clears at dispose, every block is zeroed first. Releasing is
// best-effort; afterwards every operation fails with [ErrArenaDisposed].
func (a *Arena[T]) Dispose() error {
	if err := a.check(); err != nil {
		return err
	}

	if a.flags&ClearAtDispose != 0 {
		for seg := a.head; seg != nil; seg = seg.Next() {
			a.alloc.Clear(seg.Span(), seg.Len())
		}
	}

	for seg := a.head; seg != nil; {
		next := seg.DetachNext()
		a.alloc.Free(seg.Span())
		seg = next
	}

	a.head, a.current = nil, nil
	a.used = 0
	a.disposed = true

	debug.Log([]any{"%p", a}, "dispose", "")
	return nil
}

func (a *Arena[T]) log(op, format string, args ...any) {
	debug.Log([]any{"%p #%d+%d", a, a.current.Index(), a.used}, op, format, args...)
}
