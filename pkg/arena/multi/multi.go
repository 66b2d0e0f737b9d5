//go:build go1.23

// Package multi provides a registry of typed arenas over a single set of
// options, optionally re-viewing one shared byte arena as many element
// types.
//
// With no sharing flags, every element type gets its own dedicated
// [arena.Arena]. With [arena.BlittableNonPaddedSharing], pointer-free types
// of the same size and alignment share one byte arena. With
// [arena.BlittablePaddedSharing], all pointer-free types share a single byte
// arena, and per-type alignment padding keeps every element of type T at a
// byte offset divisible by sizeof(T). Types that contain pointers always get
// a dedicated arena, whatever the flags say.
package multi

import (
	"reflect"

	"github.com/dolthub/maphash"

	"github.com/flier/seqarena/internal/debug"
	"github.com/flier/seqarena/pkg/arena"
	"github.com/flier/seqarena/pkg/xunsafe/layout"
)

// Options configure a multi-type arena and every typed arena it creates.
type Options struct {
	// Flags control clearing, pinning, and the sharing mode.
	Flags arena.Flags

	// BlockBytes is the block size in bytes for every backing arena. Zero
	// selects the default sizing.
	BlockBytes int

	// Retention is the retention policy for every backing arena.
	Retention arena.Policy
}

// sig is the fingerprintable signature of an element type: what the sharing
// tables key on.
type sig struct {
	size, align int
	ptrFree     bool
}

// Arena is a registry of per-type arenas.
//
// Typed handles are obtained with [Of]; the registry keeps a last-used cache
// slot so repeated access to the same type stays off the map.
type Arena struct {
	opts   Options
	hasher maphash.Hasher[sig]

	byType map[reflect.Type]handle
	bySize map[uint64]*arena.Arena[byte]
	shared *arena.Arena[byte]

	last struct {
		t reflect.Type
		h handle
	}
}

// handle is the untyped face of a *Typed[T] held by the registry.
type handle interface {
	resetHandle() error
	disposeHandle() error
}

// New creates an empty multi-type arena.
func New(opts Options) *Arena {
	return &Arena{
		opts:   opts,
		hasher: maphash.NewHasher[sig](),
		byType: make(map[reflect.Type]handle),
		bySize: make(map[uint64]*arena.Arena[byte]),
	}
}

// Of returns the typed arena for T, creating it on first use.
//
// Fails with [arena.ErrUnsupportedElementType] for zero-sized T and with
// [arena.ErrBlockAllocationFailed] if a backing arena cannot allocate its
// head block.
func Of[T any](m *Arena) (*Typed[T], error) {
	t := reflect.TypeFor[T]()
	if m.last.t == t {
		return m.last.h.(*Typed[T]), nil
	}
	if h, ok := m.byType[t]; ok {
		m.last.t, m.last.h = t, h
		return h.(*Typed[T]), nil
	}

	ty, err := newTyped[T](m)
	if err != nil {
		return nil, err
	}

	m.byType[t] = ty
	m.last.t, m.last.h = t, ty
	return ty, nil
}

func newTyped[T any](m *Arena) (*Typed[T], error) {
	size := layout.Size[T]()
	if size == 0 {
		return nil, arena.ErrUnsupportedElementType
	}

	flags := m.opts.Flags.Normalize(layout.PointerFree[T]())

	// A shared byte block must hold at least one element of every type
	// mapped onto it.
	if flags&(arena.BlittablePaddedSharing|arena.BlittableNonPaddedSharing) != 0 {
		blockBytes := m.opts.BlockBytes
		if blockBytes <= 0 {
			blockBytes = arena.DefaultBlockBytes
		}
		if blockBytes < size {
			return nil, arena.ErrUnsupportedElementType
		}
	}

	switch {
	case flags&arena.BlittablePaddedSharing != 0:
		backing, err := m.sharedArena()
		if err != nil {
			return nil, err
		}
		return &Typed[T]{view: newView[T](backing)}, nil

	case flags&arena.BlittableNonPaddedSharing != 0:
		backing, err := m.sizeArena(sig{size, layout.Align[T](), true})
		if err != nil {
			return nil, err
		}
		return &Typed[T]{view: newView[T](backing)}, nil

	default:
		a, err := arena.New[T](arena.Options[T]{
			Flags:      m.opts.Flags,
			BlockBytes: m.opts.BlockBytes,
			Retention:  m.opts.Retention,
		})
		if err != nil {
			return nil, err
		}
		return &Typed[T]{dedicated: a}, nil
	}
}

// sharedArena returns the one byte arena behind padded sharing.
func (m *Arena) sharedArena() (*arena.Arena[byte], error) {
	if m.shared != nil {
		return m.shared, nil
	}

	a, err := m.newByteArena()
	if err != nil {
		return nil, err
	}
	m.shared = a
	return a, nil
}

// sizeArena returns the byte arena shared by all element types with the
// given signature, keyed by its 64-bit fingerprint.
func (m *Arena) sizeArena(s sig) (*arena.Arena[byte], error) {
	fp := m.hasher.Hash(s)
	if a, ok := m.bySize[fp]; ok {
		return a, nil
	}

	a, err := m.newByteArena()
	if err != nil {
		return nil, err
	}
	m.bySize[fp] = a
	return a, nil
}

func (m *Arena) newByteArena() (*arena.Arena[byte], error) {
	return arena.New[byte](arena.Options[byte]{
		Flags:      m.opts.Flags,
		BlockBytes: m.opts.BlockBytes,
		Retention:  m.opts.Retention,
	})
}

// Reset re-cursors every backing arena and invalidates every mapped view.
func (m *Arena) Reset() error {
	var first error

	for _, h := range m.byType {
		if err := h.resetHandle(); err != nil && first == nil {
			first = err
		}
	}

	if m.shared != nil {
		if err := m.shared.Reset(); err != nil && first == nil {
			first = err
		}
	}
	for _, a := range m.bySize {
		if err := a.Reset(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// Dispose tears down every backing arena. Disposal is best-effort: teardown
// continues past individual failures.
func (m *Arena) Dispose() error {
	var first error

	for _, h := range m.byType {
		if err := h.disposeHandle(); err != nil && first == nil {
			first = err
		}
	}

	if m.shared != nil {
		if err := m.shared.Dispose(); err != nil && first == nil {
			first = err
		}
		m.shared = nil
	}
	for fp, a := range m.bySize {
		if err := a.Dispose(); err != nil && first == nil {
			first = err
		}
		delete(m.bySize, fp)
	}

	debug.Log([]any{"%p", m}, "dispose", "%d typed arenas", len(m.byType))

	m.byType = make(map[reflect.Type]handle)
	m.last.t, m.last.h = nil, nil
	return first
}
