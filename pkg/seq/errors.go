package seq

import "errors"

var (
	// ErrInvalidArgument is reported for an argument outside its accepted set,
	// such as an unknown seek origin. Out-of-bounds offsets and lengths are
	// reported as [ErrIndexOutOfRange].
	ErrInvalidArgument = errors.New("seq: invalid argument")

	// ErrIndexOutOfRange is reported when an index, slice, or reference lies
	// outside the bounds of its sequence.
	ErrIndexOutOfRange = errors.New("seq: index out of range")

	// ErrInvalidCast is reported when an untyped sequence is cast to a typed
	// sequence with the wrong element type.
	ErrInvalidCast = errors.New("seq: sequence element type mismatch")

	// ErrUnsupportedMemoryShape is reported when a reference is constructed
	// from an object that is neither a slice, a segment, nor a known memory
	// manager.
	ErrUnsupportedMemoryShape = errors.New("seq: unsupported memory shape")
)
