package arena

import "errors"

var (
	// ErrInvalidArgument is reported for negative allocation lengths, and by
	// the built-in allocators for buffer requests of zero or fewer elements.
	ErrInvalidArgument = errors.New("arena: invalid argument")

	// ErrUnsupportedElementType is reported when an arena is constructed over
	// a zero-sized element type.
	ErrUnsupportedElementType = errors.New("arena: unsupported element type")

	// ErrBlockAllocationFailed is reported when the backing source fails or
	// produces an empty buffer.
	ErrBlockAllocationFailed = errors.New("arena: block allocation failed")

	// ErrArenaDisposed is reported on any use of an arena after Dispose.
	ErrArenaDisposed = errors.New("arena: use after dispose")
)
