//go:build go1.23

// Package stream provides a byte-stream overlay on a byte sequence.
//
// A [Stream] adapts a [seq.Sequence] of bytes to the io.ReadWriteSeeker
// surface. It reads and writes in place; the stream never extends the
// sequence it was built over.
package stream

import (
	"errors"
	"io"

	"github.com/flier/seqarena/pkg/seq"
)

// ErrNotSupported is reported when a mutating operation is attempted through
// a read-only stream.
var ErrNotSupported = errors.New("stream: not supported")

// Stream is a positioned cursor over a byte sequence.
type Stream struct {
	s        seq.Sequence[byte]
	pos      int64
	readonly bool
}

var _ io.ReadWriteSeeker = (*Stream)(nil)

// New creates a read-write stream over s.
func New(s seq.Sequence[byte]) *Stream { return &Stream{s: s} }

// NewReadOnly creates a stream over s that rejects writes.
func NewReadOnly(s seq.Sequence[byte]) *Stream { return &Stream{s: s, readonly: true} }

// Position returns the cursor's offset from the start of the sequence.
func (st *Stream) Position() int64 { return st.pos }

// Len returns the sequence's length in bytes.
func (st *Stream) Len() int64 { return st.s.Len() }

// Seek moves the cursor per the io.Seeker contract. The cursor may sit
// anywhere in [0, Len()]; seeking outside that range fails.
func (st *Stream) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = st.pos + offset
	case io.SeekEnd:
		pos = st.s.Len() + offset
	default:
		return st.pos, seq.ErrInvalidArgument
	}

	if pos < 0 || pos > st.s.Len() {
		return st.pos, seq.ErrIndexOutOfRange
	}

	st.pos = pos
	return pos, nil
}

// Read copies bytes at the cursor into p, advancing the cursor. Returns
// io.EOF once the cursor reaches the end of the sequence.
func (st *Stream) Read(p []byte) (int, error) {
	rest := st.s.Len() - st.pos
	if rest == 0 {
		return 0, io.EOF
	}

	n := int64(len(p))
	if n > rest {
		n = rest
	}

	st.s.Slice(st.pos, n).TryCopyTo(p[:n])
	st.pos += n
	return int(n), nil
}

// Write copies p over the bytes at the cursor, advancing the cursor. The
// sequence is fixed-size: writing past its end returns io.ErrShortWrite for
// the part that did not fit.
func (st *Stream) Write(p []byte) (int, error) {
	if st.readonly {
		return 0, ErrNotSupported
	}

	rest := st.s.Len() - st.pos
	n := int64(len(p))
	if n > rest {
		n = rest
	}

	st.s.Slice(st.pos, n).CopyFrom(p[:n])
	st.pos += n

	if int(n) < len(p) {
		return int(n), io.ErrShortWrite
	}
	return int(n), nil
}

// Flush implements the flushing half of buffered-writer surfaces; the
// stream writes in place, so there is nothing to do.
func (st *Stream) Flush() error { return nil }

// Trim shrinks the stream's view to the bytes before the cursor, dropping
// the unused tail.
func (st *Stream) Trim() {
	st.s = st.s.Slice(0, st.pos)
}

// Sequence returns the stream's current view.
func (st *Stream) Sequence() seq.Sequence[byte] { return st.s }
