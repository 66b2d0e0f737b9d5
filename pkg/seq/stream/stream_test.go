//go:build go1.23

package stream_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flier/seqarena/pkg/seq"
	"github.com/flier/seqarena/pkg/seq/stream"
)

// twoBlocks builds a byte sequence spanning two segments.
func twoBlocks(a, b string) seq.Sequence[byte] {
	head := seq.NewSegment([]byte(a), nil, seq.OriginHeap)
	tail := head.Chain(seq.NewSegment([]byte(b), nil, seq.OriginHeap))
	return seq.Spanning(head, 0, tail, tail.Len())
}

func TestStreamRead(t *testing.T) {
	t.Parallel()

	st := stream.New(twoBlocks("hell", "o!"))
	assert.EqualValues(t, 6, st.Len())
	assert.EqualValues(t, 0, st.Position())

	buf := make([]byte, 3)
	n, err := st.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "hel", string(buf))

	// Reads straddle the segment boundary.
	rest, err := io.ReadAll(st)
	require.NoError(t, err)
	assert.Equal(t, "lo!", string(rest))

	_, err = st.Read(buf)
	assert.Equal(t, io.EOF, err)
}

func TestStreamWrite(t *testing.T) {
	t.Parallel()

	st := stream.New(twoBlocks("____", "__"))

	n, err := st.Write([]byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Writes straddle the segment boundary.
	n, err = st.Write([]byte("cdef"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// The sequence is fixed-size; overflow is a short write.
	n, err = st.Write([]byte("x"))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.ErrShortWrite, err)

	out := make([]byte, 6)
	st.Sequence().CopyTo(out)
	assert.Equal(t, "abcdef", string(out))
}

func TestStreamSeek(t *testing.T) {
	t.Parallel()

	st := stream.New(twoBlocks("abcd", "ef"))

	pos, err := st.Seek(4, io.SeekStart)
	require.NoError(t, err)
	assert.EqualValues(t, 4, pos)

	pos, err = st.Seek(-1, io.SeekCurrent)
	require.NoError(t, err)
	assert.EqualValues(t, 3, pos)

	pos, err = st.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	assert.EqualValues(t, 4, pos)

	buf := make([]byte, 2)
	_, err = st.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ef", string(buf))

	_, err = st.Seek(7, io.SeekStart)
	assert.ErrorIs(t, err, seq.ErrIndexOutOfRange)

	_, err = st.Seek(-1, io.SeekStart)
	assert.ErrorIs(t, err, seq.ErrIndexOutOfRange)

	_, err = st.Seek(0, 42)
	assert.ErrorIs(t, err, seq.ErrInvalidArgument)
}

func TestStreamReadOnly(t *testing.T) {
	t.Parallel()

	st := stream.NewReadOnly(twoBlocks("abcd", "ef"))

	_, err := st.Write([]byte("x"))
	assert.ErrorIs(t, err, stream.ErrNotSupported)

	buf := make([]byte, 4)
	_, err = st.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(buf))
}

func TestStreamTrim(t *testing.T) {
	t.Parallel()

	st := stream.New(twoBlocks("abcd", "ef"))

	_, err := st.Seek(3, io.SeekStart)
	require.NoError(t, err)

	st.Trim()
	assert.EqualValues(t, 3, st.Len())
	assert.EqualValues(t, 3, st.Position())

	_, err = st.Read(make([]byte, 1))
	assert.Equal(t, io.EOF, err)

	assert.NoError(t, st.Flush())
}
