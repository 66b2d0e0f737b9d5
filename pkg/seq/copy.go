package seq

// CopyTo copies every element of the sequence into dst.
//
// A single-buffer sequence is copied with one contiguous copy; a spanning
// sequence copies segment by segment in logical order. Panics with
// [ErrIndexOutOfRange] if dst cannot hold the sequence.
func (s Sequence[T]) CopyTo(dst []T) {
	if !s.TryCopyTo(dst) {
		panic(ErrIndexOutOfRange)
	}
}

// TryCopyTo copies the sequence into dst, reporting whether dst was large
// enough. Nothing is copied on failure.
func (s Sequence[T]) TryCopyTo(dst []T) bool {
	if int64(len(dst)) < s.Len() {
		return false
	}

	for chunk := range s.Chunks() {
		dst = dst[copy(dst, chunk.span()):]
	}
	return true
}

// CopyFrom fills the sequence's elements from src, returning the number of
// elements copied: the smaller of len(src) and the sequence length.
func (s Sequence[T]) CopyFrom(src []T) int {
	var n int
	for chunk := range s.Chunks() {
		if len(src) == 0 {
			break
		}
		c := copy(chunk.span(), src)
		src = src[c:]
		n += c
	}
	return n
}
