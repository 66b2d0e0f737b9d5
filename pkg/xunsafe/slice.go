//go:build go1.23

package xunsafe

import "unsafe"

// ReinterpretSlice re-views the storage behind s as n values of type To.
//
// The first element of s must be aligned for To, and the storage must span at
// least n*sizeof(To) bytes. The returned slice aliases s; it must not outlive
// the allocation backing s.
func ReinterpretSlice[To, From any](s []From, n int) []To {
	if n == 0 {
		return nil
	}
	return unsafe.Slice(Cast[To](unsafe.SliceData(s)), n)
}

// SliceBase returns the address of the first element of s, or nil for a nil
// slice. For an empty non-nil slice the result is a non-nil address that
// must not be dereferenced.
func SliceBase[S ~[]E, E any](s S) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(s))
}
