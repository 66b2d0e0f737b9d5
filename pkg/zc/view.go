// Package zc provides helpers for working with zero-copy ranges.
package zc

import (
	"fmt"
	"math"

	"github.com/flier/seqarena/internal/debug"
)

// View packs the two 32-bit integers that describe a zero-copy range into a
// single word.
//
// This is a packed representation of a value with the layout
//
//	struct {
//	  start, value uint32
//	}
//
// For a single-segment range, value is the element length; for a range that
// ends in a different segment than it starts, value is the offset within the
// ending segment. The zero value faithfully represents an empty range.
type View uint64

// Raw creates a View from a start offset and a value.
func Raw(start, value int) View {
	debug.Assert(start >= 0 && value >= 0 && start <= math.MaxUint32 && value <= math.MaxUint32,
		"range does not fit in a zc: [%d:%d]", start, value)
	return View(uint32(start)) | View(uint32(value))<<32
}

// Start returns the start offset of this range within its starting segment.
func (r View) Start() int { return int(uint32(r)) }

// Value returns the packed second field: a length, or an end offset.
func (r View) Value() int { return int(r >> 32) }

// WithStart returns a copy of r with the start offset replaced.
func (r View) WithStart(start int) View { return Raw(start, r.Value()) }

// WithValue returns a copy of r with the second field replaced.
func (r View) WithValue(value int) View { return Raw(r.Start(), value) }

// String implements [fmt.Stringer].
func (r View) String() string {
	return fmt.Sprintf("[%d:%d]", r.Start(), r.Value())
}
