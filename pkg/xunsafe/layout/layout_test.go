package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flier/seqarena/pkg/xunsafe/layout"
)

func TestSizeAndAlign(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, layout.Size[byte]())
	assert.Equal(t, 4, layout.Size[uint32]())
	assert.Equal(t, 16, layout.Size[[4]float32]())
	assert.Equal(t, 0, layout.Size[struct{}]())

	assert.Equal(t, 1, layout.Align[byte]())
	assert.Equal(t, 4, layout.Align[uint32]())
	assert.Equal(t, 8, layout.Align[float64]())
}

func TestPointerFree(t *testing.T) {
	t.Parallel()

	type flat struct {
		A int32
		B [4]uint64
	}

	type withPtr struct {
		A int32
		B *int
	}

	assert.True(t, layout.PointerFree[byte]())
	assert.True(t, layout.PointerFree[[16]float64]())
	assert.True(t, layout.PointerFree[flat]())

	assert.False(t, layout.PointerFree[string]())
	assert.False(t, layout.PointerFree[[]byte]())
	assert.False(t, layout.PointerFree[withPtr]())
	assert.False(t, layout.PointerFree[map[int]int]())
}
