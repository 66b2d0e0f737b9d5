package zc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flier/seqarena/pkg/zc"
)

func TestView(t *testing.T) {
	t.Parallel()

	var zero zc.View
	assert.Equal(t, 0, zero.Start())
	assert.Equal(t, 0, zero.Value())

	v := zc.Raw(3, 7)
	assert.Equal(t, 3, v.Start())
	assert.Equal(t, 7, v.Value())
	assert.Equal(t, "[3:7]", v.String())

	assert.Equal(t, 5, v.WithStart(5).Start())
	assert.Equal(t, 7, v.WithStart(5).Value())
	assert.Equal(t, 3, v.WithValue(9).Start())
	assert.Equal(t, 9, v.WithValue(9).Value())
}
