package avlheap

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSource(t *testing.T) {
	_, err := NewChunkSource(Alignment + 1)
	assert.Error(t, err)

	src, err := NewChunkSource(0)
	require.NoError(t, err)
	assert.Equal(t, uintptr(Alignment), src.Alignment())

	ptr, size := src.Alloc(1)
	require.NotNil(t, ptr)
	assert.Equal(t, uintptr(DefaultGranularity), size)
	assert.Zero(t, uintptr(ptr)&alignMask)

	data := unsafe.Slice((*byte)(ptr), size)
	for i := range data {
		data[i] = byte(i)
	}
	src.Free(ptr, size)

	assert.Panics(t, func() { src.Free(ptr, size) })
}

func TestChunkSourceGranularity(t *testing.T) {
	src, err := NewChunkSource(256)
	require.NoError(t, err)

	_, size := src.Alloc(1)
	assert.Equal(t, uintptr(256), size)
	_, size = src.Alloc(257)
	assert.Equal(t, uintptr(512), size)
}
