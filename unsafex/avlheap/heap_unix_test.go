//go:build unix

package avlheap

import (
	"math/rand"
	"os"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmapSource(t *testing.T) {
	var src MmapSource
	page := uintptr(os.Getpagesize())
	assert.Equal(t, page, src.Alignment())

	ptr, size := src.Alloc(1)
	require.NotNil(t, ptr)
	assert.Equal(t, page, size)
	assert.Zero(t, uintptr(ptr)%page)

	// the mapping must be writable end to end
	data := unsafe.Slice((*byte)(ptr), size)
	for i := range data {
		data[i] = byte(i)
	}
	src.Free(ptr, size)
}

func TestHeapOverMmap(t *testing.T) {
	h, err := New(MmapSource{})
	require.NoError(t, err)

	type allocation struct {
		ptr  unsafe.Pointer
		size uintptr
	}
	r := rand.New(rand.NewSource(7))
	var live []allocation
	for i := 0; i < 2000; i++ {
		ptr, size := h.Alloc(uintptr(r.Intn(2048)) + 1)
		require.NotNil(t, ptr)
		live = append(live, allocation{ptr, size})
	}
	r.Shuffle(len(live), func(i, j int) { live[i], live[j] = live[j], live[i] })
	for _, a := range live {
		h.Free(a.ptr, a.size)
	}
	checkHeap(t, h)
	assert.Zero(t, h.Used())
}
