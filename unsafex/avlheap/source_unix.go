//go:build unix

package avlheap

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MmapSource obtains memory directly from the kernel with anonymous private
// mappings, bypassing the Go heap entirely. Regions are page-aligned and
// page-granular.
type MmapSource struct{}

func (MmapSource) Alloc(size uintptr) (unsafe.Pointer, uintptr) {
	page := uintptr(os.Getpagesize())
	size = (size + page - 1) &^ (page - 1)
	data, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, 0
	}
	return unsafe.Pointer(unsafe.SliceData(data)), size
}

func (MmapSource) Free(ptr unsafe.Pointer, size uintptr) {
	_ = unix.Munmap(unsafe.Slice((*byte)(ptr), size))
}

func (MmapSource) Alignment() uintptr {
	return uintptr(os.Getpagesize())
}
