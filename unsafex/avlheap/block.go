package avlheap

import (
	"unsafe"

	"github.com/cloudwego/memkit/container/avltree"
)

const (
	// Alignment is the alignment of every pointer returned by Alloc and of
	// every free region's base and size.
	Alignment = 16

	alignMask = Alignment - 1
	halfMask  = 1<<halfShift - 1
)

// MinSize is the size of the in-band free-region header and therefore the
// smallest region the heap tracks. Requests below it are rounded up.
const MinSize = unsafe.Sizeof(block{})

var _ = [1]byte{}[MinSize%Alignment] // header must be Alignment-granular

// block is the header written into the first bytes of every free region.
// It holds the two intrusive tree nodes linking the region into the size
// index and the address index. The region's full length is split across the
// two node payloads; while the region is allocated these bytes belong to
// the client and the header does not survive.
type block struct {
	sizeNode avltree.Node[half]
	addrNode avltree.Node[half]
}

// newBlock reconstructs a free-region header at p covering size bytes.
// Any previous header state at p is discarded.
func newBlock(p unsafe.Pointer, size uintptr) *block {
	b := (*block)(p)
	*b = block{}
	b.sizeNode.Value = half(size & halfMask)
	b.addrNode.Value = half(size >> halfShift)
	return b
}

func (b *block) size() uintptr {
	return uintptr(b.addrNode.Value)<<halfShift | uintptr(b.sizeNode.Value)
}

func (b *block) base() unsafe.Pointer {
	return unsafe.Pointer(b)
}

// end returns the address one past the region, as an integer to avoid
// materializing a pointer outside the region.
func (b *block) end() uintptr {
	return uintptr(unsafe.Pointer(b)) + b.size()
}

func blockOfSize(n *avltree.Node[half]) *block {
	return (*block)(unsafe.Pointer(n))
}

func blockOfAddr(n *avltree.Node[half]) *block {
	return (*block)(unsafe.Add(unsafe.Pointer(n), -int(unsafe.Offsetof(block{}.addrNode))))
}
