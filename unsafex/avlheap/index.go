package avlheap

import (
	"unsafe"

	"github.com/cloudwego/memkit/container/avltree"
)

// freeIndex tracks every free region twice: by size for best-fit queries and
// by address for adjacency lookup during coalescing. Both trees link through
// the nodes embedded in the region's own header, so the index costs no
// memory beyond the regions themselves.
type freeIndex struct {
	bySize *avltree.Tree[half]
	byAddr *avltree.Tree[half]
}

func newFreeIndex() freeIndex {
	return freeIndex{
		bySize: avltree.New(func(a, b *avltree.Node[half]) bool {
			return blockOfSize(a).size() < blockOfSize(b).size()
		}),
		// nodes sit at a fixed offset inside their block, so node address
		// order is region address order
		byAddr: avltree.New(func(a, b *avltree.Node[half]) bool {
			return uintptr(unsafe.Pointer(a)) < uintptr(unsafe.Pointer(b))
		}),
	}
}

func (x *freeIndex) insert(b *block) {
	x.bySize.Insert(&b.sizeNode)
	x.byAddr.Insert(&b.addrNode)
}

func (x *freeIndex) erase(b *block) {
	x.bySize.Erase(&b.sizeNode)
	x.byAddr.Erase(&b.addrNode)
}

// bestFit returns the smallest free region of at least min bytes, or nil.
func (x *freeIndex) bestFit(min uintptr) *block {
	var found *block
	x.bySize.Search(func(n *avltree.Node[half]) int {
		if b := blockOfSize(n); b.size() >= min {
			found = b
			return -1
		}
		return 1
	})
	return found
}

func (x *freeIndex) addrPrev(b *block) *block {
	if n := x.byAddr.Prev(&b.addrNode); n != nil {
		return blockOfAddr(n)
	}
	return nil
}

func (x *freeIndex) addrNext(b *block) *block {
	if n := x.byAddr.Next(&b.addrNode); n != nil {
		return blockOfAddr(n)
	}
	return nil
}
