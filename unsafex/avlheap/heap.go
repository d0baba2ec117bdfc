// Package avlheap implements a growable best-fit memory allocator.
//
// Free regions are indexed by a pair of intrusive AVL trees stored inside
// the free bytes themselves, one keyed by size and one by address, so
// allocation is O(log n) best-fit and every release coalesces with its
// address neighbours in O(log n) with zero external bookkeeping memory.
//
// The heap draws aligned runs from a Source on demand and never returns
// them; see ChunkSource and MmapSource for ready-made sources.
package avlheap

import (
	"fmt"
	"sync"
	"unsafe"
)

// Heap is a dynamic allocator over memory obtained from a Source.
//
// Heap is safe for concurrent use; all mutations serialize through a single
// lock, which is released across calls into the Source.
type Heap struct {
	mu  sync.Locker
	idx freeIndex

	used  uintptr
	total uintptr

	src Source
}

// New creates a Heap drawing memory from src, guarded by a private mutex.
func New(src Source) (*Heap, error) {
	return NewWithLocker(src, new(sync.Mutex))
}

// NewWithLocker is like New but serializes the heap through mu.
// mu is never acquired across a call into src and need not be reentrant.
func NewWithLocker(src Source, mu sync.Locker) (*Heap, error) {
	if src == nil {
		return nil, fmt.Errorf("avlheap: nil source")
	}
	if a := src.Alignment(); a == 0 || a%Alignment != 0 {
		return nil, fmt.Errorf("avlheap: source alignment must be a multiple of %d, got %d", Alignment, a)
	}
	if mu == nil {
		return nil, fmt.Errorf("avlheap: nil locker")
	}
	return &Heap{mu: mu, idx: newFreeIndex(), src: src}, nil
}

// Used returns the number of bytes currently handed out.
func (h *Heap) Used() uintptr {
	return h.used
}

// Total returns the number of bytes ever obtained from the source.
func (h *Heap) Total() uintptr {
	return h.total
}

// Alloc returns an Alignment-aligned region of at least size bytes and the
// region's actual size, which the caller must pass back to Free. The size is
// rounded up to a multiple of Alignment, floored at MinSize, and may be
// larger still when splitting the chosen region would leave a remainder too
// small to track.
//
// Alloc returns (nil, 0) when the source cannot supply more memory.
func (h *Heap) Alloc(size uintptr) (unsafe.Pointer, uintptr) {
	size = alignSize(size)
	var found *block
	for {
		h.mu.Lock()
		found = h.idx.bestFit(size)
		if found != nil {
			break
		}
		h.mu.Unlock()
		// ×16 over-expansion amortizes source calls
		if h.Expand(size<<4) == 0 {
			return nil, 0
		}
	}
	// lock still held
	blockSize := found.size()
	h.idx.erase(found)
	if blockSize-size >= MinSize {
		h.idx.insert(newBlock(unsafe.Add(found.base(), size), blockSize-size))
	} else {
		size = blockSize
	}

	h.used += size
	h.mu.Unlock()
	return found.base(), size
}

// Free returns a region obtained from Alloc. size must be the actual size
// Alloc reported for ptr. Free panics on a nil, undersized or misaligned
// argument; such a call indicates a corrupted caller and the heap cannot
// continue safely.
func (h *Heap) Free(ptr unsafe.Pointer, size uintptr) {
	if ptr == nil || size < MinSize || uintptr(ptr)&alignMask != 0 {
		panic(fmt.Sprintf("avlheap: invalid free: ptr %p, size %#x", ptr, size))
	}
	h.mu.Lock()
	h.insert(newBlock(ptr, size))
	h.used -= size
	h.mu.Unlock()
}

// Realloc always declines in-place reallocation and returns nil.
// Callers grow a region by allocating, copying and freeing.
func (h *Heap) Realloc(ptr unsafe.Pointer, oldSize, newSize uintptr) unsafe.Pointer {
	return nil
}

// Expand obtains at least size bytes from the source and adds them to the
// free set. It returns the number of bytes actually added, 0 on failure.
// The heap lock is not held across the source call.
func (h *Heap) Expand(size uintptr) uintptr {
	ptr, got := h.src.Alloc(size)
	if ptr == nil || got < MinSize {
		return 0
	}
	h.mu.Lock()
	h.insert(newBlock(ptr, got))
	h.total += got
	h.mu.Unlock()
	return got
}

func alignSize(size uintptr) uintptr {
	if size <= MinSize {
		return MinSize
	}
	return (size + alignMask) &^ alignMask
}

// insert links cur into both trees and coalesces it with its address
// neighbours. At most two merges happen per insert. Callers hold the lock.
func (h *Heap) insert(cur *block) {
	h.idx.insert(cur)

	if prev := h.idx.addrPrev(cur); prev != nil {
		if h.merge(prev, cur) {
			cur = prev
		}
	}
	if next := h.idx.addrNext(cur); next != nil {
		h.merge(cur, next)
	}
}

// merge combines base with the immediately following region extra when they
// touch. A base that extends past extra's start means two free regions
// overlap, which only a double free or stray write can produce.
func (h *Heap) merge(base, extra *block) bool {
	end := base.end()
	if end > uintptr(extra.base()) {
		panic(fmt.Sprintf("avlheap: overlapping free regions: %p+%#x and %p+%#x",
			base.base(), base.size(), extra.base(), extra.size()))
	}
	if end < uintptr(extra.base()) {
		return false
	}

	h.idx.erase(base)
	h.idx.erase(extra)
	h.idx.insert(newBlock(base.base(), base.size()+extra.size()))
	return true
}
