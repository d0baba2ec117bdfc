package avlheap

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/bytedance/gopkg/lang/mcache"
)

// Source supplies backing memory to a Heap. Implementations are called with
// the heap lock released and must be safe for concurrent use.
type Source interface {
	// Alloc returns a region of at least size bytes aligned to Alignment().
	// The returned size may exceed the request. Alloc returns (nil, 0) when
	// no more memory is available.
	Alloc(size uintptr) (unsafe.Pointer, uintptr)

	// Free releases a region previously returned by Alloc. Heap never frees
	// what it draws, but sources compose with other users that do.
	Free(ptr unsafe.Pointer, size uintptr)

	// Alignment reports the alignment of every region the source returns.
	// It must be a constant multiple of the heap Alignment.
	Alignment() uintptr
}

// DefaultGranularity is the request rounding used by NewChunkSource(0).
const DefaultGranularity = 4096

// ChunkSource draws memory from mcache, the process-wide size-classed pool.
// Grant slices are retained internally so the garbage collector keeps the
// backing arrays alive while the heap stores raw pointers into them.
type ChunkSource struct {
	granularity uintptr

	mu     sync.Mutex
	grants map[unsafe.Pointer][]byte
}

// NewChunkSource creates a ChunkSource rounding every request up to a
// multiple of granularity. A granularity of 0 selects DefaultGranularity.
func NewChunkSource(granularity uintptr) (*ChunkSource, error) {
	if granularity == 0 {
		granularity = DefaultGranularity
	}
	if granularity%Alignment != 0 {
		return nil, fmt.Errorf("avlheap: granularity must be a multiple of %d, got %d", Alignment, granularity)
	}
	return &ChunkSource{
		granularity: granularity,
		grants:      make(map[unsafe.Pointer][]byte),
	}, nil
}

func (s *ChunkSource) Alloc(size uintptr) (unsafe.Pointer, uintptr) {
	size = (size + s.granularity - 1) / s.granularity * s.granularity
	// Alignment bytes of slack pay for realigning mcache's 8-aligned buffers
	buf := mcache.Malloc(int(size + Alignment))
	if buf == nil {
		return nil, 0
	}
	base := unsafe.Pointer(unsafe.SliceData(buf))
	p := unsafe.Add(base, (Alignment-uintptr(base)&alignMask)&alignMask)

	s.mu.Lock()
	s.grants[p] = buf
	s.mu.Unlock()
	return p, size
}

func (s *ChunkSource) Free(ptr unsafe.Pointer, size uintptr) {
	s.mu.Lock()
	buf, ok := s.grants[ptr]
	delete(s.grants, ptr)
	s.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("avlheap: free of unknown grant %p", ptr))
	}
	mcache.Free(buf)
}

func (s *ChunkSource) Alignment() uintptr {
	return Alignment
}
