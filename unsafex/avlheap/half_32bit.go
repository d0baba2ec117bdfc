//go:build 386 || arm || mips || mipsle

package avlheap

// half holds one half of a region size, so a free-region header is exactly
// two tree nodes wide. The other half lives in the sibling node.
type half = uint16

const halfShift = 16
