//go:build amd64 || arm64 || loong64 || mips64 || mips64le || ppc64 || ppc64le || riscv64 || s390x || wasm

package avlheap

// half holds one half of a region size, so a free-region header is exactly
// two tree nodes wide. The other half lives in the sibling node.
type half = uint32

const halfShift = 32
