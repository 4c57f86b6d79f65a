// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import "unsafe"

const (
	quantum     = 8   // size-class granularity
	minPayload  = 16  // smallest payload a block may carry
	maxBinned   = 512 // largest payload served by an exact-size bin
	binCount    = 64  // 2 + (maxBinned-minPayload)/quantum
	overflowBin = binCount - 1
)

// block is the header prefixing every unit of managed memory. The first
// region (through nextPhys) is valid for both used and free blocks;
// prevFree and nextFree overlay the start of the payload and are
// meaningful only while the block sits on a bin's free list.
type block struct {
	size     int
	inUse    bool
	prevPhys *block
	nextPhys *block
	prevFree *block
	nextFree *block
}

// hdrSize is the "public" header size used for all address arithmetic:
// the offset of the free-list-only fields, not unsafe.Sizeof(block{}).
// A used block costs only the fields up through nextPhys; the free-list
// links reuse payload bytes at no cost while the block is free.
const hdrSize = int(unsafe.Offsetof(block{}.prevFree))

// minBlockBytes is the smallest total size (header + payload) a block
// may occupy; a split that would leave a smaller residual is refused.
const minBlockBytes = hdrSize + minPayload

// roundUp maps a requested payload size to the size actually carried by
// a block: minPayload for anything at or below it, otherwise n rounded
// up to the next multiple of the size quantum.
func roundUp(n int) int {
	if n <= minPayload {
		return minPayload
	}
	return (n + quantum - 1) &^ (quantum - 1)
}

// sizeToBin maps a (already rounded) payload size to its bin index,
// clamping anything above maxBinned to the overflow bin.
func sizeToBin(size int) int {
	if size > maxBinned {
		return overflowBin
	}
	return (size - minPayload) / quantum
}

func blockToData(b *block) unsafe.Pointer {
	return unsafe.Pointer(uintptr(unsafe.Pointer(b)) + uintptr(hdrSize))
}

func dataToBlock(p unsafe.Pointer) *block {
	return (*block)(unsafe.Pointer(uintptr(p) - uintptr(hdrSize)))
}

// blockBytes is the total size a block carrying the given payload
// occupies, header included.
func blockBytes(payload int) int {
	return hdrSize + payload
}
