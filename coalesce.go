// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import "unsafe"

// coalesce merges a newly freed block b with any free physical
// neighbors. b is not yet on any bin and its physical neighbors are
// untouched. The returned block is marked free with a recomputed size;
// its free-list links are undefined until binInsert.
func (a *Allocator) coalesce(b *block) *block {
	p, n := b.prevPhys, b.nextPhys
	pFree := p != nil && !p.inUse
	nFree := n != nil && !n.inUse

	switch {
	case pFree && nFree:
		a.binRemove(p)
		a.binRemove(n)
		p.size = p.size + hdrSize + b.size + hdrSize + n.size
		p.nextPhys = n.nextPhys
		if n.nextPhys != nil {
			n.nextPhys.prevPhys = p
		} else {
			a.heapTail = p
		}
		p.inUse = false
		return p
	case pFree:
		a.binRemove(p)
		p.size = p.size + hdrSize + b.size
		p.nextPhys = b.nextPhys
		if b.nextPhys != nil {
			b.nextPhys.prevPhys = p
		} else {
			a.heapTail = p
		}
		p.inUse = false
		return p
	case nFree:
		a.binRemove(n)
		b.size = b.size + hdrSize + n.size
		b.nextPhys = n.nextPhys
		if n.nextPhys != nil {
			n.nextPhys.prevPhys = b
		} else {
			a.heapTail = b
		}
		b.inUse = false
		return b
	default:
		b.inUse = false
		return b
	}
}

// split carves a used block of exactly want payload bytes from the
// front of a free block b (already removed from its bin), leaving a
// free residual on the physical list and reinserted into its bin. The
// caller must already know the residual clears minBlockBytes; split
// does not check.
func (a *Allocator) split(b *block, want int) *block {
	residual := (*block)(unsafe.Pointer(uintptr(unsafe.Pointer(b)) + uintptr(hdrSize+want)))
	residual.size = b.size - want - hdrSize
	residual.inUse = false
	residual.prevPhys = b
	residual.nextPhys = b.nextPhys
	if b.nextPhys != nil {
		b.nextPhys.prevPhys = residual
	} else {
		a.heapTail = residual
	}

	b.size = want
	b.inUse = true
	b.nextPhys = residual

	a.binInsert(residual)
	return b
}
