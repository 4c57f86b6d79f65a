// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

// binInsert pushes b onto the head of the free list for its size. b
// must not already be on a free list.
func (a *Allocator) binInsert(b *block) {
	i := sizeToBin(b.size)
	b.prevFree = nil
	b.nextFree = a.bins[i]
	if b.nextFree != nil {
		b.nextFree.prevFree = b
	}
	a.bins[i] = b
}

// binRemove splices b out of its bin's free list. Bin membership is a
// pure function of b.size, which does not change while b is free, so
// the bin is recomputed rather than carried alongside the block.
func (a *Allocator) binRemove(b *block) {
	i := sizeToBin(b.size)
	switch {
	case b.prevFree == nil && b.nextFree == nil:
		a.bins[i] = nil
	case b.prevFree == nil:
		a.bins[i] = b.nextFree
		b.nextFree.prevFree = nil
	case b.nextFree == nil:
		b.prevFree.nextFree = nil
	default:
		b.prevFree.nextFree = b.nextFree
		b.nextFree.prevFree = b.prevFree
	}
	b.prevFree, b.nextFree = nil, nil
}
