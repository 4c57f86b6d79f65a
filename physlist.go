// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

// appendTail attaches b as the new heap tail. Used only by the grow
// path: the new block always lives at the just-acquired break address,
// so it is by definition the highest-address block.
func (a *Allocator) appendTail(b *block) {
	if a.heapTail == nil {
		b.prevPhys, b.nextPhys = nil, nil
		a.heapTail = b
		return
	}
	b.prevPhys = a.heapTail
	b.nextPhys = nil
	a.heapTail.nextPhys = b
	a.heapTail = b
}

// popTail drops the current heap tail from the physical list. Used only
// by the contract path, right before the break is lowered to the
// dropped block's base address.
func (a *Allocator) popTail() {
	t := a.heapTail
	if t.prevPhys == nil {
		a.heapTail = nil
		return
	}
	a.heapTail = t.prevPhys
	a.heapTail.nextPhys = nil
}
