// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package malloc implements a user-space general-purpose allocator that
// obtains address space by moving a simulated program break and
// subdivides it into variably sized blocks, indexed by a physical,
// address-ordered doubly linked list and a family of size-segregated
// free lists.
package malloc

import (
	"fmt"
	"os"
	"reflect"
	"unsafe"
)

const trace = false

var (
	osPageSize = os.Getpagesize()
	osPageMask = osPageSize - 1
)

// Allocator allocates and frees memory by growing and shrinking one
// contiguous region of simulated break address space. Its zero value is
// ready for use.
type Allocator struct {
	brk      arena
	heapTail *block
	bins     [binCount]*block
	allocs   int // # of live allocations
	bytes    int // bytes asked from the break adapter
}

// Allocate returns a slice of at least size writable bytes, aligned to
// the size quantum. size == 0 returns (nil, nil). The memory is not
// zeroed.
func (a *Allocator) Allocate(size int) (r []byte, err error) {
	if trace {
		defer func() {
			var p *byte
			if len(r) != 0 {
				p = &r[0]
			}
			fmt.Fprintf(os.Stderr, "Allocate(%#x) %p, %v\n", size, p, err)
		}()
	}
	if size < 0 {
		panic("malloc: invalid size")
	}
	if size == 0 {
		return nil, nil
	}

	want := roundUp(size)
	i := sizeToBin(want)

	// Exact-fit: pop a same-size free block if one is binned.
	if i != overflowBin {
		if head := a.bins[i]; head != nil {
			a.binRemove(head)
			head.inUse = true
			a.allocs++
			return blockSlice(head, size), nil
		}
	}

	// Split from a larger small bin. The starting index is exactly the
	// smallest bin whose canonical size can legally yield a want-sized
	// used block plus a minBlockBytes residual, so every bin reached by
	// this loop already qualifies; the size check below is defensive.
	for j := sizeToBin(want + minBlockBytes); j < overflowBin; j++ {
		head := a.bins[j]
		if head == nil || head.size-want < minBlockBytes {
			continue
		}
		a.binRemove(head)
		used := a.split(head, want)
		a.allocs++
		return blockSlice(used, size), nil
	}

	// Overflow bin first-fit.
	for b := a.bins[overflowBin]; b != nil; b = b.nextFree {
		if b.size < want {
			continue
		}
		a.binRemove(b)
		var used *block
		if b.size-want >= minBlockBytes {
			used = a.split(b, want)
		} else {
			b.inUse = true
			used = b
		}
		a.allocs++
		return blockSlice(used, size), nil
	}

	// Grow the break to make room for a new block.
	n := blockBytes(want)
	base, err := a.brk.grow(n)
	if err != nil {
		return nil, err
	}
	b := (*block)(unsafe.Pointer(base))
	b.size = want
	b.inUse = true
	a.appendTail(b)
	a.allocs++
	a.bytes += n
	return blockSlice(b, size), nil
}

// Free releases memory previously returned by Allocate. The argument is
// resliced to its capacity first, so a nil or zero-capacity argument is
// a no-op, while a returned slice shortened to zero length still releases
// its block. The argument must not have been released already.
func (a *Allocator) Free(p []byte) (err error) {
	if trace {
		defer func() {
			var ptr *byte
			if len(p) != 0 {
				ptr = &p[0]
			}
			fmt.Fprintf(os.Stderr, "Free(%p) %v\n", ptr, err)
		}()
	}
	p = p[:cap(p)]
	if len(p) == 0 {
		return nil
	}

	b := dataToBlock(unsafe.Pointer(&p[0]))
	a.allocs--
	m := a.coalesce(b)

	if m.nextPhys == nil {
		base := uintptr(unsafe.Pointer(m))
		freed := hdrSize + m.size
		a.popTail()
		if err := a.brk.shrinkTo(base); err != nil {
			return err
		}
		a.bytes -= freed
		return nil
	}

	a.binInsert(m)
	return nil
}

func blockSlice(b *block, size int) []byte {
	var s []byte
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&s))
	sh.Data = uintptr(blockToData(b))
	sh.Len = size
	sh.Cap = b.size
	return s
}
