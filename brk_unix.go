// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

// Modifications (c) 2017 The Memory Authors.
// Further modified into a watermark-based heap-break adapter.

//go:build darwin || dragonfly || freebsd || linux || openbsd || solaris || netbsd
// +build darwin dragonfly freebsd linux openbsd solaris netbsd

package malloc

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// arenaReserve bounds the virtual address space reserved for the
// simulated break. It is never committed up front: anonymous pages are
// backed lazily by the OS as they are touched.
const arenaReserve = 1 << 30

// arena reserves one large anonymous mapping on first use and hands out
// a moving watermark inside it, simulating a single contiguous program
// break without touching the Go runtime's own heap.
type arena struct {
	base uintptr
	top  uintptr
	end  uintptr
}

func (a *arena) reserve() error {
	if a.base != 0 {
		return nil
	}

	b, err := syscall.Mmap(-1, 0, arenaReserve, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_ANON|syscall.MAP_PRIVATE)
	if err != nil {
		return err
	}

	if uintptr(unsafe.Pointer(&b[0]))&uintptr(osPageMask) != 0 {
		panic("internal error")
	}

	a.base = uintptr(unsafe.Pointer(&b[0]))
	a.top = a.base
	a.end = a.base + uintptr(len(b))
	return nil
}

// grow extends the simulated break by delta bytes and returns the
// address it held before growing.
func (a *arena) grow(delta int) (uintptr, error) {
	if err := a.reserve(); err != nil {
		return 0, err
	}

	if a.top+uintptr(delta) > a.end {
		return 0, syscall.ENOMEM
	}

	old := a.top
	a.top += uintptr(delta)
	return old, nil
}

// shrinkTo moves the simulated break down to addr and returns the whole
// pages between addr and the old break to the OS via madvise, without
// unmapping the reservation itself. The page holding addr stays intact.
func (a *arena) shrinkTo(addr uintptr) error {
	if addr < a.base || addr > a.top {
		panic("internal error")
	}
	if addr == a.top {
		return nil
	}

	oldTop := a.top
	a.top = addr
	start := (addr + uintptr(osPageMask)) &^ uintptr(osPageMask)
	if start >= oldTop {
		return nil
	}
	region := unsafe.Slice((*byte)(unsafe.Pointer(start)), oldTop-start)
	return unix.Madvise(region, unix.MADV_DONTNEED)
}
