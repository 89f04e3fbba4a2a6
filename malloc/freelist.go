// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Segregated free lists: ten head-anchored, doubly linked lists bucketed by
// size class. The lists are not circular: the first member's prev link and
// the last member's next link are both nilAddr.

package malloc

import "encoding/binary"

// A free block's link fields occupy the first 16 bytes of its payload area,
// the same bytes a caller would own once the block is reallocated. This
// generalizes the on-disk handle convention free blocks traditionally store
// their prev/next links in to in-heap offsets instead.
//
// The sentinel each bucket is anchored to is never a realized heap block:
// address 0 is the prologue's address, which is permanently allocated and
// so can never legitimately be a free block's address either. Treating 0 as
// "points at the sentinel" lets a single head pointer per bucket stand in
// for the sentinel without allocating one - exactly the "lives outside the
// heap" requirement, just represented as a reserved address instead of a
// separate struct.

func (e *Engine) freeNext(at addr) addr {
	return addr(binary.BigEndian.Uint64(e.heap[at+16 : at+24]))
}

func (e *Engine) freePrev(at addr) addr {
	return addr(binary.BigEndian.Uint64(e.heap[at+24 : at+32]))
}

func (e *Engine) setFreeNext(at, next addr) {
	binary.BigEndian.PutUint64(e.heap[at+16:at+24], uint64(next))
}

func (e *Engine) setFreePrev(at, prev addr) {
	binary.BigEndian.PutUint64(e.heap[at+24:at+32], uint64(prev))
}

// freeListInsert links `at` (whose header must already be written as free,
// with the correct block size) onto the head of the bucket matching its
// size - LIFO.
func (e *Engine) freeListInsert(at addr) {
	idx := freeListIndex(e.sizeOf(at))
	head := e.freeListHeads[idx]
	e.setFreePrev(at, nilAddr)
	e.setFreeNext(at, head)
	if head != nilAddr {
		e.setFreePrev(head, at)
	}
	e.freeListHeads[idx] = at
}

// freeListRemove splices `at` out of the bucket matching `size`, the size the
// block had when it was inserted; callers pass it explicitly rather than
// having it re-read from the header.
func (e *Engine) freeListRemove(at addr, size int64) {
	idx := freeListIndex(size)
	prev, next := e.freePrev(at), e.freeNext(at)
	switch {
	case prev == nilAddr && next == nilAddr:
		e.freeListHeads[idx] = nilAddr
	case prev == nilAddr:
		e.setFreePrev(next, nilAddr)
		e.freeListHeads[idx] = next
	case next == nilAddr:
		e.setFreeNext(prev, nilAddr)
	default:
		e.setFreeNext(prev, next)
		e.setFreePrev(next, prev)
	}
}
