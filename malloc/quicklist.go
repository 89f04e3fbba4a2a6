// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Quick lists: fixed-size, singly linked, bounded LIFO stacks of recently
// freed small blocks, holding them allocated and uncoalesced until flushed.

package malloc

import "encoding/binary"

func (e *Engine) quickNext(at addr) addr {
	return addr(binary.BigEndian.Uint64(e.heap[at+16 : at+24]))
}

func (e *Engine) setQuickNext(at, next addr) {
	binary.BigEndian.PutUint64(e.heap[at+16:at+24], uint64(next))
}

// quickListPush inserts a just-freed block of the exact quick-listable size
// into its bucket. If the bucket is already at capacity it is flushed first
// (each resident block coalesced into the segregated free lists), then the
// new block becomes the bucket's sole element.
func (e *Engine) quickListPush(at addr, idx int) {
	if e.quickListLens[idx] >= e.quickListCapacity {
		e.quickListFlush(idx)
	}
	// A stale `next` field surviving from the block's prior allocated life
	// must not be trusted; write it fresh regardless of whether the list
	// was empty.
	e.setQuickNext(at, e.quickListHeads[idx])
	e.quickListHeads[idx] = at
	e.quickListLens[idx]++
}

// quickListPop removes and returns the head of bucket idx, or ok=false if
// empty.
func (e *Engine) quickListPop(idx int) (at addr, ok bool) {
	head := e.quickListHeads[idx]
	if head == nilAddr {
		return 0, false
	}
	e.quickListHeads[idx] = e.quickNext(head)
	e.quickListLens[idx]--
	return head, true
}

// quickListFlush empties bucket idx, converting every resident block back
// into a free block and running the ordinary free-side coalescing rule on
// each in turn, head to tail.
func (e *Engine) quickListFlush(idx int) {
	at := e.quickListHeads[idx]
	e.quickListHeads[idx] = nilAddr
	e.quickListLens[idx] = 0
	for at != nilAddr {
		next := e.quickNext(at)
		e.releaseFromQuickList(at)
		at = next
	}
}

// releaseFromQuickList converts a single quick-listed block `at` into an
// ordinary free block and runs the free-side coalescing rule on it. It does
// not touch the quick list's own head/length bookkeeping - callers manage
// that (quickListFlush iterates the chain itself).
func (e *Engine) releaseFromQuickList(at addr) {
	size := e.sizeOf(at)
	prevAlloc := e.rawHeaderAt(at).status() & statusPrevAlloc
	e.setHeader(at, size, 0, prevAlloc)
	nxt := e.next(at)
	e.setPrevAllocBit(nxt, false)
	e.freeListInsert(at)
	e.coalesceFreeSide(at)
}
