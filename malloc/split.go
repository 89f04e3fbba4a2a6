// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Split and coalesce: the block-splitting and neighbor-merging state
// machine.

package malloc

// splitFreeBlock carves an allocated block of exactly `need` bytes out of
// the lower end of the free block `blk`, which must have at least
// need+minBlockSize bytes available. The upper remainder becomes a new free
// block. Returns the address of the (now allocated) lower block.
func (e *Engine) splitFreeBlock(blk addr, need, payload int64) addr {
	original := e.sizeOf(blk)
	upperSize := original - need
	prevAllocBit := e.rawHeaderAt(blk).status() & statusPrevAlloc

	e.freeListRemove(blk, original)
	e.setHeader(blk, need, payload, prevAllocBit|statusThisAlloc)

	upper := blk + addr(need)
	e.setHeader(upper, upperSize, 0, statusPrevAlloc)
	e.setPrevAllocBit(upper+addr(upperSize), false)
	e.freeListInsert(upper)

	return blk
}

// splitAllocatedBlock shrinks the still-allocated block `blk` to `need`
// bytes. If the remainder would be a splinter (< minBlockSize) the block is
// left at its original size with just its payload-size field rewritten.
// Otherwise the remainder becomes a newly freed block, inserted into the
// segregated free lists and coalesced forward only - its predecessor is the
// still-allocated lower half, so backward coalescing is never attempted.
func (e *Engine) splitAllocatedBlock(blk addr, need, payload int64) {
	original := e.sizeOf(blk)
	remainder := original - need
	if remainder < minBlockSize {
		e.setPayload(blk, payload)
		return
	}

	prevAllocBit := e.rawHeaderAt(blk).status() & statusPrevAlloc
	e.setHeader(blk, need, payload, prevAllocBit|statusThisAlloc)

	upper := blk + addr(need)
	e.setHeader(upper, remainder, 0, statusPrevAlloc)
	e.setPrevAllocBit(upper+addr(remainder), false)
	e.freeListInsert(upper)
	e.coalesceNext(upper)
}

// coalescePrev merges `blk` into its immediate predecessor if that
// predecessor is currently free. Both blocks must already be registered in
// their segregated free lists; on success the merged block (at the
// predecessor's address) is left registered in the bucket matching its new
// size and `blk`'s identity is absorbed into it. The predecessor is only
// unlinked and relinked if the merge actually moves it to a different
// bucket; otherwise it keeps its existing list position.
func (e *Engine) coalescePrev(blk addr) (merged addr, ok bool) {
	if e.prevAlloc(blk) {
		return blk, false
	}

	predFooter := e.footerSlot(blk)
	predSize := predFooter.size()
	pred := blk - addr(predSize)
	curSize := e.sizeOf(blk)
	mergedSize := predSize + curSize
	relocate := freeListIndex(predSize) != freeListIndex(mergedSize)

	e.freeListRemove(blk, curSize)
	if relocate {
		e.freeListRemove(pred, predSize)
	}

	predPrevAlloc := predFooter.status() & statusPrevAlloc
	e.setHeader(pred, mergedSize, 0, predPrevAlloc)
	e.setPrevAllocBit(pred+addr(mergedSize), false)

	if relocate {
		e.freeListInsert(pred)
	}

	return pred, true
}

// coalesceNext merges the immediate successor of `blk` into `blk` if that
// successor is currently free. `blk` must already be registered in its
// segregated free list; on success it is left registered in the bucket
// matching its new size. `blk` is only unlinked and relinked if the merge
// actually moves it to a different bucket; otherwise it keeps its existing
// list position.
func (e *Engine) coalesceNext(blk addr) bool {
	succ := e.next(blk)
	if e.thisAlloc(succ) {
		return false
	}

	succSize := e.sizeOf(succ)
	curSize := e.sizeOf(blk)
	mergedSize := curSize + succSize
	blkPrevAlloc := e.rawHeaderAt(blk).status() & statusPrevAlloc
	relocate := freeListIndex(curSize) != freeListIndex(mergedSize)

	if relocate {
		e.freeListRemove(blk, curSize)
	}
	e.freeListRemove(succ, succSize)

	e.setHeader(blk, mergedSize, 0, blkPrevAlloc)
	e.setPrevAllocBit(blk+addr(mergedSize), false)

	if relocate {
		e.freeListInsert(blk)
	}

	return true
}

// coalesceFreeSide runs the two-direction coalescing rule required after
// freeing a block: try the predecessor first; if that merged, try the
// successor from the merged block, otherwise try the successor from the
// original block. This can absorb up to both neighbors in one pass without
// ever double-removing a block from a free list.
func (e *Engine) coalesceFreeSide(blk addr) {
	merged, ok := e.coalescePrev(blk)
	if ok {
		e.coalesceNext(merged)
		return
	}
	e.coalesceNext(blk)
}
