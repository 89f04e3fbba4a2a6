// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Placement: first-fit-with-splinter-avoidance search over the segregated
// free lists, extending the heap on exhaustion.

package malloc

// findFit locates (splitting or taking whole, as appropriate) a free block
// able to hold blkSize bytes, extending the heap by one page at a time when
// no bucket currently has a fit. Returns the payload address of the placed
// block, or ok=false with the out-of-memory signal set if the heap cannot be
// grown further.
func (e *Engine) findFit(blkSize, payloadSize int64) (p addr, ok bool) {
	for {
		if at, found := e.searchBuckets(blkSize, payloadSize); found {
			return payloadAddrOf(at), true
		}

		if !e.extendHeap() {
			e.errno = &OutOfMemoryError{Requested: payloadSize}
			return 0, false
		}
	}
}

// searchBuckets performs one pass over the segregated free lists, from the
// bucket blkSize starts in through the largest, first-fit within each
// bucket in sentinel-forward (LIFO-biased) order.
func (e *Engine) searchBuckets(blkSize, payloadSize int64) (addr, bool) {
	start := freeListIndex(blkSize)
	for i := start; i < numFreeLists; i++ {
		for at := e.freeListHeads[i]; at != nilAddr; at = e.freeNext(at) {
			candSize := e.sizeOf(at)
			if candSize < blkSize {
				continue
			}

			if candSize >= blkSize+minBlockSize {
				return e.splitFreeBlock(at, blkSize, payloadSize), true
			}

			// Exact-ish fit: take the whole block.
			e.freeListRemove(at, candSize)
			prevAlloc := e.rawHeaderAt(at).status() & statusPrevAlloc
			e.setHeader(at, candSize, payloadSize, prevAlloc|statusThisAlloc)
			succ := at + addr(candSize)
			e.setPrevAllocBit(succ, true)
			return at, true
		}
	}
	return 0, false
}
