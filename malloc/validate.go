// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Pointer validation. Any failure here is fatal: the allocator does not
// attempt to salvage a corrupted heap.

package malloc

// validate checks that p is a legitimate, currently allocated payload
// address and returns the corresponding block address. It panics with a
// *CorruptionError on any violation.
func (e *Engine) validate(p addr) addr {
	if p <= 0 || int64(p)%alignment != 0 {
		fatal(ErrNotAligned, p, 0)
	}

	at := blockAddrOf(p)
	if at < 8 {
		fatal(ErrBeforeHeap, at, 0)
	}

	epilogue := addr(len(e.heap) - epilogueSize)
	if at >= epilogue {
		fatal(ErrAfterEpilogue, at, int64(epilogue))
	}

	size := e.sizeOf(at)
	if size < minBlockSize || size%alignment != 0 {
		fatal(ErrBadSize, at, size)
	}

	if at+addr(size) > epilogue {
		fatal(ErrSpansEpilogue, at, size)
	}

	w := e.rawHeaderAt(at)
	if !w.thisAlloc() {
		fatal(ErrNotAllocated, at, 0)
	}
	if w.inQuickList() {
		fatal(ErrInQuickList, at, 0)
	}

	if !w.prevAlloc() {
		// A stricter check than merely inspecting PREV_ALLOCATED: confirm
		// the predecessor's mirrored footer actually agrees with the
		// predecessor's real header.
		footer := e.footerSlot(at)
		pred := at - addr(footer.size())
		if pred < 0 || e.rawHeaderAt(pred) != footer {
			fatal(ErrFooterMismatch, at, 0)
		}
	}

	return at
}
