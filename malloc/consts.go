// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import "github.com/cznic/mathutil"

const (
	// alignment all block addresses and sizes obey.
	alignment = 16

	// minBlockSize is the smallest legal block, header+footer slot plus
	// one alignment's worth of payload/linkage.
	minBlockSize = 32

	// prologueSize is the fixed size of the permanently allocated block
	// installed at the heap start.
	prologueSize = 32

	// epilogueSize is the fixed, zero-payload trailer reserved at the
	// heap end: an 8 byte prev-footer slot plus an 8 byte header.
	epilogueSize = 16

	// defaultPageSize is the page granularity a heap grows by, absent a
	// WithPageSize Option.
	defaultPageSize = 1024

	// numFreeLists is the number of segregated, size-class bucketed free
	// lists.
	numFreeLists = 10

	// defaultQuickListCount is the number of fixed-size quick lists,
	// covering block sizes [32, 32+16*(n-1)].
	defaultQuickListCount = 10

	// defaultQuickListCapacity is the number of blocks a quick list holds
	// before a push forces a flush.
	defaultQuickListCapacity = 5

	// defaultMagic XOR-obfuscates every header and mirrored footer.
	defaultMagic = 0xdeadbeefcafebabe
)

// Status bits occupy the low 4 bits of a decoded header word.
const (
	statusInQuickList  = 1 << 0
	statusPrevAlloc    = 1 << 1
	statusThisAlloc    = 1 << 2
	statusBitsMask     = 0xf
	blockSizeMask      = 0x00000000fffffff0
	payloadSizeShift   = 32
	nilAddr       addr = 0 // offset 0 is the prologue: never free, safe as "no block"
)

// addr is a byte offset into an Engine's heap buffer, identifying a block.
// Using an offset rather than a raw pointer keeps invariants checkable and
// the heap trivially relocatable/serializable: a raw Go slice or pointer
// into the backing buffer would be invalidated the moment a later Grow
// reallocates it, silently stranding callers on stale memory.
type addr int64

// quickListIndex returns the quick-list bucket for an exact block size, and
// whether that size is small enough to be quick-listed at all.
func quickListIndex(blockSize int64, count int) (int, bool) {
	idx := (blockSize - minBlockSize) / alignment
	if idx < 0 || idx >= int64(count) {
		return 0, false
	}
	return int(idx), true
}

// freeListIndex returns the segregated free-list bucket for a block size.
func freeListIndex(size int64) int {
	switch {
	case size == 32:
		return 0
	case size <= 64:
		return 1
	case size <= 128:
		return 2
	case size <= 256:
		return 3
	case size <= 512:
		return 4
	case size <= 1024:
		return 5
	case size <= 2048:
		return 6
	case size <= 4096:
		return 7
	case size <= 8192:
		return 8
	default:
		return 9
	}
}

// align16 rounds n up to the next multiple of the alignment.
func align16(n int64) int64 {
	return (n + alignment - 1) &^ (alignment - 1)
}

// requiredBlockSize is the block size needed to hold a user payload request
// of s bytes: room for the header word plus the payload, rounded up, floored
// at the minimum block size.
func requiredBlockSize(s int64) int64 {
	return mathutil.MaxInt64(align16(s+8), minBlockSize)
}
