// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The allocator facade: initialization, Allocate/Free/Reallocate, and heap
// extension.

package malloc

// Ptr is an opaque handle to an allocated payload, valid until the block it
// names is freed or reallocated elsewhere. It is a heap offset rather than a
// raw slice header on purpose: the backing storage a Pager hands out can be
// reallocated out from under a live Go slice whenever the heap grows, so
// callers must go through Engine.Payload to get a fresh view rather than
// holding one across calls.
type Ptr int64

// Engine is the allocator. It is not safe for concurrent use; callers
// wanting multi-goroutine access must serialize externally.
type Engine struct {
	pager Pager
	heap  []byte
	magic uint64

	initialized bool

	freeListHeads [numFreeLists]addr

	quickListHeads    []addr
	quickListLens     []int
	quickListCount    int
	quickListCapacity int

	errno          error
	maxUtilization float64
}

// NewEngine returns an Engine drawing heap pages from p. A nil Pager gets a
// default in-process MemPager (unbounded, growing by the configured page
// size).
func NewEngine(p Pager, opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if p == nil {
		p = NewMemPager(cfg.pageSize, 0)
	}
	return &Engine{
		pager:             p,
		magic:             cfg.magic,
		quickListCount:    cfg.quickListCount,
		quickListCapacity: cfg.quickListCapacity,
		quickListHeads:    make([]addr, cfg.quickListCount),
		quickListLens:     make([]int, cfg.quickListCount),
	}
}

// SetMagic changes the header obfuscation constant. It MUST be called
// before the first Allocate; afterward the magic is a runtime constant.
func (e *Engine) SetMagic(magic uint64) error {
	if e.initialized {
		return &ErrAlreadyInitialized{Op: "SetMagic"}
	}
	e.magic = magic
	return nil
}

// Errno returns the out-of-memory signal set by the most recent failed
// Allocate/Reallocate, or nil. Callers clear it explicitly once handled.
func (e *Engine) Errno() error { return e.errno }

// ClearErrno clears the out-of-memory signal.
func (e *Engine) ClearErrno() { e.errno = nil }

// Bounds returns the current heap's [start, end) extent. start == end iff
// the heap has never been initialized.
func (e *Engine) Bounds() (start, end int64) {
	if !e.initialized {
		return 0, 0
	}
	return 0, int64(len(e.heap))
}

// ensureInit performs lazy, one-time heap initialization: one page from the
// Pager, a prologue, an epilogue, and a single free block spanning the
// interior.
func (e *Engine) ensureInit() bool {
	if e.initialized {
		return true
	}
	if !e.pager.Grow() {
		e.errno = &OutOfMemoryError{}
		return false
	}
	e.heap = e.pager.Bytes()

	e.setHeader(0, prologueSize, 0, statusThisAlloc|statusPrevAlloc)

	epi := addr(len(e.heap) - epilogueSize)
	e.setHeader(epi, 0, 0, statusThisAlloc)

	remainder := addr(prologueSize)
	remainderSize := int64(epi) - prologueSize
	e.setHeader(remainder, remainderSize, 0, statusPrevAlloc)
	e.freeListInsert(remainder)

	e.initialized = true
	return true
}

// extendHeap grows the heap by exactly one page: the new page becomes a
// free block starting where the old epilogue sat, inheriting its
// PREV_ALLOCATED bit, with a fresh epilogue installed at the new end; the
// new block is then coalesced with any free predecessor.
func (e *Engine) extendHeap() bool {
	if !e.initialized {
		return e.ensureInit()
	}

	oldEpi := addr(len(e.heap) - epilogueSize)
	inheritedPrevAlloc := e.rawHeaderAt(oldEpi).status() & statusPrevAlloc

	if !e.pager.Grow() {
		return false
	}
	e.heap = e.pager.Bytes()

	newEpi := addr(len(e.heap) - epilogueSize)
	newBlockSize := int64(newEpi - oldEpi)

	e.setHeader(oldEpi, newBlockSize, 0, inheritedPrevAlloc)
	e.setHeader(newEpi, 0, 0, statusThisAlloc)

	e.freeListInsert(oldEpi)
	e.coalescePrev(oldEpi)
	return true
}

// Allocate reserves a block able to hold size payload bytes and returns its
// Ptr. size == 0 is rejected without touching heap state. A failure to grow
// the heap far enough sets Errno and returns a non-nil *OutOfMemoryError.
func (e *Engine) Allocate(size int64) (Ptr, error) {
	if size <= 0 {
		return 0, &InvalidRequestError{Op: "Allocate", Size: size}
	}

	if !e.initialized {
		if !e.ensureInit() {
			return 0, e.errno
		}
	}

	p, ok := e.place(requiredBlockSize(size), size)
	if !ok {
		return 0, e.errno
	}
	e.bumpMaxUtilization()
	return Ptr(p), nil
}

// place returns the payload address of a block of blkSize bytes carrying a
// payload of size bytes, preferring a populated quick list over a
// segregated-free-list search exactly as Allocate does - the same sequence
// Reallocate's growth path must use rather than searching the free lists
// directly.
func (e *Engine) place(blkSize, size int64) (addr, bool) {
	if idx, quickable := quickListIndex(blkSize, e.quickListCount); quickable {
		if at, found := e.quickListPop(idx); found {
			prevAlloc := e.rawHeaderAt(at).status() & statusPrevAlloc
			e.setHeader(at, blkSize, size, prevAlloc|statusThisAlloc)
			return payloadAddrOf(at), true
		}
	}

	return e.findFit(blkSize, size)
}

// Free releases the block named by p. p must have been returned by a still
// valid Allocate/Reallocate call; any other value is fatal.
func (e *Engine) Free(p Ptr) {
	at := e.validate(addr(p))
	size := e.sizeOf(at)

	if idx, quickable := quickListIndex(size, e.quickListCount); quickable {
		prevAlloc := e.rawHeaderAt(at).status() & statusPrevAlloc
		e.setHeader(at, size, 0, prevAlloc|statusThisAlloc|statusInQuickList)
		e.quickListPush(at, idx)
		e.bumpMaxUtilization()
		return
	}

	prevAlloc := e.rawHeaderAt(at).status() & statusPrevAlloc
	e.setHeader(at, size, 0, prevAlloc)
	e.setPrevAllocBit(e.next(at), false)
	e.freeListInsert(at)
	e.coalesceFreeSide(at)
	e.bumpMaxUtilization()
}

// Reallocate resizes the block named by p to rsize payload bytes. rsize == 0
// delegates to Free and returns a zero Ptr. Shrinking splits off a tail
// remainder (splinter-avoidant); growing allocates fresh, copies, and frees
// the original - leaving the original untouched if the fresh allocation
// fails.
func (e *Engine) Reallocate(p Ptr, rsize int64) (Ptr, error) {
	if rsize == 0 {
		e.Free(p)
		return 0, nil
	}

	at := e.validate(addr(p))
	oldBlkSize := e.sizeOf(at)
	newBlkSize := requiredBlockSize(rsize)

	switch {
	case newBlkSize == oldBlkSize:
		e.setPayload(at, rsize)
		e.bumpMaxUtilization()
		return Ptr(payloadAddrOf(at)), nil

	case newBlkSize > oldBlkSize:
		newAt, ok := e.place(newBlkSize, rsize)
		if !ok {
			return 0, e.errno
		}
		oldPayload := e.payloadOf(at)
		src := payloadAddrOf(at)
		copy(e.heap[newAt:int64(newAt)+oldPayload], e.heap[src:int64(src)+oldPayload])
		e.Free(Ptr(payloadAddrOf(at)))
		e.bumpMaxUtilization()
		return Ptr(newAt), nil

	default: // smaller
		e.splitAllocatedBlock(at, newBlkSize, rsize)
		e.bumpMaxUtilization()
		return Ptr(payloadAddrOf(at)), nil
	}
}

// Payload returns a slice view of the live payload bytes named by p. The
// slice aliases the Engine's current heap storage and MUST NOT be retained
// across any call that might grow the heap (Allocate, Reallocate) - take a
// fresh Payload after any such call.
func (e *Engine) Payload(p Ptr) []byte {
	at := e.validate(addr(p))
	n := e.payloadOf(at)
	return e.heap[int64(p) : int64(p)+n]
}
