// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import "testing"

func TestAllocateAnInt(t *testing.T) {
	e := NewEngine(NewMemPager(256, 0))

	p, err := e.Allocate(8)
	if err != nil {
		t.Fatal(err)
	}

	buf := e.Payload(p)
	if g, want := len(buf), 8; g != want {
		t.Fatalf("payload length: got %d, want %d", g, want)
	}
	buf[0] = 0x7f
	if e.Payload(p)[0] != 0x7f {
		t.Fatal("write through Payload did not stick")
	}
}

func TestAllocateZeroRejected(t *testing.T) {
	e := NewEngine(NewMemPager(256, 0))
	_, err := e.Allocate(0)
	if err == nil {
		t.Fatal("expected Allocate(0) to be rejected")
	}
	if _, ok := err.(*InvalidRequestError); !ok {
		t.Fatalf("wrong error type: %T", err)
	}
	if e.initialized {
		t.Fatal("Allocate(0) must not touch heap state")
	}
}

func TestAllocateTooLargeSetsOutOfMemory(t *testing.T) {
	e := NewEngine(NewMemPager(64, 128))
	_, err := e.Allocate(1 << 20)
	if err == nil {
		t.Fatal("expected an out-of-memory error")
	}
	if _, ok := err.(*OutOfMemoryError); !ok {
		t.Fatalf("wrong error type: %T", err)
	}
	if e.Errno() == nil {
		t.Fatal("Errno must be set after an OOM Allocate")
	}
	e.ClearErrno()
	if e.Errno() != nil {
		t.Fatal("ClearErrno did not clear Errno")
	}
}

func TestFreeIntoQuickList(t *testing.T) {
	e := NewEngine(NewMemPager(4096, 0))

	p, err := e.Allocate(8)
	if err != nil {
		t.Fatal(err)
	}
	at := blockAddrOf(addr(p))
	idx, quickable := quickListIndex(e.sizeOf(at), e.quickListCount)
	if !quickable {
		t.Fatalf("a %d byte block should be quick-listable", e.sizeOf(at))
	}

	e.Free(p)
	if w := e.rawHeaderAt(at); !w.inQuickList() {
		t.Fatal("freed small block was not quick-listed")
	}
	if g, want := e.quickListLens[idx], 1; g != want {
		t.Fatalf("quick list length: got %d, want %d", g, want)
	}
}

func TestFreeWithCoalescing(t *testing.T) {
	e := NewEngine(NewMemPager(4096, 0))

	// Large enough to bypass the quick lists so Free exercises the
	// segregated free-list coalescing path instead.
	a, err := e.Allocate(300)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Allocate(300)
	if err != nil {
		t.Fatal(err)
	}
	c, err := e.Allocate(300)
	if err != nil {
		t.Fatal(err)
	}

	e.Free(a)
	e.Free(b)
	e.Free(c)

	// Nothing left allocated in the interior; InternalFragmentation's
	// numerator collapses to zero.
	if g := e.InternalFragmentation(); g != 0 {
		t.Fatalf("fragmentation after freeing everything: got %v, want 0", g)
	}
}

func TestQuickListFlushViaFree(t *testing.T) {
	e := NewEngine(NewMemPager(4096, 0))
	e.quickListCapacity = 2

	var ptrs []Ptr
	for i := 0; i < 3; i++ {
		p, err := e.Allocate(8)
		if err != nil {
			t.Fatal(err)
		}
		ptrs = append(ptrs, p)
	}
	for _, p := range ptrs {
		e.Free(p)
	}

	idx, _ := quickListIndex(requiredBlockSize(8), e.quickListCount)
	if g, want := e.quickListLens[idx], 1; g != want {
		t.Fatalf("quick list length after overflow free: got %d, want %d", g, want)
	}
}

func TestReallocateLarger(t *testing.T) {
	e := NewEngine(NewMemPager(4096, 0))

	p, err := e.Allocate(8)
	if err != nil {
		t.Fatal(err)
	}
	copy(e.Payload(p), []byte("deadbeef"))

	p2, err := e.Reallocate(p, 64)
	if err != nil {
		t.Fatal(err)
	}
	if g, want := string(e.Payload(p2)[:8]), "deadbeef"; g != want {
		t.Fatalf("payload not preserved across growth: got %q, want %q", g, want)
	}
	if g, want := len(e.Payload(p2)), 64; g != want {
		t.Fatalf("payload length: got %d, want %d", g, want)
	}
}

func TestReallocateSmallerAvoidsSplinter(t *testing.T) {
	e := NewEngine(NewMemPager(4096, 0))

	p, err := e.Allocate(240)
	if err != nil {
		t.Fatal(err)
	}
	at := blockAddrOf(addr(p))
	original := e.sizeOf(at)

	p2, err := e.Reallocate(p, original-24)
	if err != nil {
		t.Fatal(err)
	}
	if p2 != p {
		t.Fatalf("shrink-in-place should not move the block: got %d, want %d", p2, p)
	}
	if g, want := e.sizeOf(at), original; g != want {
		t.Fatalf("splinter-avoidant shrink changed block size: got %d, want %d", g, want)
	}
}

func TestReallocateToZeroFrees(t *testing.T) {
	e := NewEngine(NewMemPager(4096, 0))

	p, err := e.Allocate(32)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := e.Reallocate(p, 0)
	if err != nil {
		t.Fatal(err)
	}
	if p2 != 0 {
		t.Fatalf("Reallocate to zero should return a zero Ptr, got %d", p2)
	}
}

// TestExtendHeapCoalescesWithInitialRemainder exercises the very first
// extendHeap call, before any split has ever carved up the initial
// remainder. The newly grown page must merge with that remainder rather
// than being left stranded as a second, separately bucketed free block.
func TestExtendHeapCoalescesWithInitialRemainder(t *testing.T) {
	e := newTestEngine(t, 1024)

	remainder := addr(prologueSize)
	before := e.sizeOf(remainder)

	if !e.extendHeap() {
		t.Fatal("extendHeap failed")
	}

	if e.thisAlloc(remainder) {
		t.Fatal("initial remainder must still be free after extension")
	}
	if g, want := e.sizeOf(remainder), before+e.pager.PageSize(); g != want {
		t.Fatalf("initial remainder did not coalesce with the newly grown page: got %d, want %d", g, want)
	}
}

// TestAllocateSucceedsAcrossFirstExtension is the literal growth scenario
// that would trip over a standing coalescing failure at the first
// extension: a request too large for the initial page, forcing extendHeap
// before any block has ever been split.
func TestAllocateSucceedsAcrossFirstExtension(t *testing.T) {
	e := NewEngine(NewMemPager(1024, 0))

	p, err := e.Allocate(2000)
	if err != nil {
		t.Fatal(err)
	}
	if g, want := len(e.Payload(p)), 2000; g != want {
		t.Fatalf("payload length: got %d, want %d", g, want)
	}
}

func TestReallocateGrowthPrefersQuickList(t *testing.T) {
	e := NewEngine(NewMemPager(4096, 0))

	x, err := e.Allocate(8)
	if err != nil {
		t.Fatal(err)
	}
	if g, want := e.sizeOf(blockAddrOf(addr(x))), int64(32); g != want {
		t.Fatalf("x block size: got %d, want %d", g, want)
	}

	y, err := e.Allocate(48)
	if err != nil {
		t.Fatal(err)
	}
	yAt := blockAddrOf(addr(y))
	if g, want := e.sizeOf(yAt), int64(64); g != want {
		t.Fatalf("y block size: got %d, want %d", g, want)
	}
	e.Free(y)

	idx, quickable := quickListIndex(64, e.quickListCount)
	if !quickable {
		t.Fatal("a 64 byte block should be quick-listable")
	}
	if g, want := e.quickListLens[idx], 1; g != want {
		t.Fatalf("quick list length before realloc: got %d, want %d", g, want)
	}

	x2, err := e.Reallocate(x, 48)
	if err != nil {
		t.Fatal(err)
	}
	if g, want := blockAddrOf(addr(x2)), yAt; g != want {
		t.Fatalf("Reallocate growth did not reuse the quick-listed block: got %d, want %d", g, want)
	}
	if g, want := e.quickListLens[idx], 0; g != want {
		t.Fatalf("quick list length after realloc: got %d, want %d", g, want)
	}
}

func TestFragmentationMetric(t *testing.T) {
	e := NewEngine(NewMemPager(4096, 0))

	p, err := e.Allocate(100)
	if err != nil {
		t.Fatal(err)
	}
	at := blockAddrOf(addr(p))
	blkSize := e.sizeOf(at)

	got := e.InternalFragmentation()
	want := float64(100) / float64(blkSize)
	if got != want {
		t.Fatalf("fragmentation: got %v, want %v", got, want)
	}
}
