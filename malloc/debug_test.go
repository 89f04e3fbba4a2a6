// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import (
	"bytes"
	"strings"
	"testing"
)

func TestWalkVisitsPrologueAndEpilogue(t *testing.T) {
	e := newTestEngine(t, 1024)

	var sawPrologue, sawEpilogue bool
	var blocks int
	e.Walk(func(b BlockInfo) bool {
		blocks++
		sawPrologue = sawPrologue || b.IsPrologue
		sawEpilogue = sawEpilogue || b.IsEpilogue
		return true
	})

	if !sawPrologue || !sawEpilogue {
		t.Fatalf("Walk did not visit both sentinels: prologue=%v epilogue=%v", sawPrologue, sawEpilogue)
	}
	if blocks < 3 {
		t.Fatalf("expected at least prologue, remainder, epilogue; got %d blocks", blocks)
	}
}

func TestWalkStopsEarly(t *testing.T) {
	e := newTestEngine(t, 1024)

	var visited int
	e.Walk(func(BlockInfo) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Fatalf("Walk did not stop after visit returned false: visited %d", visited)
	}
}

func TestDumpOnUninitializedEngine(t *testing.T) {
	e := NewEngine(NewMemPager(256, 0))
	var buf bytes.Buffer
	e.Dump(&buf)
	if !strings.Contains(buf.String(), "uninitialized") {
		t.Fatalf("Dump on uninitialized engine: got %q", buf.String())
	}
}

func TestDumpMentionsAllocatedBlock(t *testing.T) {
	e := NewEngine(NewMemPager(1024, 0))
	if _, err := e.Allocate(16); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	e.Dump(&buf)
	if !strings.Contains(buf.String(), "alloc") {
		t.Fatalf("Dump did not mention the allocated block: %q", buf.String())
	}
}
