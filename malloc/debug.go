// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The debug/visualization printer: a pure observer performing a forward
// heap scan, but read-only and with no bitmap bookkeeping.

package malloc

import (
	"fmt"
	"io"
)

// BlockInfo describes one block as seen by a forward heap traversal.
type BlockInfo struct {
	Addr         int64
	Size         int64
	Payload      int64
	Allocated    bool
	InQuickList  bool
	PrevAlloc    bool
	IsPrologue   bool
	IsEpilogue   bool
}

// Walk visits every block from the prologue to the epilogue inclusive, in
// forward address order, stopping early if visit returns false. It never
// mutates the heap.
func (e *Engine) Walk(visit func(BlockInfo) bool) {
	if !e.initialized {
		return
	}

	epilogue := addr(len(e.heap) - epilogueSize)
	for at := addr(0); ; {
		w := e.rawHeaderAt(at)
		info := BlockInfo{
			Addr:        int64(at),
			Size:        w.size(),
			Payload:     w.payload(),
			Allocated:   w.thisAlloc(),
			InQuickList: w.inQuickList(),
			PrevAlloc:   w.prevAlloc(),
			IsPrologue:  at == 0,
			IsEpilogue:  at == epilogue,
		}
		if !visit(info) {
			return
		}
		if at == epilogue {
			return
		}
		at += addr(w.size())
	}
}

// Dump writes a line-per-block rendering of the heap to w, for interactive
// debugging. It is a pure observer: Dump never mutates engine state.
func (e *Engine) Dump(w io.Writer) {
	if !e.initialized {
		fmt.Fprintln(w, "(uninitialized heap)")
		return
	}

	e.Walk(func(b BlockInfo) bool {
		switch {
		case b.IsPrologue:
			fmt.Fprintf(w, "%6d  prologue  size=%d\n", b.Addr, b.Size)
		case b.IsEpilogue:
			fmt.Fprintf(w, "%6d  epilogue\n", b.Addr)
		case b.InQuickList:
			fmt.Fprintf(w, "%6d  quicklist size=%d\n", b.Addr, b.Size)
		case b.Allocated:
			fmt.Fprintf(w, "%6d  alloc     size=%d payload=%d\n", b.Addr, b.Size, b.Payload)
		default:
			fmt.Fprintf(w, "%6d  free      size=%d\n", b.Addr, b.Size)
		}
		return true
	})
}
