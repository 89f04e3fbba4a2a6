// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import "fmt"

// InvalidRequestError reports a caller request the engine rejects without
// touching heap state: Allocate with a size of zero or less. Reallocate(_, 0)
// is not an error; it frees the block.
type InvalidRequestError struct {
	Op   string
	Size int64
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("malloc: %s: invalid size %d", e.Op, e.Size)
}

// ErrAlreadyInitialized reports a configuration call (SetMagic) made after
// the heap was already initialized by a first Allocate.
type ErrAlreadyInitialized struct {
	Op string
}

func (e *ErrAlreadyInitialized) Error() string {
	return fmt.Sprintf("malloc: %s: heap already initialized", e.Op)
}

// OutOfMemoryError reports that the Pager could not extend the heap far
// enough to satisfy a request. The heap remains self consistent; the caller
// may retry after freeing space.
type OutOfMemoryError struct {
	Requested int64
}

func (e *OutOfMemoryError) Error() string {
	return fmt.Sprintf("malloc: out of memory, requested %d bytes", e.Requested)
}

// CorruptionKind enumerates the ways Engine's validator can reject a
// payload pointer.
type CorruptionKind int

const (
	ErrNotAligned CorruptionKind = iota
	ErrBeforeHeap
	ErrAfterEpilogue
	ErrBadSize
	ErrSpansEpilogue
	ErrNotAllocated
	ErrInQuickList
	ErrFooterMismatch
)

func (k CorruptionKind) String() string {
	switch k {
	case ErrNotAligned:
		return "pointer not 16-byte aligned"
	case ErrBeforeHeap:
		return "pointer before first legal block"
	case ErrAfterEpilogue:
		return "pointer at or after epilogue"
	case ErrBadSize:
		return "decoded block size illegal"
	case ErrSpansEpilogue:
		return "block extends past epilogue"
	case ErrNotAllocated:
		return "block not marked allocated"
	case ErrInQuickList:
		return "block still resident in a quick list"
	case ErrFooterMismatch:
		return "predecessor footer disagrees with predecessor header"
	default:
		return "unknown corruption"
	}
}

// CorruptionError is a fatal validator rejection - the allocator does not
// attempt to salvage a corrupted heap. It is a typed, structured
// description of exactly what disagreed and where, suitable for a crash
// report. Engine signals it by panicking with a *CorruptionError rather
// than aborting the process outright, so a host can still recover() at a
// process boundary if it chooses to.
type CorruptionError struct {
	Kind CorruptionKind
	Addr addr
	Arg  int64
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("malloc: corrupt heap at offset %d: %s (%d)", e.Addr, e.Kind, e.Arg)
}

func fatal(kind CorruptionKind, at addr, arg int64) {
	panic(&CorruptionError{Kind: kind, Addr: at, Arg: arg})
}
