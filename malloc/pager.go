// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

// A Pager is Engine's sole external collaborator for growing the heap: an
// abstracted, swappable backing store, in the same spirit as a Filer
// abstracts random-access storage for a block allocator. A Pager needs no
// random access API, though - the heap only ever grows by whole pages
// appended at the end, so Grow is the only mutating operation.
type Pager interface {
	// Bytes returns the current backing storage. The slice is owned by the
	// Pager; Engine is the only other party permitted to mutate it, and
	// only within [0, len(Bytes())).
	Bytes() []byte

	// PageSize returns the fixed page granularity the heap grows by.
	PageSize() int64

	// Grow appends exactly one page of zeroed bytes and returns true, or
	// returns false (leaving Bytes unchanged) if the heap cannot be
	// extended further.
	Grow() bool
}

// memPager is a memory backed Pager, the default collaborator: an
// append-on-grow byte slice bounded by an optional maximum size.
type memPager struct {
	buf      []byte
	pageSize int64
	maxBytes int64 // 0 means unbounded
}

// NewMemPager returns a Pager backed by an in-process byte slice that grows
// by pageSize at a time, never exceeding maxBytes (0 for no limit - tests
// that exercise heap exhaustion should pass a small, explicit bound).
func NewMemPager(pageSize, maxBytes int64) Pager {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &memPager{pageSize: pageSize, maxBytes: maxBytes}
}

func (p *memPager) Bytes() []byte   { return p.buf }
func (p *memPager) PageSize() int64 { return p.pageSize }

func (p *memPager) Grow() bool {
	next := int64(len(p.buf)) + p.pageSize
	if p.maxBytes > 0 && next > p.maxBytes {
		return false
	}
	p.buf = append(p.buf, make([]byte, p.pageSize)...)
	return true
}
