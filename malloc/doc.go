// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*

Package malloc implements a single-threaded, segregated-free-list dynamic
memory allocator over a caller-supplied, page-granular heap region.

The terms MUST or MUST NOT, if/where used in the documentation of Engine, are
a requirement for any possible alternative implementations aiming for
compatibility with this one.

Heap

A heap is a contiguous region of bytes obtained from a Pager ("Pager" below)
whose length is always a multiple of the page size. It begins with a 32 byte
prologue block, permanently allocated, and ends with a zero sized epilogue
block whose header occupies the last 8 bytes of the region.

Blocks

A block is a 16 byte aligned run of heap bytes, a multiple of 16 bytes long, never smaller
than 32 bytes. Its first 8 bytes mirror the preceding block's footer (valid
only when that predecessor is free), the next 8 bytes are its own header, and
the remainder is payload. A free block reuses its payload's first 16 bytes to
hold free-list linkage; that ownership reverts to the caller the moment the
block is allocated.

Header

Every header (and every free block's mirrored footer) is a 64 bit word
obfuscated by XOR with a magic constant, set via WithMagic at construction or
via SetMagic before the first Allocate. Decoded, bits 0-3 are status flags (inQuickList,
prevAllocated, thisAllocated), bits 4-31 are the block size, bits 32-63 are
the payload size.

Free storage

Free blocks live in one of ten segregated, head-anchored, doubly linked free
lists, chosen by size class and searched first-fit. The lists are not
circular: offset 0 ends a list in both directions. Small freed blocks are
first pushed onto one of ten fixed-size quick lists - bounded LIFO stacks that
keep them marked allocated and defer coalescing until the list is flushed
into the segregated lists.

Pager

Engine never grows the heap itself; it asks a Pager for one more page when no
free block fits a request. A Pager is this package's sole external
collaborator, abstracting backing storage the same way a Filer abstracts
random-access storage for a block allocator.

*/
package malloc
