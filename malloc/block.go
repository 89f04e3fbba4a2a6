// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Block layout primitives: the only code in this package permitted to read
// or write header/footer bytes directly.

package malloc

import "encoding/binary"

// headerWord decodes a 64 bit word already XOR'd back from its stored,
// obfuscated form.
type headerWord uint64

func packHeader(blockSize, payloadSize int64, status uint64) headerWord {
	return headerWord((uint64(payloadSize) << payloadSizeShift) | (uint64(blockSize) & blockSizeMask) | (status & statusBitsMask))
}

func (w headerWord) size() int64    { return int64(uint64(w) & blockSizeMask) }
func (w headerWord) payload() int64 { return int64(uint64(w) >> payloadSizeShift) }
func (w headerWord) status() uint64 { return uint64(w) & statusBitsMask }
func (w headerWord) inQuickList() bool { return w.status()&statusInQuickList != 0 }
func (w headerWord) prevAlloc() bool   { return w.status()&statusPrevAlloc != 0 }
func (w headerWord) thisAlloc() bool   { return w.status()&statusThisAlloc != 0 }

// withStatus returns w with its status bits cleared and replaced wholesale;
// size and payload fields are preserved untouched.
func (w headerWord) withStatus(status uint64) headerWord {
	return headerWord((uint64(w) &^ statusBitsMask) | (status & statusBitsMask))
}

func (w headerWord) withPayload(payload int64) headerWord {
	const payloadField = ^uint64(0) << payloadSizeShift
	return headerWord((uint64(w) &^ payloadField) | (uint64(payload) << payloadSizeShift))
}

// rawHeaderAt reads the obfuscated header word stored at a block's header
// slot, [at+8, at+16), and de-obfuscates it.
func (e *Engine) rawHeaderAt(at addr) headerWord {
	stored := binary.BigEndian.Uint64(e.heap[at+8 : at+16])
	return headerWord(stored ^ e.magic)
}

// setRawHeaderAt obfuscates and writes w into a block's header slot.
func (e *Engine) setRawHeaderAt(at addr, w headerWord) {
	binary.BigEndian.PutUint64(e.heap[at+8:at+16], uint64(w)^e.magic)
}

// footerSlot reads the prev-footer slot belonging to the block at `at`: the
// 8 bytes mirroring the immediate predecessor's header, meaningful only when
// that predecessor is free.
func (e *Engine) footerSlot(at addr) headerWord {
	stored := binary.BigEndian.Uint64(e.heap[at : at+8])
	return headerWord(stored ^ e.magic)
}

func (e *Engine) setFooterSlot(at addr, w headerWord) {
	binary.BigEndian.PutUint64(e.heap[at:at+8], uint64(w)^e.magic)
}

// header/size/payload/status convenience wrappers operating on a block
// address directly.

func (e *Engine) sizeOf(at addr) int64    { return e.rawHeaderAt(at).size() }
func (e *Engine) payloadOf(at addr) int64 { return e.rawHeaderAt(at).payload() }
func (e *Engine) thisAlloc(at addr) bool  { return e.rawHeaderAt(at).thisAlloc() }
func (e *Engine) prevAlloc(at addr) bool  { return e.rawHeaderAt(at).prevAlloc() }
func (e *Engine) inQuickList(at addr) bool {
	return e.rawHeaderAt(at).inQuickList()
}

func (e *Engine) next(at addr) addr { return at + addr(e.sizeOf(at)) }

// setHeader writes a complete (size, payload, status) header at `at`,
// mirroring it into the successor's footer slot when the block is free.
func (e *Engine) setHeader(at addr, blockSize, payloadSize int64, status uint64) {
	w := packHeader(blockSize, payloadSize, status)
	e.setRawHeaderAt(at, w)
	if status&statusThisAlloc == 0 {
		e.setFooterSlot(at+addr(blockSize), w)
	}
}

// setStatus rewrites only the status bits of the header at `at`, preserving
// size and payload, and mirrors the footer if the block ends up free.
func (e *Engine) setStatus(at addr, status uint64) {
	w := e.rawHeaderAt(at).withStatus(status)
	e.setRawHeaderAt(at, w)
	if status&statusThisAlloc == 0 {
		e.setFooterSlot(at+addr(w.size()), w)
	}
}

// setPrevAllocBit flips only the PREV_ALLOCATED bit of the block at `at`,
// preserving everything else, and mirrors the footer if `at` is free.
func (e *Engine) setPrevAllocBit(at addr, allocated bool) {
	w := e.rawHeaderAt(at)
	status := w.status()
	if allocated {
		status |= statusPrevAlloc
	} else {
		status &^= statusPrevAlloc
	}
	w = w.withStatus(status)
	e.setRawHeaderAt(at, w)
	if status&statusThisAlloc == 0 {
		e.setFooterSlot(at+addr(w.size()), w)
	}
}

// setPayload rewrites only the payload-size field of the header at `at`.
func (e *Engine) setPayload(at addr, payload int64) {
	w := e.rawHeaderAt(at).withPayload(payload)
	e.setRawHeaderAt(at, w)
	if w.status()&statusThisAlloc == 0 {
		e.setFooterSlot(at+addr(w.size()), w)
	}
}

// payloadAddrOf and blockAddrOf convert between a block's heap offset and the
// user-facing payload address, which always starts 16 bytes into the block
// (past the prev-footer slot and the header).
func payloadAddrOf(at addr) addr { return at + 16 }
func blockAddrOf(p addr) addr    { return p - 16 }
