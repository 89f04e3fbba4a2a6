// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Introspection metrics, plus the historical-peak tracker layered on top of
// the instantaneous utilization ratio.

package malloc

// InternalFragmentation returns the current ratio of allocated payload
// bytes to allocated block bytes, summed over every allocated block with a
// non-zero payload size. It is zero if the heap is uninitialized or no such
// block exists.
func (e *Engine) InternalFragmentation() float64 {
	if !e.initialized {
		return 0
	}

	var sumPayload, sumBlock int64
	epilogue := addr(len(e.heap) - epilogueSize)
	for at := addr(prologueSize); at < epilogue; {
		size := e.sizeOf(at)
		if e.thisAlloc(at) {
			if payload := e.payloadOf(at); payload > 0 {
				sumPayload += payload
				sumBlock += size
			}
		}
		at += addr(size)
	}

	if sumBlock == 0 {
		return 0
	}
	return float64(sumPayload) / float64(sumBlock)
}

// PeakUtilization returns the *current* ratio of allocated payload bytes to
// total heap size, despite the name - see MaxUtilization for a genuine
// running maximum across the heap's lifetime.
func (e *Engine) PeakUtilization() float64 {
	if !e.initialized || len(e.heap) == 0 {
		return 0
	}

	var sumPayload int64
	epilogue := addr(len(e.heap) - epilogueSize)
	for at := addr(prologueSize); at < epilogue; {
		size := e.sizeOf(at)
		if e.thisAlloc(at) {
			sumPayload += e.payloadOf(at)
		}
		at += addr(size)
	}

	return float64(sumPayload) / float64(len(e.heap))
}

// MaxUtilization returns the highest PeakUtilization observed across every
// call that changed allocation state.
func (e *Engine) MaxUtilization() float64 {
	return e.maxUtilization
}

func (e *Engine) bumpMaxUtilization() {
	if cur := e.PeakUtilization(); cur > e.maxUtilization {
		e.maxUtilization = cur
	}
}
