// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sfalloc

import "github.com/cznic/sfalloc/malloc"

// def is the process-default Engine the package-level functions below
// operate on. Tests and hosts needing more than one heap should construct
// their own *malloc.Engine directly instead.
var def = malloc.NewEngine(nil)

// Allocate reserves size payload bytes on the process-default heap.
func Allocate(size int64) (malloc.Ptr, error) { return def.Allocate(size) }

// Free releases a block previously returned by Allocate/Reallocate.
func Free(p malloc.Ptr) { def.Free(p) }

// Reallocate resizes a block previously returned by Allocate/Reallocate.
func Reallocate(p malloc.Ptr, size int64) (malloc.Ptr, error) {
	return def.Reallocate(p, size)
}

// Payload returns a view of a block's live payload bytes.
func Payload(p malloc.Ptr) []byte { return def.Payload(p) }

// SetMagic overrides the header obfuscation constant; it MUST be called
// before the first Allocate.
func SetMagic(magic uint64) error { return def.SetMagic(magic) }

// InternalFragmentation reports the process-default heap's current
// fragmentation ratio.
func InternalFragmentation() float64 { return def.InternalFragmentation() }

// PeakUtilization reports the process-default heap's current utilization
// ratio (see malloc.Engine.PeakUtilization for the "peak" naming note).
func PeakUtilization() float64 { return def.PeakUtilization() }

// MaxUtilization reports the process-default heap's historical utilization
// high-water mark.
func MaxUtilization() float64 { return def.MaxUtilization() }

// Errno returns the out-of-memory signal set by the most recent failed
// Allocate/Reallocate on the process-default heap, or nil.
func Errno() error { return def.Errno() }

// ClearErrno clears the out-of-memory signal on the process-default heap.
func ClearErrno() { def.ClearErrno() }
