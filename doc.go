// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sfalloc is a thin, process-default wrapper around the core engine
// in package malloc - analogous to how package dbm wraps lldb.Allocator
// behind a friendlier surface. All of the interesting behavior lives in
// malloc.Engine.
package sfalloc
