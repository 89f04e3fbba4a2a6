// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Construction-time configuration, in the shape of dbm's options.go: no
// flags, no config file, just functional options over constructor
// arguments.

package malloc

type engineConfig struct {
	magic             uint64
	pageSize          int64
	quickListCount    int
	quickListCapacity int
}

func defaultConfig() engineConfig {
	return engineConfig{
		magic:             defaultMagic,
		pageSize:          defaultPageSize,
		quickListCount:    defaultQuickListCount,
		quickListCapacity: defaultQuickListCapacity,
	}
}

// Option configures an Engine at construction time.
type Option func(*engineConfig)

// WithMagic sets the XOR obfuscation constant. It is a test hook: calling
// SetMagic (the runtime equivalent) after the first Allocate is rejected,
// since the Engine's magic is treated as constant from then on.
func WithMagic(magic uint64) Option {
	return func(c *engineConfig) { c.magic = magic }
}

// WithPageSize overrides the page granularity used when NewEngine must
// construct its own default Pager (a caller-supplied Pager already fixes
// its own page size, making this a no-op in that case).
func WithPageSize(n int64) Option {
	return func(c *engineConfig) { c.pageSize = n }
}

// WithQuickListCount overrides the number of fixed-size quick lists
// (default 10, covering sizes [32, 176] at the default alignment).
func WithQuickListCount(n int) Option {
	return func(c *engineConfig) { c.quickListCount = n }
}

// WithQuickListCapacity overrides how many blocks a quick list holds before
// a push forces a flush (default 5).
func WithQuickListCapacity(n int) Option {
	return func(c *engineConfig) { c.quickListCapacity = n }
}
