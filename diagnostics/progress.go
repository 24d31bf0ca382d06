// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagnostics

import (
	"sync"

	"github.com/cpmech/gosl/io"
)

// Progress serializes rank-0 progress printing at a caller-chosen
// frequency, per spec.md section 5 ("a single mutex guards progress-log
// prints... to keep stdout legible") and section 6's diagnostics list
// file "prints" key. A zero Every disables printing.
type Progress struct {
	mu    sync.Mutex
	Every int
	total int
	count int
}

// NewProgress returns a Progress that reports every `every` calls to
// Tick (every <= 0 disables reporting).
func NewProgress(every, total int) *Progress {
	return &Progress{Every: every, total: total}
}

// Tick advances the counter and prints a one-line report when it crosses
// a multiple of Every, using github.com/cpmech/gosl/io's Pf the way
// fem.FEM reports solver progress.
func (p *Progress) Tick(label string) {
	if p == nil || p.Every <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	if p.count%p.Every == 0 || p.count == p.total {
		if p.total > 0 {
			io.Pf("> %s: %d of %d\n", label, p.count, p.total)
		} else {
			io.Pf("> %s: %d\n", label, p.count)
		}
	}
}
