// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagnostics

import "sync"

// parallelFor partitions the index range [0,n) across nthreads goroutines
// and runs work(i) for every i, per spec.md section 5's within-rank
// thread pool: block mode (contiguous n/nthreads slices per thread) when
// there are more tasks than threads, task-per-thread mode (one task per
// goroutine, any remainder run on the calling goroutine) otherwise. There
// is no cross-task state beyond whatever work closes over, so no
// synchronization is needed beyond the final join -- matching the
// worker-pool idiom the example corpus uses for embarrassingly parallel
// per-item loops (one goroutine per chunk, a sync.WaitGroup join, no
// shared accumulator).
func parallelFor(n, nthreads int, work func(i int)) {
	if n <= 0 {
		return
	}
	if nthreads < 1 {
		nthreads = 1
	}
	if nthreads == 1 || n == 1 {
		for i := 0; i < n; i++ {
			work(i)
		}
		return
	}

	var wg sync.WaitGroup
	if n > nthreads {
		// Block mode: contiguous n/nthreads slices per thread, any
		// remainder folded into the last slice.
		chunk := n / nthreads
		if chunk == 0 {
			chunk = 1
		}
		start := 0
		for t := 0; t < nthreads && start < n; t++ {
			end := start + chunk
			if t == nthreads-1 || end > n {
				end = n
			}
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					work(i)
				}
			}(start, end)
			start = end
		}
		wg.Wait()
		return
	}

	// Task-per-thread mode: n <= nthreads, one task per goroutine except
	// the last, which runs on the calling goroutine (spec.md section 5:
	// "remainder on the calling thread").
	for i := 0; i < n-1; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			work(i)
		}(i)
	}
	wg.Wait()
	work(n - 1)
}
