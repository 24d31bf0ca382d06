// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydro

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestManyToOneRoundTrip(t *testing.T) {
	chk.PrintTitle("ManyToOne/OneToMany round trip")
	dim := []int{2, 3, 4}
	for a := 0; a < dim[0]; a++ {
		for b := 0; b < dim[1]; b++ {
			for c := 0; c < dim[2]; c++ {
				indx := []int{a, b, c}
				j, err := ManyToOne(dim, indx)
				if err != nil {
					t.Fatalf("ManyToOne: %v", err)
				}
				back := OneToMany(dim, j)
				if back[0] != a || back[1] != b || back[2] != c {
					t.Fatalf("round trip: got %v, want %v", back, indx)
				}
			}
		}
	}
}

func TestManyToOneSizeMismatch(t *testing.T) {
	chk.PrintTitle("ManyToOne size mismatch error")
	if _, err := ManyToOne([]int{2, 3}, []int{0}); err == nil {
		t.Fatalf("expected an error for a length mismatch")
	}
}

func TestTwoToOneRoundTrip(t *testing.T) {
	chk.PrintTitle("TwoToOne/OneToTwo round trip")
	dim := []int{2, 3, 4}
	for axis, d := range dim {
		for k := 0; k < d; k++ {
			j, err := TwoToOne(dim, axis, k)
			if err != nil {
				t.Fatalf("TwoToOne: %v", err)
			}
			a2, k2 := OneToTwo(dim, j)
			if a2 != axis || k2 != k {
				t.Fatalf("round trip: got (%d,%d), want (%d,%d)", a2, k2, axis, k)
			}
		}
	}
}

func TestHydroTotal(t *testing.T) {
	chk.PrintTitle("Hydro.Total product vs sum mode")
	prod := New(None, nil, []int{2, 3, 4})
	if prod.Total() != 24 {
		t.Fatalf("product Total: got %d, want 24", prod.Total())
	}
	sum := New(Spherical, nil, []int{2, 3, 4})
	if sum.Total() != 9 {
		t.Fatalf("sum Total: got %d, want 9", sum.Total())
	}
}

func TestRefinePass(t *testing.T) {
	chk.PrintTitle("RefinePass reoptimizes each axis")
	dim := []int{3, 3}
	ps := NewPeelState(dim)
	ps.Best = []int{0, 0}
	// axis 1's best is 2 regardless of axis 0; axis 0's best is 1
	// regardless of axis 1 -- a fully separable objective.
	evaluate := func(axis, k int, fixed []int) float64 {
		if axis == 0 {
			return -float64((k - 1) * (k - 1))
		}
		return -float64((k - 2) * (k - 2))
	}
	changed := RefinePass(dim, ps, evaluate)
	if !changed {
		t.Fatalf("expected RefinePass to change at least one axis")
	}
	if ps.Best[0] != 1 || ps.Best[1] != 2 {
		t.Fatalf("Best: got %v, want [1 2]", ps.Best)
	}
	// a second pass should be a no-op.
	if RefinePass(dim, ps, evaluate) {
		t.Fatalf("expected a converged second pass to report no change")
	}
}

func TestHydroSnapshotAccessors(t *testing.T) {
	chk.PrintTitle("Hydro snapshot accessors")
	// TimeIndexAt(j) and TimeAt/DtAt(it) both index the same dense
	// Snapshots slice; in the common (non-reordered) case a snapshot's
	// own TimeIndex equals its position, so TimeIndexAt(j) == j.
	h := New(None, []Snapshot{{TimeIndex: 0, Time: 1.5, Dt: 0.1}}, []int{1})
	if h.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", h.Len())
	}
	if h.TimeIndexAt(0) != 0 {
		t.Fatalf("TimeIndexAt: got %d, want 0", h.TimeIndexAt(0))
	}
	if h.TimeAt(0) != 1.5 {
		t.Fatalf("TimeAt: got %g, want 1.5", h.TimeAt(0))
	}
	if h.DtAt(0) != 0.1 {
		t.Fatalf("DtAt: got %g, want 0.1", h.DtAt(0))
	}
}

func TestHydroTimeAtByDiskIDNotSequencePosition(t *testing.T) {
	chk.PrintTitle("TimeAt/DtAt index by on-disk snapshot id, not by sequence position")
	// Snapshot time_index values need not equal their sequence position
	// (spec.md section 6: the hydro file's time_index is read verbatim).
	// Here sequence position 0 carries id 7 and sequence position 1
	// carries id 3.
	h := New(None, []Snapshot{
		{TimeIndex: 7, Time: 10, Dt: 0.5},
		{TimeIndex: 3, Time: 20, Dt: 0.25},
	}, []int{2})
	if got := h.TimeIndexAt(0); got != 7 {
		t.Fatalf("TimeIndexAt(0): got %d, want 7", got)
	}
	if got := h.TimeAt(7); got != 10 {
		t.Fatalf("TimeAt(7): got %g, want 10 (sequence position 0's snapshot)", got)
	}
	if got := h.DtAt(7); got != 0.5 {
		t.Fatalf("DtAt(7): got %g, want 0.5", got)
	}
	if got := h.TimeAt(3); got != 20 {
		t.Fatalf("TimeAt(3): got %g, want 20 (sequence position 1's snapshot)", got)
	}
	if got := h.DtAt(3); got != 0.25 {
		t.Fatalf("DtAt(3): got %g, want 0.25", got)
	}
}
