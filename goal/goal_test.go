// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package goal

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/LANLhakel/FESTR-sub001/arrdbl"
)

func TestObjectiveScoreAbsDiff(t *testing.T) {
	chk.PrintTitle("Objective.Score absolute-difference metric")
	o := NewObjective("det0", nil, []float64{1, 2, 3}, nil)
	ya := arrdbl.FromSlice([]float64{1, 2, 3})
	fitness, scale := o.Score(nil, ya)
	if fitness != 0 {
		t.Fatalf("exact match: got fitness %g, want 0", fitness)
	}
	if scale != 1 {
		t.Fatalf("no rescale requested: got scale %g, want 1", scale)
	}

	yb := arrdbl.FromSlice([]float64{2, 3, 4})
	fitness2, _ := o.Score(nil, yb)
	if fitness2 >= 0 {
		t.Fatalf("mismatched spectrum: got fitness %g, want < 0", fitness2)
	}
}

func TestObjectiveScoreChiSquareWithRescale(t *testing.T) {
	chk.PrintTitle("Objective.Score chi-squared with best-fit rescale")
	o := NewObjective("det0", []float64{1, 2, 3}, []float64{2, 4, 6}, []float64{1, 1, 1})
	o.Rescale = true
	ya := arrdbl.FromSlice([]float64{1, 2, 3})
	fitness, scale := o.Score([]float64{1, 2, 3}, ya)
	if math.Abs(scale-2) > 1e-9 {
		t.Fatalf("best-fit scale: got %g, want 2", scale)
	}
	if math.Abs(fitness) > 1e-9 {
		t.Fatalf("perfectly-scalable match: got fitness %g, want ~0", fitness)
	}
}

func TestGoalUpdateBestIsJointAcrossObjectives(t *testing.T) {
	chk.PrintTitle("Goal.UpdateBest joint aggregate decision")
	g := New()
	a := NewObjective("a", nil, []float64{1, 1}, nil)
	b := NewObjective("b", nil, []float64{1, 1}, nil)
	g.Add(a)
	g.Add(b)

	hv := []float64{0, 1}
	// case 0: a matches exactly, b is off by 1 each bin.
	agg0 := g.UpdateBest(0, hv, []arrdbl.ArrDbl{
		arrdbl.FromSlice([]float64{1, 1}),
		arrdbl.FromSlice([]float64{2, 2}),
	})
	if g.BestCase() != 0 {
		t.Fatalf("BestCase after case 0: got %d, want 0", g.BestCase())
	}

	// case 1: both objectives off by 0.2 each bin -- better aggregate
	// than case 0 even though neither objective alone is a perfect match.
	agg1 := g.UpdateBest(1, hv, []arrdbl.ArrDbl{
		arrdbl.FromSlice([]float64{1.2, 1.2}),
		arrdbl.FromSlice([]float64{1.2, 1.2}),
	})
	if agg1 <= agg0 {
		t.Fatalf("expected case 1's aggregate (%g) to beat case 0's (%g)", agg1, agg0)
	}
	if g.BestCase() != 1 {
		t.Fatalf("BestCase after case 1: got %d, want 1", g.BestCase())
	}
	if a.BestCase != 1 || b.BestCase != 1 {
		t.Fatalf("expected both objectives synced to the joint winner, got a=%d b=%d", a.BestCase, b.BestCase)
	}

	// case 2: worse aggregate -- best case must not change (tie/worse keeps earlier).
	g.UpdateBest(2, hv, []arrdbl.ArrDbl{
		arrdbl.FromSlice([]float64{5, 5}),
		arrdbl.FromSlice([]float64{5, 5}),
	})
	if g.BestCase() != 1 {
		t.Fatalf("BestCase after a worse case: got %d, want still 1", g.BestCase())
	}
}
