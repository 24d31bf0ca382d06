// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package goal implements Goal and Objective: a collection of target
// spectra with weights, scored against computed spectra by chi-squared
// or absolute difference, with best-case tracking across an inverse
// search (spec.md section 4.9).
package goal

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/LANLhakel/FESTR-sub001/arrdbl"
)

// AxisMode selects how an objective's abscissa is interpolated when
// resampling a computed spectrum onto it: linear or logarithmic, chosen
// independently per axis (spec.md section 4.9: "piecewise-linear on
// (lin|log)x(lin|log) per objective axis modes").
type AxisMode int

const (
	Linear AxisMode = iota
	Log
)

// Objective is one target spectrum: a measured spectrum Y, optionally
// an abscissa X and per-point weights W, plus the scoring/bookkeeping
// state tracked across an inverse search.
type Objective struct {
	Name   string
	X      []float64 // optional; nil means "use the detector's own hv grid"
	Y      []float64
	W      []float64 // optional; nil means uniform weight 1
	Weight float64   // this objective's contribution weight within the Goal
	XMode, YMode AxisMode

	Rescale bool // solve for a best-fit scalar before scoring

	BestScale   float64
	BestCase    int
	BestFitness float64
	haveBest    bool
}

// NewObjective constructs an Objective with weight 1 and no best case
// recorded yet.
func NewObjective(name string, x, y, w []float64) *Objective {
	return &Objective{Name: name, X: x, Y: y, W: w, Weight: 1}
}

// resample interpolates ya (sampled on hvDetector) onto this objective's
// own abscissa (o.X if present, else hvDetector unchanged), honoring
// XMode/YMode.
func (o *Objective) resample(hvDetector []float64, ya arrdbl.ArrDbl) []float64 {
	x := o.X
	if x == nil {
		if ya.Len() != len(o.Y) {
			// spec.md section 7: recoverable -- fit to the objective's
			// own length by truncating (or zero-padding a shorter ya)
			// rather than failing outright.
			return truncateOrPad(ya, len(o.Y))
		}
		return ya.Slice()
	}
	out := make([]float64, len(x))
	for i, xq := range x {
		out[i] = interpAxis(hvDetector, ya, xq, o.XMode, o.YMode)
	}
	return out
}

func truncateOrPad(ya arrdbl.ArrDbl, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < ya.Len() {
			out[i] = ya.At(i)
		}
	}
	return out
}

func transform(mode AxisMode, v float64) float64 {
	if mode == Log {
		if v <= 0 {
			return -arrdbl.BIG
		}
		return math.Log(v)
	}
	return v
}

func inverseTransform(mode AxisMode, v float64) float64 {
	if mode == Log {
		return math.Exp(v)
	}
	return v
}

func interpAxis(hv []float64, y arrdbl.ArrDbl, xq float64, xMode, yMode AxisMode) float64 {
	n := len(hv)
	if n == 0 {
		return 0
	}
	txq := transform(xMode, xq)
	tx0, txn := transform(xMode, hv[0]), transform(xMode, hv[n-1])
	if txq <= tx0 {
		return y.At(0)
	}
	if txq >= txn {
		return y.At(n - 1)
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if transform(xMode, hv[mid]) <= txq {
			lo = mid
		} else {
			hi = mid
		}
	}
	txLo, txHi := transform(xMode, hv[lo]), transform(xMode, hv[hi])
	tyLo, tyHi := transform(yMode, y.At(lo)), transform(yMode, y.At(hi))
	t := 0.0
	if txHi != txLo {
		t = (txq - txLo) / (txHi - txLo)
	}
	return inverseTransform(yMode, tyLo+t*(tyHi-tyLo))
}

func weightAt(w []float64, i int) float64 {
	if w == nil {
		return 1
	}
	return w[i]
}

// chiSquare returns sum_k w_k*(ya_k-y_k)^2.
func chiSquare(ya, y, w []float64) float64 {
	s := 0.0
	for k := range y {
		d := ya[k] - y[k]
		s += weightAt(w, k) * d * d
	}
	return s
}

// absDiff returns sum_k |ya_k-y_k|.
func absDiff(ya, y []float64) float64 {
	s := 0.0
	for k := range y {
		s += math.Abs(ya[k] - y[k])
	}
	return s
}

func metric(ya, y, w []float64, hasW bool) float64 {
	if hasW {
		return chiSquare(ya, y, w)
	}
	return absDiff(ya, y)
}

// bestScaleFor solves for the scalar s>=0 minimizing the chosen metric
// between s*ya and y. For chi-squared this is the closed-form weighted
// least-squares solution; for absolute difference (no w/x structure to
// exploit analytically) a ternary search on the non-negative scale is
// used instead, since the metric is convex in s.
func bestScaleFor(ya, y, w []float64, hasW bool) float64 {
	if hasW {
		num, den := 0.0, 0.0
		for k := range y {
			wk := weightAt(w, k)
			num += wk * ya[k] * y[k]
			den += wk * ya[k] * ya[k]
		}
		if den < arrdbl.SMALL {
			return 0
		}
		s := num / den
		if s < 0 {
			s = 0
		}
		return s
	}
	lo, hi := 0.0, 2.0
	for absDiffScaled(ya, y, hi) < absDiffScaled(ya, y, hi/2) {
		hi *= 2
		if hi > 1e12 {
			break
		}
	}
	for i := 0; i < 60; i++ {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if absDiffScaled(ya, y, m1) < absDiffScaled(ya, y, m2) {
			hi = m2
		} else {
			lo = m1
		}
	}
	return (lo + hi) / 2
}

func absDiffScaled(ya, y []float64, s float64) float64 {
	acc := 0.0
	for k := range y {
		acc += math.Abs(s*ya[k] - y[k])
	}
	return acc
}

// Score evaluates this objective against a computed spectrum ya sampled
// on hvDetector, per spec.md section 4.9: resample onto o.X (if
// present), then score by chi-squared (if X and W both present) or
// absolute difference (otherwise), optionally solving for a best-fit
// scale first. Returns the objective's fitness (= -metric) and the
// scale used (1 if Rescale is false).
func (o *Objective) Score(hvDetector []float64, ya arrdbl.ArrDbl) (fitness, scale float64) {
	resampled := o.resample(hvDetector, ya)
	hasXW := o.X != nil && o.W != nil
	scale = 1
	if o.Rescale {
		scale = bestScaleFor(resampled, o.Y, o.W, hasXW)
	}
	scaled := make([]float64, len(resampled))
	for i, v := range resampled {
		scaled[i] = v * scale
	}
	m := metric(scaled, o.Y, o.W, hasXW)
	return -m, scale
}

// setBest unconditionally records this objective's fitness/scale at
// caseID; called by Goal.UpdateBest only once the Goal has decided
// (based on the aggregate fitness across all objectives) that caseID is
// the new overall best case.
func (o *Objective) setBest(caseID int, fitness, scale float64) {
	o.haveBest = true
	o.BestCase = caseID
	o.BestFitness = fitness
	o.BestScale = scale
}

// Goal is a weighted collection of Objectives scored together against
// one candidate's computed spectra.
type Goal struct {
	Objectives []*Objective

	bestAggregate float64
	haveBest      bool
	bestCaseID    int
}

// New constructs an empty Goal.
func New() *Goal { return &Goal{} }

// Add appends an objective.
func (g *Goal) Add(o *Objective) { g.Objectives = append(g.Objectives, o) }

// ScoreAll scores every objective against its matching computed spectrum
// (indexed the same way as g.Objectives) and returns the aggregate
// fitness: sum over objectives of weight*fitness.
func (g *Goal) ScoreAll(hvDetector []float64, computed []arrdbl.ArrDbl) (aggregate float64, perObjective []float64, scales []float64) {
	if len(computed) != len(g.Objectives) {
		chk.Panic("goal.ScoreAll: %d computed spectra != %d objectives", len(computed), len(g.Objectives))
	}
	perObjective = make([]float64, len(g.Objectives))
	scales = make([]float64, len(g.Objectives))
	for i, o := range g.Objectives {
		f, s := o.Score(hvDetector, computed[i])
		perObjective[i] = f
		scales[i] = s
		aggregate += o.Weight * f
	}
	return
}

// UpdateBest scores every objective against this candidate's computed
// spectra and replaces the Goal's recorded best case only if the
// aggregate fitness (sum over objectives, weighted by per-objective
// weight) strictly exceeds the prior best; ties keep the earlier case
// (spec.md section 4.9). When it does replace, every objective's own
// best-case bookkeeping (BestCase/BestFitness/BestScale) is updated to
// this candidate's values, even for an objective whose own fitness did
// not individually improve -- the selection is joint, over the Goal as
// a whole.
func (g *Goal) UpdateBest(caseID int, hvDetector []float64, computed []arrdbl.ArrDbl) (aggregate float64) {
	aggregate, perObjective, scales := g.ScoreAll(hvDetector, computed)
	if !g.haveBest || aggregate > g.bestAggregate {
		g.haveBest = true
		g.bestAggregate = aggregate
		g.bestCaseID = caseID
		for i, o := range g.Objectives {
			o.setBest(caseID, perObjective[i], scales[i])
		}
	}
	return aggregate
}

// BestCase returns the Goal's recorded best case id, or -1 if UpdateBest
// has never been called.
func (g *Goal) BestCase() int {
	if !g.haveBest {
		return -1
	}
	return g.bestCaseID
}

// BestAggregate returns the best aggregate fitness recorded so far.
func (g *Goal) BestAggregate() float64 { return g.bestAggregate }
