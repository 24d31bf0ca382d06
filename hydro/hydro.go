// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hydro implements Hydro: the ordered sequence of hydrodynamic
// snapshot descriptors and the parameter-space indexing an inverse
// search enumerates, per spec.md sections 3 and 4.10 -- a cartesian
// product under symmetry "none", or a telescoping sum (one axis per
// spherical shell) under "spherical".
package hydro

import (
	"github.com/cpmech/gosl/chk"
)

// Symmetry selects product-mode or sum-mode parameter indexing.
type Symmetry int

const (
	None Symmetry = iota
	Spherical
)

// Snapshot is one hydro time-snapshot descriptor: the on-disk time
// index, the physical time it represents, and the time step weight
// (delta-t) used when accumulating time-integrated output.
type Snapshot struct {
	TimeIndex int
	Time      float64
	Dt        float64
}

// Hydro sequences hydro snapshots and, for inverse mode, indexes a
// parameter-space product (symmetry none) or sum (symmetry spherical)
// over per-axis dimension sizes.
type Hydro struct {
	Symmetry  Symmetry
	Snapshots []Snapshot

	// Dim holds the per-axis sizes: under None, one size per cartesian
	// dimension; under Spherical, one size per shell (sum-mode axis).
	Dim []int

	// bySnapshotID maps an on-disk snapshot id (Snapshot.TimeIndex, read
	// verbatim from the hydro file and not guaranteed to equal its
	// sequence position) back to that snapshot's position in Snapshots,
	// so TimeAt/DtAt can be indexed by id rather than by sequence
	// position even when the two differ.
	bySnapshotID map[int]int
}

// New constructs a Hydro over the given snapshot sequence and parameter
// axis sizes.
func New(sym Symmetry, snapshots []Snapshot, dim []int) *Hydro {
	bySnapshotID := make(map[int]int, len(snapshots))
	for j, s := range snapshots {
		bySnapshotID[s.TimeIndex] = j
	}
	return &Hydro{Symmetry: sym, Snapshots: snapshots, Dim: dim, bySnapshotID: bySnapshotID}
}

// Len returns the number of snapshots.
func (h *Hydro) Len() int { return len(h.Snapshots) }

// TimeIndexAt returns the on-disk snapshot id for sequence position j,
// Snapshots[j].TimeIndex as read from the hydro file. It equals j only
// when the file lists the ids in sequence order; no mode maps j to
// itself.
func (h *Hydro) TimeIndexAt(j int) int {
	return h.Snapshots[j].TimeIndex
}

// indexForID resolves an on-disk snapshot id to its position in
// Snapshots, panicking (out-of-range) if no snapshot carries that id --
// ids are read verbatim from the hydro file (spec.md section 6) and are
// not guaranteed to equal their sequence position.
func (h *Hydro) indexForID(it int) int {
	j, ok := h.bySnapshotID[it]
	if !ok {
		chk.Panic("hydro: no snapshot with time_index=%d", it)
	}
	return j
}

// TimeAt returns the physical time of the snapshot whose on-disk id is it.
func (h *Hydro) TimeAt(it int) float64 { return h.Snapshots[h.indexForID(it)].Time }

// DtAt returns the time-step weight of the snapshot whose on-disk id is it.
func (h *Hydro) DtAt(it int) float64 { return h.Snapshots[h.indexForID(it)].Dt }

// GetNdim returns the per-axis parameter dimension sizes.
func (h *Hydro) GetNdim() []int { return h.Dim }

func rangeErr(op string, got, want int) error {
	return chk.Err("hydro.%s: size mismatch: got %d, want %d", op, got, want)
}

// ManyToOne flattens a per-axis index vector indx (len == len(dim),
// indx[0] most significant) into a single linear index j, product mode.
// Raises a range error on a length mismatch, and panics (out-of-range)
// if any indx[i] >= dim[i], per spec.md section 4.10.
func ManyToOne(dim, indx []int) (int, error) {
	if len(indx) != len(dim) {
		return 0, rangeErr("ManyToOne", len(indx), len(dim))
	}
	j := 0
	for i, d := range dim {
		if indx[i] < 0 || indx[i] >= d {
			chk.Panic("hydro.ManyToOne: index[%d]=%d out of range [0,%d)", i, indx[i], d)
		}
		j = j*d + indx[i]
	}
	return j, nil
}

// OneToMany expands linear index j into a per-axis index vector, the
// inverse of ManyToOne; indx[0] is most significant.
func OneToMany(dim []int, j int) []int {
	indx := make([]int, len(dim))
	for i := len(dim) - 1; i >= 0; i-- {
		indx[i] = j % dim[i]
		j /= dim[i]
	}
	return indx
}

// TwoToOne flattens a (axis, k) pair into a single linear sum-mode index
// j: the concatenation of all axes' index ranges, axis-major, used by
// the spherical-symmetry "peeling" search where each shell contributes
// its own independent axis (spec.md section 4.10).
func TwoToOne(dim []int, axis, k int) (int, error) {
	if axis < 0 || axis >= len(dim) {
		return 0, chk.Err("hydro.TwoToOne: axis %d out of range [0,%d)", axis, len(dim))
	}
	if k < 0 || k >= dim[axis] {
		chk.Panic("hydro.TwoToOne: k=%d out of range [0,%d) for axis %d", k, dim[axis], axis)
	}
	j := 0
	for a := 0; a < axis; a++ {
		j += dim[a]
	}
	return j + k, nil
}

// OneToTwo expands a sum-mode linear index j back into (axis, k), the
// inverse of TwoToOne.
func OneToTwo(dim []int, j int) (axis, k int) {
	for a, d := range dim {
		if j < d {
			return a, j
		}
		j -= d
	}
	chk.Panic("hydro.OneToTwo: index %d out of range of dim %v", j, dim)
	return 0, 0
}

// Total returns the size of the full parameter space: the product of
// dim (symmetry None) or the sum of dim (symmetry Spherical).
func (h *Hydro) Total() int {
	if h.Symmetry == Spherical {
		s := 0
		for _, d := range h.Dim {
			s += d
		}
		return s
	}
	p := 1
	for _, d := range h.Dim {
		p *= d
	}
	return p
}

// PeelState holds the running best index chosen for each spherical shell
// axis during the peeling search (spec.md section 4.8: "analyze"
// enumerates... the peeled-onion order in which zone i's parameter axis
// is explored only after zones > i are fixed to their best choice").
type PeelState struct {
	Best []int // Best[axis] is the currently-fixed best index for that axis
}

// NewPeelState allocates a PeelState with every axis defaulted to index 0.
func NewPeelState(dim []int) *PeelState {
	return &PeelState{Best: make([]int, len(dim))}
}

// RefinePass is the post-peeling refine pass (spec.md section 9's second
// Open Question): it re-optimizes every shell axis in turn, from axis 0
// upward, holding every other axis at its current ps.Best and updating
// ps.Best as it goes. evaluate scores one candidate index for one axis,
// holding every other axis at ps.Best; RefinePass calls it once per
// (axis, candidate) pair and returns whether any axis's chosen best
// index changed.
func RefinePass(dim []int, ps *PeelState, evaluate func(axis, k int, fixed []int) float64) bool {
	changed := false
	for axis, d := range dim {
		bestK := ps.Best[axis]
		bestFitness := evaluate(axis, bestK, ps.Best)
		for k := 0; k < d; k++ {
			if k == bestK {
				continue
			}
			f := evaluate(axis, k, ps.Best)
			if f > bestFitness {
				bestFitness, bestK = f, k
			}
		}
		if bestK != ps.Best[axis] {
			ps.Best[axis] = bestK
			changed = true
		}
	}
	return changed
}
