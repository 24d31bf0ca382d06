// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagnostics

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/LANLhakel/FESTR-sub001/arrdbl"
	"github.com/LANLhakel/FESTR-sub001/database"
	"github.com/LANLhakel/FESTR-sub001/detector"
	"github.com/LANLhakel/FESTR-sub001/face"
	"github.com/LANLhakel/FESTR-sub001/goal"
	"github.com/LANLhakel/FESTR-sub001/grid"
	"github.com/LANLhakel/FESTR-sub001/hydro"
	"github.com/LANLhakel/FESTR-sub001/inp"
	"github.com/LANLhakel/FESTR-sub001/mesh"
	"github.com/LANLhakel/FESTR-sub001/ray"
	"github.com/LANLhakel/FESTR-sub001/taskpool"
)

// Run is the collection of Detectors, the Database and Hydro they share,
// and (in inverse mode) the Goal they are scored against -- one per
// festr execution, mirroring the original Diagnostics class.
type Run struct {
	DB    *database.Database
	Tbl   *database.Table
	Hydro *hydro.Hydro
	Goal  *goal.Goal

	Detectors []*detector.Detector
	OutPath   string

	// HydroPath is the directory holding grid_<it>.txt, mesh_<it>.txt,
	// and time_<it>.txt for every snapshot it.
	HydroPath string

	// Comm, when non-nil, distributes each detector's per-pixel bundle
	// evaluation across MPI ranks via taskpool.TaskPool; nil runs every
	// pixel in-process (the common single-rank case).
	Comm taskpool.Comm

	// NThreads is the within-rank thread-pool size used to partition a
	// pixel's direction-bundle loop (spec.md section 5: "the direction
	// loop may be threaded"). 0 or 1 runs every direction serially.
	NThreads int

	// Progress, when non-nil, receives one-line progress reports at the
	// frequency configured by the diagnostics list file's "prints" key
	// (spec.md section 6). Only rank 0 should set this.
	Progress *Progress
}

func (r *Run) snapshotPaths(it int) (gridF, meshF, timeF string) {
	return io.Sf("%sgrid_%d.txt", r.HydroPath, it),
		io.Sf("%smesh_%d.txt", r.HydroPath, it),
		io.Sf("%stime_%d.txt", r.HydroPath, it)
}

// LoadSnapshot reads the Grid, Mesh, and material/thermodynamic state for
// hydro snapshot it.
func (r *Run) LoadSnapshot(it int) (*grid.Grid, *mesh.Mesh, error) {
	gridF, meshF, timeF := r.snapshotPaths(it)
	g, err := inp.ReadGridFile(gridF)
	if err != nil {
		return nil, nil, err
	}
	m, err := inp.ReadMeshFile(meshF, g)
	if err != nil {
		return nil, nil, err
	}
	states, err := inp.ReadTimeFile(timeF)
	if err != nil {
		return nil, nil, err
	}
	inp.ApplyTimeState(m, states)
	return g, m, nil
}

func (r *Run) backlighterSpectrum(d *detector.Detector) arrdbl.ArrDbl {
	return d.Back.Spectrum(d.Hv)
}

// tracePixel traces every direction in a pixel's bundle and returns the
// bundle-accumulated per-pixel spectrum (already pixel-area scaled). The
// direction loop has no cross-direction state beyond the per-direction
// slot each goroutine writes (spec.md section 4.8 step 3), so it is
// partitioned across r.NThreads goroutines via parallelFor and reduced
// here on the calling goroutine once every direction has finished.
func (r *Run) tracePixel(d *detector.Detector, g *grid.Grid, m *mesh.Mesh, ix, iy int) (arrdbl.ArrDbl, error) {
	origin := d.PixelOrigin(ix, iy)
	bz := d.Boresight()
	dirs := d.Bundle.Directions(bz)
	back := r.backlighterSpectrum(d)

	// Only the spherical-symmetry central pixel (ix==0) may populate each
	// zone's optical-coefficient cache; every other pixel this time step
	// only reads whatever the central pixel already cached (spec.md
	// section 4.5 step 1, section 5).
	populateCache := d.Symmetry == detector.Spherical && ix == 0

	perDirection := make([]arrdbl.ArrDbl, len(dirs))
	weights := make([]float64, len(dirs))
	errs := make([]error, len(dirs))
	parallelFor(len(dirs), r.NThreads, func(i int) {
		dir := dirs[i]
		rr := ray.New(origin, dir.U)
		rr.Trace(g, m)
		y, err := ray.CrossMesh(g, m, r.DB, r.Tbl, rr.Segments, back, populateCache)
		perDirection[i] = y
		weights[i] = dir.Weight
		errs[i] = err
	})
	for _, err := range errs {
		if err != nil {
			return arrdbl.ArrDbl{}, err
		}
	}
	return d.AccumulateBundle(ix, iy, perDirection, weights), nil
}

// doPatches fills d.Yp for every pixel of d at the currently loaded
// snapshot, then sets d.Ys to the space integral. When r.Comm is set,
// pixel work is distributed through a TaskPool exactly as the original
// Detector::do_patches dispatches PatchID/PatchSpectrum pairs; otherwise
// pixels are evaluated directly in a simple loop.
func (r *Run) doPatches(d *detector.Detector, g *grid.Grid, m *mesh.Mesh) error {
	nx := d.NpixX()
	ny := d.Ny
	if d.Symmetry == detector.Spherical {
		ny = 1
	}

	if r.Comm == nil || r.Comm.Size() < 2 {
		for ix := 0; ix < nx; ix++ {
			for iy := 0; iy < ny; iy++ {
				yp, err := r.tracePixel(d, g, m, ix, iy)
				if err != nil {
					return err
				}
				d.SetPixel(ix, iy, yp)
			}
		}
		d.AccumulateSpaceIntegral()
		return nil
	}

	maxIT := (&patchID{}).SizeOf()
	maxOT := 24 + 8*len(d.Hv)
	pool := taskpool.New[*patchID, *patchSpectrum](r.Comm, maxIT, maxOT)

	var firstErr error
	pool.PerformTask = func(it *patchID) *patchSpectrum {
		yp, err := r.tracePixel(d, g, m, it.ix, it.iy)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return &patchSpectrum{ix: it.ix, iy: it.iy, yp: yp}
	}
	pool.ProcessResults = func(ot *patchSpectrum) {
		d.SetPixel(ot.ix, ot.iy, ot.yp)
	}
	pool.NewIT = func() *patchID { return &patchID{} }
	pool.NewOT = func() *patchSpectrum { return &patchSpectrum{} }

	j := 0
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			pool.AddTask(&patchID{ix: ix, iy: iy, j: j})
			j++
		}
	}
	pool.Execute()
	if firstErr != nil {
		return firstErr
	}
	d.AccumulateSpaceIntegral()
	return nil
}

// Postprocess runs forward mode: for every hydro time step, load the
// snapshot, evaluate every Detector's full pixel grid, and accumulate
// time integrals. Results are written by the caller via the out package.
func (r *Run) Postprocess() error {
	for j := 0; j < r.Hydro.Len(); j++ {
		it := r.Hydro.TimeIndexAt(j)
		dt := r.Hydro.DtAt(it)
		g, m, err := r.LoadSnapshot(it)
		if err != nil {
			return err
		}
		for _, d := range r.Detectors {
			if err := r.doPatches(d, g, m); err != nil {
				return err
			}
			d.AccumulateTimeIntegrals(dt)
		}
		r.Progress.Tick("time step")
	}
	r.reportHopCount()
	return nil
}

// Analyze runs inverse mode: enumerates every case in the Hydro's
// parameter space (a cartesian product under symmetry None, or the
// peeled-onion sum-mode index under symmetry Spherical), scores each
// against r.Goal, and keeps the best. Under Spherical symmetry it then
// runs one RefinePass over the peeled bests, reoptimizing each shell
// holding the others fixed. Finally it replays the best case's Detector
// spectra so the caller can write final output.
func (r *Run) Analyze() error {
	if len(r.Detectors) == 0 {
		return chk.Err("diagnostics.Analyze: no detectors configured")
	}
	primary := r.Detectors[0]

	if primary.Symmetry != detector.Spherical {
		// Product mode (spec.md section 4.10): the product's linear index j
		// is used as the snapshot sequence position, and the case evaluated
		// is the snapshot id Hydro.TimeIndexAt(j) reads from the hydro file.
		// Every j is routed through OneToMany/ManyToOne so the
		// cartesian-product walk spec.md section 4.8 describes ("enumerate...
		// the full cartesian product of Hydro parameter axes") is explicit
		// here; a hydro file whose snapshot count differs from the
		// product's size is a fatal error.
		dim := r.Hydro.GetNdim()
		n := r.Hydro.Len()
		if len(dim) > 0 {
			n = r.Hydro.Total()
			if n != r.Hydro.Len() {
				chk.Panic("diagnostics.Analyze: parameter space has %d cases but the hydro file lists %d snapshots", n, r.Hydro.Len())
			}
		}
		for j := 0; j < n; j++ {
			if len(dim) > 0 {
				back, err := hydro.ManyToOne(dim, hydro.OneToMany(dim, j))
				if err != nil || back != j {
					chk.Panic("diagnostics.Analyze: cartesian-product index round-trip failed at j=%d", j)
				}
			}
			it := r.Hydro.TimeIndexAt(j)
			if err := r.evaluateCase(it); err != nil {
				return err
			}
			r.Progress.Tick("case")
		}
		r.reportHopCount()
		return r.finish()
	}

	dim := r.Hydro.GetNdim()
	ps := hydro.NewPeelState(dim)
	evaluate := func(axis, k int, fixed []int) float64 {
		j, err := hydro.TwoToOne(dim, axis, k)
		if err != nil {
			chk.Panic("diagnostics.Analyze: %v", err)
		}
		aggregate, err := r.evaluateCaseScored(j)
		if err != nil {
			chk.Panic("diagnostics.Analyze: %v", err)
		}
		return aggregate
	}
	// Peel from the outermost shell inward: axis n-1 is optimized first
	// (it depends on no other shell's choice), then axis n-2 with n-1
	// already fixed at its optimum, and so on down to axis 0.
	for axis := len(dim) - 1; axis >= 0; axis-- {
		d := dim[axis]
		best, bestFitness := 0, negInf
		for k := 0; k < d; k++ {
			f := evaluate(axis, k, ps.Best)
			if f > bestFitness {
				bestFitness, best = f, k
			}
		}
		ps.Best[axis] = best
		r.Progress.Tick("shell")
	}
	hydro.RefinePass(dim, ps, evaluate)
	r.reportHopCount()

	return r.finish()
}

// reportHopCount logs a one-line warning if face.Cone's near-axis hop
// rescue fired during this run (spec.md section 9's open question: a
// nonzero count is suspicious and worth flagging, not silently masked).
func (r *Run) reportHopCount() {
	if face.HopCount > 0 {
		io.PfYel("> warning: cone near-axis hop rescue fired %d time(s)\n", face.HopCount)
	}
}

const negInf = -1.0e300

func (r *Run) evaluateCase(it int) error {
	_, err := r.evaluateCaseScored(it)
	return err
}

func (r *Run) evaluateCaseScored(it int) (float64, error) {
	g, m, err := r.LoadSnapshot(it)
	if err != nil {
		return 0, err
	}
	computed := make([]arrdbl.ArrDbl, 0, len(r.Goal.Objectives))
	var hvDetector []float64
	for _, d := range r.Detectors {
		if err := r.doPatches(d, g, m); err != nil {
			return 0, err
		}
		computed = append(computed, d.Ys)
		hvDetector = d.Hv
	}
	return r.Goal.UpdateBest(it, hvDetector, computed), nil
}

// finish replays the best case found during Analyze, so its Detector
// spectra reflect the winning snapshot for output.
func (r *Run) finish() error {
	it := r.Goal.BestCase()
	if it < 0 {
		return chk.Err("diagnostics.Analyze: no case was ever scored")
	}
	g, m, err := r.LoadSnapshot(it)
	if err != nil {
		return err
	}
	for _, d := range r.Detectors {
		if err := r.doPatches(d, g, m); err != nil {
			return err
		}
	}
	return nil
}
