// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ray

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/LANLhakel/FESTR-sub001/arrdbl"
	"github.com/LANLhakel/FESTR-sub001/database"
	"github.com/LANLhakel/FESTR-sub001/face"
	"github.com/LANLhakel/FESTR-sub001/grid"
	"github.com/LANLhakel/FESTR-sub001/mesh"
	"github.com/LANLhakel/FESTR-sub001/vec3"
	"github.com/LANLhakel/FESTR-sub001/zone"
)

// twoShellMesh builds a bounding sphere (zone 0, radius 10) enclosing a
// single material shell (zone 1, radius 10 down to radius 5), matching
// the minimal topology Ray.Trace needs to record exactly one interior
// segment.
func twoShellMesh() (*grid.Grid, *mesh.Mesh) {
	g := grid.New(1)
	g.Set(0, grid.Node{Id: 0, R: vec3.Zero, V: vec3.Zero})

	outerFace := face.NewSphere(0, 0, 0, 10.0, 0, 0, []face.FaceID{{ZoneId: 1, FaceIndex: 0}})
	innerOuter := face.NewSphere(1, 0, 0, 10.0, 0, 0, []face.FaceID{{ZoneId: 0, FaceIndex: 0}})
	innerCore := face.NewSphere(1, 1, 0, 5.0, 0, 0, []face.FaceID{{ZoneId: 0, FaceIndex: 0}})

	z0 := zone.New(0)
	z0.Faces = []face.Face{outerFace}
	z1 := zone.New(1)
	z1.Faces = []face.Face{innerOuter, innerCore}
	z1.Te, z1.Tr, z1.Np = 100, 100, 1e20
	z1.Mat, z1.Fp = []string{"h"}, []float64{1.0}

	return g, mesh.New([]*zone.Zone{z0, z1})
}

func TestRayTraceThroughCoreReturnsToBounding(t *testing.T) {
	chk.PrintTitle("Ray.Trace a diameter through a solid inner sphere")
	g, m := twoShellMesh()
	r := New(vec3.New(-10, 0, 0), vec3.New(1, 0, 0))
	r.Trace(g, m)
	if len(r.Segments) != 1 {
		t.Fatalf("Segments: got %d, want 1 (outer sphere is solid to its core)", len(r.Segments))
	}
	s := r.Segments[0]
	if s.ZoneId != 1 {
		t.Fatalf("segment zone: got %d, want 1", s.ZoneId)
	}
	if math.Abs(s.Exit.Sub(s.Entry).Norm()-20) > 1e-9 {
		t.Fatalf("chord length: got %g, want 20 (diameter)", s.Exit.Sub(s.Entry).Norm())
	}
}

func TestAdvancePassesThroughWhenNoMaterial(t *testing.T) {
	chk.PrintTitle("advance: zero extinction passes the spectrum through")
	y := arrdbl.FromSlice([]float64{1, 2, 3})
	zero := arrdbl.New(3)
	out := advance(y, zero, zero, zero, 5.0)
	for i := 0; i < 3; i++ {
		if out.At(i) != y.At(i) {
			t.Fatalf("index %d: got %g, want %g (pass-through)", i, out.At(i), y.At(i))
		}
	}
}

func TestAdvanceAttenuatesTowardSource(t *testing.T) {
	chk.PrintTitle("advance: optically thick limit approaches the source function")
	y := arrdbl.FromSlice([]float64{0.0})
	em := arrdbl.FromSlice([]float64{2.0})
	ab := arrdbl.FromSlice([]float64{1.0})
	sc := arrdbl.New(1)
	out := advance(y, em, ab, sc, 50.0) // tau=50, optically thick
	if math.Abs(out.At(0)-2.0) > 1e-6 {
		t.Fatalf("optically thick limit: got %g, want source function 2.0", out.At(0))
	}
}

func TestCrossMeshNoMaterialPassesBacklighterThrough(t *testing.T) {
	chk.PrintTitle("CrossMesh: nmat==0 zone passes the backlighter through unchanged")
	g, m := twoShellMesh()
	z := m.Zone(1)
	z.Mat, z.Fp = nil, nil // empty mixture: MixedCoefficients returns all-zero

	db := database.New(".", "", false)
	db.SetGrids([]float64{100}, []float64{100}, []float64{1e20}, []float64{1.0, 2.0},
		[]string{"1.00e+02"}, []string{"1.00e+02"}, []string{"1.00e+20"})
	tbl := database.NewTable(nil)

	segments := []Segment{{
		ZoneId: 1,
		Entry:  vec3.New(-5, 0, 0),
		Exit:   vec3.New(5, 0, 0),
		EntryFace: face.FaceID{ZoneId: 0, FaceIndex: face.NoFaceIndex},
		ExitFace:  face.FaceID{ZoneId: 0, FaceIndex: face.NoFaceIndex},
	}}
	back := arrdbl.FromSlice([]float64{7, 9})
	out, err := CrossMesh(g, m, db, tbl, segments, back, false)
	if err != nil {
		t.Fatalf("CrossMesh failed: %v", err)
	}
	if out.At(0) != 7 || out.At(1) != 9 {
		t.Fatalf("expected the backlighter untouched, got [%g %g]", out.At(0), out.At(1))
	}
}

// TestCrossMeshOnlyCentralRayPopulatesCache exercises spec.md section
// 4.5 step 1 / section 5: the spherical-symmetry central ray (pixel 0)
// is the only one allowed to populate a zone's optical-coefficient
// cache; off-center rays in the same time step must find it already
// populated and never write to it themselves.
func TestCrossMeshOnlyCentralRayPopulatesCache(t *testing.T) {
	chk.PrintTitle("CrossMesh: populateCache gates the spherical central-ray cache write")
	g, m := twoShellMesh()
	db := database.New(".", "", false)
	db.SetGrids([]float64{100}, []float64{100}, []float64{1e20}, []float64{1.0, 2.0},
		[]string{"1.00e+02"}, []string{"1.00e+02"}, []string{"1.00e+20"})
	tbl := database.NewTable(nil)
	back := arrdbl.FromSlice([]float64{7, 9})
	segments := []Segment{{
		ZoneId:    1,
		Entry:     vec3.New(-5, 0, 0),
		Exit:      vec3.New(5, 0, 0),
		EntryFace: face.FaceID{ZoneId: 0, FaceIndex: face.NoFaceIndex},
		ExitFace:  face.FaceID{ZoneId: 0, FaceIndex: face.NoFaceIndex},
	}}

	z := m.Zone(1)
	z.Mat, z.Fp = nil, nil
	if _, _, _, ok := z.CachedCoefficients(); ok {
		t.Fatalf("fresh zone must start uncached")
	}

	if _, err := CrossMesh(g, m, db, tbl, segments, back, false); err != nil {
		t.Fatalf("CrossMesh failed: %v", err)
	}
	if _, _, _, ok := z.CachedCoefficients(); ok {
		t.Fatalf("populateCache=false must not populate the cache (an off-center ray would poison it)")
	}

	if _, err := CrossMesh(g, m, db, tbl, segments, back, true); err != nil {
		t.Fatalf("CrossMesh failed: %v", err)
	}
	if _, _, _, ok := z.CachedCoefficients(); !ok {
		t.Fatalf("populateCache=true (the central ray) must populate the cache")
	}
}
