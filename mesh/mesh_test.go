// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/LANLhakel/FESTR-sub001/face"
	"github.com/LANLhakel/FESTR-sub001/grid"
	"github.com/LANLhakel/FESTR-sub001/vec3"
	"github.com/LANLhakel/FESTR-sub001/zone"
)

// twoShellMesh builds a bounding sphere (zone 0) enclosing one inner
// sphere (zone 1), sharing a single interface face, matching the
// two-zone topology Ray.Trace expects to step across.
func twoShellMesh() (*grid.Grid, *Mesh) {
	g := grid.New(1)
	g.Set(0, grid.Node{Id: 0, R: vec3.Zero, V: vec3.Zero})

	outerFace := face.NewSphere(0, 0, 0, 10.0, 0, 0, []face.FaceID{{ZoneId: 1, FaceIndex: 0}})
	innerOuter := face.NewSphere(1, 0, 0, 10.0, 0, 0, []face.FaceID{{ZoneId: 0, FaceIndex: 0}})
	innerCore := face.NewSphere(1, 1, 0, 5.0, 0, 0, nil)

	z0 := zone.New(0)
	z0.Faces = []face.Face{outerFace}
	z1 := zone.New(1)
	z1.Faces = []face.Face{innerOuter, innerCore}

	return g, New([]*zone.Zone{z0, z1})
}

func TestMeshZoneAndBoundingSphere(t *testing.T) {
	chk.PrintTitle("Mesh zone lookup and bounding sphere")
	_, m := twoShellMesh()
	if m.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", m.Len())
	}
	if m.Zone(1).Id != 1 {
		t.Fatalf("Zone(1).Id: got %d, want 1", m.Zone(1).Id)
	}
	if m.BoundingSphere() == nil {
		t.Fatalf("BoundingSphere: got nil")
	}
	if m.BoundingRadius() != 10.0 {
		t.Fatalf("BoundingRadius: got %g, want 10", m.BoundingRadius())
	}
}

func TestMeshNeighbor(t *testing.T) {
	chk.PrintTitle("Mesh neighbor resolution")
	g, m := twoShellMesh()
	nb, ok := m.Neighbor(g, face.FaceID{ZoneId: 0, FaceIndex: 0})
	if !ok {
		t.Fatalf("Neighbor: expected a neighbor across the shared face")
	}
	if nb.ZoneId != 1 {
		t.Fatalf("Neighbor: got zone %d, want 1", nb.ZoneId)
	}
	if _, ok := m.Neighbor(g, face.FaceID{ZoneId: 1, FaceIndex: 1}); ok {
		t.Fatalf("Neighbor: inner core face has no neighbor, expected ok=false")
	}
}

func TestMeshInvalidateCaches(t *testing.T) {
	chk.PrintTitle("Mesh cache invalidation")
	_, m := twoShellMesh()
	z := m.Zone(1)
	z.Mat = []string{"h"}
	z.Fp = []float64{1.0}
	z.Te, z.Tr, z.Np = 100, 100, 1e20
	if _, _, _, ok := z.CachedCoefficients(); ok {
		t.Fatalf("expected no cache before any was set")
	}
	m.InvalidateCaches()
	if _, _, _, ok := z.CachedCoefficients(); ok {
		t.Fatalf("InvalidateCaches: expected caches to remain cleared")
	}
}

func TestMeshZoneOutOfRangePanics(t *testing.T) {
	chk.PrintTitle("Mesh out-of-range zone id panics")
	_, m := twoShellMesh()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for an out-of-range zone id")
		}
	}()
	m.Zone(99)
}
