// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh implements Mesh: a dense, id-indexed store of Zones for
// one hydro snapshot, plus the cached bounding sphere used to launch ray
// search.
package mesh

import (
	"github.com/cpmech/gosl/chk"

	"github.com/LANLhakel/FESTR-sub001/face"
	"github.com/LANLhakel/FESTR-sub001/grid"
	"github.com/LANLhakel/FESTR-sub001/vec3"
	"github.com/LANLhakel/FESTR-sub001/zone"
)

// Mesh is a dense, zero-based zone-id -> Zone store for one loaded hydro
// snapshot. Zone 0 is always the bounding zone (spec.md section 3): a
// convex enclosure with a single Sphere face, the launch point for every
// Ray.
type Mesh struct {
	zones []*zone.Zone

	// boundingSphere caches zone 0's single Sphere face, resolved once
	// when the Mesh is built.
	boundingSphere *face.Sphere
}

// New builds a Mesh from an already-populated, dense zone slice
// (zones[i].Id must equal i; zones[0] must be the bounding zone with
// exactly one Sphere face). Callers (the inp package) build this slice
// while parsing a mesh_<label>.txt file.
func New(zones []*zone.Zone) *Mesh {
	m := &Mesh{zones: zones}
	if len(zones) > 0 {
		m.boundingSphere = findBoundingSphere(zones[zone.BoundingZone])
	}
	return m
}

func findBoundingSphere(z *zone.Zone) *face.Sphere {
	for _, f := range z.Faces {
		if s, ok := f.(*face.Sphere); ok {
			return s
		}
	}
	chk.Panic("mesh: bounding zone %d has no Sphere face", z.Id)
	return nil
}

// Len returns the number of zones.
func (m *Mesh) Len() int { return len(m.zones) }

// Zone returns the zone with the given id. Panics on an out-of-range id:
// referencing an absent zone is a fatal topology error (spec.md section 7).
func (m *Mesh) Zone(id int) *zone.Zone {
	if id < 0 || id >= len(m.zones) {
		chk.Panic("mesh: zone id %d out of range [0,%d)", id, len(m.zones))
	}
	return m.zones[id]
}

// BoundingSphere returns the Sphere face bounding zone 0, used to launch
// ray search (spec.md section 4.4: a ray's initial current_zone is the
// bounding zone, sitting on this face).
func (m *Mesh) BoundingSphere() *face.Sphere { return m.boundingSphere }

// BoundingRadius returns the bounding sphere's radius.
func (m *Mesh) BoundingRadius() float64 { return m.boundingSphere.R }

// InvalidateCaches clears every zone's cached optical coefficients. The
// Diagnostics orchestrator calls this once per time step immediately
// after loading a new snapshot (spec.md section 5: "invalidated at
// snapshot load").
func (m *Mesh) InvalidateCaches() {
	for _, z := range m.zones {
		z.InvalidateCache()
	}
}

// Neighbor resolves fid's first neighbor face whose owning zone differs
// from fid.ZoneId -- the "follow the exit face to the next zone" step of
// Ray.trace (spec.md section 4.4, step 3).
func (m *Mesh) Neighbor(g *grid.Grid, fid face.FaceID) (face.FaceID, bool) {
	z := m.Zone(fid.ZoneId)
	f := FaceIn(z, fid)
	if f == nil {
		return face.FaceID{}, false
	}
	for _, n := range f.Neighbors() {
		if n.ZoneId != fid.ZoneId {
			return n, true
		}
	}
	return face.FaceID{}, false
}

// FaceIn returns the face within zone z whose FaceIndex matches fid, or
// nil if z has no such face (fid.ZoneId is assumed already == z.Id).
func FaceIn(z *zone.Zone, fid face.FaceID) face.Face {
	for _, f := range z.Faces {
		if f.MyId().FaceIndex == fid.FaceIndex {
			return f
		}
	}
	return nil
}

// ZoneCenter returns the centroid Vector3d of a zone's face centers, an
// interior reference point for the zone.
func ZoneCenter(g *grid.Grid, z *zone.Zone) vec3.Vector3d {
	c := vec3.Zero
	for _, f := range z.Faces {
		c = c.Add(f.Center(g))
	}
	if len(z.Faces) == 0 {
		return c
	}
	return c.Scale(1.0 / float64(len(z.Faces)))
}
