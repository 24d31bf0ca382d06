// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zone implements Zone: a spatial region bounded by a list of
// Faces and carrying a uniform material mixture and thermodynamic state.
// Zone.Hit is the per-step query Ray.trace uses to find the next face a
// ray crosses.
package zone

import (
	"github.com/cpmech/gosl/chk"

	"github.com/LANLhakel/FESTR-sub001/arrdbl"
	"github.com/LANLhakel/FESTR-sub001/face"
	"github.com/LANLhakel/FESTR-sub001/grid"
	"github.com/LANLhakel/FESTR-sub001/vec3"
)

// BoundingZone is the id of the universe-enclosing zone, which must be
// convex-enclosing; Ray.trace starts and terminates there.
const BoundingZone = 0

// Zone is a closed region of space bounded by Faces, carrying a uniform
// material mixture (Mat, Fp) and thermodynamic state (Te, Tr, Np). Ne and
// the Em/Ab/Sc cache are derived from a Database lookup, not loaded
// directly from the time file.
type Zone struct {
	Id    int
	Faces []face.Face

	Te, Tr, Np float64
	Mat        []string
	Fp         []float64

	Ne float64

	// cached optical coefficients, populated only when this zone is
	// spherically symmetric and hit first by the central (ix==0) ray
	// within a time step; reused by off-center rays in the same step.
	// Invalidated at every snapshot load.
	haveCache bool
	emisCache arrdbl.ArrDbl
	abspCache arrdbl.ArrDbl
	scatCache arrdbl.ArrDbl
}

// New constructs an empty Zone with the given id and no faces or
// material state; callers fill Faces and the material fields after
// parsing the mesh and time files.
func New(id int) *Zone {
	return &Zone{Id: id, Te: -1.0, Tr: -1.0, Np: -1.0}
}

// Nmat returns the number of materials mixed into this zone.
func (z *Zone) Nmat() int { return len(z.Mat) }

// InvalidateCache clears the cached optical coefficients; Mesh calls this
// on every zone at snapshot load, per spec.md section 5's "Zone optical-
// coefficient cache ... must be invalidated at snapshot load" rule.
func (z *Zone) InvalidateCache() {
	z.haveCache = false
	z.emisCache = arrdbl.ArrDbl{}
	z.abspCache = arrdbl.ArrDbl{}
	z.scatCache = arrdbl.ArrDbl{}
}

// CachedCoefficients returns the previously cached (em, ab, sc) triple
// and whether a cache is present.
func (z *Zone) CachedCoefficients() (em, ab, sc arrdbl.ArrDbl, ok bool) {
	return z.emisCache, z.abspCache, z.scatCache, z.haveCache
}

// SetCachedCoefficients stores (em, ab, sc) for reuse by off-center rays
// within the same time step, under spherical symmetry.
func (z *Zone) SetCachedCoefficients(em, ab, sc arrdbl.ArrDbl) {
	z.emisCache, z.abspCache, z.scatCache = em, ab, sc
	z.haveCache = true
}

// zonePoint is the centroid of the faces' representative (face_point)
// points, used as a fallback ray origin when a direct hit search from p
// fails because p sits infinitesimally outside the zone due to rounding.
func (z *Zone) zonePoint(g *grid.Grid, p vec3.Vector3d) vec3.Vector3d {
	s := vec3.Zero
	for _, f := range z.Faces {
		s = s.Add(f.FacePoint(g, p))
	}
	return s.Scale(1.0 / float64(len(z.Faces)))
}

// searchFrom runs one pass of the "smallest positive t wins" search over
// every face in this zone, from origin orig.
func (z *Zone) searchFrom(g *grid.Grid, orig, u vec3.Vector3d, eqt float64, from face.FaceID) (face.Intercept, bool) {
	best := face.Intercept{}
	found := false
	for _, f := range z.Faces {
		rv := f.Intercept(g, orig, u, eqt, from)
		if rv.IsFound && (!found || rv.T < best.T) {
			best = rv
			found = true
		}
	}
	return best, found
}

// Hit returns the first face this zone's ray (p, u) exits through, given
// the FaceID the ray is currently sitting on (from). Per spec.md section
// 4.3: iterate all of this zone's faces, keep the hit with smallest
// t > 0 at tolerance eqt. If nothing is found — which happens when p is
// infinitesimally outside the zone due to rounding — recompute once from
// zonePoint(p). If still nothing, "lost ray" is fatal.
func (z *Zone) Hit(g *grid.Grid, p, u vec3.Vector3d, eqt float64, from face.FaceID) face.Intercept {
	if rv, ok := z.searchFrom(g, p, u, eqt, from); ok {
		return rv
	}
	zp := z.zonePoint(g, p)
	if rv, ok := z.searchFrom(g, zp, u, eqt, from); ok {
		return rv
	}
	chk.Panic("zone %d: lost ray: no face intersection from p=%v or zone_point=%v along u=%v (from=%v)",
		z.Id, p, zp, u, from)
	return face.Intercept{}
}
