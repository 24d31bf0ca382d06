// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package face implements the analytic-surface capability set shared by
// the Polygon, Cone, Sphere, and Surface face variants: intersection,
// normal, containment, velocity interpolation, and FaceID-based neighbor
// linkage.
package face

import (
	"math"

	"github.com/LANLhakel/FESTR-sub001/grid"
	"github.com/LANLhakel/FESTR-sub001/vec3"
)

// EQT is the positivity tolerance applied to a ray parameter t before a
// face-hit candidate is accepted; it corresponds to photon flight through
// the minimum admissible zone thickness.
const EQT = 1.0e-19

// face_index sentinels, per spec.md section 3.
const (
	SubFaceIndex = -1 // sub-face of a composite Surface
	UnsetIndex   = -2 // unset
	NoFaceIndex  = -3 // initial "no face" sentinel
)

// FaceID identifies a face by its owning zone and its index within that
// zone's face list. Faces carry their parent zone by id, not by pointer;
// zones own their faces by handle.
type FaceID struct {
	ZoneId    int
	FaceIndex int
}

// BoundingSphere is the FaceID of the universe-enclosing bounding zone's
// single face.
var BoundingSphere = FaceID{ZoneId: 0, FaceIndex: 0}

// NoFace is the sentinel FaceID a Ray starts with before it has touched
// any face.
var NoFace = FaceID{ZoneId: 0, FaceIndex: NoFaceIndex}

// Less implements the total (zone_id, face_index) lexicographic order.
func (f FaceID) Less(o FaceID) bool {
	if f.ZoneId != o.ZoneId {
		return f.ZoneId < o.ZoneId
	}
	return f.FaceIndex < o.FaceIndex
}

// Intercept is the result of testing a ray against a face: the ray
// parameter T, the hit point W, the FaceID of the hit face, and whether a
// valid intersection was found at all.
type Intercept struct {
	T       float64
	W       vec3.Vector3d
	Fid     FaceID
	IsFound bool
}

// notFound is the canonical "no solution" Intercept, matching the
// original C++ convention of setting t to -BIG and w to (-BIG,-BIG,-BIG)
// rather than leaving them undefined.
func notFound(fid FaceID) Intercept {
	return Intercept{T: -vec3.BIG, W: vec3.New(-vec3.BIG, -vec3.BIG, -vec3.BIG), Fid: fid, IsFound: false}
}

// Face is the capability set every surface variant (Polygon, Cone,
// Sphere, Surface) implements. All geometric queries take the Grid
// explicitly, since node positions/velocities are only valid for the
// currently loaded snapshot.
type Face interface {
	MyZone() int
	MyId() FaceID
	Nodes() []int
	Neighbors() []FaceID
	IsCurved(g *grid.Grid) bool
	Area(g *grid.Grid) float64
	// Normal returns the unit outward normal at w. Planar variants
	// (Polygon, flat Cone) ignore w, since their normal is constant;
	// curved variants (Sphere, conical Cone) use it.
	Normal(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d
	Center(g *grid.Grid) vec3.Vector3d
	Distance(g *grid.Grid, w vec3.Vector3d) float64
	Subpoint(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d
	FacePoint(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d
	Contains(g *grid.Grid, w vec3.Vector3d) bool
	HasAbove(g *grid.Grid, w vec3.Vector3d) bool
	HasBelow(g *grid.Grid, w vec3.Vector3d) bool
	Intercept(g *grid.Grid, p, u vec3.Vector3d, eqt float64, from FaceID) Intercept
	Velocity(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d
}

// signEqt returns +1 if t > eqt, -1 if t < -eqt, and 0 otherwise. A zero
// result means t is indistinguishable from zero at the ray-hit
// tolerance eqt, which callers treat as "not a valid forward hit".
func signEqt(t, eqt float64) int {
	switch {
	case t > eqt:
		return 1
	case t < -eqt:
		return -1
	default:
		return 0
	}
}

// quadRoots solves a*t^2 + b*t + c = 0 using the Numerical-Recipes
// substitution that avoids catastrophic cancellation. Returns the roots
// ordered x1 >= x2, and nroots in {0,1,2}. Degenerates to the linear
// solution when a ~ 0.
func quadRoots(a, b, c, eqt float64) (x1, x2 float64, nroots int) {
	tol := math.Abs(eqt)
	if math.Abs(a) <= tol {
		if math.Abs(b) <= tol {
			return -vec3.BIG, -vec3.BIG, 0
		}
		x := -c / b
		return x, x, 1
	}
	d := b*b - 4*a*c
	if math.Abs(d) <= tol {
		d = 0
	}
	if d < 0 {
		return -vec3.BIG, -vec3.BIG, 0
	}
	if math.Abs(b) <= tol {
		x1 = math.Sqrt(-c / a)
		x2 = -x1
	} else {
		q := -0.5 * (b + float64(signEqt(b, tol))*math.Sqrt(d))
		x1 = q / a
		x2 = c / q
	}
	if x1 < x2 {
		x1, x2 = x2, x1
	}
	if d <= tol {
		nroots = 1
	} else {
		nroots = 2
	}
	return
}

// chooseRoot implements the root-choice policy shared by Cone and Sphere
// (spec.md section 4.2): discard non-positive roots, prefer the unique
// contained root, and on a tie prefer the smaller t unless the ray is
// leaving the face it started on (from == this face), in which case the
// larger t is chosen.
//
// contains reports whether the hit point at ray parameter t lies within
// the face boundary.
func chooseRoot(x1, x2 float64, nroots int, eqt float64, fromIsThis bool, contains func(t float64) bool) (t float64, ok bool) {
	type cand struct {
		t float64
		c bool
	}
	var cs []cand
	roots := []float64{x1, x2}
	for i := 0; i < nroots; i++ {
		t := roots[i]
		if signEqt(t, eqt) <= 0 {
			continue
		}
		cs = append(cs, cand{t: t, c: contains(t)})
	}
	var contained []cand
	for _, c := range cs {
		if c.c {
			contained = append(contained, c)
		}
	}
	switch len(contained) {
	case 0:
		return 0, false
	case 1:
		return contained[0].t, true
	default:
		// two contained roots: pick smaller unless leaving the starting face
		tMin, tMax := contained[0].t, contained[1].t
		if tMin > tMax {
			tMin, tMax = tMax, tMin
		}
		if fromIsThis {
			return tMax, true
		}
		return tMin, true
	}
}
