// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package face

import (
	"math"

	"github.com/LANLhakel/FESTR-sub001/grid"
	"github.com/LANLhakel/FESTR-sub001/vec3"
)

// Cone edge-tolerance constants, distinct from the process-wide
// vec3.SMALL/vec3.BIG: these bound how close a point may sit to a
// Cone's rz endpoints or generatrix before numerical rescue logic kicks
// in, in centimeters (SMALL, MINIMUM_DISTANCE) or centimeters-squared
// (ZERO).
const (
	ConeSMALL           = 5.0e-7
	ConeMinimumDistance = 1.0e-6
	ConeZero            = 1.0e-19
)

// HopCount counts how many times Intercept has invoked the near-axis
// "hop across the z-axis" rescue (spec.md section 9, Open Question). A
// nonzero count after a run is a signal worth surfacing, not an error.
var HopCount int

// Cone is the surface of revolution, about the z-axis, swept by the rz
// segment between two endpoint nodes. Node positions for a Cone's
// endpoints are stored with X=radius, Y=height (z), mirroring
// Vector3d.Rz(); a Cone never consults a node's Z component.
type Cone struct {
	base
}

// NewCone constructs a Cone face with endpoint node ids nodeIds (len 2),
// in the order (tail, head) used by GetEndpoints for azimuth lookup.
func NewCone(zoneId, faceIndex int, nodeIds [2]int, neighbors []FaceID) *Cone {
	return &Cone{base: base{zoneId: zoneId, faceIndex: faceIndex, nodeIds: nodeIds[:], neighbors: neighbors}}
}

func (c *Cone) rzEndpoints(g *grid.Grid) (a, b vec3.Vector3d) {
	return g.Position(c.nodeIds[0]), g.Position(c.nodeIds[1])
}

// IsCurved reports whether the two endpoints differ in z (a true
// conical, or cylindrical, frustum) as opposed to a flat annular disk.
func (c *Cone) IsCurved(g *grid.Grid) bool {
	a, b := c.rzEndpoints(g)
	return math.Abs(b.Y-a.Y) > ConeSMALL
}

func (c *Cone) isFlat(g *grid.Grid) bool { return !c.IsCurved(g) }

// isCylinder reports whether the two endpoints share the same radius
// (a cylindrical, rather than genuinely conical, frustum).
func (c *Cone) isCylinder(g *grid.Grid) bool {
	a, b := c.rzEndpoints(g)
	return math.Abs(b.X-a.X) < vec3.SMALL
}

// areaNormal2Center returns twice the area-weighted normal and the
// midpoint center, following the lateral-area-of-a-frustum formula:
// area2 = 2*pi*(ra+rb)*s, oriented by RightNormal of the rz edge vector.
func (c *Cone) areaNormal2Center(g *grid.Grid) (vec3.Vector3d, vec3.Vector3d) {
	a, b := c.rzEndpoints(g)
	center := a.Add(b).Scale(0.5)
	v := b.Sub(a)
	dr := b.X - a.X
	dz := b.Y - a.Y
	s := math.Hypot(dr, dz)
	area2 := 2 * math.Pi * (a.X + b.X) * s
	return v.RightNormal().Scale(area2), center
}

// Normal returns the unit outward normal at the Cone's midpoint.
func (c *Cone) Normal(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	if c.isFlat(g) {
		return vec3.New(0, 0, 1)
	}
	n, _ := c.areaNormal2Center(g)
	return n.Normalize()
}

// Center returns the rz-plane midpoint of the two endpoints (still in
// the (r,z,0) representation).
func (c *Cone) Center(g *grid.Grid) vec3.Vector3d {
	_, center := c.areaNormal2Center(g)
	return center
}

// Area returns the lateral area of the frustum (or, when flat, the
// annular disk area).
func (c *Cone) Area(g *grid.Grid) float64 {
	a, b := c.rzEndpoints(g)
	if c.isFlat(g) {
		return math.Pi * math.Abs(b.X*b.X-a.X*a.X)
	}
	n, _ := c.areaNormal2Center(g)
	return n.Norm() / 2.0
}

// Distance returns the signed rz-plane distance from w to the cone
// surface, per pmh_2015_0508: (w_rz - subpoint_rz) dot normal.
func (c *Cone) Distance(g *grid.Grid, w vec3.Vector3d) float64 {
	d := w.Rz().Sub(c.Subpoint(g, w).Rz())
	n := c.Normal(g, w)
	return d.Dot(n)
}

// HasAbove reports whether w is on the positive-distance (outward) side.
func (c *Cone) HasAbove(g *grid.Grid, w vec3.Vector3d) bool { return c.Distance(g, w) > 0 }

// HasBelow reports whether w is on the negative-distance (inward) side.
func (c *Cone) HasBelow(g *grid.Grid, w vec3.Vector3d) bool { return c.Distance(g, w) < 0 }

// Subpoint returns the foot of the perpendicular projection of w onto
// the (possibly infinite) generatrix line through the two endpoints, in
// rz coordinates but expressed back in 3-D at w's own azimuth.
func (c *Cone) Subpoint(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	wx, wy, wz := w.X, w.Y, w.Z
	wr := math.Hypot(wx, wy)
	phi := math.Atan2(wy, wx)
	a, b := c.rzEndpoints(g)
	ra, za := a.X, a.Y
	dr := b.X - ra
	dz := b.Y - za
	denom := dr*dr + dz*dz
	var t float64
	if denom > vec3.SMALL {
		t = ((wr-ra)*dr + (wz-za)*dz) / denom
	}
	rs := ra + t*dr
	return vec3.New(rs*math.Cos(phi), rs*math.Sin(phi), za+t*dz)
}

// FacePoint returns the representative point used when a Ray starts on
// this face: the rz midpoint, rotated into w's azimuth.
func (c *Cone) FacePoint(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	phi := math.Atan2(w.Y, w.X)
	mid := c.Center(g)
	return vec3.New(mid.X*math.Cos(phi), mid.X*math.Sin(phi), mid.Y)
}

// Contains reports whether w's rz projection lies between the two
// endpoints (inclusive, within ConeZero), independent of azimuth.
func (c *Cone) Contains(g *grid.Grid, w vec3.Vector3d) bool {
	v := w.Rz()
	a, b := c.rzEndpoints(g)
	return (v.X-a.X)*(v.X-b.X) <= ConeZero && (v.Y-a.Y)*(v.Y-b.Y) <= ConeZero
}

// GetEndpoints returns the two rz endpoints rotated into 3-D at azimuth
// phi, ordered so that the first point has the smaller z (spec.md
// section 8 testable property).
func (c *Cone) GetEndpoints(g *grid.Grid, phi float64) (first, second vec3.Vector3d) {
	a, b := c.rzEndpoints(g)
	pa := vec3.New(a.X*math.Cos(phi), a.X*math.Sin(phi), a.Y)
	pb := vec3.New(b.X*math.Cos(phi), b.X*math.Sin(phi), b.Y)
	if pa.Z < pb.Z {
		return pa, pb
	}
	return pb, pa
}

func linearFit(minDist float64, from, toward vec3.Vector3d) vec3.Vector3d {
	d := toward.Sub(from)
	n := d.Norm()
	if n < vec3.SMALL {
		return from
	}
	return from.Add(d.Scale(minDist / n))
}

// Intercept implements the Cone intersection contract of spec.md
// section 4.2: a flat annular disk is handled like a plane with n=zhat;
// a genuine conical or cylindrical frustum forms a quadratic in t from
// the implicit (r(w)-ra)*dr == (z(w)-za)*dz equation (or degrades to a
// direct linear z-solve for near-vertical rays), then applies the
// root-choice policy, the grazing-generatrix check, the near-axis hop
// rescue, and finally the endpoint-edge nudge.
func (c *Cone) Intercept(g *grid.Grid, p, u vec3.Vector3d, eqt float64, from FaceID) Intercept {
	fid := c.MyId()
	a, _ := c.rzEndpoints(g)
	za := a.Y
	pz := p.Z
	uz := u.Z

	var rv Intercept
	if c.isFlat(g) {
		if from == fid || math.Abs(uz) < vec3.SMALL {
			return notFound(fid)
		}
		t := (za - pz) / uz
		w := p.Add(u.Scale(t))
		found := signEqt(t, eqt) == 1 && c.Contains(g, w)
		rv = Intercept{T: t, W: w, Fid: fid, IsFound: found}
	} else {
		var grazing bool
		rv, grazing = c.interceptCurved(g, p, u, eqt, from, fid)
		if !grazing && !rv.IsFound && from == fid {
			rv = c.maybeHopAcrossAxis(p, rv, fid)
		}
	}

	if rv.IsFound && rv.T < vec3.BIG/4.0 {
		rv.W = c.nudgeFromEdge(g, rv.W)
	}
	return rv
}

func (c *Cone) interceptCurved(g *grid.Grid, p, u vec3.Vector3d, eqt float64, from, fid FaceID) (Intercept, bool) {
	a, b := c.rzEndpoints(g)
	ra, za := a.X, a.Y
	dr := b.X - ra
	dz := b.Y - za
	px, py, pz := p.X, p.Y, p.Z
	ux, uy, uz := u.X, u.Y, u.Z
	rp2 := px*px + py*py
	zd := pz - za
	dz2 := dz * dz
	ff := dz2 * (px*ux + py*uy)
	gg := dz * ra * dr
	hh := gg + zd*dr*dr
	uzdr := uz * dr

	var rv Intercept
	uxy2 := ux*ux + uy*uy
	if uxy2 > 1.0e-8 {
		A := dz2*uxy2 - uzdr*uzdr
		B := 2.0 * (ff - uz*hh)
		C := dz2*(rp2-ra*ra) - zd*(gg+hh)
		x1, x2, nroots := quadRoots(A, B, C, eqt)
		fromIsThis := from == fid
		t, ok := chooseRoot(x1, x2, nroots, eqt, fromIsThis, func(t float64) bool {
			w := p.Add(u.Scale(t))
			return c.Contains(g, w)
		})
		if ok {
			w := p.Add(u.Scale(t))
			rv = Intercept{T: t, W: w, Fid: fid, IsFound: true}
		} else {
			rv = notFound(fid)
		}
	} else {
		if math.Abs(dr) < vec3.SMALL {
			// a cylinder cannot be hit by a near-vertical ray
			return notFound(fid), false
		}
		z := za + (math.Sqrt(rp2)-ra)*dz/dr
		t := (z - pz) / uz
		w := vec3.New(px, py, z)
		found := signEqt(t, eqt) == 1 && c.Contains(g, w)
		rv = Intercept{T: t, W: w, Fid: fid, IsFound: found}
	}

	// check whether the ray runs along the cone's own generatrix
	phi := math.Atan2(rv.W.Y, rv.W.X)
	bRad := b.X
	head := vec3.New(bRad*math.Cos(phi), bRad*math.Sin(phi), b.Y)
	aRad := a.X
	tail := vec3.New(aRad*math.Cos(phi), aRad*math.Sin(phi), a.Y)
	coneDir := tail.Sub(head).Normalize()
	un := u.Norm()
	if un > vec3.SMALL {
		crossProd := coneDir.Cross(u).Scale(1.0 / un)
		if math.Abs(crossProd.Norm()) < 1.0e-16 {
			return notFound(fid), true
		}
	}
	return rv, false
}

// maybeHopAcrossAxis implements the near-axis provisional rescue: when
// the ray started on this same face and no root was accepted, and the
// ray origin p lies within 2*ConeMinimumDistance of the z-axis, return
// p with its (x,y) mirrored across the axis as a provisional hit
// (t = BIG/2) so subsequent stepping cannot get stuck. The rejected
// roots' own positions are not examined. Each rescue increments
// HopCount for diagnostics.
func (c *Cone) maybeHopAcrossAxis(p vec3.Vector3d, rv Intercept, fid FaceID) Intercept {
	rp := math.Hypot(p.X, p.Y)
	if rp < 2*ConeMinimumDistance {
		HopCount++
		return Intercept{
			T:       vec3.BIG / 2.0,
			W:       vec3.New(-p.X, -p.Y, p.Z),
			Fid:     fid,
			IsFound: true,
		}
	}
	return rv
}

// nudgeFromEdge moves a hit point away from a cone endpoint if it landed
// within ConeMinimumDistance of one, breaking degenerate edge hits.
func (c *Cone) nudgeFromEdge(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	phi := math.Atan2(w.Y, w.X)
	first, second := c.GetEndpoints(g, phi)
	if w.Sub(first).Norm() < ConeMinimumDistance {
		return linearFit(ConeMinimumDistance, first, second)
	}
	if w.Sub(second).Norm() < ConeMinimumDistance {
		return linearFit(ConeMinimumDistance, second, first)
	}
	return w
}

// Velocity returns the 1/d-weighted mean of the two endpoint velocities,
// rotated into w's azimuth.
func (c *Cone) Velocity(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	wrz := w.Rz()
	phi := math.Atan2(w.Y, w.X)
	var u vec3.Vector3d
	s := 0.0
	for i := 0; i < 2; i++ {
		node := g.Node(c.nodeIds[i])
		d := node.R.Sub(wrz).Norm()
		if d < vec3.SMALL {
			u = node.V
			s = 1.0
			break
		}
		wt := 1.0 / d
		s += wt
		u = u.Add(node.V.Scale(wt))
	}
	if s < vec3.SMALL {
		return vec3.Zero
	}
	u = u.Scale(1.0 / s)
	return vec3.New(u.X*math.Cos(phi), u.X*math.Sin(phi), u.Y)
}
