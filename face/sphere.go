// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package face

import (
	"math"

	"github.com/LANLhakel/FESTR-sub001/grid"
	"github.com/LANLhakel/FESTR-sub001/vec3"
)

// Sphere is a full closed sphere, centered on a single node, with a
// radius, a radial velocity, and an orientation sign that selects which
// side (inward/outward) counts as "above". A Sphere is always used as
// zone 0's bounding sphere, or as an internal spherically-symmetric
// shell boundary.
type Sphere struct {
	base
	R float64 // radius
	V float64 // radial velocity
	N int     // orientation sign: -1, 0, or +1
}

// NewSphere constructs a Sphere face centered on centerNodeId.
func NewSphere(zoneId, faceIndex, centerNodeId int, r, v float64, n int, neighbors []FaceID) *Sphere {
	return &Sphere{base: base{zoneId: zoneId, faceIndex: faceIndex, nodeIds: []int{centerNodeId}, neighbors: neighbors}, R: r, V: v, N: n}
}

func (s *Sphere) center(g *grid.Grid) vec3.Vector3d { return g.Position(s.nodeIds[0]) }

// IsCurved is always true.
func (s *Sphere) IsCurved(g *grid.Grid) bool { return true }

// Area returns the full sphere surface area.
func (s *Sphere) Area(g *grid.Grid) float64 { return 4 * math.Pi * s.R * s.R }

// Center returns the sphere's center point.
func (s *Sphere) Center(g *grid.Grid) vec3.Vector3d { return s.center(g) }

// Normal returns the outward radial unit normal at w, oriented by N.
func (s *Sphere) Normal(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	d := w.Sub(s.center(g))
	n := d.Normalize()
	if s.N < 0 {
		return n.Neg()
	}
	return n
}

// Distance returns the signed radial distance from w to the sphere's
// surface: positive outside, negative inside, oriented by N.
func (s *Sphere) Distance(g *grid.Grid, w vec3.Vector3d) float64 {
	d := w.Sub(s.center(g)).Norm() - s.R
	if s.N < 0 {
		return -d
	}
	return d
}

// HasAbove reports whether w is on the outward (per N) side.
func (s *Sphere) HasAbove(g *grid.Grid, w vec3.Vector3d) bool { return s.Distance(g, w) > 0 }

// HasBelow reports whether w is on the inward (per N) side.
func (s *Sphere) HasBelow(g *grid.Grid, w vec3.Vector3d) bool { return s.Distance(g, w) < 0 }

// Subpoint returns the radial projection of w onto the sphere's surface.
func (s *Sphere) Subpoint(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	c := s.center(g)
	d := w.Sub(c)
	if d.IsSmall() {
		return c.Add(vec3.New(s.R, 0, 0))
	}
	return c.Add(d.Normalize().Scale(s.R))
}

// FacePoint returns the representative point used when a Ray starts on
// this face: the radial projection of w, same as Subpoint.
func (s *Sphere) FacePoint(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	return s.Subpoint(g, w)
}

// Contains is always true: a Sphere is a full closed surface with no
// boundary edge to fall outside of.
func (s *Sphere) Contains(g *grid.Grid, w vec3.Vector3d) bool { return true }

// Intercept implements the Sphere intersection contract: form the
// quadratic |p+t*u-c|^2 = r^2 and apply the shared root-choice policy
// (every candidate point is, trivially, Contains-true on a Sphere, so the
// policy reduces to the standard near/far root selection keyed on
// whether the ray is leaving the face it started on).
func (s *Sphere) Intercept(g *grid.Grid, p, u vec3.Vector3d, eqt float64, from FaceID) Intercept {
	fid := s.MyId()
	c := s.center(g)
	pc := p.Sub(c)
	A := u.Dot(u)
	B := 2 * u.Dot(pc)
	C := pc.Dot(pc) - s.R*s.R
	x1, x2, nroots := quadRoots(A, B, C, eqt)
	fromIsThis := from == fid
	t, ok := chooseRoot(x1, x2, nroots, eqt, fromIsThis, func(t float64) bool { return true })
	if !ok {
		return notFound(fid)
	}
	w := p.Add(u.Scale(t))
	return Intercept{T: t, W: w, Fid: fid, IsFound: true}
}

// Velocity returns the radial velocity V projected onto the outward
// direction at w.
func (s *Sphere) Velocity(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	c := s.center(g)
	d := w.Sub(c)
	if d.IsSmall() {
		return vec3.Zero
	}
	return d.Normalize().Scale(s.V)
}
