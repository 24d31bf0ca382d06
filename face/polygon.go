// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package face

import (
	"math"

	"github.com/LANLhakel/FESTR-sub001/grid"
	"github.com/LANLhakel/FESTR-sub001/vec3"
)

// Polygon is a planar face: an ordered loop of node ids. Its plane is
// defined by the summed signed area-normals of the triangle fan from
// node 0 (Newell's method), which tolerates mild non-planarity in the
// input mesh.
type Polygon struct {
	base
	// Parent is the FaceID of the owning composite Surface, if any;
	// HasParent is false for a standalone Polygon face of a Zone.
	Parent    FaceID
	HasParent bool
}

// NewPolygon constructs a Polygon face belonging to zoneId at faceIndex,
// bounded by the ordered node loop nodeIds, with the given neighbor
// FaceIDs (one per edge, in the same order as the edges).
func NewPolygon(zoneId, faceIndex int, nodeIds []int, neighbors []FaceID) *Polygon {
	return &Polygon{base: base{zoneId: zoneId, faceIndex: faceIndex, nodeIds: nodeIds, neighbors: neighbors}}
}

// areaNormal2Center returns twice the signed area-weighted normal and the
// centroid of the vertex loop, via Newell's method: robust to mild
// non-planarity, and its magnitude is the (doubled) polygon area whether
// or not the vertices are exactly coplanar.
func (p *Polygon) areaNormal2Center(g *grid.Grid) (vec3.Vector3d, vec3.Vector3d) {
	pts := make([]vec3.Vector3d, len(p.nodeIds))
	center := vec3.Zero
	for i, id := range p.nodeIds {
		pts[i] = g.Position(id)
		center = center.Add(pts[i])
	}
	center = center.Scale(1.0 / float64(len(pts)))
	n := vec3.Zero
	v0 := pts[0]
	for i := 1; i+1 < len(pts); i++ {
		n = n.Add(pts[i].Sub(v0).Cross(pts[i+1].Sub(v0)))
	}
	return n, center
}

// Normal returns the unit outward normal of the polygon's plane.
func (p *Polygon) Normal(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	n, _ := p.areaNormal2Center(g)
	return n.Normalize()
}

// Center returns the vertex-average centroid.
func (p *Polygon) Center(g *grid.Grid) vec3.Vector3d {
	_, c := p.areaNormal2Center(g)
	return c
}

// Area returns the polygon's planar area.
func (p *Polygon) Area(g *grid.Grid) float64 {
	n, _ := p.areaNormal2Center(g)
	return n.Norm() / 2.0
}

// IsCurved is always false for a Polygon.
func (p *Polygon) IsCurved(g *grid.Grid) bool { return false }

// Distance returns the signed distance from w to the polygon's plane,
// positive on the side the outward normal points to.
func (p *Polygon) Distance(g *grid.Grid, w vec3.Vector3d) float64 {
	a := g.Position(p.nodeIds[0])
	n := p.Normal(g, w)
	return w.Sub(a).Dot(n)
}

// HasAbove reports whether w is on the positive-distance side.
func (p *Polygon) HasAbove(g *grid.Grid, w vec3.Vector3d) bool { return p.Distance(g, w) > 0 }

// HasBelow reports whether w is on the negative-distance side.
func (p *Polygon) HasBelow(g *grid.Grid, w vec3.Vector3d) bool { return p.Distance(g, w) < 0 }

// Subpoint returns the foot of the perpendicular from w onto the
// polygon's plane.
func (p *Polygon) Subpoint(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	n := p.Normal(g, w)
	d := p.Distance(g, w)
	return w.Sub(n.Scale(d))
}

// FacePoint returns the representative point used when a Ray's origin
// lies on this face: its centroid.
func (p *Polygon) FacePoint(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	return p.Center(g)
}

// Contains reports whether w's perpendicular projection onto the
// polygon's plane lies inside its boundary, using the standard
// sum-of-angles (winding) test against the polygon's own plane basis.
func (p *Polygon) Contains(g *grid.Grid, w vec3.Vector3d) bool {
	sp := p.Subpoint(g, w)
	n := p.Normal(g, w)
	// build an in-plane basis (e1, e2) from n
	ref := vec3.New(1, 0, 0)
	if math.Abs(n.Dot(ref)) > 0.9 {
		ref = vec3.New(0, 1, 0)
	}
	e1 := ref.PerpendicularTo(n).Normalize()
	e2 := n.Cross(e1)
	angleSum := 0.0
	m := len(p.nodeIds)
	for i := 0; i < m; i++ {
		a := g.Position(p.nodeIds[i]).Sub(sp)
		b := g.Position(p.nodeIds[(i+1)%m]).Sub(sp)
		ax, ay := a.Dot(e1), a.Dot(e2)
		bx, by := b.Dot(e1), b.Dot(e2)
		na := math.Hypot(ax, ay)
		nb := math.Hypot(bx, by)
		if na < vec3.SMALL || nb < vec3.SMALL {
			return true // w coincides with a vertex
		}
		cosT := (ax*bx + ay*by) / (na * nb)
		if cosT > 1 {
			cosT = 1
		} else if cosT < -1 {
			cosT = -1
		}
		cross := ax*by - ay*bx
		angle := math.Acos(cosT)
		if cross < 0 {
			angle = -angle
		}
		angleSum += angle
	}
	return math.Abs(angleSum) > math.Pi // ~2*pi if inside, ~0 if outside
}

// Intercept implements the planar-face intersection contract of
// spec.md section 4.2.
func (p *Polygon) Intercept(g *grid.Grid, pt, u vec3.Vector3d, eqt float64, from FaceID) Intercept {
	fid := p.MyId()
	n := p.Normal(g, pt)
	du := n.Dot(u)
	if from == fid || math.Abs(du) < vec3.SMALL {
		return notFound(fid)
	}
	a := g.Position(p.nodeIds[0])
	t := n.Dot(a.Sub(pt)) / du
	w := pt.Add(u.Scale(t))
	found := signEqt(t, eqt) == 1 && p.Contains(g, w)
	return Intercept{T: t, W: w, Fid: fid, IsFound: found}
}

// Velocity returns the 1/d-weighted mean of all vertex velocities,
// evaluated at point w.
func (p *Polygon) Velocity(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	sumW := vec3.Zero
	sumD := 0.0
	for _, id := range p.nodeIds {
		node := g.Node(id)
		d := node.R.Sub(w).Norm()
		if d < vec3.SMALL {
			return node.V
		}
		wt := 1.0 / d
		sumW = sumW.Add(node.V.Scale(wt))
		sumD += wt
	}
	if sumD < vec3.SMALL {
		return vec3.Zero
	}
	return sumW.Scale(1.0 / sumD)
}
