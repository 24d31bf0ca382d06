// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package face

import (
	"github.com/cpmech/gosl/chk"

	"github.com/LANLhakel/FESTR-sub001/grid"
	"github.com/LANLhakel/FESTR-sub001/vec3"
)

// Surface is a composite face: an ordered sequence of sub-Polygons that
// together form one logical face of a Zone (e.g. a boundary punctured by
// a hole, or a non-convex patch that cannot be described by a single
// planar loop). Every sub-Polygon carries face_index == SubFaceIndex and
// Parent == this Surface's own FaceID. Operations dispatch to whichever
// sub-face Contains the point in question.
type Surface struct {
	base
	Sub []*Polygon
}

// NewSurface constructs a composite Surface from its sub-polygons. Each
// sub-polygon's Parent is set to this Surface's FaceID.
func NewSurface(zoneId, faceIndex int, sub []*Polygon, neighbors []FaceID) *Surface {
	s := &Surface{base: base{zoneId: zoneId, faceIndex: faceIndex, neighbors: neighbors}, Sub: sub}
	fid := s.MyId()
	for _, p := range sub {
		p.Parent = fid
		p.HasParent = true
	}
	return s
}

// pick returns the sub-face containing w, or the first sub-face if none
// contains it (used as a last resort by operations that must return
// something, e.g. FacePoint for a ray that starts exactly on a shared
// edge between two sub-faces).
func (s *Surface) pick(g *grid.Grid, w vec3.Vector3d) *Polygon {
	for _, p := range s.Sub {
		if p.Contains(g, w) {
			return p
		}
	}
	if len(s.Sub) == 0 {
		chk.Panic("face.Surface: composite surface %v has no sub-faces", s.MyId())
	}
	return s.Sub[0]
}

func (s *Surface) IsCurved(g *grid.Grid) bool { return false }

func (s *Surface) Area(g *grid.Grid) float64 {
	total := 0.0
	for _, p := range s.Sub {
		total += p.Area(g)
	}
	return total
}

func (s *Surface) Normal(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	return s.pick(g, w).Normal(g, w)
}

func (s *Surface) Center(g *grid.Grid) vec3.Vector3d {
	c := vec3.Zero
	for _, p := range s.Sub {
		c = c.Add(p.Center(g))
	}
	return c.Scale(1.0 / float64(len(s.Sub)))
}

func (s *Surface) Distance(g *grid.Grid, w vec3.Vector3d) float64 {
	return s.pick(g, w).Distance(g, w)
}

func (s *Surface) Subpoint(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	return s.pick(g, w).Subpoint(g, w)
}

func (s *Surface) FacePoint(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	return s.pick(g, w).FacePoint(g, w)
}

func (s *Surface) Contains(g *grid.Grid, w vec3.Vector3d) bool {
	for _, p := range s.Sub {
		if p.Contains(g, w) {
			return true
		}
	}
	return false
}

func (s *Surface) HasAbove(g *grid.Grid, w vec3.Vector3d) bool { return s.Distance(g, w) > 0 }

func (s *Surface) HasBelow(g *grid.Grid, w vec3.Vector3d) bool { return s.Distance(g, w) < 0 }

// Intercept delegates to whichever sub-face's computed hit point is
// Contains-true on that same sub-face, per spec.md section 4.2: each
// sub-polygon is tested and the valid, positive hit with the smallest t
// wins.
func (s *Surface) Intercept(g *grid.Grid, p, u vec3.Vector3d, eqt float64, from FaceID) Intercept {
	myFid := s.MyId()
	best := notFound(myFid)
	haveBest := false
	for _, sub := range s.Sub {
		subFrom := from
		if from == myFid {
			subFrom = sub.MyId()
		}
		rv := sub.Intercept(g, p, u, eqt, subFrom)
		if !rv.IsFound {
			continue
		}
		rv.Fid = myFid
		if !haveBest || rv.T < best.T {
			best = rv
			haveBest = true
		}
	}
	return best
}

func (s *Surface) Velocity(g *grid.Grid, w vec3.Vector3d) vec3.Vector3d {
	return s.pick(g, w).Velocity(g, w)
}
