// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ray implements Ray: the state machine that walks a ray
// zone-to-zone across a Mesh (Trace) and integrates the radiative
// transfer equation along the resulting segments, with a moving-medium
// (Doppler) correction at each zone entry and exit (CrossMesh).
package ray

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/LANLhakel/FESTR-sub001/arrdbl"
	"github.com/LANLhakel/FESTR-sub001/database"
	"github.com/LANLhakel/FESTR-sub001/face"
	"github.com/LANLhakel/FESTR-sub001/grid"
	"github.com/LANLhakel/FESTR-sub001/mesh"
	"github.com/LANLhakel/FESTR-sub001/vec3"
	"github.com/LANLhakel/FESTR-sub001/zone"
)

// SpeedOfLight is c in cm/s, the unit Doppler-shift factors (v/c) are
// expressed in.
const SpeedOfLight = 2.99792458e10

// Segment is one zone crossing recorded by Trace: the zone the ray
// passed through, its entry/exit points, and the FaceIDs of the faces
// the ray entered and exited through.
type Segment struct {
	ZoneId              int
	Entry, Exit         vec3.Vector3d
	EntryFace, ExitFace face.FaceID
}

// Ray carries the state of one (detector, pixel, direction) triple: its
// origin and direction, the zone-by-zone path Trace fills in, and the
// intensity spectrum CrossMesh accumulates.
type Ray struct {
	R vec3.Vector3d // origin (a detector pixel), on or outside the mesh's bounding sphere
	V vec3.Vector3d // unit direction, pointing from the origin into the mesh

	Segments []Segment
}

// New constructs a Ray at origin r traveling along unit direction v. The
// caller is responsible for placing r on (or outside) the mesh's
// bounding sphere; Trace assumes current_zone starts at zone.BoundingZone.
func New(r, v vec3.Vector3d) *Ray {
	return &Ray{R: r, V: v.Normalize()}
}

// Trace walks the ray zone-to-zone per spec.md section 4.4: starting
// from (current_zone=0, current_face=no-face sentinel), repeatedly find
// the current zone's exit face, record a segment, and follow that exit
// face's first neighbor in a different zone. Terminates when the next
// zone is the bounding zone (0) again, having entered at least one
// non-bounding zone, or immediately if the ray never enters the mesh
// interior at all.
func (r *Ray) Trace(g *grid.Grid, m *mesh.Mesh) {
	r.Segments = r.Segments[:0]
	currentZone := zone.BoundingZone
	currentFace := face.NoFace
	p := r.R
	enteredInterior := false
	maxSteps := 4 * m.Len() + 16 // pathological-topology backstop
	for step := 0; step < maxSteps; step++ {
		z := m.Zone(currentZone)
		hit := z.Hit(g, p, r.V, face.EQT, currentFace)
		r.Segments = append(r.Segments, Segment{
			ZoneId:    currentZone,
			Entry:     p,
			Exit:      hit.W,
			EntryFace: currentFace,
			ExitFace:  hit.Fid,
		})

		next, ok := m.Neighbor(g, hit.Fid)
		if !ok {
			chk.Panic("ray.Trace: face %v has no neighbor in a different zone (traced-ray error)", hit.Fid)
		}
		if currentZone != zone.BoundingZone {
			enteredInterior = true
		}
		if next.ZoneId == zone.BoundingZone && enteredInterior {
			return
		}
		if next.ZoneId == currentZone {
			chk.Panic("ray.Trace: step from zone %d re-entered itself through face %v (traced-ray error)", currentZone, hit.Fid)
		}
		p = hit.W
		currentFace = next
		currentZone = next.ZoneId
	}
	chk.Panic("ray.Trace: exceeded %d steps without reaching the bounding zone (traced-ray error)", maxSteps)
}

// ZoneMaterial is the per-zone material state CrossMesh needs from each
// segment's zone: temperatures, density, and mixture.
type ZoneMaterial struct {
	Te, Tr, Np float64
	Mat        []string
	Fp         []float64
}

// CrossMesh integrates the transfer equation along r.Segments in
// reverse (far-from-detector first), per spec.md section 4.5. db/tbl
// supply optical coefficients. populateCache selects whether a zone
// with no cached coefficients yet should have this ray's freshly
// computed (em, ab, sc) stored back into it: the caller passes true
// only for the spherical-symmetry central ray (pixel 0), so that
// off-center rays in the same time step find and reuse the cache
// without ever writing to it themselves (spec.md section 4.5 step 1
// and section 5's "may not be populated by off-central-ray workers").
// backlighter is the initial intensity spectrum, sampled on db.Hv.
func CrossMesh(g *grid.Grid, m *mesh.Mesh, db *database.Database, tbl *database.Table, segments []Segment, backlighter arrdbl.ArrDbl, populateCache bool) (arrdbl.ArrDbl, error) {
	y := backlighter.Clone()
	hv := db.Hv
	for i := len(segments) - 1; i >= 0; i-- {
		s := segments[i]
		z := m.Zone(s.ZoneId)

		em, ab, sc, err := coefficientsFor(db, tbl, z, populateCache)
		if err != nil {
			return arrdbl.ArrDbl{}, err
		}

		L := s.Exit.Sub(s.Entry).Norm()

		entryVelDir := velocityAt(g, m, s.ZoneId, s.EntryFace, s.Entry)
		y = dopplerShift(y, hv, entryVelDir.Dot(rayDir(s)), true)

		y = advance(y, em, ab, sc, L)

		exitVelDir := velocityAt(g, m, s.ZoneId, s.ExitFace, s.Exit)
		y = dopplerShift(y, hv, exitVelDir.Dot(rayDir(s)), false)
	}
	return y, nil
}

func rayDir(s Segment) vec3.Vector3d {
	return s.Exit.Sub(s.Entry).Normalize()
}

// velocityAt queries the material velocity at w via the face identified
// by fid (the entry or exit face of a segment), falling back to the
// zero vector for the sentinel "no face" FaceID at the very start of a
// ray's path.
func velocityAt(g *grid.Grid, m *mesh.Mesh, zoneId int, fid face.FaceID, w vec3.Vector3d) vec3.Vector3d {
	if fid.FaceIndex == face.NoFaceIndex {
		return vec3.Zero
	}
	zid := fid.ZoneId
	if zid < 0 || zid >= m.Len() {
		return vec3.Zero
	}
	f := mesh.FaceIn(m.Zone(zid), fid)
	if f == nil {
		return vec3.Zero
	}
	return f.Velocity(g, w)
}

// dopplerShift remaps y, sampled on hv, to the grid hv*(1-beta) (when
// entering, lab->rest) or hv/(1-beta) (when exiting, rest->lab), linearly
// interpolating both the abscissa shift and the resulting ordinate, per
// spec.md section 4.5 steps 3 and 5.
func dopplerShift(y arrdbl.ArrDbl, hv []float64, vProj float64, entering bool) arrdbl.ArrDbl {
	beta := vProj / SpeedOfLight
	if math.Abs(beta) < vec3.SMALL {
		return y
	}
	var factor float64
	if entering {
		factor = 1 - beta
	} else {
		factor = 1 / (1 - beta)
	}
	n := y.Len()
	out := arrdbl.New(n)
	for k := 0; k < n; k++ {
		hvShifted := hv[k] * factor
		out.Set(k, interpLinear(hv, y, hvShifted))
	}
	return out
}

// interpLinear linearly interpolates y(hv) at x, clamping to the
// endpoint value outside [hv[0], hv[n-1]].
func interpLinear(hv []float64, y arrdbl.ArrDbl, x float64) float64 {
	n := len(hv)
	if n == 0 {
		return 0
	}
	if x <= hv[0] {
		return y.At(0)
	}
	if x >= hv[n-1] {
		return y.At(n - 1)
	}
	lo := 0
	hi := n - 1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if hv[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	t := (x - hv[lo]) / (hv[hi] - hv[lo])
	return y.At(lo) + t*(y.At(hi)-y.At(lo))
}

// advance applies the closed-form transfer-equation step of spec.md
// section 4.5 step 4: y_k <- y_k*exp(-tau_k) + S_k*(1-exp(-tau_k)), with
// tau_k = (a_k+s_k)*L and S_k = e_k/(a_k+s_k) where (a+s)>0, else 0 (a
// zone with nmat==0, where a=s=0 everywhere, passes the ray through
// unchanged, per spec.md section 7).
func advance(y, em, ab, sc arrdbl.ArrDbl, L float64) arrdbl.ArrDbl {
	n := y.Len()
	out := arrdbl.New(n)
	for k := 0; k < n; k++ {
		ext := ab.At(k) + sc.At(k)
		if ext <= 0 {
			out.Set(k, y.At(k))
			continue
		}
		tau := ext * L
		atten := math.Exp(-tau)
		src := em.At(k) / ext
		out.Set(k, y.At(k)*atten+src*(1-atten))
	}
	return out
}

// coefficientsFor resolves a zone's (em, ab, sc) spectra, reusing the
// zone's cached coefficients when present and, if populateCache is set,
// storing a freshly computed triple back into the zone for later rays to
// reuse (the caller arranges for only the spherical-symmetry central ray
// to pass populateCache=true).
func coefficientsFor(db *database.Database, tbl *database.Table, z *zone.Zone, populateCache bool) (em, ab, sc arrdbl.ArrDbl, err error) {
	if cem, cab, csc, ok := z.CachedCoefficients(); ok {
		return cem, cab, csc, nil
	}
	em, ab, sc, ne, err := db.MixedCoefficients(tbl, z.Te, z.Tr, z.Np, z.Mat, z.Fp)
	if err != nil {
		return arrdbl.ArrDbl{}, arrdbl.ArrDbl{}, arrdbl.ArrDbl{}, err
	}
	z.Ne = ne
	if populateCache {
		z.SetCachedCoefficients(em, ab, sc)
	}
	return em, ab, sc, nil
}
