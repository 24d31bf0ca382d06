// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package detector implements Detector: a rectangular pixel grid with an
// optional solid-angle bundle of ray directions per pixel, per-pixel and
// space/time-integrated spectra, Gaussian FWHM convolution, and the
// three backlighter spectrum forms (flat, Planckian, tabulated).
package detector

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/LANLhakel/FESTR-sub001/arrdbl"
	"github.com/LANLhakel/FESTR-sub001/vec3"
)

// Symmetry selects whether a Detector's pixel grid is a full Cartesian
// rectangle or a spherically-symmetric radial fan (spec.md section 3).
type Symmetry int

const (
	None Symmetry = iota
	Spherical
)

// PlanckConstant is the F factor in the Planckian backlighter formula
// B(hv,T) = F*hv^3/(exp(hv/T)-1), in W/(cm^2 sr eV^4) when hv and T are
// in eV (spec.md section 4.6).
const PlanckConstant = 5040.367

// Bundle describes the solid-angle sampling of ray directions at one
// pixel: a spherical cap of half-angle ThetaMax sampled at Ntheta polar
// rings and Nphi azimuthal samples per ring. Ntheta == 0 means a single
// ray per pixel along the detector's normal.
type Bundle struct {
	ThetaMax      float64
	Ntheta, Nphi  int
}

// Direction is one sampled ray direction within a pixel's bundle, paired
// with the solid-angle (and, for the central ray, trivial) weight its
// contribution must be scaled by before being added to the pixel sum.
type Direction struct {
	U      vec3.Vector3d // unit direction, in the detector's local frame
	Weight float64       // solid-angle element (and cosine projection, already folded in)
}

// Directions enumerates b's sampled directions about the boresight bz,
// per spec.md section 4.6: a central ray (theta=0) when Ntheta==0 (the
// only ray at all) or as the first entry of a genuine bundle; for
// Ntheta>0, rings theta_i = i*dtheta, i=1..Ntheta-1, at Nphi azimuths
// each, weighted by the off-axis solid-angle element
// dOmega = 2*dphi*sin(theta)*sin(dtheta/2), and the central cap weighted
// by 4*pi*sin^2(dtheta/4).
func (b Bundle) Directions(bz vec3.Vector3d) []Direction {
	if b.Ntheta == 0 {
		return []Direction{{U: bz, Weight: 1}}
	}
	dtheta := b.ThetaMax / float64(b.Ntheta)
	dphi := 2 * math.Pi / float64(b.Nphi)

	e1, e2 := orthonormalBasis(bz)

	dirs := make([]Direction, 0, 1+(b.Ntheta-1)*b.Nphi)
	centralWeight := 4 * math.Pi * math.Pow(math.Sin(dtheta/4), 2)
	dirs = append(dirs, Direction{U: bz, Weight: centralWeight})

	for i := 1; i < b.Ntheta; i++ {
		theta := float64(i) * dtheta
		w := 2 * dphi * math.Sin(theta) * math.Sin(dtheta/2)
		cosT, sinT := math.Cos(theta), math.Sin(theta)
		for j := 0; j < b.Nphi; j++ {
			phi := float64(j) * dphi
			u := bz.Scale(cosT).Add(e1.Scale(sinT * math.Cos(phi))).Add(e2.Scale(sinT * math.Sin(phi)))
			dirs = append(dirs, Direction{U: u.Normalize(), Weight: w * cosT})
		}
	}
	return dirs
}

func orthonormalBasis(n vec3.Vector3d) (e1, e2 vec3.Vector3d) {
	ref := vec3.New(1, 0, 0)
	if math.Abs(n.Dot(ref)) > 0.9 {
		ref = vec3.New(0, 1, 0)
	}
	e1 = ref.PerpendicularTo(n).Normalize()
	e2 = n.Cross(e1)
	return
}

// Backlighter is the externally supplied intensity spectrum on the far
// side of the mesh, sampled on the detector's hv grid.
type Backlighter struct {
	Kind string // "flat", "blackbody", or "file"
	// Flat
	Value float64
	// Blackbody: T in eV
	Temperature float64
	// File: a tabulated (hv, I0) table to be interpolated onto hv below
	TableHv, TableI0 []float64
}

// Spectrum evaluates the backlighter on grid hv.
func (b Backlighter) Spectrum(hv []float64) arrdbl.ArrDbl {
	n := len(hv)
	out := arrdbl.New(n)
	switch b.Kind {
	case "flat":
		for k := range hv {
			out.Set(k, b.Value)
		}
	case "blackbody":
		for k, e := range hv {
			out.Set(k, planckian(e, b.Temperature))
		}
	case "file":
		for k, e := range hv {
			out.Set(k, interp1(b.TableHv, b.TableI0, e))
		}
	default:
		chk.Panic("detector.Backlighter: unknown kind %q", b.Kind)
	}
	return out
}

func planckian(hv, t float64) float64 {
	if t <= 0 {
		return 0
	}
	x := hv / t
	if x > 700 {
		return 0
	}
	return PlanckConstant * hv * hv * hv / (math.Exp(x) - 1)
}

func interp1(x, y []float64, xq float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	if xq <= x[0] {
		return y[0]
	}
	if xq >= x[n-1] {
		return y[n-1]
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x[mid] <= xq {
			lo = mid
		} else {
			hi = mid
		}
	}
	t := (xq - x[lo]) / (x[hi] - x[lo])
	return y[lo] + t*(y[hi]-y[lo])
}

// Detector is a pixelized sensor: a rectangular (or, under spherical
// symmetry, radial-fan) pixel grid, each pixel carrying an optional ray
// bundle, accumulating a per-pixel spectrum Yp and contributing to the
// detector's space-integrated (Ys) and time-integrated (Yt, Yst)
// spectra.
type Detector struct {
	Name string

	Rc         vec3.Vector3d // pixel-grid center
	Rx, Ry     float64       // half-extents
	Dx, Dy     float64       // pixel pitch
	Nx, Ny     int
	Pc         vec3.Vector3d // backlighter/source reference point (defines boresight)

	Hv         []float64 // restricted to [jmin,jmax] of the Database grid
	Fwhm       float64
	Back       Backlighter
	Symmetry   Symmetry
	Bundle     Bundle

	Yp  map[[2]int]arrdbl.ArrDbl // per-pixel spectrum
	Ys  arrdbl.ArrDbl            // space-integrated, this time step
	Yt  map[[2]int]arrdbl.ArrDbl // time-integrated per pixel
	Yst arrdbl.ArrDbl            // space-and-time integrated
}

// New constructs a Detector with its pixel-accumulator maps allocated.
func New(name string) *Detector {
	return &Detector{Name: name, Yp: map[[2]int]arrdbl.ArrDbl{}, Yt: map[[2]int]arrdbl.ArrDbl{}}
}

// RestrictHv returns the subslice of the Database's full hv grid lying
// within [hvMin, hvMax], inclusive, per spec.md section 3's "hv grid
// restricted to [jmin..jmax]" invariant. dbHv is assumed sorted
// ascending, matching every other on-disk grid this module reads.
func RestrictHv(dbHv []float64, hvMin, hvMax float64) []float64 {
	jmin, jmax := 0, len(dbHv)-1
	for jmin <= jmax && dbHv[jmin] < hvMin {
		jmin++
	}
	for jmax >= jmin && dbHv[jmax] > hvMax {
		jmax--
	}
	if jmin > jmax {
		return nil
	}
	out := make([]float64, jmax-jmin+1)
	copy(out, dbHv[jmin:jmax+1])
	return out
}

// NpixX returns the number of pixels along x: under spherical symmetry
// this is floor(|Rx|/Dx)+1 and Ny must be 1 (spec.md section 3).
func (d *Detector) NpixX() int {
	if d.Symmetry == Spherical {
		return int(math.Abs(d.Rx)/d.Dx) + 1
	}
	return d.Nx
}

// Boresight returns the unit direction from the detector's pixel-grid
// center toward the source reference point Pc, normalize(Rc - Pc)
// negated per spec.md section 4.6 ("-z_b direction"): the direction a
// ray at this pixel travels from the detector back into the mesh.
func (d *Detector) Boresight() vec3.Vector3d {
	return d.Pc.Sub(d.Rc).Normalize()
}

// basis returns the detector-plane (ux, uy) unit vectors, orthogonal to
// the boresight, used to place pixel origins.
func (d *Detector) basis() (ux, uy vec3.Vector3d) {
	bz := d.Rc.Sub(d.Pc).Normalize() // detector z axis; Boresight is its negation
	ref := vec3.New(0, 0, 1)
	if math.Abs(bz.Dot(ref)) > 0.9 {
		ref = vec3.New(1, 0, 0)
	}
	ux = ref.PerpendicularTo(bz).Normalize()
	uy = bz.Cross(ux)
	return
}

// cartesianOrigin returns ro, the lower-left pixel-grid corner (plus a
// half-pixel offset to the first pixel's center), per spec.md section
// 4.6's "ro + ix*ux + iy*uy" and the original Detector::set_XY's
// ro = (rc - rx - ry) + (ux+uy)/2.
func (d *Detector) cartesianOrigin(ux, uy vec3.Vector3d) vec3.Vector3d {
	corner := d.Rc.Sub(ux.Scale(d.Rx)).Sub(uy.Scale(d.Ry))
	return corner.Add(ux.Scale(d.Dx / 2)).Add(uy.Scale(d.Dy / 2))
}

// PixelOrigin returns the ray-launch origin for pixel (ix, iy): under
// spherical symmetry, Rc + ix*ux*Dx with iy forced to 0; otherwise the
// Cartesian grid point ro + ix*ux*Dx + iy*uy*Dy, where ro is the
// lower-left corner returned by cartesianOrigin (not Rc itself: Rc is
// the grid's center, not its first pixel).
func (d *Detector) PixelOrigin(ix, iy int) vec3.Vector3d {
	ux, uy := d.basis()
	if d.Symmetry == Spherical {
		return d.Rc.Add(ux.Scale(float64(ix) * d.Dx))
	}
	ro := d.cartesianOrigin(ux, uy)
	return ro.Add(ux.Scale(float64(ix) * d.Dx)).Add(uy.Scale(float64(iy) * d.Dy))
}

// PixelArea returns the area (cm^2) of pixel (ix, iy), per spec.md
// section 4.6: dx*dy for a Cartesian grid; pi*(dx/2)^2 for the central
// disk (ix==0) of a spherical fan, 2*pi*ix*dx^2 for its annuli.
func (d *Detector) PixelArea(ix int) float64 {
	if d.Symmetry == Spherical {
		if ix == 0 {
			return math.Pi * (d.Dx / 2) * (d.Dx / 2)
		}
		return 2 * math.Pi * float64(ix) * d.Dx * d.Dx
	}
	return d.Dx * d.Dy
}

// AccumulateBundle sums a pixel's bundle-direction contributions
// (already individually solid-angle-and-cosine weighted, from
// Bundle.Directions) into one per-pixel spectrum, then scales by pixel
// area to convert to W/eV (spec.md section 4.6, "After bundle
// accumulation, multiply by pixel area").
func (d *Detector) AccumulateBundle(ix, iy int, perDirection []arrdbl.ArrDbl, weights []float64) arrdbl.ArrDbl {
	n := len(d.Hv)
	sum := arrdbl.New(n)
	for i, y := range perDirection {
		sum, _ = sum.Add(y.MulScalar(weights[i]))
	}
	area := d.PixelArea(ix)
	return sum.MulScalar(area)
}

// SetPixel stores yp as pixel (ix,iy)'s current per-time-step spectrum.
func (d *Detector) SetPixel(ix, iy int, yp arrdbl.ArrDbl) {
	d.Yp[[2]int{ix, iy}] = yp
}

// Pixel returns pixel (ix,iy)'s current spectrum, or a zero spectrum if
// unset.
func (d *Detector) Pixel(ix, iy int) arrdbl.ArrDbl {
	if yp, ok := d.Yp[[2]int{ix, iy}]; ok {
		return yp
	}
	return arrdbl.New(len(d.Hv))
}

// AccumulateSpaceIntegral adds every current pixel spectrum into Ys,
// resetting Ys first. Called once per time step after all pixels for
// this Detector have been computed.
func (d *Detector) AccumulateSpaceIntegral() {
	d.Ys = arrdbl.New(len(d.Hv))
	for _, yp := range d.Yp {
		d.Ys, _ = d.Ys.Add(yp)
	}
}

// AccumulateTimeIntegrals folds this time step's contribution (weighted
// by dt) into each pixel's Yt and into Yst, per spec.md section 4.8 step
// 4: "sum weighted by dt".
func (d *Detector) AccumulateTimeIntegrals(dt float64) {
	if d.Yst.Len() == 0 {
		d.Yst = arrdbl.New(len(d.Hv))
	}
	for key, yp := range d.Yp {
		prev, ok := d.Yt[key]
		if !ok {
			prev = arrdbl.New(len(d.Hv))
		}
		weighted := yp.MulScalar(dt)
		sum, _ := prev.Add(weighted)
		d.Yt[key] = sum
	}
	weighted := d.Ys.MulScalar(dt)
	d.Yst, _ = d.Yst.Add(weighted)
}

// Convolve applies a Gaussian of the given FWHM (over hv) to spectrum y,
// sampled on the same grid d.Hv, returning the broadened spectrum. A
// non-positive FWHM (the "no convolution requested" sentinel, per
// Detector::fwhm's default of -1.0 in the original) returns y unchanged.
func (d *Detector) Convolve(y arrdbl.ArrDbl) arrdbl.ArrDbl {
	return GaussianConvolve(d.Fwhm, d.Hv, y)
}

// GaussianConvolve convolves y(hv) with a normalized Gaussian kernel of
// the given FWHM, evaluated on the same abscissa hv (a direct O(n^2)
// quadrature, matching the reference implementation's dense convolution
// helper rather than an FFT, since detector hv grids here are small).
func GaussianConvolve(fwhm float64, hv []float64, y arrdbl.ArrDbl) arrdbl.ArrDbl {
	n := y.Len()
	out := arrdbl.New(n)
	if fwhm <= 0 {
		for k := 0; k < n; k++ {
			out.Set(k, y.At(k))
		}
		return out
	}
	sigma := fwhm / (2 * math.Sqrt(2*math.Ln2))
	for i := 0; i < n; i++ {
		num, den := 0.0, 0.0
		for j := 0; j < n; j++ {
			d := hv[i] - hv[j]
			w := math.Exp(-0.5 * (d / sigma) * (d / sigma))
			num += w * y.At(j)
			den += w
		}
		if den > 0 {
			out.Set(i, num/den)
		}
	}
	return out
}

// Rescale multiplies y by a scalar, used when Goal-driven fitting infers
// a best-fit scale factor for a detector's computed spectrum.
func Rescale(y arrdbl.ArrDbl, s float64) arrdbl.ArrDbl {
	return y.MulScalar(s)
}
