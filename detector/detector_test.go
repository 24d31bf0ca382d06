// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detector

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/LANLhakel/FESTR-sub001/arrdbl"
	"github.com/LANLhakel/FESTR-sub001/vec3"
)

func TestRestrictHv(t *testing.T) {
	chk.PrintTitle("RestrictHv slices the [jmin,jmax] window")
	hv := []float64{1, 2, 3, 4, 5, 6}
	got := RestrictHv(hv, 2, 5)
	want := []float64{2, 3, 4, 5}
	chk.Array(t, "hv window", 1e-15, got, want)
}

func TestRestrictHvEmptyWindow(t *testing.T) {
	chk.PrintTitle("RestrictHv returns nil when no grid point falls in range")
	hv := []float64{1, 2, 3}
	got := RestrictHv(hv, 10, 20)
	if len(got) != 0 {
		t.Fatalf("expected an empty window, got %v", got)
	}
}

func TestPixelAreaCartesian(t *testing.T) {
	chk.PrintTitle("Cartesian pixel area is dx*dy")
	d := &Detector{Dx: 2, Dy: 3}
	if a := d.PixelArea(0); math.Abs(a-6) > 1e-15 {
		t.Fatalf("got %v, want 6", a)
	}
}

func TestPixelAreaSpherical(t *testing.T) {
	chk.PrintTitle("Spherical pixel area: central disk then annuli")
	d := &Detector{Dx: 2, Symmetry: Spherical}
	central := d.PixelArea(0)
	wantCentral := math.Pi * 1 * 1
	if math.Abs(central-wantCentral) > 1e-12 {
		t.Fatalf("central disk: got %v, want %v", central, wantCentral)
	}
	annulus := d.PixelArea(3)
	wantAnnulus := 2 * math.Pi * 3 * 4.0
	if math.Abs(annulus-wantAnnulus) > 1e-12 {
		t.Fatalf("annulus: got %v, want %v", annulus, wantAnnulus)
	}
}

func TestPixelOriginCartesianAnchorsAtLowerLeftCorner(t *testing.T) {
	chk.PrintTitle("Cartesian PixelOrigin is anchored at the grid's lower-left corner, not Rc")
	d := &Detector{
		Rc: vec3.New(0, 0, 0), Pc: vec3.New(0, 0, -1),
		Rx: 2, Ry: 3, Dx: 1, Dy: 1.5,
	}
	want00 := vec3.New(-1.5, -2.25, 0)
	got00 := d.PixelOrigin(0, 0)
	if got00.Sub(want00).Norm() > 1e-12 {
		t.Fatalf("pixel (0,0): got %v, want %v", got00, want00)
	}
	want10 := vec3.New(-0.5, -2.25, 0)
	got10 := d.PixelOrigin(1, 0)
	if got10.Sub(want10).Norm() > 1e-12 {
		t.Fatalf("pixel (1,0): got %v, want %v", got10, want10)
	}
}

func TestPixelOriginSphericalAnchorsAtRc(t *testing.T) {
	chk.PrintTitle("Spherical PixelOrigin stays anchored at Rc (only the Cartesian corner shifts)")
	d := &Detector{
		Rc: vec3.New(0, 0, 0), Pc: vec3.New(0, 0, -1),
		Rx: 2, Dx: 1, Symmetry: Spherical,
	}
	got := d.PixelOrigin(0, 0)
	if got.Sub(d.Rc).Norm() > 1e-12 {
		t.Fatalf("pixel 0: got %v, want Rc %v", got, d.Rc)
	}
	got2 := d.PixelOrigin(2, 0)
	want2 := vec3.New(2, 0, 0)
	if got2.Sub(want2).Norm() > 1e-12 {
		t.Fatalf("pixel 2: got %v, want %v", got2, want2)
	}
}

func TestBundleDirectionsSingleRay(t *testing.T) {
	chk.PrintTitle("Ntheta==0 yields exactly the boresight with unit weight")
	b := Bundle{Ntheta: 0}
	dirs := b.Directions(vec3.New(0, 0, 1))
	if len(dirs) != 1 {
		t.Fatalf("got %d directions, want 1", len(dirs))
	}
	if dirs[0].Weight != 1 {
		t.Fatalf("got weight %v, want 1", dirs[0].Weight)
	}
}

func TestBundleDirectionsCount(t *testing.T) {
	chk.PrintTitle("a genuine bundle samples one central ray plus ntheta-1 rings of nphi")
	b := Bundle{ThetaMax: 0.1, Ntheta: 3, Nphi: 4}
	dirs := b.Directions(vec3.New(0, 0, 1))
	want := 1 + (3-1)*4
	if len(dirs) != want {
		t.Fatalf("got %d directions, want %d", len(dirs), want)
	}
}

func TestBacklighterFlat(t *testing.T) {
	chk.PrintTitle("flat backlighter is constant over hv")
	b := Backlighter{Kind: "flat", Value: 2.5}
	hv := []float64{1, 2, 3}
	y := b.Spectrum(hv)
	for i := 0; i < y.Len(); i++ {
		if y.At(i) != 2.5 {
			t.Fatalf("flat backlighter: got %v at %d, want 2.5", y.At(i), i)
		}
	}
}

func TestBacklighterBlackbodyNonNegative(t *testing.T) {
	chk.PrintTitle("Planckian backlighter is non-negative everywhere (spec.md section 8)")
	b := Backlighter{Kind: "blackbody", Temperature: 1000}
	hv := []float64{1, 10, 100, 1000, 5000}
	y := b.Spectrum(hv)
	for i := 0; i < y.Len(); i++ {
		if y.At(i) < 0 {
			t.Fatalf("got negative intensity %v at hv=%v", y.At(i), hv[i])
		}
	}
}

func TestGaussianConvolveNoOpBelowZeroFwhm(t *testing.T) {
	chk.PrintTitle("GaussianConvolve is the identity when fwhm<=0")
	hv := []float64{1, 2, 3, 4}
	y := arrdbl.FromSlice([]float64{1, 2, 3, 4})
	out := GaussianConvolve(-1, hv, y)
	chk.Array(t, "unconvolved", 1e-15, out.Slice(), y.Slice())
}
