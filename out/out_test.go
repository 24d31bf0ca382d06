// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/LANLhakel/FESTR-sub001/arrdbl"
	"github.com/LANLhakel/FESTR-sub001/detector"
	"github.com/LANLhakel/FESTR-sub001/goal"
)

func TestFormatScientific(t *testing.T) {
	chk.PrintTitle("FormatScientific")
	s := FormatScientific(1.0)
	if len(s) != 15 {
		t.Fatalf("field width: got %d chars (%q), want 15", len(s), s)
	}
	if !strings.Contains(s, "e+00") {
		t.Fatalf("expected exponent marker in %q", s)
	}
	neg := FormatScientific(-2.5e-3)
	if len(neg) != 15 {
		t.Fatalf("field width for negative value: got %d chars (%q), want 15", len(neg), neg)
	}
}

func TestWritePixelSpectrum(t *testing.T) {
	chk.PrintTitle("WritePixelSpectrum")
	hv := []float64{1.0, 2.0, 3.0}
	y := arrdbl.FromSlice([]float64{0.1, 0.2, 0.3})
	fname := t.TempDir() + "/spec.dat"
	if err := WritePixelSpectrum(fname, hv, y); err != nil {
		t.Fatalf("WritePixelSpectrum failed: %v", err)
	}
}

func TestWriteDetectorResults(t *testing.T) {
	chk.PrintTitle("WriteDetectorResults")
	d := detector.New("det0")
	d.Hv = []float64{1.0, 2.0}
	d.Yp = map[[2]int]arrdbl.ArrDbl{{0, 0}: arrdbl.FromSlice([]float64{1, 2})}
	d.Ys = arrdbl.FromSlice([]float64{3, 4})
	dir := t.TempDir() + "/"
	if err := WriteDetectorResults(dir, d); err != nil {
		t.Fatalf("WriteDetectorResults failed: %v", err)
	}
}

func TestWriteBestCase(t *testing.T) {
	chk.PrintTitle("WriteBestCase")
	g := goal.New()
	o := goal.NewObjective("det0", []float64{1, 2}, []float64{1, 2}, nil)
	g.Add(o)
	g.UpdateBest(3, []float64{1, 2}, []arrdbl.ArrDbl{arrdbl.FromSlice([]float64{1, 2})})
	fname := t.TempDir() + "/best_case.txt"
	if err := WriteBestCase(fname, g); err != nil {
		t.Fatalf("WriteBestCase failed: %v", err)
	}
}
