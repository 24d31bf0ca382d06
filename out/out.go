// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package out implements FESTR's output-file writers: fixed-width
// scientific-notation spectrum dumps (per-pixel, time-integrated,
// space-integrated, and space-and-time-integrated), the best-case
// summary, and a Plot2Dcyl-style mesh outline dump. Every writer builds
// its text with strings.Builder and commits it with
// github.com/cpmech/gosl/io's WriteFileSD, in the idiom gofem's own out
// package uses for its printing helpers.
package out

import (
	"strconv"
	"strings"

	"github.com/cpmech/gosl/io"

	"github.com/LANLhakel/FESTR-sub001/arrdbl"
	"github.com/LANLhakel/FESTR-sub001/detector"
	"github.com/LANLhakel/FESTR-sub001/face"
	"github.com/LANLhakel/FESTR-sub001/goal"
	"github.com/LANLhakel/FESTR-sub001/grid"
	"github.com/LANLhakel/FESTR-sub001/mesh"
)

// FormatScientific renders x as a 6-significant-digit scientific-notation
// token padded to a 15-character field, matching ArrDbl.ToFile's number
// format so every output file in the run shares one numeric convention.
func FormatScientific(x float64) string {
	s := strconv.FormatFloat(x, 'e', 5, 64)
	for len(s) < 15 {
		s = " " + s
	}
	return s
}

func writeRow(sb *strings.Builder, cols ...float64) {
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(FormatScientific(c))
	}
	sb.WriteString("\n")
}

// WritePixelSpectrum writes one pixel's hv-vs-intensity table at a single
// time step, two columns per row.
func WritePixelSpectrum(fname string, hv []float64, y arrdbl.ArrDbl) error {
	var sb strings.Builder
	for i, h := range hv {
		writeRow(&sb, h, y.At(i))
	}
	return io.WriteFileSD("", fname, sb.String())
}

// WriteTimeIntegratedSpectrum writes a pixel's time-integrated spectrum,
// same two-column layout as WritePixelSpectrum.
func WriteTimeIntegratedSpectrum(fname string, hv []float64, yt arrdbl.ArrDbl) error {
	return WritePixelSpectrum(fname, hv, yt)
}

// WriteSpaceIntegratedSpectrum writes a detector's space-integrated
// (all-pixel sum) spectrum at a single time step.
func WriteSpaceIntegratedSpectrum(fname string, hv []float64, ys arrdbl.ArrDbl) error {
	return WritePixelSpectrum(fname, hv, ys)
}

// WriteSpaceTimeIntegratedSpectrum writes a detector's fully integrated
// (space- and time-summed) spectrum.
func WriteSpaceTimeIntegratedSpectrum(fname string, hv []float64, yst arrdbl.ArrDbl) error {
	return WritePixelSpectrum(fname, hv, yst)
}

// WriteDetectorResults dumps the spectra a Detector currently holds:
// the most recent time step's per-pixel spectra (Yp), per-pixel time
// integrals (Yt), the most recent time step's space-integrated spectrum
// (Ys), and the fully integrated spectrum (Yst), one file per quantity
// under outDir.
func WriteDetectorResults(outDir string, d *detector.Detector) error {
	for key, y := range d.Yp {
		fname := io.Sf("%s%s_pixel_%d_%d.dat", outDir, d.Name, key[0], key[1])
		if err := WritePixelSpectrum(fname, d.Hv, y); err != nil {
			return err
		}
	}
	for key, y := range d.Yt {
		fname := io.Sf("%s%s_pixel_%d_%d_tint.dat", outDir, d.Name, key[0], key[1])
		if err := WriteTimeIntegratedSpectrum(fname, d.Hv, y); err != nil {
			return err
		}
	}
	if d.Ys.Len() > 0 {
		if err := WriteSpaceIntegratedSpectrum(io.Sf("%s%s_space.dat", outDir, d.Name), d.Hv, d.Ys); err != nil {
			return err
		}
	}
	if d.Yst.Len() > 0 {
		if err := WriteSpaceTimeIntegratedSpectrum(io.Sf("%s%s_spacetime.dat", outDir, d.Name), d.Hv, d.Yst); err != nil {
			return err
		}
	}
	return nil
}

// WriteBestCase writes the best_case.txt summary: one line per objective
// naming its best case index, best fitness, and best fit scale, followed
// by the overall best case id and aggregate fitness.
func WriteBestCase(fname string, g *goal.Goal) error {
	var sb strings.Builder
	for _, o := range g.Objectives {
		sb.WriteString(io.Sf("%s %d %s %s\n", o.Name, o.BestCase,
			FormatScientific(o.BestFitness), FormatScientific(o.BestScale)))
	}
	sb.WriteString(io.Sf("best_case %d %s\n", g.BestCase(), FormatScientific(g.BestAggregate())))
	return io.WriteFileSD("", fname, sb.String())
}

// WriteBestCaseData writes best_case.dat: one row per objective with its
// best case index, best fitness, and best fit scale as numeric columns.
// Unlike WriteBestCase it writes no objective name and no overall
// best-case line, and it does not write the objectives' x/y/weight data
// or the scaled best-fit curve.
func WriteBestCaseData(fname string, g *goal.Goal) error {
	var sb strings.Builder
	for _, o := range g.Objectives {
		writeRow(&sb, float64(o.BestCase), o.BestFitness, o.BestScale)
	}
	return io.WriteFileSD("", fname, sb.String())
}

// WriteMeshOutline writes a 2-D (r,z) polyline per face, one line per
// face listing its zone id, its node count, and that many "r z" pairs, in
// the spirit of the Plot2Dcyl companion tool's cylindrically-symmetric
// mesh dump. A Cone's endpoint nodes store (r, z) in (X, Y) and are
// written as such; every other face's nodes are written as (x, z), the
// x-axis doubling as the cylindrical radius.
func WriteMeshOutline(fname string, g *grid.Grid, m *mesh.Mesh) error {
	var sb strings.Builder
	for i := 0; i < m.Len(); i++ {
		z := m.Zone(i)
		for _, f := range z.Faces {
			ids := f.Nodes()
			if len(ids) == 0 {
				continue
			}
			sb.WriteString(strconv.Itoa(z.Id))
			sb.WriteString(" ")
			sb.WriteString(strconv.Itoa(len(ids)))
			_, isCone := f.(*face.Cone)
			for _, id := range ids {
				n := g.Node(id)
				zc := n.R.Z
				if isCone {
					zc = n.R.Y
				}
				sb.WriteString(" ")
				sb.WriteString(FormatScientific(n.R.X))
				sb.WriteString(" ")
				sb.WriteString(FormatScientific(zc))
			}
			sb.WriteString("\n")
		}
	}
	return io.WriteFileSD("", fname, sb.String())
}
