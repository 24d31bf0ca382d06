// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package database implements the opacity/emissivity lookup: tabulated
// grids of te, tr, ne, hv plus per-material on-disk arrays indexed by
// those grids, and the charge-neutrality solve (find_ne) that picks the
// tabulated electron density consistent with a zone's material mixture.
package database

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/LANLhakel/FESTR-sub001/arrdbl"
)

// Table is a small translation dictionary from user-facing material
// names (as they appear in a time_<label>.txt file) to the on-disk
// material directory names under Database.Path/eos and
// Database.Path/spectra. Grounded on original_source/src/src/utils.cpp's
// Table collaborator referenced by Database::load_zbars.
type Table struct {
	alias map[string]string
}

// NewTable builds a Table from an alias -> canonical-directory-name map.
func NewTable(m map[string]string) *Table {
	t := &Table{alias: make(map[string]string, len(m))}
	for k, v := range m {
		t.alias[k] = v
	}
	return t
}

// Canonical returns the on-disk directory name for a user-facing
// material name, falling back to the name itself if no alias is
// registered (the common case: most materials need no translation).
func (t *Table) Canonical(name string) string {
	if t == nil {
		return name
	}
	if c, ok := t.alias[name]; ok {
		return c
	}
	return name
}

// Database is the tabulated opacity/emissivity lookup: the (te, tr, ne,
// hv) grids that parameterize every on-disk spectrum file, plus the
// directory path under which <mat>/<mat>_te..._tr..._ne..._{em,ab,sc,zb}.txt
// files live.
type Database struct {
	Path         string
	TopsCmnd     string
	TopsDefault  bool

	Te, Tr, Ne, Hv []float64
	teStr, trStr   []string
	neStr          []string
}

// New constructs an empty Database; callers (the inp package) populate
// the grids via SetGrids after parsing grids/*.txt files.
func New(path, topsCmnd string, topsDefault bool) *Database {
	return &Database{Path: path, TopsCmnd: topsCmnd, TopsDefault: topsDefault}
}

// SetGrids installs the te/tr/ne/hv grids and their string encodings
// (the filename fragments, e.g. "1.234e+01" style strings used to build
// on-disk file names), as read from grids/te_grid.txt etc.
func (d *Database) SetGrids(te, tr, ne, hv []float64, teStr, trStr, neStr []string) {
	d.Te, d.Tr, d.Ne, d.Hv = te, tr, ne, hv
	d.teStr, d.trStr, d.neStr = teStr, trStr, neStr
}

// Nte, Ntr, Nne, Nhv return the grid sizes.
func (d *Database) Nte() int { return len(d.Te) }
func (d *Database) Ntr() int { return len(d.Tr) }
func (d *Database) Nne() int { return len(d.Ne) }
func (d *Database) Nhv() int { return len(d.Hv) }

func nearestIndex(x float64, v []float64) int {
	if len(v) == 0 {
		return 0
	}
	best, bestD := 0, math.Abs(x-v[0])
	for i := 1; i < len(v); i++ {
		dd := math.Abs(x - v[i])
		if dd < bestD {
			best, bestD = i, dd
		}
	}
	return best
}

// NearestTeStr returns the filename-fragment string for the te grid
// point nearest x, and that index.
func (d *Database) NearestTeStr(x float64) (string, int) {
	i := nearestIndex(x, d.Te)
	return d.teStr[i], i
}

// NearestTrStr returns the filename-fragment string for the tr grid
// point nearest x, and that index.
func (d *Database) NearestTrStr(x float64) (string, int) {
	i := nearestIndex(x, d.Tr)
	return d.trStr[i], i
}

// ZbarAt reads the average ion charge state zbar for material mat at the
// (te, tr, ne) point identified by froot (the "_te<te>ev_tr<tr>ev_ne"
// filename prefix FindNe builds from NearestTeStr/NearestTrStr) and the
// ne string at index ine. Grounded on Database::load_zbars, which reads a
// single "zbar" scalar out of each material's _zb.txt file.
func (d *Database) ZbarAt(tbl *Table, mat string, froot string, ine int) (float64, error) {
	m := tbl.Canonical(mat)
	fname := fmt.Sprintf("%seos/%s/%s%s%spcc_zb.txt", d.Path, m, m, froot, d.neStr[ine])
	buf, err := io.ReadFile(fname)
	if err != nil {
		return 0, chk.Err("database.ZbarAt: file %q is not open: %v", fname, err)
	}
	zbar, ok := findWordValue(string(buf), "zbar")
	if !ok {
		return 0, chk.Err("database.ZbarAt: %q has no \"zbar\" field", fname)
	}
	return zbar, nil
}

// findWordValue scans text for a line containing word, then parses the
// next whitespace-delimited token on or after that line as a float.
func findWordValue(text, word string) (float64, bool) {
	idx := strings.Index(text, word)
	if idx < 0 {
		return 0, false
	}
	rest := text[idx+len(word):]
	fields := strings.Fields(rest)
	for _, f := range fields {
		if x, err := strconv.ParseFloat(f, 64); err == nil {
			return x, true
		}
	}
	return 0, false
}

// neChargeNeutrality computes sum_i fp_i * zbar_i * np, the stoichiometric
// free-electron density implied by a zone's material mixture at a given
// set of per-material zbar values (Database::ne_charge_neut in
// original_source/src/src/utils.cpp).
func neChargeNeutrality(np float64, fp, zbars []float64) float64 {
	s := 0.0
	for i := range fp {
		s += fp[i] * zbars[i]
	}
	return s * np
}

// FindNe implements spec.md section 3's Database.find_ne: pick the
// nearest tabulated (te, tr), then the tabulated ne whose value minimizes
// |ne - sum_i fp_i*zbar_i(ne)*np| (charge neutrality). Returns the
// resulting electron density and the "_te..._tr..._ne..._" filename-root
// fragment used to locate this zone's spectrum files.
func (d *Database) FindNe(tbl *Table, te, tr, np float64, mat []string, fp []float64) (ne float64, froot string, err error) {
	teStr, _ := d.NearestTeStr(te)
	trStr, _ := d.NearestTrStr(tr)
	root := "_te" + teStr + "ev_tr" + trStr + "ev_ne"

	bestI, bestDiff := -1, math.MaxFloat64
	for i := range d.Ne {
		zbars := make([]float64, len(mat))
		for j, m := range mat {
			z, zerr := d.ZbarAt(tbl, m, root, i)
			if zerr != nil {
				return 0, "", zerr
			}
			zbars[j] = z
		}
		diff := math.Abs(d.Ne[i] - neChargeNeutrality(np, fp, zbars))
		if diff < bestDiff {
			bestDiff, bestI = diff, i
		}
	}
	if bestI < 0 {
		return 0, "", chk.Err("database.FindNe: empty ne grid")
	}
	zbars := make([]float64, len(mat))
	for j, m := range mat {
		z, zerr := d.ZbarAt(tbl, m, root, bestI)
		if zerr != nil {
			return 0, "", zerr
		}
		zbars[j] = z
	}
	ne = neChargeNeutrality(np, fp, zbars)
	froot = root + d.neStr[bestI] + "pcc_"
	return ne, froot, nil
}

// spectrumFile reads one of the three per-material spectrum kinds
// ("em", "ab", "sc") as an Nhv-length ArrDbl, from
// <path>spectra/<mat>/<mat><froot>{kind}.txt.
func (d *Database) spectrumFile(tbl *Table, mat, froot, kind string) (arrdbl.ArrDbl, error) {
	m := tbl.Canonical(mat)
	fname := fmt.Sprintf("%sspectra/%s/%s%s%s.txt", d.Path, m, m, froot, kind)
	a, err := arrdbl.FromFile(fname)
	if err != nil {
		return arrdbl.ArrDbl{}, chk.Err("database.spectrumFile: %v", err)
	}
	if a.Len() != len(d.Hv) {
		return arrdbl.ArrDbl{}, chk.Err("database.spectrumFile: %q has %d bins, hv grid has %d", fname, a.Len(), len(d.Hv))
	}
	return a, nil
}

// Coefficients returns the per-bin (emissivity, absorption, scattering)
// spectra for a single material at the on-disk point identified by
// froot, one of the grid-point file roots FindNe returns.
func (d *Database) Coefficients(tbl *Table, mat, froot string) (em, ab, sc arrdbl.ArrDbl, err error) {
	em, err = d.spectrumFile(tbl, mat, froot, "em")
	if err != nil {
		return
	}
	ab, err = d.spectrumFile(tbl, mat, froot, "ab")
	if err != nil {
		return
	}
	sc, err = d.spectrumFile(tbl, mat, froot, "sc")
	return
}

// MixedCoefficients returns the fraction-weighted sum of per-material
// (em, ab, sc) spectra for a zone's full material mixture, at
// temperatures (te, tr), particle density np, over nmat materials mat
// with fractions fp. This is the operation Ray.cross_Mesh calls once per
// zone per segment (spec.md section 4.5, step 1).
func (d *Database) MixedCoefficients(tbl *Table, te, tr, np float64, mat []string, fp []float64) (em, ab, sc arrdbl.ArrDbl, ne float64, err error) {
	n := len(d.Hv)
	em, ab, sc = arrdbl.New(n), arrdbl.New(n), arrdbl.New(n)
	if len(mat) == 0 {
		// spec.md section 7: a zone with nmat == 0 passes rays through
		// untouched by design -- em/ab/sc are zero, no Database lookup.
		return em, ab, sc, 0, nil
	}
	ne, froot, err := d.FindNe(tbl, te, tr, np, mat, fp)
	if err != nil {
		return arrdbl.ArrDbl{}, arrdbl.ArrDbl{}, arrdbl.ArrDbl{}, 0, err
	}
	for i, m := range mat {
		e, a, s, cerr := d.Coefficients(tbl, m, froot)
		if cerr != nil {
			return arrdbl.ArrDbl{}, arrdbl.ArrDbl{}, arrdbl.ArrDbl{}, 0, cerr
		}
		em, _ = em.Add(e.MulScalar(fp[i]))
		ab, _ = ab.Add(a.MulScalar(fp[i]))
		sc, _ = sc.Add(s.MulScalar(fp[i]))
	}
	return em, ab, sc, ne, nil
}

// OpacityGenerator is the single documented extension point for invoking
// an external tabulated-opacity generator (e.g. a TOPS run) when a
// requested (material, te, tr, ne) point is not already on disk. FESTR's
// own Non-goals (spec.md section 1) place the generator itself out of
// scope: this interface intentionally ships with no implementation.
type OpacityGenerator interface {
	Generate(mat string, te, tr, ne float64) error
}

// String renders a short summary, mirroring Database::to_string.
func (d *Database) String() string {
	return fmt.Sprintf("Database path: %s\nnte:%6d\nntr:%6d\nnne:%6d\nnhv:%6d",
		d.Path, d.Nte(), d.Ntr(), d.Nne(), d.Nhv())
}
