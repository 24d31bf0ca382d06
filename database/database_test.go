// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package database

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile %q: %v", path, err)
	}
}

func oneMaterialDatabase(t *testing.T) (*Database, *Table, string) {
	dir := t.TempDir() + "/"
	db := New(dir, "", false)
	db.SetGrids(
		[]float64{100}, []float64{100}, []float64{1e20}, []float64{1.0},
		[]string{"1.00e+02"}, []string{"1.00e+02"}, []string{"1.00e+20"},
	)
	froot := "_te1.00e+02ev_tr1.00e+02ev_ne1.00e+20pcc_"
	writeFile(t, dir+"eos/h/h"+froot+"zb.txt", "zbar 1.0\n")
	writeFile(t, dir+"spectra/h/h"+froot+"em.txt", "1.500000e+00\n")
	writeFile(t, dir+"spectra/h/h"+froot+"ab.txt", "2.500000e+00\n")
	writeFile(t, dir+"spectra/h/h"+froot+"sc.txt", "0.000000e+00\n")
	return db, NewTable(nil), dir
}

func TestDatabaseFindNe(t *testing.T) {
	chk.PrintTitle("Database.FindNe charge neutrality")
	db, tbl, _ := oneMaterialDatabase(t)
	ne, froot, err := db.FindNe(tbl, 100, 100, 1e20, []string{"h"}, []float64{1.0})
	if err != nil {
		t.Fatalf("FindNe failed: %v", err)
	}
	if math.Abs(ne-1e20) > 1e-6 {
		t.Fatalf("ne: got %g, want 1e20 (zbar=1, fp=1, np=1e20)", ne)
	}
	want := "_te1.00e+02ev_tr1.00e+02ev_ne1.00e+20pcc_"
	if froot != want {
		t.Fatalf("froot: got %q, want %q", froot, want)
	}
}

func TestDatabaseMixedCoefficients(t *testing.T) {
	chk.PrintTitle("Database.MixedCoefficients single material")
	db, tbl, _ := oneMaterialDatabase(t)
	em, ab, sc, ne, err := db.MixedCoefficients(tbl, 100, 100, 1e20, []string{"h"}, []float64{1.0})
	if err != nil {
		t.Fatalf("MixedCoefficients failed: %v", err)
	}
	if em.At(0) != 1.5 || ab.At(0) != 2.5 || sc.At(0) != 0.0 {
		t.Fatalf("coefficients: got em=%g ab=%g sc=%g", em.At(0), ab.At(0), sc.At(0))
	}
	if math.Abs(ne-1e20) > 1e-6 {
		t.Fatalf("ne: got %g, want 1e20", ne)
	}
}

func TestDatabaseMixedCoefficientsNoMaterials(t *testing.T) {
	chk.PrintTitle("Database.MixedCoefficients with no materials")
	db, tbl, _ := oneMaterialDatabase(t)
	em, ab, sc, ne, err := db.MixedCoefficients(tbl, 100, 100, 1e20, nil, nil)
	if err != nil {
		t.Fatalf("MixedCoefficients failed: %v", err)
	}
	if em.At(0) != 0 || ab.At(0) != 0 || sc.At(0) != 0 || ne != 0 {
		t.Fatalf("expected all-zero pass-through, got em=%g ab=%g sc=%g ne=%g", em.At(0), ab.At(0), sc.At(0), ne)
	}
}

func TestTableCanonical(t *testing.T) {
	chk.PrintTitle("Table.Canonical alias lookup")
	tbl := NewTable(map[string]string{"hydrogen": "h"})
	if got := tbl.Canonical("hydrogen"); got != "h" {
		t.Fatalf("Canonical: got %q, want %q", got, "h")
	}
	if got := tbl.Canonical("carbon"); got != "carbon" {
		t.Fatalf("Canonical fallback: got %q, want %q", got, "carbon")
	}
	var nilTbl *Table
	if got := nilTbl.Canonical("x"); got != "x" {
		t.Fatalf("nil Table.Canonical: got %q, want %q", got, "x")
	}
}
