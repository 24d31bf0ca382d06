// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/LANLhakel/FESTR-sub001/hydro"
)

func Test_options01(tst *testing.T) {

	chk.PrintTitle("options01")

	text := `Top_path: /top/
Goal: none
Output: /out/
Material_table_path: /mat/
Material_table_file_name: mat.txt
Hydro: /hydro/
TOPS_command: tops
Database: tops_default/
Diagnostics: /diag/
tmin_tmax: 0.0 1.0
`
	io.WriteFileSD("/tmp/festr/inp", "test_options01.txt", text)

	cfg, err := ReadOptions("/tmp/festr/inp/test_options01.txt")
	if err != nil {
		tst.Errorf("ReadOptions failed: %v", err)
		return
	}
	io.Pforan("%+v\n", cfg)
	if cfg.Analysis {
		tst.Errorf("Goal: none must set Analysis=false")
		return
	}
	if !cfg.TopsDefault {
		tst.Errorf("Database: tops_default/ must set TopsDefault=true")
		return
	}
	chk.Scalar(tst, "tmin", 1e-15, cfg.Tmin, 0.0)
	chk.Scalar(tst, "tmax", 1e-15, cfg.Tmax, 1.0)
}

func Test_options02(tst *testing.T) {

	chk.PrintTitle("options02: inverse mode skips tmin_tmax")

	text := `Top_path: /top/
Goal: /goal/case.goal
Output: /out/
Material_table_path: /mat/
Material_table_file_name: mat.txt
Hydro: /hydro/
TOPS_command: tops
Database: /custom/db/
Diagnostics: /diag/
`
	io.WriteFileSD("/tmp/festr/inp", "test_options02.txt", text)

	cfg, err := ReadOptions("/tmp/festr/inp/test_options02.txt")
	if err != nil {
		tst.Errorf("ReadOptions failed: %v", err)
		return
	}
	if !cfg.Analysis {
		tst.Errorf("a non-'none' Goal path must set Analysis=true")
		return
	}
	if cfg.TopsDefault {
		tst.Errorf("a custom Database path must not set TopsDefault")
		return
	}
}

func Test_materialTable01(tst *testing.T) {

	chk.PrintTitle("materialTable01")

	text := "Al aluminum_dir\nAu gold_dir\n"
	io.WriteFileSD("/tmp/festr/inp", "test_mattable.txt", text)

	m, err := ReadMaterialTable("/tmp/festr/inp/", "test_mattable.txt")
	if err != nil {
		tst.Errorf("ReadMaterialTable failed: %v", err)
		return
	}
	if m["Al"] != "aluminum_dir" || m["Au"] != "gold_dir" {
		tst.Errorf("unexpected table contents: %v", m)
	}
}

func Test_hydro01(tst *testing.T) {

	chk.PrintTitle("hydro01")

	text := `symmetry: spherical
dim: 2 3 4
nsnapshots: 2
0 0.0 0.1
1 0.1 0.1
`
	io.WriteFileSD("/tmp/festr/inp", "test_hydro01.txt", text)

	hy, err := ReadHydro("/tmp/festr/inp/test_hydro01.txt")
	if err != nil {
		tst.Errorf("ReadHydro failed: %v", err)
		return
	}
	if hy.Symmetry != hydro.Spherical {
		tst.Errorf("expected spherical symmetry")
		return
	}
	if hy.Len() != 2 {
		tst.Errorf("got %d snapshots, want 2", hy.Len())
	}
	chk.Scalar(tst, "dt[1]", 1e-15, hy.DtAt(1), 0.1)
}

func Test_goal01(tst *testing.T) {

	chk.PrintTitle("goal01: a single objective with explicit x,y,w columns")

	text := `nobjectives: 1
name: shot123
weight: 1.0
rescale: true
has_x: true
has_w: true
xmode: linear
ymode: log
npoints: 3
1.0 10.0 1.0
2.0 20.0 1.0
3.0 30.0 1.0
`
	io.WriteFileSD("/tmp/festr/inp", "test_goal01.txt", text)

	g, err := ReadGoalFile("/tmp/festr/inp/test_goal01.txt")
	if err != nil {
		tst.Errorf("ReadGoalFile failed: %v", err)
		return
	}
	if len(g.Objectives) != 1 {
		tst.Errorf("got %d objectives, want 1", len(g.Objectives))
		return
	}
	o := g.Objectives[0]
	if o.Name != "shot123" {
		tst.Errorf("got name %q, want shot123", o.Name)
	}
	chk.Scalar(tst, "weight", 1e-15, o.Weight, 1.0)
	if len(o.X) != 3 || len(o.Y) != 3 || len(o.W) != 3 {
		tst.Errorf("expected 3-point columns, got x=%d y=%d w=%d", len(o.X), len(o.Y), len(o.W))
	}
	if !o.Rescale {
		tst.Errorf("rescale: true must set Rescale=true")
	}
}
