// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/LANLhakel/FESTR-sub001/database"
	"github.com/LANLhakel/FESTR-sub001/detector"
	"github.com/LANLhakel/FESTR-sub001/diagnostics"
	"github.com/LANLhakel/FESTR-sub001/inp"
	"github.com/LANLhakel/FESTR-sub001/out"
	"github.com/LANLhakel/FESTR-sub001/taskpool"
)

// main is the festr CLI entry point (spec.md section 6): `festr
// <options_file>`. Exit code 0 on success, nonzero on any fatal error
// (missing file, degenerate geometry, MPI rank count < 2 when a
// multi-rank TaskPool run is requested).
func main() {
	verbose := !mpi.IsOn() || mpi.Rank() == 0
	failed := false
	func() {
		defer func() {
			if err := recover(); err != nil {
				if verbose {
					io.PfRed("ERROR: %v\n", err)
				}
				failed = true
			}
		}()
		mpi.Start(false)
		defer mpi.Stop(false)

		flag.Parse()
		if len(flag.Args()) < 1 {
			chk.Panic("usage: festr <options_file>")
		}
		optionsFile := flag.Arg(0)

		if verbose {
			io.Pf("FESTR -- Finite-Element Spectral Transfer of Radiation\n")
		}

		cputime := time.Now()
		if err := run(optionsFile, verbose); err != nil {
			chk.Panic("%v", err)
		}
		if verbose {
			io.PfGreen("> done in %v\n", time.Since(cputime))
		}
	}()
	if failed {
		os.Exit(1)
	}
}

// run loads one festr configuration, builds the Database, Hydro, Goal
// (inverse mode only) and Detectors it names, executes forward or
// inverse mode, and writes the resulting output files.
func run(optionsFile string, verbose bool) error {
	cfg, err := inp.ReadOptions(optionsFile)
	if err != nil {
		return err
	}

	db := database.New(cfg.DatabasePath, cfg.TopsCmnd, cfg.TopsDefault)
	if err := inp.ReadDatabaseGrids(db); err != nil {
		return err
	}

	matTable, err := inp.ReadMaterialTable(cfg.MaterialTablePath, cfg.MaterialTableFileName)
	if err != nil {
		return err
	}
	tbl := database.NewTable(matTable)

	hy, err := inp.ReadHydro(cfg.HydroPath)
	if err != nil {
		return err
	}

	dl, err := inp.ReadDiagnosticsList(cfg.DiagnosticsPath + "diagnostics_list.txt")
	if err != nil {
		return err
	}
	dets, err := buildDetectors(cfg.DiagnosticsPath, dl, db)
	if err != nil {
		return err
	}

	r := &diagnostics.Run{
		DB:        db,
		Tbl:       tbl,
		Hydro:     hy,
		Detectors: dets,
		OutPath:   cfg.OutputPath,
		HydroPath: cfg.HydroPath,
		NThreads:  runtime.GOMAXPROCS(0),
	}

	if mpi.IsOn() && mpi.Size() > 1 {
		r.Comm = taskpool.NewGoslComm()
	}

	if verbose {
		r.Progress = diagnostics.NewProgress(dl.Prints, hy.Len())
	}

	if cfg.Analysis {
		goalObj, gerr := inp.ReadGoalFile(cfg.GoalPath)
		if gerr != nil {
			return gerr
		}
		r.Goal = goalObj
		if err := r.Analyze(); err != nil {
			return err
		}
	} else {
		if err := r.Postprocess(); err != nil {
			return err
		}
	}

	if !mpi.IsOn() || mpi.Rank() == 0 {
		return writeOutputs(cfg, r)
	}
	return nil
}

func buildDetectors(diagPath string, dl *inp.DiagList, db *database.Database) ([]*detector.Detector, error) {
	dets := make([]*detector.Detector, 0, len(dl.Entries))
	for _, entry := range dl.Entries {
		df, err := inp.ReadDetectorFile(diagPath + entry.Name + "_detector.txt")
		if err != nil {
			return nil, err
		}
		d := detector.New(entry.Name)
		d.Rc, d.Rx, d.Ry = df.Rc, df.Rx, df.Ry
		d.Dx, d.Dy = df.Dx, df.Dy
		d.Nx, d.Ny = df.Nx, df.Ny
		d.Pc = df.Pc
		d.Symmetry = df.Symmetry
		d.Fwhm = df.Fwhm
		d.Back = df.Back
		d.Bundle = detector.Bundle{ThetaMax: df.ThetaMax, Ntheta: entry.Ntheta, Nphi: entry.Nphi}
		d.Hv = detector.RestrictHv(db.Hv, df.HvMin, df.HvMax)
		dets = append(dets, d)
	}
	return dets, nil
}

func writeOutputs(cfg *inp.Config, r *diagnostics.Run) error {
	for _, d := range r.Detectors {
		if err := out.WriteDetectorResults(cfg.OutputPath, d); err != nil {
			return err
		}
	}
	if cfg.Analysis && r.Goal != nil {
		if err := out.WriteBestCase(cfg.OutputPath+"best_case.txt", r.Goal); err != nil {
			return err
		}
		if err := out.WriteBestCaseData(cfg.OutputPath+"best_case.dat", r.Goal); err != nil {
			return err
		}
	}
	return nil
}
