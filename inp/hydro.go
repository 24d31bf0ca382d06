// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/LANLhakel/FESTR-sub001/hydro"
)

// ReadHydro parses a Hydro descriptor file: a "symmetry" keyword (none
// or spherical), a "dim" line giving the number of parameter axes
// followed by each axis size, and an "nsnapshots" count followed by one
// "time_index time dt" triple per snapshot.
func ReadHydro(fname string) (*hydro.Hydro, error) {
	buf, err := io.ReadFile(fname)
	if err != nil {
		return nil, chk.Err("inp.ReadHydro: file %q is not open: %v", fname, err)
	}
	s := newScanner(string(buf))

	symStr, err := keyed(s, "symmetry:")
	if err != nil {
		return nil, err
	}
	sym := hydro.None
	if symStr == "spherical" {
		sym = hydro.Spherical
	}

	if err := s.findKey("dim:"); err != nil {
		return nil, err
	}
	ndim, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	dim := make([]int, ndim)
	for i := range dim {
		if dim[i], err = s.nextInt(); err != nil {
			return nil, err
		}
	}

	if err := s.findKey("nsnapshots:"); err != nil {
		return nil, err
	}
	nsnap, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	snapshots := make([]hydro.Snapshot, nsnap)
	for i := 0; i < nsnap; i++ {
		it, ierr := s.nextInt()
		if ierr != nil {
			return nil, ierr
		}
		t, terr := s.nextFloat()
		if terr != nil {
			return nil, terr
		}
		dt, derr := s.nextFloat()
		if derr != nil {
			return nil, derr
		}
		snapshots[i] = hydro.Snapshot{TimeIndex: it, Time: t, Dt: dt}
	}

	return hydro.New(sym, snapshots, dim), nil
}
