// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/LANLhakel/FESTR-sub001/database"
)

// readGridFile parses one grid file: a count line followed by that many
// "value string" pairs, where string is the on-disk filename fragment
// for that grid point (spec.md section 6, Database grids).
func readGridFile(fname string) (values []float64, strs []string, err error) {
	buf, rerr := io.ReadFile(fname)
	if rerr != nil {
		return nil, nil, chk.Err("inp.readGridFile: file %q is not open: %v", fname, rerr)
	}
	s := newScanner(string(buf))
	n, err := s.nextInt()
	if err != nil {
		return nil, nil, err
	}
	values = make([]float64, n)
	strs = make([]string, n)
	for i := 0; i < n; i++ {
		v, verr := s.nextFloat()
		if verr != nil {
			return nil, nil, verr
		}
		str, serr := s.next()
		if serr != nil {
			return nil, nil, serr
		}
		values[i], strs[i] = v, str
	}
	return values, strs, nil
}

// ReadDatabaseGrids loads the te/tr/ne/hv grids from
// <path>grids/{te,tr,ne,hv}_grid.txt and installs them on db.
func ReadDatabaseGrids(db *database.Database) error {
	te, teStr, err := readGridFile(db.Path + "grids/te_grid.txt")
	if err != nil {
		return err
	}
	tr, trStr, err := readGridFile(db.Path + "grids/tr_grid.txt")
	if err != nil {
		return err
	}
	ne, neStr, err := readGridFile(db.Path + "grids/ne_grid.txt")
	if err != nil {
		return err
	}
	hv, _, err := readGridFile(db.Path + "grids/hv_grid.txt")
	if err != nil {
		return err
	}
	db.SetGrids(te, tr, ne, hv, teStr, trStr, neStr)
	return nil
}
