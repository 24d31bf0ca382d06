// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/LANLhakel/FESTR-sub001/goal"
)

// ReadGoalFile parses an inverse-mode goal file: a "nobjectives" count,
// then per objective a name/weight/rescale/has_x/has_w/xmode/ymode
// header followed by npoints rows of (x?, y, w?) columns, per spec.md
// section 3's Goal entity (x optional, w optional with unit point weights
// when absent, rescale flag); the "weight:" key is required. This format is not dictated verbatim by spec.md
// section 6 (only the Goal entity's fields are); it follows the same
// line-keyed scanning idiom as every other inp reader.
func ReadGoalFile(fname string) (*goal.Goal, error) {
	buf, err := io.ReadFile(fname)
	if err != nil {
		return nil, chk.Err("inp.ReadGoalFile: file %q is not open: %v", fname, err)
	}
	s := newScanner(string(buf))
	n, err := intKeyed(s, "nobjectives:")
	if err != nil {
		return nil, err
	}
	g := goal.New()
	for i := 0; i < n; i++ {
		name, nerr := keyed(s, "name:")
		if nerr != nil {
			return nil, nerr
		}
		weight, werr := floatKeyed(s, "weight:")
		if werr != nil {
			return nil, werr
		}
		rescaleStr, rerr := keyed(s, "rescale:")
		if rerr != nil {
			return nil, rerr
		}
		hasXStr, hxerr := keyed(s, "has_x:")
		if hxerr != nil {
			return nil, hxerr
		}
		hasWStr, hwerr := keyed(s, "has_w:")
		if hwerr != nil {
			return nil, hwerr
		}
		xModeStr, xmerr := keyed(s, "xmode:")
		if xmerr != nil {
			return nil, xmerr
		}
		yModeStr, ymerr := keyed(s, "ymode:")
		if ymerr != nil {
			return nil, ymerr
		}
		npts, nperr := intKeyed(s, "npoints:")
		if nperr != nil {
			return nil, nperr
		}

		hasX := hasXStr == "true"
		hasW := hasWStr == "true"
		var x, w []float64
		if hasX {
			x = make([]float64, npts)
		}
		y := make([]float64, npts)
		if hasW {
			w = make([]float64, npts)
		}
		for k := 0; k < npts; k++ {
			if hasX {
				if x[k], err = s.nextFloat(); err != nil {
					return nil, err
				}
			}
			if y[k], err = s.nextFloat(); err != nil {
				return nil, err
			}
			if hasW {
				if w[k], err = s.nextFloat(); err != nil {
					return nil, err
				}
			}
		}

		obj := goal.NewObjective(name, x, y, w)
		obj.Weight = weight
		obj.Rescale = rescaleStr == "true"
		obj.XMode = parseAxisMode(xModeStr)
		obj.YMode = parseAxisMode(yModeStr)
		g.Add(obj)
	}
	return g, nil
}

func parseAxisMode(s string) goal.AxisMode {
	if s == "log" {
		return goal.Log
	}
	return goal.Linear
}
