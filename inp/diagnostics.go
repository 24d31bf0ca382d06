// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/LANLhakel/FESTR-sub001/detector"
	"github.com/LANLhakel/FESTR-sub001/vec3"
)

// DiagEntry is one detector's listing in the diagnostics list file: its
// name, bundle size, and per-Ray reporting frequency (spec.md section 6).
type DiagEntry struct {
	Name     string
	Ntheta   int
	Nphi     int
	FreqRay  int
}

// DiagList is the parsed content of a diagnostics list file: the master
// progress-print frequency plus one DiagEntry per detector.
type DiagList struct {
	Prints  int
	Entries []DiagEntry
}

// ReadDiagnosticsList parses the top-level diagnostics list file:
// an integer "prints" (master progress frequency), then per detector a
// name, ntheta, nphi, freq_Ray quadruple (spec.md section 6).
func ReadDiagnosticsList(fname string) (*DiagList, error) {
	buf, err := io.ReadFile(fname)
	if err != nil {
		return nil, chk.Err("inp.ReadDiagnosticsList: file %q is not open: %v", fname, err)
	}
	s := newScanner(string(buf))
	dl := &DiagList{}
	if dl.Prints, err = s.nextInt(); err != nil {
		return nil, err
	}
	for s.pos < len(s.tokens) {
		name, nerr := s.next()
		if nerr != nil {
			break
		}
		ntheta, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		nphi, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		freq, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		dl.Entries = append(dl.Entries, DiagEntry{Name: name, Ntheta: ntheta, Nphi: nphi, FreqRay: freq})
	}
	return dl, nil
}

// DetectorFile is one detector's own configuration file (spec.md
// section 6): output path, progress frequencies, symmetry, geometry,
// spectral range, FWHM, backlighter spec, and bookkeeping flags.
type DetectorFile struct {
	OutputPath string
	FreqPatch  int
	FreqTrace  int
	Symmetry   detector.Symmetry

	Rc         vec3.Vector3d
	Rx, Ry     float64 // pixel-grid half-extents along the detector's auto-derived basis
	Dx, Dy     float64
	Pc         vec3.Vector3d
	Nx, Ny     int
	ThetaMax   float64

	HvMin, HvMax float64
	Fwhm         float64

	Back detector.Backlighter

	Tracking   bool
	WriteRay   bool
}

func readVec3(s *scanner) (vec3.Vector3d, error) {
	x, err := s.nextFloat()
	if err != nil {
		return vec3.Vector3d{}, err
	}
	y, err := s.nextFloat()
	if err != nil {
		return vec3.Vector3d{}, err
	}
	z, err := s.nextFloat()
	if err != nil {
		return vec3.Vector3d{}, err
	}
	return vec3.New(x, y, z), nil
}

// ReadDetectorFile parses one detector's configuration file.
func ReadDetectorFile(fname string) (*DetectorFile, error) {
	buf, err := io.ReadFile(fname)
	if err != nil {
		return nil, chk.Err("inp.ReadDetectorFile: file %q is not open: %v", fname, err)
	}
	s := newScanner(string(buf))
	df := &DetectorFile{}

	if df.OutputPath, err = keyed(s, "output_path:"); err != nil {
		return nil, err
	}
	if df.FreqPatch, err = intKeyed(s, "freq_patch:"); err != nil {
		return nil, err
	}
	if df.FreqTrace, err = intKeyed(s, "freq_trace:"); err != nil {
		return nil, err
	}
	symStr, err := keyed(s, "symmetry:")
	if err != nil {
		return nil, err
	}
	if symStr == "spherical" {
		df.Symmetry = detector.Spherical
	} else {
		df.Symmetry = detector.None
	}

	if err := s.findKey("rc:"); err != nil {
		return nil, err
	}
	if df.Rc, err = readVec3(s); err != nil {
		return nil, err
	}
	if df.Rx, err = floatKeyed(s, "rx:"); err != nil {
		return nil, err
	}
	if df.Ry, err = floatKeyed(s, "ry:"); err != nil {
		return nil, err
	}
	if df.Dx, err = floatKeyed(s, "dx:"); err != nil {
		return nil, err
	}
	if df.Dy, err = floatKeyed(s, "dy:"); err != nil {
		return nil, err
	}
	if df.Nx, err = intKeyed(s, "nx:"); err != nil {
		return nil, err
	}
	if df.Ny, err = intKeyed(s, "ny:"); err != nil {
		return nil, err
	}
	if err := s.findKey("pc:"); err != nil {
		return nil, err
	}
	if df.Pc, err = readVec3(s); err != nil {
		return nil, err
	}
	if df.ThetaMax, err = floatKeyed(s, "theta_max:"); err != nil {
		return nil, err
	}
	if df.HvMin, err = floatKeyed(s, "hv_min:"); err != nil {
		return nil, err
	}
	if df.HvMax, err = floatKeyed(s, "hv_max:"); err != nil {
		return nil, err
	}
	if df.Fwhm, err = floatKeyed(s, "fwhm:"); err != nil {
		return nil, err
	}

	if err := s.findKey("backlighter:"); err != nil {
		return nil, err
	}
	kind, err := s.next()
	if err != nil {
		return nil, err
	}
	switch kind {
	case "flat":
		v, verr := s.nextFloat()
		if verr != nil {
			return nil, verr
		}
		df.Back = detector.Backlighter{Kind: "flat", Value: v}
	case "blackbody":
		t, terr := s.nextFloat()
		if terr != nil {
			return nil, terr
		}
		df.Back = detector.Backlighter{Kind: "blackbody", Temperature: t}
	case "file":
		path, perr := s.next()
		if perr != nil {
			return nil, perr
		}
		hv, i0, rerr := readBacklighterTable(path)
		if rerr != nil {
			return nil, rerr
		}
		df.Back = detector.Backlighter{Kind: "file", TableHv: hv, TableI0: i0}
	default:
		return nil, chk.Err("inp.ReadDetectorFile: unknown backlighter kind %q", kind)
	}

	trackStr, err := keyed(s, "tracking:")
	if err != nil {
		return nil, err
	}
	df.Tracking = trackStr == "true" || trackStr == "1"

	writeStr, err := keyed(s, "write_Ray:")
	if err != nil {
		return nil, err
	}
	df.WriteRay = writeStr == "true" || writeStr == "1"

	return df, nil
}

func intKeyed(s *scanner, key string) (int, error) {
	if err := s.findKey(key); err != nil {
		return 0, err
	}
	return s.nextInt()
}

func floatKeyed(s *scanner, key string) (float64, error) {
	if err := s.findKey(key); err != nil {
		return 0, err
	}
	return s.nextFloat()
}

func readBacklighterTable(fname string) (hv, i0 []float64, err error) {
	buf, rerr := io.ReadFile(fname)
	if rerr != nil {
		return nil, nil, chk.Err("inp.readBacklighterTable: file %q is not open: %v", fname, rerr)
	}
	for _, ln := range strings.Split(strings.TrimSpace(string(buf)), "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		f := strings.Fields(ln)
		if len(f) < 2 {
			continue
		}
		var x, y float64
		if _, serr := parseTwo(f[0], f[1], &x, &y); serr != nil {
			return nil, nil, serr
		}
		hv = append(hv, x)
		i0 = append(i0, y)
	}
	return hv, i0, nil
}

func parseTwo(a, b string, x, y *float64) (bool, error) {
	var err error
	*x, err = parseFloatStrict(a)
	if err != nil {
		return false, err
	}
	*y, err = parseFloatStrict(b)
	if err != nil {
		return false, err
	}
	return true, nil
}
