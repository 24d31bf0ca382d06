// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp implements the readers for FESTR's external, line-keyed
// text formats (spec.md section 6): the options file, the diagnostics
// list and per-detector files, the mesh and time snapshot files, and the
// material-name table. Every reader is built on
// github.com/cpmech/gosl/io's ReadFile plus line/field scanning, in the
// idiom gofem's inp.ReadSim/inp.ReadMat use for their own JSON-adjacent
// text formats.
package inp

import (
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Config is the parsed content of an options file: the top-level paths
// and flags that drive one festr run, per spec.md section 6.
type Config struct {
	TopPath               string
	GoalPath              string // "none" selects forward mode
	OutputPath            string
	MaterialTablePath     string
	MaterialTableFileName string
	HydroPath             string
	TopsCmnd              string
	DatabasePath          string
	DiagnosticsPath       string

	Analysis   bool // true iff GoalPath != "none"
	TopsDefault bool // true iff DatabasePath == "tops_default/"

	// Tmin and Tmax hold the forward-mode time range read from the
	// tmin_tmax key; meaningful only when !Analysis (spec.md section 6:
	// "forward-only"). Postprocess does not read them: it runs every
	// snapshot in the hydro file.
	Tmin, Tmax float64
}

// scanner is a minimal line-keyed "find a key, read the value token(s)
// that follow" reader over an already-loaded text file, matching the
// original utils::find_word + stream-extraction idiom (spec.md section
// 6: "line-keyed, order-sensitive" options file).
type scanner struct {
	tokens []string
	pos    int
}

func newScanner(text string) *scanner {
	return &scanner{tokens: strings.Fields(text)}
}

// findKey advances past the first occurrence of key (a bare key such as
// "Top_path:" exactly as it appears in the file) and returns an error if
// key is never found in the remaining tokens.
func (s *scanner) findKey(key string) error {
	for i := s.pos; i < len(s.tokens); i++ {
		if s.tokens[i] == key {
			s.pos = i + 1
			return nil
		}
	}
	return chk.Err("inp: key %q not found", key)
}

// next returns the next whitespace-delimited token.
func (s *scanner) next() (string, error) {
	if s.pos >= len(s.tokens) {
		return "", chk.Err("inp: unexpected end of input")
	}
	t := s.tokens[s.pos]
	s.pos++
	return t, nil
}

func (s *scanner) nextFloat() (float64, error) {
	t, err := s.next()
	if err != nil {
		return 0, err
	}
	x, perr := strconv.ParseFloat(t, 64)
	if perr != nil {
		return 0, chk.Err("inp: %q is not a number: %v", t, perr)
	}
	return x, nil
}

func (s *scanner) nextInt() (int, error) {
	t, err := s.next()
	if err != nil {
		return 0, err
	}
	x, perr := strconv.Atoi(t)
	if perr != nil {
		return 0, chk.Err("inp: %q is not an integer: %v", t, perr)
	}
	return x, nil
}

func parseFloatStrict(t string) (float64, error) {
	x, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, chk.Err("inp: %q is not a number: %v", t, err)
	}
	return x, nil
}

func keyed(s *scanner, key string) (string, error) {
	if err := s.findKey(key); err != nil {
		return "", err
	}
	return s.next()
}

// ReadOptions parses an options file per spec.md section 6's recognized
// keys, in file order: Top_path, Goal, Output, Material_table_path,
// Material_table_file_name, Hydro, TOPS_command, Database, Diagnostics,
// and (forward-mode only) tmin_tmax.
func ReadOptions(fname string) (*Config, error) {
	buf, err := io.ReadFile(fname)
	if err != nil {
		return nil, chk.Err("inp.ReadOptions: file %q is not open: %v", fname, err)
	}
	s := newScanner(string(buf))
	c := &Config{}

	if c.TopPath, err = keyed(s, "Top_path:"); err != nil {
		return nil, err
	}
	if c.GoalPath, err = keyed(s, "Goal:"); err != nil {
		return nil, err
	}
	c.Analysis = c.GoalPath != "none"

	if c.OutputPath, err = keyed(s, "Output:"); err != nil {
		return nil, err
	}
	if c.MaterialTablePath, err = keyed(s, "Material_table_path:"); err != nil {
		return nil, err
	}
	if c.MaterialTableFileName, err = keyed(s, "Material_table_file_name:"); err != nil {
		return nil, err
	}
	if c.HydroPath, err = keyed(s, "Hydro:"); err != nil {
		return nil, err
	}
	if c.TopsCmnd, err = keyed(s, "TOPS_command:"); err != nil {
		return nil, err
	}
	if c.DatabasePath, err = keyed(s, "Database:"); err != nil {
		return nil, err
	}
	c.TopsDefault = c.DatabasePath == "tops_default/"

	if c.DiagnosticsPath, err = keyed(s, "Diagnostics:"); err != nil {
		return nil, err
	}

	if !c.Analysis {
		if err := s.findKey("tmin_tmax:"); err != nil {
			return nil, err
		}
		if c.Tmin, err = s.nextFloat(); err != nil {
			return nil, err
		}
		if c.Tmax, err = s.nextFloat(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ReadMaterialTable parses the material-name translation table (alias
// canonical-directory-name pairs, one per line) at path/fname.
func ReadMaterialTable(path, fname string) (map[string]string, error) {
	buf, err := io.ReadFile(path + fname)
	if err != nil {
		return nil, chk.Err("inp.ReadMaterialTable: file %q is not open: %v", path+fname, err)
	}
	m := map[string]string{}
	for _, line := range strings.Split(string(buf), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		m[fields[0]] = fields[1]
	}
	return m, nil
}
