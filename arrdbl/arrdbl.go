// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arrdbl implements ArrDbl, a fixed-length array of doubles with
// elementwise arithmetic, safe division, log/exp, and file I/O. It plays
// the role gosl/la's Vector plays in gofem, specialized to the
// intensity-spectrum arrays used throughout the radiative transfer code.
package arrdbl

import (
	"math"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// SMALL is the zero tolerance for safe division; BIG is the sentinel
// magnitude substituted for a division by (near) zero or a log of a
// non-positive value, mirroring vec3.SMALL/vec3.BIG.
const (
	SMALL = 1.0e-15
	BIG   = 1.0e100
)

// ArrDbl is a length-n sequence of doubles.
type ArrDbl struct {
	v []float64
}

// New allocates an ArrDbl of length n, zero-filled.
func New(n int) ArrDbl {
	return ArrDbl{v: make([]float64, n)}
}

// FromSlice wraps an existing slice (no copy).
func FromSlice(v []float64) ArrDbl {
	return ArrDbl{v: v}
}

// Fill returns an ArrDbl of length n with every entry set to f.
func Fill(n int, f float64) ArrDbl {
	a := New(n)
	for i := range a.v {
		a.v[i] = f
	}
	return a
}

// Len returns the number of elements.
func (a ArrDbl) Len() int { return len(a.v) }

// At returns element i.
func (a ArrDbl) At(i int) float64 { return a.v[i] }

// Set assigns element i.
func (a ArrDbl) Set(i int, x float64) { a.v[i] = x }

// Slice returns the underlying slice (no copy); callers must not retain
// it across later ArrDbl mutations that reallocate.
func (a ArrDbl) Slice() []float64 { return a.v }

// Clone returns a deep copy.
func (a ArrDbl) Clone() ArrDbl {
	v := make([]float64, len(a.v))
	copy(v, a.v)
	return ArrDbl{v: v}
}

func rangeErr(op string, na, nb int) error {
	return chk.Err("ArrDbl.%s: array size mismatch: %d != %d", op, na, nb)
}

func (a ArrDbl) checkSize(op string, b ArrDbl) error {
	if len(a.v) != len(b.v) {
		return rangeErr(op, len(a.v), len(b.v))
	}
	return nil
}

// Add returns a+b elementwise.
func (a ArrDbl) Add(b ArrDbl) (ArrDbl, error) {
	if err := a.checkSize("Add", b); err != nil {
		return ArrDbl{}, err
	}
	r := New(len(a.v))
	for i := range a.v {
		r.v[i] = a.v[i] + b.v[i]
	}
	return r, nil
}

// Sub returns a-b elementwise.
func (a ArrDbl) Sub(b ArrDbl) (ArrDbl, error) {
	if err := a.checkSize("Sub", b); err != nil {
		return ArrDbl{}, err
	}
	r := New(len(a.v))
	for i := range a.v {
		r.v[i] = a.v[i] - b.v[i]
	}
	return r, nil
}

// Mul returns a*b elementwise.
func (a ArrDbl) Mul(b ArrDbl) (ArrDbl, error) {
	if err := a.checkSize("Mul", b); err != nil {
		return ArrDbl{}, err
	}
	r := New(len(a.v))
	for i := range a.v {
		r.v[i] = a.v[i] * b.v[i]
	}
	return r, nil
}

// Div returns a/b elementwise. Where |b_k| < SMALL, the result is -BIG
// (a sentinel, not NaN/Inf) instead of propagating a divide-by-zero.
func (a ArrDbl) Div(b ArrDbl) (ArrDbl, error) {
	if err := a.checkSize("Div", b); err != nil {
		return ArrDbl{}, err
	}
	r := New(len(a.v))
	for i := range a.v {
		if math.Abs(b.v[i]) < SMALL {
			r.v[i] = -BIG
		} else {
			r.v[i] = a.v[i] / b.v[i]
		}
	}
	return r, nil
}

// Neg returns -a.
func (a ArrDbl) Neg() ArrDbl {
	r := New(len(a.v))
	for i := range a.v {
		r.v[i] = -a.v[i]
	}
	return r
}

// AddScalar returns a+f elementwise.
func (a ArrDbl) AddScalar(f float64) ArrDbl {
	r := New(len(a.v))
	for i := range a.v {
		r.v[i] = a.v[i] + f
	}
	return r
}

// SubScalar returns a-f elementwise.
func (a ArrDbl) SubScalar(f float64) ArrDbl {
	return a.AddScalar(-f)
}

// MulScalar returns a*f elementwise.
func (a ArrDbl) MulScalar(f float64) ArrDbl {
	r := New(len(a.v))
	for i := range a.v {
		r.v[i] = a.v[i] * f
	}
	return r
}

// DivScalar returns a/f elementwise; |f|<SMALL yields -BIG everywhere.
func (a ArrDbl) DivScalar(f float64) ArrDbl {
	r := New(len(a.v))
	if math.Abs(f) < SMALL {
		for i := range r.v {
			r.v[i] = -BIG
		}
		return r
	}
	for i := range a.v {
		r.v[i] = a.v[i] / f
	}
	return r
}

// Log returns the elementwise natural log. log(x) for x<=0 is -BIG
// rather than NaN/-Inf.
func (a ArrDbl) Log() ArrDbl {
	r := New(len(a.v))
	for i, x := range a.v {
		if x <= 0 {
			r.v[i] = -BIG
		} else {
			r.v[i] = math.Log(x)
		}
	}
	return r
}

// Exp returns the elementwise exponential.
func (a ArrDbl) Exp() ArrDbl {
	r := New(len(a.v))
	for i, x := range a.v {
		r.v[i] = math.Exp(x)
	}
	return r
}

// AbsDiff returns sum_k |a_k - b_k|.
func (a ArrDbl) AbsDiff(b ArrDbl) (float64, error) {
	if err := a.checkSize("AbsDiff", b); err != nil {
		return 0, err
	}
	s := 0.0
	for i := range a.v {
		s += math.Abs(a.v[i] - b.v[i])
	}
	return s, nil
}

// ToFile writes one value per line in the same 6-significant-digit
// scientific notation as out.FormatScientific, without its 15-character
// padding.
func (a ArrDbl) ToFile(fname string) error {
	var sb strings.Builder
	for _, x := range a.v {
		sb.WriteString(strconv.FormatFloat(x, 'e', 5, 64))
		sb.WriteString("\n")
	}
	return io.WriteFileSD("", fname, sb.String())
}

// FromFile reads an ArrDbl previously written by ToFile (or any text
// file with one float per line).
func FromFile(fname string) (ArrDbl, error) {
	buf, err := io.ReadFile(fname)
	if err != nil {
		return ArrDbl{}, chk.Err("ArrDbl.FromFile: cannot open %q: %v", fname, err)
	}
	lines := strings.Split(strings.TrimSpace(string(buf)), "\n")
	v := make([]float64, 0, len(lines))
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		x, err := strconv.ParseFloat(ln, 64)
		if err != nil {
			return ArrDbl{}, chk.Err("ArrDbl.FromFile: %q: cannot parse %q: %v", fname, ln, err)
		}
		v = append(v, x)
	}
	return ArrDbl{v: v}, nil
}
