// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arrdbl

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestAddNeg(t *testing.T) {
	chk.PrintTitle("arrdbl: a + (-a) == 0")
	a := FromSlice([]float64{1, 2, 3})
	sum, err := a.Add(a.Neg())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < sum.Len(); i++ {
		if math.Abs(sum.At(i)) > SMALL {
			t.Fatalf("expected zero at %d, got %v", i, sum.At(i))
		}
	}
}

func TestMulDivScalarEquivalence(t *testing.T) {
	a := FromSlice([]float64{2, 4, 8})
	b := FromSlice([]float64{1, 2, 4})
	inv := New(b.Len())
	for i := 0; i < b.Len(); i++ {
		inv.Set(i, 1.0/b.At(i))
	}
	mul, err := a.Mul(inv)
	if err != nil {
		t.Fatal(err)
	}
	div, err := a.Div(b)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < mul.Len(); i++ {
		if math.Abs(mul.At(i)-div.At(i)) > 1e-12 {
			t.Fatalf("a*(1/b) != a/b at %d: %v vs %v", i, mul.At(i), div.At(i))
		}
	}
}

func TestExpLogRoundTrip(t *testing.T) {
	a := FromSlice([]float64{1, 2.5, 10})
	back := a.Log().Exp()
	for i := 0; i < a.Len(); i++ {
		if math.Abs(a.At(i)-back.At(i)) > 1e-9 {
			t.Fatalf("exp(log(a)) != a at %d: %v vs %v", i, a.At(i), back.At(i))
		}
	}
}

func TestLogNonPositive(t *testing.T) {
	a := FromSlice([]float64{-1, 0, 1})
	l := a.Log()
	if l.At(0) != -BIG || l.At(1) != -BIG {
		t.Fatalf("log of non-positive values should be -BIG, got %v %v", l.At(0), l.At(1))
	}
}

func TestDivByZero(t *testing.T) {
	a := FromSlice([]float64{1, 1})
	b := FromSlice([]float64{0, 1e-20})
	r, err := a.Div(b)
	if err != nil {
		t.Fatal(err)
	}
	if r.At(0) != -BIG || r.At(1) != -BIG {
		t.Fatalf("division by ~zero should yield -BIG, got %v %v", r.At(0), r.At(1))
	}
}

func TestRangeMismatch(t *testing.T) {
	a := FromSlice([]float64{1, 2})
	b := FromSlice([]float64{1, 2, 3})
	_, err := a.Add(b)
	if err == nil {
		t.Fatalf("expected a range error for mismatched sizes")
	}
}
