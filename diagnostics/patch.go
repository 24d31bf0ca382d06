// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diagnostics implements Run: the collection of Detectors that
// drives one festr execution, either forward (Postprocess, summing
// spectra at each hydro time step) or inverse (Analyze, searching hydro
// cases for the one that best matches a Goal). Per-pixel ray bundles are
// distributed across MPI ranks with taskpool.TaskPool, mirroring the
// PatchID/PatchSpectrum task pair the original Detector.cpp dispatches
// through its own TaskPool instantiation.
package diagnostics

import (
	"encoding/binary"
	"math"

	"github.com/LANLhakel/FESTR-sub001/arrdbl"
)

// patchID is the unit of work handed to a worker rank: one pixel's
// integer coordinates plus its Progress-counter index j.
type patchID struct {
	ix, iy, j int
}

func (p *patchID) SizeOf() int { return 3 * 8 }

func (p *patchID) Pack(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], uint64(p.ix))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(p.iy))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(p.j))
}

func (p *patchID) Unpack(buf []byte) {
	p.ix = int(binary.LittleEndian.Uint64(buf[0:8]))
	p.iy = int(binary.LittleEndian.Uint64(buf[8:16]))
	p.j = int(binary.LittleEndian.Uint64(buf[16:24]))
}

// patchSpectrum is one pixel's computed spectrum, returned by a worker.
type patchSpectrum struct {
	ix, iy int
	caseID int
	rank   int
	yp     arrdbl.ArrDbl
}

func (p *patchSpectrum) SizeOf() int { return 3*8 + p.yp.Len()*8 }

func (p *patchSpectrum) Pack(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], uint64(p.ix))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(p.iy))
	n := p.yp.Len()
	binary.LittleEndian.PutUint64(buf[16:24], uint64(n))
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(buf[24+8*i:32+8*i], math.Float64bits(p.yp.At(i)))
	}
}

func (p *patchSpectrum) Unpack(buf []byte) {
	p.ix = int(binary.LittleEndian.Uint64(buf[0:8]))
	p.iy = int(binary.LittleEndian.Uint64(buf[8:16]))
	n := int(binary.LittleEndian.Uint64(buf[16:24]))
	p.yp = arrdbl.New(n)
	for i := 0; i < n; i++ {
		p.yp.Set(i, math.Float64frombits(binary.LittleEndian.Uint64(buf[24+8*i:32+8*i])))
	}
}

func (p *patchSpectrum) SetCaseID(id int)  { p.caseID = id }
func (p *patchSpectrum) SetRank(rank int)  { p.rank = rank }
