// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package taskpool implements a generic MPI master/worker dynamic task
// queue, templated (via Go generics) over an input message type IT and
// an output message type OT, per spec.md section 4.7. Rank 0 holds the
// queue and drives the protocol; ranks 1..N-1 each process one task at a
// time and report back.
package taskpool

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// Message is the capability every IT/OT message type must implement:
// byte-serialize itself into a caller-provided buffer and read itself
// back out of one. SizeOf reports the exact packed length so the
// receiver can size its buffer from the size-prefix message alone.
type Message interface {
	SizeOf() int
	Pack(buf []byte)
	Unpack(buf []byte)
}

// Result is the capability OT additionally carries: the case_id and rank
// fields the master fills in before handing a decoded result to
// ProcessResults (spec.md section 4.7).
type Result interface {
	Message
	SetCaseID(id int)
	SetRank(rank int)
}

// Comm is the byte-level point-to-point messaging surface TaskPool needs
// from an MPI communicator: rank/size, blocking send/recv of a fixed-size
// byte buffer tagged for a specific destination, and a receive that
// accepts any source/tag and reports which it got, plus a closing
// barrier. It is satisfied by goslComm below (github.com/cpmech/gosl/mpi)
// and may be faked in tests.
type Comm interface {
	Rank() int
	Size() int
	Send(buf []byte, dest, tag int)
	Recv(buf []byte, source, tag int)
	RecvAny(maxLen int) (buf []byte, source, tag int)
	Barrier()
	Abort()
}

// goslComm adapts github.com/cpmech/gosl/mpi's Communicator to Comm.
type goslComm struct {
	c *mpi.Communicator
}

// NewGoslComm wraps the default (MPI_COMM_WORLD) communicator from
// github.com/cpmech/gosl/mpi. Callers must have already called
// mpi.Start() and must call mpi.Stop() on exit.
func NewGoslComm() Comm {
	return &goslComm{c: mpi.NewCommunicator(nil)}
}

func (g *goslComm) Rank() int { return g.c.Rank() }
func (g *goslComm) Size() int { return g.c.Size() }

func (g *goslComm) Send(buf []byte, dest, tag int) {
	g.c.SendRaw(buf, dest, tag)
}

func (g *goslComm) Recv(buf []byte, source, tag int) {
	g.c.RecvRaw(buf, source, tag)
}

func (g *goslComm) RecvAny(maxLen int) (buf []byte, source, tag int) {
	buf = make([]byte, maxLen)
	n, src, tg := g.c.RecvRawAny(buf)
	return buf[:n], src, tg
}

func (g *goslComm) Barrier() { g.c.Barrier() }
func (g *goslComm) Abort()   { g.c.Abort() }

// Tag scheme, per spec.md section 4.7: for worker rank r and W total
// ranks, r is the continuation/termination byte-count tag, r+W the task
// payload, r+2W the result byte-count, r+3W the result payload. This
// disambiguates overlapping master/worker flows sharing one communicator.
func tagContinuation(r, w int) int { return r }
func tagTaskPayload(r, w int) int  { return r + w }
func tagResultCount(r, w int) int  { return r + 2*w }
func tagResultPayload(r, w int) int { return r + 3*w }

const sizePrefixBytes = 8 // one uint64 byte count

func encodeSize(n int) []byte {
	b := make([]byte, sizePrefixBytes)
	x := uint64(n)
	for i := 0; i < sizePrefixBytes; i++ {
		b[i] = byte(x >> (8 * i))
	}
	return b
}

func decodeSize(b []byte) int {
	var x uint64
	for i := sizePrefixBytes - 1; i >= 0; i-- {
		x = x<<8 | uint64(b[i])
	}
	return int(x)
}

// TaskPool runs the master/worker dynamic queue described in spec.md
// section 4.7 over a queue of IT tasks, a per-task compute function
// (run on every non-root rank), and a root-side result callback.
type TaskPool[IT Message, OT Result] struct {
	comm Comm

	// PerformTask computes one result from one input task; called on
	// every worker rank (never on rank 0).
	PerformTask func(it IT) OT

	// ProcessResults receives each decoded result, in arrival order (not
	// deterministic across runs); called only on rank 0. Per spec.md
	// section 5, this callback must be commutative and associative with
	// respect to whatever accumulators it updates.
	ProcessResults func(ot OT)

	// NewIT/NewOT construct zero-valued messages for Unpack to fill in.
	NewIT func() IT
	NewOT func() OT

	maxITBytes, maxOTBytes int

	queue []IT
}

// New constructs a TaskPool bound to comm, requiring comm.Size() >= 2
// (spec.md section 4.7: "requires >= 2 ranks; abort otherwise").
// maxITBytes/maxOTBytes bound the byte buffers used to receive packed
// messages whose exact size is only known after the size-prefix arrives.
func New[IT Message, OT Result](comm Comm, maxITBytes, maxOTBytes int) *TaskPool[IT, OT] {
	if comm.Size() < 2 {
		if comm.Rank() == 0 {
			chk.Err("taskpool: at least two MPI processes are required; nranks=%d", comm.Size())
		}
		comm.Abort()
		chk.Panic("taskpool: aborted: nranks=%d < 2", comm.Size())
	}
	return &TaskPool[IT, OT]{comm: comm, maxITBytes: maxITBytes, maxOTBytes: maxOTBytes}
}

// AddTask enqueues one input task. Only meaningful on rank 0; a no-op
// elsewhere (only the root process maintains the queue, per the
// original TaskPool::add_task).
func (p *TaskPool[IT, OT]) AddTask(it IT) {
	if p.comm.Rank() == 0 {
		p.queue = append(p.queue, it)
	}
}

// Execute runs the dynamic master/worker protocol to completion.
func (p *TaskPool[IT, OT]) Execute() {
	if p.comm.Rank() == 0 {
		p.runRoot()
	} else {
		p.runWorker()
	}
	p.comm.Barrier()
}

func (p *TaskPool[IT, OT]) sendTask(rank int, it IT) {
	w := p.comm.Size()
	buf := make([]byte, it.SizeOf())
	it.Pack(buf)
	p.comm.Send(encodeSize(len(buf)), rank, tagContinuation(rank, w))
	p.comm.Send(buf, rank, tagTaskPayload(rank, w))
}

func (p *TaskPool[IT, OT]) sendTermination(rank int) {
	w := p.comm.Size()
	p.comm.Send(encodeSize(0), rank, tagContinuation(rank, w))
}

func (p *TaskPool[IT, OT]) runRoot() {
	w := p.comm.Size()
	nq := len(p.queue)
	ninit := nq
	if w-1 < ninit {
		ninit = w - 1
	}

	working := make(map[int]bool, w)
	for r := 1; r <= ninit; r++ {
		p.sendTask(r, p.queue[0])
		p.queue = p.queue[1:]
		working[r] = true
	}
	for r := ninit + 1; r < w; r++ {
		p.sendTermination(r)
	}

	caseID := 0
	for len(working) > 0 {
		buf, src, _ := p.comm.RecvAny(sizePrefixBytes)
		n := decodeSize(buf)
		if n > p.maxOTBytes {
			chk.Panic("taskpool: result from rank %d claims %d bytes, exceeds maxOTBytes=%d", src, n, p.maxOTBytes)
		}
		payload := make([]byte, n)
		p.comm.Recv(payload, src, tagResultPayload(src, w))
		ot := p.NewOT()
		ot.Unpack(payload)
		ot.SetCaseID(caseID)
		ot.SetRank(src)
		caseID++

		if len(p.queue) > 0 {
			p.sendTask(src, p.queue[0])
			p.queue = p.queue[1:]
		} else {
			p.sendTermination(src)
			delete(working, src)
		}
		p.ProcessResults(ot)
	}
}

func (p *TaskPool[IT, OT]) runWorker() {
	w := p.comm.Size()
	r := p.comm.Rank()
	for {
		cbuf := make([]byte, sizePrefixBytes)
		p.comm.Recv(cbuf, 0, tagContinuation(r, w))
		n := decodeSize(cbuf)
		if n == 0 {
			return
		}
		if n > p.maxITBytes {
			chk.Panic("taskpool: task payload claims %d bytes, exceeds maxITBytes=%d", n, p.maxITBytes)
		}
		payload := make([]byte, n)
		p.comm.Recv(payload, 0, tagTaskPayload(r, w))
		it := p.NewIT()
		it.Unpack(payload)

		ot := p.PerformTask(it)
		obuf := make([]byte, ot.SizeOf())
		ot.Pack(obuf)
		p.comm.Send(encodeSize(len(obuf)), 0, tagResultCount(r, w))
		p.comm.Send(obuf, 0, tagResultPayload(r, w))
	}
}
