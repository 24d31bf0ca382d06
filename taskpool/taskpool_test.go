// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package taskpool

import (
	"encoding/binary"
	"sort"
	"sync"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// intTask and intResult are the smallest possible IT/OT pair, used to
// drive TaskPool end-to-end over the in-process fake Comm below without
// an actual MPI runtime (spec.md section 8's "TaskPool end-to-end"
// scenario).
type intTask struct{ v int }

func (m *intTask) SizeOf() int      { return 8 }
func (m *intTask) Pack(buf []byte)  { binary.LittleEndian.PutUint64(buf, uint64(m.v)) }
func (m *intTask) Unpack(buf []byte) { m.v = int(binary.LittleEndian.Uint64(buf)) }

type intResult struct {
	v, caseID, rank int
}

func (r *intResult) SizeOf() int      { return 8 }
func (r *intResult) Pack(buf []byte)  { binary.LittleEndian.PutUint64(buf, uint64(r.v)) }
func (r *intResult) Unpack(buf []byte) { r.v = int(binary.LittleEndian.Uint64(buf)) }
func (r *intResult) SetCaseID(id int)  { r.caseID = id }
func (r *intResult) SetRank(rank int)  { r.rank = rank }

// fakeNetwork routes byte buffers between in-process fakeComm instances,
// keyed by (dest, src, tag), plus a per-destination FIFO of
// (src, tag) announcements that RecvAny drains. Only result-count
// messages are announced: they are the only ones the root receives with
// RecvAny, and every other message is taken by a direct Recv.
type fakeNetwork struct {
	mu       sync.Mutex
	chans    map[[3]int]chan []byte
	announce map[int]chan [2]int
}

func newFakeNetwork(size int) *fakeNetwork {
	n := &fakeNetwork{chans: map[[3]int]chan []byte{}, announce: map[int]chan [2]int{}}
	for d := 0; d < size; d++ {
		n.announce[d] = make(chan [2]int, 4096)
	}
	return n
}

func (n *fakeNetwork) chanFor(dest, src, tag int) chan []byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	key := [3]int{dest, src, tag}
	c, ok := n.chans[key]
	if !ok {
		c = make(chan []byte, 64)
		n.chans[key] = c
	}
	return c
}

type fakeComm struct {
	net        *fakeNetwork
	rank, size int
}

func (f *fakeComm) Rank() int { return f.rank }
func (f *fakeComm) Size() int { return f.size }

func (f *fakeComm) Send(buf []byte, dest, tag int) {
	cp := append([]byte(nil), buf...)
	f.net.chanFor(dest, f.rank, tag) <- cp
	if tag == tagResultCount(f.rank, f.size) {
		f.net.announce[dest] <- [2]int{f.rank, tag}
	}
}

func (f *fakeComm) Recv(buf []byte, source, tag int) {
	data := <-f.net.chanFor(f.rank, source, tag)
	copy(buf, data)
}

func (f *fakeComm) RecvAny(maxLen int) ([]byte, int, int) {
	a := <-f.net.announce[f.rank]
	src, tag := a[0], a[1]
	data := <-f.net.chanFor(f.rank, src, tag)
	out := make([]byte, len(data))
	copy(out, data)
	return out, src, tag
}

func (f *fakeComm) Barrier() {}
func (f *fakeComm) Abort()   { panic("taskpool: fake comm aborted") }

func Test_taskpool01(tst *testing.T) {

	chk.PrintTitle("taskpool01: master/worker over an in-process fake Comm")

	const nranks = 3
	net := newFakeNetwork(nranks)

	var mu sync.Mutex
	var results []int

	var wg sync.WaitGroup
	wg.Add(nranks)

	for rank := 0; rank < nranks; rank++ {
		rank := rank
		go func() {
			defer wg.Done()
			comm := &fakeComm{net: net, rank: rank, size: nranks}
			p := New[*intTask, *intResult](comm, 8, 8)
			p.NewIT = func() *intTask { return &intTask{} }
			p.NewOT = func() *intResult { return &intResult{} }
			p.PerformTask = func(it *intTask) *intResult { return &intResult{v: it.v * it.v} }
			p.ProcessResults = func(ot *intResult) {
				mu.Lock()
				results = append(results, ot.v)
				mu.Unlock()
			}
			if rank == 0 {
				for i := 1; i <= 5; i++ {
					p.AddTask(&intTask{v: i})
				}
			}
			p.Execute()
		}()
	}
	wg.Wait()

	sort.Ints(results)
	want := []int{1, 4, 9, 16, 25}
	if len(results) != len(want) {
		tst.Fatalf("got %d results, want %d: %v", len(results), len(want), results)
	}
	for i := range want {
		if results[i] != want[i] {
			tst.Errorf("results=%v, want=%v", results, want)
			break
		}
	}
}

func Test_taskpool02_abortsBelowTwoRanks(tst *testing.T) {

	chk.PrintTitle("taskpool02: New aborts a single-rank communicator")

	defer func() {
		if r := recover(); r == nil {
			tst.Errorf("expected New to panic for a size=1 communicator")
		}
	}()
	net := newFakeNetwork(1)
	comm := &fakeComm{net: net, rank: 0, size: 1}
	New[*intTask, *intResult](comm, 8, 8)
}
