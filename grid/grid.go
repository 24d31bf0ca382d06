// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid implements Node and Grid: the dense, id-indexed store of
// mesh-vertex positions and velocities loaded at each hydro snapshot.
package grid

import (
	"github.com/cpmech/gosl/chk"

	"github.com/LANLhakel/FESTR-sub001/vec3"
)

// Node is an immutable mesh vertex: a position and a material velocity,
// both sampled at the snapshot currently loaded into the owning Grid.
type Node struct {
	Id int
	R  vec3.Vector3d // position
	V  vec3.Vector3d // velocity
}

// Grid is a dense, zero-based, contiguous id -> Node store. Faces
// reference nodes by id; it is a Grid invariant that every id a Face
// mentions resolves to a Node currently present here.
type Grid struct {
	nodes []Node
}

// New allocates a Grid with room for n nodes, all zero-valued.
func New(n int) *Grid {
	return &Grid{nodes: make([]Node, n)}
}

// NewFromNodes builds a Grid from an already-ordered, dense slice of
// nodes (nodes[i].Id must equal i).
func NewFromNodes(nodes []Node) *Grid {
	return &Grid{nodes: nodes}
}

// Len returns the number of nodes.
func (g *Grid) Len() int { return len(g.nodes) }

// Node returns the node with the given id. Panics (via chk.Panic) on an
// out-of-range id: a Face referencing a node absent from the currently
// loaded Grid is a fatal topology error, not a recoverable one.
func (g *Grid) Node(id int) Node {
	if id < 0 || id >= len(g.nodes) {
		chk.Panic("grid: node id %d out of range [0,%d)", id, len(g.nodes))
	}
	return g.nodes[id]
}

// Set assigns node i (used while loading a snapshot).
func (g *Grid) Set(i int, n Node) {
	if i < 0 || i >= len(g.nodes) {
		chk.Panic("grid: node index %d out of range [0,%d)", i, len(g.nodes))
	}
	g.nodes[i] = n
}

// Position is shorthand for Node(id).R.
func (g *Grid) Position(id int) vec3.Vector3d { return g.Node(id).R }

// Velocity is shorthand for Node(id).V.
func (g *Grid) Velocity(id int) vec3.Vector3d { return g.Node(id).V }
