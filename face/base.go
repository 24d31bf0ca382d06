// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package face

// base holds the fields common to every face variant: its own FaceID and
// the FaceIDs of the faces across each of its edges/boundary (the "other
// side" a Ray steps onto after crossing this face).
type base struct {
	zoneId    int
	faceIndex int
	nodeIds   []int
	neighbors []FaceID
}

func (b *base) MyZone() int { return b.zoneId }

func (b *base) MyId() FaceID { return FaceID{ZoneId: b.zoneId, FaceIndex: b.faceIndex} }

func (b *base) Nodes() []int { return b.nodeIds }

func (b *base) Neighbors() []FaceID { return b.neighbors }
