// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/LANLhakel/FESTR-sub001/face"
	"github.com/LANLhakel/FESTR-sub001/grid"
	"github.com/LANLhakel/FESTR-sub001/mesh"
	"github.com/LANLhakel/FESTR-sub001/vec3"
	"github.com/LANLhakel/FESTR-sub001/zone"
)

// ReadMeshFile parses a mesh_<label>.txt file (spec.md section 6):
// sequences of "Zone" blocks, each a zone id and a face count followed by
// that many mixed Sphere/Polygon/Cone/Surface entries carrying node ids,
// a neighbor FaceID list, and face-specific data. An entry's own FaceID
// is not read from the file: it is the block's zone id paired with the
// entry's position within the block. The node positions
// themselves come from the companion Grid (nodes are referenced by id,
// not embedded in the mesh file).
func ReadMeshFile(fname string, g *grid.Grid) (*mesh.Mesh, error) {
	buf, err := io.ReadFile(fname)
	if err != nil {
		return nil, chk.Err("inp.ReadMeshFile: file %q is not open: %v", fname, err)
	}
	s := newScanner(string(buf))

	var zones []*zone.Zone
	for {
		if err := s.findKey("Zone"); err != nil {
			break // no more zones
		}
		zid, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		z := zone.New(zid)

		nfaces, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		for i := 0; i < nfaces; i++ {
			f, ferr := readFace(s, zid, i)
			if ferr != nil {
				return nil, ferr
			}
			z.Faces = append(z.Faces, f)
		}
		for len(zones) <= zid {
			zones = append(zones, nil)
		}
		zones[zid] = z
	}
	for i, z := range zones {
		if z == nil {
			return nil, chk.Err("inp.ReadMeshFile: zone %d missing from %q", i, fname)
		}
	}
	return mesh.New(zones), nil
}

func readNeighborList(s *scanner) ([]face.FaceID, error) {
	n, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	out := make([]face.FaceID, n)
	for i := 0; i < n; i++ {
		zid, zerr := s.nextInt()
		if zerr != nil {
			return nil, zerr
		}
		fidx, ferr := s.nextInt()
		if ferr != nil {
			return nil, ferr
		}
		out[i] = face.FaceID{ZoneId: zid, FaceIndex: fidx}
	}
	return out, nil
}

func readNodeList(s *scanner, n int) ([]int, error) {
	ids := make([]int, n)
	for i := 0; i < n; i++ {
		id, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func readFace(s *scanner, zid, faceIndex int) (face.Face, error) {
	kind, err := s.next()
	if err != nil {
		return nil, err
	}
	switch kind {
	case "Sphere":
		centerID, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		r, err := s.nextFloat()
		if err != nil {
			return nil, err
		}
		v, err := s.nextFloat()
		if err != nil {
			return nil, err
		}
		n, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		neighbors, err := readNeighborList(s)
		if err != nil {
			return nil, err
		}
		return face.NewSphere(zid, faceIndex, centerID, r, v, n, neighbors), nil

	case "Cone":
		ids, err := readNodeList(s, 2)
		if err != nil {
			return nil, err
		}
		neighbors, err := readNeighborList(s)
		if err != nil {
			return nil, err
		}
		return face.NewCone(zid, faceIndex, [2]int{ids[0], ids[1]}, neighbors), nil

	case "Polygon":
		nn, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		ids, err := readNodeList(s, nn)
		if err != nil {
			return nil, err
		}
		neighbors, err := readNeighborList(s)
		if err != nil {
			return nil, err
		}
		return face.NewPolygon(zid, faceIndex, ids, neighbors), nil

	case "Surface":
		nsub, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		sub := make([]*face.Polygon, nsub)
		for i := 0; i < nsub; i++ {
			nn, nerr := s.nextInt()
			if nerr != nil {
				return nil, nerr
			}
			ids, ierr := readNodeList(s, nn)
			if ierr != nil {
				return nil, ierr
			}
			neighbors, nbErr := readNeighborList(s)
			if nbErr != nil {
				return nil, nbErr
			}
			sub[i] = face.NewPolygon(zid, face.SubFaceIndex, ids, neighbors)
		}
		neighbors, err := readNeighborList(s)
		if err != nil {
			return nil, err
		}
		return face.NewSurface(zid, faceIndex, sub, neighbors), nil

	default:
		return nil, chk.Err("inp.ReadMeshFile: unknown face kind %q", kind)
	}
}

// ReadGridFile parses a node position/velocity table: one line per node,
// "id x y z vx vy vz", dense and zero-based.
func ReadGridFile(fname string) (*grid.Grid, error) {
	buf, err := io.ReadFile(fname)
	if err != nil {
		return nil, chk.Err("inp.ReadGridFile: file %q is not open: %v", fname, err)
	}
	lines := strings.Split(strings.TrimSpace(string(buf)), "\n")
	nodes := make([]grid.Node, 0, len(lines))
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		f := strings.Fields(ln)
		if len(f) < 7 {
			return nil, chk.Err("inp.ReadGridFile: malformed node line %q", ln)
		}
		id, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, chk.Err("inp.ReadGridFile: bad node id %q: %v", f[0], err)
		}
		vals := make([]float64, 6)
		for i := 0; i < 6; i++ {
			vals[i], err = strconv.ParseFloat(f[i+1], 64)
			if err != nil {
				return nil, chk.Err("inp.ReadGridFile: bad number %q: %v", f[i+1], err)
			}
		}
		nodes = append(nodes, grid.Node{
			Id: id,
			R:  vec3.New(vals[0], vals[1], vals[2]),
			V:  vec3.New(vals[3], vals[4], vals[5]),
		})
	}
	return grid.NewFromNodes(nodes), nil
}

// TimeState is one zone's parsed material/thermodynamic record from a
// time_<label>.txt file.
type TimeState struct {
	ZoneId     int
	Te, Tr, Np float64
	Mat        []string
	Fp         []float64
}

// ReadTimeFile parses a time_<label>.txt file (spec.md section 6):
// per-zone te, tr, np, nmat, and nmat (material-name, fraction) pairs.
func ReadTimeFile(fname string) ([]TimeState, error) {
	buf, err := io.ReadFile(fname)
	if err != nil {
		return nil, chk.Err("inp.ReadTimeFile: file %q is not open: %v", fname, err)
	}
	s := newScanner(string(buf))
	var out []TimeState
	for {
		if err := s.findKey("Zone"); err != nil {
			break
		}
		zid, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		te, err := s.nextFloat()
		if err != nil {
			return nil, err
		}
		tr, err := s.nextFloat()
		if err != nil {
			return nil, err
		}
		np, err := s.nextFloat()
		if err != nil {
			return nil, err
		}
		nmat, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		mat := make([]string, nmat)
		fp := make([]float64, nmat)
		for i := 0; i < nmat; i++ {
			m, merr := s.next()
			if merr != nil {
				return nil, merr
			}
			f, ferr := s.nextFloat()
			if ferr != nil {
				return nil, ferr
			}
			mat[i], fp[i] = m, f
		}
		out = append(out, TimeState{ZoneId: zid, Te: te, Tr: tr, Np: np, Mat: mat, Fp: fp})
	}
	return out, nil
}

// ApplyTimeState loads parsed TimeStates into a Mesh's zones and
// invalidates every zone's cached optical coefficients, per spec.md
// section 5 ("invalidated at snapshot load").
func ApplyTimeState(m *mesh.Mesh, states []TimeState) {
	for _, st := range states {
		z := m.Zone(st.ZoneId)
		z.Te, z.Tr, z.Np = st.Te, st.Tr, st.Np
		z.Mat, z.Fp = st.Mat, st.Fp
	}
	m.InvalidateCaches()
}
