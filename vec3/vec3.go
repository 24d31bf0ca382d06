// Copyright 2024 The FESTR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vec3 implements a 3-D Cartesian vector value type and the
// numeric tolerances shared by the rest of the ray-tracing engine.
package vec3

import "math"

// Process-wide numeric tolerances. SMALL is the zero tolerance used to
// decide whether a vector (or a scalar derived from one) is effectively
// zero; BIG is a sentinel magnitude used to flag "no solution" results
// without resorting to NaN/Inf, which would otherwise propagate silently
// through downstream arithmetic.
const (
	SMALL = 1.0e-15
	BIG   = 1.0e100
)

// Vector3d is an immutable-value 3-D Cartesian vector.
type Vector3d struct {
	X, Y, Z float64
}

// New returns the vector (x, y, z).
func New(x, y, z float64) Vector3d {
	return Vector3d{X: x, Y: y, Z: z}
}

// Zero is the additive identity.
var Zero = Vector3d{}

// Add returns v + w.
func (v Vector3d) Add(w Vector3d) Vector3d {
	return Vector3d{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vector3d) Sub(w Vector3d) Vector3d {
	return Vector3d{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v scaled by s.
func (v Vector3d) Scale(s float64) Vector3d {
	return Vector3d{v.X * s, v.Y * s, v.Z * s}
}

// Neg returns -v.
func (v Vector3d) Neg() Vector3d {
	return Vector3d{-v.X, -v.Y, -v.Z}
}

// Dot returns the scalar (dot) product v*w.
func (v Vector3d) Dot(w Vector3d) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the vector (cross) product v%w.
func (v Vector3d) Cross(w Vector3d) Vector3d {
	return Vector3d{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Norm returns the Euclidean length of v.
func (v Vector3d) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsSmall reports whether v's norm is within SMALL of zero.
func (v Vector3d) IsSmall() bool {
	return v.Norm() < SMALL
}

// Normalize returns v scaled to unit length. A vector with norm below
// SMALL is returned unchanged (there is no well-defined direction).
func (v Vector3d) Normalize() Vector3d {
	n := v.Norm()
	if n < SMALL {
		return v
	}
	return v.Scale(1.0 / n)
}

// RightNormal rotates the (x,y) components of v by 90 degrees clockwise,
// leaving z untouched. This is the primitive used to turn a Cone's rz
// edge vector into an outward-pointing normal in the rz half-plane: for
// edge direction (dr, dz), RightNormal gives (dz, -dr), which for a
// ray-aligned dr>0,dz>0 edge points away from the axis of revolution.
func (v Vector3d) RightNormal() Vector3d {
	return Vector3d{X: v.Y, Y: -v.X, Z: v.Z}
}

// PerpendicularTo returns the component of v perpendicular to unit
// vector n. n is assumed to already be normalized.
func (v Vector3d) PerpendicularTo(n Vector3d) Vector3d {
	return v.Sub(n.Scale(v.Dot(n)))
}

// Rz projects v onto the (r, z, 0) half-plane, where r = sqrt(x^2+y^2).
// This is the representation used throughout the Cone/Surface-of-revolution
// geometry, which is defined entirely in terms of radius and height.
func (v Vector3d) Rz() Vector3d {
	return Vector3d{X: math.Sqrt(v.X*v.X + v.Y*v.Y), Y: v.Z, Z: 0}
}

// Lerp returns the point a fraction t of the way from v to w.
func (v Vector3d) Lerp(w Vector3d, t float64) Vector3d {
	return v.Add(w.Sub(v).Scale(t))
}

// Equal reports whether v and w are equal to within SMALL in each
// component.
func (v Vector3d) Equal(w Vector3d) bool {
	return math.Abs(v.X-w.X) < SMALL && math.Abs(v.Y-w.Y) < SMALL && math.Abs(v.Z-w.Z) < SMALL
}
