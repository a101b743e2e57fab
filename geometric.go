/*
 * geometric.go, part of gopose.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package pose

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//Dihedral calculate the dihedral between the points a, b, c, d, where the first plane
//is defined by abc and the second by bcd. The result is in radians.
func Dihedral(a, b, c, d r3.Vec) float64 {
	b1 := r3.Sub(b, a)
	b2 := r3.Sub(c, b)
	b3 := r3.Sub(d, c)
	n2 := r3.Cross(b2, b3)
	first := r3.Norm(b2) * r3.Dot(b1, n2)
	second := r3.Dot(r3.Cross(b1, b2), n2)
	return math.Atan2(first, second)
}

//DihedralGradient returns the derivatives of the a, b, c, d dihedral
//(in radians) with respect to the positions of each of the 4 points.
//Degenerate (colinear) configurations give zero gradients.
func DihedralGradient(a, b, c, d r3.Vec) [4]r3.Vec {
	var ret [4]r3.Vec
	F := r3.Sub(a, b)
	G := r3.Sub(b, c)
	H := r3.Sub(d, c)
	A := r3.Cross(F, G)
	B := r3.Cross(H, G)
	a2 := r3.Dot(A, A)
	b2 := r3.Dot(B, B)
	g := r3.Norm(G)
	if a2 < appzero || b2 < appzero || g < appzero {
		return ret
	}
	fg := r3.Dot(F, G)
	hg := r3.Dot(H, G)
	ret[0] = r3.Scale(-g/a2, A)
	ret[3] = r3.Scale(g/b2, B)
	extra := r3.Sub(r3.Scale(fg/(a2*g), A), r3.Scale(hg/(b2*g), B))
	ret[1] = r3.Add(r3.Scale(g/a2, A), extra)
	ret[2] = r3.Sub(r3.Scale(-g/b2, B), extra)
	return ret
}

//Angle returns the a-b-c angle, in radians.
func Angle(a, b, c r3.Vec) float64 {
	v1 := r3.Sub(a, b)
	v2 := r3.Sub(c, b)
	n := r3.Norm(v1) * r3.Norm(v2)
	if n == 0 {
		return 0
	}
	cos := r3.Dot(v1, v2) / n
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

//RotationMatrix returns the matrix that rotates by angle radians
//around the unit vector axis, following the right-hand rule (Rodrigues formula).
//Panics if axis has zero length.
func RotationMatrix(axis r3.Vec, angle float64) *mat.Dense {
	n := r3.Norm(axis)
	if n < appzero {
		panic(ErrDegenerateRot)
	}
	u := r3.Scale(1/n, axis)
	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1 - c
	return mat.NewDense(3, 3, []float64{
		t*u.X*u.X + c, t*u.X*u.Y - s*u.Z, t*u.X*u.Z + s*u.Y,
		t*u.X*u.Y + s*u.Z, t*u.Y*u.Y + c, t*u.Y*u.Z - s*u.X,
		t*u.X*u.Z - s*u.Y, t*u.Y*u.Z + s*u.X, t*u.Z*u.Z + c,
	})
}

//MulVec returns R*v for a 3x3 matrix R.
func MulVec(R mat.Matrix, v r3.Vec) r3.Vec {
	return r3.Vec{
		X: R.At(0, 0)*v.X + R.At(0, 1)*v.Y + R.At(0, 2)*v.Z,
		Y: R.At(1, 0)*v.X + R.At(1, 1)*v.Y + R.At(1, 2)*v.Z,
		Z: R.At(2, 0)*v.X + R.At(2, 1)*v.Y + R.At(2, 2)*v.Z,
	}
}

//Eye3 returns a 3x3 identity matrix.
func Eye3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

//place returns the position of a point d bonded to c with the given bond length,
//b-c-d angle and a-b-c-d dihedral (both in radians).
func place(a, b, c r3.Vec, bond, angle, dihedral float64) r3.Vec {
	bc := r3.Unit(r3.Sub(c, b))
	n := r3.Unit(r3.Cross(r3.Sub(b, a), bc))
	m := r3.Cross(n, bc)
	d2 := r3.Vec{
		X: -bond * math.Cos(angle),
		Y: bond * math.Sin(angle) * math.Cos(dihedral),
		Z: bond * math.Sin(angle) * math.Sin(dihedral),
	}
	return r3.Add(c, r3.Add(r3.Scale(d2.X, bc), r3.Add(r3.Scale(d2.Y, m), r3.Scale(d2.Z, n))))
}
