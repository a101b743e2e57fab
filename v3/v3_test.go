/*
 * v3_test.go, part of gopose.
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

package v3

import (
	"fmt"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestVecs(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9}
	A, err := NewMatrix(a)
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 3 {
		Te.Errorf("expected 3 vectors, got %d", A.NVecs())
	}
	B := Zeros(2)
	B.SomeVecs(A, []int{2, 0})
	if B.Vec(0) != (r3.Vec{X: 7, Y: 8, Z: 9}) || B.Vec(1) != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		Te.Errorf("SomeVecs gave %v", B)
	}
	C := A.Copy()
	C.SubVec(C, r3.Vec{X: 1, Y: 1, Z: 1})
	if C.At(0, 0) != 0 || A.At(0, 0) != 1 {
		Te.Errorf("SubVec or Copy failed: %v %v", C, A)
	}
	C.SetVecs(B, []int{1, 2})
	if C.Vec(1) != B.Vec(0) {
		Te.Errorf("SetVecs failed %v", C)
	}
	v := A.VecView(1)
	v.Set(0, 0, 40)
	if A.At(1, 0) != 40 {
		Te.Errorf("VecView is not a view")
	}
	cen := A.Centroid()
	fmt.Println("Centroid", cen, A)
	if err := B.SomeVecsSafe(A, []int{0, 9}); err == nil {
		Te.Errorf("SomeVecsSafe accepted out of range index")
	}
	if _, err := NewMatrix([]float64{1, 2}); err == nil {
		Te.Errorf("NewMatrix accepted a bad slice")
	}
}

func TestCross(Te *testing.T) {
	a, _ := NewMatrix([]float64{1, 0, 0})
	b, _ := NewMatrix([]float64{0, 1, 0})
	if c := Cross(a, b); c != (r3.Vec{Z: 1}) {
		Te.Errorf("x cross y gave %v", c)
	}
	if d := Dot(a, b); d != 0 {
		Te.Errorf("x dot y gave %f", d)
	}
	c, _ := NewMatrix([]float64{3, 4, 0, 1, 1, 1})
	if c.Norm(0) != 5 || Dot(c, c) != 25 {
		Te.Errorf("Norm %f or Dot %f of (3,4,0) are wrong", c.Norm(0), Dot(c, c))
	}
}
