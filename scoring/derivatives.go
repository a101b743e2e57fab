/*
 * derivatives.go, part of gopose.
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

package scoring

import (
	"gonum.org/v1/gonum/spatial/r3"
)

//Derivatives contains the F1 and F2 vectors of each atom of a pose.
//For an energy E that depends on the atom position x through the gradient g=dE/dx, F2 = g
//and F1 = g x x (cross product). Summed over the atoms that move with a degree of freedom, the
//vectors give the derivative of E with respect to rotations and translations of those atoms.
type Derivatives struct {
	F1 []r3.Vec
	F2 []r3.Vec
}

//NewDerivatives returns zeroed derivatives for n atoms.
func NewDerivatives(n int) *Derivatives {
	return &Derivatives{F1: make([]r3.Vec, n), F2: make([]r3.Vec, n)}
}

//Zero sets all the vectors to zero.
func (D *Derivatives) Zero() {
	for i := range D.F1 {
		D.F1[i] = r3.Vec{}
		D.F2[i] = r3.Vec{}
	}
}

//AddPair adds the contribution of an energy that depends on the distance r between
//atoms a1 and a2, at positions x1 and x2. f is the weighted dE/dr divided by r.
func (D *Derivatives) AddPair(a1, a2 int, x1, x2 r3.Vec, f float64) {
	f1 := r3.Scale(f, r3.Cross(x1, x2))
	f2 := r3.Scale(f, r3.Sub(x1, x2))
	D.F1[a1] = r3.Add(D.F1[a1], f1)
	D.F2[a1] = r3.Add(D.F2[a1], f2)
	D.F1[a2] = r3.Sub(D.F1[a2], f1)
	D.F2[a2] = r3.Sub(D.F2[a2], f2)
}

//AddGradient adds the contribution of an energy with gradient g for the atom a at position x.
func (D *Derivatives) AddGradient(a int, x, g r3.Vec) {
	D.F1[a] = r3.Add(D.F1[a], r3.Cross(g, x))
	D.F2[a] = r3.Add(D.F2[a], g)
}

//Gradient returns dE/dx for atom a.
func (D *Derivatives) Gradient(a int) r3.Vec {
	return D.F2[a]
}

//Sum returns the sums of F1 and F2 over the given atoms.
func (D *Derivatives) Sum(atoms []int) (r3.Vec, r3.Vec) {
	var f1, f2 r3.Vec
	for _, a := range atoms {
		f1 = r3.Add(f1, D.F1[a])
		f2 = r3.Add(f2, D.F2[a])
	}
	return f1, f2
}
