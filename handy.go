/*
 * handy.go, part of gopose.
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

import "math"

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

func Deg2Rad(f float64) float64 {
	return f * math.Pi / 180
}

func Rad2Deg(f float64) float64 {
	return f * 180 / math.Pi
}

//WrapDeg returns the angle f, in degrees, wrapped to the (-180,180] interval.
func WrapDeg(f float64) float64 {
	f = math.Mod(f, 360)
	if f > 180 {
		f -= 360
	} else if f <= -180 {
		f += 360
	}
	return f
}

//Selectors for atoms, to be used with Pose.Select.

//IsProteinCA returns true for the CA atom of polymer residues.
func IsProteinCA(P *Pose, i int) bool {
	a := P.Atom(i)
	return a.Name == "CA" && P.Residue(a.Residue).Type.Polymer
}

//IsBackbone returns true for the N, CA, C and O atoms of polymer residues.
func IsBackbone(P *Pose, i int) bool {
	a := P.Atom(i)
	return a.Backbone && a.Name != "H"
}

//IsHeavy returns true for every atom that is not a hydrogen.
func IsHeavy(P *Pose, i int) bool {
	return P.Atom(i).Heavy()
}

//Select returns the indexes of all atoms in the given residues for which f is true.
//If residues is nil, all residues are considered. A nil f selects every atom.
func (P *Pose) Select(residues []int, f func(*Pose, int) bool) []int {
	if residues == nil {
		residues = make([]int, P.NResidues())
		for i := range residues {
			residues[i] = i
		}
	}
	ret := make([]int, 0, len(residues)*4)
	for _, r := range residues {
		for _, at := range P.Residue(r).Atoms() {
			if f == nil || f(P, at) {
				ret = append(ret, at)
			}
		}
	}
	return ret
}

func isInInt(container []int, test int) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
