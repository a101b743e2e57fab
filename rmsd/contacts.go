/*
 * contacts.go, part of gopose.
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

package rmsd

import (
	pose "github.com/rmera/gopose"
	"gonum.org/v1/gonum/spatial/r3"
)

//DefaultContactCutoff is the heavy atom distance under which two residues are in contact.
const DefaultContactCutoff = 5.0

//Contacts returns the pairs (i, j), with i in a and j in b, of residues that have heavy atoms closer than cutoff.
func Contacts(p *pose.Pose, a, b []int, cutoff float64) [][2]int {
	ret := make([][2]int, 0, 16)
	for _, i := range a {
		for _, j := range b {
			if inContact(p, i, j, cutoff) {
				ret = append(ret, [2]int{i, j})
			}
		}
	}
	return ret
}

func inContact(p *pose.Pose, i, j int, cutoff float64) bool {
	c2 := cutoff * cutoff
	for _, x := range p.Residue(i).Atoms() {
		if !p.Atom(x).Heavy() {
			continue
		}
		for _, y := range p.Residue(j).Atoms() {
			if !p.Atom(y).Heavy() {
				continue
			}
			d := r3.Sub(p.XYZ(x), p.XYZ(y))
			if r3.Dot(d, d) <= c2 {
				return true
			}
		}
	}
	return false
}

//Fnat returns the fraction of the contacts between the residues a and b in the reference
//pose that are also present in p. It returns 0 if there are no contacts in the reference.
func Fnat(p, ref *pose.Pose, a, b []int, cutoff float64) float64 {
	native := Contacts(ref, a, b, cutoff)
	if len(native) == 0 {
		return 0
	}
	n := 0
	for _, c := range native {
		if inContact(p, c[0], c[1], cutoff) {
			n++
		}
	}
	return float64(n) / float64(len(native))
}
