/*
 * interface.go, part of gopose.
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

package moves

import (
	"sort"

	pose "github.com/rmera/gopose"
	"gonum.org/v1/gonum/spatial/r3"
)

//DefaultInterfaceCutoff is the neighbor atom distance under which two residues of different partners are
//considered to be at the interface.
const DefaultInterfaceCutoff = 8.0

//Interface returns the residues of a and b (sorted) whose neighbor atoms are closer than cutoff
//to the neighbor atom of a residue of the other set.
func Interface(p *pose.Pose, a, b []int, cutoff float64) []int {
	in := make(map[int]bool)
	for _, i := range a {
		xi := p.XYZ(p.Residue(i).NbrAtom())
		for _, j := range b {
			if r3.Norm(r3.Sub(xi, p.XYZ(p.Residue(j).NbrAtom()))) <= cutoff {
				in[i] = true
				in[j] = true
			}
		}
	}
	ret := make([]int, 0, len(in))
	for r := range in {
		ret = append(ret, r)
	}
	sort.Ints(ret)
	return ret
}

//ChainInterface returns the interface residues between two chains.
func ChainInterface(p *pose.Pose, chaina, chainb string, cutoff float64) []int {
	return Interface(p, p.ChainResidues(chaina), p.ChainResidues(chainb), cutoff)
}
