/*
 * atom.go, part of gopose.
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

import "fmt"

//Atom contains the atomic information of an atom in a pose. The parameters
//used by the scoring terms are copied from the residue type when the atom is created.
type Atom struct {
	Name     string
	Symbol   string
	ID       int     //index of the atom in the pose.
	Residue  int     //index of the residue the atom belongs to.
	Radius   float64 //half the Lennard-Jones minimum distance.
	Well     float64 //Lennard-Jones well depth.
	Charge   float64
	Backbone bool
	level    int //the number of the first chi angle that moves this atom, 0 for none.
}

//Copy returns a copy of the atom.
func (A *Atom) Copy() *Atom {
	if A == nil {
		return nil
	}
	r := *A
	return &r
}

//Heavy returns true if the atom is not a hydrogen.
func (A *Atom) Heavy() bool {
	return A.Symbol != "H"
}

func (A *Atom) String() string {
	return fmt.Sprintf("%d %s (%s) res %d", A.ID, A.Name, A.Symbol, A.Residue)
}

//Residue is a residue in a pose. Its atoms are contiguous in the pose.
type Residue struct {
	Type  *ResidueType
	Chain string
	Seq   int //Sequence number, only informative.
	first int
	n     int
}

//Name returns the three-letter name of the residue type.
func (R *Residue) Name() string { return R.Type.Name }

//First returns the index in the pose of the residue's first atom.
func (R *Residue) First() int { return R.first }

//Len returns the number of atoms in the residue.
func (R *Residue) Len() int { return R.n }

//Atoms returns the indexes in the pose of all the atoms of the residue.
func (R *Residue) Atoms() []int {
	ret := make([]int, R.n)
	for i := range ret {
		ret[i] = R.first + i
	}
	return ret
}

//AtomIndex returns the index in the pose of the atom with the given name, or -1.
func (R *Residue) AtomIndex(name string) int {
	l := R.Type.AtomIndex(name)
	if l < 0 {
		return -1
	}
	return R.first + l
}

//NbrAtom returns the index in the pose of the atom used to find neighbors
//of the residue (CB, or CA for GLY).
func (R *Residue) NbrAtom() int {
	return R.first + R.Type.nbr
}

func (R *Residue) String() string {
	return fmt.Sprintf("%s%d%s", R.Type.Name, R.Seq, R.Chain)
}
