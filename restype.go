/*
 * restype.go, part of gopose.
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

import "strings"

//AtomDef describes an atom of a residue type. The atom is placed from
//the three reference atoms Ref (a, b, c) so that the bond c-atom has length Bond,
//the angle b-c-atom is Angle and the dihedral a-b-c-atom is Dihedral (degrees).
//Backbone atoms are placed by the builder and their Ref is empty.
type AtomDef struct {
	Name     string
	Symbol   string
	Radius   float64
	Well     float64
	Charge   float64
	Ref      [3]string
	Bond     float64
	Angle    float64
	Dihedral float64
	Level    int //first chi that moves the atom. 0 for backbone and CB.
}

//ChiDef defines a side-chain torsion by four atom names, and the values
//sampled for the torsion by the rotamer library.
type ChiDef struct {
	Atoms   [4]string
	Samples []float64
}

//ResidueType is an entry of the residue type table.
type ResidueType struct {
	Name    string
	Letter  byte
	Polymer bool
	Atoms   []AtomDef
	Chis    []ChiDef
	nbr     int
	index   map[string]int
	rots    [][]float64
}

//AtomIndex returns the index in the residue of the atom with the given name, or -1.
func (T *ResidueType) AtomIndex(name string) int {
	i, ok := T.index[name]
	if !ok {
		return -1
	}
	return i
}

//NChi returns the number of chi torsions of the type.
func (T *ResidueType) NChi() int { return len(T.Chis) }

//Rotamers returns the rotamer library of the type, as sets of chi values in degrees.
//The returned slice must not be modified.
func (T *ResidueType) Rotamers() [][]float64 { return T.rots }

func (T *ResidueType) init() {
	T.index = make(map[string]int, len(T.Atoms))
	for i, v := range T.Atoms {
		T.index[v.Name] = i
	}
	T.nbr = 0
	if i, ok := T.index["CB"]; ok {
		T.nbr = i
	} else if i, ok := T.index["CA"]; ok {
		T.nbr = i
	}
	T.rots = [][]float64{}
	if len(T.Chis) == 0 {
		return
	}
	T.rots = [][]float64{{}}
	for _, c := range T.Chis {
		next := make([][]float64, 0, len(T.rots)*len(c.Samples))
		for _, r := range T.rots {
			for _, s := range c.Samples {
				n := make([]float64, len(r), len(r)+1)
				copy(n, r)
				next = append(next, append(n, s))
			}
		}
		T.rots = next
	}
}

//Lennard-Jones parameters by element (radius, well depth).
var ljparams = map[string][2]float64{
	"C": {2.0, 0.10},
	"N": {1.75, 0.16},
	"O": {1.55, 0.16},
	"H": {1.0, 0.05},
	"S": {1.9, 0.16},
	"X": {1.8, 0.10},
}

func sc(name, symbol string, charge float64, ref [3]string, bond, angle, dihedral float64, level int) AtomDef {
	lj := ljparams[symbol]
	return AtomDef{Name: name, Symbol: symbol, Radius: lj[0], Well: lj[1], Charge: charge, Ref: ref, Bond: bond, Angle: angle, Dihedral: dihedral, Level: level}
}

func backbone() []AtomDef {
	return []AtomDef{
		sc("N", "N", -0.47, [3]string{}, 0, 0, 0, 0),
		sc("CA", "C", 0.07, [3]string{}, 0, 0, 0, 0),
		sc("C", "C", 0.51, [3]string{}, 0, 0, 0, 0),
		sc("O", "O", -0.51, [3]string{}, 0, 0, 0, 0),
		sc("H", "H", 0.31, [3]string{}, 0, 0, 0, 0),
	}
}

var cb = sc("CB", "C", -0.18, [3]string{"C", "N", "CA"}, 1.53, 110.5, -122.6, 0)
var rot3 = []float64{-60, 180, 60}

func withBackbone(side ...AtomDef) []AtomDef {
	return append(backbone(), side...)
}

var nca = [3]string{"N", "CA", "CB"}

var resTypes = []*ResidueType{
	{Name: "GLY", Letter: 'G', Polymer: true, Atoms: backbone()},
	{Name: "ALA", Letter: 'A', Polymer: true, Atoms: withBackbone(cb)},
	{Name: "SER", Letter: 'S', Polymer: true, Atoms: withBackbone(cb,
		sc("OG", "O", -0.66, nca, 1.42, 111.0, 60, 1)),
		Chis: []ChiDef{{[4]string{"N", "CA", "CB", "OG"}, rot3}}},
	{Name: "VAL", Letter: 'V', Polymer: true, Atoms: withBackbone(cb,
		sc("CG1", "C", 0, nca, 1.53, 110.5, 180, 1),
		sc("CG2", "C", 0, nca, 1.53, 110.5, -60, 1)),
		Chis: []ChiDef{{[4]string{"N", "CA", "CB", "CG1"}, rot3}}},
	{Name: "THR", Letter: 'T', Polymer: true, Atoms: withBackbone(cb,
		sc("OG1", "O", -0.66, nca, 1.43, 109.5, 60, 1),
		sc("CG2", "C", 0, nca, 1.53, 110.5, -60, 1)),
		Chis: []ChiDef{{[4]string{"N", "CA", "CB", "OG1"}, rot3}}},
	{Name: "LEU", Letter: 'L', Polymer: true, Atoms: withBackbone(cb,
		sc("CG", "C", 0, nca, 1.53, 116.0, -60, 1),
		sc("CD1", "C", 0, [3]string{"CA", "CB", "CG"}, 1.52, 110.5, 180, 2),
		sc("CD2", "C", 0, [3]string{"CA", "CB", "CG"}, 1.52, 110.5, 60, 2)),
		Chis: []ChiDef{{[4]string{"N", "CA", "CB", "CG"}, rot3}, {[4]string{"CA", "CB", "CG", "CD1"}, []float64{60, 180}}}},
	{Name: "ILE", Letter: 'I', Polymer: true, Atoms: withBackbone(cb,
		sc("CG1", "C", 0, nca, 1.53, 110.0, -60, 1),
		sc("CG2", "C", 0, nca, 1.53, 110.5, 180, 1),
		sc("CD1", "C", 0, [3]string{"CA", "CB", "CG1"}, 1.52, 113.8, 170, 2)),
		Chis: []ChiDef{{[4]string{"N", "CA", "CB", "CG1"}, rot3}, {[4]string{"CA", "CB", "CG1", "CD1"}, []float64{-60, 180}}}},
	{Name: "LYS", Letter: 'K', Polymer: true, Atoms: withBackbone(cb,
		sc("CG", "C", 0, nca, 1.52, 114.0, 180, 1),
		sc("CD", "C", 0, [3]string{"CA", "CB", "CG"}, 1.52, 111.5, 180, 2),
		sc("CE", "C", 0.25, [3]string{"CB", "CG", "CD"}, 1.52, 111.5, 180, 3),
		sc("NZ", "N", 0.75, [3]string{"CG", "CD", "CE"}, 1.49, 111.7, 180, 4)),
		Chis: []ChiDef{{[4]string{"N", "CA", "CB", "CG"}, rot3}, {[4]string{"CA", "CB", "CG", "CD"}, []float64{180, -60}},
			{[4]string{"CB", "CG", "CD", "CE"}, []float64{180}}, {[4]string{"CG", "CD", "CE", "NZ"}, []float64{180}}}},
	{Name: "ASP", Letter: 'D', Polymer: true, Atoms: withBackbone(cb,
		sc("CG", "C", 0.62, nca, 1.52, 113.0, -60, 1),
		sc("OD1", "O", -0.81, [3]string{"CA", "CB", "CG"}, 1.25, 119.0, -30, 2),
		sc("OD2", "O", -0.81, [3]string{"CA", "CB", "CG"}, 1.25, 119.0, 150, 2)),
		Chis: []ChiDef{{[4]string{"N", "CA", "CB", "CG"}, rot3}, {[4]string{"CA", "CB", "CG", "OD1"}, []float64{-30, 0, 30}}}},
	{Name: "GLU", Letter: 'E', Polymer: true, Atoms: withBackbone(cb,
		sc("CG", "C", 0, nca, 1.52, 114.0, 180, 1),
		sc("CD", "C", 0.62, [3]string{"CA", "CB", "CG"}, 1.52, 113.0, 180, 2),
		sc("OE1", "O", -0.81, [3]string{"CB", "CG", "CD"}, 1.25, 119.0, -30, 3),
		sc("OE2", "O", -0.81, [3]string{"CB", "CG", "CD"}, 1.25, 119.0, 150, 3)),
		Chis: []ChiDef{{[4]string{"N", "CA", "CB", "CG"}, rot3}, {[4]string{"CA", "CB", "CG", "CD"}, []float64{180, 60}},
			{[4]string{"CB", "CG", "CD", "OE1"}, []float64{0}}}},
	{Name: "PHE", Letter: 'F', Polymer: true, Atoms: withBackbone(cb,
		sc("CG", "C", 0, nca, 1.50, 114.0, -60, 1),
		sc("CD1", "C", 0, [3]string{"CA", "CB", "CG"}, 1.39, 120.7, 90, 2),
		sc("CD2", "C", 0, [3]string{"CA", "CB", "CG"}, 1.39, 120.7, -90, 2),
		sc("CE1", "C", 0, [3]string{"CB", "CG", "CD1"}, 1.39, 120.0, 180, 2),
		sc("CE2", "C", 0, [3]string{"CB", "CG", "CD2"}, 1.39, 120.0, 180, 2),
		sc("CZ", "C", 0, [3]string{"CG", "CD1", "CE1"}, 1.39, 120.0, 0, 2)),
		Chis: []ChiDef{{[4]string{"N", "CA", "CB", "CG"}, rot3}, {[4]string{"CA", "CB", "CG", "CD1"}, []float64{90, 0}}}},
}

var resTable map[string]*ResidueType
var letterTable map[byte]*ResidueType

func init() {
	resTable = make(map[string]*ResidueType, len(resTypes))
	letterTable = make(map[byte]*ResidueType, len(resTypes))
	for _, t := range resTypes {
		t.init()
		resTable[t.Name] = t
		letterTable[t.Letter] = t
	}
}

//ResidueTypeByName returns the residue type with the given three-letter name.
func ResidueTypeByName(name string) (*ResidueType, error) {
	t, ok := resTable[strings.ToUpper(name)]
	if !ok {
		return nil, Errorf("ResidueTypeByName", "Unknown residue type %s", name)
	}
	return t, nil
}

//ResidueTypeByLetter returns the residue type with the given one-letter code.
func ResidueTypeByLetter(l byte) (*ResidueType, error) {
	t, ok := letterTable[l]
	if !ok {
		return nil, Errorf("ResidueTypeByLetter", "Unknown residue letter %c", l)
	}
	return t, nil
}

//ToyType returns a new non-polymer residue type with one atom, called X,
//with the given LJ parameters and charge.
func ToyType(name string, radius, well, charge float64) *ResidueType {
	t := &ResidueType{Name: name, Letter: 'X', Atoms: []AtomDef{{Name: "X", Symbol: "X", Radius: radius, Well: well, Charge: charge}}}
	t.init()
	return t
}
