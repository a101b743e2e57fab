/*
 * build.go, part of gopose.
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

	v3 "github.com/rmera/gopose/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

//Ideal backbone geometry, distances in A and angles in degrees.
const (
	bondNCA   = 1.458
	bondCAC   = 1.525
	bondCN    = 1.329
	bondCO    = 1.231
	bondNH    = 1.01
	angNCAC   = 111.2
	angCACN   = 116.2
	angCNCA   = 121.7
	angCACO   = 120.8
	angCANH   = 119.0
	omegaTran = 180.0
)

//Build returns a pose with an ideal peptide of the given sequence (one-letter codes)
//in the given chain, with all the phi and psi torsions set to the given values (degrees).
func Build(seq, chain string, phi, psi float64) (*Pose, error) {
	P := NewPose()
	if err := P.AppendChain(seq, chain, phi, psi); err != nil {
		return nil, ErrDecorate(err, "Build")
	}
	return P, nil
}

//AppendChain builds an ideal peptide with the given sequence and backbone torsions and
//appends it to the pose as a new chain. The first N atom of the chain is placed at the origin.
func (P *Pose) AppendChain(seq, chain string, phi, psi float64) error {
	if len(seq) == 0 {
		return Errorf("AppendChain", "Empty sequence")
	}
	if len(P.ChainResidues(chain)) > 0 {
		return Errorf("AppendChain", "Chain %s already exists", chain)
	}
	types := make([]*ResidueType, len(seq))
	for i := range seq {
		t, err := ResidueTypeByLetter(seq[i])
		if err != nil {
			return ErrDecorate(err, "AppendChain")
		}
		types[i] = t
	}
	rphi, rpsi := Deg2Rad(phi), Deg2Rad(psi)
	d := Deg2Rad
	var pN, pCA, pC r3.Vec
	for k, t := range types {
		var N, CA, C r3.Vec
		if k == 0 {
			CA = r3.Vec{X: bondNCA}
			a := d(angNCAC)
			C = r3.Add(CA, r3.Vec{X: -bondCAC * math.Cos(a), Y: bondCAC * math.Sin(a)})
		} else {
			N = place(pN, pCA, pC, bondCN, d(angCACN), rpsi)
			CA = place(pCA, pC, N, bondNCA, d(angCNCA), d(omegaTran))
			C = place(pC, N, CA, bondCAC, d(angNCAC), rphi)
		}
		pos := map[string]r3.Vec{"N": N, "CA": CA, "C": C}
		pos["O"] = place(N, CA, C, bondCO, d(angCACO), rpsi+math.Pi)
		pos["H"] = place(C, CA, N, bondNH, d(angCANH), rphi+math.Pi)
		xyz := v3.Zeros(len(t.Atoms))
		for i, a := range t.Atoms {
			v, ok := pos[a.Name]
			if !ok {
				v = place(pos[a.Ref[0]], pos[a.Ref[1]], pos[a.Ref[2]], a.Bond, d(a.Angle), d(a.Dihedral))
				pos[a.Name] = v
			}
			xyz.SetVec(i, v)
		}
		if err := P.AppendResidue(t, chain, k+1, xyz); err != nil {
			return ErrDecorate(err, "AppendChain")
		}
		pN, pCA, pC = N, CA, C
	}
	return nil
}

//AppendToy appends a one-atom, non-polymer residue of type t at the position pos.
func (P *Pose) AppendToy(t *ResidueType, chain string, pos r3.Vec) error {
	xyz := v3.Zeros(1)
	xyz.SetVec(0, pos)
	return P.AppendResidue(t, chain, P.NResidues()+1, xyz)
}

//ChainAtoms returns the indexes of all atoms in the given chain.
func (P *Pose) ChainAtoms(chain string) []int {
	ret := make([]int, 0, 64)
	for _, r := range P.ChainResidues(chain) {
		ret = append(ret, P.residues[r].Atoms()...)
	}
	return ret
}
