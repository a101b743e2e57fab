/*
 * rmsd_test.go, part of gopose.
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
	"math"
	"testing"

	pose "github.com/rmera/gopose"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func complexes(Te *testing.T) (*pose.Pose, *pose.Pose) {
	p, err := pose.Build("AGSVLKDF", "A", -63, -43)
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.AppendChain("TEIK", "B", -120, 130); err != nil {
		Te.Fatal(err)
	}
	p.TransformAtoms(p.ChainAtoms("B"), pose.RotationMatrix(r3.Vec{Y: 1}, 0.4), r3.Vec{}, r3.Vec{X: 4, Y: 7, Z: 2})
	return p, p.Copy()
}

func TestRMSD(Te *testing.T) {
	p, ref := complexes(Te)
	all := p.Select(nil, nil)
	p.TransformAtoms(all, pose.Eye3(), r3.Vec{}, r3.Vec{X: 3, Y: 4})
	r, err := PoseRMSD(p, ref, all, false, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(r-5) > 1e-9 {
		Te.Errorf("RMSD of a structure translated by 5 A should be 5, got %f", r)
	}
	p.TransformAtoms(all, pose.RotationMatrix(r3.Unit(r3.Vec{X: 1, Y: 2, Z: -1}), 1.1), r3.Vec{X: 2}, r3.Vec{Z: 1})
	r, err = PoseRMSD(p, ref, all, true, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if r > 1e-6 {
		Te.Errorf("RMSD after superposition of a rigidly moved copy should be 0, got %g", r)
	}
	//moving only chain B and fitting on chain A gives the displacement of B.
	p.Assign(ref)
	p.TransformAtoms(p.ChainAtoms("B"), pose.Eye3(), r3.Vec{}, r3.Vec{X: 2})
	ca := p.Select(nil, pose.IsProteinCA)
	fit := p.Select(p.ChainResidues("A"), pose.IsProteinCA)
	pep := p.Select(p.ChainResidues("B"), pose.IsProteinCA)
	r, _ = PoseRMSD(p, ref, pep, true, fit)
	if math.Abs(r-2) > 1e-6 {
		Te.Errorf("Peptide RMSD after fitting the receptor should be 2, got %f", r)
	}
	if _, err := PoseRMSD(p, ref, nil, true, nil); err == nil {
		Te.Errorf("Empty selection accepted")
	}
	r, _ = PoseRMSD(p, ref, ca, true, nil)
	if r <= 1e-6 || r >= 2 {
		Te.Errorf("Global fit should partially compensate the peptide shift, got %f", r)
	}
}

func TestNoReflection(Te *testing.T) {
	p, ref := complexes(Te)
	test := Coords(p, p.Select(nil, nil))
	templa := Coords(ref, ref.Select(nil, nil))
	for i := 0; i < templa.NVecs(); i++ {
		v := templa.Vec(i)
		v.X = -v.X
		templa.SetVec(i, v)
	}
	R, _, _, err := RotatorTranslatorToSuper(test, templa)
	if err != nil {
		Te.Fatal(err)
	}
	if d := mat.Det(R); math.Abs(d-1) > 1e-9 {
		Te.Errorf("Superposition gave a matrix with determinant %f", d)
	}
	if r, _ := SuperRMSD(test, templa); r < 0.1 {
		Te.Errorf("A mirror image should not superimpose, got %f", r)
	}
}

func TestFnat(Te *testing.T) {
	p, ref := complexes(Te)
	a, b := p.ChainResidues("A"), p.ChainResidues("B")
	if len(Contacts(ref, a, b, DefaultContactCutoff)) == 0 {
		Te.Fatal("No contacts in the reference")
	}
	if f := Fnat(p, ref, a, b, DefaultContactCutoff); f != 1 {
		Te.Errorf("Fnat of identical poses should be 1, got %f", f)
	}
	p.TransformAtoms(p.ChainAtoms("B"), pose.Eye3(), r3.Vec{}, r3.Vec{X: 40})
	if f := Fnat(p, ref, a, b, DefaultContactCutoff); f != 0 {
		Te.Errorf("Fnat of separated partners should be 0, got %f", f)
	}
}
