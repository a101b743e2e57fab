/*
 * rmsd.go, part of gopose.
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

//Package rmsd compares structures: RMSD with and without optimal superposition
//and the fraction of native contacts.
package rmsd

import (
	"math"

	pose "github.com/rmera/gopose"
	v3 "github.com/rmera/gopose/v3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//RMSD returns the root of the mean square deviation between test and templa, without superposition.
func RMSD(test, templa *v3.Matrix) (float64, error) {
	if test.NVecs() != templa.NVecs() || test.NVecs() == 0 {
		return 0, pose.Errorf("RMSD", "Ill formed matrices for RMSD calculation: %d and %d vectors", test.NVecs(), templa.NVecs())
	}
	var msd float64
	for i := 0; i < test.NVecs(); i++ {
		d := r3.Sub(test.Vec(i), templa.Vec(i))
		msd += r3.Dot(d, d)
	}
	return math.Sqrt(msd / float64(test.NVecs())), nil
}

//RotatorTranslatorToSuper returns the rotation matrix R and the centroids ctest and ctempla such
//that ctempla + R(x - ctest) optimally superimposes each point x of test onto templa.
func RotatorTranslatorToSuper(test, templa *v3.Matrix) (*mat.Dense, r3.Vec, r3.Vec, error) {
	n := test.NVecs()
	if n != templa.NVecs() || n == 0 {
		return nil, r3.Vec{}, r3.Vec{}, pose.Errorf("RotatorTranslatorToSuper", "Ill-formed matrices: %d and %d vectors", n, templa.NVecs())
	}
	ctest, ctempla := test.Centroid(), templa.Centroid()
	P := v3.Zeros(n)
	Q := v3.Zeros(n)
	P.SubVec(test, ctest)
	Q.SubVec(templa, ctempla)
	H := mat.NewDense(3, 3, nil)
	H.Mul(P.T(), Q)
	var svd mat.SVD
	if ok := svd.Factorize(H, mat.SVDFull); !ok {
		return nil, ctest, ctempla, pose.Errorf("RotatorTranslatorToSuper", "SVD factorization failed")
	}
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)
	R := mat.NewDense(3, 3, nil)
	R.Mul(&V, U.T())
	if mat.Det(R) < 0 {
		//flip the axis with the smallest singular value, to get a proper rotation
		for i := 0; i < 3; i++ {
			V.Set(i, 2, -V.At(i, 2))
		}
		R.Mul(&V, U.T())
	}
	return R, ctest, ctempla, nil
}

//Super returns a copy of test optimally superimposed onto templa.
func Super(test, templa *v3.Matrix) (*v3.Matrix, error) {
	R, ctest, ctempla, err := RotatorTranslatorToSuper(test, templa)
	if err != nil {
		return nil, pose.ErrDecorate(err, "Super")
	}
	ret := v3.Zeros(test.NVecs())
	for i := 0; i < test.NVecs(); i++ {
		ret.SetVec(i, r3.Add(ctempla, pose.MulVec(R, r3.Sub(test.Vec(i), ctest))))
	}
	return ret, nil
}

//SuperRMSD returns the RMSD between test and templa after optimal superposition.
func SuperRMSD(test, templa *v3.Matrix) (float64, error) {
	s, err := Super(test, templa)
	if err != nil {
		return 0, pose.ErrDecorate(err, "SuperRMSD")
	}
	return RMSD(s, templa)
}

//Coords returns the coordinates of the given atoms of p.
func Coords(p *pose.Pose, atoms []int) *v3.Matrix {
	ret := v3.Zeros(len(atoms))
	ret.SomeVecs(p.Coords(), atoms)
	return ret
}

//PoseRMSD returns the RMSD between the atoms of p and ref. With super, fit are the atoms used to obtain the
//superposition, which is then applied to atoms. If fit is nil, atoms are used.
//Both poses must have the same topology.
func PoseRMSD(p, ref *pose.Pose, atoms []int, super bool, fit []int) (float64, error) {
	if p.Len() != ref.Len() {
		return 0, pose.Errorf("PoseRMSD", "Poses with different number of atoms: %d and %d", p.Len(), ref.Len())
	}
	if len(atoms) == 0 {
		return 0, pose.Errorf("PoseRMSD", "No atoms selected")
	}
	test, templa := Coords(p, atoms), Coords(ref, atoms)
	if !super {
		return RMSD(test, templa)
	}
	if fit == nil {
		fit = atoms
	}
	R, ctest, ctempla, err := RotatorTranslatorToSuper(Coords(p, fit), Coords(ref, fit))
	if err != nil {
		return 0, pose.ErrDecorate(err, "PoseRMSD")
	}
	for i := 0; i < test.NVecs(); i++ {
		test.SetVec(i, r3.Add(ctempla, pose.MulVec(R, r3.Sub(test.Vec(i), ctest))))
	}
	return RMSD(test, templa)
}
