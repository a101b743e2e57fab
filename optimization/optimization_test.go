/*
 * optimization_test.go, part of gopose.
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

package optimization

import (
	"fmt"
	"math"
	"testing"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/scoring"
	"github.com/rmera/gopose/scoring/methods"
	"gonum.org/v1/gonum/spatial/r3"
)

func dockedPose(Te *testing.T) *pose.Pose {
	p, err := pose.Build("AGSVLKDF", "A", -63, -43)
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.AppendChain("TEIKS", "B", -120, 130); err != nil {
		Te.Fatal(err)
	}
	p.TransformAtoms(p.ChainAtoms("B"), pose.RotationMatrix(r3.Vec{Y: 1}, 0.4), r3.Vec{}, r3.Vec{X: 4, Y: 8, Z: 2})
	ft, err := pose.DockingFoldTree(p, "A", "B", 3, 10)
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.SetFoldTree(ft); err != nil {
		Te.Fatal(err)
	}
	return p
}

func allMoveMap(p *pose.Pose) *pose.MoveMap {
	mm := pose.NewMoveMap(p)
	mm.SetAllBB(true)
	mm.SetAllChi(true)
	mm.SetAllJumps(true)
	return mm
}

func TestDOFGradient(Te *testing.T) {
	p := dockedPose(Te)
	sf, err := methods.FromWeights("test", map[string]float64{"fa_atr": 0.8, "fa_rep": 0.1, "fa_elec": 0.5, "rama": 0.2, "omega": 0.5})
	if err != nil {
		Te.Fatal(err)
	}
	F, err := NewDOFFunc(p, allMoveMap(p), sf, scoring.NewCache())
	if err != nil {
		Te.Fatal(err)
	}
	x := F.X0()
	//move away from the starting point, so the jump rotation axes are not the stub axes.
	for i, d := range F.DOFs() {
		switch d.Kind {
		case pose.TorsionDOF:
			x[i] += 3
		case pose.JumpTransDOF:
			x[i] = 0.3
		case pose.JumpRotDOF:
			x[i] = []float64{5, -8, 12}[d.Axis]
		}
	}
	grad := make([]float64, len(x))
	F.Grad(grad, x)
	const h = 1e-4
	for i, d := range F.DOFs() {
		xp := append([]float64(nil), x...)
		xm := append([]float64(nil), x...)
		xp[i] += h
		xm[i] -= h
		num := (F.Func(xp) - F.Func(xm)) / (2 * h)
		if math.Abs(num-grad[i]) > 1e-3*math.Max(1, math.Abs(num)) {
			Te.Errorf("DOF %s: numerical %f analytical %f", d, num, grad[i])
		}
	}
	if F.Err() != nil {
		Te.Error(F.Err())
	}
}

func TestApplyRestores(Te *testing.T) {
	p := dockedPose(Te)
	orig := p.Copy()
	sf := methods.Standard()
	F, err := NewDOFFunc(p, allMoveMap(p), sf, scoring.NewCache())
	if err != nil {
		Te.Fatal(err)
	}
	x := F.X0()
	y := append([]float64(nil), x...)
	for i := range y {
		y[i] += 10
	}
	F.Apply(y)
	F.Apply(x)
	for i := 0; i < p.Len(); i++ {
		if r3.Norm(r3.Sub(p.XYZ(i), orig.XYZ(i))) > 1e-6 {
			Te.Fatalf("Atom %d not restored: %v vs %v", i, p.XYZ(i), orig.XYZ(i))
		}
	}
}

func TestMinimize(Te *testing.T) {
	for _, method := range []string{"lbfgs_armijo_atol", "dfpmin", "linmin"} {
		for _, nblist := range []bool{true, false} {
			p := dockedPose(Te)
			if err := p.SetPsi(4, 60); err != nil {
				Te.Fatal(err)
			}
			sf := methods.Standard()
			res, err := Minimize(p, allMoveMap(p), sf, method, 0.01, nblist)
			if err != nil {
				Te.Fatal(err)
			}
			fmt.Printf("%s nblist: %t %+v\n", method, nblist, res)
			if res.FinalScore > res.StartScore+1e-9 {
				Te.Errorf("%s increased the score from %f to %f", method, res.StartScore, res.FinalScore)
			}
			s, _ := sf.Score(p, scoring.NewCache())
			if math.Abs(s-res.FinalScore) > 1e-6 {
				Te.Errorf("Reported final score %f differs from the pose score %f", res.FinalScore, s)
			}
		}
	}
}

func TestMinimizeErrors(Te *testing.T) {
	p := dockedPose(Te)
	if _, err := Minimize(p, allMoveMap(p), methods.Standard(), "newton", 0.01, false); err == nil {
		Te.Errorf("Unknown method accepted")
	}
	other, _ := pose.Build("AAA", "A", -60, -40)
	if _, err := Minimize(p, pose.NewMoveMap(other), methods.Standard(), "lbfgs_armijo", 0.01, false); err == nil {
		Te.Errorf("MoveMap for another pose accepted")
	}
	res, err := Minimize(p, pose.NewMoveMap(p), methods.Standard(), "lbfgs_armijo", 0.01, false)
	if err != nil || res.StartScore != res.FinalScore {
		Te.Errorf("Empty MoveMap should be a no-op, got %+v, %v", res, err)
	}
}
