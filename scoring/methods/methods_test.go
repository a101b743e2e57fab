/*
 * methods_test.go, part of gopose.
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

package methods

import (
	"fmt"
	"math"
	"testing"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/scoring"
	"gonum.org/v1/gonum/spatial/r3"
)

func twoChainPose(Te *testing.T) *pose.Pose {
	p, err := pose.Build("AGSVLKDF", "A", -63, -43)
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.AppendChain("TEIK", "B", -120, 130); err != nil {
		Te.Fatal(err)
	}
	p.TransformAtoms(p.ChainAtoms("B"), pose.RotationMatrix(r3.Vec{Y: 1}, 0.4), r3.Vec{}, r3.Vec{X: 3, Y: 7, Z: 2})
	return p
}

//checkGradient compares the analytical gradient of sf with central differences for some atoms.
func checkGradient(Te *testing.T, sf *scoring.ScoreFunction, p *pose.Pose, atoms []int) {
	c := scoring.NewCache()
	if err := sf.SetupForDerivatives(p, c); err != nil {
		Te.Fatal(err)
	}
	d, err := sf.EvalDerivatives(p, c)
	if err != nil {
		Te.Fatal(err)
	}
	const h = 1e-5
	for _, a := range atoms {
		x := p.XYZ(a)
		g := d.Gradient(a)
		for k, dir := range []r3.Vec{{X: h}, {Y: h}, {Z: h}} {
			p.SetXYZ(a, r3.Add(x, dir))
			sp, _ := sf.Score(p, c)
			p.SetXYZ(a, r3.Sub(x, dir))
			sm, _ := sf.Score(p, c)
			p.SetXYZ(a, x)
			num := (sp - sm) / (2 * h)
			an := []float64{g.X, g.Y, g.Z}[k]
			if math.Abs(num-an) > 1e-4*math.Max(1, math.Abs(num)) {
				Te.Errorf("%s atom %d (%s) coord %d: numerical %f analytical %f", sf.Name, a, p.Atom(a), k, num, an)
			}
		}
	}
}

func TestLJElecGradient(Te *testing.T) {
	p := twoChainPose(Te)
	sf, err := FromWeights("pair", map[string]float64{"fa_atr": 1, "fa_rep": 0.5, "fa_elec": 1})
	if err != nil {
		Te.Fatal(err)
	}
	E, _ := sf.Evaluate(p, scoring.NewCache())
	fmt.Println(E.Total.String())
	checkGradient(Te, sf, p, []int{1, 7, 12, 20, 33, 50, 61, p.Len() - 1})
}

func TestTorsionalGradient(Te *testing.T) {
	p := twoChainPose(Te)
	sf, err := FromWeights("torsional", map[string]float64{"rama": 1, "omega": 1})
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.SetOmega(3, 170); err != nil {
		Te.Fatal(err)
	}
	res := p.Residue(3)
	checkGradient(Te, sf, p, append(res.Atoms(), p.Residue(4).AtomIndex("N"), p.Residue(4).AtomIndex("CA")))
}

func TestConstraints(Te *testing.T) {
	p := twoChainPose(Te)
	cas := p.Select(nil, pose.IsProteinCA)
	sf := scoring.NewScoreFunction("cst")
	AddCoordinateConstraints(sf, p, cas, 0.5, 1)
	sf.AddMethod(&AtomPairConstraint{Pairs: []AtomPair{{A: cas[0], B: cas[9], D0: 10, SD: 1}}})
	sf.SetWeight(scoring.AtomPairConstraint, 1)
	E, err := sf.Evaluate(p, scoring.NewCache())
	if err != nil {
		Te.Fatal(err)
	}
	if E.Total[scoring.CoordinateConstraint] != 0 {
		Te.Errorf("Coordinate constraints should be 0 at the reference positions, got %f", E.Total[scoring.CoordinateConstraint])
	}
	p.TransformAtoms(p.ChainAtoms("B"), pose.Eye3(), r3.Vec{}, r3.Vec{X: 1})
	E, _ = sf.Evaluate(p, scoring.NewCache())
	//4 restrained CAs in chain B, moved 1 A each.
	if math.Abs(E.Total[scoring.CoordinateConstraint]-4*4) > 1e-9 {
		Te.Errorf("Expected a coordinate constraint energy of 16, got %f", E.Total[scoring.CoordinateConstraint])
	}
	checkGradient(Te, sf, p, []int{cas[0], cas[9], cas[10]})
	bad := scoring.NewScoreFunction("bad")
	bad.AddMethod(&AtomPairConstraint{Pairs: []AtomPair{{A: 0, B: p.Len() + 3, D0: 1, SD: 1}}})
	bad.SetWeight(scoring.AtomPairConstraint, 1)
	if _, err := bad.Evaluate(p, scoring.NewCache()); err == nil {
		Te.Errorf("Out of range constraint accepted")
	}
}

func TestRamaRefStandard(Te *testing.T) {
	r := NewRama()
	ala, _ := pose.ResidueTypeByName("ALA")
	helix, _, _ := r.Energy(ala, pose.Deg2Rad(-63), pose.Deg2Rad(-43))
	weird, _, _ := r.Energy(ala, pose.Deg2Rad(60), pose.Deg2Rad(-120))
	if helix >= weird {
		Te.Errorf("The helical region (%f) should be better than phi 60 psi -120 (%f)", helix, weird)
	}
	p, _ := pose.Build("AGK", "A", -63, -43)
	sf, _ := FromWeights("ref", map[string]float64{"ref": 1})
	s, _ := sf.Score(p, scoring.NewCache())
	if math.Abs(s-(1.32+0.17-0.71)) > 1e-12 {
		Te.Errorf("Wrong reference energy %f", s)
	}
	if _, err := FromWeights("bad", map[string]float64{"hbond_lr_bb": 1}); err == nil {
		Te.Errorf("Unknown score type accepted")
	}
	st := Standard()
	fmt.Println(st)
	if st.AtomicInteractionCutoff() != 6 {
		Te.Errorf("Standard cutoff should be 6, got %f", st.AtomicInteractionCutoff())
	}
}
