/*
 * moves_test.go, part of gopose.
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
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/montecarlo"
	"github.com/rmera/gopose/scoring"
	"github.com/rmera/gopose/scoring/methods"
	"gonum.org/v1/gonum/spatial/r3"
)

func dockedPose(Te *testing.T) *pose.Pose {
	p, err := pose.Build("AGSVLKDFEK", "A", -63, -43)
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.AppendChain("TEIKS", "B", -120, 130); err != nil {
		Te.Fatal(err)
	}
	p.TransformAtoms(p.ChainAtoms("B"), pose.RotationMatrix(r3.Vec{Y: 1}, 0.4), r3.Vec{}, r3.Vec{X: 4, Y: 8, Z: 2})
	ft, err := pose.DockingFoldTree(p, "A", "B", 4, 12)
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.SetFoldTree(ft); err != nil {
		Te.Fatal(err)
	}
	return p
}

func rng(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, 42)) }

func samePositions(p, q *pose.Pose, atoms []int) bool {
	for _, a := range atoms {
		if r3.Norm(r3.Sub(p.XYZ(a), q.XYZ(a))) > 1e-9 {
			return false
		}
	}
	return true
}

func TestRigidBodyPerturb(Te *testing.T) {
	p := dockedPose(Te)
	orig := p.Copy()
	bad := NewRigidBodyPerturb(3, 0.2, 7, rng(1))
	if err := bad.Apply(p); err == nil || bad.Status() != FailBadInput {
		Te.Errorf("Jump out of range accepted, status %s", bad.Status())
	}
	if !samePositions(p, orig, p.ChainAtoms("B")) {
		Te.Errorf("A failed mover changed the pose")
	}
	m := NewRigidBodyPerturb(0, 1, 10, rng(1))
	if err := m.Apply(p); err != nil || m.Status() != Success {
		Te.Fatal(err, m.Status())
	}
	if !samePositions(p, orig, p.ChainAtoms("A")) {
		Te.Errorf("The receptor moved")
	}
	if samePositions(p, orig, p.ChainAtoms("B")) {
		Te.Errorf("The peptide did not move")
	}
	b := p.ChainAtoms("B")
	d0 := r3.Norm(r3.Sub(orig.XYZ(b[0]), orig.XYZ(b[len(b)-1])))
	d1 := r3.Norm(r3.Sub(p.XYZ(b[0]), p.XYZ(b[len(b)-1])))
	if math.Abs(d0-d1) > 1e-9 {
		Te.Errorf("The peptide did not move rigidly %f %f", d0, d1)
	}
	if m.Clone().Status() != NotApplied {
		Te.Errorf("Clone kept the status")
	}
}

func TestSlideIntoContact(Te *testing.T) {
	p := dockedPose(Te)
	p.TransformJump(0, pose.Eye3(), r3.Vec{}, r3.Vec{X: 15, Y: 15})
	s := NewSlideIntoContact(0)
	if err := s.Apply(p); err != nil {
		Te.Fatal(err)
	}
	d := minHeavyDistance(p, p.ChainAtoms("A"), p.ChainAtoms("B"))
	if s.Status() != Success || d < s.Contact || d > s.Contact+s.Step {
		Te.Errorf("Slide ended with status %s and a distance of %f", s.Status(), d)
	}
}

func TestSmallShear(Te *testing.T) {
	p := dockedPose(Te)
	mm := pose.NewMoveMap(p)
	pep := p.ChainResidues("B")
	mm.SetBBRange(pep[0], pep[len(pep)-1], true)
	for _, m := range []Mover{NewSmall(mm, rng(3)), NewShear(mm, rng(4))} {
		q := p.Copy()
		if err := m.Apply(q); err != nil || m.Status() != Success {
			Te.Fatal(m.Name(), err, m.Status())
		}
		if !samePositions(q, p, p.ChainAtoms("A")) {
			Te.Errorf("%s moved the receptor", m.Name())
		}
		changed := 0
		for _, r := range pep {
			if math.Abs(pose.WrapDeg(q.Phi(r)-p.Phi(r)))+math.Abs(pose.WrapDeg(q.Psi(r)-p.Psi(r))) > 1e-6 {
				changed++
			}
			if math.Abs(pose.WrapDeg(q.Omega(r)-p.Omega(r))) > 1e-6 {
				Te.Errorf("%s changed omega of residue %d", m.Name(), r)
			}
		}
		fmt.Println(m.Name(), "changed", changed, "residues")
		if changed == 0 {
			Te.Errorf("%s did nothing", m.Name())
		}
	}
	other, _ := pose.Build("AAA", "A", -60, -40)
	sm := NewSmall(pose.NewMoveMap(other), rng(3))
	if err := sm.Apply(p); err == nil || sm.Status() != FailBadInput {
		Te.Errorf("Small accepted a MoveMap for another pose")
	}
}

func TestPacking(Te *testing.T) {
	p := dockedPose(Te)
	sf := methods.Standard()
	before, _ := sf.Score(p, scoring.NewCache())
	iface := ChainInterface(p, "A", "B", DefaultInterfaceCutoff)
	if len(iface) == 0 {
		Te.Fatalf("No interface found")
	}
	pack := NewPackRotamers(sf, iface, rng(5))
	if err := pack.Apply(p); err != nil {
		Te.Fatal(err)
	}
	after, _ := sf.Score(p, scoring.NewCache())
	fmt.Println("Packing", len(iface), "residues", before, "->", after, "changes:", pack.Changed())
	if after > before+1e-9 {
		Te.Errorf("Packing increased the score from %f to %f", before, after)
	}
	if err := NewRotamerTrials(sf, []int{-1}, nil).Apply(p); err == nil {
		Te.Errorf("Residue -1 accepted")
	}
	mc, err := montecarlo.New(p, sf, 0.8, rng(6))
	if err != nil {
		Te.Fatal(err)
	}
	//a clash with the peptide raises the energy of some receptor residues
	p.TransformJump(0, pose.Eye3(), r3.Vec{}, r3.Scale(-1.5, r3.Unit(r3.Vec{X: 4, Y: 8, Z: 2})))
	ecut := NewEnergyCutRotamerTrials(sf, mc, nil, rng(7))
	s0, _ := sf.Score(p, scoring.NewCache())
	if err := ecut.Apply(p); err != nil {
		Te.Fatal(err)
	}
	s1, _ := sf.Score(p, scoring.NewCache())
	if s1 > s0+1e-9 {
		Te.Errorf("Energy cut rotamer trials increased the score from %f to %f", s0, s1)
	}
}

func TestMinMoverSequence(Te *testing.T) {
	p := dockedPose(Te)
	sf := methods.Standard()
	mm := pose.NewMoveMap(p)
	mm.SetAllJumps(true)
	mm.SetChiRange(0, p.NResidues()-1, true)
	minm, err := NewMinMover(mm, sf, "lbfgs_armijo_atol", 1, true)
	if err != nil {
		Te.Fatal(err)
	}
	seq := NewSequence(NewRigidBodyPerturb(0, 0.2, 7, rng(8)), minm)
	if err := seq.Apply(p); err != nil || seq.Status() != Success {
		Te.Fatal(err, seq.Status())
	}
	if r := minm.LastResult(); r == nil || r.FinalScore > r.StartScore {
		Te.Errorf("Bad minimization result %+v", r)
	}
	if _, err := NewMinMover(mm, sf, "simplex", 1, true); err == nil {
		Te.Errorf("Unknown minimizer accepted")
	}
	bad := NewSequence(NewRigidBodyPerturb(9, 0.2, 7, rng(8)), minm)
	if err := bad.Apply(p); err == nil || bad.Status() != FailBadInput {
		Te.Errorf("Sequence did not report the bad input, status %s", bad.Status())
	}
}

func TestLoopRefine(Te *testing.T) {
	p := dockedPose(Te)
	sf := methods.Standard()
	before, _ := sf.Score(p, scoring.NewCache())
	pep := p.ChainResidues("B")
	l := NewLoopRefine(pep[1], pep[3], sf, rng(9))
	l.Cycles = 4
	if err := l.Apply(p); err != nil {
		Te.Fatal(err)
	}
	after, _ := sf.Score(p, scoring.NewCache())
	if after > before+1e-9 {
		Te.Errorf("LoopRefine increased the score from %f to %f", before, after)
	}
	if err := NewLoopRefine(3, 100, sf, rng(9)).Apply(p); err == nil {
		Te.Errorf("Loop out of range accepted")
	}
}

func TestRamaEnergyUnits(Te *testing.T) {
	p := dockedPose(Te)
	b := newBackbone(pose.NewMoveMap(p), rng(1))
	rama := methods.NewRama()
	for _, r := range []int{2, 4, 7, 12} {
		var em scoring.EnergyMap
		rama.IntraResidueEnergy(p, r, nil, &em)
		got := b.ramaEnergy(p, r, p.Phi(r), p.Psi(r))
		if math.Abs(got-em.Get(scoring.Rama)) > 1e-6 {
			Te.Errorf("Residue %d: mover Rama energy %f, score function %f", r, got, em.Get(scoring.Rama))
		}
	}
	//helical region against a disallowed one, for a non-glycine residue.
	if h, d := b.ramaEnergy(p, 4, -63, -43), b.ramaEnergy(p, 4, 60, -150); h+1 > d {
		Te.Errorf("Rama does not discriminate: helix %f, disallowed %f", h, d)
	}
	if e := b.ramaEnergy(p, 0, -63, -43); e != 0 {
		Te.Errorf("Rama of a terminal residue should be 0, got %f", e)
	}
}
