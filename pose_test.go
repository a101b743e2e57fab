/*
 * pose_test.go, part of gopose.
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
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func angleDiff(a, b float64) float64 {
	return math.Abs(WrapDeg(a - b))
}

func TestBuild(Te *testing.T) {
	p, err := Build("AGSVLKDFTEI", "A", -60, -45)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println(p.Sequence(), p.Len(), p.FoldTree())
	for i := 1; i < p.NResidues()-1; i++ {
		if angleDiff(p.Phi(i), -60) > 1e-6 || angleDiff(p.Psi(i), -45) > 1e-6 || angleDiff(p.Omega(i), 180) > 1e-6 {
			Te.Errorf("Residue %d: phi %f psi %f omega %f", i, p.Phi(i), p.Psi(i), p.Omega(i))
		}
	}
	n, ca := p.Residue(3).AtomIndex("N"), p.Residue(3).AtomIndex("CA")
	if d := r3.Norm(r3.Sub(p.XYZ(n), p.XYZ(ca))); math.Abs(d-bondNCA) > 1e-9 {
		Te.Errorf("N-CA distance %f", d)
	}
	if p.TorsionDefined(TorsionID{Kind: Phi, Res: 0}) {
		Te.Errorf("phi of the first residue should not be defined")
	}
	if _, err := Build("AZ", "A", -60, -45); err == nil {
		Te.Errorf("Unknown residue letter accepted")
	}
}

func backboneTorsions(p *Pose) []float64 {
	ret := make([]float64, 0, 3*p.NResidues())
	for i := 0; i < p.NResidues(); i++ {
		ret = append(ret, p.Phi(i), p.Psi(i), p.Omega(i))
	}
	return ret
}

func checkSetTorsion(Te *testing.T, p *Pose, id TorsionID, v float64) {
	before := backboneTorsions(p)
	if err := p.SetTorsion(id, v); err != nil {
		Te.Fatal(err)
	}
	if angleDiff(p.Torsion(id), v) > 1e-6 {
		Te.Errorf("%s is %f after setting it to %f", id, p.Torsion(id), v)
	}
	after := backboneTorsions(p)
	for i := range after {
		tid := TorsionID{Kind: TorsionKind(i % 3), Res: i / 3}
		if tid == id {
			continue
		}
		if angleDiff(after[i], before[i]) > 1e-6 {
			Te.Errorf("Setting %s changed %s from %f to %f", id, tid, before[i], after[i])
		}
	}
}

func TestSetTorsion(Te *testing.T) {
	p, err := Build("AGSVLKDFA", "A", -60, -45)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 1; i < 8; i++ {
		checkSetTorsion(Te, p, TorsionID{Kind: Phi, Res: i}, -150)
		checkSetTorsion(Te, p, TorsionID{Kind: Psi, Res: i}, 150)
	}
	//now a tree rooted in the middle, so some torsions move the N-terminal side.
	ft := NewFoldTree(4, Edge{Start: 4, Stop: 0}, Edge{Start: 4, Stop: 8})
	if err := p.SetFoldTree(ft); err != nil {
		Te.Fatal(err)
	}
	for i := 1; i < 8; i++ {
		checkSetTorsion(Te, p, TorsionID{Kind: Phi, Res: i}, -75)
		checkSetTorsion(Te, p, TorsionID{Kind: Psi, Res: i}, 135)
		checkSetTorsion(Te, p, TorsionID{Kind: Omega, Res: i}, 175)
	}
	lys := 5
	if err := p.SetChi(3, lys, 60); err != nil {
		Te.Fatal(err)
	}
	if angleDiff(p.Chi(3, lys), 60) > 1e-6 || angleDiff(p.Chi(1, lys), 180) > 1e-6 {
		Te.Errorf("chi3 %f chi1 %f", p.Chi(3, lys), p.Chi(1, lys))
	}
}

func twoChains(Te *testing.T) *Pose {
	p, err := Build("AGSVL", "A", -60, -45)
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.AppendChain("KDF", "B", -135, 135); err != nil {
		Te.Fatal(err)
	}
	p.TransformAtoms(p.ChainAtoms("B"), Eye3(), r3.Vec{}, r3.Vec{X: 8, Y: 3})
	return p
}

func TestJump(Te *testing.T) {
	p := twoChains(Te)
	if p.NJumps() != 1 {
		Te.Fatalf("expected 1 jump, got %d", p.NJumps())
	}
	ft, err := DockingFoldTree(p, "A", "B", 2, 6)
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.SetFoldTree(ft); err != nil {
		Te.Fatal(err)
	}
	up, down := p.JumpResidues(0)
	if up != 2 || down != 6 {
		Te.Errorf("jump residues %d %d", up, down)
	}
	orig := p.Copy()
	rt := p.Jump(0)
	R := RotationMatrix(r3.Vec{X: 1, Y: 2, Z: 0.5}, 0.7)
	p.TransformJump(0, R, p.XYZ(10), r3.Vec{X: 1, Y: -1, Z: 2})
	for _, i := range p.ChainAtoms("A") {
		if p.XYZ(i) != orig.XYZ(i) {
			Te.Fatalf("receptor atom %d moved", i)
		}
	}
	p.SetJump(0, rt)
	for i := 0; i < p.Len(); i++ {
		if d := r3.Norm(r3.Sub(p.XYZ(i), orig.XYZ(i))); d > 1e-9 {
			Te.Errorf("atom %d is %f A away after restoring the jump", i, d)
		}
	}
	//peptide torsions are measured in the peptide, so they don't change with the jump.
	checkSetTorsion(Te, p, TorsionID{Kind: Psi, Res: 5}, 100)
	checkSetTorsion(Te, p, TorsionID{Kind: Phi, Res: 7}, -100)
	checkSetTorsion(Te, p, TorsionID{Kind: Phi, Res: 6}, -90)
	checkSetTorsion(Te, p, TorsionID{Kind: Psi, Res: 6}, 90)
	if err := p.SetPhi(5, 20); err == nil {
		Te.Errorf("phi of the first peptide residue should not be settable")
	}
}

func TestFoldTreeValidate(Te *testing.T) {
	good := []*FoldTree{
		SimpleFoldTree(5),
		NewFoldTree(2, Edge{Start: 2, Stop: 0}, Edge{Start: 2, Stop: 4}),
		NewFoldTree(0, Edge{Start: 0, Stop: 2}, Edge{Start: 0, Stop: 3, Kind: Jump}, Edge{Start: 3, Stop: 4}),
	}
	for i, ft := range good {
		if err := ft.Validate(5); err != nil {
			Te.Errorf("good tree %d (%s) rejected: %s", i, ft, err)
		}
	}
	bad := []*FoldTree{
		//does not reach residue 4
		NewFoldTree(0, Edge{Start: 0, Stop: 3}),
		//cycle
		NewFoldTree(0, Edge{Start: 0, Stop: 4}, Edge{Start: 1, Stop: 3, Kind: Jump}),
		//bad jump id
		NewFoldTree(0, Edge{Start: 0, Stop: 2}, Edge{Start: 0, Stop: 3, Kind: Jump, JumpID: 1}, Edge{Start: 3, Stop: 4}),
		//self edge
		NewFoldTree(0, Edge{Start: 0, Stop: 4}, Edge{Start: 2, Stop: 2, Kind: Jump}),
		//disconnected
		NewFoldTree(0, Edge{Start: 0, Stop: 2}, Edge{Start: 3, Stop: 4}, Edge{Start: 0, Stop: 1, Kind: Jump}),
		//out of range
		NewFoldTree(0, Edge{Start: 0, Stop: 7}),
	}
	for i, ft := range bad {
		err := ft.Validate(5)
		if err == nil {
			Te.Errorf("bad tree %d (%s) accepted", i, ft)
			continue
		}
		fmt.Println("expected error:", err)
	}
	if _, err := SimpleFoldTree(5).EdgeSafe(3); err == nil {
		Te.Errorf("EdgeSafe accepted an out of range index")
	}
}

func TestDihedralGradient(Te *testing.T) {
	pts := [4]r3.Vec{{X: 1.1, Y: 0.2, Z: -0.3}, {X: 0, Y: 0, Z: 0.1}, {X: 0.2, Y: 0.1, Z: 1.5}, {X: -0.4, Y: 1.3, Z: 1.9}}
	g := DihedralGradient(pts[0], pts[1], pts[2], pts[3])
	const h = 1e-6
	for i := 0; i < 4; i++ {
		for c := 0; c < 3; c++ {
			p, m := pts, pts
			switch c {
			case 0:
				p[i].X += h
				m[i].X -= h
			case 1:
				p[i].Y += h
				m[i].Y -= h
			case 2:
				p[i].Z += h
				m[i].Z -= h
			}
			num := (Dihedral(p[0], p[1], p[2], p[3]) - Dihedral(m[0], m[1], m[2], m[3])) / (2 * h)
			an := []float64{g[i].X, g[i].Y, g[i].Z}[c]
			if math.Abs(num-an) > 1e-6 {
				Te.Errorf("point %d coord %d: numerical %f analytical %f", i, c, num, an)
			}
		}
	}
}

func TestMoveMap(Te *testing.T) {
	p := twoChains(Te)
	mm := NewMoveMap(p)
	mm.SetBBRange(5, 7, true)
	mm.SetChi(6, true)
	mm.SetJump(0, true)
	dofs, err := mm.DOFs(p)
	if err != nil {
		Te.Fatal(err)
	}
	//psi 5, phi/psi 6, phi 7, 2 chis of ASP and 6 jump dofs.
	if len(dofs) != 12 {
		Te.Errorf("expected 12 dofs, got %d: %v", len(dofs), dofs)
	}
}

func TestCopyIndependence(Te *testing.T) {
	p, err := Build("AGS", "A", -60, -45)
	if err != nil {
		Te.Fatal(err)
	}
	toy := ToyType("TOY", 1.5, 0.1, 0)
	q := p.Copy()
	if err := q.AppendToy(toy, "Q", r3.Vec{X: 20}); err != nil {
		Te.Fatal(err)
	}
	if err := p.AppendToy(toy, "P", r3.Vec{X: -20}); err != nil {
		Te.Fatal(err)
	}
	if q.Residue(3).Chain != "Q" || p.Residue(3).Chain != "P" {
		Te.Errorf("Appending to a pose changed its copy: %s %s", q.Residue(3), p.Residue(3))
	}
	if q.Atom(q.Len()-1).Residue != 3 || q.XYZ(q.Len()-1).X != 20 {
		Te.Errorf("Wrong toy atom in the copy: %s %v", q.Atom(q.Len()-1), q.XYZ(q.Len()-1))
	}
	r := NewPose()
	r.Assign(q)
	if err := q.AppendToy(toy, "R", r3.Vec{}); err != nil {
		Te.Fatal(err)
	}
	if r.NResidues() != 4 || r.Residue(3).Chain != "Q" {
		Te.Errorf("Assign shares the residues of its source: %d residues, last %s", r.NResidues(), r.Residue(3))
	}
}
