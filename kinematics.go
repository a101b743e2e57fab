/*
 * kinematics.go, part of gopose.
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

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

type link int

const (
	linkRoot link = iota
	linkFwd       //parent is the previous residue
	linkBwd       //parent is the next residue
	linkJump
)

//kinematics is the rooted residue tree derived from the fold tree.
//It depends only on the topology, so copies of a pose share it.
type kinematics struct {
	parent   []int
	plink    []link
	children [][]int
	preorder []int
	jumpUp   []int
	jumpDown []int
}

func (P *Pose) kinem() *kinematics {
	if P.kin != nil {
		return P.kin
	}
	n := P.NResidues()
	type nb struct {
		res  int
		kind EdgeKind
		jump int
	}
	adj := make([][]nb, n)
	nj := P.ftree.NJumps()
	k := &kinematics{
		parent:   make([]int, n),
		plink:    make([]link, n),
		children: make([][]int, n),
		preorder: make([]int, 0, n),
		jumpUp:   make([]int, nj),
		jumpDown: make([]int, nj),
	}
	for _, e := range P.ftree.edges {
		if e.Kind == Jump {
			adj[e.Start] = append(adj[e.Start], nb{e.Stop, Jump, e.JumpID})
			adj[e.Stop] = append(adj[e.Stop], nb{e.Start, Jump, e.JumpID})
			continue
		}
		step := 1
		if e.Stop < e.Start {
			step = -1
		}
		for j := e.Start; j != e.Stop; j += step {
			adj[j] = append(adj[j], nb{j + step, Peptide, -1})
			adj[j+step] = append(adj[j+step], nb{j, Peptide, -1})
		}
	}
	visited := make([]bool, n)
	root := P.ftree.root
	k.parent[root] = -1
	k.plink[root] = linkRoot
	stack := []int{root}
	visited[root] = true
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		k.preorder = append(k.preorder, i)
		for l := len(adj[i]) - 1; l >= 0; l-- {
			v := adj[i][l]
			if visited[v.res] {
				continue
			}
			visited[v.res] = true
			k.parent[v.res] = i
			k.children[i] = append(k.children[i], v.res)
			switch {
			case v.kind == Jump:
				k.plink[v.res] = linkJump
				k.jumpUp[v.jump] = i
				k.jumpDown[v.jump] = v.res
			case v.res == i+1:
				k.plink[v.res] = linkFwd
			default:
				k.plink[v.res] = linkBwd
			}
			stack = append(stack, v.res)
		}
	}
	P.kin = k
	return k
}

//peptideLinked returns true if residues i and i+1 are connected
//by a peptide edge of the tree.
func (k *kinematics) peptideLinked(i, j int) bool {
	return (k.parent[j] == i && k.plink[j] == linkFwd) || (k.parent[i] == j && k.plink[i] == linkBwd)
}

//Preorder returns the residues in the order in which a depth-first traversal
//of the fold tree from the root visits them.
func (P *Pose) Preorder() []int {
	k := P.kinem()
	ret := make([]int, len(k.preorder))
	copy(ret, k.preorder)
	return ret
}

//Parent returns the residue upstream of residue i in the fold tree, or -1 for the root.
func (P *Pose) Parent(i int) int {
	return P.kinem().parent[i]
}

func (P *Pose) subtreeResidues(r int) []int {
	k := P.kinem()
	ret := make([]int, 0, 8)
	stack := []int{r}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ret = append(ret, i)
		stack = append(stack, k.children[i]...)
	}
	return ret
}

func (P *Pose) subtreeAtoms(r int, dst []int) []int {
	for _, i := range P.subtreeResidues(r) {
		dst = append(dst, P.residues[i].Atoms()...)
	}
	return dst
}

func (P *Pose) residueAtoms(r int, dst []int, f func(*Atom) bool) []int {
	res := P.residues[r]
	for i := res.first; i < res.first+res.n; i++ {
		if f(P.atoms[i]) {
			dst = append(dst, i)
		}
	}
	return dst
}

func caGroup(a *Atom) bool { return !a.Backbone || a.Name == "CA" }

func named(names ...string) func(*Atom) bool {
	return func(a *Atom) bool {
		for _, n := range names {
			if a.Name == n {
				return true
			}
		}
		return false
	}
}

//TorsionKind identifies the kind of a torsion angle.
type TorsionKind int

const (
	Phi TorsionKind = iota
	Psi
	Omega
	Chi
)

func (K TorsionKind) String() string {
	return [...]string{"phi", "psi", "omega", "chi"}[K]
}

//TorsionID identifies a torsion of a pose. Chi is the number
//of the chi angle (starting from 1) and is only used for Chi torsions.
type TorsionID struct {
	Kind TorsionKind
	Res  int
	Chi  int
}

func (T TorsionID) String() string {
	if T.Kind == Chi {
		return fmt.Sprintf("chi%d:%d", T.Chi, T.Res)
	}
	return fmt.Sprintf("%s:%d", T.Kind, T.Res)
}

func (P *Pose) torsionAtoms(id TorsionID) ([4]int, bool) {
	var at [4]int
	i := id.Res
	if i < 0 || i >= len(P.residues) {
		return at, false
	}
	r := P.residues[i]
	get := func(res int, name string) int {
		return P.residues[res].AtomIndex(name)
	}
	switch id.Kind {
	case Phi:
		if !P.Bonded(i-1, i) {
			return at, false
		}
		at = [4]int{get(i-1, "C"), get(i, "N"), get(i, "CA"), get(i, "C")}
	case Psi:
		if !P.Bonded(i, i+1) {
			return at, false
		}
		at = [4]int{get(i, "N"), get(i, "CA"), get(i, "C"), get(i+1, "N")}
	case Omega:
		if !P.Bonded(i, i+1) {
			return at, false
		}
		at = [4]int{get(i, "CA"), get(i, "C"), get(i+1, "N"), get(i+1, "CA")}
	case Chi:
		if id.Chi < 1 || id.Chi > len(r.Type.Chis) {
			return at, false
		}
		for j, n := range r.Type.Chis[id.Chi-1].Atoms {
			at[j] = r.AtomIndex(n)
		}
	default:
		return at, false
	}
	for _, v := range at {
		if v < 0 {
			return at, false
		}
	}
	return at, true
}

//TorsionAtoms returns the indexes of the four atoms that define the torsion id,
//and false if the torsion does not exist.
func (P *Pose) TorsionAtoms(id TorsionID) ([4]int, bool) {
	return P.torsionAtoms(id)
}

//TorsionDefined returns true if the torsion exists and can be changed
//with the current fold tree (backbone torsions across a cut in the tree can't).
func (P *Pose) TorsionDefined(id TorsionID) bool {
	if _, ok := P.torsionAtoms(id); !ok {
		return false
	}
	k := P.kinem()
	i := id.Res
	switch id.Kind {
	case Phi:
		return k.peptideLinked(i-1, i)
	case Psi, Omega:
		return k.peptideLinked(i, i+1)
	}
	return true
}

//Torsion returns the value of the torsion, in degrees. It panics
//if the torsion is not defined for the residue.
func (P *Pose) Torsion(id TorsionID) float64 {
	at, ok := P.torsionAtoms(id)
	if !ok {
		panic(ErrNoTorsion)
	}
	return Rad2Deg(Dihedral(P.XYZ(at[0]), P.XYZ(at[1]), P.XYZ(at[2]), P.XYZ(at[3])))
}

//Phi returns the phi torsion of residue i, in degrees, or 0 if it is not defined.
func (P *Pose) Phi(i int) float64 { return P.torsionOrZero(TorsionID{Kind: Phi, Res: i}) }

//Psi returns the psi torsion of residue i, in degrees, or 0 if it is not defined.
func (P *Pose) Psi(i int) float64 { return P.torsionOrZero(TorsionID{Kind: Psi, Res: i}) }

//Omega returns the omega torsion of residue i, in degrees, or 0 if it is not defined.
func (P *Pose) Omega(i int) float64 { return P.torsionOrZero(TorsionID{Kind: Omega, Res: i}) }

//Chi returns the chi-th chi torsion of residue i, in degrees, or 0 if it is not defined.
func (P *Pose) Chi(chi, i int) float64 {
	return P.torsionOrZero(TorsionID{Kind: Chi, Res: i, Chi: chi})
}

func (P *Pose) torsionOrZero(id TorsionID) float64 {
	if _, ok := P.torsionAtoms(id); !ok {
		return 0
	}
	return P.Torsion(id)
}

//SetPhi sets the phi torsion of residue i to v degrees.
func (P *Pose) SetPhi(i int, v float64) error { return P.SetTorsion(TorsionID{Kind: Phi, Res: i}, v) }

//SetPsi sets the psi torsion of residue i to v degrees.
func (P *Pose) SetPsi(i int, v float64) error { return P.SetTorsion(TorsionID{Kind: Psi, Res: i}, v) }

//SetOmega sets the omega torsion of residue i to v degrees.
func (P *Pose) SetOmega(i int, v float64) error {
	return P.SetTorsion(TorsionID{Kind: Omega, Res: i}, v)
}

//SetChi sets the chi-th chi torsion of residue i to v degrees.
func (P *Pose) SetChi(chi, i int, v float64) error {
	return P.SetTorsion(TorsionID{Kind: Chi, Res: i, Chi: chi}, v)
}

//TorsionFrame contains what is needed to change a torsion: the rotation axis,
//given by the unit vector U and the point Point, and the atoms that move. Rotating the
//moving atoms by an angle a around the axis changes the torsion by Sign*a.
type TorsionFrame struct {
	U      r3.Vec
	Point  r3.Vec
	Sign   float64
	Moving []int
}

//TorsionFrame returns the TorsionFrame for the torsion id.
func (P *Pose) TorsionFrame(id TorsionID) (*TorsionFrame, error) {
	if !P.TorsionDefined(id) {
		return nil, Errorf("TorsionFrame", "Torsion %s not defined", id)
	}
	at, _ := P.torsionAtoms(id)
	moving, sign := P.movingSet(id)
	b, c := P.XYZ(at[1]), P.XYZ(at[2])
	return &TorsionFrame{U: r3.Unit(r3.Sub(c, b)), Point: b, Sign: sign, Moving: moving}, nil
}

//MovingAtoms returns the atoms that move when the torsion id changes.
func (P *Pose) MovingAtoms(id TorsionID) []int {
	if !P.TorsionDefined(id) {
		return nil
	}
	m, _ := P.movingSet(id)
	return m
}

//movingSet assumes that id is defined.
func (P *Pose) movingSet(id TorsionID) ([]int, float64) {
	k := P.kinem()
	i := id.Res
	m := make([]int, 0, 32)
	jumpKids := func(m []int) []int {
		for _, c := range k.children[i] {
			if k.plink[c] == linkJump {
				m = P.subtreeAtoms(c, m)
			}
		}
		return m
	}
	switch id.Kind {
	case Phi:
		if k.plink[i] == linkFwd {
			m = P.residueAtoms(i, m, caGroup)
			m = P.residueAtoms(i, m, named("C", "O"))
			for _, c := range k.children[i] {
				m = P.subtreeAtoms(c, m)
			}
			return m, 1
		}
		m = P.residueAtoms(i, m, named("H"))
		return P.subtreeAtoms(i-1, m), -1
	case Psi:
		if k.plink[i] == linkBwd {
			m = P.residueAtoms(i, m, caGroup)
			m = P.residueAtoms(i, m, named("N", "H"))
			m = jumpKids(m)
			if i > 0 && k.parent[i-1] == i && k.plink[i-1] == linkBwd {
				m = P.subtreeAtoms(i-1, m)
			}
			return m, -1
		}
		m = P.residueAtoms(i, m, named("O"))
		return P.subtreeAtoms(i+1, m), 1
	case Omega:
		if k.parent[i+1] == i && k.plink[i+1] == linkFwd {
			return P.subtreeAtoms(i+1, m), 1
		}
		m = P.residueAtoms(i, m, func(a *Atom) bool { return a.Name != "C" })
		for _, c := range k.children[i] {
			m = P.subtreeAtoms(c, m)
		}
		return m, -1
	}
	//chi
	m = P.residueAtoms(i, m, func(a *Atom) bool { return a.level >= id.Chi })
	return m, 1
}

//SetTorsion sets the value of the torsion id to v degrees, moving the atoms
//downstream of the torsion axis.
func (P *Pose) SetTorsion(id TorsionID, v float64) error {
	f, err := P.TorsionFrame(id)
	if err != nil {
		return ErrDecorate(err, "SetTorsion")
	}
	delta := WrapDeg(v - P.Torsion(id))
	P.rotate(f, f.Sign*Deg2Rad(delta))
	return nil
}

//RotateTorsion changes the torsion id by delta degrees.
func (P *Pose) RotateTorsion(id TorsionID, delta float64) error {
	f, err := P.TorsionFrame(id)
	if err != nil {
		return ErrDecorate(err, "RotateTorsion")
	}
	P.rotate(f, f.Sign*Deg2Rad(delta))
	return nil
}

func (P *Pose) rotate(f *TorsionFrame, angle float64) {
	if angle == 0 {
		return
	}
	R := RotationMatrix(f.U, angle)
	P.TransformAtoms(f.Moving, R, f.Point, r3.Vec{})
}

//Jumps

//RT is a rigid body transformation. In a jump, it gives the rotation
//and translation of the downstream stub in the frame of the upstream stub.
type RT struct {
	R *mat.Dense
	T r3.Vec
}

//NJumps returns the number of jumps in the fold tree of the pose.
func (P *Pose) NJumps() int {
	return len(P.kinem().jumpUp)
}

//JumpResidues returns the upstream and downstream residues of the jump.
func (P *Pose) JumpResidues(id int) (int, int) {
	k := P.kinem()
	if id < 0 || id >= len(k.jumpUp) {
		panic(ErrJumpOutRange)
	}
	return k.jumpUp[id], k.jumpDown[id]
}

//JumpMoving returns the atoms that move when jump id is changed.
func (P *Pose) JumpMoving(id int) []int {
	_, down := P.JumpResidues(id)
	return P.subtreeAtoms(down, make([]int, 0, 64))
}

//JumpPartner returns the residues that move when jump id is changed.
func (P *Pose) JumpPartner(id int) []int {
	_, down := P.JumpResidues(id)
	return P.subtreeResidues(down)
}

//Stub returns the local frame of residue r: a rotation matrix whose columns are the
//axes of the frame and the origin of the frame. For polymer residues the origin is the CA, the
//x axis points to the N atom and the z axis is normal to the N-CA-C plane. For other
//residues the frame is the lab frame centered on the first atom.
func (P *Pose) Stub(r int) (*mat.Dense, r3.Vec) {
	res := P.Residue(r)
	n, ca, c := res.AtomIndex("N"), res.AtomIndex("CA"), res.AtomIndex("C")
	if !res.Type.Polymer || n < 0 || ca < 0 || c < 0 {
		return Eye3(), P.XYZ(res.first)
	}
	o := P.XYZ(ca)
	x := r3.Unit(r3.Sub(P.XYZ(n), o))
	z := r3.Unit(r3.Cross(x, r3.Sub(P.XYZ(c), o)))
	y := r3.Cross(z, x)
	R := mat.NewDense(3, 3, []float64{
		x.X, y.X, z.X,
		x.Y, y.Y, z.Y,
		x.Z, y.Z, z.Z,
	})
	return R, o
}

//Jump returns the current rigid body transformation of jump id.
func (P *Pose) Jump(id int) RT {
	up, down := P.JumpResidues(id)
	Ru, ou := P.Stub(up)
	Rd, od := P.Stub(down)
	R := mat.NewDense(3, 3, nil)
	R.Mul(Ru.T(), Rd)
	return RT{R: R, T: MulVec(Ru.T(), r3.Sub(od, ou))}
}

//SetJump moves the downstream partner of jump id rigidly so that the jump becomes rt.
func (P *Pose) SetJump(id int, rt RT) {
	up, down := P.JumpResidues(id)
	Ru, ou := P.Stub(up)
	Rd, od := P.Stub(down)
	Rt := mat.NewDense(3, 3, nil)
	Rt.Mul(Ru, rt.R)
	ot := r3.Add(ou, MulVec(Ru, rt.T))
	M := mat.NewDense(3, 3, nil)
	M.Mul(Rt, Rd.T())
	P.TransformAtoms(P.JumpMoving(id), M, od, r3.Sub(ot, od))
}

//TransformJump applies x' = center + R(x-center) + t, with R and t in the lab frame,
//to the downstream partner of jump id.
func (P *Pose) TransformJump(id int, R mat.Matrix, center, t r3.Vec) {
	P.TransformAtoms(P.JumpMoving(id), R, center, t)
}
