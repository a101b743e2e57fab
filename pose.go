/*
 * pose.go, part of gopose.
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
	"sync/atomic"

	v3 "github.com/rmera/gopose/v3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//topology versions are unique across all poses, so a scoring cache
//can detect that it is being used with a pose of a different topology.
var topoCounter atomic.Uint64

func newVersion() uint64 {
	return topoCounter.Add(1)
}

//Pose is a macromolecular conformation: an ordered list of residues, the
//cartesian coordinates of their atoms and a fold tree that defines how
//changes in the internal degrees of freedom propagate.
type Pose struct {
	atoms    []*Atom
	residues []*Residue
	coords   *v3.Matrix
	ftree    *FoldTree
	kin      *kinematics
	version  uint64
}

//NewPose returns an empty pose.
func NewPose() *Pose {
	return &Pose{version: newVersion()}
}

//Len returns the number of atoms in the pose.
func (P *Pose) Len() int {
	if P == nil {
		panic(ErrNilPose)
	}
	return len(P.atoms)
}

//NResidues returns the number of residues in the pose.
func (P *Pose) NResidues() int {
	return len(P.residues)
}

//Atom returns the ith atom of the pose.
func (P *Pose) Atom(i int) *Atom {
	if i < 0 || i >= len(P.atoms) {
		panic(ErrAtomOutRange)
	}
	return P.atoms[i]
}

//Residue returns the ith residue of the pose.
func (P *Pose) Residue(i int) *Residue {
	if i < 0 || i >= len(P.residues) {
		panic(ErrResOutRange)
	}
	return P.residues[i]
}

//Coords returns the coordinates of the pose. The returned matrix is not a copy.
//Changing it is allowed, but torsion values and jumps will follow.
func (P *Pose) Coords() *v3.Matrix {
	return P.coords
}

//XYZ returns the position of the ith atom.
func (P *Pose) XYZ(i int) r3.Vec {
	return P.coords.Vec(i)
}

//SetXYZ sets the position of the ith atom.
func (P *Pose) SetXYZ(i int, v r3.Vec) {
	P.coords.SetVec(i, v)
}

//TopologyVersion returns a number that changes every time the residue
//composition or the fold tree of the pose change. Copies of a pose share it.
func (P *Pose) TopologyVersion() uint64 {
	return P.version
}

func (P *Pose) topologyChanged() {
	P.version = newVersion()
	P.kin = nil
}

//AppendResidue adds a residue of type t at the end of the pose, with the
//given coordinates (one vector per atom of the type). The fold tree is
//reset to the default one.
func (P *Pose) AppendResidue(t *ResidueType, chain string, seq int, xyz *v3.Matrix) error {
	if t == nil {
		return Errorf("AppendResidue", "Nil residue type")
	}
	if xyz.NVecs() != len(t.Atoms) {
		return Errorf("AppendResidue", "Residue %s needs %d coordinates, got %d", t.Name, len(t.Atoms), xyz.NVecs())
	}
	r := &Residue{Type: t, Chain: chain, Seq: seq, first: len(P.atoms), n: len(t.Atoms)}
	ri := len(P.residues)
	for i, d := range t.Atoms {
		a := &Atom{Name: d.Name, Symbol: d.Symbol, ID: len(P.atoms), Residue: ri, Radius: d.Radius, Well: d.Well,
			Charge: d.Charge, level: d.Level}
		a.Backbone = t.Polymer && i < 5 && d.Ref[2] == ""
		P.atoms = append(P.atoms, a)
	}
	P.residues = append(P.residues, r)
	nc := v3.Zeros(len(P.atoms))
	if P.coords != nil {
		for i := 0; i < P.coords.NVecs(); i++ {
			nc.SetVec(i, P.coords.Vec(i))
		}
	}
	for i := 0; i < xyz.NVecs(); i++ {
		nc.SetVec(r.first+i, xyz.Vec(i))
	}
	P.coords = nc
	P.ftree = DefaultFoldTree(P)
	P.topologyChanged()
	return nil
}

//Copy returns a deep copy of the pose. Atoms and residues are immutable
//once the pose has been built, so they are shared, but residues appended
//later to the copy or to the original belong only to that pose.
func (P *Pose) Copy() *Pose {
	r := &Pose{}
	r.Assign(P)
	return r
}

//Assign makes the receiver a copy of src.
func (P *Pose) Assign(src *Pose) {
	if src == nil {
		panic(ErrNilPose)
	}
	if P == src {
		return
	}
	//capacity is cut so appending to either pose never writes into the other.
	na, nr := len(src.atoms), len(src.residues)
	P.atoms = src.atoms[:na:na]
	P.residues = src.residues[:nr:nr]
	if P.coords != nil && src.coords != nil && P.coords.NVecs() == src.coords.NVecs() {
		P.coords.CopyFrom(src.coords)
	} else {
		P.coords = src.coords.Copy()
	}
	P.ftree = src.ftree.Copy()
	P.kin = src.kin
	P.version = src.version
}

//AssignCoords copies the coordinates of src, which must have the
//same topology, into the receiver.
func (P *Pose) AssignCoords(src *Pose) {
	P.coords.CopyFrom(src.coords)
}

//Chains returns the chain IDs of the pose in order of appearance.
func (P *Pose) Chains() []string {
	ret := make([]string, 0, 2)
	for _, r := range P.residues {
		if len(ret) == 0 || ret[len(ret)-1] != r.Chain {
			ret = append(ret, r.Chain)
		}
	}
	return ret
}

//ChainResidues returns the indexes of the residues in the given chain.
func (P *Pose) ChainResidues(chain string) []int {
	ret := make([]int, 0, len(P.residues))
	for i, r := range P.residues {
		if r.Chain == chain {
			ret = append(ret, i)
		}
	}
	return ret
}

//Sequence returns the one-letter sequence of the pose.
func (P *Pose) Sequence() string {
	s := make([]byte, len(P.residues))
	for i, r := range P.residues {
		s[i] = r.Type.Letter
	}
	return string(s)
}

//Bonded returns true if residues i and j (j=i+1) are consecutive polymer
//residues in the same chain.
func (P *Pose) Bonded(i, j int) bool {
	if j != i+1 || i < 0 || j >= len(P.residues) {
		return false
	}
	ri, rj := P.residues[i], P.residues[j]
	return ri.Chain == rj.Chain && ri.Type.Polymer && rj.Type.Polymer
}

//FoldTree returns a copy of the fold tree of the pose.
func (P *Pose) FoldTree() *FoldTree {
	return P.ftree.Copy()
}

//SetFoldTree validates and sets a new fold tree for the pose.
func (P *Pose) SetFoldTree(ft *FoldTree) error {
	if err := ft.Validate(P.NResidues()); err != nil {
		return ErrDecorate(err, "SetFoldTree")
	}
	P.ftree = ft.Copy()
	P.topologyChanged()
	return nil
}

//TransformAtoms applies x' = center + R(x-center) + t to the given atoms.
func (P *Pose) TransformAtoms(atoms []int, R mat.Matrix, center, t r3.Vec) {
	for _, i := range atoms {
		x := r3.Sub(P.coords.Vec(i), center)
		P.coords.SetVec(i, r3.Add(r3.Add(center, t), MulVec(R, x)))
	}
}
