/*
 * movemap.go, part of gopose.
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

import "fmt"

//DOFKind is the kind of a degree of freedom.
type DOFKind int

const (
	TorsionDOF DOFKind = iota
	JumpTransDOF
	JumpRotDOF
)

//DOF is a degree of freedom of a pose. For jump DOFs, Axis (0, 1 or 2) selects the translation or
//rotation axis in the frame of the upstream stub.
type DOF struct {
	Kind    DOFKind
	Torsion TorsionID
	Jump    int
	Axis    int
}

func (D DOF) String() string {
	switch D.Kind {
	case JumpTransDOF:
		return fmt.Sprintf("jump%d:trans%d", D.Jump, D.Axis)
	case JumpRotDOF:
		return fmt.Sprintf("jump%d:rot%d", D.Jump, D.Axis)
	}
	return D.Torsion.String()
}

//MoveMap marks which backbone torsions, side chain torsions and jumps of a pose can change.
type MoveMap struct {
	bb   []bool
	chi  []bool
	jump []bool
}

//NewMoveMap returns a MoveMap for P with every degree of freedom fixed.
func NewMoveMap(P *Pose) *MoveMap {
	return &MoveMap{bb: make([]bool, P.NResidues()), chi: make([]bool, P.NResidues()), jump: make([]bool, P.NJumps())}
}

//Copy returns a copy of the MoveMap.
func (M *MoveMap) Copy() *MoveMap {
	r := &MoveMap{bb: make([]bool, len(M.bb)), chi: make([]bool, len(M.chi)), jump: make([]bool, len(M.jump))}
	copy(r.bb, M.bb)
	copy(r.chi, M.chi)
	copy(r.jump, M.jump)
	return r
}

//NResidues returns the number of residues the MoveMap was built for.
func (M *MoveMap) NResidues() int { return len(M.bb) }

//SetBB sets whether the backbone torsions of residue i can move.
func (M *MoveMap) SetBB(i int, v bool) { M.bb[i] = v }

//SetChi sets whether the side chain torsions of residue i can move.
func (M *MoveMap) SetChi(i int, v bool) { M.chi[i] = v }

//SetJump sets whether jump id can move.
func (M *MoveMap) SetJump(id int, v bool) { M.jump[id] = v }

//SetBBRange sets the backbone flag for all residues in [first, last].
func (M *MoveMap) SetBBRange(first, last int, v bool) {
	for i := first; i <= last; i++ {
		M.bb[i] = v
	}
}

//SetChiRange sets the side chain flag for all residues in [first, last].
func (M *MoveMap) SetChiRange(first, last int, v bool) {
	for i := first; i <= last; i++ {
		M.chi[i] = v
	}
}

//SetAllBB sets the backbone flag of every residue.
func (M *MoveMap) SetAllBB(v bool) { M.SetBBRange(0, len(M.bb)-1, v) }

//SetAllChi sets the side chain flag of every residue.
func (M *MoveMap) SetAllChi(v bool) { M.SetChiRange(0, len(M.chi)-1, v) }

//SetAllJumps sets all jump flags.
func (M *MoveMap) SetAllJumps(v bool) {
	for i := range M.jump {
		M.jump[i] = v
	}
}

//BB returns true if the backbone of residue i can move.
func (M *MoveMap) BB(i int) bool { return i >= 0 && i < len(M.bb) && M.bb[i] }

//Chi returns true if the side chain of residue i can move.
func (M *MoveMap) Chi(i int) bool { return i >= 0 && i < len(M.chi) && M.chi[i] }

//Jump returns true if jump id can move.
func (M *MoveMap) Jump(id int) bool { return id >= 0 && id < len(M.jump) && M.jump[id] }

//BBResidues returns the residues with a movable backbone.
func (M *MoveMap) BBResidues() []int {
	ret := make([]int, 0, len(M.bb))
	for i, v := range M.bb {
		if v {
			ret = append(ret, i)
		}
	}
	return ret
}

//DOFs returns the degrees of freedom of P enabled in the MoveMap, that can be changed with the
//current fold tree. Backbone DOFs are phi and psi. Jumps contribute 3 translational and 3 rotational DOFs.
func (M *MoveMap) DOFs(P *Pose) ([]DOF, error) {
	if len(M.bb) != P.NResidues() || len(M.jump) != P.NJumps() {
		return nil, Errorf("DOFs", "MoveMap for %d residues and %d jumps used with a pose with %d residues and %d jumps",
			len(M.bb), len(M.jump), P.NResidues(), P.NJumps())
	}
	ret := make([]DOF, 0, 2*len(M.bb))
	for i := range M.bb {
		if M.bb[i] {
			for _, k := range []TorsionKind{Phi, Psi} {
				id := TorsionID{Kind: k, Res: i}
				if P.TorsionDefined(id) {
					ret = append(ret, DOF{Kind: TorsionDOF, Torsion: id})
				}
			}
		}
		if M.chi[i] {
			for c := 1; c <= P.Residue(i).Type.NChi(); c++ {
				ret = append(ret, DOF{Kind: TorsionDOF, Torsion: TorsionID{Kind: Chi, Res: i, Chi: c}})
			}
		}
	}
	for j, v := range M.jump {
		if !v {
			continue
		}
		for a := 0; a < 3; a++ {
			ret = append(ret, DOF{Kind: JumpTransDOF, Jump: j, Axis: a})
		}
		for a := 0; a < 3; a++ {
			ret = append(ret, DOF{Kind: JumpRotDOF, Jump: j, Axis: a})
		}
	}
	return ret, nil
}
