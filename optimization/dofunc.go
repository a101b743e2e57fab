/*
 * dofunc.go, part of gopose.
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
	"math"
	"sort"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/scoring"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const deg = math.Pi / 180

//DOFFunc is the score of a pose as a function of the degrees of freedom enabled
//in a MoveMap. Torsions are absolute values in degrees, jumps are offsets from the starting
//rigid body position, in A for translations and degrees for rotations, both expressed in
//the frame of the upstream stub.
type DOFFunc struct {
	p     *pose.Pose
	base  *pose.Pose
	sf    *scoring.ScoreFunction
	c     *scoring.Cache
	dofs  []pose.DOF
	order []int //indexes of dofs, in application order.
	x0    []float64
	last  []float64
	err   error
}

//NewDOFFunc returns a DOFFunc for p. The cache is set up for derivatives. p is changed every time
//the function or its gradient are evaluated.
func NewDOFFunc(p *pose.Pose, mm *pose.MoveMap, sf *scoring.ScoreFunction, c *scoring.Cache) (*DOFFunc, error) {
	dofs, err := mm.DOFs(p)
	if err != nil {
		return nil, pose.ErrDecorate(err, "NewDOFFunc")
	}
	F := &DOFFunc{p: p, base: p.Copy(), sf: sf, c: c, dofs: dofs, x0: make([]float64, len(dofs))}
	for i, d := range dofs {
		if d.Kind == pose.TorsionDOF {
			F.x0[i] = p.Torsion(d.Torsion)
		}
	}
	//leaves first: applying a DOF never moves a DOF that was applied before it, except
	//rigidly, together with everything downstream of it.
	rank := make([]int, p.NResidues())
	for i, r := range p.Preorder() {
		rank[r] = i
	}
	owner := func(d pose.DOF) int {
		if d.Kind == pose.TorsionDOF {
			return d.Torsion.Res
		}
		_, down := p.JumpResidues(d.Jump)
		return down
	}
	F.order = make([]int, len(dofs))
	for i := range F.order {
		F.order[i] = i
	}
	sort.SliceStable(F.order, func(i, j int) bool {
		return rank[owner(dofs[F.order[i]])] > rank[owner(dofs[F.order[j]])]
	})
	if err := sf.SetupForDerivatives(p, c); err != nil {
		return nil, pose.ErrDecorate(err, "NewDOFFunc")
	}
	return F, nil
}

//DOFs returns the degrees of freedom, in the order of the variables.
func (F *DOFFunc) DOFs() []pose.DOF { return F.dofs }

//X0 returns a copy of the starting point.
func (F *DOFFunc) X0() []float64 {
	r := make([]float64, len(F.x0))
	copy(r, F.x0)
	return r
}

//Err returns the first error found while evaluating the function, if any.
func (F *DOFFunc) Err() error { return F.err }

func axisVec(i int) r3.Vec {
	return [3]r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}[i]
}

//jumpRotation returns Rx(a0)Ry(a1)Rz(a2) for angles in degrees, plus the partial
//products Rx(a0) and Rx(a0)Ry(a1).
func jumpRotation(a [3]float64) (*mat.Dense, *mat.Dense, *mat.Dense) {
	rx := pose.RotationMatrix(axisVec(0), a[0]*deg)
	rxy := mat.NewDense(3, 3, nil)
	rxy.Mul(rx, pose.RotationMatrix(axisVec(1), a[1]*deg))
	rxyz := mat.NewDense(3, 3, nil)
	rxyz.Mul(rxy, pose.RotationMatrix(axisVec(2), a[2]*deg))
	return rxyz, rx, rxy
}

//jumpParams collects the six variables of each jump.
func (F *DOFFunc) jumpParams(x []float64) map[int]*[6]float64 {
	ret := make(map[int]*[6]float64)
	for i, d := range F.dofs {
		if d.Kind == pose.TorsionDOF {
			continue
		}
		v, ok := ret[d.Jump]
		if !ok {
			v = &[6]float64{}
			ret[d.Jump] = v
		}
		if d.Kind == pose.JumpTransDOF {
			v[d.Axis] = x[i]
		} else {
			v[3+d.Axis] = x[i]
		}
	}
	return ret
}

//Apply sets the pose to the conformation given by x.
func (F *DOFFunc) Apply(x []float64) {
	if F.last != nil && floats.Equal(F.last, x) {
		return
	}
	F.p.AssignCoords(F.base)
	jp := F.jumpParams(x)
	done := make(map[int]bool, len(jp))
	for _, i := range F.order {
		d := F.dofs[i]
		if d.Kind == pose.TorsionDOF {
			if err := F.p.SetTorsion(d.Torsion, x[i]); err != nil && F.err == nil {
				F.err = err
			}
			continue
		}
		if done[d.Jump] {
			continue
		}
		done[d.Jump] = true
		v := jp[d.Jump]
		up, down := F.p.JumpResidues(d.Jump)
		Rup, _ := F.p.Stub(up)
		_, c := F.p.Stub(down)
		rxyz, _, _ := jumpRotation([3]float64{v[3], v[4], v[5]})
		rot := mat.NewDense(3, 3, nil)
		rot.Product(Rup, rxyz, Rup.T())
		t := pose.MulVec(Rup, r3.Vec{X: v[0], Y: v[1], Z: v[2]})
		F.p.TransformJump(d.Jump, rot, c, t)
	}
	if F.last == nil {
		F.last = make([]float64, len(x))
	}
	copy(F.last, x)
}

//Func returns the score at x.
func (F *DOFFunc) Func(x []float64) float64 {
	F.Apply(x)
	s, err := F.sf.Score(F.p, F.c)
	if err != nil {
		if F.err == nil {
			F.err = err
		}
		return math.Inf(1)
	}
	return s
}

//rotDeriv is the derivative of the energy with respect to a rotation, in radians, of
//the atoms with F1 and F2 sums f1, f2 around the unit axis u through the point p.
func rotDeriv(u, p, f1, f2 r3.Vec) float64 {
	return -(r3.Dot(u, f1) + r3.Dot(r3.Cross(u, p), f2))
}

//Grad puts the gradient of the score at x in grad.
func (F *DOFFunc) Grad(grad, x []float64) {
	F.Apply(x)
	err := F.sf.SetupForScoring(F.p, F.c)
	var d *scoring.Derivatives
	if err == nil {
		d, err = F.sf.EvalDerivatives(F.p, F.c)
	}
	if err != nil {
		if F.err == nil {
			F.err = err
		}
		for i := range grad {
			grad[i] = 0
		}
		return
	}
	jp := F.jumpParams(x)
	for i, dof := range F.dofs {
		switch dof.Kind {
		case pose.TorsionDOF:
			f, err := F.p.TorsionFrame(dof.Torsion)
			if err != nil {
				grad[i] = 0
				continue
			}
			f1, f2 := d.Sum(f.Moving)
			grad[i] = f.Sign * rotDeriv(f.U, f.Point, f1, f2) * deg
		case pose.JumpTransDOF:
			up, _ := F.p.JumpResidues(dof.Jump)
			Rup, _ := F.p.Stub(up)
			_, f2 := d.Sum(F.p.JumpMoving(dof.Jump))
			grad[i] = r3.Dot(pose.MulVec(Rup, axisVec(dof.Axis)), f2)
		case pose.JumpRotDOF:
			up, down := F.p.JumpResidues(dof.Jump)
			Rup, _ := F.p.Stub(up)
			_, pivot := F.p.Stub(down)
			v := jp[dof.Jump]
			_, rx, rxy := jumpRotation([3]float64{v[3], v[4], v[5]})
			local := axisVec(dof.Axis)
			switch dof.Axis {
			case 1:
				local = pose.MulVec(rx, local)
			case 2:
				local = pose.MulVec(rxy, local)
			}
			u := pose.MulVec(Rup, local)
			f1, f2 := d.Sum(F.p.JumpMoving(dof.Jump))
			grad[i] = rotDeriv(u, pivot, f1, f2) * deg
		}
	}
}
