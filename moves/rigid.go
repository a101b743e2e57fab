/*
 * rigid.go, part of gopose.
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
	"math"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/montecarlo"
	"gonum.org/v1/gonum/spatial/r3"
)

//RigidBodyPerturb moves the downstream partner of a jump by a random rotation
//around its center and a random translation. Both the angle and the displacement are gaussian,
//with standard deviations RotMag (degrees) and TransMag (A).
type RigidBodyPerturb struct {
	Jump     int
	TransMag float64
	RotMag   float64
	rng      montecarlo.RNG
	status   Status
}

//NewRigidBodyPerturb returns a RigidBodyPerturb mover.
func NewRigidBodyPerturb(jump int, trans, rot float64, rng montecarlo.RNG) *RigidBodyPerturb {
	return &RigidBodyPerturb{Jump: jump, TransMag: trans, RotMag: rot, rng: rng}
}

func (R *RigidBodyPerturb) Name() string   { return "RigidBodyPerturb" }
func (R *RigidBodyPerturb) Status() Status { return R.status }
func (R *RigidBodyPerturb) Clone() Mover {
	return &RigidBodyPerturb{Jump: R.Jump, TransMag: R.TransMag, RotMag: R.RotMag, rng: R.rng}
}

func (R *RigidBodyPerturb) gaussVec() r3.Vec {
	return r3.Vec{X: R.rng.NormFloat64(), Y: R.rng.NormFloat64(), Z: R.rng.NormFloat64()}
}

func (R *RigidBodyPerturb) Apply(p *pose.Pose) error {
	if R.Jump < 0 || R.Jump >= p.NJumps() {
		R.status = FailBadInput
		return badInput(R.Name(), "jump %d out of range, the pose has %d jumps", R.Jump, p.NJumps())
	}
	if R.rng == nil {
		R.status = FailBadInput
		return badInput(R.Name(), "nil random number generator")
	}
	axis := R.gaussVec()
	for r3.Norm(axis) < 1e-6 {
		axis = R.gaussVec()
	}
	angle := R.rng.NormFloat64() * R.RotMag * math.Pi / 180
	t := r3.Scale(R.TransMag, R.gaussVec())
	center := Centroid(p, p.JumpMoving(R.Jump))
	p.TransformJump(R.Jump, pose.RotationMatrix(r3.Unit(axis), angle), center, t)
	R.status = Success
	return nil
}

//Centroid returns the geometric center of the given atoms of p.
func Centroid(p *pose.Pose, atoms []int) r3.Vec {
	var c r3.Vec
	for _, a := range atoms {
		c = r3.Add(c, p.XYZ(a))
	}
	if len(atoms) == 0 {
		return c
	}
	return r3.Scale(1/float64(len(atoms)), c)
}

//SlideIntoContact moves the downstream partner of a jump along the line joining the centers of
//both partners, until they are in contact: the closest pair of heavy atoms is between Contact and Step+Contact A apart.
type SlideIntoContact struct {
	Jump     int
	Contact  float64
	Step     float64
	MaxSteps int
	status   Status
}

//NewSlideIntoContact returns a SlideIntoContact mover with a contact distance of 4 A and 0.5 A steps.
func NewSlideIntoContact(jump int) *SlideIntoContact {
	return &SlideIntoContact{Jump: jump, Contact: 4, Step: 0.5, MaxSteps: 400}
}

func (S *SlideIntoContact) Name() string   { return "SlideIntoContact" }
func (S *SlideIntoContact) Status() Status { return S.status }
func (S *SlideIntoContact) Clone() Mover   { r := *S; r.status = NotApplied; return &r }

func minHeavyDistance(p *pose.Pose, a, b []int) float64 {
	d := math.Inf(1)
	for _, i := range a {
		if !p.Atom(i).Heavy() {
			continue
		}
		for _, j := range b {
			if !p.Atom(j).Heavy() {
				continue
			}
			d = math.Min(d, r3.Norm(r3.Sub(p.XYZ(i), p.XYZ(j))))
		}
	}
	return d
}

func (S *SlideIntoContact) Apply(p *pose.Pose) error {
	if S.Jump < 0 || S.Jump >= p.NJumps() {
		S.status = FailBadInput
		return badInput(S.Name(), "jump %d out of range, the pose has %d jumps", S.Jump, p.NJumps())
	}
	moving := p.JumpMoving(S.Jump)
	in := make(map[int]bool, len(moving))
	for _, a := range moving {
		in[a] = true
	}
	fixed := make([]int, 0, p.Len()-len(moving))
	for i := 0; i < p.Len(); i++ {
		if !in[i] {
			fixed = append(fixed, i)
		}
	}
	dir := r3.Sub(Centroid(p, fixed), Centroid(p, moving))
	if r3.Norm(dir) < 1e-6 {
		S.status = FailDoNotRetry
		return nil
	}
	dir = r3.Unit(dir)
	eye := pose.Eye3()
	S.status = FailRetry
	for i := 0; i < S.MaxSteps; i++ {
		d := minHeavyDistance(p, fixed, moving)
		var step float64
		switch {
		case d < S.Contact:
			step = -S.Step
		case d > S.Contact+S.Step:
			step = S.Step
		default:
			S.status = Success
			return nil
		}
		p.TransformJump(S.Jump, eye, r3.Vec{}, r3.Scale(step, dir))
	}
	return nil
}
