/*
 * constraints.go, part of gopose.
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
	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/scoring"
	"gonum.org/v1/gonum/spatial/r3"
)

//CoordinateConstraint restrains atoms to reference positions with
//the harmonic energy ((|x-x0|)/SD)^2.
type CoordinateConstraint struct {
	scoring.Base
	Atoms []int
	Ref   []r3.Vec
	SD    float64
}

//NewCoordinateConstraint returns a CoordinateConstraint that restrains the given atoms
//of p to their current positions.
func NewCoordinateConstraint(p *pose.Pose, atoms []int, sd float64) *CoordinateConstraint {
	C := &CoordinateConstraint{Atoms: make([]int, len(atoms)), Ref: make([]r3.Vec, len(atoms)), SD: sd}
	copy(C.Atoms, atoms)
	for i, a := range atoms {
		C.Ref[i] = p.XYZ(a)
	}
	return C
}

func (C *CoordinateConstraint) Name() string               { return "coordinate_constraint" }
func (C *CoordinateConstraint) Category() scoring.Category { return scoring.WholeStructure }
func (C *CoordinateConstraint) ScoreTypes() []scoring.ScoreType {
	return []scoring.ScoreType{scoring.CoordinateConstraint}
}

func (C *CoordinateConstraint) Clone() scoring.Method {
	r := &CoordinateConstraint{Atoms: make([]int, len(C.Atoms)), Ref: make([]r3.Vec, len(C.Ref)), SD: C.SD}
	copy(r.Atoms, C.Atoms)
	copy(r.Ref, C.Ref)
	return r
}

func (C *CoordinateConstraint) SetupForScoring(p *pose.Pose, c *scoring.Cache) error {
	if len(C.Atoms) != len(C.Ref) || C.SD <= 0 {
		return pose.Errorf("CoordinateConstraint", "Inconsistent constraint: %d atoms, %d positions, sd %f", len(C.Atoms), len(C.Ref), C.SD)
	}
	for _, a := range C.Atoms {
		if a < 0 || a >= p.Len() {
			return pose.Errorf("CoordinateConstraint", "Atom %d out of range for a pose with %d atoms", a, p.Len())
		}
	}
	return nil
}

func (C *CoordinateConstraint) FinalizeTotalEnergy(p *pose.Pose, c *scoring.Cache, emap *scoring.EnergyMap) {
	s2 := C.SD * C.SD
	for i, a := range C.Atoms {
		d := r3.Sub(p.XYZ(a), C.Ref[i])
		emap.Add(scoring.CoordinateConstraint, r3.Dot(d, d)/s2)
	}
}

func (C *CoordinateConstraint) EvalAtomDerivatives(p *pose.Pose, c *scoring.Cache, w *scoring.EnergyMap, d *scoring.Derivatives) {
	f := 2 * w[scoring.CoordinateConstraint] / (C.SD * C.SD)
	for i, a := range C.Atoms {
		x := p.XYZ(a)
		d.AddGradient(a, x, r3.Scale(f, r3.Sub(x, C.Ref[i])))
	}
}

//AtomPair is a distance restraint between atoms A and B.
type AtomPair struct {
	A, B int
	D0   float64
	SD   float64
}

//AtomPairConstraint restrains the distance between pairs of atoms
//with the harmonic energy ((d-D0)/SD)^2.
type AtomPairConstraint struct {
	scoring.Base
	Pairs []AtomPair
}

func (A *AtomPairConstraint) Name() string               { return "atom_pair_constraint" }
func (A *AtomPairConstraint) Category() scoring.Category { return scoring.WholeStructure }
func (A *AtomPairConstraint) ScoreTypes() []scoring.ScoreType {
	return []scoring.ScoreType{scoring.AtomPairConstraint}
}

func (A *AtomPairConstraint) Clone() scoring.Method {
	r := &AtomPairConstraint{Pairs: make([]AtomPair, len(A.Pairs))}
	copy(r.Pairs, A.Pairs)
	return r
}

func (A *AtomPairConstraint) SetupForScoring(p *pose.Pose, c *scoring.Cache) error {
	for _, v := range A.Pairs {
		if v.A < 0 || v.B < 0 || v.A >= p.Len() || v.B >= p.Len() || v.A == v.B || v.SD <= 0 {
			return pose.Errorf("AtomPairConstraint", "Invalid constraint %v for a pose with %d atoms", v, p.Len())
		}
	}
	return nil
}

func (A *AtomPairConstraint) FinalizeTotalEnergy(p *pose.Pose, c *scoring.Cache, emap *scoring.EnergyMap) {
	for _, v := range A.Pairs {
		x := (r3.Norm(r3.Sub(p.XYZ(v.A), p.XYZ(v.B))) - v.D0) / v.SD
		emap.Add(scoring.AtomPairConstraint, x*x)
	}
}

func (A *AtomPairConstraint) EvalAtomDerivatives(p *pose.Pose, c *scoring.Cache, w *scoring.EnergyMap, d *scoring.Derivatives) {
	for _, v := range A.Pairs {
		xa, xb := p.XYZ(v.A), p.XYZ(v.B)
		r := r3.Norm(r3.Sub(xa, xb))
		if r == 0 {
			continue
		}
		dEdr := w[scoring.AtomPairConstraint] * 2 * (r - v.D0) / (v.SD * v.SD)
		d.AddPair(v.A, v.B, xa, xb, dEdr/r)
	}
}
