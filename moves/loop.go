/*
 * loop.go, part of gopose.
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
	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/montecarlo"
	"github.com/rmera/gopose/scoring"
)

//LoopRefine refines the backbone of a stretch of residues, First to Last (inclusive), with a
//short Monte Carlo plus minimization simulation of small and shear moves.
type LoopRefine struct {
	First, Last int
	Sf          *scoring.ScoreFunction
	Cycles      int
	AngleMax    float64
	Temperature float64
	MinMethod   string
	MinTol      float64
	rng         montecarlo.RNG
	status      Status
}

//NewLoopRefine returns a LoopRefine mover with 10 cycles of 30 degree moves.
func NewLoopRefine(first, last int, sf *scoring.ScoreFunction, rng montecarlo.RNG) *LoopRefine {
	return &LoopRefine{First: first, Last: last, Sf: sf, Cycles: 10, AngleMax: 30, Temperature: DefaultTemperature,
		MinMethod: "lbfgs_armijo_atol", MinTol: 0.1, rng: rng}
}

func (L *LoopRefine) Name() string   { return "LoopRefine" }
func (L *LoopRefine) Status() Status { return L.status }
func (L *LoopRefine) Clone() Mover   { r := *L; r.status = NotApplied; return &r }

func (L *LoopRefine) Apply(p *pose.Pose) error {
	if L.First < 0 || L.Last >= p.NResidues() || L.First > L.Last {
		L.status = FailBadInput
		return badInput(L.Name(), "loop %d-%d out of range for a pose with %d residues", L.First, L.Last, p.NResidues())
	}
	if L.Sf == nil || L.rng == nil {
		L.status = FailBadInput
		return badInput(L.Name(), "nil score function or random number generator")
	}
	mm := pose.NewMoveMap(p)
	mm.SetBBRange(L.First, L.Last, true)
	minm, err := NewMinMover(mm, L.Sf, L.MinMethod, L.MinTol, true)
	if err != nil {
		L.status = FailBadInput
		return pose.ErrDecorate(err, "LoopRefine.Apply")
	}
	small, shear := NewSmall(mm, L.rng), NewShear(mm, L.rng)
	for _, b := range []*backbone{&small.backbone, &shear.backbone} {
		b.AngleMax = L.AngleMax
		b.NMoves = L.Last - L.First + 1
		b.Temperature = L.Temperature
	}
	mc, err := montecarlo.New(p, L.Sf, L.Temperature, L.rng)
	if err != nil {
		L.status = FailDoNotRetry
		return pose.ErrDecorate(err, "LoopRefine.Apply")
	}
	for i := 0; i < L.Cycles; i++ {
		var m Mover = small
		if i%2 == 1 {
			m = shear
		}
		if err := NewSequence(m, minm).Apply(p); err != nil {
			L.status = FailDoNotRetry
			return pose.ErrDecorate(err, "LoopRefine.Apply")
		}
		ok, err := mc.Boltzmann(p)
		if err != nil {
			L.status = FailDoNotRetry
			return pose.ErrDecorate(err, "LoopRefine.Apply")
		}
		if !ok {
			mc.RestoreLastAccepted(p)
		}
	}
	mc.RecoverLow(p)
	L.status = Success
	return nil
}
