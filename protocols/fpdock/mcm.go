/*
 * mcm.go, part of gopose.
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

package fpdock

import (
	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/montecarlo"
	"github.com/rmera/gopose/moves"
	"github.com/rmera/gopose/scoring"
)

//Parameters of the MCM cycles.
const (
	Temperature  = 0.8
	RTEnergyCut  = 0.05 //energy cut of the rotamer trials between full repackings.
	MinThreshold = 15.0 //only structures within this of the lowest score are minimized.
	MinTolerance = 1.0
	MinMethod    = "lbfgs_armijo_atol"
	RepackEvery  = 8
	RbTransMag   = 0.2 //A
	RbRotMag     = 7.0 //degrees
)

//RampWeight returns the weight at stage i (1-based) of n, for a weight linearly ramped
//from initial to final. With a single stage the final weight is returned.
func RampWeight(initial, final float64, n, i int) float64 {
	if n <= 1 {
		return final
	}
	step := (final - initial) / float64(n-1)
	return initial + step*float64(i-1)
}

//MCMCycle is a Monte Carlo plus minimization simulation. In each of its Cycles the
//perturbation mover Movers[i%len(Movers)] is applied, then the side chains are
//repacked with Packer (every RepackEvery cycles and at the last one) or changed with
//energy-cut rotamer trials over RTResidues (the whole pose if nil). Structures within
//Threshold of the lowest score are minimized. Finally the Metropolis criterion is
//applied, the working pose being restored if it fails.
type MCMCycle struct {
	Cycles     int
	Movers     []moves.Mover
	Sf         *scoring.ScoreFunction
	Packer     moves.Mover //can be nil.
	Minimizer  moves.Mover //can be nil.
	Threshold  float64
	EnergyCut  float64
	RTResidues []int
	rng        montecarlo.RNG
	accepted   int
}

//NewMCMCycle returns an MCM simulation of the given cycles with the default parameters.
func NewMCMCycle(cycles int, sf *scoring.ScoreFunction, rng montecarlo.RNG, perturb ...moves.Mover) *MCMCycle {
	return &MCMCycle{Cycles: cycles, Movers: perturb, Sf: sf, Threshold: MinThreshold, EnergyCut: RTEnergyCut, rng: rng}
}

//Accepted returns the number of trials accepted in the last run.
func (M *MCMCycle) Accepted() int { return M.accepted }

//Run runs the simulation on p using the controller mc, which must have been
//set up (or reset) with p. At the end p is set to the lowest scoring pose found by mc.
func (M *MCMCycle) Run(p *pose.Pose, mc *montecarlo.MonteCarlo) error {
	if len(M.Movers) == 0 || M.Sf == nil || mc == nil {
		return pose.Errorf("MCMCycle.Run", "MCM simulation needs perturbation movers, a score function and a Monte Carlo controller")
	}
	M.accepted = 0
	rt := moves.NewEnergyCutRotamerTrials(M.Sf, mc, M.RTResidues, M.rng)
	rt.EnergyCut = M.EnergyCut
	c := scoring.NewCache()
	for i := 1; i <= M.Cycles; i++ {
		if err := M.Movers[i%len(M.Movers)].Apply(p); err != nil {
			return pose.ErrDecorate(err, "MCMCycle.Run")
		}
		var packer moves.Mover = rt
		if i%RepackEvery == 0 || i == M.Cycles {
			packer = M.Packer
		}
		if packer != nil {
			if err := packer.Apply(p); err != nil {
				return pose.ErrDecorate(err, "MCMCycle.Run")
			}
		}
		if M.Minimizer != nil {
			current, err := M.Sf.Score(p, c)
			if err != nil {
				return pose.ErrDecorate(err, "MCMCycle.Run")
			}
			if current-mc.LowestScore() < M.Threshold {
				if err := M.Minimizer.Apply(p); err != nil {
					return pose.ErrDecorate(err, "MCMCycle.Run")
				}
			}
		}
		accepted, err := mc.Boltzmann(p)
		if err != nil {
			return pose.ErrDecorate(err, "MCMCycle.Run")
		}
		if accepted {
			M.accepted++
		} else {
			mc.RestoreLastAccepted(p)
		}
	}
	mc.RecoverLow(p)
	return nil
}
