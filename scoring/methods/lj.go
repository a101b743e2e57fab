/*
 * lj.go, part of gopose.
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
	"math"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/scoring"
)

//LJ is a Lennard-Jones potential split, at the energy minimum, in an attractive
//part (fa_atr) and a repulsive part (fa_rep). The attractive part is shifted to
//become zero at the cutoff. Below 0.6 times the minimum distance, the repulsion becomes linear.
type LJ struct {
	scoring.Base
	Cutoff float64
	Linear float64 //fraction of the minimum distance below which the repulsion is linear.
}

//NewLJ returns a LJ method with a 6 A cutoff.
func NewLJ() *LJ {
	return &LJ{Cutoff: 6.0, Linear: 0.6}
}

func (L *LJ) Name() string                     { return "fa_lj" }
func (L *LJ) Category() scoring.Category       { return scoring.ContextIndependentTwoBody }
func (L *LJ) ScoreTypes() []scoring.ScoreType  { return []scoring.ScoreType{scoring.FaAtr, scoring.FaRep} }
func (L *LJ) AtomicInteractionCutoff() float64 { return L.Cutoff }
func (L *LJ) Clone() scoring.Method            { r := *L; return &r }

//lj returns the Lennard-Jones energy and its derivative.
func lj(r, r0, eps float64) (float64, float64) {
	x6 := math.Pow(r0/r, 6)
	x12 := x6 * x6
	return eps * (x12 - 2*x6), 12 * eps * (x6 - x12) / r
}

//terms returns the attractive and repulsive energies and their derivatives.
func (L *LJ) terms(r, r0, eps float64) (atr, datr, rep, drep float64) {
	if r > L.Cutoff {
		return 0, 0, 0, 0
	}
	shift, _ := lj(L.Cutoff, r0, eps)
	if r < r0 {
		atr = -eps - shift
		rl := L.Linear * r0
		if r < rl {
			e, de := lj(rl, r0, eps)
			rep = e + eps + de*(r-rl)
			drep = de
		} else {
			e, de := lj(r, r0, eps)
			rep = e + eps
			drep = de
		}
		return atr, 0, rep, drep
	}
	e, de := lj(r, r0, eps)
	return e - shift, de, 0, 0
}

func (L *LJ) atomPair(ai, aj *pose.Atom, r float64, emap, w *scoring.EnergyMap) float64 {
	r0 := ai.Radius + aj.Radius
	eps := math.Sqrt(ai.Well * aj.Well)
	atr, datr, rep, drep := L.terms(r, r0, eps)
	emap.Add(scoring.FaAtr, atr)
	emap.Add(scoring.FaRep, rep)
	if w == nil {
		return 0
	}
	return w[scoring.FaAtr]*datr + w[scoring.FaRep]*drep
}

func (L *LJ) ResiduePairEnergy(p *pose.Pose, r1, r2 int, c *scoring.Cache, emap *scoring.EnergyMap) {
	pairEnergy(p, r1, r2, L.Cutoff, emap, L.atomPair)
}

func (L *LJ) EvalAtomDerivatives(p *pose.Pose, c *scoring.Cache, w *scoring.EnergyMap, d *scoring.Derivatives) {
	pairDerivatives(p, c, L.Cutoff, w, d, L.atomPair)
}
