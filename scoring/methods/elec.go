/*
 * elec.go, part of gopose.
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
)

//coulomb constant in kcal A/(mol e^2) divided by the 4r dielectric prefactor.
const coulomb = 332.0637 / 4

//Elec is a Coulomb potential with a distance dependent dielectric (4r), shifted
//to become zero at the cutoff. Below MinDist the energy is constant.
type Elec struct {
	scoring.Base
	Cutoff  float64
	MinDist float64
}

//NewElec returns an Elec method with a 5.5 A cutoff.
func NewElec() *Elec {
	return &Elec{Cutoff: 5.5, MinDist: 1.5}
}

func (E *Elec) Name() string                     { return "fa_elec" }
func (E *Elec) Category() scoring.Category       { return scoring.ContextIndependentTwoBody }
func (E *Elec) ScoreTypes() []scoring.ScoreType  { return []scoring.ScoreType{scoring.FaElec} }
func (E *Elec) AtomicInteractionCutoff() float64 { return E.Cutoff }
func (E *Elec) Clone() scoring.Method            { r := *E; return &r }

func (E *Elec) atomPair(ai, aj *pose.Atom, r float64, emap, w *scoring.EnergyMap) float64 {
	qq := ai.Charge * aj.Charge
	if qq == 0 || r > E.Cutoff {
		return 0
	}
	rr := r
	if rr < E.MinDist {
		rr = E.MinDist
	}
	emap.Add(scoring.FaElec, coulomb*qq*(1/(rr*rr)-1/(E.Cutoff*E.Cutoff)))
	if w == nil || r < E.MinDist {
		return 0
	}
	return w[scoring.FaElec] * (-2 * coulomb * qq / (r * r * r))
}

func (E *Elec) ResiduePairEnergy(p *pose.Pose, r1, r2 int, c *scoring.Cache, emap *scoring.EnergyMap) {
	pairEnergy(p, r1, r2, E.Cutoff, emap, E.atomPair)
}

func (E *Elec) EvalAtomDerivatives(p *pose.Pose, c *scoring.Cache, w *scoring.EnergyMap, d *scoring.Derivatives) {
	pairDerivatives(p, c, E.Cutoff, w, d, E.atomPair)
}
