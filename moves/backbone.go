/*
 * backbone.go, part of gopose.
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
	"github.com/rmera/gopose/scoring/methods"
)

//defaults for the backbone movers
const (
	DefaultNMoves      = 100
	DefaultTemperature = 0.8
	DefaultAngleMax    = 6.0
)

//backbone contains what is common to the small and shear movers.
type backbone struct {
	MoveMap     *pose.MoveMap
	NMoves      int
	Temperature float64
	//AngleMax is the full width, in degrees, of the uniform perturbation.
	AngleMax float64
	rama     *methods.Rama
	rng      montecarlo.RNG
	status   Status
}

func newBackbone(mm *pose.MoveMap, rng montecarlo.RNG) backbone {
	return backbone{MoveMap: mm, NMoves: DefaultNMoves, Temperature: DefaultTemperature, AngleMax: DefaultAngleMax, rama: methods.NewRama(), rng: rng}
}

func (B *backbone) check(name string, p *pose.Pose) error {
	if B.MoveMap == nil || B.rng == nil {
		return badInput(name, "nil MoveMap or random number generator")
	}
	if B.MoveMap.NResidues() != p.NResidues() {
		return badInput(name, "MoveMap for %d residues, the pose has %d", B.MoveMap.NResidues(), p.NResidues())
	}
	return nil
}

//perturbation returns a uniform random angle in [-AngleMax/2, AngleMax/2).
func (B *backbone) perturbation() float64 {
	return B.AngleMax * (B.rng.Float64() - 0.5)
}

//ramaAccept applies the Metropolis criterion to the Ramachandran energy change.
func (B *backbone) ramaAccept(before, after float64) bool {
	if after <= before {
		return true
	}
	if B.Temperature <= 0 {
		return false
	}
	return B.rng.Float64() < math.Exp(-(after-before)/B.Temperature)
}

//ramaEnergy returns the unweighted Ramachandran energy of residue r with the given
//phi and psi, in degrees. It is 0 where the term is not defined, as in the score function.
func (B *backbone) ramaEnergy(p *pose.Pose, r int, phi, psi float64) float64 {
	if !B.defined(p, pose.Phi, r) || !B.defined(p, pose.Psi, r) || !p.Residue(r).Type.Polymer {
		return 0
	}
	e, _, _ := B.rama.Energy(p.Residue(r).Type, pose.Deg2Rad(phi), pose.Deg2Rad(psi))
	return e
}

func (B *backbone) defined(p *pose.Pose, k pose.TorsionKind, r int) bool {
	return p.TorsionDefined(pose.TorsionID{Kind: k, Res: r})
}

//candidates returns the residues that can be changed. For small moves, residues enabled in the MoveMap with
//phi or psi defined. For shear moves, those where phi and the psi of the previous residue are defined and enabled.
func (B *backbone) candidates(p *pose.Pose, shear bool) []int {
	ret := make([]int, 0, p.NResidues())
	for _, r := range B.MoveMap.BBResidues() {
		if shear && (!B.MoveMap.BB(r-1) || !B.defined(p, pose.Phi, r) || !B.defined(p, pose.Psi, r-1)) {
			continue
		}
		if !shear && !B.defined(p, pose.Phi, r) && !B.defined(p, pose.Psi, r) {
			continue
		}
		ret = append(ret, r)
	}
	return ret
}

//Small changes the phi and psi of random residues enabled in a MoveMap. Each
//change is accepted or rejected with a Metropolis criterion on the Ramachandran energy
//of the residue. NMoves changes are attempted.
type Small struct {
	backbone
}

//NewSmall returns a Small mover with default parameters.
func NewSmall(mm *pose.MoveMap, rng montecarlo.RNG) *Small {
	return &Small{newBackbone(mm, rng)}
}

func (S *Small) Name() string   { return "Small" }
func (S *Small) Status() Status { return S.status }
func (S *Small) Clone() Mover {
	r := &Small{S.backbone}
	r.MoveMap = S.MoveMap.Copy()
	r.status = NotApplied
	return r
}

func (S *Small) Apply(p *pose.Pose) error {
	if err := S.check(S.Name(), p); err != nil {
		S.status = FailBadInput
		return err
	}
	cand := S.candidates(p, false)
	if len(cand) == 0 {
		S.status = FailDoNotRetry
		return nil
	}
	for i := 0; i < S.NMoves; i++ {
		r := cand[S.rng.IntN(len(cand))]
		phi, psi := p.Phi(r), p.Psi(r)
		nphi, npsi := phi, psi
		if S.defined(p, pose.Phi, r) {
			nphi = pose.WrapDeg(phi + S.perturbation())
		}
		if S.defined(p, pose.Psi, r) {
			npsi = pose.WrapDeg(psi + S.perturbation())
		}
		if !S.ramaAccept(S.ramaEnergy(p, r, phi, psi), S.ramaEnergy(p, r, nphi, npsi)) {
			continue
		}
		if nphi != phi {
			p.SetPhi(r, nphi)
		}
		if npsi != psi {
			p.SetPsi(r, npsi)
		}
	}
	S.status = Success
	return nil
}

//Shear changes phi of a random residue by an angle, and psi of the previous residue
//by the opposite angle, which keeps the chain downstream roughly in place.
type Shear struct {
	backbone
}

//NewShear returns a Shear mover with default parameters.
func NewShear(mm *pose.MoveMap, rng montecarlo.RNG) *Shear {
	return &Shear{newBackbone(mm, rng)}
}

func (S *Shear) Name() string   { return "Shear" }
func (S *Shear) Status() Status { return S.status }
func (S *Shear) Clone() Mover {
	r := &Shear{S.backbone}
	r.MoveMap = S.MoveMap.Copy()
	r.status = NotApplied
	return r
}

func (S *Shear) Apply(p *pose.Pose) error {
	if err := S.check(S.Name(), p); err != nil {
		S.status = FailBadInput
		return err
	}
	cand := S.candidates(p, true)
	if len(cand) == 0 {
		S.status = FailDoNotRetry
		return nil
	}
	for i := 0; i < S.NMoves; i++ {
		r := cand[S.rng.IntN(len(cand))]
		delta := S.perturbation()
		phi, prevpsi := p.Phi(r), p.Psi(r-1)
		nphi, nprevpsi := pose.WrapDeg(phi+delta), pose.WrapDeg(prevpsi-delta)
		before := S.ramaEnergy(p, r, phi, p.Psi(r)) + S.ramaEnergy(p, r-1, p.Phi(r-1), prevpsi)
		after := S.ramaEnergy(p, r, nphi, p.Psi(r)) + S.ramaEnergy(p, r-1, p.Phi(r-1), nprevpsi)
		if !S.ramaAccept(before, after) {
			continue
		}
		p.SetPhi(r, nphi)
		p.SetPsi(r-1, nprevpsi)
	}
	S.status = Success
	return nil
}
