/*
 * packing.go, part of gopose.
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

//DefaultEnergyCut is the per-residue energy increase above which EnergyCutRotamerTrials
//repacks a residue.
const DefaultEnergyCut = 0.05

//rotamerTrials goes over the given residues, in random order if rng is not nil,
//putting each in its lowest energy rotamer given its surroundings. The current side chain
//conformation is kept unless a rotamer improves on it. It makes up to passes
//passes over the residues, stopping earlier if nothing changes. It returns the number of changed residues.
func rotamerTrials(p *pose.Pose, sf *scoring.ScoreFunction, residues []int, passes int, rng montecarlo.RNG) (int, error) {
	order := make([]int, 0, len(residues))
	for _, r := range residues {
		if p.Residue(r).Type.NChi() > 0 {
			order = append(order, r)
		}
	}
	c := scoring.NewCache()
	energy := func(r int) (float64, error) {
		if err := sf.SetupForScoring(p, c); err != nil {
			return 0, err
		}
		return sf.ResidueEnergy(p, c, r)
	}
	changed := 0
	for pass := 0; pass < passes; pass++ {
		if rng != nil {
			for i := len(order) - 1; i > 0; i-- {
				j := rng.IntN(i + 1)
				order[i], order[j] = order[j], order[i]
			}
		}
		passChanged := 0
		for _, r := range order {
			t := p.Residue(r).Type
			cur := make([]float64, t.NChi())
			for k := range cur {
				cur[k] = p.Chi(k+1, r)
			}
			best, err := energy(r)
			if err != nil {
				return changed, err
			}
			var bestRot []float64
			for _, rot := range t.Rotamers() {
				setChis(p, r, rot)
				e, err := energy(r)
				if err != nil {
					return changed, err
				}
				if e < best-1e-9 {
					best, bestRot = e, rot
				}
			}
			if bestRot != nil {
				setChis(p, r, bestRot)
				passChanged++
			} else {
				setChis(p, r, cur)
			}
		}
		changed += passChanged
		if passChanged == 0 {
			break
		}
	}
	return changed, nil
}

func setChis(p *pose.Pose, r int, chis []float64) {
	for k, v := range chis {
		p.SetChi(k+1, r, v)
	}
}

//PackRotamers repacks the side chains of a set of residues, by iterated rotamer trials.
type PackRotamers struct {
	Sf       *scoring.ScoreFunction
	Residues []int //nil means all residues.
	Passes   int
	rng      montecarlo.RNG
	status   Status
	changed  int
}

//NewPackRotamers returns a PackRotamers mover that makes up to 3 passes.
func NewPackRotamers(sf *scoring.ScoreFunction, residues []int, rng montecarlo.RNG) *PackRotamers {
	return &PackRotamers{Sf: sf, Residues: residues, Passes: 3, rng: rng}
}

func (P *PackRotamers) Name() string   { return "PackRotamers" }
func (P *PackRotamers) Status() Status { return P.status }
func (P *PackRotamers) Clone() Mover {
	return &PackRotamers{Sf: P.Sf, Residues: copyResidues(P.Residues), Passes: P.Passes, rng: P.rng}
}

//Changed returns the number of residue changes in the last Apply.
func (P *PackRotamers) Changed() int { return P.changed }

//copyResidues keeps nil (all residues) apart from an empty set.
func copyResidues(res []int) []int {
	if res == nil {
		return nil
	}
	return append(make([]int, 0, len(res)), res...)
}

func allResidues(p *pose.Pose, res []int) []int {
	if res != nil {
		return res
	}
	ret := make([]int, p.NResidues())
	for i := range ret {
		ret[i] = i
	}
	return ret
}

func (P *PackRotamers) Apply(p *pose.Pose) error {
	if P.Sf == nil {
		P.status = FailBadInput
		return badInput(P.Name(), "nil score function")
	}
	if err := checkResidues(P.Name(), p, P.Residues); err != nil {
		P.status = FailBadInput
		return err
	}
	n, err := rotamerTrials(p, P.Sf, allResidues(p, P.Residues), P.Passes, P.rng)
	P.changed = n
	if err != nil {
		P.status = FailDoNotRetry
		return pose.ErrDecorate(err, "PackRotamers.Apply")
	}
	P.status = Success
	return nil
}

//RotamerTrials makes one pass of rotamer trials over a set of residues.
type RotamerTrials struct {
	PackRotamers
}

//NewRotamerTrials returns a RotamerTrials mover.
func NewRotamerTrials(sf *scoring.ScoreFunction, residues []int, rng montecarlo.RNG) *RotamerTrials {
	return &RotamerTrials{PackRotamers{Sf: sf, Residues: residues, Passes: 1, rng: rng}}
}

func (R *RotamerTrials) Name() string { return "RotamerTrials" }
func (R *RotamerTrials) Clone() Mover {
	return NewRotamerTrials(R.Sf, copyResidues(R.Residues), R.rng)
}

//EnergyCutRotamerTrials runs rotamer trials on the residues whose weighted energy is
//higher than in the last accepted pose of a Monte Carlo controller by more than EnergyCut.
type EnergyCutRotamerTrials struct {
	Sf        *scoring.ScoreFunction
	MC        *montecarlo.MonteCarlo
	EnergyCut float64
	Residues  []int //residues that can be repacked, nil means all.
	rng       montecarlo.RNG
	status    Status
	changed   int
}

//NewEnergyCutRotamerTrials returns an EnergyCutRotamerTrials mover with the default energy cut.
func NewEnergyCutRotamerTrials(sf *scoring.ScoreFunction, mc *montecarlo.MonteCarlo, residues []int, rng montecarlo.RNG) *EnergyCutRotamerTrials {
	return &EnergyCutRotamerTrials{Sf: sf, MC: mc, EnergyCut: DefaultEnergyCut, Residues: residues, rng: rng}
}

func (E *EnergyCutRotamerTrials) Name() string   { return "EnergyCutRotamerTrials" }
func (E *EnergyCutRotamerTrials) Status() Status { return E.status }
func (E *EnergyCutRotamerTrials) Clone() Mover {
	return &EnergyCutRotamerTrials{Sf: E.Sf, MC: E.MC, EnergyCut: E.EnergyCut, Residues: copyResidues(E.Residues), rng: E.rng}
}

//Changed returns the number of residue changes in the last Apply.
func (E *EnergyCutRotamerTrials) Changed() int { return E.changed }

func (E *EnergyCutRotamerTrials) Apply(p *pose.Pose) error {
	if E.Sf == nil || E.MC == nil {
		E.status = FailBadInput
		return badInput(E.Name(), "nil score function or Monte Carlo controller")
	}
	if err := checkResidues(E.Name(), p, E.Residues); err != nil {
		E.status = FailBadInput
		return err
	}
	last, err := E.MC.LastAcceptedEnergies()
	if err != nil {
		E.status = FailDoNotRetry
		return pose.ErrDecorate(err, "EnergyCutRotamerTrials.Apply")
	}
	if len(last.Residue) != p.NResidues() {
		E.status = FailBadInput
		return badInput(E.Name(), "the last accepted pose has %d residues, the pose has %d", len(last.Residue), p.NResidues())
	}
	cur, err := E.Sf.Evaluate(p, scoring.NewCache())
	if err != nil {
		E.status = FailDoNotRetry
		return pose.ErrDecorate(err, "EnergyCutRotamerTrials.Apply")
	}
	w := E.Sf.Weights()
	res := make([]int, 0, 8)
	for _, r := range allResidues(p, E.Residues) {
		if cur.Residue[r].Dot(&w)-last.Residue[r].Dot(&w) > E.EnergyCut {
			res = append(res, r)
		}
	}
	E.changed, err = rotamerTrials(p, E.Sf, res, 1, E.rng)
	if err != nil {
		E.status = FailDoNotRetry
		return pose.ErrDecorate(err, "EnergyCutRotamerTrials.Apply")
	}
	E.status = Success
	return nil
}
