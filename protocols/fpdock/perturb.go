/*
 * perturb.go, part of gopose.
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
	"github.com/rmera/gopose/moves"
	"github.com/rmera/gopose/scoring"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	maxRBStartEnergy = 3000.0 //random starts can't raise the score more than this.
	maxRBStartTries  = 1000
	separation       = 1000.0 //A, distance used to separate the partners.
)

//startPerturbations applies the initial manipulations of the peptide requested in the flags.
func (R *run) startPerturbations(p *pose.Pose) error {
	F := R.Flags
	if F.Extend {
		R.extend(p)
	}
	if F.RandomPhiPsiPert {
		R.randomPhiPsi(p)
	}
	if F.PepFoldOnly {
		return nil
	}
	if F.RandomRBStart {
		if err := R.randomRBStart(p); err != nil {
			return pose.ErrDecorate(err, "startPerturbations")
		}
	}
	if F.SlideIntoContact {
		s := moves.NewSlideIntoContact(0)
		if err := s.Apply(p); err != nil {
			return pose.ErrDecorate(err, "startPerturbations")
		}
		F.logf(1, "Slide into contact: %s", s.Status())
	}
	return nil
}

func (R *run) setPhiPsi(p *pose.Pose, r int, phi, psi float64) {
	if p.TorsionDefined(pose.TorsionID{Kind: pose.Phi, Res: r}) {
		p.SetPhi(r, phi)
	}
	if p.TorsionDefined(pose.TorsionID{Kind: pose.Psi, Res: r}) {
		p.SetPsi(r, psi)
	}
}

//extend sets the peptide to an extended conformation.
func (R *run) extend(p *pose.Pose) {
	for _, r := range R.pep {
		R.setPhiPsi(p, r, -135, 135)
	}
}

//randomPhiPsi adds uniform offsets in [-size, size) to the phi and psi of every peptide residue.
func (R *run) randomPhiPsi(p *pose.Pose) {
	size := R.Flags.RandomPhiPsiPertSize
	for _, r := range R.pep {
		dphi := R.rng.Float64()*size*2 - size
		dpsi := R.rng.Float64()*size*2 - size
		R.setPhiPsi(p, r, pose.WrapDeg(p.Phi(r)+dphi), pose.WrapDeg(p.Psi(r)+dpsi))
	}
}

//randomRBStart perturbs the peptide placement randomly, repeating the perturbation
//from the original placement while it raises the score by more than 3000.
func (R *run) randomRBStart(p *pose.Pose) error {
	F := R.Flags
	c := scoring.NewCache()
	current, err := R.sf.Score(p, c)
	if err != nil {
		return pose.ErrDecorate(err, "randomRBStart")
	}
	rb := moves.NewRigidBodyPerturb(0, F.RbTransSize, F.RbRotSize, R.rng)
	tmp := p.Copy()
	for i := 0; i < maxRBStartTries; i++ {
		tmp.AssignCoords(p)
		if err := rb.Apply(tmp); err != nil {
			return pose.ErrDecorate(err, "randomRBStart")
		}
		score, err := R.sf.Score(tmp, c)
		if err != nil {
			return pose.ErrDecorate(err, "randomRBStart")
		}
		if score-current <= maxRBStartEnergy {
			p.AssignCoords(tmp)
			return nil
		}
	}
	F.logf(1, "No random start within %g of the input score in %d tries, keeping the input placement", maxRBStartEnergy, maxRBStartTries)
	return nil
}

//separationVec returns the vector that takes the peptide away from the receptor by the given distance.
func (R *run) separationVec(p *pose.Pose, dist float64) r3.Vec {
	dir := r3.Sub(moves.Centroid(p, p.Select(R.pep, nil)), moves.Centroid(p, p.Select(R.rec, nil)))
	if r3.Norm(dir) < 1e-6 {
		dir = r3.Vec{X: 1}
	}
	return r3.Scale(dist, r3.Unit(dir))
}

//prepack repacks and minimizes the side chains of the partners apart from each other, so
//their conformations are not biased by the complex.
func (R *run) prepack(p *pose.Pose) error {
	F := R.Flags
	mm := pose.NewMoveMap(p)
	mm.SetAllChi(true)
	minm, err := moves.NewMinMover(mm, R.sf, "lbfgs_armijo_nonmonotone", 1e-5, true)
	if err != nil {
		return pose.ErrDecorate(err, "prepack")
	}
	if F.Verbose >= 2 {
		ref := p.Copy()
		if err := minm.Apply(ref); err == nil {
			r := minm.LastResult()
			F.logf(2, "Initial score: %.3f, minimized score: %.3f", r.StartScore, r.FinalScore)
		}
	}
	var away r3.Vec
	if !F.PepFoldOnly {
		away = R.separationVec(p, separation)
		p.TransformJump(0, pose.Eye3(), r3.Vec{}, away)
	}
	if err := moves.NewPackRotamers(R.sf, nil, R.rng).Apply(p); err != nil {
		return pose.ErrDecorate(err, "prepack")
	}
	if err := minm.Apply(p); err != nil {
		return pose.ErrDecorate(err, "prepack")
	}
	if !F.PepFoldOnly {
		p.TransformJump(0, pose.Eye3(), r3.Vec{}, r3.Scale(-1, away))
	}
	return nil
}
