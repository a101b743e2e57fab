/*
 * protocol.go, part of gopose.
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
	"math"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/mcplot"
	"github.com/rmera/gopose/montecarlo"
	"github.com/rmera/gopose/moves"
	"github.com/rmera/gopose/scoring"
	"github.com/rmera/gopose/scoring/methods"
	"gonum.org/v1/gonum/spatial/r3"
)

//Status is the outcome of a docking run.
type Status int

const (
	Success Status = iota
	FilterFailed
)

func (S Status) String() string {
	return [...]string{"Success", "FilterFailed"}[S]
}

//Result is the outcome of a run of the protocol.
type Result struct {
	Pose     *pose.Pose
	Stats    map[string]float64
	Status   Status
	Trace    *mcplot.Trace //all the Monte Carlo trials of the run.
	Attempts int           //number of full runs, more than one if the filter was not passed.
	Tag      string        //set by RunDecoys.
}

//Protocol docks the peptide chain onto the receptor chain of a pose.
type Protocol struct {
	Flags    *Flags
	Sf       *scoring.ScoreFunction
	Native   *pose.Pose          //reference structure for the statistics. If nil, the input pose is used.
	Observer montecarlo.Observer //additional observer of all the Monte Carlo trials. Can be nil.
	rng      montecarlo.RNG
}

//NewProtocol returns a protocol with the given flags and score function. The
//rng is used for every random decision in the protocol.
func NewProtocol(flags *Flags, sf *scoring.ScoreFunction, rng montecarlo.RNG) (*Protocol, error) {
	if flags == nil {
		flags = DefaultFlags()
	}
	if err := flags.Validate(); err != nil {
		return nil, pose.ErrDecorate(err, "NewProtocol")
	}
	if sf == nil || rng == nil {
		return nil, pose.Errorf("NewProtocol", "A score function and a random number generator are needed")
	}
	return &Protocol{Flags: flags, Sf: sf, rng: rng}, nil
}

//run holds the state of a single Apply.
type run struct {
	*Protocol
	sf       *scoring.ScoreFunction //the score function used for sampling, it may have receptor constraints.
	final    *scoring.ScoreFunction //the score function for the final scores.
	rec, pep []int
	mm       *pose.MoveMap //peptide backbone, all side chains and the docking jump.
	mmMin    *pose.MoveMap //mm plus, optionally, the receptor backbone.
	trace    *mcplot.Trace
	obs      montecarlo.Observer
}

//Apply runs the protocol on p, which is modified. The fold tree of p is restored at the end.
//A final structure that does not pass the score filter in any of the allowed attempts is reported
//with the FilterFailed status, not as an error.
func (P *Protocol) Apply(p *pose.Pose) (*Result, error) {
	if P == nil || P.Flags == nil || P.Sf == nil || P.rng == nil {
		panic(pose.ErrNotBuilt)
	}
	F := P.Flags
	oldft := p.FoldTree()
	R, err := P.setup(p)
	if err != nil {
		return nil, pose.ErrDecorate(err, "Protocol.Apply")
	}
	defer func() {
		if err := p.SetFoldTree(oldft); err != nil {
			F.logf(1, "Could not restore the original fold tree: %s", err.Error())
		}
	}()
	start := p.Copy()
	native := P.Native
	if native == nil {
		F.logf(1, "No native structure given, using the input as reference for the statistics")
		native = start
	}
	if err := R.startPerturbations(p); err != nil {
		return nil, pose.ErrDecorate(err, "Protocol.Apply")
	}
	res := &Result{Status: Success, Trace: R.trace}
	switch {
	case F.PrepackOnly:
		err = R.prepack(p)
	case F.MinOnly:
		err = R.minimize(p, R.sf, MinMethod, 0.01)
	case F.RbMCM || F.TorsionsMCM || F.PeptideLoopModel:
		err = R.refineWithFilter(p, res)
	}
	if err != nil {
		return nil, pose.ErrDecorate(err, "Protocol.Apply")
	}
	res.Stats, err = R.statistics(start, native, p)
	if err != nil {
		return nil, pose.ErrDecorate(err, "Protocol.Apply")
	}
	res.Pose = p
	return res, nil
}

//refineWithFilter runs the high resolution protocol, restarting from the original
//structure while the filter is not passed, up to MaxFilterRetries times.
func (R *run) refineWithFilter(p *pose.Pose, res *Result) error {
	F := R.Flags
	current := p.Copy()
	for attempt := 0; ; attempt++ {
		res.Attempts = attempt + 1
		if err := R.hires(p); err != nil {
			return err
		}
		passed, err := R.checkFilters(p)
		if err != nil {
			return err
		}
		if passed {
			return nil
		}
		if attempt >= F.MaxFilterRetries {
			F.logf(1, "Failed filters %d times, giving up", res.Attempts)
			res.Status = FilterFailed
			return nil
		}
		F.logf(1, "Failed filters - trying again")
		p.Assign(current)
	}
}

//setup sets the fold tree of p for docking and builds the move maps and score functions.
func (P *Protocol) setup(p *pose.Pose) (*run, error) {
	F := P.Flags
	R := &run{Protocol: P, sf: P.Sf.Clone(), trace: mcplot.NewTrace()}
	R.pep = p.ChainResidues(F.PeptideChain)
	if len(R.pep) == 0 {
		return nil, pose.Errorf("setup", "No residues in peptide chain %s", F.PeptideChain)
	}
	if F.PepFoldOnly {
		if err := p.SetFoldTree(pose.DefaultFoldTree(p)); err != nil {
			return nil, pose.ErrDecorate(err, "setup")
		}
	} else {
		R.rec = p.ChainResidues(F.ReceptorChain)
		if len(R.rec) == 0 {
			return nil, pose.Errorf("setup", "No residues in receptor chain %s", F.ReceptorChain)
		}
		ranchor, panchor := anchors(p, R.rec, R.pep)
		ft, err := pose.DockingFoldTree(p, F.ReceptorChain, F.PeptideChain, ranchor, panchor)
		if err != nil {
			return nil, pose.ErrDecorate(err, "setup")
		}
		if err := p.SetFoldTree(ft); err != nil {
			return nil, pose.ErrDecorate(err, "setup")
		}
		F.logf(2, "Docking fold tree: %s", ft.String())
	}
	R.mm = pose.NewMoveMap(p)
	R.mm.SetBBRange(R.pep[0], R.pep[len(R.pep)-1], true)
	R.mm.SetAllChi(true)
	if !F.PepFoldOnly {
		R.mm.SetJump(0, true)
	}
	R.mmMin = R.mm.Copy()
	if F.MinReceptorBB && !F.PepFoldOnly {
		R.mmMin.SetBBRange(R.rec[0], R.rec[len(R.rec)-1], true)
		methods.AddCoordinateConstraints(R.sf, p, p.Select(R.rec, pose.IsProteinCA), 1, 1)
	}
	R.final = R.sf.Clone()
	if F.MinReceptorBB {
		R.final.SetWeight(scoring.CoordinateConstraint, 0)
	}
	R.obs = R.trace
	if P.Observer != nil {
		R.obs = montecarlo.ObserverFunc(func(trial int, score float64, s montecarlo.Status, q *pose.Pose) {
			R.trace.Observe(trial, score, s, q)
			P.Observer.Observe(trial, score, s, q)
		})
	}
	return R, nil
}

//anchors returns the receptor and peptide residues joined by the docking jump: the peptide
//residue closest to the center of the peptide, and the receptor residue closest to it.
func anchors(p *pose.Pose, rec, pep []int) (int, int) {
	ca := func(r int) r3.Vec {
		res := p.Residue(r)
		if i := res.AtomIndex("CA"); i >= 0 {
			return p.XYZ(i)
		}
		return p.XYZ(res.First())
	}
	closest := func(set []int, to r3.Vec) int {
		best, d := set[0], math.Inf(1)
		for _, r := range set {
			if dr := r3.Norm(r3.Sub(ca(r), to)); dr < d {
				best, d = r, dr
			}
		}
		return best
	}
	var cen r3.Vec
	for _, r := range pep {
		cen = r3.Add(cen, ca(r))
	}
	cen = r3.Scale(1/float64(len(pep)), cen)
	panchor := closest(pep, cen)
	return closest(rec, ca(panchor)), panchor
}

//packer returns the packer for the MCM stages. When only folding the peptide, all
//residues are packed. Otherwise, the interface is found again each time the packer runs.
func (R *run) packer(sf *scoring.ScoreFunction) moves.Mover {
	if R.Flags.PepFoldOnly {
		return moves.NewPackRotamers(sf, nil, R.rng)
	}
	return newInterfacePacker(sf, R.rec, R.pep, R.rng)
}

//interfacePacker packs the residues of two partners that are within
//moves.DefaultInterfaceCutoff of each other when Apply is called.
type interfacePacker struct {
	moves.PackRotamers
	a, b []int
	rng  montecarlo.RNG
}

func newInterfacePacker(sf *scoring.ScoreFunction, a, b []int, rng montecarlo.RNG) *interfacePacker {
	return &interfacePacker{PackRotamers: *moves.NewPackRotamers(sf, []int{}, rng), a: a, b: b, rng: rng}
}

func (I *interfacePacker) Name() string { return "InterfacePacker" }
func (I *interfacePacker) Clone() moves.Mover {
	return newInterfacePacker(I.Sf, I.a, I.b, I.rng)
}

func (I *interfacePacker) Apply(p *pose.Pose) error {
	I.Residues = moves.Interface(p, I.a, I.b, moves.DefaultInterfaceCutoff)
	return I.PackRotamers.Apply(p)
}

func (R *run) minimize(p *pose.Pose, sf *scoring.ScoreFunction, method string, tol float64) error {
	m, err := moves.NewMinMover(R.mmMin, sf, method, tol, true)
	if err != nil {
		return pose.ErrDecorate(err, "minimize")
	}
	if err := m.Apply(p); err != nil {
		return pose.ErrDecorate(err, "minimize")
	}
	r := m.LastResult()
	R.Flags.logf(2, "Minimized (%s, tolerance %g) from %.3f to %.3f, %s", method, tol, r.StartScore, r.FinalScore, r.Status)
	return nil
}

//hires is the high resolution protocol: ramping stages of MCM followed by a stringent minimization.
func (R *run) hires(p *pose.Pose) error {
	F := R.Flags
	w := R.sf.Weights()
	ramped := R.sf.Clone()
	if err := R.packer(ramped).Apply(p); err != nil {
		return pose.ErrDecorate(err, "hires")
	}
	n := F.RepRampCycles
	for i := 1; i <= n; i++ {
		if F.BoostFaAtr {
			ramped.SetWeight(scoring.FaAtr, w[scoring.FaAtr]*(1+0.25*float64(n-i)))
		}
		if F.RampFaRep {
			ramped.SetWeight(scoring.FaRep, RampWeight(0.02, w[scoring.FaRep], n, i))
		}
		if F.RampRama {
			ramped.SetWeight(scoring.Rama, RampWeight(0.01, w[scoring.Rama], n, i))
		}
		F.logf(2, "Stage %d/%d: fa_atr %.3f fa_rep %.3f rama %.3f", i, n,
			ramped.Weight(scoring.FaAtr), ramped.Weight(scoring.FaRep), ramped.Weight(scoring.Rama))
		if F.RbMCM && !F.PepFoldOnly {
			if err := R.mcm(p, ramped, "rigid-body", moves.NewRigidBodyPerturb(0, RbTransMag, RbRotMag, R.rng)); err != nil {
				return pose.ErrDecorate(err, "hires")
			}
		}
		if F.TorsionsMCM {
			small, shear := moves.NewSmall(R.mm, R.rng), moves.NewShear(R.mm, R.rng)
			small.AngleMax = F.SmoveAngleRange
			shear.AngleMax = F.SmoveAngleRange
			if err := R.mcm(p, ramped, "torsion", small, shear); err != nil {
				return pose.ErrDecorate(err, "hires")
			}
		}
		if F.PeptideLoopModel {
			if err := R.loopModel(p, ramped); err != nil {
				return pose.ErrDecorate(err, "hires")
			}
		}
	}
	return R.minimize(p, R.sf, MinMethod, 0.001)
}

//mcm runs one MCM simulation with the given perturbations. With two of them, the first
//is used in even cycles and the second in odd ones.
func (R *run) mcm(p *pose.Pose, sf *scoring.ScoreFunction, name string, perturb ...moves.Mover) error {
	mc, err := montecarlo.New(p, sf, Temperature, R.rng)
	if err != nil {
		return pose.ErrDecorate(err, "mcm")
	}
	mc.SetObserver(R.obs)
	minm, err := moves.NewMinMover(R.mmMin, sf, MinMethod, MinTolerance, true)
	if err != nil {
		return pose.ErrDecorate(err, "mcm")
	}
	cycle := NewMCMCycle(R.Flags.MCMCycles, sf, R.rng, perturb...)
	cycle.Packer = R.packer(sf)
	cycle.Minimizer = minm
	if err := cycle.Run(p, mc); err != nil {
		return pose.ErrDecorate(err, "mcm")
	}
	R.Flags.logf(2, "%s MCM: %d out of %d cycles accepted, lowest score %.3f", name, cycle.Accepted(), cycle.Cycles, mc.LowestScore())
	return nil
}

//loopModel refines the peptide as a loop, from its first residue to the one before the last.
//Peptides shorter than 5 residues are left alone.
func (R *run) loopModel(p *pose.Pose, sf *scoring.ScoreFunction) error {
	n := len(R.pep)
	if n < 5 {
		return nil
	}
	first, last := R.pep[0], R.pep[n-2]
	R.Flags.logf(2, "Loop modelling residues %d-%d", first, last)
	return moves.NewLoopRefine(first, last, sf, R.rng).Apply(p)
}

//checkFilters returns true if p passes the score filter, or if it is disabled.
func (R *run) checkFilters(p *pose.Pose) (bool, error) {
	F := R.Flags
	if F.ScoreFilter == NoScoreFilter {
		return true, nil
	}
	score, err := R.final.Score(p, scoring.NewCache())
	if err != nil {
		return false, pose.ErrDecorate(err, "checkFilters")
	}
	F.logf(1, "Applying score filter %g to a score of %.3f", F.ScoreFilter, score)
	return score < F.ScoreFilter, nil
}
