/*
 * stats.go, part of gopose.
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
	"github.com/rmera/gopose/rmsd"
	"github.com/rmera/gopose/scoring"
	"gonum.org/v1/gonum/spatial/r3"
)

//interfaceScore returns the score of p minus the score of p with the downstream
//partner of jump 0 taken 1000 A away.
func (R *run) interfaceScore(p *pose.Pose) (float64, error) {
	c := scoring.NewCache()
	bound, err := R.final.Score(p, c)
	if err != nil {
		return 0, pose.ErrDecorate(err, "interfaceScore")
	}
	apart := p.Copy()
	apart.TransformJump(0, pose.Eye3(), r3.Vec{}, R.separationVec(p, separation))
	sep, err := R.final.Score(apart, c)
	if err != nil {
		return 0, pose.ErrDecorate(err, "interfaceScore")
	}
	return bound - sep, nil
}

//peptideScores returns the weighted energy of the peptide residues, with and without
//the reference energies.
func (R *run) peptideScores(E *scoring.Energies) (float64, float64) {
	w := R.final.Weights()
	var sc, ref float64
	for _, r := range R.pep {
		sc += E.Residue[r].Dot(&w)
		ref += E.Residue[r][scoring.Ref] * w[scoring.Ref]
	}
	return sc, sc - ref
}

//statistics computes the scores of the final pose and, if the native has the same
//topology, the RMSDs of the start and final poses to it.
func (R *run) statistics(start, native, final *pose.Pose) (map[string]float64, error) {
	F := R.Flags
	stats := make(map[string]float64, 24)
	E, err := R.final.Evaluate(final, scoring.NewCache())
	if err != nil {
		return nil, pose.ErrDecorate(err, "statistics")
	}
	stats["total_score"] = E.Score
	stats["pep_sc"], stats["pep_sc_noref"] = R.peptideScores(E)
	var isc float64
	if !F.PepFoldOnly {
		isc, err = R.interfaceScore(final)
		if err != nil {
			return nil, pose.ErrDecorate(err, "statistics")
		}
		stats["I_sc"] = isc
	}
	stats["reweighted_sc"] = E.Score + stats["pep_sc"] + isc
	if native.Len() != final.Len() || native.NResidues() != final.NResidues() {
		F.logf(1, "The native does not have the topology of the docked pose, skipping RMSD statistics")
		return stats, nil
	}
	sel := func(res []int, f func(*pose.Pose, int) bool) []int {
		return native.Select(res, f)
	}
	rms := func(key string, p *pose.Pose, atoms []int, super bool) {
		if len(atoms) == 0 {
			return
		}
		v, err := rmsd.PoseRMSD(p, native, atoms, super, nil)
		if err != nil {
			F.logf(1, "Can't obtain %s: %s", key, err.Error())
			return
		}
		stats[key] = v
	}
	ca, bb, all := sel(R.pep, pose.IsProteinCA), sel(R.pep, pose.IsBackbone), sel(R.pep, pose.IsHeavy)
	if F.PepFoldOnly {
		rms("startRMSca", start, ca, true)
		rms("startRMSbb", start, bb, true)
		rms("startRMSall", start, all, true)
		rms("rmsCA", final, ca, true)
		rms("rmsBB", final, bb, true)
		rms("rmsALL", final, all, false)
		return stats, nil
	}
	var ifres []int
	for _, r := range moves.Interface(native, R.rec, R.pep, moves.DefaultInterfaceCutoff) {
		if final.Residue(r).Chain == F.PeptideChain {
			ifres = append(ifres, r)
		}
	}
	rms("startRMSca", start, ca, false)
	rms("startRMSbb", start, bb, false)
	rms("startRMSall", start, all, false)
	rms("rmsCA", final, ca, false)
	rms("rmsBB", final, bb, false)
	rms("rmsALL", final, all, false)
	//superposing on the receptor.
	recca := sel(R.rec, pose.IsProteinCA)
	for _, k := range []struct {
		key   string
		atoms []int
	}{{"rmsCA_super", ca}, {"rmsBB_super", bb}, {"rmsALL_super", all}} {
		if len(k.atoms) == 0 || len(recca) == 0 {
			continue
		}
		v, err := rmsd.PoseRMSD(final, native, k.atoms, true, recca)
		if err != nil {
			F.logf(1, "Can't obtain %s: %s", k.key, err.Error())
			continue
		}
		stats[k.key] = v
	}
	if len(ifres) > 0 {
		rms("startRMSallif", start, sel(ifres, pose.IsHeavy), false)
		rms("rmsCA_if", final, sel(ifres, pose.IsProteinCA), false)
		rms("rmsBB_if", final, sel(ifres, pose.IsBackbone), false)
		rms("rmsALL_if", final, sel(ifres, pose.IsHeavy), false)
	}
	stats["fnat"] = rmsd.Fnat(final, native, R.rec, R.pep, rmsd.DefaultContactCutoff)
	return stats, nil
}
