/*
 * montecarlo.go, part of gopose.
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

//Package montecarlo implements the Metropolis acceptance criterion used by
//the Monte Carlo plus minimization protocols. The controller keeps the last accepted
//and the lowest scoring poses, but it never modifies the working pose on its own:
//after a rejection, the caller must restore the working pose with RestoreLastAccepted.
package montecarlo

import (
	"fmt"
	"math"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/scoring"
)

//RNG is the source of randomness for sampling. *rand.Rand from math/rand/v2 implements it.
type RNG interface {
	Float64() float64
	NormFloat64() float64
	IntN(n int) int
}

//Status is the outcome of the last Boltzmann call.
type Status int

const (
	NoTrial Status = iota
	Accepted
	ThermallyAccepted
	Rejected
)

func (S Status) String() string {
	return [...]string{"NoTrial", "Accepted", "ThermallyAccepted", "Rejected"}[S]
}

//Observer is notified after each Boltzmann call.
type Observer interface {
	Observe(trial int, score float64, s Status, p *pose.Pose)
}

//ObserverFunc allows using a function as an Observer.
type ObserverFunc func(trial int, score float64, s Status, p *pose.Pose)

func (O ObserverFunc) Observe(trial int, score float64, s Status, p *pose.Pose) {
	O(trial, score, s, p)
}

//MonteCarlo is a Metropolis Monte Carlo controller.
type MonteCarlo struct {
	sf        *scoring.ScoreFunction
	c         *scoring.Cache
	rng       RNG
	temp      float64
	last      *pose.Pose
	lastScore float64
	lastE     *scoring.Energies
	low       *pose.Pose
	lowScore  float64
	trials    int
	accepts   int
	thermal   int
	status    Status
	obs       Observer
}

//New returns a controller for the initial pose p. It scores p, which becomes both
//the last accepted and the lowest scoring pose. A temperature of 0 or less
//means only moves that don't increase the score are accepted.
func New(p *pose.Pose, sf *scoring.ScoreFunction, temperature float64, rng RNG) (*MonteCarlo, error) {
	if p == nil || sf == nil {
		return nil, pose.Errorf("montecarlo.New", "Nil pose or score function")
	}
	if rng == nil && temperature > 0 {
		return nil, pose.Errorf("montecarlo.New", "A random number generator is needed for temperature %g", temperature)
	}
	M := &MonteCarlo{sf: sf, c: scoring.NewCache(), rng: rng, temp: temperature}
	if err := M.Reset(p); err != nil {
		return nil, pose.ErrDecorate(err, "montecarlo.New")
	}
	return M, nil
}

func (M *MonteCarlo) check() {
	if M == nil || M.last == nil {
		panic(pose.ErrNotBuilt)
	}
}

//Reset makes p the last accepted and the lowest scoring pose. The
//counters are not changed.
func (M *MonteCarlo) Reset(p *pose.Pose) error {
	if M == nil || M.sf == nil {
		panic(pose.ErrNotBuilt)
	}
	E, err := M.sf.Evaluate(p, M.c)
	if err != nil {
		return pose.ErrDecorate(err, "Reset")
	}
	M.last = p.Copy()
	M.low = p.Copy()
	M.lastScore = E.Score
	M.lowScore = E.Score
	M.lastE = E
	M.status = NoTrial
	return nil
}

//Boltzmann scores p and decides whether to accept it. A score not higher
//than the last accepted one is always accepted, without using the random number generator.
//Otherwise p is accepted with probability exp(-delta/T). An accepted pose is copied into
//the controller. On rejection nothing is done to p.
func (M *MonteCarlo) Boltzmann(p *pose.Pose) (bool, error) {
	M.check()
	E, err := M.sf.Evaluate(p, M.c)
	if err != nil {
		return false, pose.ErrDecorate(err, "Boltzmann")
	}
	M.trials++
	score := E.Score
	delta := score - M.lastScore
	switch {
	case delta <= 0:
		M.status = Accepted
	case M.temp <= 0:
		M.status = Rejected
	case M.rng.Float64() < math.Exp(-delta/M.temp):
		M.status = ThermallyAccepted
		M.thermal++
	default:
		M.status = Rejected
	}
	accepted := M.status != Rejected
	if accepted {
		M.accepts++
		M.last.Assign(p)
		M.lastScore = score
		M.lastE = E
		if score < M.lowScore {
			M.low.Assign(p)
			M.lowScore = score
		}
	}
	if M.obs != nil {
		M.obs.Observe(M.trials, score, M.status, p)
	}
	return accepted, nil
}

//RestoreLastAccepted sets p to the last accepted pose.
func (M *MonteCarlo) RestoreLastAccepted(p *pose.Pose) {
	M.check()
	p.Assign(M.last)
}

//RecoverLow sets p to the lowest scoring pose, which also becomes the last accepted one.
func (M *MonteCarlo) RecoverLow(p *pose.Pose) {
	M.check()
	p.Assign(M.low)
	M.last.Assign(M.low)
	M.lastScore = M.lowScore
	M.lastE = nil
}

//SetScoreFunction replaces the score function and rescores the last accepted and
//lowest poses with it.
func (M *MonteCarlo) SetScoreFunction(sf *scoring.ScoreFunction) error {
	M.check()
	if sf == nil {
		return pose.Errorf("SetScoreFunction", "Nil score function")
	}
	M.sf = sf
	E, err := sf.Evaluate(M.last, M.c)
	if err != nil {
		return pose.ErrDecorate(err, "SetScoreFunction")
	}
	M.lastScore, M.lastE = E.Score, E
	low, err := sf.Score(M.low, M.c)
	if err != nil {
		return pose.ErrDecorate(err, "SetScoreFunction")
	}
	M.lowScore = low
	if M.lastScore < M.lowScore {
		M.low.Assign(M.last)
		M.lowScore = M.lastScore
	}
	return nil
}

//ScoreFunction returns the score function used by the controller.
func (M *MonteCarlo) ScoreFunction() *scoring.ScoreFunction { M.check(); return M.sf }

//LowestScore returns the score of the lowest scoring pose seen.
func (M *MonteCarlo) LowestScore() float64 { M.check(); return M.lowScore }

//LastAcceptedScore returns the score of the last accepted pose.
func (M *MonteCarlo) LastAcceptedScore() float64 { M.check(); return M.lastScore }

//LowestScorePose returns a copy of the lowest scoring pose.
func (M *MonteCarlo) LowestScorePose() *pose.Pose { M.check(); return M.low.Copy() }

//LastAcceptedPose returns a copy of the last accepted pose.
func (M *MonteCarlo) LastAcceptedPose() *pose.Pose { M.check(); return M.last.Copy() }

//LastAcceptedEnergies returns the energies of the last accepted pose.
func (M *MonteCarlo) LastAcceptedEnergies() (*scoring.Energies, error) {
	M.check()
	if M.lastE == nil {
		E, err := M.sf.Evaluate(M.last, M.c)
		if err != nil {
			return nil, pose.ErrDecorate(err, "LastAcceptedEnergies")
		}
		M.lastE = E
	}
	return M.lastE, nil
}

//SetTemperature sets the temperature.
func (M *MonteCarlo) SetTemperature(t float64) {
	M.check()
	if t > 0 && M.rng == nil {
		panic(pose.ErrNotBuilt)
	}
	M.temp = t
}

//Temperature returns the current temperature.
func (M *MonteCarlo) Temperature() float64 { M.check(); return M.temp }

//Trials returns the number of Boltzmann calls.
func (M *MonteCarlo) Trials() int { M.check(); return M.trials }

//Accepts returns the number of accepted moves, including the thermally accepted ones.
func (M *MonteCarlo) Accepts() int { M.check(); return M.accepts }

//ThermalAccepts returns the number of moves accepted only because of the temperature.
func (M *MonteCarlo) ThermalAccepts() int { M.check(); return M.thermal }

//AcceptanceRate returns the fraction of accepted trials, or 0 if there were none.
func (M *MonteCarlo) AcceptanceRate() float64 {
	M.check()
	if M.trials == 0 {
		return 0
	}
	return float64(M.accepts) / float64(M.trials)
}

//ResetCounters sets the trial and acceptance counters to zero.
func (M *MonteCarlo) ResetCounters() {
	M.check()
	M.trials, M.accepts, M.thermal = 0, 0, 0
}

//LastStatus returns the outcome of the last Boltzmann call.
func (M *MonteCarlo) LastStatus() Status { M.check(); return M.status }

//SetObserver sets an observer that will be called after every Boltzmann call. Use nil to remove it.
func (M *MonteCarlo) SetObserver(o Observer) { M.check(); M.obs = o }

func (M *MonteCarlo) String() string {
	M.check()
	return fmt.Sprintf("MonteCarlo T: %.3f last: %.3f low: %.3f trials: %d accepted: %d (thermal: %d)",
		M.temp, M.lastScore, M.lowScore, M.trials, M.accepts, M.thermal)
}
