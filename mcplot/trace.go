/*
 * trace.go, part of gopose.
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

//Package mcplot collects the score trace of Monte Carlo simulations and
//produces plots of it, and Ramachandran plots of poses, with gonum/plot.
package mcplot

import (
	"sync"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/montecarlo"
	"gonum.org/v1/gonum/floats"
)

//Trace records the outcome of every trial of a Monte Carlo simulation.
//It implements montecarlo.Observer, and can be shared by several simulations,
//in which case the trials are numbered in the order they are observed.
type Trace struct {
	mu       sync.Mutex
	trials   []int
	scores   []float64
	statuses []montecarlo.Status
	offset   int
	last     int
}

//NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

//Observe records a trial. Trial numbers that go back (a new controller) are
//shifted so the trace stays monotonic.
func (T *Trace) Observe(trial int, score float64, s montecarlo.Status, p *pose.Pose) {
	T.mu.Lock()
	defer T.mu.Unlock()
	if trial+T.offset <= T.last && len(T.trials) > 0 {
		T.offset = T.last
	}
	T.last = trial + T.offset
	T.trials = append(T.trials, T.last)
	T.scores = append(T.scores, score)
	T.statuses = append(T.statuses, s)
}

//Len returns the number of recorded trials.
func (T *Trace) Len() int {
	T.mu.Lock()
	defer T.mu.Unlock()
	return len(T.trials)
}

//Point returns the trial number, score and status of the ith recorded trial.
func (T *Trace) Point(i int) (int, float64, montecarlo.Status) {
	T.mu.Lock()
	defer T.mu.Unlock()
	return T.trials[i], T.scores[i], T.statuses[i]
}

//Scores returns a copy of the recorded scores.
func (T *Trace) Scores() []float64 {
	T.mu.Lock()
	defer T.mu.Unlock()
	return append([]float64(nil), T.scores...)
}

//Accepted returns the number of accepted (including thermally accepted) trials.
func (T *Trace) Accepted() int {
	T.mu.Lock()
	defer T.mu.Unlock()
	n := 0
	for _, s := range T.statuses {
		if s == montecarlo.Accepted || s == montecarlo.ThermallyAccepted {
			n++
		}
	}
	return n
}

//Lowest returns the lowest score seen among accepted trials, and false if there was none.
func (T *Trace) Lowest() (float64, bool) {
	T.mu.Lock()
	defer T.mu.Unlock()
	acc := make([]float64, 0, len(T.scores))
	for i, s := range T.statuses {
		if s != montecarlo.Rejected {
			acc = append(acc, T.scores[i])
		}
	}
	if len(acc) == 0 {
		return 0, false
	}
	return floats.Min(acc), true
}

//Reset empties the trace.
func (T *Trace) Reset() {
	T.mu.Lock()
	defer T.mu.Unlock()
	T.trials = T.trials[:0]
	T.scores = T.scores[:0]
	T.statuses = T.statuses[:0]
	T.offset, T.last = 0, 0
}
