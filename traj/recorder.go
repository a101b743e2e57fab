/*
 * recorder.go, part of gopose.
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

package traj

import (
	"sync"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/montecarlo"
)

//Recorder is a montecarlo.Observer that writes the trials of a Monte Carlo run
//to a trajectory.
type Recorder struct {
	w *Writer
	//AcceptedOnly makes the recorder skip rejected trials.
	AcceptedOnly bool
	//Stride writes only one of every Stride trials.
	Stride int
	mu     sync.Mutex
	err    error
	frames int
}

//NewRecorder returns a Recorder that writes to the trajectory w.
func NewRecorder(w *Writer) *Recorder {
	return &Recorder{w: w, AcceptedOnly: true, Stride: 1}
}

//Observe writes the pose p, unless filtered out.
func (R *Recorder) Observe(trial int, score float64, s montecarlo.Status, p *pose.Pose) {
	R.mu.Lock()
	defer R.mu.Unlock()
	if R.err != nil || (R.AcceptedOnly && s == montecarlo.Rejected) {
		return
	}
	if R.Stride > 1 && trial%R.Stride != 0 {
		return
	}
	if err := R.w.WNext(p.Coords(), Frame{Trial: trial, Score: score, Status: s.String()}); err != nil {
		R.err = err
		return
	}
	R.frames++
}

//Frames returns the number of frames written.
func (R *Recorder) Frames() int {
	R.mu.Lock()
	defer R.mu.Unlock()
	return R.frames
}

//Err returns the first error found while writing, if any. The recorder
//stops writing after an error.
func (R *Recorder) Err() error {
	R.mu.Lock()
	defer R.mu.Unlock()
	return R.err
}
