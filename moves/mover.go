/*
 * mover.go, part of gopose.
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

//Package moves contains movers: units of conformational change applied to a pose.
//A mover checks its input before touching the pose, so a mover that fails with FailBadInput
//leaves the pose unchanged.
package moves

import (
	"fmt"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/montecarlo"
)

//Status is the outcome of the last Apply call of a mover.
type Status int

const (
	NotApplied Status = iota
	Success
	FailRetry
	FailDoNotRetry
	FailBadInput
)

func (S Status) String() string {
	return [...]string{"NotApplied", "Success", "FailRetry", "FailDoNotRetry", "FailBadInput"}[S]
}

//Mover changes the conformation of a pose.
type Mover interface {
	Apply(p *pose.Pose) error
	Status() Status
	//Clone returns a copy with the same configuration, with no state from previous Apply calls.
	Clone() Mover
	Name() string
}

//badInput returns a critical error describing an input problem in a mover.
func badInput(mover, format string, a ...interface{}) error {
	return pose.Errorf(mover, "%s: bad input: %s", mover, fmt.Sprintf(format, a...))
}

//checkResidues returns an error if any residue in res is out of the range of p.
func checkResidues(mover string, p *pose.Pose, res []int) error {
	for _, r := range res {
		if r < 0 || r >= p.NResidues() {
			return badInput(mover, "residue %d out of range for a pose with %d residues", r, p.NResidues())
		}
	}
	return nil
}

//Sequence applies a list of movers, stopping at the first failure.
type Sequence struct {
	Movers []Mover
	status Status
}

//NewSequence returns a Sequence of the given movers.
func NewSequence(m ...Mover) *Sequence { return &Sequence{Movers: m} }

func (S *Sequence) Name() string   { return "Sequence" }
func (S *Sequence) Status() Status { return S.status }

//Clone clones every mover in the sequence.
func (S *Sequence) Clone() Mover {
	r := &Sequence{Movers: make([]Mover, len(S.Movers))}
	for i, m := range S.Movers {
		r.Movers[i] = m.Clone()
	}
	return r
}

func (S *Sequence) Apply(p *pose.Pose) error {
	S.status = Success
	for _, m := range S.Movers {
		if err := m.Apply(p); err != nil {
			S.status = m.Status()
			return pose.ErrDecorate(err, "Sequence.Apply")
		}
		if m.Status() != Success {
			S.status = m.Status()
			return nil
		}
	}
	return nil
}

//Recover sets the pose to the lowest scoring pose of a Monte Carlo controller.
type Recover struct {
	MC     *montecarlo.MonteCarlo
	status Status
}

func (R *Recover) Name() string   { return "Recover" }
func (R *Recover) Status() Status { return R.status }
func (R *Recover) Clone() Mover   { return &Recover{MC: R.MC} }

func (R *Recover) Apply(p *pose.Pose) error {
	if R.MC == nil {
		R.status = FailBadInput
		return badInput("Recover", "nil Monte Carlo controller")
	}
	R.MC.RecoverLow(p)
	R.status = Success
	return nil
}
