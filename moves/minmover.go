/*
 * minmover.go, part of gopose.
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
	"github.com/rmera/gopose/optimization"
	"github.com/rmera/gopose/scoring"
)

//MinMover minimizes the degrees of freedom enabled in a MoveMap.
type MinMover struct {
	MoveMap   *pose.MoveMap
	Sf        *scoring.ScoreFunction
	Minimizer *optimization.Minimizer
	last      *optimization.Result
	status    Status
}

//NewMinMover returns a MinMover. It returns an error if the minimization method is unknown.
func NewMinMover(mm *pose.MoveMap, sf *scoring.ScoreFunction, method string, tol float64, nblist bool) (*MinMover, error) {
	m, err := optimization.NewMinimizer(method, tol, nblist)
	if err != nil {
		return nil, pose.ErrDecorate(err, "NewMinMover")
	}
	return &MinMover{MoveMap: mm, Sf: sf, Minimizer: m}, nil
}

func (M *MinMover) Name() string   { return "MinMover" }
func (M *MinMover) Status() Status { return M.status }
func (M *MinMover) Clone() Mover {
	m := *M.Minimizer
	return &MinMover{MoveMap: M.MoveMap.Copy(), Sf: M.Sf, Minimizer: &m}
}

//LastResult returns the result of the last minimization, or nil.
func (M *MinMover) LastResult() *optimization.Result { return M.last }

func (M *MinMover) Apply(p *pose.Pose) error {
	if M.MoveMap == nil || M.Sf == nil || M.Minimizer == nil {
		M.status = FailBadInput
		return badInput(M.Name(), "nil MoveMap, score function or minimizer")
	}
	if M.MoveMap.NResidues() != p.NResidues() {
		M.status = FailBadInput
		return badInput(M.Name(), "MoveMap for %d residues, the pose has %d", M.MoveMap.NResidues(), p.NResidues())
	}
	res, err := M.Minimizer.Run(p, M.MoveMap, M.Sf)
	if err != nil {
		M.status = FailDoNotRetry
		return pose.ErrDecorate(err, "MinMover.Apply")
	}
	M.last = res
	M.status = Success
	return nil
}
