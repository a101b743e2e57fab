/*
 * minimizer.go, part of gopose.
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

package optimization

import (
	"strings"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/scoring"
	"gonum.org/v1/gonum/optimize"
)

//default values
const (
	DefaultMaxIter   = 2000
	DefaultNBPadding = 2.0
)

//Result contains the outcome of a minimization.
type Result struct {
	StartScore  float64
	FinalScore  float64
	Iterations  int
	Evaluations int
	Status      string
	Converged   bool
}

//Minimizer minimizes the score of a pose with respect to the
//degrees of freedom enabled in a MoveMap.
type Minimizer struct {
	Method    string
	Tolerance float64
	UseNBList bool
	NBPadding float64
	MaxIter   int
}

//knownMethods are the methods recognized by the minimizer.
var knownMethods = map[string]bool{
	"lbfgs":                    true,
	"lbfgs_armijo":             true,
	"lbfgs_armijo_atol":        true,
	"lbfgs_armijo_nonmonotone": true,
	"dfpmin":                   true,
	"dfpmin_armijo":            true,
	"dfpmin_armijo_atol":       true,
	"dfpmin_atol":              true,
	"linmin":                   true,
	"steepest":                 true,
}

//NewMinimizer returns a Minimizer for the given method and tolerance. It returns
//an error if the method is not known.
func NewMinimizer(method string, tol float64, nblist bool) (*Minimizer, error) {
	if !knownMethods[method] {
		return nil, pose.Errorf("NewMinimizer", "Unknown minimization method %q", method)
	}
	if tol <= 0 {
		return nil, pose.Errorf("NewMinimizer", "Tolerance must be positive, got %g", tol)
	}
	return &Minimizer{Method: method, Tolerance: tol, UseNBList: nblist, NBPadding: DefaultNBPadding, MaxIter: DefaultMaxIter}, nil
}

//Minimize is a shortcut for NewMinimizer and Minimizer.Run
func Minimize(p *pose.Pose, mm *pose.MoveMap, sf *scoring.ScoreFunction, method string, tol float64, nblist bool) (*Result, error) {
	M, err := NewMinimizer(method, tol, nblist)
	if err != nil {
		return nil, pose.ErrDecorate(err, "Minimize")
	}
	return M.Run(p, mm, sf)
}

func (M *Minimizer) gonumMethod() optimize.Method {
	switch {
	case strings.HasPrefix(M.Method, "lbfgs"):
		return &optimize.LBFGS{Linesearcher: &optimize.Backtracking{}}
	case strings.HasPrefix(M.Method, "dfpmin"):
		return &optimize.BFGS{Linesearcher: &optimize.MoreThuente{}}
	}
	return &optimize.GradientDescent{Linesearcher: &optimize.Backtracking{}}
}

func (M *Minimizer) converger() *optimize.FunctionConverge {
	if strings.HasSuffix(M.Method, "_atol") {
		return &optimize.FunctionConverge{Absolute: M.Tolerance, Iterations: 1}
	}
	return &optimize.FunctionConverge{Relative: M.Tolerance, Absolute: 1e-10, Iterations: 1}
}

//Run minimizes p in place. Not reaching convergence is not an error, Result reports
//it. The final score of p is never higher than the starting one.
func (M *Minimizer) Run(p *pose.Pose, mm *pose.MoveMap, sf *scoring.ScoreFunction) (*Result, error) {
	if p == nil || mm == nil || sf == nil {
		return nil, pose.Errorf("Minimizer.Run", "Nil pose, MoveMap or score function")
	}
	if !knownMethods[M.Method] {
		return nil, pose.Errorf("Minimizer.Run", "Unknown minimization method %q", M.Method)
	}
	start, err := sf.Score(p, scoring.NewCache())
	if err != nil {
		return nil, pose.ErrDecorate(err, "Minimizer.Run")
	}
	ret := &Result{StartScore: start, FinalScore: start}
	c := scoring.NewCache()
	if M.UseNBList {
		c.UseNeighborList(true, M.NBPadding)
	}
	F, err := NewDOFFunc(p, mm, sf, c)
	if err != nil {
		return nil, pose.ErrDecorate(err, "Minimizer.Run")
	}
	if len(F.DOFs()) == 0 {
		ret.Status = "NoDOFs"
		ret.Converged = true
		return ret, nil
	}
	base := p.Copy()
	problem := optimize.Problem{Func: F.Func, Grad: F.Grad}
	settings := &optimize.Settings{Converger: M.converger(), MajorIterations: M.MaxIter}
	res, oerr := optimize.Minimize(problem, F.X0(), settings, M.gonumMethod())
	if F.Err() != nil {
		p.AssignCoords(base)
		return nil, pose.ErrDecorate(F.Err(), "Minimizer.Run")
	}
	if res == nil {
		p.AssignCoords(base)
		ret.Status = "Failure"
		return ret, nil
	}
	ret.Iterations = res.Stats.MajorIterations
	ret.Evaluations = res.Stats.FuncEvaluations
	ret.Status = res.Status.String()
	ret.Converged = oerr == nil && res.Status != optimize.IterationLimit && res.Status != optimize.Failure
	F.Apply(res.X)
	final, err := sf.Score(p, scoring.NewCache())
	if err != nil {
		return nil, pose.ErrDecorate(err, "Minimizer.Run")
	}
	if final > start {
		p.AssignCoords(base)
		final = start
	}
	ret.FinalScore = final
	return ret, nil
}
