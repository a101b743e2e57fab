/*
 * standard.go, part of gopose.
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

package methods

import (
	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/scoring"
)

//StandardWeights are the weights of the default full-atom score function.
var StandardWeights = map[string]float64{
	"fa_atr":  0.8,
	"fa_rep":  0.44,
	"fa_elec": 0.7,
	"rama":    0.2,
	"omega":   0.5,
	"ref":     1.0,
}

//Standard returns the default full-atom score function.
func Standard() *scoring.ScoreFunction {
	sf, err := FromWeights("standard", StandardWeights)
	if err != nil {
		panic(err.Error()) //can't happen with the default table.
	}
	return sf
}

//FromWeights builds a score function with the methods needed for the score types
//named in weights. Constraint score types get their weight, but their methods, which need
//the restrained atoms, have to be added by the caller.
func FromWeights(name string, weights map[string]float64) (*scoring.ScoreFunction, error) {
	sf := scoring.NewScoreFunction(name)
	has := make(map[scoring.ScoreType]bool, len(weights))
	for n, w := range weights {
		t, err := scoring.ScoreTypeFromName(n)
		if err != nil {
			return nil, pose.ErrDecorate(err, "FromWeights")
		}
		sf.SetWeight(t, w)
		has[t] = true
	}
	if has[scoring.FaAtr] || has[scoring.FaRep] {
		sf.AddMethod(NewLJ())
	}
	if has[scoring.FaElec] {
		sf.AddMethod(NewElec())
	}
	if has[scoring.Rama] {
		sf.AddMethod(NewRama())
	}
	if has[scoring.Omega] {
		sf.AddMethod(&OmegaTerm{})
	}
	if has[scoring.Ref] {
		sf.AddMethod(NewRef())
	}
	return sf, nil
}

//AddCoordinateConstraints restrains the given atoms of p to their current positions, adding
//(or replacing) the coordinate constraint method of sf and setting its weight.
func AddCoordinateConstraints(sf *scoring.ScoreFunction, p *pose.Pose, atoms []int, sd, weight float64) {
	sf.RemoveMethod("coordinate_constraint")
	sf.AddMethod(NewCoordinateConstraint(p, atoms, sd))
	sf.SetWeight(scoring.CoordinateConstraint, weight)
}
