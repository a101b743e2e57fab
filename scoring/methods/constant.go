/*
 * constant.go, part of gopose.
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

//Constant adds Value to the dummy score type, regardless of the structure.
//It has no derivatives.
type Constant struct {
	scoring.Base
	Value float64
}

func (C *Constant) Name() string                    { return "constant" }
func (C *Constant) Category() scoring.Category      { return scoring.WholeStructure }
func (C *Constant) ScoreTypes() []scoring.ScoreType { return []scoring.ScoreType{scoring.Dummy} }
func (C *Constant) Clone() scoring.Method           { r := *C; return &r }

func (C *Constant) FinalizeTotalEnergy(p *pose.Pose, c *scoring.Cache, emap *scoring.EnergyMap) {
	emap.Add(scoring.Dummy, C.Value)
}

//ConstantScore returns a score function that always gives v.
func ConstantScore(v float64) *scoring.ScoreFunction {
	sf := scoring.NewScoreFunction("constant")
	sf.AddMethod(&Constant{Value: v})
	sf.SetWeight(scoring.Dummy, 1)
	return sf
}
