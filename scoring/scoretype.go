/*
 * scoretype.go, part of gopose.
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

package scoring

import (
	"fmt"
	"strings"

	pose "github.com/rmera/gopose"
	"gonum.org/v1/gonum/floats"
)

//ScoreType identifies an energy term. The set of score types is closed.
type ScoreType int

const (
	FaAtr ScoreType = iota
	FaRep
	FaElec
	Rama
	Omega
	Ref
	CoordinateConstraint
	AtomPairConstraint
	InterchainContact
	Dummy
	NScoreTypes //number of score types, not a score type.
)

var scoreNames = [NScoreTypes]string{
	"fa_atr",
	"fa_rep",
	"fa_elec",
	"rama",
	"omega",
	"ref",
	"coordinate_constraint",
	"atom_pair_constraint",
	"interchain_contact",
	"dummy",
}

func (S ScoreType) String() string {
	if S < 0 || S >= NScoreTypes {
		return fmt.Sprintf("unknown(%d)", int(S))
	}
	return scoreNames[S]
}

//ScoreTypeFromName returns the score type with the given name.
func ScoreTypeFromName(name string) (ScoreType, error) {
	for i, n := range scoreNames {
		if n == name {
			return ScoreType(i), nil
		}
	}
	return Dummy, pose.Errorf("ScoreTypeFromName", "Unregistered score type %s", name)
}

//EnergyMap contains one value per score type.
type EnergyMap [NScoreTypes]float64

//Zero sets all values to 0.
func (E *EnergyMap) Zero() {
	*E = EnergyMap{}
}

//Get returns the value for score type t.
func (E *EnergyMap) Get(t ScoreType) float64 { return E[t] }

//Set sets the value for score type t.
func (E *EnergyMap) Set(t ScoreType, v float64) { E[t] = v }

//Add adds v to the value for t.
func (E *EnergyMap) Add(t ScoreType, v float64) { E[t] += v }

//Accumulate adds, element-wise, the values of o to the receiver.
func (E *EnergyMap) Accumulate(o *EnergyMap) {
	floats.Add(E[:], o[:])
}

//AccumulateScaled adds s times o to the receiver.
func (E *EnergyMap) AccumulateScaled(s float64, o *EnergyMap) {
	floats.AddScaled(E[:], s, o[:])
}

//Dot returns the sum of the product of each value in E and w.
func (E *EnergyMap) Dot(w *EnergyMap) float64 {
	return floats.Dot(E[:], w[:])
}

//String returns the non-zero values of the map.
func (E *EnergyMap) String() string {
	s := make([]string, 0, 4)
	for i, v := range E {
		if v != 0 {
			s = append(s, fmt.Sprintf("%s: %.3f", ScoreType(i), v))
		}
	}
	return "{" + strings.Join(s, ", ") + "}"
}
