/*
 * ref.go, part of gopose.
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

//DefaultRefEnergies are the reference energies per residue type.
var DefaultRefEnergies = map[string]float64{
	"ALA": 1.32, "GLY": 0.17, "SER": -0.29, "VAL": 1.70, "THR": 1.10, "LEU": 1.66,
	"ILE": 1.66, "LYS": -0.71, "ASP": -2.14, "GLU": -2.72, "PHE": 1.21,
}

//Ref gives each residue a constant energy that depends only on its type.
//Types not in the table get 0.
type Ref struct {
	scoring.Base
	Energies map[string]float64
}

//NewRef returns a Ref method with the default reference energies.
func NewRef() *Ref {
	return &Ref{Energies: DefaultRefEnergies}
}

func (R *Ref) Name() string                    { return "ref" }
func (R *Ref) Category() scoring.Category      { return scoring.OneBody }
func (R *Ref) ScoreTypes() []scoring.ScoreType { return []scoring.ScoreType{scoring.Ref} }

func (R *Ref) Clone() scoring.Method {
	e := make(map[string]float64, len(R.Energies))
	for k, v := range R.Energies {
		e[k] = v
	}
	return &Ref{Energies: e}
}

func (R *Ref) IntraResidueEnergy(p *pose.Pose, r int, c *scoring.Cache, emap *scoring.EnergyMap) {
	emap.Add(scoring.Ref, R.Energies[p.Residue(r).Name()])
}
