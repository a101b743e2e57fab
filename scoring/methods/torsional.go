/*
 * torsional.go, part of gopose.
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
	"math"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/scoring"
	"gonum.org/v1/gonum/spatial/r3"
)

//basin is a region of the Ramachandran plot, centered at Phi, Psi (degrees), with a population.
type basin struct {
	Phi, Psi float64
	Pop      float64
}

var generalBasins = []basin{
	{-63, -43, 0.50},  //alpha helix
	{-120, 130, 0.30}, //beta
	{-70, 145, 0.15},  //polyproline II
	{57, 47, 0.05},    //left-handed
}

var glyBasins = []basin{
	{-63, -43, 0.25},
	{63, 43, 0.25},
	{-80, 170, 0.25},
	{80, -170, 0.25},
}

//Rama is a one-body term for the backbone phi/psi torsions. The energy is -ln of a
//sum of von Mises-like basins. Residues without a defined phi or psi get no energy.
type Rama struct {
	scoring.Base
	Kappa float64
	Floor float64
}

//NewRama returns a Rama method with its default parameters.
func NewRama() *Rama {
	return &Rama{Kappa: 2.5, Floor: 1e-3}
}

func (R *Rama) Name() string                    { return "rama" }
func (R *Rama) Category() scoring.Category      { return scoring.OneBody }
func (R *Rama) ScoreTypes() []scoring.ScoreType { return []scoring.ScoreType{scoring.Rama} }
func (R *Rama) Clone() scoring.Method           { r := *R; return &r }

//Energy returns the rama energy of the residue type for the given phi and psi (radians) and the
//derivatives with respect to phi and psi.
func (R *Rama) Energy(t *pose.ResidueType, phi, psi float64) (float64, float64, float64) {
	basins := generalBasins
	if t.Name == "GLY" {
		basins = glyBasins
	}
	s, dphi, dpsi := 0.0, 0.0, 0.0
	for _, b := range basins {
		dp := phi - pose.Deg2Rad(b.Phi)
		ds := psi - pose.Deg2Rad(b.Psi)
		e := b.Pop * math.Exp(R.Kappa*(math.Cos(dp)-1)+R.Kappa*(math.Cos(ds)-1))
		s += e
		dphi += e * R.Kappa * math.Sin(dp)
		dpsi += e * R.Kappa * math.Sin(ds)
	}
	s += R.Floor
	return -math.Log(s), dphi / s, dpsi / s
}

func (R *Rama) torsions(p *pose.Pose, r int) ([4]int, [4]int, bool) {
	phi, ok1 := p.TorsionAtoms(pose.TorsionID{Kind: pose.Phi, Res: r})
	psi, ok2 := p.TorsionAtoms(pose.TorsionID{Kind: pose.Psi, Res: r})
	return phi, psi, ok1 && ok2
}

func dihedralOf(p *pose.Pose, at [4]int) float64 {
	return pose.Dihedral(p.XYZ(at[0]), p.XYZ(at[1]), p.XYZ(at[2]), p.XYZ(at[3]))
}

//addDihedralGradient adds dEdt times the gradient of the dihedral defined by at.
func addDihedralGradient(p *pose.Pose, at [4]int, dEdt float64, d *scoring.Derivatives) {
	if dEdt == 0 {
		return
	}
	g := pose.DihedralGradient(p.XYZ(at[0]), p.XYZ(at[1]), p.XYZ(at[2]), p.XYZ(at[3]))
	for i, a := range at {
		d.AddGradient(a, p.XYZ(a), r3.Scale(dEdt, g[i]))
	}
}

func (R *Rama) IntraResidueEnergy(p *pose.Pose, r int, c *scoring.Cache, emap *scoring.EnergyMap) {
	phi, psi, ok := R.torsions(p, r)
	if !ok {
		return
	}
	e, _, _ := R.Energy(p.Residue(r).Type, dihedralOf(p, phi), dihedralOf(p, psi))
	emap.Add(scoring.Rama, e)
}

func (R *Rama) EvalAtomDerivatives(p *pose.Pose, c *scoring.Cache, w *scoring.EnergyMap, d *scoring.Derivatives) {
	wr := w[scoring.Rama]
	for r := 0; r < p.NResidues(); r++ {
		phi, psi, ok := R.torsions(p, r)
		if !ok {
			continue
		}
		_, dphi, dpsi := R.Energy(p.Residue(r).Type, dihedralOf(p, phi), dihedralOf(p, psi))
		addDihedralGradient(p, phi, wr*dphi, d)
		addDihedralGradient(p, psi, wr*dpsi, d)
	}
}

//OmegaTerm is a harmonic restraint of the omega torsions to 180 degrees.
//The energy is the square of the deviation, in radians.
type OmegaTerm struct {
	scoring.Base
}

func (O *OmegaTerm) Name() string                    { return "omega" }
func (O *OmegaTerm) Category() scoring.Category      { return scoring.OneBody }
func (O *OmegaTerm) ScoreTypes() []scoring.ScoreType { return []scoring.ScoreType{scoring.Omega} }
func (O *OmegaTerm) Clone() scoring.Method           { return &OmegaTerm{} }

func omegaDev(p *pose.Pose, r int) ([4]int, float64, bool) {
	at, ok := p.TorsionAtoms(pose.TorsionID{Kind: pose.Omega, Res: r})
	if !ok {
		return at, 0, false
	}
	dev := pose.Deg2Rad(pose.WrapDeg(pose.Rad2Deg(dihedralOf(p, at)) - 180))
	return at, dev, true
}

func (O *OmegaTerm) IntraResidueEnergy(p *pose.Pose, r int, c *scoring.Cache, emap *scoring.EnergyMap) {
	if _, dev, ok := omegaDev(p, r); ok {
		emap.Add(scoring.Omega, dev*dev)
	}
}

func (O *OmegaTerm) EvalAtomDerivatives(p *pose.Pose, c *scoring.Cache, w *scoring.EnergyMap, d *scoring.Derivatives) {
	for r := 0; r < p.NResidues(); r++ {
		if at, dev, ok := omegaDev(p, r); ok {
			addDihedralGradient(p, at, w[scoring.Omega]*2*dev, d)
		}
	}
}
