/*
 * pair.go, part of gopose.
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

//bonds from an atom name to the C atom of its residue, up to 3.
func depthC(name string) int {
	switch name {
	case "C":
		return 0
	case "O", "CA":
		return 1
	case "N", "CB":
		return 2
	}
	return 3
}

//bonds from an atom name to the N atom of its residue, up to 3.
func depthN(name string) int {
	switch name {
	case "N":
		return 0
	case "H", "CA":
		return 1
	case "C", "CB":
		return 2
	}
	return 3
}

//excluded returns true if atoms a (in residue r1) and b (in residue r2 > r1) are
//3 bonds or less apart.
func excluded(p *pose.Pose, r1, r2, a, b int) bool {
	if !p.Bonded(r1, r2) {
		return false
	}
	return depthC(p.Atom(a).Name)+depthN(p.Atom(b).Name) <= 2
}

//atomPairFunc computes, for two atoms at distance r, the energies to add
//to emap, and the weighted dE/dr given the weights w, if w is not nil.
type atomPairFunc func(ai, aj *pose.Atom, r float64, emap, w *scoring.EnergyMap) float64

//pairEnergy applies f to all the non-excluded atom pairs of residues r1 and r2 closer than cutoff.
func pairEnergy(p *pose.Pose, r1, r2 int, cutoff float64, emap *scoring.EnergyMap, f atomPairFunc) {
	res1, res2 := p.Residue(r1), p.Residue(r2)
	c2 := cutoff * cutoff
	for _, a := range res1.Atoms() {
		xa := p.XYZ(a)
		for _, b := range res2.Atoms() {
			d := r3.Sub(xa, p.XYZ(b))
			d2 := r3.Dot(d, d)
			if d2 > c2 || excluded(p, r1, r2, a, b) {
				continue
			}
			f(p.Atom(a), p.Atom(b), math.Sqrt(d2), emap, nil)
		}
	}
}

//pairDerivatives adds the F1/F2 contributions of f for every neighbor pair in c.
func pairDerivatives(p *pose.Pose, c *scoring.Cache, cutoff float64, w *scoring.EnergyMap, d *scoring.Derivatives, f atomPairFunc) {
	var scratch scoring.EnergyMap
	c2 := cutoff * cutoff
	for _, pair := range c.Pairs() {
		r1, r2 := pair[0], pair[1]
		res1, res2 := p.Residue(r1), p.Residue(r2)
		for _, a := range res1.Atoms() {
			xa := p.XYZ(a)
			for _, b := range res2.Atoms() {
				xb := p.XYZ(b)
				v := r3.Sub(xa, xb)
				d2 := r3.Dot(v, v)
				if d2 > c2 || d2 == 0 || excluded(p, r1, r2, a, b) {
					continue
				}
				r := math.Sqrt(d2)
				dEdr := f(p.Atom(a), p.Atom(b), r, &scratch, w)
				if dEdr != 0 {
					d.AddPair(a, b, xa, xb, dEdr/r)
				}
			}
		}
	}
}
