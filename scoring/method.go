/*
 * method.go, part of gopose.
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
	pose "github.com/rmera/gopose"
)

//Category tells the score function how to evaluate an energy method.
type Category int

const (
	ContextIndependentTwoBody Category = iota //pair energies that depend only on the two residues.
	ContextDependentTwoBody                   //pair energies that can depend on the environment of the residues.
	OneBody                                   //energies of single residues.
	WholeStructure                            //energies computed once for the whole pose.
)

func (C Category) String() string {
	return [...]string{"ci_2b", "cd_2b", "1b", "ws"}[C]
}

//TwoBody returns true for the categories that are evaluated over residue pairs.
func (C Category) TwoBody() bool {
	return C == ContextIndependentTwoBody || C == ContextDependentTwoBody
}

//Method is an energy method: it computes the energies for one or more score types.
//The energies are unweighted, the score function applies the weights. Methods
//must not keep per-pose state: anything computed during setup goes to the Cache.
//Embed Base to get no-op versions of the methods that don't apply.
type Method interface {
	Name() string
	Category() Category
	ScoreTypes() []ScoreType
	SetupForScoring(p *pose.Pose, c *Cache) error
	SetupForDerivatives(p *pose.Pose, c *Cache) error
	//ResiduePairEnergy is called once for each neighbor pair r1<r2 of two-body methods.
	ResiduePairEnergy(p *pose.Pose, r1, r2 int, c *Cache, emap *EnergyMap)
	//IntraResidueEnergy is called once per residue for two-body and one-body methods.
	IntraResidueEnergy(p *pose.Pose, r int, c *Cache, emap *EnergyMap)
	//FinalizeTotalEnergy is called once, after all the other energies have been evaluated.
	FinalizeTotalEnergy(p *pose.Pose, c *Cache, emap *EnergyMap)
	//EvalAtomDerivatives adds the weighted F1 and F2 vectors of every atom to d.
	EvalAtomDerivatives(p *pose.Pose, c *Cache, w *EnergyMap, d *Derivatives)
	//AtomicInteractionCutoff is the distance beyond which two atoms don't interact.
	AtomicInteractionCutoff() float64
	Clone() Method
}

//Base implements the optional parts of Method as no-ops.
type Base struct{}

func (B Base) SetupForScoring(p *pose.Pose, c *Cache) error                          { return nil }
func (B Base) SetupForDerivatives(p *pose.Pose, c *Cache) error                      { return nil }
func (B Base) ResiduePairEnergy(p *pose.Pose, r1, r2 int, c *Cache, emap *EnergyMap) {}
func (B Base) IntraResidueEnergy(p *pose.Pose, r int, c *Cache, emap *EnergyMap)     {}
func (B Base) FinalizeTotalEnergy(p *pose.Pose, c *Cache, emap *EnergyMap)           {}
func (B Base) EvalAtomDerivatives(p *pose.Pose, c *Cache, w *EnergyMap, d *Derivatives) {
}
func (B Base) AtomicInteractionCutoff() float64 { return 0 }
