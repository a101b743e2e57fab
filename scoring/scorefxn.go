/*
 * scorefxn.go, part of gopose.
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
	"math"
	"strings"

	pose "github.com/rmera/gopose"
)

//Energies is the result of evaluating a score function on a pose.
type Energies struct {
	Total   EnergyMap   //unweighted energies of the whole pose.
	Residue []EnergyMap //unweighted energies per residue. Pair energies are split evenly between both residues.
	Score   float64     //the weighted total.
}

//Weighted returns the weighted value of the score type t.
func (E *Energies) Weighted(t ScoreType, w *EnergyMap) float64 {
	return E.Total[t] * w[t]
}

//ScoreFunction is an ordered collection of energy methods and a weight per score type.
//Scoring a pose does not change the score function, so it can be shared between goroutines,
//as long as each one uses its own Cache.
type ScoreFunction struct {
	Name    string
	methods []Method
	weights EnergyMap
}

//NewScoreFunction returns an empty score function.
func NewScoreFunction(name string) *ScoreFunction {
	return &ScoreFunction{Name: name}
}

//AddMethod adds an energy method. The weights of its score types are not changed.
func (S *ScoreFunction) AddMethod(m Method) {
	S.methods = append(S.methods, m)
}

//Methods returns the methods of the score function.
func (S *ScoreFunction) Methods() []Method {
	ret := make([]Method, len(S.methods))
	copy(ret, S.methods)
	return ret
}

//Method returns the first method with the given name, or nil.
func (S *ScoreFunction) Method(name string) Method {
	for _, m := range S.methods {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

//RemoveMethod removes all methods with the given name.
func (S *ScoreFunction) RemoveMethod(name string) {
	kept := S.methods[:0]
	for _, m := range S.methods {
		if m.Name() != name {
			kept = append(kept, m)
		}
	}
	S.methods = kept
}

//SetWeight sets the weight of score type t.
func (S *ScoreFunction) SetWeight(t ScoreType, w float64) { S.weights[t] = w }

//Weight returns the weight of score type t.
func (S *ScoreFunction) Weight(t ScoreType) float64 { return S.weights[t] }

//Weights returns a copy of all the weights.
func (S *ScoreFunction) Weights() EnergyMap { return S.weights }

//SetWeights sets all the weights.
func (S *ScoreFunction) SetWeights(w EnergyMap) { S.weights = w }

//HasNonzeroWeight returns true if any score type of the method m has a non-zero weight.
func (S *ScoreFunction) HasNonzeroWeight(m Method) bool {
	for _, t := range m.ScoreTypes() {
		if S.weights[t] != 0 {
			return true
		}
	}
	return false
}

//Clone returns a deep copy of the score function.
func (S *ScoreFunction) Clone() *ScoreFunction {
	r := &ScoreFunction{Name: S.Name, weights: S.weights, methods: make([]Method, len(S.methods))}
	for i, m := range S.methods {
		r.methods[i] = m.Clone()
	}
	return r
}

func (S *ScoreFunction) active() []Method {
	ret := make([]Method, 0, len(S.methods))
	for _, m := range S.methods {
		if S.HasNonzeroWeight(m) {
			ret = append(ret, m)
		}
	}
	return ret
}

//AtomicInteractionCutoff returns the largest interaction cutoff among the methods
//with a non-zero weight.
func (S *ScoreFunction) AtomicInteractionCutoff() float64 {
	c := 0.0
	for _, m := range S.active() {
		c = math.Max(c, m.AtomicInteractionCutoff())
	}
	return c
}

//SetupForScoring prepares the cache for evaluating the score function on p.
//It is idempotent. The neighbor graph is rebuilt unless it has been frozen
//with Cache.UseNeighborList and the topology of p has not changed.
func (S *ScoreFunction) SetupForScoring(p *pose.Pose, c *Cache) error {
	if c == nil {
		return pose.Errorf("SetupForScoring", "Nil cache")
	}
	c.prepare(p)
	cutoff := S.AtomicInteractionCutoff()
	if !c.built || !c.frozen || cutoff > c.cutoff-c.padding {
		c.buildNeighbors(p, cutoff+c.padding)
	}
	for _, m := range S.active() {
		if err := m.SetupForScoring(p, c); err != nil {
			return pose.ErrDecorate(err, "SetupForScoring "+m.Name())
		}
	}
	return nil
}

//Evaluate sets up the cache and evaluates the score function on p.
func (S *ScoreFunction) Evaluate(p *pose.Pose, c *Cache) (*Energies, error) {
	if err := S.SetupForScoring(p, c); err != nil {
		return nil, pose.ErrDecorate(err, "Evaluate")
	}
	n := p.NResidues()
	E := &Energies{Residue: make([]EnergyMap, n)}
	act := S.active()
	var emap EnergyMap
	for _, pair := range c.pairs {
		emap.Zero()
		for _, m := range act {
			if m.Category().TwoBody() {
				m.ResiduePairEnergy(p, pair[0], pair[1], c, &emap)
			}
		}
		E.Residue[pair[0]].AccumulateScaled(0.5, &emap)
		E.Residue[pair[1]].AccumulateScaled(0.5, &emap)
		E.Total.Accumulate(&emap)
	}
	for r := 0; r < n; r++ {
		emap.Zero()
		for _, m := range act {
			if m.Category() != WholeStructure {
				m.IntraResidueEnergy(p, r, c, &emap)
			}
		}
		E.Residue[r].Accumulate(&emap)
		E.Total.Accumulate(&emap)
	}
	emap.Zero()
	for _, m := range act {
		m.FinalizeTotalEnergy(p, c, &emap)
	}
	E.Total.Accumulate(&emap)
	E.Score = E.Total.Dot(&S.weights)
	return E, nil
}

//Score returns the weighted total score of p.
func (S *ScoreFunction) Score(p *pose.Pose, c *Cache) (float64, error) {
	E, err := S.Evaluate(p, c)
	if err != nil {
		return 0, pose.ErrDecorate(err, "Score")
	}
	return E.Score, nil
}

//ResidueEnergy returns the weighted energy of residue r: its one-body energy plus all its pair
//energies (not split). The cache must have been set up for p.
func (S *ScoreFunction) ResidueEnergy(p *pose.Pose, c *Cache, r int) (float64, error) {
	if !c.built || c.version != p.TopologyVersion() {
		return 0, pose.Errorf("ResidueEnergy", "Cache not set up for scoring this pose")
	}
	var emap EnergyMap
	act := S.active()
	for _, j := range c.Neighbors(r) {
		r1, r2 := r, j
		if j < r {
			r1, r2 = j, r
		}
		for _, m := range act {
			if m.Category().TwoBody() {
				m.ResiduePairEnergy(p, r1, r2, c, &emap)
			}
		}
	}
	for _, m := range act {
		if m.Category() != WholeStructure {
			m.IntraResidueEnergy(p, r, c, &emap)
		}
	}
	return emap.Dot(&S.weights), nil
}

//SetupForDerivatives sets up the cache for scoring and for derivative evaluation.
func (S *ScoreFunction) SetupForDerivatives(p *pose.Pose, c *Cache) error {
	if err := S.SetupForScoring(p, c); err != nil {
		return pose.ErrDecorate(err, "SetupForDerivatives")
	}
	for _, m := range S.active() {
		if err := m.SetupForDerivatives(p, c); err != nil {
			return pose.ErrDecorate(err, "SetupForDerivatives "+m.Name())
		}
	}
	c.derivReady = true
	return nil
}

//EvalDerivatives returns the F1 and F2 vectors of every atom of p. SetupForDerivatives
//must have been called on the same cache, for a pose with the same topology.
func (S *ScoreFunction) EvalDerivatives(p *pose.Pose, c *Cache) (*Derivatives, error) {
	if c == nil || !c.derivReady || c.version != p.TopologyVersion() {
		return nil, pose.Errorf("EvalDerivatives", "Derivatives requested before SetupForDerivatives")
	}
	d := NewDerivatives(p.Len())
	for _, m := range S.active() {
		m.EvalAtomDerivatives(p, c, &S.weights, d)
	}
	return d, nil
}

func (S *ScoreFunction) String() string {
	s := make([]string, 0, len(S.methods)+1)
	s = append(s, fmt.Sprintf("ScoreFunction %s", S.Name))
	for _, m := range S.methods {
		w := make([]string, 0, 2)
		for _, t := range m.ScoreTypes() {
			w = append(w, fmt.Sprintf("%s=%.3f", t, S.weights[t]))
		}
		s = append(s, fmt.Sprintf("  %s (%s): %s", m.Name(), m.Category(), strings.Join(w, " ")))
	}
	return strings.Join(s, "\n")
}
