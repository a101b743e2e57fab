/*
 * montecarlo_test.go, part of gopose.
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

package montecarlo

import (
	"fmt"
	"math/rand/v2"
	"testing"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/scoring"
	"github.com/rmera/gopose/scoring/methods"
	"gonum.org/v1/gonum/spatial/r3"
)

//xPos scores a pose by the x coordinate of its first atom.
type xPos struct {
	scoring.Base
}

func (X *xPos) Name() string                    { return "xpos" }
func (X *xPos) Category() scoring.Category      { return scoring.WholeStructure }
func (X *xPos) ScoreTypes() []scoring.ScoreType { return []scoring.ScoreType{scoring.Dummy} }
func (X *xPos) Clone() scoring.Method           { return &xPos{} }
func (X *xPos) FinalizeTotalEnergy(p *pose.Pose, c *scoring.Cache, emap *scoring.EnergyMap) {
	emap.Add(scoring.Dummy, p.XYZ(0).X)
}

func xPosScore() *scoring.ScoreFunction {
	sf := scoring.NewScoreFunction("xpos")
	sf.AddMethod(&xPos{})
	sf.SetWeight(scoring.Dummy, 1)
	return sf
}

func toyAt(Te *testing.T, x float64) *pose.Pose {
	p := pose.NewPose()
	if err := p.AppendToy(pose.ToyType("X", 1, 0.1, 0), "A", r3.Vec{X: x}); err != nil {
		Te.Fatal(err)
	}
	return p
}

//countingRNG returns the values in vals in turn and counts the calls.
type countingRNG struct {
	vals  []float64
	calls int
}

func (C *countingRNG) Float64() float64 {
	v := C.vals[C.calls%len(C.vals)]
	C.calls++
	return v
}
func (C *countingRNG) NormFloat64() float64 { return 0 }
func (C *countingRNG) IntN(n int) int       { return 0 }

func TestMonotonicAcceptance(Te *testing.T) {
	rng := &countingRNG{vals: []float64{0.99}}
	p := toyAt(Te, 10)
	mc, err := New(p, xPosScore(), 0.8, rng)
	if err != nil {
		Te.Fatal(err)
	}
	for _, x := range []float64{10, 9, 9, 3, -1, -1.5} {
		ok, err := mc.Boltzmann(toyAt(Te, x))
		if err != nil {
			Te.Fatal(err)
		}
		if !ok || mc.LastStatus() != Accepted {
			Te.Errorf("Score %f not accepted", x)
		}
	}
	if rng.calls != 0 {
		Te.Errorf("The RNG was used %d times for non-increasing scores", rng.calls)
	}
	if mc.Trials() != 6 || mc.Accepts() != 6 || mc.LowestScore() != -1.5 {
		Te.Errorf("Wrong counters: %s", mc)
	}
}

func TestEqualScoreConstant(Te *testing.T) {
	p := toyAt(Te, 0)
	mc, err := New(p, methods.ConstantScore(10), 0.8, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		Te.Fatal(err)
	}
	p.SetXYZ(0, r3.Vec{X: 3, Y: 1})
	ok, _ := mc.Boltzmann(p)
	if !ok || mc.LastAcceptedScore() != 10 {
		Te.Errorf("Equal score not accepted: %s", mc)
	}
	if mc.LastAcceptedPose().XYZ(0) != p.XYZ(0) {
		Te.Errorf("Accepted pose not stored")
	}
}

func TestThermal(Te *testing.T) {
	//exp(-1/0.8)=0.2865
	rng := &countingRNG{vals: []float64{0.5, 0.1}}
	p := toyAt(Te, 0)
	mc, _ := New(p, xPosScore(), 0.8, rng)
	cand := toyAt(Te, 1)
	if ok, _ := mc.Boltzmann(cand); ok || mc.LastStatus() != Rejected {
		Te.Errorf("Move should have been rejected")
	}
	if cand.XYZ(0).X != 1 {
		Te.Errorf("The rejected pose was modified")
	}
	mc.RestoreLastAccepted(cand)
	if cand.XYZ(0).X != 0 {
		Te.Errorf("Last accepted pose not restored")
	}
	cand = toyAt(Te, 1)
	if ok, _ := mc.Boltzmann(cand); !ok || mc.LastStatus() != ThermallyAccepted {
		Te.Errorf("Move should have been thermally accepted")
	}
	if mc.LowestScore() != 0 || mc.LastAcceptedScore() != 1 {
		Te.Errorf("Wrong scores %s", mc)
	}
	mc.SetTemperature(0)
	if ok, _ := mc.Boltzmann(toyAt(Te, 1.5)); ok {
		Te.Errorf("Greedy controller accepted a higher score")
	}
	if rng.calls != 2 {
		Te.Errorf("Expected 2 RNG calls, got %d", rng.calls)
	}
	mc.RecoverLow(cand)
	if cand.XYZ(0).X != 0 || mc.LastAcceptedScore() != 0 {
		Te.Errorf("RecoverLow failed")
	}
}

func TestLowestTracking(Te *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	p := toyAt(Te, 5)
	mc, _ := New(p, xPosScore(), 2, rng)
	var trace []float64
	mc.SetObserver(ObserverFunc(func(trial int, score float64, s Status, p *pose.Pose) {
		trace = append(trace, score)
	}))
	best := 5.0
	for i := 0; i < 200; i++ {
		x := mc.LastAcceptedScore() + rng.NormFloat64()
		if _, err := mc.Boltzmann(toyAt(Te, x)); err != nil {
			Te.Fatal(err)
		}
		if x < best {
			best = x
		}
	}
	for _, v := range trace {
		if mc.LowestScore() > v {
			Te.Errorf("Lowest score %f higher than candidate %f", mc.LowestScore(), v)
		}
	}
	if mc.LowestScore() != best || mc.LowestScorePose().XYZ(0).X != best {
		Te.Errorf("Lowest score %f, expected %f", mc.LowestScore(), best)
	}
	if len(trace) != mc.Trials() {
		Te.Errorf("Observer called %d times for %d trials", len(trace), mc.Trials())
	}
	fmt.Println(mc, mc.AcceptanceRate())
}

func TestUnconstructed(Te *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			Te.Errorf("Unconstructed controller did not panic")
		}
	}()
	var mc *MonteCarlo
	mc.LowestScore()
}

func TestNewErrors(Te *testing.T) {
	if _, err := New(toyAt(Te, 0), xPosScore(), 1, nil); err == nil {
		Te.Errorf("Controller with positive temperature and no RNG accepted")
	}
	if _, err := New(nil, xPosScore(), 0, nil); err == nil {
		Te.Errorf("Nil pose accepted")
	}
}
