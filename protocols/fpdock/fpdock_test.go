/*
 * fpdock_test.go, part of gopose.
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

package fpdock

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/montecarlo"
	"github.com/rmera/gopose/moves"
	"github.com/rmera/gopose/scoring"
	"github.com/rmera/gopose/scoring/methods"
	"gonum.org/v1/gonum/spatial/r3"
)

//complexPose returns a receptor in chain A and a peptide in chain B, close to each other,
//with the default fold tree.
func complexPose(Te *testing.T) *pose.Pose {
	p, err := pose.Build("AGSVLKDFEK", "A", -63, -43)
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.AppendChain("TEIKS", "B", -120, 130); err != nil {
		Te.Fatal(err)
	}
	p.TransformAtoms(p.ChainAtoms("B"), pose.RotationMatrix(r3.Vec{Y: 1}, 0.4), r3.Vec{}, r3.Vec{X: 4, Y: 8, Z: 2})
	return p
}

func rng(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, 7)) }

//shift always translates the downstream partner of jump 0 by the same vector.
type shift struct {
	t      r3.Vec
	status moves.Status
}

func (S *shift) Name() string         { return "shift" }
func (S *shift) Status() moves.Status { return S.status }
func (S *shift) Clone() moves.Mover   { return &shift{t: S.t} }
func (S *shift) Apply(p *pose.Pose) error {
	p.TransformJump(0, pose.Eye3(), r3.Vec{}, S.t)
	S.status = moves.Success
	return nil
}

func TestRampWeight(Te *testing.T) {
	W := 0.44
	N := 10
	for i := 1; i <= N; i++ {
		exp := 0.02 + ((W-0.02)/float64(N-1))*float64(i-1)
		if w := RampWeight(0.02, W, N, i); w != exp {
			Te.Errorf("Stage %d: ramped weight %v, expected %v", i, w, exp)
		}
	}
	if w := RampWeight(0.02, W, N, N); math.Abs(w-W) > 1e-12 {
		Te.Errorf("Last stage should have the final weight, got %v", w)
	}
	if w := RampWeight(0.02, W, 1, 1); w != W {
		Te.Errorf("A single stage should use the final weight, got %v", w)
	}
}

func TestMCMConstantScore(Te *testing.T) {
	p := complexPose(Te)
	sf := methods.ConstantScore(5)
	//for the docking fold tree.
	if _, err := (&Protocol{Flags: DefaultFlags(), Sf: sf, rng: rng(1)}).setup(p); err != nil {
		Te.Fatal(err)
	}
	mc, err := montecarlo.New(p, sf, Temperature, rng(2))
	if err != nil {
		Te.Fatal(err)
	}
	before := p.XYZ(p.ChainAtoms("B")[0])
	cycle := NewMCMCycle(1, sf, rng(3), &shift{t: r3.Vec{X: 1.5}})
	if err := cycle.Run(p, mc); err != nil {
		Te.Fatal(err)
	}
	if cycle.Accepted() != 1 || mc.LastStatus() != montecarlo.Accepted {
		Te.Errorf("Equal scores must be accepted, got %d accepted, status %s", cycle.Accepted(), mc.LastStatus())
	}
	if mc.LowestScore() != 5 {
		Te.Errorf("Lowest score should be 5, got %v", mc.LowestScore())
	}
	lp := mc.LowestScorePose()
	if s, err := sf.Score(lp, scoring.NewCache()); err != nil || s != 5 {
		Te.Errorf("Lowest score pose scores %v (%v)", s, err)
	}
	//the move is accepted, but an equal score does not replace the lowest pose,
	//which is recovered at the end of the cycle.
	atom := p.ChainAtoms("B")[0]
	if d := r3.Norm(r3.Sub(mc.LastAcceptedPose().XYZ(atom), before)); math.Abs(d-1.5) > 1e-9 {
		Te.Errorf("The last accepted pose should have the move: moved %v", d)
	}
	if d := r3.Norm(r3.Sub(p.XYZ(atom), before)); d > 1e-9 {
		Te.Errorf("The pose should be the lowest one, the starting pose: moved %v", d)
	}
	if err := NewMCMCycle(1, sf, nil).Run(p, mc); err == nil {
		Te.Error("An MCM simulation without movers should fail")
	}
}

//away moves the peptide further from the receptor on each call. Before moving, it
//records whether the pose differs from the last accepted one after a rejection.
type away struct {
	shift
	mc         *montecarlo.MonteCarlo
	rejections int
	dirty      int
}

func (A *away) Apply(p *pose.Pose) error {
	if A.mc.Trials() > 0 && A.mc.LastStatus() == montecarlo.Rejected {
		A.rejections++
		last := A.mc.LastAcceptedPose()
		for i := 0; i < p.Len(); i++ {
			if r3.Norm(r3.Sub(p.XYZ(i), last.XYZ(i))) > 1e-9 {
				A.dirty++
				break
			}
		}
	}
	return A.shift.Apply(p)
}

func TestMCMRestoresRejected(Te *testing.T) {
	p := complexPose(Te)
	if _, err := (&Protocol{Flags: DefaultFlags(), Sf: methods.ConstantScore(0), rng: rng(1)}).setup(p); err != nil {
		Te.Fatal(err)
	}
	rca, pca := p.Residue(4).AtomIndex("CA"), p.Residue(12).AtomIndex("CA")
	d0 := r3.Norm(r3.Sub(p.XYZ(pca), p.XYZ(rca)))
	sf := scoring.NewScoreFunction("pair")
	sf.AddMethod(&methods.AtomPairConstraint{Pairs: []methods.AtomPair{{A: rca, B: pca, D0: d0, SD: 1}}})
	sf.SetWeight(scoring.AtomPairConstraint, 1)
	mc, err := montecarlo.New(p, sf, Temperature, rng(2))
	if err != nil {
		Te.Fatal(err)
	}
	start := p.Copy()
	dir := r3.Unit(r3.Sub(p.XYZ(pca), p.XYZ(rca)))
	mover := &away{shift: shift{t: r3.Scale(3, dir)}, mc: mc}
	cycle := NewMCMCycle(6, sf, rng(3), mover)
	cycle.RTResidues = []int{}
	obs := 0
	mc.SetObserver(montecarlo.ObserverFunc(func(trial int, score float64, s montecarlo.Status, q *pose.Pose) {
		if s == montecarlo.Rejected && score <= mc.LastAcceptedScore() {
			Te.Errorf("Trial %d with score %f rejected against %f", trial, score, mc.LastAcceptedScore())
		}
		obs++
	}))
	if err := cycle.Run(p, mc); err != nil {
		Te.Fatal(err)
	}
	if obs != 6 {
		Te.Errorf("Expected 6 trials, observed %d", obs)
	}
	if mover.rejections == 0 {
		Te.Fatal("Worsening moves of 3 A should be rejected at least once")
	}
	if mover.dirty != 0 {
		Te.Errorf("%d of %d rejected trials were not undone", mover.dirty, mover.rejections)
	}
	//nothing beats the start, so it is the lowest pose and the final one.
	for i := 0; i < p.Len(); i++ {
		if r3.Norm(r3.Sub(p.XYZ(i), start.XYZ(i))) > 1e-9 {
			Te.Fatalf("The final pose is not the starting one, atom %d differs", i)
		}
	}
}

func TestInterfacePacker(Te *testing.T) {
	p := complexPose(Te)
	R, err := (&Protocol{Flags: DefaultFlags(), Sf: methods.ConstantScore(0), rng: rng(4)}).setup(p)
	if err != nil {
		Te.Fatal(err)
	}
	pk, ok := R.packer(R.sf).(*interfacePacker)
	if !ok {
		Te.Fatalf("Docking runs should pack the interface, got %T", R.packer(R.sf))
	}
	if err := pk.Apply(p); err != nil {
		Te.Fatal(err)
	}
	in := moves.Interface(p, R.rec, R.pep, moves.DefaultInterfaceCutoff)
	if len(in) == 0 || len(pk.Residues) != len(in) {
		Te.Fatalf("Packed %v, the interface is %v", pk.Residues, in)
	}
	//the same packer, once the partners are apart, has nothing to pack.
	p.TransformJump(0, pose.Eye3(), r3.Vec{}, R.separationVec(p, separation))
	if err := pk.Apply(p); err != nil {
		Te.Fatal(err)
	}
	if len(pk.Residues) != 0 {
		Te.Errorf("Packed %v with the partners %.0f A apart", pk.Residues, separation)
	}
	F := DefaultFlags()
	F.PepFoldOnly = true
	R.Flags = F
	if all, ok := R.packer(R.sf).(*moves.PackRotamers); !ok || all.Residues != nil {
		Te.Error("Folding only the peptide should pack every residue")
	}
}

func TestFilterFailed(Te *testing.T) {
	p := complexPose(Te)
	F := DefaultFlags()
	F.TorsionsMCM = false
	F.MCMCycles = 1
	F.RepRampCycles = 1
	F.ScoreFilter = 1 //a constant score of 5 never passes.
	F.MaxFilterRetries = 2
	proto, err := NewProtocol(F, methods.ConstantScore(5), rng(3))
	if err != nil {
		Te.Fatal(err)
	}
	res, err := proto.Apply(p)
	if err != nil {
		Te.Fatal(err)
	}
	if res.Status != FilterFailed || res.Attempts != 3 {
		Te.Errorf("Expected FilterFailed after 3 attempts, got %s after %d", res.Status, res.Attempts)
	}
	F.ScoreFilter = 6
	res, err = proto.Apply(complexPose(Te))
	if err != nil {
		Te.Fatal(err)
	}
	if res.Status != Success || res.Attempts != 1 {
		Te.Errorf("Expected Success in the first attempt, got %s after %d", res.Status, res.Attempts)
	}
	if res.Stats["total_score"] != 5 || res.Stats["I_sc"] != 0 {
		Te.Errorf("Wrong statistics for a constant score: %v", res.Stats)
	}
}

func TestProtocol(Te *testing.T) {
	p := complexPose(Te)
	oldft := p.FoldTree().String()
	F := DefaultFlags()
	F.MCMCycles = 2
	F.RepRampCycles = 2
	F.MinReceptorBB = true
	sf := methods.Standard()
	proto, err := NewProtocol(F, sf, rng(4))
	if err != nil {
		Te.Fatal(err)
	}
	res, err := proto.Apply(p)
	if err != nil {
		Te.Fatal(err)
	}
	if res.Status != Success {
		Te.Errorf("Unexpected status %s", res.Status)
	}
	//2 stages with a rigid body and a torsion MCM of 2 cycles each.
	if res.Trace.Len() != 8 {
		Te.Errorf("Expected 8 Monte Carlo trials, got %d", res.Trace.Len())
	}
	for _, k := range []string{"total_score", "I_sc", "pep_sc", "pep_sc_noref", "reweighted_sc", "startRMSca", "rmsCA", "rmsBB", "rmsALL", "fnat"} {
		if _, ok := res.Stats[k]; !ok {
			Te.Errorf("Missing statistic %s", k)
		}
	}
	if res.Stats["startRMSca"] > 1e-9 {
		Te.Errorf("The input is the reference, but its RMSD is %v", res.Stats["startRMSca"])
	}
	score, err := sf.Score(res.Pose, scoring.NewCache())
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(score-res.Stats["total_score"]) > 1e-6 {
		Te.Errorf("Reported score %v, the pose scores %v", res.Stats["total_score"], score)
	}
	if p.FoldTree().String() != oldft {
		Te.Errorf("Fold tree not restored: %s", p.FoldTree())
	}
}

func TestRunDecoys(Te *testing.T) {
	p := complexPose(Te)
	F := DefaultFlags()
	F.TorsionsMCM = false
	F.MCMCycles = 2
	F.RepRampCycles = 1
	proto, err := NewProtocol(F, methods.Standard(), rng(5))
	if err != nil {
		Te.Fatal(err)
	}
	ref := p.Copy()
	a, err := RunDecoys(p, proto, 3, 2, 11)
	if err != nil {
		Te.Fatal(err)
	}
	b, err := RunDecoys(p, proto, 1, 1, 11)
	if err != nil {
		Te.Fatal(err)
	}
	if a[0].Stats["total_score"] != b[0].Stats["total_score"] {
		Te.Errorf("Decoys with the same seed differ: %v %v", a[0].Stats["total_score"], b[0].Stats["total_score"])
	}
	tags := make(map[string]bool)
	for _, r := range a {
		tags[r.Tag] = true
	}
	if len(tags) != 3 {
		Te.Errorf("Decoy tags are not unique: %v", tags)
	}
	for i := 0; i < p.Len(); i++ {
		if p.XYZ(i) != ref.XYZ(i) {
			Te.Fatal("RunDecoys modified the input pose")
		}
	}
}

func TestStartPerturbations(Te *testing.T) {
	p := complexPose(Te)
	F := DefaultFlags()
	F.Extend = true
	R, err := (&Protocol{Flags: F, Sf: methods.Standard(), rng: rng(6)}).setup(p)
	if err != nil {
		Te.Fatal(err)
	}
	rec := p.Select(R.rec, nil)
	before := p.Copy()
	R.extend(p)
	for _, r := range R.pep[1 : len(R.pep)-1] {
		if math.Abs(p.Phi(r)+135) > 1e-6 || math.Abs(p.Psi(r)-135) > 1e-6 {
			Te.Errorf("Residue %d not extended: %v %v", r, p.Phi(r), p.Psi(r))
		}
	}
	for _, a := range rec {
		if p.XYZ(a) != before.XYZ(a) {
			Te.Fatal("Extending the peptide moved the receptor")
		}
	}
	last := R.pep[len(R.pep)-1]
	ext := p.Copy()
	if err := R.loopModel(p, R.sf); err != nil {
		Te.Fatal(err)
	}
	if math.Abs(pose.WrapDeg(p.Phi(last)-ext.Phi(last))) > 1e-6 || math.Abs(pose.WrapDeg(p.Psi(last)-ext.Psi(last))) > 1e-6 {
		Te.Errorf("Loop modelling changed the last peptide residue: %v %v", p.Phi(last), p.Psi(last))
	}
	for _, a := range rec {
		if r3.Norm(r3.Sub(p.XYZ(a), before.XYZ(a))) > 1e-9 {
			Te.Fatal("Loop modelling of the peptide moved the receptor")
		}
	}
	cen := func(q *pose.Pose) r3.Vec { return moves.Centroid(q, q.Select(R.pep, pose.IsProteinCA)) }
	c0 := cen(p)
	if err := R.prepack(p); err != nil {
		Te.Fatal(err)
	}
	if r3.Norm(r3.Sub(cen(p), c0)) > 1e-6 {
		Te.Errorf("Prepacking moved the peptide from %v to %v", c0, cen(p))
	}
}

func TestFlags(Te *testing.T) {
	F, err := DecodeFlags(strings.NewReader(`{"mcm_cycles": 3, "peptide_chain": "C", "ramp_rama": true}`))
	if err != nil {
		Te.Fatal(err)
	}
	if F.MCMCycles != 3 || F.PeptideChain != "C" || !F.RampRama || F.RepRampCycles != 10 || F.ScoreFilter != NoScoreFilter {
		Te.Errorf("Wrong flags decoded: %+v", F)
	}
	if _, err := DecodeFlags(strings.NewReader(`{"no_such_flag": 1}`)); err == nil {
		Te.Error("Unknown flags should be rejected")
	}
	if _, err := DecodeFlags(strings.NewReader(`{"rep_ramp_cycles": 0}`)); err == nil {
		Te.Error("Zero ramping stages should be rejected")
	}
	if _, err := NewProtocol(&Flags{PeptideChain: "B", ReceptorChain: "B", RepRampCycles: 1}, methods.Standard(), rng(1)); err == nil {
		Te.Error("Same receptor and peptide chain should be rejected")
	}
	if b, err := DefaultFlags().Marshal(); err != nil || !strings.Contains(string(b), `"rbMCM": true`) {
		Te.Errorf("Bad JSON for the default flags: %s %v", b, err)
	}
}
