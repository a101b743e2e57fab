/*
 * flags.go, part of gopose.
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
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"

	pose "github.com/rmera/gopose"
)

//NoScoreFilter is the value of Flags.ScoreFilter that disables the score filter.
const NoScoreFilter = 10000.0

//Flags control which parts of the protocol are run, and with which parameters.
type Flags struct {
	RbMCM                bool    `json:"rbMCM"`                    //run rigid body MCM cycles.
	TorsionsMCM          bool    `json:"torsionsMCM"`              //run peptide torsion MCM cycles.
	MCMCycles            int     `json:"mcm_cycles"`               //MCM cycles per ramping stage.
	RbTransSize          float64 `json:"rb_trans_size"`            //translation (A) of the random rigid body start.
	RbRotSize            float64 `json:"rb_rot_size"`              //rotation (degrees) of the random rigid body start.
	RepRampCycles        int     `json:"rep_ramp_cycles"`          //ramping stages.
	ScoreFilter          float64 `json:"score_filter"`             //final structures must score lower than this. NoScoreFilter disables it.
	MinReceptorBB        bool    `json:"min_receptor_bb"`          //let the minimizer move the receptor backbone, restrained to the start.
	RampFaRep            bool    `json:"ramp_fa_rep"`              //ramp the repulsive weight.
	RampRama             bool    `json:"ramp_rama"`                //ramp the Ramachandran weight.
	BoostFaAtr           bool    `json:"boost_fa_atr"`             //boost the attractive weight in the early stages.
	PeptideLoopModel     bool    `json:"peptide_loop_model"`       //refine the peptide, except its last residue, as a loop in every stage.
	PepFoldOnly          bool    `json:"pep_fold_only"`            //fold the peptide alone, no docking.
	MinOnly              bool    `json:"min_only"`                 //only minimize the input.
	PrepackOnly          bool    `json:"ppk_only"`                 //only prepack the input.
	Extend               bool    `json:"extend"`                   //start from an extended peptide.
	RandomPhiPsiPert     bool    `json:"random_phi_psi_pert"`      //randomly perturb the peptide phi and psi angles before docking.
	RandomPhiPsiPertSize float64 `json:"random_phi_psi_pert_size"` //maximum size (degrees) of the previous perturbations.
	RandomRBStart        bool    `json:"randomRBstart"`            //randomly perturb the peptide placement before docking.
	SlideIntoContact     bool    `json:"slideintocontact"`         //slide the peptide into contact with the receptor before docking.
	SmoveAngleRange      float64 `json:"smove_angle_range"`        //maximum angle (degrees) of small and shear moves.
	MaxFilterRetries     int     `json:"max_filter_retries"`       //times the run is restarted when the filter is not passed.
	ReceptorChain        string  `json:"receptor_chain"`
	PeptideChain         string  `json:"peptide_chain"`
	Verbose              int     `json:"verbose"` //0 is silent.
}

//DefaultFlags returns the flags for a standard refinement run: rigid body and torsion MCM
//over 10 ramping stages of 8 cycles each, for a peptide in chain B docked onto chain A.
func DefaultFlags() *Flags {
	return &Flags{
		RbMCM:                true,
		TorsionsMCM:          true,
		MCMCycles:            8,
		RbTransSize:          1.0,
		RbRotSize:            15,
		RepRampCycles:        10,
		ScoreFilter:          NoScoreFilter,
		RampFaRep:            true,
		BoostFaAtr:           true,
		RandomPhiPsiPertSize: 30,
		SmoveAngleRange:      6,
		MaxFilterRetries:     10,
		ReceptorChain:        "A",
		PeptideChain:         "B",
	}
}

//LoadFlags reads flags from a JSON file. Fields absent from the file keep their default values.
func LoadFlags(name string) (*Flags, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, pose.ErrDecorate(err, "LoadFlags")
	}
	defer f.Close()
	return DecodeFlags(f)
}

//DecodeFlags reads flags in JSON format from r, on top of the default ones.
func DecodeFlags(r io.Reader) (*Flags, error) {
	F := DefaultFlags()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(F); err != nil {
		return nil, pose.Errorf("DecodeFlags", "Can't decode flags: %s", err.Error())
	}
	if err := F.Validate(); err != nil {
		return nil, pose.ErrDecorate(err, "DecodeFlags")
	}
	return F, nil
}

//Validate returns an error if the flags can't be used for a run.
func (F *Flags) Validate() error {
	switch {
	case F.MCMCycles < 0:
		return pose.Errorf("Flags.Validate", "Negative number of MCM cycles: %d", F.MCMCycles)
	case F.RepRampCycles < 1:
		return pose.Errorf("Flags.Validate", "At least one ramping stage is needed, got %d", F.RepRampCycles)
	case F.MaxFilterRetries < 0:
		return pose.Errorf("Flags.Validate", "Negative number of filter retries: %d", F.MaxFilterRetries)
	case F.RbTransSize < 0 || F.RbRotSize < 0 || F.SmoveAngleRange < 0 || F.RandomPhiPsiPertSize < 0:
		return pose.Errorf("Flags.Validate", "Perturbation sizes can't be negative")
	case F.PeptideChain == "":
		return pose.Errorf("Flags.Validate", "No peptide chain given")
	case !F.PepFoldOnly && (F.ReceptorChain == "" || F.ReceptorChain == F.PeptideChain):
		return pose.Errorf("Flags.Validate", "Invalid receptor chain %q for peptide chain %q", F.ReceptorChain, F.PeptideChain)
	case F.MinOnly && F.PrepackOnly:
		return pose.Errorf("Flags.Validate", "min_only and ppk_only are mutually exclusive")
	}
	return nil
}

//Marshal returns the flags in JSON format.
func (F *Flags) Marshal() ([]byte, error) {
	return json.MarshalIndent(F, "", "  ")
}

var (
	logmu  sync.Mutex
	logger = log.New(os.Stderr, "fpdock: ", log.LstdFlags)
)

//SetLogger sets the logger used by the protocol for the messages allowed by
//Flags.Verbose. A nil logger discards all messages.
func SetLogger(l *log.Logger) {
	logmu.Lock()
	defer logmu.Unlock()
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	logger = l
}

//logf prints the message if level is not above the verbosity.
func (F *Flags) logf(level int, format string, a ...interface{}) {
	if level > F.Verbose {
		return
	}
	logmu.Lock()
	l := logger
	logmu.Unlock()
	l.Printf(format, a...)
}
