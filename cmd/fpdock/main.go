/*
 * main.go, part of gopose.
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

//fpdock docks a peptide onto a receptor, both built from their sequences, with the
//flexible peptide docking protocol, and prints the statistics of the decoys in JSON format.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"strconv"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/histo"
	"github.com/rmera/gopose/mcplot"
	"github.com/rmera/gopose/protocols/fpdock"
	"github.com/rmera/gopose/scoring/methods"
	"github.com/rmera/gopose/traj"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

func Qerr(err error) {
	if err != nil {
		log.Fatal(err.Error())
	}
}

type summary struct {
	Decoys    int                  `json:"decoys"`
	Failed    int                  `json:"filter_failed"`
	Best      string               `json:"best"`
	MeanScore float64              `json:"mean_total_score"`
	StdScore  float64              `json:"std_total_score"`
	Histogram *histo.Data          `json:"total_score_histogram,omitempty"`
	Stats     []map[string]float64 `json:"stats"`
	Tags      []string             `json:"tags"`
}

//system builds the receptor as a helix in chain A and the peptide, extended, in chain B,
//with its center offset A away from the center of the receptor along x.
func system(receptor, peptide string, offset float64) (*pose.Pose, error) {
	p, err := pose.Build(receptor, "A", -63, -43)
	if err != nil {
		return nil, err
	}
	if err := p.AppendChain(peptide, "B", -135, 135); err != nil {
		return nil, err
	}
	cen := func(atoms []int) r3.Vec {
		var c r3.Vec
		for _, a := range atoms {
			c = r3.Add(c, p.XYZ(a))
		}
		return r3.Scale(1/float64(len(atoms)), c)
	}
	pep := p.ChainAtoms("B")
	t := r3.Sub(r3.Add(cen(p.ChainAtoms("A")), r3.Vec{X: offset}), cen(pep))
	p.TransformAtoms(pep, pose.Eye3(), r3.Vec{}, t)
	return p, nil
}

func main() {
	flagsfile := flag.String("flags", "", "JSON file with the protocol flags. The defaults are used if not given")
	ndecoys := flag.Int("n", 1, "Number of decoys to produce")
	workers := flag.Int("workers", 0, "Decoys produced in parallel. 0 uses all the CPUs")
	seed := flag.Uint64("seed", 1, "Random seed")
	offset := flag.Float64("offset", 9, "Initial distance, in A, between the centers of receptor and peptide")
	trajname := flag.String("traj", "", "Write the accepted Monte Carlo trials to this trajectory (zstd-compressed, gzip if the name ends in z)")
	plotname := flag.String("plot", "", "Write a score trace and a Ramachandran plot of the best decoy with this prefix (png)")
	bins := flag.Int("bins", 10, "Bins for the histogram of total scores. 0 skips the histogram")
	verbose := flag.Int("v", -1, "Verbosity level, overrides the one in the flags file")
	printflags := flag.Bool("printflags", false, "Print the default flags in JSON format and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "fpdock: Flexible peptide docking.\n Usage:\n  %s [flags] RECEPTORSEQUENCE PEPTIDESEQUENCE\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *printflags {
		b, err := fpdock.DefaultFlags().Marshal()
		Qerr(err)
		fmt.Println(string(b))
		return
	}
	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(1)
	}
	F := fpdock.DefaultFlags()
	var err error
	if *flagsfile != "" {
		F, err = fpdock.LoadFlags(*flagsfile)
		Qerr(err)
	}
	if *verbose >= 0 {
		F.Verbose = *verbose
	}
	F.ReceptorChain, F.PeptideChain = "A", "B"
	p, err := system(args[0], args[1], *offset)
	Qerr(err)
	proto, err := fpdock.NewProtocol(F, methods.Standard(), rand.New(rand.NewPCG(*seed, 0)))
	Qerr(err)
	var rec *traj.Recorder
	var w *traj.Writer
	if *trajname != "" {
		w, err = traj.NewWriter(*trajname, p.Len(), map[string]string{"receptor": args[0], "peptide": args[1], "seed": strconv.FormatUint(*seed, 10)})
		Qerr(err)
		rec = traj.NewRecorder(w)
		proto.Observer = rec
	}
	results, err := fpdock.RunDecoys(p, proto, *ndecoys, *workers, *seed)
	if w != nil {
		Qerr(w.Close())
		Qerr(rec.Err())
		log.Printf("%d frames written to %s", rec.Frames(), *trajname)
	}
	Qerr(err)
	sum := summary{Decoys: len(results)}
	scores := make([]float64, 0, len(results))
	best, bestscore := -1, math.Inf(1)
	for i, r := range results {
		s := r.Stats["total_score"]
		scores = append(scores, s)
		sum.Stats = append(sum.Stats, r.Stats)
		sum.Tags = append(sum.Tags, r.Tag)
		if r.Status == fpdock.FilterFailed {
			sum.Failed++
			continue
		}
		if s < bestscore {
			best, bestscore = i, s
		}
	}
	//JSON has no NaN, so a single decoy gets a 0 deviation.
	switch {
	case len(scores) > 1:
		sum.MeanScore, sum.StdScore = stat.MeanStdDev(scores, nil)
	case len(scores) == 1:
		sum.MeanScore = scores[0]
	}
	if *bins > 0 {
		sum.Histogram = histo.Uniform(scores, *bins)
	}
	if best >= 0 {
		sum.Best = results[best].Tag
	}
	if *plotname != "" && best >= 0 {
		Qerr(mcplot.ScorePlot(results[best].Trace, "Decoy "+results[best].Tag, *plotname+"_trace.png"))
		Qerr(mcplot.RamaPlot(results[best].Pose, results[best].Pose.ChainResidues("B"), nil, "Peptide", *plotname+"_rama.png"))
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	Qerr(enc.Encode(sum))
}
