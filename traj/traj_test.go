/*
 * traj_test.go, part of gopose.
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

package traj

import (
	"fmt"
	"math"
	"math/rand/v2"
	"path/filepath"
	"testing"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/montecarlo"
	"github.com/rmera/gopose/scoring/methods"
	v3 "github.com/rmera/gopose/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestRoundTrip(Te *testing.T) {
	for _, name := range []string{"test.stf", "test.stz"} {
		//the frames change p, so each file starts from a fresh build.
		p, err := pose.Build("AGSVLK", "A", -63, -43)
		if err != nil {
			Te.Fatal(err)
		}
		name = filepath.Join(Te.TempDir(), name)
		w, err := NewWriter(name, p.Len(), map[string]string{"sequence": p.Sequence(), "prec": "3"})
		if err != nil {
			Te.Fatal(err)
		}
		for i := 0; i < 3; i++ {
			if err := w.WNext(p.Coords(), Frame{Trial: i, Score: -float64(i) * 1.5, Status: "Accepted"}); err != nil {
				Te.Fatal(err)
			}
			p.SetPhi(2, -60+float64(i)*10)
		}
		if err := w.WNext(v3.Zeros(2), Frame{}); err == nil {
			Te.Errorf("Frame with the wrong number of atoms accepted")
		}
		if err := w.Close(); err != nil {
			Te.Fatal(err)
		}
		r, header, err := NewReader(name)
		if err != nil {
			Te.Fatal(err)
		}
		if header["sequence"] != p.Sequence() || header["prec"] != "3" || r.Len() != p.Len() {
			Te.Errorf("Bad header %v", header)
		}
		c := v3.Zeros(r.Len())
		n := 0
		for ; ; n++ {
			fr, err := r.Next(c)
			if err != nil {
				if _, ok := err.(*LastFrameError); ok {
					break
				}
				Te.Fatal(err)
			}
			if fr.Trial != n || fr.Score != -float64(n)*1.5 || fr.Status != "Accepted" {
				Te.Errorf("Wrong frame data %+v", fr)
			}
			if n == 0 {
				q, _ := pose.Build("AGSVLK", "A", -63, -43)
				for i := 0; i < q.Len(); i++ {
					if d := r3.Norm(r3.Sub(c.Vec(i), q.XYZ(i))); d > math.Sqrt(3)*0.0005+1e-12 {
						Te.Errorf("Atom %d off by %f", i, d)
					}
				}
			}
		}
		if n != 3 || r.Readable() {
			Te.Errorf("Read %d frames, expected 3", n)
		}
	}
}

func TestRecorder(Te *testing.T) {
	p, _ := pose.Build("AGSV", "A", -63, -43)
	name := filepath.Join(Te.TempDir(), "mc.stf")
	w, err := NewWriter(name, p.Len(), nil)
	if err != nil {
		Te.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(1, 1))
	mc, err := montecarlo.New(p, methods.Standard(), 0.8, rng)
	if err != nil {
		Te.Fatal(err)
	}
	rec := NewRecorder(w)
	rec.AcceptedOnly = false
	mc.SetObserver(rec)
	for i := 0; i < 5; i++ {
		p.SetPsi(1, rng.Float64()*360-180)
		if ok, _ := mc.Boltzmann(p); !ok {
			mc.RestoreLastAccepted(p)
		}
	}
	w.Close()
	if rec.Err() != nil || rec.Frames() != 5 {
		Te.Errorf("Recorder wrote %d frames, error: %v", rec.Frames(), rec.Err())
	}
	r, _, err := NewReader(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	for i := 1; i <= 5; i++ {
		fr, err := r.Next(nil)
		if err != nil {
			Te.Fatal(err)
		}
		fmt.Println(fr)
		if fr.Trial != i {
			Te.Errorf("Expected trial %d, got %d", i, fr.Trial)
		}
	}
}
