/*
 * plot.go, part of gopose.
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

package mcplot

import (
	"fmt"
	"image/color"
	"math"

	pose "github.com/rmera/gopose"
	"github.com/rmera/gopose/montecarlo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

//ScorePlot plots the accepted scores of the trace against the trial number, as a line,
//the rejected trials as gray points and the running lowest score as a dashed line.
//The format is taken from the extension of filename (png, svg, pdf, eps...).
func ScorePlot(t *Trace, title, filename string) error {
	if t == nil || t.Len() == 0 {
		return pose.NewError("mcplot: Given an empty trace", "ScorePlot", true)
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Trial"
	p.Y.Label.Text = "Score"
	p.Add(plotter.NewGrid())
	var acc, rej, low plotter.XYs
	best := math.Inf(1)
	for i := 0; i < t.Len(); i++ {
		trial, score, s := t.Point(i)
		pt := plotter.XY{X: float64(trial), Y: score}
		if s == montecarlo.Rejected {
			rej = append(rej, pt)
			continue
		}
		acc = append(acc, pt)
		best = math.Min(best, score)
		low = append(low, plotter.XY{X: pt.X, Y: best})
	}
	if len(acc) > 0 {
		l, err := plotter.NewLine(acc)
		if err != nil {
			return pose.ErrDecorate(err, "ScorePlot")
		}
		r, g, b := colors(0, 3)
		l.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		lw, err := plotter.NewLine(low)
		if err != nil {
			return pose.ErrDecorate(err, "ScorePlot")
		}
		lw.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(l, lw)
		p.Legend.Add("accepted", l)
		p.Legend.Add("lowest", lw)
	}
	if len(rej) > 0 {
		s, err := plotter.NewScatter(rej)
		if err != nil {
			return pose.ErrDecorate(err, "ScorePlot")
		}
		s.GlyphStyle.Color = color.Gray{Y: 160}
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
		p.Legend.Add("rejected", s)
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return pose.ErrDecorate(err, "ScorePlot")
	}
	return nil
}

func basicRamaPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Phi"
	p.Y.Label.Text = "Psi"
	//Constant axes
	p.X.Min = -180
	p.X.Max = 180
	p.Y.Min = -180
	p.Y.Max = 180
	p.Add(plotter.NewGrid())
	return p
}

//RamaData returns the phi and psi angles, in degrees, of the given residues of p
//(all of them if residues is nil). Residues without both angles defined, such as chain
//termini, are skipped. The second value returned contains the index of the residue
//corresponding to each pair of angles.
func RamaData(p *pose.Pose, residues []int) ([][]float64, []int) {
	if residues == nil {
		residues = make([]int, p.NResidues())
		for i := range residues {
			residues[i] = i
		}
	}
	ret := make([][]float64, 0, len(residues))
	idx := make([]int, 0, len(residues))
	for _, r := range residues {
		phi := pose.TorsionID{Kind: pose.Phi, Res: r}
		psi := pose.TorsionID{Kind: pose.Psi, Res: r}
		if !p.TorsionDefined(phi) || !p.TorsionDefined(psi) {
			continue
		}
		ret = append(ret, []float64{p.Torsion(phi), p.Torsion(psi)})
		idx = append(idx, r)
	}
	return ret, idx
}

//RamaPlot produces a Ramachandran plot of the given residues of p (all if nil).
//Each residue gets its own color, and the residues in tag (maximum 4) are highlighted
//with a different shape.
func RamaPlot(p *pose.Pose, residues, tag []int, title, filename string) error {
	data, idx := RamaData(p, residues)
	if len(data) == 0 {
		return pose.NewError("mcplot: No residue with defined phi and psi", "RamaPlot", true)
	}
	pl := basicRamaPlot(title)
	temp := make(plotter.XYs, 1)
	var tagged int //How many residues have been tagged?
	for key, val := range data {
		temp[0].X = val[0]
		temp[0].Y = val[1]
		s, err := plotter.NewScatter(temp)
		if err != nil {
			return pose.ErrDecorate(err, "RamaPlot")
		}
		r, g, b := colors(key, len(data))
		if isInInt(tag, idx[key]) {
			s.GlyphStyle.Shape, err = getShape(tagged)
			if err != nil {
				return pose.ErrDecorate(err, "RamaPlot")
			}
			tagged++
		}
		s.GlyphStyle.Color = color.RGBA{R: r, B: b, G: g, A: 255}
		pl.Add(s)
	}
	if err := pl.Save(4*vg.Inch, 4*vg.Inch, filename); err != nil {
		return pose.ErrDecorate(err, "RamaPlot")
	}
	return nil
}

func getShape(tagged int) (draw.GlyphDrawer, error) {
	switch tagged {
	case 0:
		return draw.PyramidGlyph{}, nil
	case 1:
		return draw.CircleGlyph{}, nil
	case 2:
		return draw.SquareGlyph{}, nil
	case 3:
		return draw.CrossGlyph{}, nil
	default:
		return draw.RingGlyph{}, pose.NewError(fmt.Sprintf("mcplot: Only 4 residues can be tagged, got at least %d", tagged+1), "getShape", false)
	}
}

//takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conversion), uint8(g * conversion), uint8(b * conversion)
}

//colors spreads steps hues over the wheel, skipping yellow.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64(key)*norm + 20.0
	h := hp + 20.0
	if hp < 55 {
		h = hp - 20.0
	}
	return iHVS2RGB(h, 1, 1)
}

func isInInt(container []int, test int) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
