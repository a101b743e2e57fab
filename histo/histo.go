/*
 * histo.go, part of gopose.
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

//Package histo builds histograms of the statistics collected over
//a set of decoys, such as the distribution of total scores or RMSDs.
package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Data is a 1D histogram. dividers has one element more than histo,
//bin i goes from dividers[i] (included) to dividers[i+1] (excluded).
type Data struct {
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

type jsonData struct {
	Normalized bool      `json:"normalized"`
	Total      int       `json:"total"`
	Dividers   []float64 `json:"dividers"`
	Histo      []float64 `json:"histo"`
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonData{D.normalized, D.total, D.dividers, D.histo})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a jsonData
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.Dividers) != len(a.Histo)+1 {
		return fmt.Errorf("histo: %d dividers for %d bins", len(a.Dividers), len(a.Histo))
	}
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}

//String returns a 2-line representation of the histogram, the bin limits
//and the counts.
func (D *Data) String() string {
	d := make([]string, 0, len(D.histo))
	h := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return fmt.Sprintf("Normalized: %v, TotalData: %d\n%s\n%s", D.normalized, D.total, strings.Join(d, " "), strings.Join(h, " "))
}

//NewData returns a new histogram with the given dividers, filled with rawdata,
//which can be nil. It panics if fewer than 2 dividers are given.
//rawdata is not modified.
func NewData(dividers []float64, rawdata []float64) *Data {
	if len(dividers) < 2 {
		panic("histo: at least 2 dividers are needed")
	}
	d := new(Data)
	d.dividers = make([]float64, len(dividers))
	copy(d.dividers, dividers)
	d.histo = make([]float64, len(dividers)-1)
	if len(rawdata) > 0 {
		d.ReHisto(d.dividers, rawdata)
	}
	return d
}

//Uniform returns a histogram of rawdata with bins equally-spaced bins
//spanning the range of the data. Non-finite values are ignored.
//It returns nil if no finite value is given.
func Uniform(rawdata []float64, bins int) *Data {
	if bins < 1 {
		bins = 1
	}
	finite := make([]float64, 0, len(rawdata))
	for _, v := range rawdata {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return nil
	}
	lo, hi := floats.Min(finite), floats.Max(finite)
	if hi == lo {
		hi = lo + 1
	}
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	//the last divider is exclusive, it is moved up so the maximum falls in the last bin.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	return NewData(dividers, finite)
}

//AddData adds the given data point(s) to the histogram.
//Points outside the dividers are counted in the total but not in any bin.
func (D *Data) AddData(point ...float64) {
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	last := len(D.dividers) - 1
	for _, v := range point {
		j, found := slices.BinarySearch(D.dividers, v)
		if found {
			j++
		}
		if j == 0 || j > last {
			continue
		}
		D.histo[j-1]++
	}
	D.total += len(point)
	if norma {
		D.Normalize()
	}
}

//Total returns the number of points added to the histogram.
func (D *Data) Total() int { return D.total }

//Normalized Returns true if the histogram is normalized
func (D *Data) Normalized() bool {
	return D.normalized
}

//Normalize divides the counts by the total number of points.
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

//UnNormalize goes back to counts.
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	D.normalized = normalize
	if normalize {
		n = 1 / n
	}
	floats.Scale(n, D.histo)
}

//Dividers returns a copy of the dividers of the histogram
func (D *Data) Dividers() []float64 {
	return slices.Clone(D.dividers)
}

//View returns the bins. The slice is not a copy.
func (D *Data) View() []float64 {
	return D.histo
}

//Sum returns the sum of the bins.
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

//ReHisto discards the current data and fills the histogram with rawdata,
//using the given dividers. Points outside the dividers are not binned.
func (D *Data) ReHisto(dividers, rawdata []float64) {
	data := slices.Clone(rawdata)
	slices.Sort(data)
	D.total = len(data)
	//stat.Histogram panics with values out of the range of the dividers.
	mini, _ := slices.BinarySearch(data, dividers[0])
	maxi, _ := slices.BinarySearch(data, dividers[len(dividers)-1])
	data = data[mini:maxi]
	D.dividers = dividers
	D.histo = stat.Histogram(nil, dividers, data, nil)
	D.normalized = false
}
