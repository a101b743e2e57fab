/*
 * cache.go, part of gopose.
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
	"math"
	"sort"

	pose "github.com/rmera/gopose"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

//Cache holds the per-run scratch data of a score function: the residue
//neighbor graph, and whatever the energy methods decide to keep between setup and
//evaluation. Use a different Cache for each pose that is scored concurrently.
type Cache struct {
	version    uint64
	built      bool
	frozen     bool
	derivReady bool
	padding    float64
	cutoff     float64
	radius     []float64
	neighbors  [][]int
	pairs      [][2]int
	data       map[string]interface{}
}

//NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{data: make(map[string]interface{})}
}

//Invalidate drops all the cached data.
func (C *Cache) Invalidate() {
	C.built = false
	C.derivReady = false
	C.neighbors = nil
	C.pairs = nil
	C.radius = nil
	C.data = make(map[string]interface{})
}

//UseNeighborList freezes (v==true) the neighbor graph, so following
//setups don't rebuild it, as long as the topology doesn't change. The graph
//is rebuilt on the next setup, including pairs up to pad A beyond the cutoff.
func (C *Cache) UseNeighborList(v bool, pad float64) {
	C.frozen = v
	C.padding = 0
	C.built = false
	if v {
		C.padding = pad
	}
}

//Set stores a value.
func (C *Cache) Set(key string, v interface{}) { C.data[key] = v }

//Get retrieves a stored value.
func (C *Cache) Get(key string) (interface{}, bool) {
	v, ok := C.data[key]
	return v, ok
}

//Neighbors returns the neighbors of residue r. The slice must not be modified.
func (C *Cache) Neighbors(r int) []int {
	if !C.built {
		return nil
	}
	return C.neighbors[r]
}

//Pairs returns all the neighbor pairs i<j. The slice must not be modified.
func (C *Cache) Pairs() [][2]int { return C.pairs }

//Radius returns the neighbor radius of residue r: the largest distance between
//the residue's neighbor atom and any of its atoms, measured when the graph was built.
func (C *Cache) Radius(r int) float64 { return C.radius[r] }

//DerivativesReady returns true if the cache has been set up for derivatives.
func (C *Cache) DerivativesReady() bool { return C.derivReady }

//prepare invalidates the cache if the topology of p is not the one it was built for.
func (C *Cache) prepare(p *pose.Pose) {
	if C.data == nil {
		C.data = make(map[string]interface{})
	}
	if C.version != p.TopologyVersion() {
		C.Invalidate()
		C.version = p.TopologyVersion()
	}
}

//nbrPoint is a residue's neighbor atom, as stored in the kd-tree.
type nbrPoint struct {
	pos [3]float64
	res int
}

func (p nbrPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.pos[d] - c.(nbrPoint).pos[d]
}

func (p nbrPoint) Dims() int { return 3 }

//Distance returns the squared distance.
func (p nbrPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(nbrPoint)
	var s float64
	for i := range p.pos {
		d := p.pos[i] - q.pos[i]
		s += d * d
	}
	return s
}

type nbrPoints []nbrPoint

func (p nbrPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p nbrPoints) Len() int                              { return len(p) }
func (p nbrPoints) Pivot(d kdtree.Dim) int                { return nbrPlane{p, d}.Pivot() }
func (p nbrPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type nbrPlane struct {
	nbrPoints
	kdtree.Dim
}

func (p nbrPlane) Less(i, j int) bool {
	return p.nbrPoints[i].pos[p.Dim] < p.nbrPoints[j].pos[p.Dim]
}
func (p nbrPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p nbrPlane) Slice(start, end int) kdtree.SortSlicer {
	p.nbrPoints = p.nbrPoints[start:end]
	return p
}
func (p nbrPlane) Swap(i, j int) {
	p.nbrPoints[i], p.nbrPoints[j] = p.nbrPoints[j], p.nbrPoints[i]
}

//buildNeighbors builds the residue neighbor graph: residues i and j are neighbors if
//the distance between their neighbor atoms is not larger than cutoff+radius(i)+radius(j).
func (C *Cache) buildNeighbors(p *pose.Pose, cutoff float64) {
	n := p.NResidues()
	C.cutoff = cutoff
	C.radius = make([]float64, n)
	C.neighbors = make([][]int, n)
	C.pairs = C.pairs[:0]
	pts := make(nbrPoints, n)
	maxrad := 0.0
	for i := 0; i < n; i++ {
		res := p.Residue(i)
		nb := p.XYZ(res.NbrAtom())
		for _, a := range res.Atoms() {
			C.radius[i] = math.Max(C.radius[i], r3.Norm(r3.Sub(p.XYZ(a), nb)))
		}
		maxrad = math.Max(maxrad, C.radius[i])
		pts[i] = nbrPoint{pos: [3]float64{nb.X, nb.Y, nb.Z}, res: i}
	}
	if n == 0 {
		C.built = true
		return
	}
	//the tree reorders the points it is given.
	tp := make(nbrPoints, n)
	copy(tp, pts)
	tree := kdtree.New(tp, false)
	for i := 0; i < n; i++ {
		q := pts[i]
		for _, j := range C.query(tree, q, cutoff+C.radius[i]+maxrad) {
			r := cutoff + C.radius[i] + C.radius[j]
			if j == i || q.Distance(pts[j]) > r*r {
				continue
			}
			C.neighbors[i] = append(C.neighbors[i], j)
		}
	}
	for i, nb := range C.neighbors {
		sort.Ints(nb)
		for _, j := range nb {
			if j > i {
				C.pairs = append(C.pairs, [2]int{i, j})
			}
		}
	}
	C.built = true
}

func (C *Cache) query(tree *kdtree.Tree, q nbrPoint, r float64) []int {
	keep := kdtree.NewDistKeeper(r * r)
	tree.NearestSet(keep, q)
	ret := make([]int, 0, len(keep.Heap))
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue
		}
		ret = append(ret, c.Comparable.(nbrPoint).res)
	}
	return ret
}
