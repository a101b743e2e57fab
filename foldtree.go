/*
 * foldtree.go, part of gopose.
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

package pose

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

//EdgeKind is the kind of connection an edge of the fold tree represents.
type EdgeKind int

const (
	Peptide EdgeKind = iota //covers the residues from Start to Stop, connected by peptide bonds.
	Jump                    //a rigid body connection between residues Start and Stop.
)

func (K EdgeKind) String() string {
	if K == Jump {
		return "jump"
	}
	return "peptide"
}

//Edge is an edge of the fold tree. For Jump edges, JumpID is the index of the jump.
type Edge struct {
	Start  int
	Stop   int
	Kind   EdgeKind
	JumpID int
}

//FoldTree is a set of edges covering all the residues of a pose and defining a tree over them.
//The edges are kept in an arena and addressed by their index.
type FoldTree struct {
	edges []Edge
	root  int
}

//NewFoldTree returns a fold tree with the given edges, rooted at root.
//The tree is not validated.
func NewFoldTree(root int, edges ...Edge) *FoldTree {
	e := make([]Edge, len(edges))
	copy(e, edges)
	return &FoldTree{edges: e, root: root}
}

//SimpleFoldTree returns a fold tree with a single peptide edge spanning n residues.
func SimpleFoldTree(n int) *FoldTree {
	if n <= 1 {
		return &FoldTree{}
	}
	return &FoldTree{edges: []Edge{{Start: 0, Stop: n - 1, Kind: Peptide}}}
}

//ChainFoldTree returns a fold tree where each [first,last] range is covered by a peptide
//edge, and the first residue of each range after the first is connected
//by a jump to the first residue of the first range.
func ChainFoldTree(ranges [][2]int) *FoldTree {
	ft := &FoldTree{}
	if len(ranges) == 0 {
		return ft
	}
	ft.root = ranges[0][0]
	for i, r := range ranges {
		if i > 0 {
			ft.edges = append(ft.edges, Edge{Start: ranges[0][0], Stop: r[0], Kind: Jump, JumpID: i - 1})
		}
		if r[1] > r[0] {
			ft.edges = append(ft.edges, Edge{Start: r[0], Stop: r[1], Kind: Peptide})
		}
	}
	return ft
}

func chainRanges(P *Pose) [][2]int {
	ranges := make([][2]int, 0, 2)
	for i, r := range P.residues {
		if i == 0 || r.Chain != P.residues[i-1].Chain || !P.Bonded(i-1, i) {
			ranges = append(ranges, [2]int{i, i})
			continue
		}
		ranges[len(ranges)-1][1] = i
	}
	return ranges
}

//DefaultFoldTree returns the ChainFoldTree for the chains of P. Non polymer residues
//form their own chains.
func DefaultFoldTree(P *Pose) *FoldTree {
	return ChainFoldTree(chainRanges(P))
}

//DockingFoldTree returns a fold tree for docking the chain peptide onto the chain receptor.
//The tree is rooted at the receptor residue ranchor, from which peptide edges go outwards to
//both ends of the receptor chain, and a jump (jump 0) connects ranchor and the peptide residue panchor,
//from which the peptide edges go outwards. Any other chain is connected to ranchor by further jumps.
func DockingFoldTree(P *Pose, receptor, peptide string, ranchor, panchor int) (*FoldTree, error) {
	rec := P.ChainResidues(receptor)
	pep := P.ChainResidues(peptide)
	if len(rec) == 0 || len(pep) == 0 || receptor == peptide {
		return nil, Errorf("DockingFoldTree", "Invalid chains receptor:%s peptide:%s", receptor, peptide)
	}
	if !isInInt(rec, ranchor) || !isInInt(pep, panchor) {
		return nil, Errorf("DockingFoldTree", "Anchors %d, %d not in the receptor and peptide chains", ranchor, panchor)
	}
	ft := &FoldTree{root: ranchor}
	outwards := func(anchor int, res []int) {
		if anchor > res[0] {
			ft.edges = append(ft.edges, Edge{Start: anchor, Stop: res[0], Kind: Peptide})
		}
		if anchor < res[len(res)-1] {
			ft.edges = append(ft.edges, Edge{Start: anchor, Stop: res[len(res)-1], Kind: Peptide})
		}
	}
	outwards(ranchor, rec)
	ft.edges = append(ft.edges, Edge{Start: ranchor, Stop: panchor, Kind: Jump, JumpID: 0})
	outwards(panchor, pep)
	jid := 1
	for _, r := range chainRanges(P) {
		c := P.residues[r[0]].Chain
		if c == receptor || c == peptide {
			continue
		}
		ft.edges = append(ft.edges, Edge{Start: ranchor, Stop: r[0], Kind: Jump, JumpID: jid})
		jid++
		if r[1] > r[0] {
			ft.edges = append(ft.edges, Edge{Start: r[0], Stop: r[1], Kind: Peptide})
		}
	}
	if err := ft.Validate(P.NResidues()); err != nil {
		return nil, ErrDecorate(err, "DockingFoldTree")
	}
	return ft, nil
}

//Copy returns a copy of the fold tree.
func (F *FoldTree) Copy() *FoldTree {
	if F == nil {
		return nil
	}
	return NewFoldTree(F.root, F.edges...)
}

//Root returns the root residue.
func (F *FoldTree) Root() int { return F.root }

//NEdges returns the number of edges in the tree.
func (F *FoldTree) NEdges() int { return len(F.edges) }

//Edge returns the ith edge of the tree. It panics if i is out of range.
func (F *FoldTree) Edge(i int) Edge {
	if i < 0 || i >= len(F.edges) {
		panic(PanicMsg(fmt.Sprintf("goPose: Edge %d out of range", i)))
	}
	return F.edges[i]
}

//EdgeSafe returns the ith edge of the tree or an error if i is
//out of range.
func (F *FoldTree) EdgeSafe(i int) (Edge, error) {
	if i < 0 || i >= len(F.edges) {
		return Edge{}, Errorf("EdgeSafe", "Edge %d out of range (%d edges)", i, len(F.edges))
	}
	return F.edges[i], nil
}

//NJumps returns the number of jump edges.
func (F *FoldTree) NJumps() int {
	n := 0
	for _, e := range F.edges {
		if e.Kind == Jump {
			n++
		}
	}
	return n
}

//JumpEdge returns the edge of the jump with the given id.
func (F *FoldTree) JumpEdge(id int) (Edge, error) {
	for _, e := range F.edges {
		if e.Kind == Jump && e.JumpID == id {
			return e, nil
		}
	}
	return Edge{}, Errorf("JumpEdge", "No jump with id %d", id)
}

//Validate checks that the tree covers exactly the residues 0 to nres-1, is
//connected, has no cycles and that the jump ids go from 0 to NJumps()-1.
func (F *FoldTree) Validate(nres int) error {
	if nres <= 0 {
		return Errorf("Validate", "Fold tree for %d residues", nres)
	}
	if F.root < 0 || F.root >= nres {
		return Errorf("Validate", "Root %d out of range", F.root)
	}
	g := simple.NewUndirectedGraph()
	for i := 0; i < nres; i++ {
		g.AddNode(simple.Node(i))
	}
	link := func(a, b int) error {
		if g.HasEdgeBetween(int64(a), int64(b)) {
			return Errorf("Validate", "Residues %d and %d are connected more than once", a, b)
		}
		g.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
		return nil
	}
	links := 0
	jumps := make([]int, 0, 2)
	for i, e := range F.edges {
		if e.Start < 0 || e.Stop < 0 || e.Start >= nres || e.Stop >= nres {
			return Errorf("Validate", "Edge %d (%d-%d) out of range for %d residues", i, e.Start, e.Stop, nres)
		}
		if e.Start == e.Stop {
			return Errorf("Validate", "Edge %d connects residue %d with itself", i, e.Start)
		}
		switch e.Kind {
		case Peptide:
			lo, hi := e.Start, e.Stop
			if lo > hi {
				lo, hi = hi, lo
			}
			for j := lo; j < hi; j++ {
				if err := link(j, j+1); err != nil {
					return err
				}
				links++
			}
		case Jump:
			if err := link(e.Start, e.Stop); err != nil {
				return err
			}
			links++
			jumps = append(jumps, e.JumpID)
		default:
			return Errorf("Validate", "Edge %d has unknown kind %d", i, e.Kind)
		}
	}
	sort.Ints(jumps)
	for i, j := range jumps {
		if i != j {
			return Errorf("Validate", "Jump ids must go from 0 to %d, got %v", len(jumps)-1, jumps)
		}
	}
	if links != nres-1 {
		return Errorf("Validate", "A tree over %d residues needs %d connections, got %d", nres, nres-1, links)
	}
	if c := topo.ConnectedComponents(g); len(c) != 1 {
		return Errorf("Validate", "Fold tree is not connected: %d components", len(c))
	}
	return nil
}

func (F *FoldTree) String() string {
	s := make([]string, 0, len(F.edges)+1)
	s = append(s, fmt.Sprintf("FOLD_TREE root %d", F.root))
	for _, e := range F.edges {
		if e.Kind == Jump {
			s = append(s, fmt.Sprintf("EDGE %d %d %s %d", e.Start, e.Stop, e.Kind, e.JumpID))
		} else {
			s = append(s, fmt.Sprintf("EDGE %d %d %s", e.Start, e.Stop, e.Kind))
		}
	}
	return strings.Join(s, " ")
}
