package layout

import (
	"context"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultBasis maps (x, depth) to (x, -depth), drawing trees top down.
var DefaultBasis = [2][2]float64{{1, 0}, {0, -1}}

// Buchheim is the linear-time tidy tree layout of Buchheim, Jünger and
// Leipert (2002), an improvement of Walker's algorithm.
//
// The edges must form a single rooted tree over every vertex. Siblings are
// placed one unit apart and each level one unit below its parent. The
// resulting (x, depth) rows are multiplied by Basis. Supplied positions are
// ignored.
type Buchheim struct {
	Basis [2][2]float64
	Edges EdgeShaper // nil means StraightEdges
}

// NewBuchheim returns a Buchheim layout with DefaultBasis.
func NewBuchheim() *Buchheim { return &Buchheim{Basis: DefaultBasis} }

// Name implements the optional naming interface used by [Name].
func (*Buchheim) Name() string { return "buchheim" }

// Layout implements Algorithm.
func (a *Buchheim) Layout(ctx context.Context, coords Coordinates, edges []Edge) (Result, error) {
	if err := checkEdges(coords.Len(), edges); err != nil {
		return Result{}, err
	}
	children := AdjacencyList(coords.Len(), edges)
	root, _, err := RequireTree(children)
	if err != nil {
		return Result{}, err
	}

	t := newTree(children, root)
	t.firstWalk()
	rows := t.secondWalk()

	basis := mat.NewDense(2, 2, []float64{a.Basis[0][0], a.Basis[0][1], a.Basis[1][0], a.Basis[1][1]})
	var out mat.Dense
	out.Mul(rows, basis)

	pos := make([]r2.Vec, coords.Len())
	for i := range pos {
		pos[i] = r2.Vec{X: out.At(i, 0), Y: out.At(i, 1)}
	}
	return finish(ctx, a.Edges, pos, edges)
}

const siblingDistance = 1.0

// treeNode is one vertex of the working tree. All links are indices into
// the owning tree's node slice; -1 means no link.
type treeNode struct {
	parent   int
	number   int // position among the parent's children
	depth    int
	children []int

	prelim, mod   float64
	change, shift float64
	thread        int
	ancestor      int
}

// tree is an arena of nodes indexed by vertex, built once per layout.
type tree struct {
	nodes []treeNode
	root  int
}

func newTree(children [][]int, root int) *tree {
	t := &tree{nodes: make([]treeNode, len(children)), root: root}
	for v := range t.nodes {
		t.nodes[v] = treeNode{parent: -1, thread: -1, ancestor: v, children: children[v]}
	}
	stack := []int{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, c := range t.nodes[v].children {
			t.nodes[c].parent = v
			t.nodes[c].number = i
			t.nodes[c].depth = t.nodes[v].depth + 1
			stack = append(stack, c)
		}
	}
	return t
}

func (t *tree) leftSibling(v int) int {
	n := &t.nodes[v]
	if n.parent < 0 || n.number == 0 {
		return -1
	}
	return t.nodes[n.parent].children[n.number-1]
}

func (t *tree) leftmostSibling(v int) int {
	n := &t.nodes[v]
	if n.parent < 0 {
		return v
	}
	return t.nodes[n.parent].children[0]
}

func (t *tree) nextLeft(v int) int {
	if cs := t.nodes[v].children; len(cs) > 0 {
		return cs[0]
	}
	return t.nodes[v].thread
}

func (t *tree) nextRight(v int) int {
	if cs := t.nodes[v].children; len(cs) > 0 {
		return cs[len(cs)-1]
	}
	return t.nodes[v].thread
}

// firstWalk computes preliminary x positions in post-order. Each child is
// apportioned against its left siblings as soon as its own subtree is done.
func (t *tree) firstWalk() {
	type frame struct {
		v, next         int
		defaultAncestor int
	}
	stack := []frame{{v: t.root, defaultAncestor: -1}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		cs := t.nodes[f.v].children
		if f.next < len(cs) {
			if f.next == 0 {
				f.defaultAncestor = cs[0]
			}
			stack = append(stack, frame{v: cs[f.next], defaultAncestor: -1})
			continue
		}

		v := f.v
		t.place(v)
		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			p := &stack[len(stack)-1]
			p.defaultAncestor = t.apportion(v, p.defaultAncestor)
			p.next++
		}
	}
}

// place sets prelim and mod for v once all its children are placed.
func (t *tree) place(v int) {
	n := &t.nodes[v]
	left := t.leftSibling(v)

	if len(n.children) == 0 {
		n.prelim = 0
		if left >= 0 {
			n.prelim = t.nodes[left].prelim + siblingDistance
		}
		return
	}

	t.executeShifts(v)
	first, last := n.children[0], n.children[len(n.children)-1]
	midpoint := 0.5 * (t.nodes[first].prelim + t.nodes[last].prelim)
	if left >= 0 {
		n.prelim = t.nodes[left].prelim + siblingDistance
		n.mod = n.prelim - midpoint
	} else {
		n.prelim = midpoint
	}
}

// apportion pushes the subtree rooted at v right until it clears the
// contours of its left siblings, spreading the shift over the subtrees in
// between. It returns the updated default ancestor.
func (t *tree) apportion(v, defaultAncestor int) int {
	w := t.leftSibling(v)
	if w < 0 {
		return defaultAncestor
	}
	nodes := t.nodes

	vip, vop := v, v
	vim := w
	vom := t.leftmostSibling(v)
	sip, sop := nodes[vip].mod, nodes[vop].mod
	sim, som := nodes[vim].mod, nodes[vom].mod

	for t.nextRight(vim) >= 0 && t.nextLeft(vip) >= 0 {
		vim = t.nextRight(vim)
		vip = t.nextLeft(vip)
		vom = t.nextLeft(vom)
		vop = t.nextRight(vop)
		nodes[vop].ancestor = v

		shift := (nodes[vim].prelim + sim) - (nodes[vip].prelim + sip) + siblingDistance
		if shift > 0 {
			t.moveSubtree(t.ancestor(vim, v, defaultAncestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += nodes[vim].mod
		sip += nodes[vip].mod
		som += nodes[vom].mod
		sop += nodes[vop].mod
	}

	if t.nextRight(vim) >= 0 && t.nextRight(vop) < 0 {
		nodes[vop].thread = t.nextRight(vim)
		nodes[vop].mod += sim - sop
	}
	if t.nextLeft(vip) >= 0 && t.nextLeft(vom) < 0 {
		nodes[vom].thread = t.nextLeft(vip)
		nodes[vom].mod += sip - som
		defaultAncestor = v
	}
	return defaultAncestor
}

func (t *tree) moveSubtree(wm, wp int, shift float64) {
	subtrees := float64(t.nodes[wp].number - t.nodes[wm].number)
	t.nodes[wp].change -= shift / subtrees
	t.nodes[wp].shift += shift
	t.nodes[wm].change += shift / subtrees
	t.nodes[wp].prelim += shift
	t.nodes[wp].mod += shift
}

func (t *tree) executeShifts(v int) {
	var shift, change float64
	for _, w := range t.nodes[v].children {
		n := &t.nodes[w]
		n.prelim += shift
		n.mod += shift
		change += n.change
		shift += n.shift + change
	}
}

// ancestor returns vim's recorded ancestor if it is a sibling of v, else
// the default ancestor.
func (t *tree) ancestor(vim, v, defaultAncestor int) int {
	a := t.nodes[vim].ancestor
	if t.nodes[a].parent == t.nodes[v].parent {
		return a
	}
	return defaultAncestor
}

// secondWalk accumulates modifiers top down and returns one (x, depth) row
// per vertex.
func (t *tree) secondWalk() *mat.Dense {
	rows := mat.NewDense(len(t.nodes), 2, nil)

	type frame struct {
		v int
		m float64
	}
	stack := []frame{{t.root, -t.nodes[t.root].prelim}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[f.v]
		rows.Set(f.v, 0, n.prelim+f.m)
		rows.Set(f.v, 1, float64(n.depth))
		for _, c := range n.children {
			stack = append(stack, frame{c, f.m + n.mod})
		}
	}
	return rows
}
