package layout

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

// AdjacencyList returns the targets of every vertex, in edge order.
func AdjacencyList(vertices int, edges []Edge) [][]int {
	children := make([][]int, vertices)
	for _, e := range edges {
		children[e.Source] = append(children[e.Source], e.Target)
	}
	return children
}

// RequireTree checks that children describes a single rooted tree spanning
// every vertex and returns the root and the maximum depth.
//
// It fails with NOT_A_TREE when there is not exactly one vertex without
// incoming edges, when a vertex is reached twice, or when some vertex cannot
// be reached from the root.
func RequireTree(children [][]int) (root, depth int, err error) {
	incoming := make([]int, len(children))
	for _, cs := range children {
		for _, c := range cs {
			incoming[c]++
		}
	}

	root = -1
	roots := 0
	for v, n := range incoming {
		if n == 0 {
			roots++
			root = v
		}
	}
	if roots != 1 {
		return -1, 0, errors.New(errors.ErrCodeNotATree, "not a tree: found %d root vertices, want 1", roots)
	}

	type frame struct{ vertex, depth int }
	visited := make([]bool, len(children))
	stack := []frame{{root, 0}}
	seen := 0
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[f.vertex] {
			return -1, 0, errors.New(errors.ErrCodeNotATree, "not a tree: vertex %d is reachable more than once", f.vertex)
		}
		visited[f.vertex] = true
		seen++
		depth = max(depth, f.depth)
		for _, c := range children[f.vertex] {
			stack = append(stack, frame{c, f.depth + 1})
		}
	}
	if seen != len(children) {
		return -1, 0, errors.New(errors.ErrCodeNotATree,
			"not a tree: %d of %d vertices are unreachable from root %d", len(children)-seen, len(children), root)
	}
	return root, depth, nil
}

// ShortestPaths returns the directed hop distance between every pair of
// vertices using Floyd-Warshall. Unreachable pairs hold +Inf. It returns nil
// for an empty graph.
func ShortestPaths(vertices int, edges []Edge) *mat.Dense {
	if vertices == 0 {
		return nil
	}
	d := mat.NewDense(vertices, vertices, nil)
	for i := range vertices {
		for j := range vertices {
			if i != j {
				d.Set(i, j, math.Inf(1))
			}
		}
	}
	for _, e := range edges {
		if e.Source != e.Target {
			d.Set(e.Source, e.Target, 1)
		}
	}

	for k := range vertices {
		for i := range vertices {
			dik := d.At(i, k)
			if math.IsInf(dik, 1) {
				continue
			}
			for j := range vertices {
				if via := dik + d.At(k, j); via < d.At(i, j) {
					d.Set(i, j, via)
				}
			}
		}
	}
	return d
}

// Diameter returns the longest finite distance in a ShortestPaths matrix.
func Diameter(d *mat.Dense) float64 {
	if d == nil {
		return 0
	}
	r, c := d.Dims()
	longest := 0.0
	for i := range r {
		for j := range c {
			if v := d.At(i, j); !math.IsInf(v, 1) && v > longest {
				longest = v
			}
		}
	}
	return longest
}
