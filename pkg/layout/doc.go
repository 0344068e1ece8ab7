// Package layout assigns positions to graph vertices and paths to edges.
//
// # Coordinator
//
// [Graph] is the entry point. It takes edges between caller-defined vertex
// identifiers, builds a canonical vertex index (sorted unique identifiers
// from the edges, then any extra identifiers), merges known positions from
// a prior layout and from an explicit table, runs an [Algorithm] and returns
// an immutable [GraphLayout]:
//
//	g, err := layout.Graph(ctx, layout.Request[string]{
//	    Edges:     [][2]string{{"a", "b"}, {"a", "c"}},
//	    Algorithm: layout.NewBuchheim(),
//	})
//
// Positions from the prior layout take precedence. The explicit table only
// fills vertices that are still unknown afterwards.
//
// # Algorithms
//
// Every algorithm first gives each unknown vertex a random position in
// [-1, 1] x [-1, 1] from a seeded generator, so runs are reproducible.
// Vertices that were known on input never move.
//
//   - [Random]: random placement only
//   - [Eades]: the 1984 spring embedder
//   - [FruchtermanReingold]: the 1991 force-directed layout with cooling (default)
//   - [Buchheim]: tidy tree drawing in linear time; requires a rooted tree
//   - [GraphViz]: delegates to Graphviz through a [graphviz.Engine]
//
// Buchheim and GraphViz ignore supplied positions.
//
// # Edges
//
// Edge geometry is produced by an [EdgeShaper] as shape codes plus points.
// M moves, L draws a line, Q a quadratic curve and C a cubic curve, taking
// one, one, two and three points respectively. [StraightEdges] yields "ML"
// per edge and [CurvedEdges] yields "MQ". Self-loops are counted and logged
// as a warning but are not drawable.
//
// # Logging
//
// Warnings and debug timings go to the logger carried by the context
// (see [github.com/charmbracelet/log.WithContext]).
package layout
