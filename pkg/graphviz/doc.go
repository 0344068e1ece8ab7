// Package graphviz talks to Graphviz for graph layout.
//
// Graphs are sent as a minimal DOT document (see [WriteDOT]) and results
// come back in the "plain" text format, which [ParsePlain] decodes into node
// centers and edge spline control points.
//
// Two [Engine] implementations are provided:
//
//   - [Exec] runs the "dot" command line tool, feeding stdin and draining
//     stdout and stderr concurrently under a deadline.
//   - [Embedded] runs Graphviz in-process via [github.com/goccy/go-graphviz].
//
// [Func] adapts a plain function, which is convenient in tests:
//
//	engine := graphviz.Func(func(ctx context.Context, dot []byte) (graphviz.PlainOutput, error) {
//	    return graphviz.PlainOutput{Stdout: []byte("node 0 1 2 0 0\nstop\n")}, nil
//	})
package graphviz
