package graphviz

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// WriteDOT writes a minimal directed graph with vertices named 0..n-1 and
// one line per edge. Nodes are zero-sized so the layout positions points
// rather than boxes.
func WriteDOT(w io.Writer, vertices int, edges [][2]int) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("digraph {\n")
	bw.WriteString("node [fixedsize = shape; width=0; height=0;]\n")
	for v := range vertices {
		fmt.Fprintf(bw, "%d\n", v)
	}
	for _, e := range edges {
		fmt.Fprintf(bw, "%d -> %d\n", e[0], e[1])
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// DOT returns the WriteDOT output as a byte slice.
func DOT(vertices int, edges [][2]int) []byte {
	var buf bytes.Buffer
	_ = WriteDOT(&buf, vertices, edges)
	return buf.Bytes()
}
