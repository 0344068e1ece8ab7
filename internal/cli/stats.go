package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/document"
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/layout"
)

// graphStats summarizes the structure of a graph document.
type graphStats struct {
	Vertices int     `json:"vertices"`
	Edges    int     `json:"edges"`
	Loops    int     `json:"loops"`
	Pinned   int     `json:"pinned"`
	Diameter float64 `json:"diameter"`
	Tree     bool    `json:"tree"`
	Root     string  `json:"root,omitempty"`
	Depth    int     `json:"depth,omitempty"`
	Reason   string  `json:"reason,omitempty"`
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats [graph-file]",
		Short: "Report the size and shape of a graph",
		Long: `Report the size and shape of a graph.

Prints vertex and edge counts, self-loops, how many vertices carry explicit
coordinates, the longest shortest path in hops, and whether the graph is a
tree the buchheim layout accepts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := document.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			prog := newProgress(loggerFromContext(cmd.Context()))
			s := computeStats(g)
			prog.done("Computed graph statistics", "vertices", s.Vertices)
			return c.printGraphStats(s, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")
	return cmd
}

func computeStats(g *document.Graph) graphStats {
	ids, edges := layout.Induce(g.Pairs(), g.Vertices)
	s := graphStats{Vertices: len(ids), Edges: len(edges)}
	for _, e := range edges {
		if e.Source == e.Target {
			s.Loops++
		}
	}
	for _, xy := range g.Coordinates {
		if xy != nil {
			s.Pinned++
		}
	}
	s.Diameter = layout.Diameter(layout.ShortestPaths(len(ids), edges))

	root, depth, err := layout.RequireTree(layout.AdjacencyList(len(ids), edges))
	if err != nil {
		s.Reason = errors.UserMessage(err)
	} else {
		s.Tree, s.Root, s.Depth = true, ids[root], depth
	}
	return s
}

func (c *CLI) printGraphStats(s graphStats, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	printKeyValue(c.Out, "vertices", strconv.Itoa(s.Vertices))
	printKeyValue(c.Out, "edges", strconv.Itoa(s.Edges))
	printKeyValue(c.Out, "loops", strconv.Itoa(s.Loops))
	printKeyValue(c.Out, "pinned", strconv.Itoa(s.Pinned))
	printNumber(c.Out, "diameter", s.Diameter)
	if s.Tree {
		printSuccess(c.Out, "tree rooted at %s, depth %d", s.Root, s.Depth)
	} else {
		printInfo(c.Out, "%s", s.Reason)
	}
	return nil
}
