package graphviz

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

// Plain is a parsed "plain" output document.
type Plain struct {
	Nodes []PlainNode
	Edges []PlainEdge
}

// PlainNode is a "node" record: name, center x and center y.
type PlainNode struct {
	Name string
	X, Y float64
}

// PlainEdge is an "edge" record: tail, head and the B-spline control points.
type PlainEdge struct {
	Tail, Head string
	Points     [][2]float64
}

// Shape returns the shape codes for the edge: one move followed by one
// cubic segment per three trailing control points.
func (e PlainEdge) Shape() string {
	return "M" + strings.Repeat("C", (len(e.Points)-1)/3)
}

// ParsePlain reads graphviz "plain" output. Lines other than node and edge
// records are ignored. Output with no records at all is an error.
func ParsePlain(r io.Reader) (*Plain, error) {
	p := &Plain{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "node":
			n, err := parseNode(fields)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeExternalProcess, err, "plain output line %d", line)
			}
			p.Nodes = append(p.Nodes, n)
		case "edge":
			e, err := parseEdge(fields)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeExternalProcess, err, "plain output line %d", line)
			}
			p.Edges = append(p.Edges, e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternalProcess, err, "read plain output")
	}
	if len(p.Nodes) == 0 && len(p.Edges) == 0 {
		return nil, errors.New(errors.ErrCodeExternalProcess, "plain output contains no node or edge records")
	}
	return p, nil
}

// ParsePlainBytes is ParsePlain over an in-memory buffer.
func ParsePlainBytes(b []byte) (*Plain, error) {
	return ParsePlain(bytes.NewReader(b))
}

func parseNode(fields []string) (PlainNode, error) {
	if len(fields) < 4 {
		return PlainNode{}, errors.New(errors.ErrCodeInvalidFormat, "node record has %d fields, want at least 4", len(fields))
	}
	x, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return PlainNode{}, err
	}
	y, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return PlainNode{}, err
	}
	return PlainNode{Name: unquote(fields[1]), X: x, Y: y}, nil
}

func parseEdge(fields []string) (PlainEdge, error) {
	if len(fields) < 4 {
		return PlainEdge{}, errors.New(errors.ErrCodeInvalidFormat, "edge record has %d fields, want at least 4", len(fields))
	}
	n, err := strconv.Atoi(fields[3])
	if err != nil {
		return PlainEdge{}, err
	}
	if n < 1 || (n-1)%3 != 0 {
		return PlainEdge{}, errors.New(errors.ErrCodeInvalidFormat, "edge record has %d control points, want 3k+1", n)
	}
	if len(fields) < 4+2*n {
		return PlainEdge{}, errors.New(errors.ErrCodeInvalidFormat, "edge record declares %d points but has %d fields", n, len(fields))
	}

	e := PlainEdge{Tail: unquote(fields[1]), Head: unquote(fields[2]), Points: make([][2]float64, n)}
	for i := range n {
		x, err := strconv.ParseFloat(fields[4+2*i], 64)
		if err != nil {
			return PlainEdge{}, err
		}
		y, err := strconv.ParseFloat(fields[5+2*i], 64)
		if err != nil {
			return PlainEdge{}, err
		}
		e.Points[i] = [2]float64{x, y}
	}
	return e, nil
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}
