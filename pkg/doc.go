// Package pkg provides the core libraries for Stacklayout graph and region
// layout.
//
// # Overview
//
// Stacklayout computes 2D coordinates for the vertices of a directed graph,
// SVG-style path commands for its edges, and pixel rectangles for regions
// placed inside a parent frame. The pkg directory is organized into three
// areas:
//
//  1. Core - [layout] (algorithms and the graph coordinator), [region],
//     [units] and [graphviz]
//  2. Infrastructure - [cache], [config], [observability], [errors] and
//     [buildinfo]
//  3. Surfaces - [document] (graph and layout files), [pipeline] (cached
//     layout runs) and [server] (HTTP API)
//
// # Architecture
//
// The typical data flow through Stacklayout:
//
//	Graph document (JSON, YAML, TOML)
//	         ↓
//	    [document] package (decode, validate, build a request)
//	         ↓
//	    [pipeline] package (layer settings, consult the cache)
//	         ↓
//	    [layout] package (induce vertices, merge known positions, run algorithm)
//	         ↓
//	    Layout document (JSON)
//
// # Quick Start
//
// Lay out a small tree:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/stacklayout/pkg/layout"
//	)
//
//	g, err := layout.Graph(context.Background(), layout.Request[string]{
//	    Edges:     [][2]string{{"root", "left"}, {"root", "right"}},
//	    Algorithm: layout.NewBuchheim(),
//	})
//	if err != nil {
//	    return err
//	}
//	positions := g.Positions() // one r2.Vec per vertex, sorted by ID
//
// Resolve a region:
//
//	r, err := region.Resolve(
//	    region.Rect{XMin: 0, XMax: 800, YMin: 0, YMax: 600},
//	    region.Spec{Bounds: []units.Length{units.Px(10), units.Px(-10), units.Percent(10), units.Percent(-10)}},
//	)
//
// # Caching
//
// [pipeline.Runner] stores layout documents keyed by a hash of the graph
// document and the effective settings. Backends are a local file tree,
// Redis or MongoDB, selected by [config.CacheConfig].
package pkg
