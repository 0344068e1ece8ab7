// Package document defines the file and wire formats around the layout
// engine.
//
// A [Graph] document is the input: edges (as pairs or as sources/targets),
// optional extra vertices, optional pinned coordinates, and per-document
// algorithm overrides. It decodes from JSON, YAML or TOML:
//
//	edges:
//	  - [root, left]
//	  - [root, right]
//	coordinates:
//	  root: [0, 0]
//	algorithm:
//	  name: buchheim
//
// A [Layout] document is the output: positioned vertices and edge paths,
// always written as JSON. It doubles as a prior layout for later runs
// because it implements layout.VertexSource.
package document
