package graphviz

import "context"

// Engine lays out a DOT document and returns graphviz "plain" output.
type Engine interface {
	Plain(ctx context.Context, dot []byte) (PlainOutput, error)
}

// PlainOutput holds the captured output streams of one run.
type PlainOutput struct {
	Stdout []byte
	Stderr []byte
}

// Func adapts a function to the Engine interface.
type Func func(ctx context.Context, dot []byte) (PlainOutput, error)

// Plain calls f.
func (f Func) Plain(ctx context.Context, dot []byte) (PlainOutput, error) { return f(ctx, dot) }
