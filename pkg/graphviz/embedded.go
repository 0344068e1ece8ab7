package graphviz

import (
	"bytes"
	"context"
	"time"

	gographviz "github.com/goccy/go-graphviz"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/observability"
)

// plainFormat is the graphviz output format name for "plain" text.
const plainFormat gographviz.Format = "plain"

// Embedded runs graphviz in-process through the WebAssembly build shipped
// with github.com/goccy/go-graphviz, so no "dot" binary is required. It
// always uses the dot layout engine.
type Embedded struct{}

// Plain implements Engine.
func (Embedded) Plain(ctx context.Context, dot []byte) (out PlainOutput, err error) {
	start := time.Now()
	observability.Process().OnProcessStart(ctx, "embedded", len(dot))
	defer func() {
		code := 0
		if err != nil {
			code = 1
		}
		observability.Process().OnProcessComplete(ctx, "embedded", code, time.Since(start), err)
	}()

	gv, err := gographviz.New(ctx)
	if err != nil {
		return PlainOutput{}, errors.Wrap(errors.ErrCodeExternalProcess, err, "init graphviz")
	}
	defer gv.Close()

	g, err := gographviz.ParseBytes(dot)
	if err != nil {
		return PlainOutput{}, errors.Wrap(errors.ErrCodeExternalProcess, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, plainFormat, &buf); err != nil {
		return PlainOutput{}, errors.Wrap(errors.ErrCodeExternalProcess, err, "render plain")
	}
	return PlainOutput{Stdout: buf.Bytes()}, nil
}
