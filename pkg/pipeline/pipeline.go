// Package pipeline runs graph documents through the layout engine with
// caching.
//
// The CLI and the HTTP server both go through a [Runner] so that defaults,
// cache keys and logging stay identical across entry points.
//
// # Usage
//
//	runner := pipeline.NewRunner(cfg, c, nil, logger)
//	result, err := runner.Layout(ctx, graphDoc, pipeline.Options{Algorithm: "eades"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Layout.Vertices, result.CacheHit)
//
// Settings are layered: the configuration supplies defaults, a graph
// document's algorithm block overrides them, and [Options] (command-line
// flags, query parameters) override both.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/config"
	"github.com/matzehuels/stacklayout/pkg/document"
)

// =============================================================================
// Options - Per-Run Overrides
// =============================================================================

// Options overrides configuration and document settings for a single run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Algorithm string   `json:"algorithm,omitempty"`
	Seed      *uint64  `json:"seed,omitempty"`
	Curved    *bool    `json:"curved,omitempty"`
	Curvature *float64 `json:"curvature,omitempty"`
	Refresh   bool     `json:"refresh,omitempty"` // Skip the cache lookup

	// Prior positions vertices it shares with the graph.
	Prior *document.Layout `json:"-"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a layout run.
type Result struct {
	// Layout is the serialized layout.
	Layout *document.Layout

	// GraphHash is the content hash of the graph document.
	GraphHash string

	// Key is the cache key the layout was stored under.
	Key string

	// CacheHit reports whether Layout came from the cache.
	CacheHit bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Vertices int
	Edges    int
	Duration time.Duration
}

// resolve merges the configuration, the document's algorithm block and
// opts into one effective configuration.
func resolve(base *config.Config, g *document.Graph, opts Options) (config.Config, error) {
	cfg := *base
	cfg.SetDefaults()

	if a := g.Algorithm; a != nil {
		if a.Name != "" {
			cfg.Layout.Algorithm = a.Name
		}
		if a.Seed != nil {
			cfg.Layout.Seed = *a.Seed
		}
		if a.Curved {
			cfg.Layout.Curved = true
		}
		if a.Curvature != nil {
			cfg.Layout.Curvature = *a.Curvature
		}
		if a.Iterations > 0 {
			cfg.Eades.Iterations = a.Iterations
			cfg.Fruchterman.Iterations = a.Iterations
		}
	}

	if opts.Algorithm != "" {
		cfg.Layout.Algorithm = opts.Algorithm
	}
	if opts.Seed != nil {
		cfg.Layout.Seed = *opts.Seed
	}
	if opts.Curved != nil {
		cfg.Layout.Curved = *opts.Curved
	}
	if opts.Curvature != nil {
		cfg.Layout.Curvature = *opts.Curvature
	}

	name, err := config.CanonicalAlgorithm(cfg.Layout.Algorithm)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Layout.Algorithm = name
	return cfg, nil
}

// layoutKeyOpts returns cache key options for the effective configuration.
// Only the tuning section of the chosen algorithm is folded in.
func layoutKeyOpts(cfg config.Config) cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		Algorithm: cfg.Layout.Algorithm,
		Seed:      cfg.Layout.Seed,
		Edges:     "straight",
	}
	if cfg.Layout.Curved {
		opts.Edges = "curved"
		opts.Curvature = cfg.Layout.Curvature
	}
	switch cfg.Layout.Algorithm {
	case config.AlgorithmEades:
		opts.Params = cfg.Eades
	case config.AlgorithmFruchterman:
		opts.Params = cfg.Fruchterman
	case config.AlgorithmBuchheim:
		opts.Params = cfg.Buchheim
	case config.AlgorithmGraphViz:
		opts.Params = struct {
			Embedded bool
			Args     []string
		}{cfg.GraphViz.Embedded, cfg.GraphViz.Args}
	}
	return opts
}
