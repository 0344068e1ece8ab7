package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/config"
	"github.com/matzehuels/stacklayout/pkg/document"
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/layout"
	"github.com/matzehuels/stacklayout/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeDocument = "document"
)

// Runner encapsulates layout execution with caching.
//
// The Runner is stateless except for its collaborators; it doesn't store
// results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Config *config.Config
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner.
// If cfg is nil, config.Default() is used.
// If c is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
func NewRunner(cfg *config.Config, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Config: cfg,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Layout lays out a graph document, consulting the cache first unless
// opts.Refresh is set. Cache failures are logged and never fail the run.
func (r *Runner) Layout(ctx context.Context, g *document.Graph, opts Options) (*Result, error) {
	logger := r.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}
	ctx = log.WithContext(ctx, logger)

	cfg, err := resolve(r.Config, g, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{GraphHash: graphHash(g, opts.Prior)}
	result.Key = r.Keyer.LayoutKey(result.GraphHash, layoutKeyOpts(cfg))

	if !opts.Refresh {
		if doc, ok := r.lookup(ctx, result.Key, keyTypeLayout); ok {
			result.Layout = doc
			result.CacheHit = true
			result.Stats.Vertices = len(doc.Vertices)
			result.Stats.Edges = len(doc.Edges)
			logger.Debug("layout cache hit", "key", result.Key)
			return result, nil
		}
	}

	alg, err := cfg.Algorithm(cfg.Layout.Algorithm)
	if err != nil {
		return nil, err
	}
	req, err := g.Request()
	if err != nil {
		return nil, err
	}
	req.Algorithm = alg
	if opts.Prior != nil {
		req.Prior = opts.Prior
	}

	start := time.Now()
	gl, err := layout.Graph(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Stats.Duration = time.Since(start)
	result.Stats.Vertices = gl.VertexCount()
	result.Stats.Edges = gl.EdgeCount()

	doc := document.FromGraphLayout(gl)
	doc.CreatedAt = time.Now().UTC()
	result.Layout = doc

	logger.Info("computed layout",
		"algorithm", doc.Algorithm,
		"vertices", result.Stats.Vertices,
		"edges", result.Stats.Edges,
		"duration", result.Stats.Duration)

	r.store(ctx, result.Key, keyTypeLayout, doc, cfg.Cache.TTL)
	return result, nil
}

// Save stores a layout under a fresh ID and returns the ID. The layout's ID
// field is set as a side effect.
func (r *Runner) Save(ctx context.Context, doc *document.Layout) (string, error) {
	doc.ID = uuid.NewString()
	data, err := document.MarshalLayout(doc)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}
	key := r.Keyer.DocumentKey(doc.ID)
	if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "store layout %s", doc.ID)
	}
	observability.Cache().OnCacheSet(ctx, keyTypeDocument, len(data))
	return doc.ID, nil
}

// Load fetches a layout stored by Save. Unknown IDs yield NOT_FOUND.
func (r *Runner) Load(ctx context.Context, id string) (*document.Layout, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "malformed layout id %q", id)
	}
	doc, ok := r.lookup(ctx, r.Keyer.DocumentKey(id), keyTypeDocument)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "layout %s not found", id)
	}
	return doc, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, key, keyType string) (*document.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		log.FromContext(ctx).Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	doc, err := document.UnmarshalLayout(data)
	if err != nil {
		log.FromContext(ctx).Warn("discarding unreadable cache entry", "key", key, "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return doc, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, doc *document.Layout, ttl time.Duration) {
	data, err := document.MarshalLayout(doc)
	if err == nil {
		err = r.Cache.Set(ctx, key, data, ttl)
	}
	if err != nil {
		log.FromContext(ctx).Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl() time.Duration {
	if r.Config.Cache.TTL > 0 {
		return r.Config.Cache.TTL
	}
	return cache.DefaultTTL
}

// graphHash identifies the layout input: the graph document and, when
// given, the prior layout's positions.
func graphHash(g *document.Graph, prior *document.Layout) string {
	data := g.Canonical()
	if prior != nil {
		vertices, _ := json.Marshal(prior.Vertices)
		data = append(append(data, '\n'), vertices...)
	}
	return cache.Hash(data)
}
