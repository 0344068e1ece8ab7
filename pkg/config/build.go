package config

import (
	"strconv"
	"time"

	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/graphviz"
	"github.com/matzehuels/stacklayout/pkg/layout"
)

// =============================================================================
// Component Construction
// =============================================================================

// Algorithm builds the named layout algorithm from the configured tuning.
// An empty name selects Layout.Algorithm.
func (c *Config) Algorithm(name string) (layout.Algorithm, error) {
	if name == "" {
		name = c.Layout.Algorithm
	}
	canon, err := CanonicalAlgorithm(name)
	if err != nil {
		return nil, err
	}
	shaper := c.EdgeShaper()

	switch canon {
	case AlgorithmRandom:
		return &layout.Random{Seed: c.Layout.Seed, Edges: shaper}, nil
	case AlgorithmEades:
		return &layout.Eades{
			C1:         c.Eades.C1,
			C2:         c.Eades.C2,
			C3:         c.Eades.C3,
			C4:         c.Eades.C4,
			Iterations: c.Eades.Iterations,
			Seed:       c.Layout.Seed,
			Edges:      shaper,
		}, nil
	case AlgorithmFruchterman:
		return &layout.FruchtermanReingold{
			Area:        c.Fruchterman.Area,
			Temperature: c.Fruchterman.Temperature,
			Iterations:  c.Fruchterman.Iterations,
			Seed:        c.Layout.Seed,
			Edges:       shaper,
		}, nil
	case AlgorithmBuchheim:
		b := c.Buchheim.Basis
		if len(b) != 4 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "buchheim.basis: expected 4 values, got %d", len(b))
		}
		return &layout.Buchheim{
			Basis: [2][2]float64{{b[0], b[1]}, {b[2], b[3]}},
			Edges: shaper,
		}, nil
	case AlgorithmGraphViz:
		return &layout.GraphViz{Engine: c.Engine()}, nil
	}
	return nil, errors.New(errors.ErrCodeInternal, "no constructor for algorithm %q", canon)
}

// EdgeShaper returns curved or straight edges per Layout.Curved.
func (c *Config) EdgeShaper() layout.EdgeShaper {
	if c.Layout.Curved {
		return layout.CurvedEdges{Curvature: c.Layout.Curvature}
	}
	return layout.StraightEdges{}
}

// Engine returns the GraphViz engine: the embedded WASM build or a dot
// subprocess.
func (c *Config) Engine() graphviz.Engine {
	if c.GraphViz.Embedded {
		return graphviz.Embedded{}
	}
	return &graphviz.Exec{
		Command: c.GraphViz.Command,
		Args:    c.GraphViz.Args,
		Timeout: c.GraphViz.Timeout,
	}
}

// CacheOptions converts the cache section for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		},
		Mongo: cache.MongoOptions{
			URI:      c.Cache.MongoURI,
			Database: c.Cache.MongoDatabase,
		},
	}
}

// =============================================================================
// Environment Overrides
// =============================================================================

// ApplyEnv overrides settings from STACKLAYOUT_* variables. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	env := envReader{lookup: lookup}

	env.setString("ALGORITHM", &c.Layout.Algorithm)
	env.setUint("SEED", &c.Layout.Seed)
	env.setBool("CURVED", &c.Layout.Curved)
	env.setFloat("CURVATURE", &c.Layout.Curvature)

	env.setString("GRAPHVIZ_COMMAND", &c.GraphViz.Command)
	env.setDuration("GRAPHVIZ_TIMEOUT", &c.GraphViz.Timeout)
	env.setBool("GRAPHVIZ_EMBEDDED", &c.GraphViz.Embedded)

	env.setString("CACHE_BACKEND", &c.Cache.Backend)
	env.setString("CACHE_DIR", &c.Cache.Dir)
	env.setDuration("CACHE_TTL", &c.Cache.TTL)
	env.setString("REDIS_ADDR", &c.Cache.RedisAddr)
	env.setString("REDIS_PASSWORD", &c.Cache.RedisPassword)
	env.setInt("REDIS_DB", &c.Cache.RedisDB)
	env.setString("MONGO_URI", &c.Cache.MongoURI)
	env.setString("MONGO_DATABASE", &c.Cache.MongoDatabase)

	env.setString("ADDR", &c.Server.Addr)

	return env.err
}

// envReader parses variables into fields and keeps the first error.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *envReader) get(key string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	v, ok := r.lookup(EnvPrefix + key)
	return v, ok && v != ""
}

func (r *envReader) fail(key string, err error) {
	r.err = errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, key)
}

func (r *envReader) setString(key string, dst *string) {
	if v, ok := r.get(key); ok {
		*dst = v
	}
}

func (r *envReader) setUint(key string, dst *uint64) {
	if v, ok := r.get(key); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = n
	}
}

func (r *envReader) setInt(key string, dst *int) {
	if v, ok := r.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = n
	}
}

func (r *envReader) setFloat(key string, dst *float64) {
	if v, ok := r.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = f
	}
}

func (r *envReader) setBool(key string, dst *bool) {
	if v, ok := r.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = b
	}
}

func (r *envReader) setDuration(key string, dst *time.Duration) {
	if v, ok := r.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = d
	}
}
