// Package config loads stacklayout settings.
//
// Settings come from three layers, later ones winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML or YAML file chosen by extension ([Load])
//  3. STACKLAYOUT_* environment variables ([Config.ApplyEnv])
//
// A config file looks like:
//
//	[layout]
//	algorithm = "eades"
//	seed = 42
//	curved = true
//
//	[eades]
//	iterations = 250
//
//	[graphviz]
//	command = "/usr/local/bin/dot"
//	timeout = "10s"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/graphviz"
	"github.com/matzehuels/stacklayout/pkg/layout"
)

// =============================================================================
// Default Values
// =============================================================================

// Algorithm names accepted in configuration, documents and flags.
const (
	AlgorithmRandom      = "random"
	AlgorithmEades       = "eades"
	AlgorithmFruchterman = "fruchterman-reingold"
	AlgorithmBuchheim    = "buchheim"
	AlgorithmGraphViz    = "graphviz"
)

// Algorithms lists the canonical algorithm names in menu order.
var Algorithms = []string{
	AlgorithmFruchterman,
	AlgorithmEades,
	AlgorithmBuchheim,
	AlgorithmGraphViz,
	AlgorithmRandom,
}

var algorithmAliases = map[string]string{
	"fr":          AlgorithmFruchterman,
	"fruchterman": AlgorithmFruchterman,
	"tree":        AlgorithmBuchheim,
	"dot":         AlgorithmGraphViz,
}

const (
	// DefaultAlgorithm is used when neither flags nor documents choose one.
	DefaultAlgorithm = AlgorithmFruchterman

	// DefaultAddr is the HTTP listen address for `stacklayout serve`.
	DefaultAddr = ":8080"

	// DefaultMaxBodyBytes caps request bodies accepted by the server.
	DefaultMaxBodyBytes = 8 << 20

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "STACKLAYOUT_"
)

// =============================================================================
// Config - Settings Tree
// =============================================================================

// Config is the complete settings tree.
type Config struct {
	Layout      LayoutConfig      `toml:"layout" yaml:"layout"`
	Eades       EadesConfig       `toml:"eades" yaml:"eades"`
	Fruchterman FruchtermanConfig `toml:"fruchterman" yaml:"fruchterman"`
	Buchheim    BuchheimConfig    `toml:"buchheim" yaml:"buchheim"`
	GraphViz    GraphVizConfig    `toml:"graphviz" yaml:"graphviz"`
	Cache       CacheConfig       `toml:"cache" yaml:"cache"`
	Server      ServerConfig      `toml:"server" yaml:"server"`
}

// LayoutConfig holds settings shared by all algorithms.
type LayoutConfig struct {
	Algorithm string  `toml:"algorithm" yaml:"algorithm"`
	Seed      uint64  `toml:"seed" yaml:"seed"`
	Curved    bool    `toml:"curved" yaml:"curved"`
	Curvature float64 `toml:"curvature" yaml:"curvature"`
}

// EadesConfig tunes the spring embedder.
type EadesConfig struct {
	C1         float64 `toml:"c1" yaml:"c1"`
	C2         float64 `toml:"c2" yaml:"c2"`
	C3         float64 `toml:"c3" yaml:"c3"`
	C4         float64 `toml:"c4" yaml:"c4"`
	Iterations int     `toml:"iterations" yaml:"iterations"`
}

// FruchtermanConfig tunes Fruchterman-Reingold.
type FruchtermanConfig struct {
	Area        float64 `toml:"area" yaml:"area"`
	Temperature float64 `toml:"temperature" yaml:"temperature"`
	Iterations  int     `toml:"iterations" yaml:"iterations"`
}

// BuchheimConfig holds the 2x2 basis as [b00, b01, b10, b11].
type BuchheimConfig struct {
	Basis []float64 `toml:"basis" yaml:"basis"`
}

// GraphVizConfig selects and tunes the GraphViz engine.
type GraphVizConfig struct {
	Command  string        `toml:"command" yaml:"command"`
	Args     []string      `toml:"args" yaml:"args"`
	Timeout  time.Duration `toml:"timeout" yaml:"timeout"`
	Embedded bool          `toml:"embedded" yaml:"embedded"` // use the bundled WASM build instead of a dot binary
}

// CacheConfig selects the layout cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend" yaml:"backend"` // file, redis, mongo or none
	Dir           string        `toml:"dir" yaml:"dir"`
	TTL           time.Duration `toml:"ttl" yaml:"ttl"`
	RedisAddr     string        `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int           `toml:"redis_db" yaml:"redis_db"`
	MongoURI      string        `toml:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database" yaml:"mongo_database"`
}

// ServerConfig configures `stacklayout serve`.
type ServerConfig struct {
	Addr         string `toml:"addr" yaml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes" yaml:"max_body_bytes"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero-valued settings. It is idempotent.
func (c *Config) SetDefaults() {
	if c.Layout.Algorithm == "" {
		c.Layout.Algorithm = DefaultAlgorithm
	}
	if c.Layout.Seed == 0 {
		c.Layout.Seed = layout.DefaultSeed
	}
	if c.Layout.Curvature == 0 {
		c.Layout.Curvature = layout.DefaultCurvature
	}

	e := layout.NewEades()
	if c.Eades.C1 == 0 {
		c.Eades.C1 = e.C1
	}
	if c.Eades.C2 == 0 {
		c.Eades.C2 = e.C2
	}
	if c.Eades.C3 == 0 {
		c.Eades.C3 = e.C3
	}
	if c.Eades.C4 == 0 {
		c.Eades.C4 = e.C4
	}
	if c.Eades.Iterations == 0 {
		c.Eades.Iterations = e.Iterations
	}

	fr := layout.NewFruchtermanReingold()
	if c.Fruchterman.Area == 0 {
		c.Fruchterman.Area = fr.Area
	}
	if c.Fruchterman.Temperature == 0 {
		c.Fruchterman.Temperature = fr.Temperature
	}
	if c.Fruchterman.Iterations == 0 {
		c.Fruchterman.Iterations = fr.Iterations
	}

	if len(c.Buchheim.Basis) == 0 {
		b := layout.DefaultBasis
		c.Buchheim.Basis = []float64{b[0][0], b[0][1], b[1][0], b[1][1]}
	}

	if c.GraphViz.Command == "" {
		c.GraphViz.Command = graphviz.DefaultCommand
	}
	if c.GraphViz.Timeout == 0 {
		c.GraphViz.Timeout = graphviz.DefaultTimeout
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = cache.BackendFile
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = cache.DefaultTTL
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// Validate checks settings that defaults cannot repair.
func (c *Config) Validate() error {
	if _, err := CanonicalAlgorithm(c.Layout.Algorithm); err != nil {
		return err
	}
	if len(c.Buchheim.Basis) != 4 {
		return errors.New(errors.ErrCodeInvalidConfig, "buchheim.basis: expected 4 values, got %d", len(c.Buchheim.Basis))
	}
	if err := errors.RequireFinite("buchheim.basis", c.Buchheim.Basis...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "buchheim")
	}
	if err := errors.RequirePositive("fruchterman.area", c.Fruchterman.Area); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "fruchterman")
	}
	if c.Eades.Iterations < 0 || c.Fruchterman.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "iterations must not be negative")
	}
	err := errors.RequireOneOf("cache.backend", c.Cache.Backend,
		cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache")
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.Backend == cache.BackendMongo && c.Cache.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.mongo_uri is required for the mongo backend")
	}
	return nil
}

// =============================================================================
// Loading
// =============================================================================

// DefaultPath returns the per-user config file location. The file need not
// exist.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "stacklayout", "config.toml")
}

// Load reads path (TOML or YAML by extension), applies environment
// overrides and defaults, and validates the result. An empty path skips
// the file; a missing DefaultPath is not an error.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path != "" && !(path == DefaultPath() && !exists(path)) {
		if err := c.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "config %s: expected .toml, .yaml or .yml", path)
	}
	return nil
}

// CanonicalAlgorithm resolves aliases such as "fr" and rejects unknown
// names.
func CanonicalAlgorithm(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if canon, ok := algorithmAliases[name]; ok {
		return canon, nil
	}
	for _, a := range Algorithms {
		if a == name {
			return a, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown layout algorithm %q (want one of %s)", name, strings.Join(Algorithms, ", "))
}
