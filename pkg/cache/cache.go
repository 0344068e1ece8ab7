package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys.
//
// Implementations must be safe for concurrent use. A miss is reported as
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultTTL is the lifetime of cached layouts when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Keyer derives cache keys. Swapping the Keyer lets callers partition a
// shared backend (see [ScopedKeyer]).
type Keyer interface {
	// LayoutKey identifies a computed layout by the hash of its graph
	// document and the options that influence the result.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// DocumentKey identifies a stored layout document by its public ID.
	DocumentKey(id string) string
}

// LayoutKeyOpts are the layout parameters folded into a layout key.
type LayoutKeyOpts struct {
	Algorithm string  `json:"algorithm"`
	Seed      uint64  `json:"seed"`
	Edges     string  `json:"edges"` // "straight" or "curved"
	Curvature float64 `json:"curvature"`
	// Params holds algorithm tuning (forces, iterations, basis) in any
	// JSON-serializable form.
	Params any `json:"params,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// DocumentKey returns "doc:<id>".
func (DefaultKeyer) DocumentKey(id string) string {
	return "doc:" + id
}
