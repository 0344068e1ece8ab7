package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants or tools can
// share one backend without colliding.
//
// Example usage:
//
//	// Keys written by the HTTP server
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "server:")
//
//	// Keys written by the CLI
//	cliKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// DocumentKey generates a prefixed key for stored layout documents.
func (k *ScopedKeyer) DocumentKey(id string) string {
	return k.prefix + k.inner.DocumentKey(id)
}
