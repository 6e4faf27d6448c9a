package cache

// ScopedKeyer wraps a Keyer with a prefix so multiple workspaces can share
// one cache directory without colliding.
//
// Example usage:
//
//	// Keys private to one project checkout
//	projKeyer := NewScopedKeyer(NewDefaultKeyer(), "proj:amp-board:")
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

// ExportKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ExportKey(docHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(docHash, opts)
}

// NetlistKey generates a prefixed key for generated netlists.
func (k *ScopedKeyer) NetlistKey(docHash string) string {
	return k.prefix + k.inner.NetlistKey(docHash)
}
