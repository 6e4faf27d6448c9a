// Package cache provides content-addressed caching for export artifacts.
//
// Rendering a schematic to SVG or PNG is deterministic in the document
// snapshot and the export options, so artifacts are keyed by the snapshot
// hash plus the options that shaped the output. Re-exporting an unchanged
// document is a cache hit.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiration.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ExportKeyOpts captures the options that change a rendered artifact.
type ExportKeyOpts struct {
	Format string // "svg", "pdf", "png", "dot"
	Layout string // view: "schematic" or "nets"
	Labels bool   // net name labels drawn
}

// Keyer generates cache keys for the artifact kinds the editor produces.
type Keyer interface {
	// ExportKey keys a rendered artifact by document hash and export options.
	ExportKey(docHash string, opts ExportKeyOpts) string

	// NetlistKey keys a generated netlist by document hash.
	NetlistKey(docHash string) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ExportKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ExportKey(docHash string, opts ExportKeyOpts) string {
	return hashKey("export", docHash, opts)
}

// NetlistKey generates a key for a generated netlist.
func (k *DefaultKeyer) NetlistKey(docHash string) string {
	return hashKey("netlist", docHash)
}

// keyType extracts the kind prefix of a key for hook reporting.
func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
