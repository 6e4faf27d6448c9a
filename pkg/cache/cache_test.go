package cache

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// ExportKey should include options in hash
	ek1 := k.ExportKey("hash123", ExportKeyOpts{Format: "svg", Layout: "dot"})
	ek2 := k.ExportKey("hash123", ExportKeyOpts{Format: "png", Layout: "dot"})
	if ek1 == ek2 {
		t.Error("Different ExportKeyOpts should produce different keys")
	}

	// Same inputs produce the same key
	ek3 := k.ExportKey("hash123", ExportKeyOpts{Format: "svg", Layout: "dot"})
	if ek1 != ek3 {
		t.Error("ExportKey should be deterministic")
	}

	// Document hash is part of the key
	ek4 := k.ExportKey("hash456", ExportKeyOpts{Format: "svg", Layout: "dot"})
	if ek1 == ek4 {
		t.Error("Different documents should produce different keys")
	}

	// NetlistKey
	nk1 := k.NetlistKey("hash123")
	nk2 := k.NetlistKey("hash456")
	if nk1 == nk2 {
		t.Error("Different documents should produce different netlist keys")
	}
	if nk1 == ek1 {
		t.Error("Netlist and export keys should not collide")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "proj:123:")

	// All keys should be prefixed
	key := scoped.NetlistKey("hash123")
	if len(key) < 9 || key[:9] != "proj:123:" {
		t.Errorf("ScopedKeyer NetlistKey should be prefixed: %s", key)
	}

	ek := scoped.ExportKey("hash123", ExportKeyOpts{Format: "svg"})
	if len(ek) < 9 || ek[:9] != "proj:123:" {
		t.Errorf("ScopedKeyer ExportKey should be prefixed: %s", ek)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.NetlistKey("hash")
	if key[:7] != "prefix:" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "artifact")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss before Set")
	}

	// Set then Get
	want := []byte("<svg>...</svg>")
	if err := c.Set(ctx, "artifact", want, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, "artifact")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get returned %q, want %q", got, want)
	}

	// Delete then miss
	if err := c.Delete(ctx, "artifact"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "artifact")
	if hit {
		t.Error("expected miss after Delete")
	}

	// Deleting an absent key is fine
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete of absent key: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, hit, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("data"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Corrupt the entry on disk
	fc := c.(*FileCache)
	if err := os.WriteFile(fc.path("key"), []byte("not json"), 0644); err != nil {
		t.Fatalf("corrupt write: %v", err)
	}

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("corrupt entry should be treated as a miss")
	}

	// The corrupt file should have been removed
	if _, err := os.Stat(fc.path("key")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed from disk")
	}
}
