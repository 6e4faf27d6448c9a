package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds a cache key of the form kind:hex. The parts are JSON
// encoded before hashing so a key only changes when a part's value does.
func hashKey(kind string, parts ...any) string {
	raw, _ := json.Marshal(parts)
	sum := sha256.Sum256(raw)
	return kind + ":" + hex.EncodeToString(sum[:])
}

// Hash fingerprints raw snapshot bytes for content-addressed artifact
// keys. The full 64-character hex digest is returned.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
