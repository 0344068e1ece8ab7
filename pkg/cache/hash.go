package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash is the hex SHA-256 digest of data. Graph documents and file cache
// entries are addressed by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey folds the JSON encoding of parts into "<prefix>:<digest>". parts
// must be JSON-encodable; map keys are sorted by encoding/json so equal
// settings always give equal keys.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
