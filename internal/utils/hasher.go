package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// CacheKey builds a short, stable key for input under namespace
func CacheKey(namespace, input string) string {
	sum := sha256.Sum256([]byte(input))
	return namespace + ":" + hex.EncodeToString(sum[:8])
}
