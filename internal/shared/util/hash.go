package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashUserKey maps a principal id ("google:123", "guest:<uuid>") to a
// path-safe storage namespace.
func HashUserKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}

// CacheKey builds "<namespace>:<digest>" where the digest covers the
// lowercased, NUL-separated parts. The digest is truncated to 24 hex chars.
func CacheKey(namespace string, parts ...string) string {
	lowered := make([]string, len(parts))
	for i, p := range parts {
		lowered[i] = strings.ToLower(strings.TrimSpace(p))
	}
	sum := sha256.Sum256([]byte(strings.Join(lowered, "\x00")))
	return namespace + ":" + hex.EncodeToString(sum[:12])
}
