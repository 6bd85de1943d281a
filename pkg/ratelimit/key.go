package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
)

// maxKeyLength caps rate limit keys to prevent excessively long storage keys
// in backends like Redis.
const maxKeyLength = 64

// KeyFunc extracts a unique identifier from an HTTP request for rate
// limiting. An empty return means "no identifier"; chained extractors fall
// through to the next one.
type KeyFunc func(*http.Request) string

// FirstOf tries each extractor in order and returns the first non-empty key.
// Use it to express identifier priority: user id, then API key hash, then
// client IP.
func FirstOf(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				return clampKey(key)
			}
		}
		return ""
	}
}

// ByHeader extracts the key from a request header.
func ByHeader(name string) KeyFunc {
	return func(r *http.Request) string {
		return strings.TrimSpace(r.Header.Get(name))
	}
}

// ByAPIKeyHash extracts the bearer token from the Authorization header and
// hashes it, so raw credentials never become storage keys.
func ByAPIKeyHash() KeyFunc {
	return func(r *http.Request) string {
		auth := strings.TrimSpace(r.Header.Get("Authorization"))
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			return ""
		}
		sum := sha256.Sum256([]byte(token))
		return "apikey:" + hex.EncodeToString(sum[:16])
	}
}

// ByClientIP extracts the client address, preferring X-Forwarded-For.
func ByClientIP() KeyFunc {
	return func(r *http.Request) string {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			if first, _, ok := strings.Cut(fwd, ","); ok {
				return "ip:" + strings.TrimSpace(first)
			}
			return "ip:" + strings.TrimSpace(fwd)
		}
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return "ip:" + r.RemoteAddr
		}
		return "ip:" + host
	}
}

// clampKey hashes over-long keys down to 32 hex chars. A 128-bit hash keeps
// collisions out of reach while bounding key size.
func clampKey(key string) string {
	if len(key) <= maxKeyLength {
		return key
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16])
}
