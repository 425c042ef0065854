// Package cache keeps the most recent analysis report in memory and on disk.
package cache

import "strings"

// Layer is one tier of the latest-result store. Each tier owns its expiry.
type Layer interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Drop(key string) error
}

// LatestKey is the single slot the latest report is stored under
const LatestKey = "isnad:v1:latest"

// fileName maps a cache key to a portable file name
func fileName(key string) string {
	return strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(key) + ".cache"
}
