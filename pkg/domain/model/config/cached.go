package config

import "time"

// Cached wraps a record with the metadata of the read that produced it. Callers pass it back
// to the matching Update call so the write is checked against Revision.
type Cached[T any] struct {
	Revision  int
	FetchedAt time.Time
	Value     T
}

// IsExpired reports whether the entry is older than ttl at now. A nil entry is expired.
func (c *Cached[T]) IsExpired(now time.Time, ttl time.Duration) bool {
	if c == nil {
		return true
	}
	return now.Sub(c.FetchedAt) > ttl
}

// NextRevision returns the revision a write based on c must produce. Zero means the write is
// unconditional (first write).
func (c *Cached[T]) NextRevision() int {
	if c == nil {
		return 0
	}
	return c.Revision + 1
}
