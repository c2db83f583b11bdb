// Package cache stores fetched metadata documents and probed image
// dimensions between runs.
//
// [Cache] is a byte-oriented key/value store with per-entry TTL. Three
// implementations are provided:
//
//   - [FileCache] keeps entries as files under a directory, for the CLI.
//   - [RedisCache] shares entries between server instances.
//   - [NullCache] stores nothing, for tests or when caching is disabled.
//
// Keys are built by a [Keyer] so that every component agrees on their shape;
// [NewScopedKeyer] isolates deployments that share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized entries.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss
	// (ok == false) and not an error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey is the key of a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// MetadataKey is the key of a decoded metadata document loaded from source.
	MetadataKey(source string) string

	// DimensionsKey is the key of the natural size of an image file.
	DimensionsKey(name string, opts DimensionsKeyOpts) string
}

// DimensionsKeyOpts identifies the version of an image file, so that a
// replaced file is probed again.
type DimensionsKeyOpts struct {
	Size    int64
	ModTime time.Time
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) MetadataKey(source string) string {
	return hashKey("metadata", source)
}

func (DefaultKeyer) DimensionsKey(name string, opts DimensionsKeyOpts) string {
	return hashKey("dimensions", name, opts.Size, opts.ModTime.UnixNano())
}
