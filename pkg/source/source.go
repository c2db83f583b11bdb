// Package source loads the drawing metadata document.
//
// The document lives in a local file, behind an HTTP URL, or in a MongoDB
// collection. [Open] picks the implementation from the location string:
//
//	src, _ := source.Open("data/metadata.json", source.Options{})
//	src, _ := source.Open("https://drawings.example.com/metadata.json", source.Options{Cache: c})
//	src, _ := source.Open("mongodb://localhost:27017", source.Options{Database: "blueprint", Collection: "metadata"})
//
// Every source returns the document unchanged; mapping order survives all
// three transports.
package source

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/blueprint/pkg/cache"
	apperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/metadata"
	"github.com/matzehuels/blueprint/pkg/observability"
)

// Source loads a metadata document.
type Source interface {
	Load(ctx context.Context) (*metadata.Metadata, error)
	// String describes the source for logs.
	String() string
}

// Options configures [Open].
type Options struct {
	// Cache stores documents fetched over HTTP. Nil disables caching.
	Cache cache.Cache
	// Keyer builds cache keys. Nil uses the default keyer.
	Keyer cache.Keyer
	// CacheTTL is how long a fetched document stays fresh.
	CacheTTL time.Duration
	// Refresh bypasses the cache.
	Refresh bool
	// Headers are sent with HTTP requests.
	Headers map[string]string

	// Database and Collection locate MongoDB documents.
	Database   string
	Collection string
	// DocumentID selects one MongoDB document by _id; empty takes the most
	// recently inserted one.
	DocumentID string
}

// Open returns the source for location: an http(s) URL, a mongodb URI or a
// file path.
func Open(location string, opts Options) (Source, error) {
	switch {
	case location == "":
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "metadata location is empty")
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(location, opts)
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		return NewMongoSource(location, opts)
	default:
		return NewFileSource(location)
	}
}

// Load loads src and reports the load to the observability hooks.
func Load(ctx context.Context, src Source) (*metadata.Metadata, error) {
	hooks := observability.Metadata()
	hooks.OnLoadStart(ctx, src.String())
	start := time.Now()

	m, err := src.Load(ctx)

	drawings := 0
	if m != nil {
		drawings = m.Drawings.Len()
	}
	hooks.OnLoadComplete(ctx, src.String(), drawings, time.Since(start), err)
	return m, err
}
