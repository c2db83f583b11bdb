// Package imageinfo reads the natural pixel size of drawing images.
//
// Only the image header is decoded. PNG, JPEG and GIF come from the standard
// library; BMP, TIFF and WebP decoders are registered from golang.org/x/image.
//
// A [Prober] remembers every size it has read and persists them in a
// [cache.Cache] keyed by file name, size and modification time, so a server
// restart does not reread unchanged files.
package imageinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/blueprint/pkg/cache"
	apperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/geometry"
	"github.com/matzehuels/blueprint/pkg/observability"
)

// DefaultConcurrency bounds parallel probes in [Prober.Warm].
const DefaultConcurrency = 8

// DecodeSize reads the dimensions and format of the image at path.
func DecodeSize(path string) (geometry.Size, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return geometry.Size{}, "", err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return geometry.Size{}, "", fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return geometry.Size{Width: cfg.Width, Height: cfg.Height}, format, nil
}

// Prober resolves image names inside an asset directory to their sizes.
// It is safe for concurrent use.
type Prober struct {
	dir   string
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration

	mu    sync.RWMutex
	sizes map[string]geometry.Size
}

// Option configures a Prober.
type Option func(*Prober)

// WithCache persists probed sizes in c for ttl (0 keeps them forever).
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(p *Prober) { p.cache, p.ttl = c, ttl }
}

// WithKeyer overrides the cache key builder.
func WithKeyer(k cache.Keyer) Option {
	return func(p *Prober) { p.keyer = k }
}

// NewProber returns a prober for images under dir.
func NewProber(dir string, opts ...Option) *Prober {
	p := &Prober{
		dir:   dir,
		cache: cache.NewNullCache(),
		keyer: cache.NewDefaultKeyer(),
		sizes: make(map[string]geometry.Size),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dir returns the asset directory.
func (p *Prober) Dir() string { return p.dir }

// Size returns the size of name if it has been probed. It never touches the
// disk.
func (p *Prober) Size(name string) (geometry.Size, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sizes[name]
	return s, ok
}

// Path returns the file path of name after validating it. Names may reach
// into subfolders but never out of the asset directory.
func (p *Prober) Path(name string) (string, error) {
	if err := apperrors.ValidateImageName(name); err != nil {
		return "", err
	}
	dir := filepath.Clean(p.dir)
	path := filepath.Join(dir, filepath.FromSlash(name))
	if rel, err := filepath.Rel(dir, path); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperrors.New(apperrors.ErrCodeInvalidPath, "image %q is outside the asset directory", name)
	}
	return path, nil
}

// Probe returns the size of name, from memory, the cache or the file.
func (p *Prober) Probe(ctx context.Context, name string) (geometry.Size, error) {
	if s, ok := p.Size(name); ok {
		return s, nil
	}

	path, err := p.Path(name)
	if err != nil {
		return geometry.Size{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return geometry.Size{}, apperrors.Wrap(apperrors.ErrCodeImageNotFound, err, "image %q", name)
	}

	key := p.keyer.DimensionsKey(name, cache.DimensionsKeyOpts{Size: info.Size(), ModTime: info.ModTime()})
	if data, ok, err := p.cache.Get(ctx, key); err == nil && ok {
		var s geometry.Size
		if json.Unmarshal(data, &s) == nil && !s.IsZero() {
			p.remember(name, s)
			return s, nil
		}
	}

	start := time.Now()
	s, _, err := DecodeSize(path)
	observability.Metadata().OnProbe(ctx, name, time.Since(start), err)
	if err != nil {
		return geometry.Size{}, apperrors.Wrap(apperrors.ErrCodeUnsupported, err, "image %q", name)
	}

	p.remember(name, s)
	if data, err := json.Marshal(s); err == nil {
		_ = p.cache.Set(ctx, key, data, p.ttl)
	}
	return s, nil
}

// Warm probes names concurrently, at most concurrency at a time. Images that
// cannot be read are skipped; their names are returned in failed. Only
// cancellation of ctx is reported as an error.
func (p *Prober) Warm(ctx context.Context, names []string, concurrency int) (failed []string, err error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := p.Probe(ctx, name); err != nil {
				mu.Lock()
				failed = append(failed, name)
				mu.Unlock()
			}
			return nil
		})
	}
	err = g.Wait()
	slices.Sort(failed)
	return failed, err
}

func (p *Prober) remember(name string, s geometry.Size) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sizes[name] = s
}
