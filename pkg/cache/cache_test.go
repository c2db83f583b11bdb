package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/blueprint/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.HTTPKey("metadata", "https://example.com/m.json"); got != "http:metadata:https://example.com/m.json" {
		t.Errorf("HTTPKey unexpected: %s", got)
	}

	mk1 := k.MetadataKey("file:a.json")
	mk2 := k.MetadataKey("file:b.json")
	if mk1 == mk2 || !strings.HasPrefix(mk1, "metadata:") {
		t.Errorf("MetadataKey unexpected: %s, %s", mk1, mk2)
	}

	mod := time.Date(2024, 3, 30, 12, 0, 0, 0, time.UTC)
	dk1 := k.DimensionsKey("a.png", DimensionsKeyOpts{Size: 100, ModTime: mod})
	dk2 := k.DimensionsKey("a.png", DimensionsKeyOpts{Size: 100, ModTime: mod.Add(time.Second)})
	dk3 := k.DimensionsKey("a.png", DimensionsKeyOpts{Size: 100, ModTime: mod})
	if dk1 == dk2 {
		t.Error("a modified file should get a new DimensionsKey")
	}
	if dk1 != dk3 {
		t.Error("DimensionsKey should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "site:1:")

	if got := scoped.HTTPKey("metadata", "u"); got != "site:1:http:metadata:u" {
		t.Errorf("ScopedKeyer HTTPKey unexpected: %s", got)
	}
	if got := scoped.MetadataKey("file:a.json"); !strings.HasPrefix(got, "site:1:metadata:") {
		t.Errorf("ScopedKeyer MetadataKey should be prefixed: %s", got)
	}
	if got := scoped.DimensionsKey("a.png", DimensionsKeyOpts{}); !strings.HasPrefix(got, "site:1:dimensions:") {
		t.Errorf("ScopedKeyer DimensionsKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.HTTPKey("test", "key"); key != "prefix:http:test:key" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte(`{"width":10}`), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != `{"width":10}` {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, err := c.Get(ctx, "short"); hit || err != nil {
		t.Errorf("expired entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed on read")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
}

func TestFileCachePruneAndClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte(key), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	n, err := c.Prune(ctx)
	if err != nil || n != 1 {
		t.Errorf("Prune() = %d, %v, want 1", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); !hit {
		t.Error("Prune() should keep live entries")
	}

	n, err = c.Clear(ctx)
	if err != nil || n != 3 {
		t.Errorf("Clear() = %d, %v, want 3", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Clear() should remove every entry")
	}
}

type recordingHooks struct {
	mu                 sync.Mutex
	hits, misses, sets int
	bytes              int
}

func (h *recordingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *recordingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *recordingHooks) OnCacheSet(_ context.Context, _ string, size int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets++
	h.bytes += size
}

func TestInstrumented(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := Instrumented(fc, "dimensions")

	_, _, _ = c.Get(ctx, "k")
	_ = c.Set(ctx, "k", []byte("1234"), 0)
	_, _, _ = c.Get(ctx, "k")

	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 1 || hooks.bytes != 4 {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("BLUEPRINT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("BLUEPRINT_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	key := "blueprint-test:" + Hash([]byte(t.Name()))
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get(missing) = %v, %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if data, hit, err := c.Get(ctx, key); !hit || err != nil || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not a url"); err == nil {
		t.Error("NewRedisCache should reject a malformed url")
	}
}
