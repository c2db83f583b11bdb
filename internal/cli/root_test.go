package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/blueprint/pkg/observability"
)

func TestEnableDebugHooks(t *testing.T) {
	defer observability.Reset()

	var buf bytes.Buffer
	c := New(&buf, LogDebug)
	c.EnableDebugHooks()

	ctx := context.Background()
	observability.Metadata().OnLoadStart(ctx, "metadata.json")
	observability.Metadata().OnLoadComplete(ctx, "metadata.json", 3, time.Second, nil)
	observability.Metadata().OnProbe(ctx, "a.png", time.Millisecond, errors.New("boom"))
	observability.Cache().OnCacheMiss(ctx, "metadata")
	observability.HTTP().OnResponse(ctx, "GET", "example.com", "/metadata.json", 200, time.Second)

	out := buf.String()
	for _, want := range []string{"loading metadata", "metadata loaded", "drawings=3", "probe failed", "cache miss", "http response", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestDebugHooksQuietAtInfo(t *testing.T) {
	defer observability.Reset()

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.EnableDebugHooks()

	observability.Cache().OnCacheHit(context.Background(), "metadata")
	if buf.Len() != 0 {
		t.Errorf("debug hooks logged at info level: %s", buf.String())
	}
}
