package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/observability"
)

// addPersistentFlags registers the flags shared by every command.
func (c *CLI) addPersistentFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVarP(&c.ConfigPath, "config", "c", "", "config file (default ./blueprint.toml if present)")
	flags.StringVarP(&c.Location, "metadata", "m", "", "metadata location: file path, http(s) URL or mongodb URI")
	flags.BoolVar(&c.NoCache, "no-cache", false, "disable the response and image size caches")
}

// EnableDebugHooks routes library events to the logger at debug level.
// main.go calls it when --verbose is set.
func (c *CLI) EnableDebugHooks() {
	h := &logHooks{logger: c.Logger}
	observability.SetMetadataHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// logHooks implements the observability hooks on top of a logger.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLoadStart(ctx context.Context, source string) {
	h.logger.Debug("loading metadata", "source", source)
}

func (h *logHooks) OnLoadComplete(ctx context.Context, source string, drawings int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("metadata load failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("metadata loaded", "source", source, "drawings", drawings, "duration", duration.Round(time.Millisecond))
}

func (h *logHooks) OnProbe(ctx context.Context, image string, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("probe failed", "image", image, "err", err)
		return
	}
	h.logger.Debug("probed", "image", image, "duration", duration.Round(time.Microsecond))
}

func (h *logHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(ctx context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", statusCode, "duration", duration.Round(time.Millisecond))
}

func (h *logHooks) OnError(ctx context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ observability.MetadataHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
	_ observability.HTTPHooks     = (*logHooks)(nil)
)
