package source

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/matzehuels/blueprint/pkg/cache"
	apperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/httputil"
	"github.com/matzehuels/blueprint/pkg/metadata"
)

// HTTPSource fetches the document from a URL through a read-through cache.
// Each Load makes at most one request; a failure is returned, not repeated.
type HTTPSource struct {
	url     string
	client  *httputil.Client
	keyer   cache.Keyer
	refresh bool
}

// NewHTTPSource returns a source for url.
func NewHTTPSource(url string, opts Options) (*HTTPSource, error) {
	if err := apperrors.ValidateURL(url); err != nil {
		return nil, err
	}
	keyer := opts.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	var c cache.Cache
	if opts.Cache != nil {
		c = cache.Instrumented(opts.Cache, "metadata")
	}
	return &HTTPSource{
		url:     url,
		client:  httputil.NewClient(c, "", opts.CacheTTL, opts.Headers),
		keyer:   keyer,
		refresh: opts.Refresh,
	}, nil
}

// Client returns the underlying HTTP client.
func (s *HTTPSource) Client() *httputil.Client { return s.client }

func (s *HTTPSource) Load(ctx context.Context) (*metadata.Metadata, error) {
	var raw json.RawMessage
	key := s.keyer.HTTPKey("metadata", s.url)
	err := s.client.Cached(ctx, key, s.refresh, &raw, func() error {
		data, err := s.client.GetBytes(ctx, s.url)
		if err != nil {
			return err
		}
		if !json.Valid(data) {
			return apperrors.New(apperrors.ErrCodeInvalidMetadata, "%s did not return a JSON document", s.url)
		}
		raw = data
		return nil
	})
	switch {
	case err == nil:
		return metadata.Parse(raw)
	case apperrors.GetCode(err) != "":
		return nil, err
	case errors.Is(err, httputil.ErrNotFound):
		return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, err, "fetch %s", s.url)
	case errors.Is(err, context.DeadlineExceeded):
		return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, err, "fetch %s", s.url)
	default:
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "fetch %s", s.url)
	}
}

func (s *HTTPSource) String() string { return s.url }
