package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments can
// share one Redis instance without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "site:riverside:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// MetadataKey generates a prefixed key for metadata documents.
func (k *ScopedKeyer) MetadataKey(source string) string {
	return k.prefix + k.inner.MetadataKey(source)
}

// DimensionsKey generates a prefixed key for image dimensions.
func (k *ScopedKeyer) DimensionsKey(name string, opts DimensionsKeyOpts) string {
	return k.prefix + k.inner.DimensionsKey(name, opts)
}
