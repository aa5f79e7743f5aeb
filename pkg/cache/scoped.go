package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants can share one
// backend. The HTTP server scopes keys per API version:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
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

// AspectsKey generates a prefixed key for aspect set caching.
func (k *ScopedKeyer) AspectsKey(layersHash string, opts AspectsKeyOpts) string {
	return k.prefix + k.inner.AspectsKey(layersHash, opts)
}

// WheelKey generates a prefixed key for wheel caching.
func (k *ScopedKeyer) WheelKey(layersHash string, opts WheelKeyOpts) string {
	return k.prefix + k.inner.WheelKey(layersHash, opts)
}
