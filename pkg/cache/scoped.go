package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments or
// tenants can share one Redis instance without colliding.
//
// Example usage:
//
//	// Keys of the staging API live under their own namespace
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "fpminer:staging:")
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

// ResultKey generates a prefixed key for mining results.
func (k *ScopedKeyer) ResultKey(datasetHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(datasetHash, opts)
}

// TreeKey generates a prefixed key for rendered trees.
func (k *ScopedKeyer) TreeKey(datasetHash string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(datasetHash, opts)
}
