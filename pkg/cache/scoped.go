package cache

// ScopedKeyer wraps a Keyer with a namespace prefix. The file cache
// persists across binary upgrades, and an upgrade can change the embedded
// scale catalog or the rendered markup; scoping keys by build version
// keeps old entries from ever being served by a new binary.
//
//	keyer := cache.NewScopedKeyer(nil, "v"+buildinfo.Version+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key. A nil
// inner keyer falls back to the default scheme.
func NewScopedKeyer(inner Keyer, prefix string) *ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocKey prefixes the inner document key.
func (k *ScopedKeyer) DocKey(archiveHash string) string {
	return k.prefix + k.inner.DocKey(archiveHash)
}

// TablatureKey prefixes the inner tablature key.
func (k *ScopedKeyer) TablatureKey(docHash string, opts TablatureKeyOpts) string {
	return k.prefix + k.inner.TablatureKey(docHash, opts)
}

// ArtifactKey prefixes the inner artifact key.
func (k *ScopedKeyer) ArtifactKey(tabHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(tabHash, opts)
}
