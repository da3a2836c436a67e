package seobar

// cacheKey namespaces shared-cache entries. Typed keys keep the
// namespace closed; a typo is a compile error, not a silent miss.
type cacheKey string

const (
	keyPageTitleDefaults       cacheKey = "page/title/defaults"
	keyPageDescriptionDefaults cacheKey = "page/description/defaults"
	keyPageIndexDefaults       cacheKey = "page/index/defaults"
	keyPageFollowDefaults      cacheKey = "page/follow/defaults"
	keyPageArchiveDefaults     cacheKey = "page/archive/defaults"
	keyPageRedirectDefaults    cacheKey = "page/redirect/defaults"

	keyTermTitleDefaults       cacheKey = "term/title/defaults"
	keyTermDescriptionDefaults cacheKey = "term/description/defaults"
	keyTermIndexDefaults       cacheKey = "term/index/defaults"
	keyTermFollowDefaults      cacheKey = "term/follow/defaults"
	keyTermArchiveDefaults     cacheKey = "term/archive/defaults"
	keyTermRedirectDefaults    cacheKey = "term/redirect/defaults"

	keySiteState cacheKey = "general/detect/robotsglobal"
)

// guidelineKey namespaces the memoized guideline table per locale.
func guidelineKey(locale string) cacheKey {
	return cacheKey("guidelines/" + locale)
}

// Cache is the run-lifetime shared cache. It holds localized defaults
// tables and site-wide settings snapshots so they are computed once
// per run, not once per audited item. Entries are written at most once
// per key and never invalidated within a run; start a fresh Cache for
// a new run, or stale site snapshots will be served.
//
// A stored value is present even when it is a zero value: presence is
// tracked by key, never by truthiness.
type Cache struct {
	entries map[cacheKey]any
}

// NewCache creates an empty shared cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]any)}
}

func (c *Cache) lookup(k cacheKey) (any, bool) {
	v, ok := c.entries[k]
	return v, ok
}

func (c *Cache) store(k cacheKey, v any) {
	c.entries[k] = v
}

// memo returns the cached value for k, computing and storing it on
// first access.
func memo[T any](c *Cache, k cacheKey, build func() T) T {
	if v, ok := c.lookup(k); ok {
		return v.(T)
	}
	v := build()
	c.store(k, v)
	return v
}
