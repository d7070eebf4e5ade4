package pathmatch

import "sync"

// DefaultCacheLimit is the number of compiled patterns a Matcher keeps.
const DefaultCacheLimit = 10000

// CacheObserver is notified of every pattern lookup.
type CacheObserver interface {
	ObservePatternCompile(pattern string, cached bool)
}

type cacheKey struct {
	pattern string
	opts    CompileOptions
}

// Matcher compiles patterns and caches the results. Once the cache is full,
// new patterns are compiled on every use and never stored.
//
// A Matcher is safe for concurrent use.
type Matcher struct {
	mu       sync.RWMutex
	patterns map[cacheKey]*Pattern
	limit    int
	observer CacheObserver
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithCacheLimit sets the cache capacity. A limit of zero disables caching.
func WithCacheLimit(n int) MatcherOption {
	return func(m *Matcher) {
		if n >= 0 {
			m.limit = n
		}
	}
}

// WithCacheObserver reports cache hits and misses to o.
func WithCacheObserver(o CacheObserver) MatcherOption {
	return func(m *Matcher) {
		m.observer = o
	}
}

// NewMatcher creates a Matcher.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		patterns: make(map[cacheKey]*Pattern),
		limit:    DefaultCacheLimit,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var defaultMatcher = NewMatcher()

// Default returns the shared Matcher used by the package-level functions.
func Default() *Matcher {
	return defaultMatcher
}

// Compile returns the compiled pattern, from the cache when possible.
func (m *Matcher) Compile(pattern string, opts CompileOptions) (*Pattern, error) {
	key := cacheKey{pattern: pattern, opts: opts}

	m.mu.RLock()
	p, ok := m.patterns[key]
	m.mu.RUnlock()
	if ok {
		m.observe(pattern, true)
		return p, nil
	}

	p, err := Compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	m.observe(pattern, false)

	m.mu.Lock()
	if len(m.patterns) < m.limit {
		m.patterns[key] = p
	}
	m.mu.Unlock()

	return p, nil
}

// Len returns the number of cached patterns.
func (m *Matcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.patterns)
}

// Reset empties the cache.
func (m *Matcher) Reset() {
	m.mu.Lock()
	m.patterns = make(map[cacheKey]*Pattern)
	m.mu.Unlock()
}

func (m *Matcher) observe(pattern string, cached bool) {
	if m.observer != nil {
		m.observer.ObservePatternCompile(pattern, cached)
	}
}
