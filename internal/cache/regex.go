package cache

import (
	"fmt"
	"regexp"
	"sync"
)

// DefaultRegexCapacity bounds the compiled-regex cache.
const DefaultRegexCapacity = 1000

// RegexCache is a thread-safe cache of compiled regular expressions. When
// the cache is full it is cleared wholesale before the next insert.
type RegexCache struct {
	patterns map[string]*regexp.Regexp
	capacity int
	mu       sync.RWMutex
}

// NewRegexCache creates a cache holding at most capacity compiled patterns.
func NewRegexCache(capacity int) *RegexCache {
	if capacity <= 0 {
		capacity = DefaultRegexCapacity
	}
	return &RegexCache{
		patterns: make(map[string]*regexp.Regexp),
		capacity: capacity,
	}
}

// Get returns the compiled form of pattern, compiling and caching it on
// first use. Compile failures are returned to the caller and never cached.
func (c *RegexCache) Get(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	re, ok := c.patterns[pattern]
	c.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.patterns[pattern]; ok {
		return cached, nil
	}
	if len(c.patterns) >= c.capacity {
		c.patterns = make(map[string]*regexp.Regexp)
	}
	c.patterns[pattern] = re
	return re, nil
}

// Len returns the number of cached patterns.
func (c *RegexCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.patterns)
}
