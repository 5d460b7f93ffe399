package posts

import (
	"sync"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

type postKey struct {
	dir  string
	slug string
}

type listing struct {
	posts  []interfaces.Post
	report LoadReport
}

// Cache holds normalised posts for the lifetime of the process. It keeps
// single post lookups and full directory listings in separate maps. Entries
// are never evicted; storing an existing key replaces it with equivalent
// data. Values are copied on the way in and out.
type Cache struct {
	mu     sync.RWMutex
	single map[postKey]interfaces.Post
	all    map[string]listing
}

// CacheStats reports the number of cached entries.
type CacheStats struct {
	Posts    int `json:"posts"`
	Listings int `json:"listings"`
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		single: make(map[postKey]interfaces.Post),
		all:    make(map[string]listing),
	}
}

// Post returns the cached post for slug in dir.
func (c *Cache) Post(dir, slug string) (interfaces.Post, bool) {
	c.mu.RLock()
	post, ok := c.single[postKey{dir: dir, slug: slug}]
	c.mu.RUnlock()
	if !ok {
		return interfaces.Post{}, false
	}
	return post.Clone(), true
}

// StorePost caches post under dir and slug.
func (c *Cache) StorePost(dir, slug string, post interfaces.Post) {
	c.mu.Lock()
	c.single[postKey{dir: dir, slug: slug}] = post.Clone()
	c.mu.Unlock()
}

// Listing returns the cached listing for dir and the report recorded when
// it was built.
func (c *Cache) Listing(dir string) ([]interfaces.Post, LoadReport, bool) {
	c.mu.RLock()
	entry, ok := c.all[dir]
	c.mu.RUnlock()
	if !ok {
		return nil, LoadReport{}, false
	}
	return clonePosts(entry.posts), entry.report.clone(), true
}

// StoreListing caches the ordered listing for dir.
func (c *Cache) StoreListing(dir string, posts []interfaces.Post, report LoadReport) {
	c.mu.Lock()
	c.all[dir] = listing{posts: clonePosts(posts), report: report.clone()}
	c.mu.Unlock()
}

// Stats returns entry counts.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Posts: len(c.single), Listings: len(c.all)}
}

func clonePosts(posts []interfaces.Post) []interfaces.Post {
	if posts == nil {
		return nil
	}
	out := make([]interfaces.Post, len(posts))
	for i, post := range posts {
		out[i] = post.Clone()
	}
	return out
}
