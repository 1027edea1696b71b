// Package views keeps per-page view counts in memory.
package views

import (
	"sort"
	"sync"

	"github.com/spigell/folio/internal/validation"
)

// Counter is safe for concurrent use. The zero value is not usable, create
// it with NewCounter.
type Counter struct {
	mu     sync.RWMutex
	counts map[string]int
}

// Page is the view count of one slug.
type Page struct {
	Slug  string `json:"slug"`
	Views int    `json:"views"`
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Increment records a view of slug and returns the new total.
func (c *Counter) Increment(slug string) (int, error) {
	if err := validation.Var("slug", slug, "required,slug"); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[slug]++
	return c.counts[slug], nil
}

// Get returns the views of slug, zero for pages never seen.
func (c *Counter) Get(slug string) (int, error) {
	if err := validation.Var("slug", slug, "required,slug"); err != nil {
		return 0, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.counts[slug], nil
}

// Snapshot returns every page ordered by views, most viewed first.
func (c *Counter) Snapshot() []Page {
	c.mu.RLock()
	pages := make([]Page, 0, len(c.counts))
	for slug, views := range c.counts {
		pages = append(pages, Page{Slug: slug, Views: views})
	}
	c.mu.RUnlock()

	sort.Slice(pages, func(i, j int) bool {
		if pages[i].Views == pages[j].Views {
			return pages[i].Slug < pages[j].Slug
		}
		return pages[i].Views > pages[j].Views
	})

	return pages
}
