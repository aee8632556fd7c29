// Package resolver turns image references found in documents into embedded
// pictures or placeholder text.
package resolver

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"md2doc/utils/images"
)

// Cache keeps prepared remote images keyed by exact URL string. It is safe
// for concurrent use. Entries are never modified after they are added, when
// the same URL is stored twice last writer wins.
type Cache struct {
	entries *lru.Cache[string, *images.Prepared]
}

// NewCache creates cache holding at most size images.
func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[string, *images.Prepared](size)
	if err != nil {
		return nil, fmt.Errorf("unable to create image cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

func (c *Cache) Get(url string) (*images.Prepared, bool) {
	return c.entries.Get(url)
}

func (c *Cache) Add(url string, img *images.Prepared) {
	c.entries.Add(url, img)
}

func (c *Cache) Len() int {
	return c.entries.Len()
}
