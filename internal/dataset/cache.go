package dataset

import (
	"context"
	"sync"
)

// Cache loads the datasets at most once for the lifetime of the process.
// A failed load is cached as well; nothing is retried or invalidated.
type Cache struct {
	loader *Loader

	once    sync.Once
	sources *Sources
	err     error
}

// NewCache wraps a Loader.
func NewCache(loader *Loader) *Cache {
	return &Cache{loader: loader}
}

// Get returns the loaded sources, reading the files on the first call only.
// Every caller receives the same *Sources.
func (c *Cache) Get(ctx context.Context) (*Sources, error) {
	c.once.Do(func() {
		c.sources, c.err = c.loader.Load(ctx)
	})
	return c.sources, c.err
}
