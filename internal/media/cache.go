package media

import (
	"image"
	"sync"
)

// DefaultCacheSize holds the focused page and its two neighbours.
const DefaultCacheSize = 3

type cacheKey struct {
	path          string
	width, height int
}

type cacheEntry struct {
	key cacheKey
	img image.Image
}

// Cache keeps the most recently used constrained images. It is safe for
// concurrent use.
type Cache struct {
	mu      sync.Mutex
	size    int
	entries []cacheEntry // most recent first
	load    func(path string, w, h int) (image.Image, error)
}

// NewCache creates a cache holding up to size images.
func NewCache(size int) *Cache {
	if size < 1 {
		size = DefaultCacheSize
	}
	return &Cache{size: size, load: LoadImageConstrained}
}

// Get returns the image at path constrained to w x h, loading it on a miss.
// Failed loads are not cached.
func (c *Cache) Get(path string, w, h int) (image.Image, error) {
	key := cacheKey{path: path, width: w, height: h}

	c.mu.Lock()
	img, ok := c.touch(key)
	c.mu.Unlock()
	if ok {
		return img, nil
	}

	img, err := c.load(path, w, h)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent miss on the same key may have stored it first.
	if cached, ok := c.touch(key); ok {
		return cached, nil
	}
	c.entries = append([]cacheEntry{{key: key, img: img}}, c.entries...)
	if len(c.entries) > c.size {
		c.entries = c.entries[:c.size]
	}
	return img, nil
}

// touch moves key to the front and returns its image. c.mu must be held.
func (c *Cache) touch(key cacheKey) (image.Image, bool) {
	for i, e := range c.entries {
		if e.key == key {
			copy(c.entries[1:i+1], c.entries[:i])
			c.entries[0] = e
			return e.img, true
		}
	}
	return nil, false
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
