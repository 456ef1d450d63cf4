package texture

import (
	"image"
	"sort"
	"sync"
)

// Resolver resolves a texture name to a decoded NRGBA image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// slot holds one path's decode result. once gates the decode so concurrent
// workers asking for the same texture wait on a single load.
type slot struct {
	once sync.Once
	img  *image.NRGBA
	err  error
}

// Cache decodes each indexed texture at most once and shares the result
// between batch workers.
type Cache struct {
	index *Index

	mu    sync.Mutex
	slots map[string]*slot
}

func NewCache(index *Index) *Cache {
	return &Cache{index: index, slots: make(map[string]*slot)}
}

func (c *Cache) slotFor(path string) *slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[path]
	if !ok {
		s = &slot{}
		c.slots[path] = s
	}
	return s
}

// Resolve returns the decoded texture for texName, or nil when the name is
// not indexed or the file failed to decode. A failed decode is not retried.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil
	}
	s := c.slotFor(path)
	s.once.Do(func() {
		img, err := LoadTexture(path)
		c.mu.Lock()
		s.img, s.err = img, err
		c.mu.Unlock()
	})
	return s.img
}

// Failure is a texture path whose decode failed.
type Failure struct {
	Path string
	Err  error
}

// Failures lists the decode errors seen so far, sorted by path.
func (c *Cache) Failures() []Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Failure
	for path, s := range c.slots {
		if s.err != nil {
			out = append(out, Failure{Path: path, Err: s.err})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
