package server

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/malphas-lang/humanabi/item"
)

// result is one cached compilation. Failures are cached as well since
// compiling the same source always fails the same way.
type result struct {
	items  item.List
	params []item.Parameter
	err    error
}

// resultCache is a bounded LRU keyed by request kind, filename and source.
// A nil cache never hits.
type resultCache struct {
	lru *lru.Cache[string, result]
}

func newResultCache(size int) (*resultCache, error) {
	if size <= 0 {
		return &resultCache{}, nil
	}
	c, err := lru.New[string, result](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{lru: c}, nil
}

func cacheKey(kind, filename, src string) string {
	return kind + "\x00" + filename + "\x00" + src
}

func (c *resultCache) get(key string) (result, bool) {
	if c.lru == nil {
		return result{}, false
	}
	return c.lru.Get(key)
}

func (c *resultCache) add(key string, r result) {
	if c.lru != nil {
		c.lru.Add(key, r)
	}
}

func (c *resultCache) len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
