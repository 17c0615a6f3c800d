// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used (LRU)
cache of byte blobs, keyed by string.

When created with compression enabled via [New], blobs are stored zstd-compressed
whenever that saves space and are transparently decompressed by [Cache.Get] and
[Cache.Peek].
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity LRU cache that is safe for concurrent use.
// Instances must be constructed with [New]; the zero value is not ready for use.
type Cache struct {
	size      int
	evictList *list.List               // front is the most recently used entry
	items     map[string]*list.Element // key -> element holding *entry
	lock      sync.RWMutex

	enc *zstd.Encoder // nil unless compression is enabled
	dec *zstd.Decoder
}

type entry struct {
	key        string
	value      []byte
	compressed bool
}

// New creates a cache that holds at most size blobs.
//
// It returns [ErrInvalidSize] if size is not positive.
func New(size int, compress bool) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}

	if compress {
		// A nil writer/reader allows stateless EncodeAll/DecodeAll calls.
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.enc = enc
		c.dec = dec
	}

	return c, nil
}

// Add stores a copy of value under key and marks it as most recently used.
// If the cache is full, the least recently used blob is evicted.
// Add reports whether an eviction occurred.
func (c *Cache) Add(key string, value []byte) bool {
	stored, compressed := c.pack(value)

	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)

		e := el.Value.(*entry)
		e.value = stored
		e.compressed = compressed

		return false
	}

	c.items[key] = c.evictList.PushFront(&entry{key: key, value: stored, compressed: compressed})

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeElement(c.evictList.Back())
	}

	return evicted
}

// Get returns a copy of the blob stored under key and marks it as most
// recently used.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.lock.Lock()

	el, ok := c.items[key]
	if !ok {
		c.lock.Unlock()

		return nil, false
	}

	c.evictList.MoveToFront(el)
	e := *el.Value.(*entry)

	c.lock.Unlock()

	return c.unpack(e)
}

// Peek is like [Cache.Get] but does not change the eviction order.
func (c *Cache) Peek(key string) ([]byte, bool) {
	c.lock.RLock()

	el, ok := c.items[key]
	if !ok {
		c.lock.RUnlock()

		return nil, false
	}

	e := *el.Value.(*entry)

	c.lock.RUnlock()

	return c.unpack(e)
}

// Remove deletes key and reports whether it was present.
func (c *Cache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	el, ok := c.items[key]
	if ok {
		c.removeElement(el)
	}

	return ok
}

// Keys returns every key from the oldest to the newest.
func (c *Cache) Keys() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()

	keys := make([]string, 0, len(c.items))
	for el := c.evictList.Back(); el != nil; el = el.Prev() {
		keys = append(keys, el.Value.(*entry).key)
	}

	return keys
}

// Len returns the number of cached blobs.
func (c *Cache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.evictList.Len()
}

// Close releases the compression resources. The cache must not be used
// afterwards.
func (c *Cache) Close() {
	if c.enc != nil {
		_ = c.enc.Close()
	}

	if c.dec != nil {
		c.dec.Close()
	}
}

func (c *Cache) removeElement(el *list.Element) {
	c.evictList.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}

// pack compresses value when enabled and worthwhile, copying it otherwise.
// The zstd encoder supports concurrent EncodeAll calls, so this runs
// without the lock.
func (c *Cache) pack(value []byte) ([]byte, bool) {
	if len(value) == 0 {
		if value == nil {
			return nil, false
		}

		return []byte{}, false
	}

	if c.enc != nil {
		if packed := c.enc.EncodeAll(value, nil); len(packed) < len(value) {
			return packed, true
		}
	}

	return append([]byte(nil), value...), false
}

// unpack returns a caller-owned copy of the stored blob. A blob that fails
// to decompress is reported as missing.
func (c *Cache) unpack(e entry) ([]byte, bool) {
	if !e.compressed {
		if e.value == nil {
			return nil, true
		}

		return append([]byte{}, e.value...), true
	}

	decoded, err := c.dec.DecodeAll(e.value, nil)
	if err != nil {
		return nil, false
	}

	return decoded, true
}
