// Package cache layers a least-recently-used cache of decoded objects over an object store.
// The store itself never caches; callers that re-read the same objects (tree walks) wrap it here.
package cache

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru"

	"github.com/KostasZigo/gogit-odb/internal/objects"
)

// Getter is the read side of an object store.
type Getter interface {
	Get(hash string) (*objects.RawObject, error)
}

// Store caches up to a fixed number of objects read through a nested Getter.
// Objects are immutable, so cached entries never go stale.
type Store struct {
	c *lru.Cache // hash -> *objects.RawObject
	s Getter
}

// New produces a Store backed by s and caching up to size objects.
func New(s Getter, size int) (*Store, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create object cache of size %d: %w", size, err)
	}
	return &Store{c: c, s: s}, nil
}

// Get returns the object stored under hash, reading through on a miss.
// Errors are never cached.
func (s *Store) Get(hash string) (*objects.RawObject, error) {
	if got, ok := s.c.Get(hash); ok {
		slog.Debug("Object cache hit", "hash", hash)
		return got.(*objects.RawObject), nil
	}

	object, err := s.s.Get(hash)
	if err != nil {
		return nil, err
	}
	s.c.Add(hash, object)
	return object, nil
}

// ReadTree returns the parsed tree stored under hash.
func (s *Store) ReadTree(hash string) (*objects.Tree, error) {
	object, err := s.Get(hash)
	if err != nil {
		return nil, err
	}
	if object.Kind != objects.KindTree {
		return nil, fmt.Errorf("object %s is a %s, not a %s", hash, object.Kind, objects.KindTree)
	}
	tree, err := objects.ParseTree(object.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tree %s: %w", hash, err)
	}
	return tree, nil
}

// Len returns the number of cached objects.
func (s *Store) Len() int {
	return s.c.Len()
}
