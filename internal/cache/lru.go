// Package cache provides caching utilities for compiled schemas.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaCache provides thread-safe LRU caching for compiled JSON Schemas,
// keyed by the content of the schema document.
type SchemaCache struct {
	cache *lru.Cache[string, *jsonschema.Schema]
}

// NewSchemaCache creates a new LRU cache with the specified maximum number of items.
func NewSchemaCache(maxItems int) (*SchemaCache, error) {
	c, err := lru.New[string, *jsonschema.Schema](maxItems)
	if err != nil {
		return nil, err
	}
	return &SchemaCache{cache: c}, nil
}

// Key derives the cache key for a schema's canonical JSON text.
func Key(schemaJSON []byte) string {
	sum := sha256.Sum256(schemaJSON)
	return hex.EncodeToString(sum[:])
}

// Get retrieves a compiled schema by key.
// Returns the schema and true if found, nil and false otherwise.
func (c *SchemaCache) Get(key string) (*jsonschema.Schema, bool) {
	return c.cache.Get(key)
}

// Put adds or updates a compiled schema in the cache.
func (c *SchemaCache) Put(key string, s *jsonschema.Schema) {
	c.cache.Add(key, s)
}

// Len returns the current number of items in the cache.
func (c *SchemaCache) Len() int {
	return c.cache.Len()
}
