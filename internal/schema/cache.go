package schema

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/andyballingall/json-schema-validator/internal/uri"
)

// Cache maps normalized schema URIs to nodes. A key is stored at most once;
// later registrations under the same key are ignored.
type Cache struct {
	mu     sync.RWMutex // Protects nodes; held exclusively for the whole of Update
	nodes  map[string]*Node
	uris   *uri.Normalizer
	logger *slog.Logger
}

// NewCache creates an empty cache keyed through uris.
func NewCache(uris *uri.Normalizer, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		nodes:  make(map[string]*Node),
		uris:   uris,
		logger: logger,
	}
}

// Key returns the cache key for u: the normalized URI, terminated by '#'.
func (c *Cache) Key(u *uri.URI) string {
	s := u.String()
	if n, err := c.uris.Normalize(s, ""); err == nil {
		s = n.String()
	}
	if !strings.HasSuffix(s, "#") {
		s += "#"
	}
	return s
}

// Get looks u up by its exact text, then by its key.
func (c *Cache) Get(u *uri.URI) *Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.get(u)
}

// Loaded reports whether a node is stored for u.
func (c *Cache) Loaded(u *uri.URI) bool {
	return c.Get(u) != nil
}

// Len reports the number of stored nodes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// Clear removes every node and empties the URI parse memos: the cache's own
// and the process-wide one that dialect lookups and format checks parse
// through.
func (c *Cache) Clear() {
	c.mu.Lock()
	clear(c.nodes)
	c.mu.Unlock()
	c.uris.ClearCache()
	if c.uris != uri.Default {
		uri.ClearCache()
	}
	c.logger.Debug("schema cache cleared")
}

// Update runs fn with exclusive access to the cache. Root construction and
// graph building happen inside one Update so concurrent callers never both
// register the same document. When fn fails, every key it stored is removed
// again, so no partially built graph survives.
func (c *Cache) Update(fn func(tx *Txn) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	tx := &Txn{c: c}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return nil
}

func (c *Cache) get(u *uri.URI) *Node {
	if n, ok := c.nodes[u.String()]; ok {
		return n
	}
	return c.nodes[c.Key(u)]
}

// Txn is the view of the cache available inside Update.
type Txn struct {
	c     *Cache
	added []string
}

// Add stores n under its URI unless the key is taken, reporting whether it was
// stored. A node declaring an anchor is also stored under the anchor URI.
func (tx *Txn) Add(n *Node) bool {
	if a := n.Anchor(); a != nil {
		tx.AddAs(a.String(), n)
	}
	return tx.AddAs(tx.c.Key(n.URI), n)
}

// AddAs stores n under an explicit key unless the key is taken.
func (tx *Txn) AddAs(key string, n *Node) bool {
	if _, ok := tx.c.nodes[key]; ok {
		return false
	}
	tx.c.nodes[key] = n
	tx.added = append(tx.added, key)
	tx.c.logger.Debug("registered schema", "uri", key)
	return true
}

// Rollback removes every key stored through tx so far.
func (tx *Txn) Rollback() {
	for _, k := range tx.added {
		delete(tx.c.nodes, k)
	}
	if len(tx.added) > 0 {
		tx.c.logger.Debug("rolled back schema registrations", "count", len(tx.added))
	}
	tx.added = nil
}

// Key returns the cache key for u.
func (tx *Txn) Key(u *uri.URI) string {
	return tx.c.Key(u)
}

// Get looks u up like Cache.Get, seeing nodes stored earlier in the same
// Update.
func (tx *Txn) Get(u *uri.URI) *Node {
	return tx.c.get(u)
}

// Loaded reports whether a node is stored for u.
func (tx *Txn) Loaded(u *uri.URI) bool {
	return tx.c.get(u) != nil
}
