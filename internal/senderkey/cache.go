package senderkey

import (
	"sync"

	"github.com/dtroode/senderkeys/internal/model"
)

// Cache is the process-local tier. Entries live until the process exits.
// One Cache may be shared by several Stores of the same login session.
type Cache struct {
	mu      sync.RWMutex
	entries map[model.SenderKeyIdentity]model.SenderKeyRecord
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[model.SenderKeyIdentity]model.SenderKeyRecord)}
}

// Get returns a copy of the cached record.
func (c *Cache) Get(id model.SenderKeyIdentity) (model.SenderKeyRecord, bool) {
	c.mu.RLock()
	rec, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// PutIfAbsent inserts record unless id is already cached. It returns the
// record that is cached after the call and whether this call inserted it.
func (c *Cache) PutIfAbsent(id model.SenderKeyIdentity, record model.SenderKeyRecord) (model.SenderKeyRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[id]; ok {
		return existing.Clone(), false
	}
	c.entries[id] = record.Clone()
	return record, true
}

// Len returns the number of cached identities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
