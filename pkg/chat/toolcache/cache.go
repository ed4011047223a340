package toolcache

import (
	"sync"

	"ai-assistant-be/pkg/chat"
)

// Cache holds the tool metadata discovered from remote providers for one
// chat session. Each entry is populated once per successful discovery
// handshake and replaced wholesale on re-discovery; partial merges are not
// allowed so stale tool signatures never sit next to fresh ones.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]chat.ToolDescriptor
}

func New() *Cache {
	return &Cache{entries: make(map[string][]chat.ToolDescriptor)}
}

// Replace installs the full tool set for a provider, dropping whatever was
// cached before.
func (c *Cache) Replace(provider string, tools []chat.ToolDescriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	owned := make([]chat.ToolDescriptor, len(tools))
	copy(owned, tools)
	c.entries[provider] = owned
}

// Lookup returns the cached tools for a provider. A provider that never
// completed discovery yields an empty result; it never blocks and never
// errors. Callers treat an empty set as degraded but non-fatal.
func (c *Cache) Lookup(provider string) []chat.ToolDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tools := c.entries[provider]
	out := make([]chat.ToolDescriptor, len(tools))
	copy(out, tools)
	return out
}

// Providers lists providers with a cache entry.
func (c *Cache) Providers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	return names
}
