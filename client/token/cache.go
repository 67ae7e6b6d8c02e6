package token

import (
	"context"
	"sync"
)

// Cache guarda no máximo um token. Set sobrescreve o anterior.
type Cache interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, tok string) error
	Clear(ctx context.Context) error
}

// MemoryCache é o cache com escopo de sessão (vive enquanto o processo vive).
type MemoryCache struct {
	mu  sync.RWMutex
	tok string
}

func NewMemoryCache() *MemoryCache { return &MemoryCache{} }

func (c *MemoryCache) Get(context.Context) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tok, c.tok != "", nil
}

func (c *MemoryCache) Set(_ context.Context, tok string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tok = tok
	return nil
}

func (c *MemoryCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tok = ""
	return nil
}
