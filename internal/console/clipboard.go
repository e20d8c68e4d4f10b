package console

import (
	"context"
	"sync"
)

// Clipboard holds the last value copied on a page. The browser shell reads it
// from the page view and writes it to the system clipboard.
type Clipboard struct {
	mu    sync.Mutex
	value string
}

// Write implements domain.Clipboard.
func (c *Clipboard) Write(_ context.Context, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	return nil
}

// Value returns the last copied value.
func (c *Clipboard) Value() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}
