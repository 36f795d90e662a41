package container

import "sync"

// ListProvider aggregates sub-providers into an ordered []any.
//
//	c.Bind("numbers", container.List(
//	    container.Instance(1),
//	    container.Instance(2),
//	    container.ProviderFunc(func(c *container.Container) (any, error) { return c.Get("three") }),
//	))
type ListProvider struct {
	mu        sync.RWMutex
	providers []Provider
}

// List creates a ListProvider seeded with ps.
func List(ps ...Provider) *ListProvider {
	return &ListProvider{providers: append([]Provider(nil), ps...)}
}

// Add appends ps after the existing sub-providers and returns the list for
// chaining.
func (l *ListProvider) Add(ps ...Provider) *ListProvider {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.providers = append(l.providers, ps...)
	return l
}

// Len returns the number of sub-providers.
func (l *ListProvider) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.providers)
}

// Provide resolves every sub-provider in registration order into a new
// slice. Each call builds a fresh slice; the first failure aborts.
func (l *ListProvider) Provide(c *Container) (any, error) {
	l.mu.RLock()
	ps := append([]Provider(nil), l.providers...)
	l.mu.RUnlock()

	out := make([]any, len(ps))
	for i, p := range ps {
		v, err := p.Provide(c)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
