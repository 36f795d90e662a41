package container

import (
	"slices"
	"sync"
)

// CacheProvider memoizes the first successful result of an inner provider.
type CacheProvider struct {
	inner Provider

	mu       sync.Mutex
	value    any
	cached   bool
	building bool
	done     chan struct{} // closed when the current build finishes
}

// Cache wraps p so it is invoked at most once per successful resolution.
// Zero values (0, "", false, nil slices) count as cached; failures do not.
//
//	c.Bind("db", container.Cache(container.Builder(sql.Open, "driver", "dsn")))
func Cache(p Provider) *CacheProvider {
	return &CacheProvider{inner: p}
}

// Provide returns the memoized value, building it on first use.
//
// Concurrent first reads from top-level resolutions wait for a single build.
// Reaching the provider again from inside its own build, for example when
// it is bound under two names that refer to each other, fails with
// *CyclicDependencyError. A resolution that is itself building another
// cache never waits; it builds inline instead, so crossing builds in two
// goroutines cannot block each other. The first stored value wins.
func (p *CacheProvider) Provide(c *Container) (any, error) {
	for {
		p.mu.Lock()
		switch {
		case p.cached:
			v := p.value
			p.mu.Unlock()
			return v, nil
		case !p.building:
			p.building = true
			p.done = make(chan struct{})
			p.mu.Unlock()
			return p.build(c, true)
		case slices.Contains(c.building, p):
			p.mu.Unlock()
			return nil, reentered(c)
		case len(c.building) > 0:
			p.mu.Unlock()
			return p.build(c, false)
		}
		done := p.done
		p.mu.Unlock()
		<-done
	}
}

// build runs the inner provider with p marked as in flight on c. owner
// reports whether this call holds the building flag.
func (p *CacheProvider) build(c *Container, owner bool) (any, error) {
	v, err := p.inner.Provide(c.holding(p))

	p.mu.Lock()
	defer p.mu.Unlock()
	if owner {
		p.building = false
		close(p.done)
	}
	if err != nil {
		return nil, err
	}
	if p.cached {
		return p.value, nil
	}
	p.value, p.cached = v, true
	return v, nil
}

func reentered(c *Container) error {
	stack := c.CallStack()
	if len(stack) == 0 {
		return &CyclicDependencyError{}
	}
	return &CyclicDependencyError{Name: stack[len(stack)-1], Chain: stack[:len(stack)-1]}
}

// Cached reports whether a value has been memoized.
func (p *CacheProvider) Cached() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cached
}

// Reset drops the memoized value; the next Provide rebuilds it.
func (p *CacheProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value, p.cached = nil, false
}

// Dependencies reports the names the wrapped provider declares, if any.
func (p *CacheProvider) Dependencies() []string {
	if d, ok := p.inner.(Dependent); ok {
		return d.Dependencies()
	}
	return nil
}
