package container

import "fmt"

// ── Provider protocol ─────────────────────────────────────────────────────────

// Provider produces the value bound to a name. The container passed in
// carries the current resolution chain, so any lookups made through it are
// tracked for cycle detection and diagnostics.
type Provider interface {
	Provide(c *Container) (any, error)
}

// ProviderFunc adapts an ordinary function to the Provider interface.
//
//	c.Bind("baz", container.ProviderFunc(func(c *container.Container) (any, error) {
//	    foo, err := container.Resolve[int](c, "foo")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return foo + 1, nil
//	}))
type ProviderFunc func(c *Container) (any, error)

// Provide calls f(c).
func (f ProviderFunc) Provide(c *Container) (any, error) { return f(c) }

// Factory is the infallible provider shape, kept for bindings that cannot fail.
type Factory func(c *Container) any

// Provide calls f(c).
func (f Factory) Provide(c *Container) (any, error) { return f(c), nil }

// asProvider converts the accepted provider shapes to a Provider.
func asProvider(name string, p any) (Provider, error) {
	switch v := p.(type) {
	case nil:
		return nil, &BindingError{Name: name, Reason: "provider is nil; a provider must be callable, receiving exactly one argument: the container"}
	case Provider:
		return v, nil
	case func(*Container) (any, error):
		return ProviderFunc(v), nil
	case func(*Container) any:
		return Factory(v), nil
	}
	return nil, &BindingError{
		Name:   name,
		Reason: fmt.Sprintf("%T must be callable, receiving exactly one argument: the container; wrap plain values with Instance", p),
	}
}

// ── Instance ──────────────────────────────────────────────────────────────────

type instanceProvider struct {
	value any
}

func (p instanceProvider) Provide(*Container) (any, error) { return p.value, nil }

// Instance returns a provider that always yields v unchanged.
//
//	c.Bind("dsn", container.Instance("postgres://localhost/app"))
func Instance(v any) Provider {
	return instanceProvider{value: v}
}
