package container

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ── Registry ──────────────────────────────────────────────────────────────────

// registry is the durable state shared by a container and every resolution
// context cloned from it.
type registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	logger    atomic.Pointer[zap.Logger]
}

func (r *registry) lookup(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container maps names to providers and resolves them on demand.
//
// A Container value is a view over a shared provider map plus the chain of
// names currently being resolved. Providers receive a clone whose chain
// ends with the name they were bound to; bindings made through any clone
// are visible to all of them.
//
//	c := container.New()
//	c.MustBind("bar", container.Instance(5))
//	c.MustBind("foo", container.Auto[*Foo]())
//	foo, err := container.Resolve[*Foo](c, "foo")
type Container struct {
	reg *registry

	// names in flight, root request first; never mutated after construction
	stack []string

	// caches this resolution is currently building, shared copy-on-write
	building []*CacheProvider
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for binding and resolution events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		c.SetLogger(logger)
	}
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{reg: &registry{providers: make(map[string]Provider)}}
	c.reg.logger.Store(zap.NewNop())
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind stores provider under name, replacing any previous binding.
//
// provider may be a Provider, a func(*Container) (any, error) or a
// func(*Container) any. Any other value is rejected with a *BindingError;
// plain values must be wrapped with Instance.
func (c *Container) Bind(name string, provider any) error {
	if name == "" {
		return &BindingError{Name: name, Reason: "name must not be empty"}
	}
	p, err := asProvider(name, provider)
	if err != nil {
		c.Logger().Debug("binding rejected", zap.String("name", name), zap.Error(err))
		return err
	}

	c.reg.mu.Lock()
	_, replaced := c.reg.providers[name]
	c.reg.providers[name] = p
	c.reg.mu.Unlock()

	c.Logger().Debug("binding registered",
		zap.String("name", name),
		zap.String("provider", fmt.Sprintf("%T", p)),
		zap.Bool("replaced", replaced))
	return nil
}

// MustBind is like Bind but panics on error.
func (c *Container) MustBind(name string, provider any) {
	if err := c.Bind(name, provider); err != nil {
		panic(err)
	}
}

// Set is shorthand for MustBind, the equivalent of assigning c.name = provider.
func (c *Container) Set(name string, provider any) { c.MustBind(name, provider) }

// Unbind removes the binding for name. It reports whether one existed.
func (c *Container) Unbind(name string) bool {
	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()
	_, ok := c.reg.providers[name]
	delete(c.reg.providers, name)
	return ok
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves name, invoking its provider with a context whose call stack
// is the current one plus name.
//
// It fails with *MissingDependencyError when name is unbound and with
// *CyclicDependencyError when name is already being resolved further up the
// chain. Errors from providers that are not container errors are wrapped
// in *ProviderError.
func (c *Container) Get(name string) (any, error) {
	p, ok := c.reg.lookup(name)
	if !ok {
		err := &MissingDependencyError{Name: name, Chain: c.CallStack()}
		c.Logger().Debug("dependency missing", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	if slices.Contains(c.stack, name) {
		err := &CyclicDependencyError{Name: name, Chain: c.CallStack()}
		c.Logger().Debug("dependency cycle", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	child := c.clone(name)
	c.Logger().Debug("resolving",
		zap.String("name", name),
		zap.Strings("chain", child.stack))

	v, err := p.Provide(child)
	if err != nil {
		if !isContainerError(err) {
			err = &ProviderError{Name: name, Chain: child.CallStack(), Err: err}
		}
		return nil, err
	}
	return v, nil
}

// MustGet is like Get but panics on error.
func (c *Container) MustGet(name string) any {
	v, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// clone returns a resolution context sharing the registry, with name pushed
// onto a private copy of the stack.
func (c *Container) clone(name string) *Container {
	stack := make([]string, len(c.stack), len(c.stack)+1)
	copy(stack, c.stack)
	return &Container{reg: c.reg, stack: append(stack, name), building: c.building}
}

// holding returns c with p recorded as being built by this resolution.
func (c *Container) holding(p *CacheProvider) *Container {
	building := make([]*CacheProvider, len(c.building), len(c.building)+1)
	copy(building, c.building)
	return &Container{reg: c.reg, stack: c.stack, building: append(building, p)}
}

// CallStack returns a copy of the names currently being resolved, root first.
func (c *Container) CallStack() []string {
	return slices.Clone(c.stack)
}

// ── Inspection ────────────────────────────────────────────────────────────────

// Provider returns the raw provider bound to name without invoking it.
func (c *Container) Provider(name string) (Provider, bool) {
	return c.reg.lookup(name)
}

// ProviderAs returns the provider bound to name as a P, typically to mutate
// a stateful provider after binding.
//
//	members, err := container.ProviderAs[*container.ListProvider](c, "members")
//	members.Add(container.Instance(1))
func ProviderAs[P Provider](c *Container, name string) (P, error) {
	var zero P
	raw, ok := c.Provider(name)
	if !ok {
		return zero, &MissingDependencyError{Name: name, Chain: c.CallStack()}
	}
	p, ok := raw.(P)
	if !ok {
		return zero, &TypeError{Name: name, Want: reflect.TypeFor[P]().String(), Got: fmt.Sprintf("%T", raw)}
	}
	return p, nil
}

// Has reports whether name is bound.
func (c *Container) Has(name string) bool {
	_, ok := c.reg.lookup(name)
	return ok
}

// Names returns the bound names in sorted order.
func (c *Container) Names() []string {
	c.reg.mu.RLock()
	out := make([]string, 0, len(c.reg.providers))
	for k := range c.reg.providers {
		out = append(out, k)
	}
	c.reg.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Dependent is implemented by providers that declare up front which names
// they resolve, such as Builder, Auto and a Cache wrapping either.
type Dependent interface {
	Dependencies() []string
}

// Graph maps each binding whose provider is Dependent to its declared
// dependency names. Bindings that declare nothing are left out.
func (c *Container) Graph() map[string][]string {
	c.reg.mu.RLock()
	defer c.reg.mu.RUnlock()
	out := make(map[string][]string)
	for name, p := range c.reg.providers {
		if d, ok := p.(Dependent); ok {
			if deps := d.Dependencies(); len(deps) > 0 {
				out[name] = deps
			}
		}
	}
	return out
}

// Verify resolves every binding once and returns all failures joined.
// Cached providers keep whatever they built.
func (c *Container) Verify() error {
	var errs []error
	for _, name := range c.Names() {
		if _, err := c.Get(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger { return c.reg.logger.Load() }

// SetLogger replaces the logger for the container and every context cloned
// from it. A nil logger is ignored.
func (c *Container) SetLogger(logger *zap.Logger) {
	if logger != nil {
		c.reg.logger.Store(logger)
	}
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Get and type-asserts the result.
//
//	// Instead of: v, err := c.Get("db"); db := v.(*sql.DB)
//	// Write:      db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	v, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &TypeError{Name: name, Want: reflect.TypeFor[T]().String(), Got: fmt.Sprintf("%T", v)}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, name string) T {
	v, err := Resolve[T](c, name)
	if err != nil {
		panic(err)
	}
	return v
}
