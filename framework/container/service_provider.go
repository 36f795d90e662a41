package container

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related bindings.
//
// Register binds services into the container and must not resolve anything.
// Boot runs after every provider has been registered, so it may resolve
// any binding.
//
//	type ReportsProvider struct{ container.BaseProvider }
//
//	func (p *ReportsProvider) Register(c *container.Container) error {
//	    return c.Bind("reports", container.List(
//	        container.Auto[*CPUReport](),
//	        container.Auto[*MemoryReport](),
//	    ))
//	}
type ServiceProvider interface {
	Register(c *Container) error
	Boot(c *Container) error
}

// BaseProvider is an embeddable no-op Boot.
type BaseProvider struct{}

func (BaseProvider) Boot(*Container) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders against one container.
type ProviderRegistry struct {
	c          *Container
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	return &ProviderRegistry{
		c:          c,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register calls sp.Register. Registering the same provider twice is a
// no-op. Providers registered after Boot are booted immediately.
func (r *ProviderRegistry) Register(sp ServiceProvider) error {
	if r.registered[sp] {
		return nil
	}
	if err := sp.Register(r.c); err != nil {
		return err
	}
	r.registered[sp] = true
	r.providers = append(r.providers, sp)

	if r.booted {
		return sp.Boot(r.c)
	}
	return nil
}

// Boot calls Boot on every registered provider in registration order.
// Later calls are no-ops. The first failure stops booting.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	for _, sp := range r.providers {
		if err := sp.Boot(r.c); err != nil {
			return err
		}
	}
	r.booted = true
	return nil
}

// Booted reports whether Boot has completed.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	return append([]ServiceProvider(nil), r.providers...)
}
