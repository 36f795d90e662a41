// Package container provides a small name-based dependency injection
// container.
//
// # Overview
//
// A Container maps names to Providers. Reading a name invokes its provider,
// which may read further names through the container it is handed. The
// container tracks the chain of names being resolved, so a missing binding
// or a cycle is reported with the full path that led to it:
//
//	container: dependency "dsn" is not defined: app -> repo -> dsn (missing); bind one using Bind("dsn", ...)
//	container: cyclic dependency chain detected: bar -> foo -> bar (cycle)
//
// Values are rebuilt on every read unless the provider is wrapped in Cache.
//
// # Providers
//
//	// Fixed value
//	c.Bind("port", container.Instance(8080))
//
//	// Ad-hoc function
//	c.Bind("addr", func(c *container.Container) (any, error) {
//	    port, err := container.Resolve[int](c, "port")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return fmt.Sprintf(":%d", port), nil
//	})
//
//	// Constructor with named arguments
//	c.Bind("server", container.Builder(NewServer, "addr", "router"))
//
//	// Struct auto-wiring: field Router is resolved from "router"
//	c.Bind("handler", container.Auto[*Handler]())
//
//	// Build once, reuse afterwards
//	c.Bind("db", container.Cache(container.Builder(OpenDB, "dsn")))
//
//	// Ordered aggregation, extendable after binding
//	c.Bind("middlewares", container.List())
//	mw, _ := container.ProviderAs[*container.ListProvider](c, "middlewares")
//	mw.Add(container.Instance(middleware.Logger))
//
// # Errors
//
// Bind returns *BindingError for values that are not providers. Get returns
// *MissingDependencyError, *CyclicDependencyError, *BuildError, or
// *ProviderError wrapping a failure raised by a provider itself. Errors are
// never retried or swallowed on their way up the chain.
//
// # Service Providers
//
//	registry := container.NewProviderRegistry(c)
//	if err := registry.Register(&AppServiceProvider{}); err != nil { ... }
//	if err := registry.Boot(); err != nil { ... }
package container
