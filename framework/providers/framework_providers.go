package providers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/simpledi/framework/config"
	"github.com/km-arc/simpledi/framework/container"
	gohttp "github.com/km-arc/simpledi/framework/http"
	"github.com/km-arc/simpledi/framework/logging"
	"github.com/km-arc/simpledi/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads and validates configuration once.
//
// Bound names:
//   - "config" → *config.Config
//   - every name in config.Keys → its string value, for injection by name
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(c *container.Container) error {
	envFiles := p.EnvFiles
	err := c.Bind("config", container.Cache(container.ProviderFunc(func(*container.Container) (any, error) {
		cfg := config.Load(envFiles...)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	})))
	if err != nil {
		return err
	}
	for _, key := range config.Keys {
		if err := c.Bind(key, configValue(key)); err != nil {
			return err
		}
	}
	return nil
}

func configValue(key string) container.Provider {
	return container.ProviderFunc(func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		return cfg.Values()[key], nil
	})
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the application logger from "config" and,
// on boot, makes the container log its own bindings and resolutions there.
//
// Bound names:
//   - "logger" → *zap.Logger
type LoggingServiceProvider struct{}

func (p *LoggingServiceProvider) Register(c *container.Container) error {
	return c.Bind("logger", container.Cache(container.Builder(logging.New, "config")))
}

func (p *LoggingServiceProvider) Boot(c *container.Container) error {
	logger, err := container.Resolve[*zap.Logger](c, "logger")
	if err != nil {
		return err
	}
	c.SetLogger(logger.Named("container"))
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router and the list of route
// registrars it mounts.
//
// Bound names:
//   - "routes" → []any of routing.Registrar; extend with
//     container.ProviderAs[*container.ListProvider](c, "routes")
//   - "router" → *routing.Router, built once with every registrar mounted;
//     handlers reach the container through gohttp.Resolve
//
// When APP_DEBUG is on, "routes" starts with the container inspection
// endpoints under /_container: bindings, graph and verify.
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(c *container.Container) error {
	routes := container.List(inspectionRoutes())
	if err := c.Bind("routes", routes); err != nil {
		return err
	}
	return c.Bind("router", container.Cache(container.ProviderFunc(func(ctx *container.Container) (any, error) {
		return buildRouter(c, ctx)
	})))
}

// buildRouter resolves its dependencies through ctx; handlers get root.
func buildRouter(root, c *container.Container) (any, error) {
	logger, err := container.Resolve[*zap.Logger](c, "logger")
	if err != nil {
		return nil, err
	}
	registrars, err := container.Resolve[[]any](c, "routes")
	if err != nil {
		return nil, err
	}

	router := routing.New(logger)
	router.Middleware(gohttp.WithContainer(root))
	for i, item := range registrars {
		reg, ok := item.(routing.Registrar)
		if !ok {
			return nil, fmt.Errorf("routes[%d]: %T is not a routing.Registrar", i, item)
		}
		router.Mount(reg)
	}
	return router, nil
}

// inspectionRoutes exposes the request container's bindings when debugging.
func inspectionRoutes() container.Provider {
	return container.ProviderFunc(func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		if !cfg.App.Debug {
			return routing.RegistrarFunc(func(*routing.Router) {}), nil
		}
		return routing.RegistrarFunc(func(r *routing.Router) {
			r.Prefix("/_container", func(r *routing.Router) {
				r.Get("/bindings", inspect(func(res *gohttp.Response, root *container.Container) {
					res.Success(root.Names())
				}))
				r.Get("/graph", inspect(func(res *gohttp.Response, root *container.Container) {
					res.Success(root.Graph())
				}))
				r.Get("/verify", inspect(func(res *gohttp.Response, root *container.Container) {
					if err := root.Verify(); err != nil {
						res.ResolutionError(err)
						return
					}
					res.Success(map[string]any{"bindings": len(root.Names()), "ok": true})
				}))
			})
		}), nil
	})
}

func inspect(fn func(res *gohttp.Response, root *container.Container)) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		root, ok := gohttp.ContainerFrom(req.Context())
		if !ok {
			res.Fail(gohttp.ErrNoContainer)
			return
		}
		fn(res, root)
	}
}
