package app

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/simpledi/framework/config"
	"github.com/km-arc/simpledi/framework/container"
	"github.com/km-arc/simpledi/framework/providers"
	"github.com/km-arc/simpledi/framework/routing"
)

// Application embeds the container and its ProviderRegistry, so user code
// can call app.Bind(), app.Get() and app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application and registers the framework providers.
// envFiles are passed to config.Load.
func New(envFiles ...string) (*Application, error) {
	c := container.New()
	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
	}

	for _, sp := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: envFiles},
		&providers.LoggingServiceProvider{},
		&providers.RoutingServiceProvider{},
	} {
		if err := app.Register(sp); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(sp container.ServiceProvider) error {
	return a.Providers.Register(sp)
}

// Boot runs the Boot phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// AddRoutes appends registrars to the "routes" list. It must be called
// before the router is first resolved.
func (a *Application) AddRoutes(registrars ...routing.Registrar) error {
	routes, err := container.ProviderAs[*container.ListProvider](a.Container, "routes")
	if err != nil {
		return err
	}
	for _, reg := range registrars {
		routes.Add(container.Instance(reg))
	}
	return nil
}

// Config resolves the application configuration.
func (a *Application) Config() (*config.Config, error) {
	return container.Resolve[*config.Config](a.Container, "config")
}

// Logger resolves the application logger.
func (a *Application) Logger() (*zap.Logger, error) {
	return container.Resolve[*zap.Logger](a.Container, "logger")
}

// Router resolves the HTTP router.
func (a *Application) Router() (*routing.Router, error) {
	return container.Resolve[*routing.Router](a.Container, "router")
}

// Handler boots the application if needed and returns the router.
func (a *Application) Handler() (http.Handler, error) {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return nil, err
		}
	}
	return a.Router()
}

// Run boots the application and serves HTTP on APP_PORT.
func (a *Application) Run() error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}
	cfg, err := a.Config()
	if err != nil {
		return err
	}
	logger, err := a.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	addr := ":" + cfg.App.Port
	logger.Info("server starting",
		zap.String("addr", addr),
		zap.Strings("bindings", a.Names()))
	if err := http.ListenAndServe(addr, handler); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
