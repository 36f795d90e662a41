package app_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/simpledi/framework/app"
	"github.com/km-arc/simpledi/framework/container"
	gohttp "github.com/km-arc/simpledi/framework/http"
	"github.com/km-arc/simpledi/framework/routing"
)

const emptyEnv = "testdata/empty.env"

type greeter struct {
	Greeting string
}

func greetRoutes(r *routing.Router) {
	r.Get("/greet/{name}", func(w http.ResponseWriter, req *http.Request) {
		gohttp.NewResponse(w).Success("hi " + gohttp.NewRequest(req).RouteParam("name"))
	})
}

func TestNew_RegistersFrameworkBindings(t *testing.T) {
	a, err := app.New(emptyEnv)
	require.NoError(t, err)

	for _, name := range []string{"config", "logger", "routes", "router"} {
		assert.True(t, a.Has(name), name)
	}
	assert.False(t, a.Providers.Booted())
}

func TestApplication_ConfigAndLogger(t *testing.T) {
	t.Setenv("APP_NAME", "kernel-test")
	a, err := app.New(emptyEnv)
	require.NoError(t, err)

	cfg, err := a.Config()
	require.NoError(t, err)
	assert.Equal(t, "kernel-test", cfg.App.Name)

	logger, err := a.Logger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestApplication_HandlerBootsAndServesRoutes(t *testing.T) {
	a, err := app.New(emptyEnv)
	require.NoError(t, err)
	require.NoError(t, a.AddRoutes(routing.RegistrarFunc(greetRoutes)))

	h, err := a.Handler()
	require.NoError(t, err)
	assert.True(t, a.Providers.Booted())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/greet/ada", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":"hi ada"}`, rr.Body.String())
}

func TestApplication_UserBindingsShareTheContainer(t *testing.T) {
	a, err := app.New(emptyEnv)
	require.NoError(t, err)
	require.NoError(t, a.Bind("greeting", container.Instance("hello")))
	require.NoError(t, a.Bind("greeter", container.Auto[greeter]()))

	g, err := container.Resolve[greeter](a.Container, "greeter")
	require.NoError(t, err)
	assert.Equal(t, "hello", g.Greeting)
}

func TestApplication_HandlerFailsOnInvalidConfig(t *testing.T) {
	t.Setenv("APP_PORT", "not-a-port")
	a, err := app.New(emptyEnv)
	require.NoError(t, err)

	_, err = a.Handler()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port: must be an integer")
	assert.False(t, a.Providers.Booted())
}

func TestApplication_AddRoutesWithoutRoutingProvider(t *testing.T) {
	a, err := app.New(emptyEnv)
	require.NoError(t, err)
	a.Unbind("routes")

	err = a.AddRoutes(routing.RegistrarFunc(greetRoutes))
	var missing *container.MissingDependencyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "routes", missing.Name)
}
