package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/km-arc/simpledi/framework/container"
)

// ErrNoContainer is returned by Resolve when the request did not pass
// through WithContainer.
var ErrNoContainer = errors.New("http: no container attached to request context")

type containerKey struct{}

// WithContainer attaches c to every request so handlers can resolve their
// dependencies with Resolve.
//
//	router.Middleware(gohttp.WithContainer(app.Container))
func WithContainer(c *container.Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), containerKey{}, c)))
		})
	}
}

// ContainerFrom returns the container attached by WithContainer.
func ContainerFrom(ctx context.Context) (*container.Container, bool) {
	c, ok := ctx.Value(containerKey{}).(*container.Container)
	return c, ok
}

// Resolve reads name from the request's container.
//
//	greeter, err := gohttp.Resolve[*Greeter](r, "greeter")
func Resolve[T any](r *http.Request, name string) (T, error) {
	c, ok := ContainerFrom(r.Context())
	if !ok {
		var zero T
		return zero, ErrNoContainer
	}
	return container.Resolve[T](c, name)
}

// Request wraps *http.Request.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Bind decodes a JSON body into v.
func (req *Request) Bind(v any) error {
	defer req.raw.Body.Close()
	err := json.NewDecoder(req.raw.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return errors.New("empty request body")
	}
	return err
}

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	if v := req.raw.URL.Query().Get(key); v != "" || len(fallback) == 0 {
		return v
	}
	return fallback[0]
}

// RouteParam returns a chi route parameter.
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Get reads name from the request's container without a type assertion.
func (req *Request) Get(name string) (any, error) {
	c, ok := ContainerFrom(req.raw.Context())
	if !ok {
		return nil, ErrNoContainer
	}
	return c.Get(name)
}
