package routing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/simpledi/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := routing.New(nil)
	r.Get("/users", okHandler)
	r.Post("/users", okHandler)
	r.Put("/users/{id}", okHandler)
	r.Delete("/users/{id}", okHandler)

	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/users"},
		{http.MethodPost, "/users"},
		{http.MethodPut, "/users/1"},
		{http.MethodDelete, "/users/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, do(t, r, tt.method, tt.path).Code)
		})
	}
}

func TestRouter_NotFound(t *testing.T) {
	r := routing.New(nil)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/not-registered").Code)
}

// ── Prefix / Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New(nil)
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/users", okHandler)
	})

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/users").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/users").Code)
}

func TestRouter_GroupMiddleware(t *testing.T) {
	r := routing.New(nil)
	r.Group(func(g *routing.Router) {
		g.Middleware(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("X-Group", "yes")
				next.ServeHTTP(w, req)
			})
		})
		g.Get("/inside", okHandler)
	})
	r.Get("/outside", okHandler)

	assert.Equal(t, "yes", do(t, r, http.MethodGet, "/inside").Header().Get("X-Group"))
	assert.Empty(t, do(t, r, http.MethodGet, "/outside").Header().Get("X-Group"))
}

// ── Registrars ───────────────────────────────────────────────────────────────

func TestRouter_MountRegistrars(t *testing.T) {
	r := routing.New(nil)
	r.Mount(
		routing.RegistrarFunc(func(r *routing.Router) { r.Get("/a", okHandler) }),
		routing.RegistrarFunc(func(r *routing.Router) { r.Get("/b", okHandler) }),
	)

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/a").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/b").Code)
}

// ── Middleware ───────────────────────────────────────────────────────────────

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := routing.New(zap.New(core))
	r.Get("/hello", okHandler)

	do(t, r, http.MethodGet, "/hello")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/hello", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRecoverer(t *testing.T) {
	r := routing.New(nil)
	r.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })

	assert.Equal(t, http.StatusInternalServerError, do(t, r, http.MethodGet, "/panic").Code)
}
