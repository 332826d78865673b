package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterProvider_RegistersRoutes(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/a", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rp.Post("/b", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	routes := rp.GetRoutes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/a", routes[0].Url)
	assert.Equal(t, "/b", routes[1].Url)
}

func TestRouterProvider_MethodGuard(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/only-get", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler := rp.GetRoutes()[0].Handler

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/only-get", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/only-get", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterProvider_PostGuard(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/only-post", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	handler := rp.GetRoutes()[0].Handler

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/only-post", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/only-post", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
