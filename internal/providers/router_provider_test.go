package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/promo", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/promo", routes[0].Url)
	assert.Equal(t, http.MethodGet, routes[0].Method)
}

func TestRouterProvider_PostAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/promo/enable", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/promo/enable", routes[0].Url)
	assert.Equal(t, http.MethodPost, routes[0].Method)
}

func TestRouterProvider_KeepsRegistrationOrder(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/a", dummyHandler())
	rp.Post("/b", dummyHandler())
	rp.Get("/c", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 3)
	assert.Equal(t, []string{"/a", "/b", "/c"}, []string{routes[0].Url, routes[1].Url, routes[2].Url})
}

func TestMethodHandler(t *testing.T) {
	tests := []struct {
		name       string
		registered string
		method     string
		expected   int
	}{
		{"get on get", http.MethodGet, http.MethodGet, http.StatusOK},
		{"head on get", http.MethodGet, http.MethodHead, http.StatusOK},
		{"post on get", http.MethodGet, http.MethodPost, http.StatusMethodNotAllowed},
		{"post on post", http.MethodPost, http.MethodPost, http.StatusOK},
		{"get on post", http.MethodPost, http.MethodGet, http.StatusMethodNotAllowed},
		{"head on post", http.MethodPost, http.MethodHead, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := methodHandler(tt.registered, dummyHandler())

			req := httptest.NewRequest(tt.method, "/test", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expected, rr.Code)
		})
	}
}

func TestMethodHandler_SetsAllowHeader(t *testing.T) {
	handler := methodHandler(http.MethodPost, dummyHandler())

	req := httptest.NewRequest(http.MethodGet, "/promo/disable", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodPost, rr.Header().Get("Allow"))
}
