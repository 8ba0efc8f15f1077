package internal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"promod/internal/controllers"
	"promod/internal/models"
	"promod/internal/providers"
	"promod/internal/services"
	"promod/internal/structures"
	"promod/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- minimal mocks for routes test ---

type routeTestService struct {
	noticeCalls int
}

func (m *routeTestService) Enable(_ context.Context) error                          { return nil }
func (m *routeTestService) Disable(_ context.Context) error                         { return nil }
func (m *routeTestService) IsEnabled(_ context.Context) bool                        { return true }
func (m *routeTestService) ClearCache() bool                                        { return true }
func (m *routeTestService) GetData(_ context.Context) (*models.PromoDataset, error) { return nil, nil }
func (m *routeTestService) ShouldHide(_ context.Context, _ models.PluginSet) bool   { return false }
func (m *routeTestService) GetLinks(_ context.Context) []models.PromoLink           { return nil }
func (m *routeTestService) Render(_ context.Context, _ io.Writer, _ services.RenderOptions) string {
	return "<div>promo</div>"
}
func (m *routeTestService) RenderAdminNotice(_ context.Context, w io.Writer) int {
	m.noticeCalls++
	_, _ = io.WriteString(w, "<div>notice</div>")
	return 1
}
func (m *routeTestService) ActivePlugins(_ context.Context) (models.PluginSet, error) {
	return nil, nil
}
func (m *routeTestService) SetActivePlugins(_ context.Context, _ models.PluginSet) error { return nil }

func newTestRouter() providers.RouterProviderInterface {
	return newTestRouterFor(&routeTestService{})
}

func newTestRouterFor(service *routeTestService) providers.RouterProviderInterface {
	pc := controllers.NewPromoController(&testutil.MockLogger{}, service)
	return InitRoutes(pc)
}

func TestInitRoutes_RegistersPromoRoutes(t *testing.T) {
	routes := newTestRouter().GetRoutes()
	require.Len(t, routes, 8)

	registered := make(map[string]string, len(routes))
	for _, r := range routes {
		registered[r.Url] = r.Method
	}

	assert.Equal(t, http.MethodGet, registered["/promo"])
	assert.Equal(t, http.MethodGet, registered["/promo/notices"])
	assert.Equal(t, http.MethodGet, registered["/promo/links"])
	assert.Equal(t, http.MethodGet, registered["/promo/status"])
	assert.Equal(t, http.MethodPost, registered["/promo/enable"])
	assert.Equal(t, http.MethodPost, registered["/promo/disable"])
	assert.Equal(t, http.MethodPost, registered["/promo/cache/clear"])
	assert.Equal(t, http.MethodPost, registered["/plugins/active"])
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	mux := http.NewServeMux()
	for _, r := range newTestRouter().GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	req := httptest.NewRequest(http.MethodPost, "/promo", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/promo/disable", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestInitRoutes_HeadDoesNotConsumeAdminNotices(t *testing.T) {
	service := &routeTestService{}
	mux := http.NewServeMux()
	for _, r := range newTestRouterFor(service).GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodHead, "/promo/notices", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 0, service.noticeCalls)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/promo/notices", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "<div>notice</div>", rr.Body.String())
	assert.Equal(t, 1, service.noticeCalls)
}

func TestNewApp_ServesHealthAndPromo(t *testing.T) {
	conf := &structures.Config{
		AppName:   "PromoDaemon",
		WebServer: structures.Server{Host: "127.0.0.1", Port: 8080},
	}
	hc := controllers.NewHealthController(testutil.NewMockTransients())
	app := NewApp(hc, nil, conf, &testutil.MockLogger{}, newTestRouter(), testutil.NewMockMetrics())

	assert.Equal(t, "127.0.0.1:8080", app.WebServer.Addr)

	rr := httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/promo", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "<div>promo</div>", rr.Body.String())

	rr = httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code, "metrics disabled")
}
