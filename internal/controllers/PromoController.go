package controllers

import (
	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
	"net/http"
	"promod/internal/models"
	"promod/internal/providers"
	"promod/internal/services"
	"strings"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type PromoController struct {
	logger  providers.Logger
	service services.PromoServiceInterface
}

func NewPromoController(logger providers.Logger, service services.PromoServiceInterface) *PromoController {
	return &PromoController{
		logger:  logger,
		service: service,
	}
}

func queryBool(r *http.Request, name string) bool {
	return cast.ToBool(r.URL.Query().Get(name))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeHTML(w http.ResponseWriter, body string) {
	if body == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// Render serves the promotion box. Query: pinned, popup.
func (pc *PromoController) Render(w http.ResponseWriter, r *http.Request) {
	if !pc.service.IsEnabled(r.Context()) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	html := pc.service.Render(r.Context(), nil, services.RenderOptions{
		PinnedOnly: queryBool(r, "pinned"),
		Popup:      queryBool(r, "popup"),
	})
	writeHTML(w, html)
}

// AdminNotices emits the one-shot admin notices. HEAD never renders them:
// rendering writes the shown record and a bodiless reply would waste it.
func (pc *PromoController) AdminNotices(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead || !pc.service.IsEnabled(r.Context()) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	var buf strings.Builder
	pc.service.RenderAdminNotice(r.Context(), &buf)
	writeHTML(w, buf.String())
}

func (pc *PromoController) Links(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pc.service.GetLinks(r.Context()))
}

func (pc *PromoController) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": pc.service.IsEnabled(r.Context())})
}

func (pc *PromoController) Enable(w http.ResponseWriter, r *http.Request) {
	if err := pc.service.Enable(r.Context()); err != nil {
		pc.logger.Errorf(providers.TypePost, "Enable promotion: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": true})
}

func (pc *PromoController) Disable(w http.ResponseWriter, r *http.Request) {
	if err := pc.service.Disable(r.Context()); err != nil {
		pc.logger.Errorf(providers.TypePost, "Disable promotion: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": false})
}

func (pc *PromoController) ClearCache(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": pc.service.ClearCache()})
}

// SetActivePlugins replaces the host's active plugin list with the JSON
// array in the body.
func (pc *PromoController) SetActivePlugins(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var plugins []string
	if err := json.NewDecoder(r.Body).Decode(&plugins); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := pc.service.SetActivePlugins(r.Context(), models.PluginSet(plugins)); err != nil {
		pc.logger.Errorf(providers.TypePost, "Store active plugins: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
