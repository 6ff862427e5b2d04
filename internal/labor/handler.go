package labor

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/apperr"
)

var socCode = regexp.MustCompile(`^\d{2}-\d{4}(\.\d{2})?$`)

// Handler holds the BLS and O*NET proxy handlers.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// BLSRoutes mounts the BLS proxies.
func (h *Handler) BLSRoutes(r chi.Router) {
	r.Get("/wages/{code}", h.Wages)
	r.Get("/employment/{code}", h.Employment)
}

// ONetRoutes mounts the O*NET proxies.
func (h *Handler) ONetRoutes(r chi.Router) {
	r.Get("/search", h.Search)
	r.Get("/skills/{code}", h.Skills)
}

func (h *Handler) Wages(w http.ResponseWriter, r *http.Request) {
	code, ok := codeParam(w, r)
	if !ok {
		return
	}
	apperr.WriteJSON(w, http.StatusOK, h.svc.Wage(r.Context(), code))
}

func (h *Handler) Employment(w http.ResponseWriter, r *http.Request) {
	code, ok := codeParam(w, r)
	if !ok {
		return
	}
	apperr.WriteJSON(w, http.StatusOK, h.svc.Employment(r.Context(), code))
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	kw := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if kw == "" {
		apperr.Write(w, apperr.E(apperr.Validation, "keyword is required"))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, h.svc.SearchOccupations(r.Context(), kw))
}

func (h *Handler) Skills(w http.ResponseWriter, r *http.Request) {
	code, ok := codeParam(w, r)
	if !ok {
		return
	}
	apperr.WriteJSON(w, http.StatusOK, h.svc.OccupationSkills(r.Context(), code))
}

func codeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := chi.URLParam(r, "code")
	if !socCode.MatchString(code) {
		apperr.Write(w, apperr.E(apperr.Validation, "occupation code must look like 15-2051 or 15-2051.00"))
		return "", false
	}
	return code, true
}
