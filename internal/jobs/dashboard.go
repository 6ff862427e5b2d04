package jobs

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/analytics"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/apperr"
)

// DashboardRoutes mounts the job-seeker views. Every view accepts the
// filter query parameters read by analytics.FilterFromQuery.
func (h *Handler) DashboardRoutes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
	r.Get("/overview", h.view(func(f analytics.Filter, _ *http.Request) any {
		return analytics.Overview(h.engine.Filtered(f))
	}))
	r.Get("/top-roles", h.view(func(f analytics.Filter, r *http.Request) any {
		return analytics.TopRoles(h.engine.Filtered(f), limit(r, analytics.TopRolesLimit))
	}))
	r.Get("/top-skills", h.view(func(f analytics.Filter, r *http.Request) any {
		return analytics.TopSkills(h.engine.Filtered(f), limit(r, analytics.TopSkillsPerCategory))
	}))
	r.Get("/top-cities", h.view(func(f analytics.Filter, r *http.Request) any {
		return analytics.TopCities(h.engine.Filtered(f), limit(r, analytics.TopCitiesLimit))
	}))
	r.Get("/states", h.view(func(f analytics.Filter, _ *http.Request) any {
		return analytics.StateJobCounts(h.engine.Filtered(f))
	}))
	r.Get("/regional-salary", h.view(func(f analytics.Filter, _ *http.Request) any {
		return analytics.RegionalSalaries(h.engine.Filtered(f))
	}))
	r.Get("/specialties", h.Specialties)
}

// Dashboard returns every job-seeker view for the filter in one response.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	f, err := analytics.FilterFromQuery(r.URL.Query())
	if err != nil {
		apperr.Write(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, h.engine.Dashboard(f))
}

// Specialties lists the filter vocabularies the dashboards offer.
func (h *Handler) Specialties(w http.ResponseWriter, _ *http.Request) {
	apperr.WriteJSON(w, http.StatusOK, map[string][]string{
		"specialties": append([]string{analytics.AllSpecialties}, analytics.Specialties()...),
		"regions":     analytics.Regions,
	})
}

func (h *Handler) view(compute func(analytics.Filter, *http.Request) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := analytics.FilterFromQuery(r.URL.Query())
		if err != nil {
			apperr.Write(w, err)
			return
		}
		apperr.WriteJSON(w, http.StatusOK, compute(f, r))
	}
}

// limit reads ?limit=, falling back to def for missing or bad values.
func limit(r *http.Request, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
