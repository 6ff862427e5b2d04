// Package jobs serves the public catalog reads and the job-seeker dashboard
// views.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/analytics"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/apperr"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

// CatalogStore defines the read side of catalog persistence.
type CatalogStore interface {
	ListJobs(ctx context.Context) ([]models.Job, error)
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	ListSkills(ctx context.Context) ([]models.Skill, error)
	SkillsForJob(ctx context.Context, jobID int64) ([]models.JobSkillView, error)
	SalaryByState(ctx context.Context, state string) ([]models.SalaryRecord, error)
	SalaryByJob(ctx context.Context, jobID int64) ([]models.SalaryRecord, error)
}

// Handler holds the unauthenticated catalog and dashboard handlers.
type Handler struct {
	catalog CatalogStore
	engine  *analytics.Engine
	log     *slog.Logger
}

func NewHandler(catalog CatalogStore, engine *analytics.Engine, log *slog.Logger) *Handler {
	return &Handler{catalog: catalog, engine: engine, log: log}
}

// Routes mounts the catalog reads.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/jobs", h.ListJobs)
	r.Get("/jobs/{id}", h.GetJob)
	r.Get("/skills", h.ListSkills)
	r.Get("/skills/{jobId}", h.SkillsForJob)
	r.Get("/salary/job/{jobId}", h.SalaryByJob)
	r.Get("/salary/{state}", h.SalaryByState)
}

// ListJobs returns every job, optionally narrowed by ?specialty=.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.catalog.ListJobs(r.Context())
	if err != nil {
		h.fail(w, r, "list jobs", err)
		return
	}
	if spec := r.URL.Query().Get("specialty"); spec != "" {
		if !analytics.KnownSpecialty(spec) {
			apperr.Write(w, apperr.E(apperr.Validation, "unknown specialty "+strconv.Quote(spec)))
			return
		}
		kept := jobs[:0]
		for _, j := range jobs {
			if analytics.MatchesSpecialty(j.Title, spec) {
				kept = append(kept, j)
			}
		}
		jobs = kept
	}
	apperr.WriteJSON(w, http.StatusOK, jobs)
}

// GetJob returns a single job.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	job, err := h.catalog.GetJob(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get job", err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, job)
}

// ListSkills returns every skill, optionally narrowed by ?category=.
func (h *Handler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.catalog.ListSkills(r.Context())
	if err != nil {
		h.fail(w, r, "list skills", err)
		return
	}
	if cat := models.SkillCategory(r.URL.Query().Get("category")); cat != "" {
		kept := skills[:0]
		for _, s := range skills {
			if s.Category == cat {
				kept = append(kept, s)
			}
		}
		skills = kept
	}
	apperr.WriteJSON(w, http.StatusOK, skills)
}

// SkillsForJob returns the skills linked to a job, most frequent first.
func (h *Handler) SkillsForJob(w http.ResponseWriter, r *http.Request) {
	id, ok := h.existingJob(w, r, "jobId")
	if !ok {
		return
	}
	skills, err := h.catalog.SkillsForJob(r.Context(), id)
	if err != nil {
		h.fail(w, r, "skills for job", err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, skills)
}

// SalaryByState returns salary records for a state given by code or name.
func (h *Handler) SalaryByState(w http.ResponseWriter, r *http.Request) {
	state := chi.URLParam(r, "state")
	if code := analytics.StateCode(state); code != "" {
		state = code
	}
	recs, err := h.catalog.SalaryByState(r.Context(), state)
	if err != nil {
		h.fail(w, r, "salary by state", err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, recs)
}

// SalaryByJob returns the salary records of one job across states.
func (h *Handler) SalaryByJob(w http.ResponseWriter, r *http.Request) {
	id, ok := h.existingJob(w, r, "jobId")
	if !ok {
		return
	}
	recs, err := h.catalog.SalaryByJob(r.Context(), id)
	if err != nil {
		h.fail(w, r, "salary by job", err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, recs)
}

func (h *Handler) existingJob(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, ok := idParam(w, r, param)
	if !ok {
		return 0, false
	}
	if _, err := h.catalog.GetJob(r.Context(), id); err != nil {
		h.fail(w, r, "get job", err)
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, models.ErrNotFound) {
		apperr.Write(w, apperr.Wrap(apperr.NotFound, "not found", err))
		return
	}
	h.log.ErrorContext(r.Context(), op, "error", err)
	apperr.Write(w, err)
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		apperr.Write(w, apperr.E(apperr.Validation, "invalid "+name))
		return 0, false
	}
	return id, true
}
