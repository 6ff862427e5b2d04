// Package hr serves the market analyses available to HR users: salary and
// openings trends, regional benchmarks and skill-gap reports.
package hr

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/analytics"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/apperr"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/auth"
)

// DefaultSkillGapLimit is how many in-demand skills a gap report ranks.
const DefaultSkillGapLimit = 15

var timeframes = map[string]int{
	"":    0,
	"all": 0,
	"1y":  1,
	"3y":  3,
	"5y":  5,
}

// Handler holds the HR analysis handlers. Routes must be mounted behind
// bearer authentication and the hr role check.
type Handler struct {
	engine *analytics.Engine
	log    *slog.Logger
}

func NewHandler(engine *analytics.Engine, log *slog.Logger) *Handler {
	return &Handler{engine: engine, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/trend-analysis", h.TrendAnalysis)
	r.Get("/regional-analysis", h.RegionalAnalysis)
	r.Get("/skill-gap-analysis", h.SkillGapAnalysis)
}

// TrendAnalysis is the yearly market trend for one specialty.
type TrendAnalysis struct {
	Timeframe           string                 `json:"timeframe"`
	Specialty           string                 `json:"specialty"`
	Points              []analytics.TrendPoint `json:"points"`
	SalaryChangePercent int                    `json:"salary_change_percent"`
	OpeningsChange      int                    `json:"openings_change"`
	TopRoles            []analytics.TopRole    `json:"top_roles"`
}

// TrendAnalysis handles GET /trend-analysis?timeframe=&specialty=.
func (h *Handler) TrendAnalysis(w http.ResponseWriter, r *http.Request) {
	f, err := analytics.FilterFromQuery(r.URL.Query())
	if err != nil {
		apperr.Write(w, err)
		return
	}
	tf := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("timeframe")))
	years, ok := timeframes[tf]
	if !ok {
		apperr.Write(w, apperr.E(apperr.Validation, "timeframe must be one of 1y, 3y, 5y, all"))
		return
	}
	if tf == "" {
		tf = analytics.All
	}

	ls := h.engine.Filtered(f)
	out := TrendAnalysis{
		Timeframe: tf,
		Specialty: specialtyLabel(f.Specialty),
		Points:    analytics.Trends(ls, years),
		TopRoles:  analytics.TopRoles(ls, analytics.TopRolesLimit),
	}
	if n := len(out.Points); n > 1 {
		first, last := out.Points[0], out.Points[n-1]
		out.SalaryChangePercent = analytics.Percent(float64(last.AverageSalary-first.AverageSalary), float64(first.AverageSalary))
		out.OpeningsChange = last.Openings - first.Openings
	}
	h.audit(r, "trend-analysis", "timeframe", tf, "specialty", out.Specialty, "points", len(out.Points))
	apperr.WriteJSON(w, http.StatusOK, out)
}

// RegionalAnalysis compares regions, or the states of one region.
type RegionalAnalysis struct {
	Region   string                     `json:"region"`
	Regions  []analytics.RegionalSalary `json:"regions"`
	States   []analytics.RegionalSalary `json:"states"`
	TopRoles []analytics.TopRole        `json:"top_roles"`
	Openings []analytics.StateJobCount  `json:"openings"`
}

// RegionalAnalysis handles GET /regional-analysis?region=.
func (h *Handler) RegionalAnalysis(w http.ResponseWriter, r *http.Request) {
	f, err := analytics.FilterFromQuery(r.URL.Query())
	if err != nil {
		apperr.Write(w, err)
		return
	}

	// The region comparison ignores the region filter so the selected region
	// can be benchmarked against the others.
	wide := f
	wide.Region = ""
	ls := h.engine.Filtered(f)

	region := analytics.CanonicalRegion(f.Region)
	if region == "" {
		region = analytics.All
	}
	out := RegionalAnalysis{
		Region:   region,
		Regions:  analytics.RegionalSalaries(h.engine.Filtered(wide)),
		States:   analytics.StateSalaries(ls),
		TopRoles: analytics.TopRoles(ls, analytics.TopRolesLimit),
		Openings: analytics.StateJobCounts(ls),
	}
	h.audit(r, "regional-analysis", "region", region, "states", len(out.States))
	apperr.WriteJSON(w, http.StatusOK, out)
}

// SkillGapReport is a skill-gap analysis for one filter.
type SkillGapReport struct {
	Specialty string `json:"specialty"`
	Region    string `json:"region"`
	analytics.SkillGapAnalysis
}

// SkillGapAnalysis handles GET /skill-gap-analysis?specialty=&region=&skills=&limit=.
// skills is the comma separated list of skills the team already has.
func (h *Handler) SkillGapAnalysis(w http.ResponseWriter, r *http.Request) {
	f, err := analytics.FilterFromQuery(r.URL.Query())
	if err != nil {
		apperr.Write(w, err)
		return
	}
	n := DefaultSkillGapLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err = strconv.Atoi(v); err != nil || n <= 0 {
			apperr.Write(w, apperr.E(apperr.Validation, "invalid limit"))
			return
		}
	}

	var have []string
	for _, v := range r.URL.Query()["skills"] {
		have = append(have, analytics.SplitSkills(v)...)
	}

	region := analytics.CanonicalRegion(f.Region)
	if region == "" {
		region = analytics.All
	}
	out := SkillGapReport{
		Specialty:        specialtyLabel(f.Specialty),
		Region:           region,
		SkillGapAnalysis: analytics.SkillGaps(h.engine.Filtered(f), have, n),
	}
	h.audit(r, "skill-gap-analysis", "specialty", out.Specialty, "gaps", len(out.Gaps))
	apperr.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) audit(r *http.Request, report string, attrs ...any) {
	if c, ok := auth.ClaimsFromContext(r.Context()); ok {
		attrs = append(attrs, "user_id", c.UserID)
	}
	h.log.InfoContext(r.Context(), "hr report", append([]any{"report", report}, attrs...)...)
}

func specialtyLabel(s string) string {
	if s = strings.ToLower(strings.TrimSpace(s)); s == "" || s == analytics.All {
		return analytics.AllSpecialties
	}
	return s
}
