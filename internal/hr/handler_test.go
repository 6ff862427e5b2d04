package hr_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/analytics"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/auth"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/hr"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/logging"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/middleware"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

type fixture struct {
	router http.Handler
	tokens *auth.TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ls := []models.JobListing{
		{State: "MA", City: "Boston", Year: 2021, JobTitle: "Data Scientist", Openings: 4, AverageSalary: 100000, KeySkills: "Python; SQL"},
		{State: "NY", City: "New York", Year: 2024, JobTitle: "Data Scientist", Openings: 9, AverageSalary: 130000, KeySkills: "Python; Machine Learning"},
		{State: "IL", City: "Chicago", Year: 2024, JobTitle: "Nurse Informaticist", Openings: 6, AverageSalary: 90000, KeySkills: "Epic; Communication"},
		{State: "CA", City: "San Diego", Year: 2022, JobTitle: "Clinical Analyst", Openings: 2, AverageSalary: 95000, KeySkills: "Epic; SQL"},
	}
	log := logging.Discard()
	tokens := auth.NewTokenIssuer("hr-test-secret", time.Hour)
	gate := middleware.NewGate(tokens, log)

	r := chi.NewRouter()
	r.Route("/api/hr", func(r chi.Router) {
		r.Use(gate.Authenticate)
		r.Use(gate.RequireRole(models.RoleHR))
		hr.NewHandler(analytics.NewEngine(ls), log).Routes(r)
	})
	return &fixture{router: r, tokens: tokens}
}

func (f *fixture) get(t *testing.T, path string, role models.Role, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if role != "" {
		tok, err := f.tokens.Issue(&models.User{ID: 1, Username: "casey", Role: role})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestRoutes_RequireHRRole(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{
		"/api/hr/trend-analysis",
		"/api/hr/regional-analysis",
		"/api/hr/skill-gap-analysis",
	} {
		assert.Equal(t, http.StatusUnauthorized, f.get(t, path, "", nil), path)
		assert.Equal(t, http.StatusForbidden, f.get(t, path, models.RoleJobSeeker, nil), path)
		assert.Equal(t, http.StatusOK, f.get(t, path, models.RoleHR, nil), path)
	}
}

func TestTrendAnalysis(t *testing.T) {
	f := newFixture(t)

	var all hr.TrendAnalysis
	require.Equal(t, http.StatusOK, f.get(t, "/api/hr/trend-analysis?timeframe=all", models.RoleHR, &all))
	assert.Equal(t, analytics.AllSpecialties, all.Specialty)
	require.Len(t, all.Points, 3)
	assert.Equal(t, 2021, all.Points[0].Year)
	assert.Equal(t, 10, all.SalaryChangePercent)
	assert.Equal(t, 11, all.OpeningsChange)

	var recent hr.TrendAnalysis
	require.Equal(t, http.StatusOK, f.get(t, "/api/hr/trend-analysis?timeframe=1y&specialty=health_data_analytics", models.RoleHR, &recent))
	require.Len(t, recent.Points, 1)
	assert.Equal(t, 2024, recent.Points[0].Year)
	assert.Equal(t, 130000, recent.Points[0].AverageSalary)

	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/hr/trend-analysis?timeframe=10y", models.RoleHR, nil))
}

func TestRegionalAnalysis(t *testing.T) {
	f := newFixture(t)

	var out hr.RegionalAnalysis
	require.Equal(t, http.StatusOK, f.get(t, "/api/hr/regional-analysis?region=northeast", models.RoleHR, &out))
	assert.Equal(t, "Northeast", out.Region)
	require.Len(t, out.Regions, 3)
	assert.Equal(t, "Northeast", out.Regions[0].Region)
	assert.Equal(t, 115000, out.Regions[0].AverageSalary)

	require.Len(t, out.States, 2)
	assert.Equal(t, "NY", out.States[0].Region)

	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/hr/regional-analysis?region=mars", models.RoleHR, nil))
}

func TestSkillGapAnalysis(t *testing.T) {
	f := newFixture(t)

	var out hr.SkillGapReport
	require.Equal(t, http.StatusOK, f.get(t, "/api/hr/skill-gap-analysis?skills=python,sql&limit=3", models.RoleHR, &out))
	assert.Equal(t, 4, out.Listings)
	require.Len(t, out.Demand, 3)
	assert.Equal(t, "Python", out.Demand[0].Skill)
	assert.True(t, out.Demand[0].Covered)
	assert.Equal(t, 50, out.Demand[0].DemandPercent)
	require.Len(t, out.Gaps, 1)
	assert.Equal(t, "Epic", out.Gaps[0].Skill)
	assert.Equal(t, 67, out.CoveragePercent)

	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/hr/skill-gap-analysis?limit=-1", models.RoleHR, nil))
}
