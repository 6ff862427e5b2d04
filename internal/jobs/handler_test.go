package jobs_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/analytics"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/jobs"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/logging"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/store"
)

func listings() []models.JobListing {
	return []models.JobListing{
		{State: "MA", City: "Boston", Year: 2023, JobTitle: "Data Scientist", Openings: 10, AverageSalary: 100000, MedianSalary: 98000, Remote: true, KeySkills: "Python; SQL"},
		{State: "TX", City: "Austin", Year: 2024, JobTitle: "Data Scientist", Openings: 5, AverageSalary: 120000, MedianSalary: 118000, KeySkills: "Python; Leadership"},
		{State: "IL", City: "Chicago", Year: 2024, JobTitle: "Nurse Informaticist", Openings: 8, AverageSalary: 90000, MedianSalary: 89000, KeySkills: "Epic; Communication"},
	}
}

func newRouter(t *testing.T, ls []models.JobListing) http.Handler {
	t.Helper()
	st := store.NewMemoryStore()
	require.NoError(t, st.SeedCatalog(context.Background(), analytics.BuildCatalog(ls)))
	h := jobs.NewHandler(st, analytics.NewEngine(ls), logging.Discard())

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.Routes(r)
		r.Route("/analytics", h.DashboardRoutes)
	})
	return r
}

func get(t *testing.T, h http.Handler, path string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestCatalogReads(t *testing.T) {
	h := newRouter(t, listings())

	var all []models.Job
	require.Equal(t, http.StatusOK, get(t, h, "/api/jobs", &all))
	require.Len(t, all, 2)
	assert.Equal(t, "Data Scientist", all[0].Title)

	var clinical []models.Job
	require.Equal(t, http.StatusOK, get(t, h, "/api/jobs?specialty=clinical_informatics", &clinical))
	require.Len(t, clinical, 1)
	assert.Equal(t, "Nurse Informaticist", clinical[0].Title)

	var job models.Job
	require.Equal(t, http.StatusOK, get(t, h, "/api/jobs/1", &job))
	assert.Equal(t, 110000.0, job.AverageSalary)

	var skills []models.JobSkillView
	require.Equal(t, http.StatusOK, get(t, h, "/api/skills/1", &skills))
	require.NotEmpty(t, skills)
	assert.Equal(t, "Python", skills[0].Name)
	assert.Equal(t, 2, skills[0].Frequency)

	var soft []models.Skill
	require.Equal(t, http.StatusOK, get(t, h, "/api/skills?category=soft", &soft))
	assert.Len(t, soft, 2)

	var byState []models.SalaryRecord
	require.Equal(t, http.StatusOK, get(t, h, "/api/salary/massachusetts", &byState))
	require.Len(t, byState, 1)
	assert.Equal(t, "MA", byState[0].State)

	var byJob []models.SalaryRecord
	require.Equal(t, http.StatusOK, get(t, h, "/api/salary/job/1", &byJob))
	assert.Len(t, byJob, 2)
}

func TestCatalogReads_Errors(t *testing.T) {
	h := newRouter(t, listings())

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/jobs/99", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/jobs/abc", nil))
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/skills/99", nil))
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/salary/job/42", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/jobs?specialty=astronaut", nil))
}

func TestDashboardViews(t *testing.T) {
	h := newRouter(t, listings())

	var roles []analytics.TopRole
	require.Equal(t, http.StatusOK, get(t, h, "/api/analytics/top-roles", &roles))
	require.Len(t, roles, 2)
	assert.Equal(t, analytics.TopRole{Title: "Data Scientist", Salary: 110000, Listings: 2}, roles[0])

	var remote []analytics.TopRole
	require.Equal(t, http.StatusOK, get(t, h, "/api/analytics/top-roles?remote=remote", &remote))
	require.Len(t, remote, 1)
	assert.Equal(t, 100000, remote[0].Salary)

	var cities []analytics.CityJobCount
	require.Equal(t, http.StatusOK, get(t, h, "/api/analytics/top-cities?limit=1", &cities))
	require.Len(t, cities, 1)
	assert.Equal(t, "Boston", cities[0].City)

	var skills analytics.SkillBreakdown
	require.Equal(t, http.StatusOK, get(t, h, "/api/analytics/top-skills?region=midwest", &skills))
	require.Len(t, skills.Technical, 1)
	assert.Equal(t, 100, skills.Technical[0].Percent)

	var dash analytics.Dashboard
	require.Equal(t, http.StatusOK, get(t, h, "/api/analytics/dashboard?specialty=health_data_analytics", &dash))
	assert.Equal(t, 2, dash.Listings)
	assert.Equal(t, 3, dash.TotalCount)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/analytics/overview?region=atlantis", nil))
}

func TestDashboardViews_EmptyDataset(t *testing.T) {
	h := newRouter(t, nil)

	for _, path := range []string{
		"/api/jobs", "/api/skills", "/api/analytics/overview", "/api/analytics/top-roles",
		"/api/analytics/top-cities", "/api/analytics/states", "/api/analytics/regional-salary",
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, "[]", rec.Body.String(), path)
	}
}
