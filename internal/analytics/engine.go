package analytics

import (
	"sync"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

const maxCachedFilters = 256

// Engine holds the loaded dataset and memoizes filtered subsets by filter
// key. The dataset is never mutated after NewEngine.
type Engine struct {
	listings []models.JobListing

	mu    sync.Mutex
	cache map[string][]models.JobListing
}

// NewEngine returns an engine over listings. A nil slice is treated as an
// empty dataset.
func NewEngine(listings []models.JobListing) *Engine {
	if listings == nil {
		listings = []models.JobListing{}
	}
	return &Engine{listings: listings, cache: make(map[string][]models.JobListing)}
}

// Listings returns the full dataset. Callers must not modify it.
func (e *Engine) Listings() []models.JobListing {
	return e.listings
}

// Filtered returns the listings matching f. Results for the same filter key
// are computed once; the cache is dropped wholesale once it fills up.
func (e *Engine) Filtered(f Filter) []models.JobListing {
	key := f.Key()

	e.mu.Lock()
	if out, ok := e.cache[key]; ok {
		e.mu.Unlock()
		return out
	}
	e.mu.Unlock()

	out := f.Apply(e.listings)

	e.mu.Lock()
	if len(e.cache) >= maxCachedFilters {
		e.cache = make(map[string][]models.JobListing)
	}
	e.cache[key] = out
	e.mu.Unlock()
	return out
}

// Dashboard is every job-seeker view for one filter.
type Dashboard struct {
	Overview   []MetricCard     `json:"overview"`
	TopRoles   []TopRole        `json:"top_roles"`
	TopSkills  SkillBreakdown   `json:"top_skills"`
	TopCities  []CityJobCount   `json:"top_cities"`
	States     []StateJobCount  `json:"states"`
	Regional   []RegionalSalary `json:"regional_salary"`
	Specialty  string           `json:"specialty"`
	Listings   int              `json:"listings"`
	TotalCount int              `json:"total_count"`
}

// Dashboard computes all job-seeker views for f.
func (e *Engine) Dashboard(f Filter) Dashboard {
	ls := e.Filtered(f)
	spec := f.Specialty
	if isAll(spec) {
		spec = AllSpecialties
	}
	return Dashboard{
		Overview:   Overview(ls),
		TopRoles:   TopRoles(ls, TopRolesLimit),
		TopSkills:  TopSkills(ls, TopSkillsPerCategory),
		TopCities:  TopCities(ls, TopCitiesLimit),
		States:     StateJobCounts(ls),
		Regional:   RegionalSalaries(ls),
		Specialty:  spec,
		Listings:   len(ls),
		TotalCount: len(e.listings),
	}
}
