package analytics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

// View sizes.
const (
	TopRolesLimit  = 5
	TopCitiesLimit = 6
)

// MetricCard is one headline number on the overview.
type MetricCard struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TopRole is a job title with its mean salary.
type TopRole struct {
	Title    string `json:"title"`
	Salary   int    `json:"salary"`
	Listings int    `json:"listings"`
}

// CityJobCount is the number of openings in one city.
type CityJobCount struct {
	City     string `json:"city"`
	State    string `json:"state"`
	Openings int    `json:"openings"`
	Listings int    `json:"listings"`
}

// StateJobCount is the number of openings in one state.
type StateJobCount struct {
	State     string `json:"state"`
	StateName string `json:"state_name"`
	Openings  int    `json:"openings"`
	Listings  int    `json:"listings"`
}

// RegionalSalary is the mean salary of one region.
type RegionalSalary struct {
	Region        string  `json:"region"`
	AverageSalary int     `json:"average_salary"`
	AverageGrowth float64 `json:"average_growth"`
	Openings      int     `json:"openings"`
	Listings      int     `json:"listings"`
}

func salaries(ls []models.JobListing) []float64 {
	out := make([]float64, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.AverageSalary)
	}
	return positive(out)
}

func growths(ls []models.JobListing) []float64 {
	out := make([]float64, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.GrowthPercent)
	}
	return out
}

func openings(ls []models.JobListing) int {
	n := 0
	for _, l := range ls {
		n += l.Openings
	}
	return n
}

// Overview returns the headline metric cards for listings.
func Overview(listings []models.JobListing) []MetricCard {
	if len(listings) == 0 {
		return []MetricCard{}
	}
	avgSalary, _ := Mean(salaries(listings))
	remote := 0
	for _, l := range listings {
		if l.Remote {
			remote++
		}
	}
	medSalary, _ := Mean(medianSalaries(listings))
	avgGrowth, _ := Mean(growths(listings))

	return []MetricCard{
		{Key: "listings", Label: "Job Listings", Value: float64(len(listings))},
		{Key: "openings", Label: "Total Openings", Value: float64(openings(listings))},
		{Key: "average_salary", Label: "Average Salary", Value: float64(round(avgSalary))},
		{Key: "median_salary", Label: "Median Salary", Value: float64(round(medSalary))},
		{Key: "average_growth", Label: "Average Growth %", Value: round1(avgGrowth)},
		{Key: "remote_share", Label: "Remote Share %", Value: float64(Percent(float64(remote), float64(len(listings))))},
	}
}

// TopRoles groups listings by title and ranks titles by mean salary.
func TopRoles(listings []models.JobListing, n int) []TopRole {
	groups := GroupBy(listings, func(l models.JobListing) string { return strings.TrimSpace(l.JobTitle) })
	out := make([]TopRole, 0, len(groups))
	for _, g := range groups {
		mean, _ := Mean(salaries(g.Items))
		out = append(out, TopRole{Title: g.Key, Salary: round(mean), Listings: len(g.Items)})
	}
	RankDesc(out, func(r TopRole) float64 { return float64(r.Salary) })
	return Top(out, n)
}

// TopCities ranks cities by total openings.
func TopCities(listings []models.JobListing, n int) []CityJobCount {
	groups := GroupBy(listings, func(l models.JobListing) string {
		city := strings.TrimSpace(l.City)
		if city == "" {
			return ""
		}
		return city + "|" + stateLabel(l.State)
	})
	out := make([]CityJobCount, 0, len(groups))
	for _, g := range groups {
		city, state, _ := strings.Cut(g.Key, "|")
		out = append(out, CityJobCount{City: city, State: state, Openings: openings(g.Items), Listings: len(g.Items)})
	}
	RankDesc(out, func(c CityJobCount) float64 { return float64(c.Openings) })
	return Top(out, n)
}

// StateJobCounts ranks every state by total openings.
func StateJobCounts(listings []models.JobListing) []StateJobCount {
	groups := GroupBy(listings, func(l models.JobListing) string { return stateLabel(l.State) })
	out := make([]StateJobCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, StateJobCount{
			State:     g.Key,
			StateName: StateName(g.Key),
			Openings:  openings(g.Items),
			Listings:  len(g.Items),
		})
	}
	RankDesc(out, func(s StateJobCount) float64 { return float64(s.Openings) })
	return out
}

// RegionalSalaries ranks regions by mean salary. Listings outside the
// region table are ignored.
func RegionalSalaries(listings []models.JobListing) []RegionalSalary {
	groups := GroupBy(listings, func(l models.JobListing) string { return regionOfListing(l.State, l.Region) })
	out := make([]RegionalSalary, 0, len(groups))
	for _, g := range groups {
		sal, _ := Mean(salaries(g.Items))
		gr, _ := Mean(growths(g.Items))
		out = append(out, RegionalSalary{
			Region:        g.Key,
			AverageSalary: round(sal),
			AverageGrowth: round1(gr),
			Openings:      openings(g.Items),
			Listings:      len(g.Items),
		})
	}
	RankDesc(out, func(r RegionalSalary) float64 { return float64(r.AverageSalary) })
	return out
}

// StateSalaries is RegionalSalaries one level down: the mean salary of each
// state, ranked.
func StateSalaries(listings []models.JobListing) []RegionalSalary {
	groups := GroupBy(listings, func(l models.JobListing) string { return stateLabel(l.State) })
	out := make([]RegionalSalary, 0, len(groups))
	for _, g := range groups {
		sal, _ := Mean(salaries(g.Items))
		gr, _ := Mean(growths(g.Items))
		out = append(out, RegionalSalary{
			Region:        g.Key,
			AverageSalary: round(sal),
			AverageGrowth: round1(gr),
			Openings:      openings(g.Items),
			Listings:      len(g.Items),
		})
	}
	RankDesc(out, func(r RegionalSalary) float64 { return float64(r.AverageSalary) })
	return out
}

// stateLabel prefers the two-letter code and keeps unknown values as-is.
func stateLabel(s string) string {
	if c := StateCode(s); c != "" {
		return c
	}
	return strings.TrimSpace(s)
}

// TrendPoint is one year of the market trend.
type TrendPoint struct {
	Year          int     `json:"year"`
	Openings      int     `json:"openings"`
	Listings      int     `json:"listings"`
	AverageSalary int     `json:"average_salary"`
	AverageGrowth float64 `json:"average_growth"`
}

// Trends aggregates listings per year, oldest first, keeping only the last
// years years of data (years <= 0 keeps everything).
func Trends(listings []models.JobListing, years int) []TrendPoint {
	out := []TrendPoint{}
	if len(listings) == 0 {
		return out
	}
	maxYear := 0
	for _, l := range listings {
		if l.Year > maxYear {
			maxYear = l.Year
		}
	}
	groups := GroupBy(listings, func(l models.JobListing) string {
		if l.Year <= 0 || (years > 0 && l.Year <= maxYear-years) {
			return ""
		}
		return strconv.Itoa(l.Year)
	})
	for _, g := range groups {
		sal, _ := Mean(salaries(g.Items))
		gr, _ := Mean(growths(g.Items))
		out = append(out, TrendPoint{
			Year:          g.Items[0].Year,
			Openings:      openings(g.Items),
			Listings:      len(g.Items),
			AverageSalary: round(sal),
			AverageGrowth: round1(gr),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// SkillGap is market demand for one skill and whether the team has it.
type SkillGap struct {
	Skill         string               `json:"skill"`
	Category      models.SkillCategory `json:"category"`
	DemandPercent int                  `json:"demand_percent"`
	Covered       bool                 `json:"covered"`
}

// SkillGapAnalysis compares market skill demand with a set of skills.
type SkillGapAnalysis struct {
	Listings        int        `json:"listings"`
	CoveragePercent int        `json:"coverage_percent"`
	Demand          []SkillGap `json:"demand"`
	Gaps            []SkillGap `json:"gaps"`
}

// SkillGaps ranks the n most demanded skills (share of listings naming
// them) and marks which of them appear in have.
func SkillGaps(listings []models.JobListing, have []string, n int) SkillGapAnalysis {
	out := SkillGapAnalysis{Listings: len(listings), Demand: []SkillGap{}, Gaps: []SkillGap{}}
	if len(listings) == 0 {
		return out
	}
	owned := make(map[string]struct{}, len(have))
	for _, h := range have {
		owned[skillKey(h)] = struct{}{}
	}

	buckets := skillCounts(listings)
	RankDesc(buckets, func(b SkillBucket) float64 { return float64(b.Count) })
	buckets = Top(buckets, n)

	covered := 0
	for _, b := range buckets {
		_, ok := owned[skillKey(b.Skill)]
		g := SkillGap{
			Skill:         b.Skill,
			Category:      b.Category,
			DemandPercent: Percent(float64(b.Count), float64(len(listings))),
			Covered:       ok,
		}
		out.Demand = append(out.Demand, g)
		if ok {
			covered++
		} else {
			out.Gaps = append(out.Gaps, g)
		}
	}
	out.CoveragePercent = Percent(float64(covered), float64(len(buckets)))
	return out
}
