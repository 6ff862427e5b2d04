package analytics

import (
	"strconv"
	"strings"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

// BuildCatalog derives the job, skill and salary tables served by the CRUD
// endpoints from the raw listings. Ids are assigned from 1 in first-encounter
// order, so the same dataset always yields the same ids.
func BuildCatalog(listings []models.JobListing) models.Catalog {
	cat := models.Catalog{
		Jobs:      []models.Job{},
		Skills:    []models.Skill{},
		JobSkills: []models.JobSkill{},
		Salaries:  []models.SalaryRecord{},
	}

	skillIDs := make(map[string]int64)
	for _, b := range skillCounts(listings) {
		id := int64(len(cat.Skills) + 1)
		skillIDs[skillKey(b.Skill)] = id
		cat.Skills = append(cat.Skills, models.Skill{ID: id, Name: b.Skill, Category: b.Category})
	}

	byTitle := GroupBy(listings, func(l models.JobListing) string { return strings.TrimSpace(l.JobTitle) })
	for _, g := range byTitle {
		id := int64(len(cat.Jobs) + 1)
		avg, _ := Mean(salaries(g.Items))
		med, _ := Mean(medianSalaries(g.Items))
		gr, _ := Mean(growths(g.Items))
		cat.Jobs = append(cat.Jobs, models.Job{
			ID:            id,
			Title:         g.Key,
			Specialty:     Classify(g.Key),
			AverageSalary: float64(round(avg)),
			MedianSalary:  float64(round(med)),
			GrowthPercent: round1(gr),
			Openings:      openings(g.Items),
		})

		for _, sg := range skillGroups(g.Items) {
			cat.JobSkills = append(cat.JobSkills, models.JobSkill{
				JobID:     id,
				SkillID:   skillIDs[sg.Key],
				Frequency: len(sg.Items),
			})
		}

		bySite := GroupBy(g.Items, func(l models.JobListing) string {
			st := StateCode(l.State)
			if st == "" || l.Year <= 0 {
				return ""
			}
			return st + "|" + strconv.Itoa(l.Year)
		})
		for _, sg := range bySite {
			state, _, _ := strings.Cut(sg.Key, "|")
			a, _ := Mean(salaries(sg.Items))
			m, _ := Mean(medianSalaries(sg.Items))
			cat.Salaries = append(cat.Salaries, models.SalaryRecord{
				JobID:         id,
				JobTitle:      g.Key,
				State:         state,
				Year:          sg.Items[0].Year,
				AverageSalary: float64(round(a)),
				MedianSalary:  float64(round(m)),
			})
		}
	}
	return cat
}

func medianSalaries(ls []models.JobListing) []float64 {
	out := make([]float64, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.MedianSalary)
	}
	return positive(out)
}
