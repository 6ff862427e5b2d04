package analytics

import (
	"strings"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

// TopSkillsPerCategory is how many skills each category chart shows.
const TopSkillsPerCategory = 10

var softSkills = map[string]struct{}{
	"communication":          {},
	"leadership":             {},
	"teamwork":               {},
	"collaboration":          {},
	"problem solving":        {},
	"problem-solving":        {},
	"critical thinking":      {},
	"time management":        {},
	"adaptability":           {},
	"attention to detail":    {},
	"stakeholder management": {},
	"customer service":       {},
	"presentation":           {},
	"mentoring":              {},
	"negotiation":            {},
	"empathy":                {},
	"organization":           {},
	"change management":      {},
}

// SplitSkills splits a delimited skills field on ";", "," and "|",
// trimming blanks.
func SplitSkills(field string) []string {
	parts := strings.FieldsFunc(field, func(r rune) bool {
		return r == ';' || r == ',' || r == '|'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SkillCategoryOf classifies a skill as soft or technical.
func SkillCategoryOf(skill string) models.SkillCategory {
	if _, ok := softSkills[strings.ToLower(strings.TrimSpace(skill))]; ok {
		return models.SkillSoft
	}
	return models.SkillTechnical
}

func skillKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SkillBucket is one bar of a skills chart.
type SkillBucket struct {
	Skill    string               `json:"skill"`
	Category models.SkillCategory `json:"category"`
	Count    int                  `json:"count"`
	Percent  int                  `json:"percent"`
}

// SkillBreakdown holds the top skills of each category. Within a
// non-empty category the percentages sum to exactly 100.
type SkillBreakdown struct {
	Technical []SkillBucket `json:"technical"`
	Soft      []SkillBucket `json:"soft"`
}

// skillCounts groups listings by skill token and counts the listings
// naming each skill, keeping the first spelling seen for display.
func skillCounts(listings []models.JobListing) []SkillBucket {
	groups := skillGroups(listings)

	display := make(map[string]string)
	for _, l := range listings {
		for _, t := range SplitSkills(l.KeySkills) {
			if _, ok := display[skillKey(t)]; !ok {
				display[skillKey(t)] = t
			}
		}
	}

	out := make([]SkillBucket, len(groups))
	for i, g := range groups {
		name := display[g.Key]
		out[i] = SkillBucket{Skill: name, Category: SkillCategoryOf(name), Count: len(g.Items)}
	}
	return out
}

func skillGroups(ls []models.JobListing) []Group[models.JobListing] {
	return GroupByEach(ls, func(l models.JobListing) []string {
		tokens := SplitSkills(l.KeySkills)
		keys := make([]string, len(tokens))
		for i, t := range tokens {
			keys[i] = skillKey(t)
		}
		return keys
	})
}

// TopSkills ranks skills by the number of listings naming them, keeps the
// top n per category and converts counts into percentages of the shown
// total.
func TopSkills(listings []models.JobListing, n int) SkillBreakdown {
	out := SkillBreakdown{Technical: []SkillBucket{}, Soft: []SkillBucket{}}
	for _, b := range skillCounts(listings) {
		if b.Category == models.SkillSoft {
			out.Soft = append(out.Soft, b)
		} else {
			out.Technical = append(out.Technical, b)
		}
	}
	out.Technical = normalizeSkills(out.Technical, n)
	out.Soft = normalizeSkills(out.Soft, n)
	return out
}

// normalizeSkills ranks, truncates and assigns integer percentages that sum
// to 100. The rounding remainder is settled one point at a time starting at
// the first (highest ranked) entry, so a small remainder lands entirely on
// the first entry and no entry ever leaves [0, 100].
func normalizeSkills(buckets []SkillBucket, n int) []SkillBucket {
	RankDesc(buckets, func(b SkillBucket) float64 { return float64(b.Count) })
	buckets = Top(buckets, n)

	var whole int
	for _, b := range buckets {
		whole += b.Count
	}
	if whole == 0 {
		return buckets
	}
	sum := 0
	for i := range buckets {
		buckets[i].Percent = Percent(float64(buckets[i].Count), float64(whole))
		sum += buckets[i].Percent
	}
	diff := 100 - sum
	for i := 0; diff != 0; i = (i + 1) % len(buckets) {
		switch {
		case diff > 0:
			buckets[i].Percent++
			diff--
		case buckets[i].Percent > 0:
			buckets[i].Percent--
			diff++
		}
	}
	return buckets
}
