package analytics

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"Python", "SQL", "HL7", "Epic"}, SplitSkills(" Python; SQL,HL7 | Epic ;; "))
	assert.Empty(t, SplitSkills(""))
}

func TestSkillCategoryOf(t *testing.T) {
	assert.Equal(t, models.SkillSoft, SkillCategoryOf(" Communication "))
	assert.Equal(t, models.SkillSoft, SkillCategoryOf("problem-solving"))
	assert.Equal(t, models.SkillTechnical, SkillCategoryOf("FHIR"))
}

func TestTopSkills(t *testing.T) {
	got := TopSkills(sampleListings(), TopSkillsPerCategory)

	var tech []string
	for _, b := range got.Technical {
		tech = append(tech, fmt.Sprintf("%s:%d:%d", b.Skill, b.Count, b.Percent))
	}
	// 2/8 = 25, 1/8 rounds to 13; the first entry absorbs the -1 remainder.
	assert.Equal(t, []string{"Python:2:24", "SQL:2:25", "Epic:2:25", "Machine Learning:1:13", "HL7:1:13"}, tech)

	require.Len(t, got.Soft, 3)
	assert.Equal(t, "Communication", got.Soft[0].Skill)
	assert.Equal(t, 50, got.Soft[0].Percent)
	assert.Equal(t, 25, got.Soft[1].Percent)
}

func TestTopSkills_CountsListingsNotMentions(t *testing.T) {
	ls := []models.JobListing{{KeySkills: "SQL; sql; SQL "}, {KeySkills: "Python"}}
	got := TopSkills(ls, 10)
	require.Len(t, got.Technical, 2)
	assert.Equal(t, 1, got.Technical[0].Count)
	assert.Equal(t, 50, got.Technical[0].Percent)
}

func TestNormalizeSkills_RemainderToFirst(t *testing.T) {
	buckets := []SkillBucket{{Skill: "a", Count: 1}, {Skill: "b", Count: 1}, {Skill: "c", Count: 1}}
	got := normalizeSkills(buckets, 10)
	assert.Equal(t, 34, got[0].Percent)
	assert.Equal(t, 33, got[1].Percent)
	assert.Equal(t, 33, got[2].Percent)
}

func TestNormalizeSkills_WideSetStaysInRange(t *testing.T) {
	for _, n := range []int{99, 150, 200, 333} {
		ls := make([]models.JobListing, n)
		for i := range ls {
			ls[i].KeySkills = fmt.Sprintf("Tool %d", i)
		}
		got := TopSkills(ls, n).Technical
		require.Len(t, got, n)

		sum := 0
		for _, b := range got {
			assert.GreaterOrEqual(t, b.Percent, 0, "n=%d %s", n, b.Skill)
			assert.LessOrEqual(t, b.Percent, 100, "n=%d %s", n, b.Skill)
			sum += b.Percent
		}
		assert.Equal(t, 100, sum, "n=%d", n)
	}
}

func TestNormalizeSkills_PositiveRemainderSpreads(t *testing.T) {
	// Seven equal buckets round to 14 each (98), leaving +2.
	buckets := make([]SkillBucket, 7)
	for i := range buckets {
		buckets[i] = SkillBucket{Skill: fmt.Sprint(i), Count: 1}
	}
	got := normalizeSkills(buckets, 10)
	assert.Equal(t, 15, got[0].Percent)
	assert.Equal(t, 15, got[1].Percent)
	assert.Equal(t, 14, got[2].Percent)
}

func TestTopSkills_PercentagesSumTo100(t *testing.T) {
	pool := []string{
		"Python", "SQL", "R", "Tableau", "Epic", "Cerner", "HL7", "FHIR", "SAS", "Excel",
		"Machine Learning", "ICD-10", "Power BI", "Java", "AWS",
		"Communication", "Leadership", "Teamwork", "Problem Solving", "Critical Thinking",
		"Time Management", "Adaptability", "Mentoring", "Negotiation", "Empathy",
	}
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(40)
		ls := make([]models.JobListing, n)
		for i := range ls {
			k := 1 + rng.Intn(6)
			picked := make([]string, k)
			for j := range picked {
				picked[j] = pool[rng.Intn(len(pool))]
			}
			ls[i].KeySkills = strings.Join(picked, "; ")
		}

		got := TopSkills(ls, TopSkillsPerCategory)
		for name, cat := range map[string][]SkillBucket{"technical": got.Technical, "soft": got.Soft} {
			if len(cat) == 0 {
				continue
			}
			assert.LessOrEqual(t, len(cat), TopSkillsPerCategory)
			sum := 0
			for i, b := range cat {
				sum += b.Percent
				assert.GreaterOrEqual(t, b.Percent, 0)
				if i > 0 {
					assert.GreaterOrEqual(t, cat[i-1].Count, b.Count)
				}
			}
			assert.Equal(t, 100, sum, "round %d %s", round, name)
		}
	}
}
