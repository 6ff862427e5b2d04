package labor

import (
	"sort"
	"strings"
	"time"
)

// Sources reported in responses.
const (
	SourceBLS      = "bls"
	SourceONet     = "onet"
	SourceEstimate = "estimate"
)

// Wage is the national annual mean wage of an occupation.
type Wage struct {
	Code           string  `json:"code"`
	Title          string  `json:"title"`
	AnnualMeanWage float64 `json:"annual_mean_wage"`
	Year           int     `json:"year"`
	Source         string  `json:"source"`
	Cached         bool    `json:"cached"`
}

// Employment is the national employment of an occupation.
type Employment struct {
	Code          string  `json:"code"`
	Title         string  `json:"title"`
	Employment    int     `json:"employment"`
	GrowthPercent float64 `json:"projected_growth_percent"`
	Year          int     `json:"year"`
	Source        string  `json:"source"`
	Cached        bool    `json:"cached"`
}

// Occupation is an O*NET-SOC occupation.
type Occupation struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

// OccupationSkill is one skill element of an occupation.
type OccupationSkill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// OccupationList is the result of an occupation search.
type OccupationList struct {
	Keyword     string       `json:"keyword"`
	Occupations []Occupation `json:"occupations"`
	Source      string       `json:"source"`
	Cached      bool         `json:"cached"`
}

// SkillList is the skill summary of one occupation.
type SkillList struct {
	Code   string            `json:"code"`
	Skills []OccupationSkill `json:"skills"`
	Source string            `json:"source"`
	Cached bool              `json:"cached"`
}

type occupationEstimate struct {
	Title      string
	Wage       float64
	Employment int
	Growth     float64
}

// estimates are recent published OEWS/projection figures for the
// occupations the dashboards cover, served when the upstream is unavailable.
var estimates = map[string]occupationEstimate{
	"15-2051": {"Data Scientists", 119040, 192710, 36},
	"15-2041": {"Statisticians", 104110, 32630, 11},
	"15-1211": {"Computer Systems Analysts", 110800, 527200, 11},
	"15-1212": {"Information Security Analysts", 124910, 168900, 33},
	"15-1242": {"Database Administrators", 104620, 77400, 9},
	"15-1252": {"Software Developers", 138110, 1656880, 17},
	"11-9111": {"Medical and Health Services Managers", 134440, 509500, 29},
	"11-3021": {"Computer and Information Systems Managers", 179520, 591800, 17},
	"29-9021": {"Health Information Technologists and Medical Registrars", 66230, 41000, 16},
	"29-2072": {"Medical Records Specialists", 51090, 186400, 7},
	"29-1141": {"Registered Nurses", 94480, 3175390, 6},
	"19-1041": {"Epidemiologists", 94880, 9520, 19},
}

var defaultEstimate = occupationEstimate{"Health Informatics Occupation", 85000, 50000, 10}

func estimateFor(code string) occupationEstimate {
	if e, ok := estimates[socPrefix(code)]; ok {
		return e
	}
	return defaultEstimate
}

// socPrefix strips an O*NET suffix: "15-2051.01" -> "15-2051".
func socPrefix(code string) string {
	base, _, _ := strings.Cut(code, ".")
	return base
}

func sortedCodes() []string {
	codes := make([]string, 0, len(estimates))
	for c := range estimates {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

func estimateYear() int {
	return time.Now().Year() - 1
}

func estimatedWage(code string) Wage {
	e := estimateFor(code)
	return Wage{Code: code, Title: e.Title, AnnualMeanWage: e.Wage, Year: estimateYear(), Source: SourceEstimate}
}

func estimatedEmployment(code string) Employment {
	e := estimateFor(code)
	return Employment{Code: code, Title: e.Title, Employment: e.Employment, GrowthPercent: e.Growth, Year: estimateYear(), Source: SourceEstimate}
}

func estimatedSearch(keyword string) OccupationList {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	out := OccupationList{Keyword: keyword, Occupations: []Occupation{}, Source: SourceEstimate}
	for _, code := range sortedCodes() {
		e := estimates[code]
		if kw == "" || strings.Contains(strings.ToLower(e.Title), kw) {
			out.Occupations = append(out.Occupations, Occupation{Code: code + ".00", Title: e.Title})
		}
	}
	return out
}

// genericSkills is the O*NET skill summary shared by most informatics
// occupations.
var genericSkills = []OccupationSkill{
	{ID: "2.A.2.a", Name: "Critical Thinking"},
	{ID: "2.A.1.a", Name: "Reading Comprehension"},
	{ID: "2.B.2.i", Name: "Complex Problem Solving"},
	{ID: "2.A.1.b", Name: "Active Listening"},
	{ID: "2.A.1.d", Name: "Speaking"},
	{ID: "2.A.1.c", Name: "Writing"},
	{ID: "2.B.4.e", Name: "Judgment and Decision Making"},
	{ID: "2.B.3.a", Name: "Operations Analysis"},
	{ID: "2.A.1.e", Name: "Mathematics"},
	{ID: "2.B.3.e", Name: "Programming"},
}

func estimatedSkills(code string) SkillList {
	return SkillList{Code: code, Skills: append([]OccupationSkill{}, genericSkills...), Source: SourceEstimate}
}
