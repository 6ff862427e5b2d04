package analytics

import "strings"

const (
	// All matches every value of a filter dimension.
	All = "all"
	// AllSpecialties matches every job title.
	AllSpecialties = "all_specialties"
	// OtherSpecialty is the label for titles no keyword matches.
	OtherSpecialty = "other"
)

type specialty struct {
	Name     string
	Keywords []string
}

// specialties is ordered: Classify picks the first match.
var specialties = []specialty{
	{"clinical_informatics", []string{"clinical informatics", "clinical analyst", "informaticist", "nurse informatic", "clinical systems", "informatics nurse", "informatics pharmacist"}},
	{"health_data_analytics", []string{"data analyst", "data scientist", "analytics", "data engineer", "business intelligence", "statistician", "data architect"}},
	{"ehr_systems", []string{"ehr", "emr", "epic", "cerner", "electronic health record"}},
	{"health_information_management", []string{"health information", "medical records", "coding", "coder", "release of information", "cdi specialist"}},
	{"public_health_informatics", []string{"public health", "epidemiolog", "population health", "biosurveillance"}},
	{"research_informatics", []string{"research", "bioinformatic", "genomic", "clinical trial"}},
	{"health_it", []string{"health it", "systems analyst", "software", "developer", "integration", "interface", "network", "security", "engineer", "administrator"}},
	{"leadership", []string{"director", "manager", "chief", "cmio", "cnio", "vice president"}},
}

// Specialties returns the known specialty names in table order.
func Specialties() []string {
	out := make([]string, len(specialties))
	for i, s := range specialties {
		out[i] = s.Name
	}
	return out
}

func lookupSpecialty(name string) (specialty, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range specialties {
		if s.Name == name {
			return s, true
		}
	}
	return specialty{}, false
}

// KnownSpecialty reports whether name is a specialty or an all sentinel.
func KnownSpecialty(name string) bool {
	if isAll(name) {
		return true
	}
	_, ok := lookupSpecialty(name)
	return ok
}

// MatchesSpecialty reports whether title contains one of the specialty's
// keywords, case-insensitively. The all sentinels match every title.
func MatchesSpecialty(title, name string) bool {
	if isAll(name) {
		return true
	}
	s, ok := lookupSpecialty(name)
	if !ok {
		return false
	}
	title = strings.ToLower(title)
	for _, kw := range s.Keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// Classify returns the first specialty whose keywords match title.
func Classify(title string) string {
	for _, s := range specialties {
		if MatchesSpecialty(title, s.Name) {
			return s.Name
		}
	}
	return OtherSpecialty
}

func isAll(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "" || v == All || v == AllSpecialties
}
