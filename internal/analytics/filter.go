package analytics

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/apperr"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

// Remote filter values.
const (
	RemoteOnly = "remote"
	OnSiteOnly = "onsite"
)

// Filter is the dashboard filter set. Empty or "all" fields match
// everything; a zero salary bound is unbounded. All predicates AND.
type Filter struct {
	Specialty       string
	Remote          string
	EmploymentType  string
	Region          string
	State           string
	ExperienceLevel string
	MinSalary       float64
	MaxSalary       float64
}

// Key is a canonical string for f, equal for filters that select the same
// listings.
func (f Filter) Key() string {
	norm := func(s string) string {
		if isAll(s) {
			return All
		}
		return strings.ToLower(strings.TrimSpace(s))
	}
	region := norm(f.Region)
	if r := CanonicalRegion(f.Region); r != "" {
		region = strings.ToLower(r)
	}
	state := norm(f.State)
	if c := StateCode(f.State); c != "" {
		state = strings.ToLower(c)
	}
	return fmt.Sprintf("sp=%s|rm=%s|et=%s|rg=%s|st=%s|xp=%s|min=%g|max=%g",
		norm(f.Specialty), norm(remoteMode(f.Remote)), norm(f.EmploymentType),
		region, state, norm(f.ExperienceLevel), f.MinSalary, f.MaxSalary)
}

// Match reports whether l passes every predicate of f.
func (f Filter) Match(l models.JobListing) bool {
	if !MatchesSpecialty(l.JobTitle, f.Specialty) {
		return false
	}
	switch remoteMode(f.Remote) {
	case RemoteOnly:
		if !l.Remote {
			return false
		}
	case OnSiteOnly:
		if l.Remote {
			return false
		}
	}
	if !isAll(f.EmploymentType) && !strings.EqualFold(strings.TrimSpace(l.EmploymentType), strings.TrimSpace(f.EmploymentType)) {
		return false
	}
	if !isAll(f.ExperienceLevel) && !strings.EqualFold(strings.TrimSpace(l.ExperienceLevel), strings.TrimSpace(f.ExperienceLevel)) {
		return false
	}
	if !isAll(f.Region) {
		want := CanonicalRegion(f.Region)
		if want == "" || regionOfListing(l.State, l.Region) != want {
			return false
		}
	}
	if !isAll(f.State) {
		want := StateCode(f.State)
		if want == "" || StateCode(l.State) != want {
			return false
		}
	}
	if f.MinSalary > 0 && l.AverageSalary < f.MinSalary {
		return false
	}
	if f.MaxSalary > 0 && l.AverageSalary > f.MaxSalary {
		return false
	}
	return true
}

// Apply returns the listings matching f, in input order.
func (f Filter) Apply(listings []models.JobListing) []models.JobListing {
	out := make([]models.JobListing, 0, len(listings))
	for _, l := range listings {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// Values encodes f as query parameters understood by FilterFromQuery.
// Unset dimensions are omitted.
func (f Filter) Values() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if !isAll(v) {
			q.Set(k, strings.TrimSpace(v))
		}
	}
	set("specialty", f.Specialty)
	set("remote", f.Remote)
	set("employmentType", f.EmploymentType)
	set("region", f.Region)
	set("state", f.State)
	set("experience", f.ExperienceLevel)
	if f.MinSalary > 0 {
		q.Set("minSalary", strconv.FormatFloat(f.MinSalary, 'f', -1, 64))
	}
	if f.MaxSalary > 0 {
		q.Set("maxSalary", strconv.FormatFloat(f.MaxSalary, 'f', -1, 64))
	}
	return q
}

func remoteMode(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "remote", "true", "yes", "1":
		return RemoteOnly
	case "onsite", "on-site", "on_site", "false", "no", "0":
		return OnSiteOnly
	default:
		return All
	}
}

// FilterFromQuery reads a Filter from URL query parameters. Unknown
// specialties, regions and states and unparseable salary bounds are
// validation errors.
func FilterFromQuery(q url.Values) (Filter, error) {
	f := Filter{
		Specialty:       q.Get("specialty"),
		Remote:          q.Get("remote"),
		EmploymentType:  first(q.Get("employmentType"), q.Get("employment_type")),
		Region:          q.Get("region"),
		State:           q.Get("state"),
		ExperienceLevel: first(q.Get("experience"), q.Get("experienceLevel")),
	}
	if !KnownSpecialty(f.Specialty) {
		return Filter{}, apperr.E(apperr.Validation, "unknown specialty "+strconv.Quote(f.Specialty))
	}
	if !isAll(f.Region) && CanonicalRegion(f.Region) == "" {
		return Filter{}, apperr.E(apperr.Validation, "unknown region "+strconv.Quote(f.Region))
	}
	if !isAll(f.State) && StateCode(f.State) == "" {
		return Filter{}, apperr.E(apperr.Validation, "unknown state "+strconv.Quote(f.State))
	}

	var err error
	if f.MinSalary, err = salaryParam(q, "minSalary", "min_salary"); err != nil {
		return Filter{}, err
	}
	if f.MaxSalary, err = salaryParam(q, "maxSalary", "max_salary"); err != nil {
		return Filter{}, err
	}
	if f.MaxSalary > 0 && f.MinSalary > f.MaxSalary {
		return Filter{}, apperr.E(apperr.Validation, "minSalary exceeds maxSalary")
	}
	return f, nil
}

func salaryParam(q url.Values, names ...string) (float64, error) {
	for _, n := range names {
		v := strings.TrimSpace(q.Get(n))
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, apperr.E(apperr.Validation, "invalid "+n)
		}
		return f, nil
	}
	return 0, nil
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
