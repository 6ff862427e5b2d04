package analytics

import "strings"

// Regions lists the five dashboard regions in display order.
var Regions = []string{"Northeast", "Southeast", "Midwest", "Southwest", "West"}

var regionStates = map[string][]string{
	"Northeast": {"CT", "ME", "MA", "NH", "RI", "VT", "NJ", "NY", "PA"},
	"Southeast": {"DE", "MD", "DC", "VA", "WV", "NC", "SC", "GA", "FL", "KY", "TN", "AL", "MS", "AR", "LA"},
	"Midwest":   {"OH", "IN", "IL", "MI", "WI", "MN", "IA", "MO", "ND", "SD", "NE", "KS"},
	"Southwest": {"AZ", "NM", "OK", "TX"},
	"West":      {"CO", "WY", "MT", "ID", "WA", "OR", "UT", "NV", "CA", "AK", "HI"},
}

var stateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DE": "Delaware", "DC": "District of Columbia",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho", "IL": "Illinois",
	"IN": "Indiana", "IA": "Iowa", "KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana",
	"ME": "Maine", "MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
	"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma", "OR": "Oregon",
	"PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina", "SD": "South Dakota",
	"TN": "Tennessee", "TX": "Texas", "UT": "Utah", "VT": "Vermont", "VA": "Virginia",
	"WA": "Washington", "WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
}

var (
	stateByName    = make(map[string]string, len(stateNames))
	regionForState = make(map[string]string, len(stateNames))
)

func init() {
	for abbr, name := range stateNames {
		stateByName[strings.ToLower(name)] = abbr
	}
	for region, states := range regionStates {
		for _, st := range states {
			regionForState[st] = region
		}
	}
}

// StateCode returns the two-letter code for a state given by code or full
// name, or "" if it is not a US state.
func StateCode(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 2 {
		up := strings.ToUpper(s)
		if _, ok := stateNames[up]; ok {
			return up
		}
	}
	return stateByName[strings.ToLower(s)]
}

// StateName returns the full name for a state code, or the input unchanged.
func StateName(code string) string {
	if name, ok := stateNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

// RegionOf returns the region a state belongs to, or "".
func RegionOf(state string) string {
	return regionForState[StateCode(state)]
}

// CanonicalRegion maps loose spellings ("north east", "SOUTH_WEST") to a
// region name, or "" if unknown.
func CanonicalRegion(s string) string {
	key := squash(s)
	for _, r := range Regions {
		if squash(r) == key {
			return r
		}
	}
	return ""
}

// StatesIn returns the state codes of a region.
func StatesIn(region string) []string {
	return regionStates[CanonicalRegion(region)]
}

func squash(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

// regionOfListing prefers the state membership table and falls back to
// the listing's own region column.
func regionOfListing(state, region string) string {
	if r := RegionOf(state); r != "" {
		return r
	}
	return CanonicalRegion(region)
}
