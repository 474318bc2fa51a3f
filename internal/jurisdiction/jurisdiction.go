// Package jurisdiction derives a state identifier from a metro region's
// display name and decides whether service is categorically excluded there.
//
// The extraction is a deliberate heuristic: CBSA names carry their state
// abbreviations ("Miami-Fort Lauderdale-Pompano Beach, FL"), so the state is
// mined from the name of the region already known to contain the point, not
// looked up from coordinates.
package jurisdiction

import "strings"

// Excluded jurisdictions, as both two-letter abbreviations and full names.
// Membership checks are exact-match against this fixed set.
var excluded = map[string]bool{
	"HI": true, "AK": true, "FL": true, "NY": true, "NJ": true, "ND": true, "SD": true,
	"Hawaii": true, "Alaska": true, "Florida": true, "New York": true,
	"New Jersey": true, "North Dakota": true, "South Dakota": true,
}

// fullNames is the long-form half of the exclusion set, used for substring
// matching against name tokens.
var fullNames = []string{
	"Hawaii", "Alaska", "Florida", "New York",
	"New Jersey", "North Dakota", "South Dakota",
}

// Extract mines a state identifier from a region name. The name is split on
// both commas and hyphens; the first token that is exactly two uppercase
// letters wins. Failing that, the first token containing a full excluded
// state name returns that name. No match returns "", which is ambiguous and
// treated as not excluded, never as an error.
//
// Known limitation: any incidental two-letter uppercase token (initials, TV
// call signs) is taken for a state abbreviation. The source data never
// produces one, so this stays unguarded.
func Extract(regionName string) string {
	normalized := strings.ReplaceAll(regionName, "-", ",")
	for _, part := range strings.Split(normalized, ",") {
		token := strings.TrimSpace(part)
		if len(token) == 2 && token == strings.ToUpper(token) && isLetters(token) {
			return token
		}
		for _, state := range fullNames {
			if strings.Contains(token, state) {
				return state
			}
		}
	}
	return ""
}

// IsExcluded reports whether a mined state identifier is in the exclusion
// set, checking the identifier as-is and uppercased.
func IsExcluded(state string) bool {
	if state == "" {
		return false
	}
	return excluded[state] || excluded[strings.ToUpper(state)]
}

// ExcludedList returns the two-letter abbreviations of all excluded
// jurisdictions, for display.
func ExcludedList() []string {
	return []string{"HI", "AK", "FL", "NY", "NJ", "ND", "SD"}
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
