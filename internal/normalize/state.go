package normalize

import "strings"

// stateNames maps full jurisdiction names to their codes. Lookup is by
// containment so "NEW YORK CITY" still resolves.
var stateNames = []struct {
	name string
	code string
}{
	{"NEW YORK", "NY"},
	{"NEW JERSEY", "NJ"},
	{"CONNECTICUT", "CT"},
	{"PENNSYLVANIA", "PA"},
}

// State uppercases and trims v. A value already in allowed is accepted as is;
// otherwise a known full name contained in v is replaced by its code.
// Anything else is returned unchanged so the validator can report it.
func State(v string, allowed map[string]bool) string {
	s := strings.ToUpper(strings.TrimSpace(v))
	if allowed[s] {
		return s
	}
	for _, n := range stateNames {
		if strings.Contains(s, n.name) {
			return n.code
		}
	}
	return s
}
