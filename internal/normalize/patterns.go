package normalize

import (
	"regexp"
	"strings"
)

// Input patterns enforced by the destination form. A value that does not
// fully match is silently rejected there, so these are hard failures here.
var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	zipPattern   = regexp.MustCompile(`^[0-9]{5}$`)
)

// Email trims v and reports whether it matches the destination grammar.
func Email(v string) (string, bool) {
	s := strings.TrimSpace(v)
	return s, emailPattern.MatchString(s)
}

// ZipCode trims v and reports whether it is a five-digit zip code.
func ZipCode(v string) (string, bool) {
	s := strings.TrimSpace(v)
	return s, zipPattern.MatchString(s)
}
