package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// Text trims and collapses internal whitespace. Returns nil if the result is
// empty so that optional fields never carry "" as a value.
func Text(v string) *string {
	s := multiSpace.ReplaceAllString(strings.TrimSpace(v), " ")
	if s == "" {
		return nil
	}
	return &s
}

// Required is Text for mandatory fields; ok is false when nothing is left.
func Required(v string) (string, bool) {
	s := Text(v)
	if s == nil {
		return "", false
	}
	return *s, true
}

// StripTranslation drops a bilingual suffix: "Other | Otro" becomes "Other".
func StripTranslation(v string) string {
	if i := strings.Index(v, "|"); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// YesNo resolves a yes/no intake answer. ok is false when the answer is
// missing or not recognizable.
func YesNo(v string) (answer bool, ok bool) {
	switch strings.ToLower(StripTranslation(v)) {
	case "yes", "true", "si", "sí":
		return true, true
	case "no", "false":
		return false, true
	}
	return false, false
}
