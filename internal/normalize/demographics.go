package normalize

import (
	"strings"

	"github.com/gyeh/vaxup/internal/model"
)

// rule maps a lowercased, translation-stripped answer to a canonical value.
type rule[T any] struct {
	match func(string) bool
	value T
}

// classify returns the value of the first matching rule, or fallback.
func classify[T any](v string, rules []rule[T], fallback T) T {
	v = strings.ToLower(StripTranslation(v))
	for _, r := range rules {
		if r.match(v) {
			return r.value
		}
	}
	return fallback
}

func contains(sub string) func(string) bool {
	return func(v string) bool { return strings.Contains(v, sub) }
}

func equals(subs ...string) func(string) bool {
	return func(v string) bool {
		for _, s := range subs {
			if v == s {
				return true
			}
		}
		return false
	}
}

// Order matters: "caucasian" contains "asian".
var raceRules = []rule[model.Race]{
	{contains("caucasian"), model.RaceWhite},
	{contains("asian"), model.RaceAsian},
	{contains("black"), model.RaceBlack},
	{contains("alaska"), model.RaceNativeAmerican},
	{contains("pacific"), model.RacePacificIslander},
	{contains("white"), model.RaceWhite},
	{contains("prefer"), model.RacePreferNotToAnswer},
}

// "female" contains "male", so both are exact matches.
var sexRules = []rule[model.Sex]{
	{equals("male"), model.SexMale},
	{equals("female"), model.SexFemale},
	{contains("neither"), model.SexNeither},
}

var ethnicityRules = []rule[model.Ethnicity]{
	{equals("yes", strings.ToLower(string(model.EthnicityLatinx))), model.EthnicityLatinx},
	{equals("no", strings.ToLower(string(model.EthnicityNotLatinx))), model.EthnicityNotLatinx},
}

// Race resolves a race answer; unmatched answers are Other.
func Race(v string) model.Race {
	return classify(v, raceRules, model.RaceOther)
}

// Sex resolves a sex-at-birth answer; unmatched answers are Unknown.
func Sex(v string) model.Sex {
	return classify(v, sexRules, model.SexUnknown)
}

// Ethnicity resolves the answer to "Do you identify as Hispanic, Latino, or
// Latina?"; unmatched answers are Prefer not to answer.
func Ethnicity(v string) model.Ethnicity {
	return classify(v, ethnicityRules, model.EthnicityPreferNotToAnswer)
}
