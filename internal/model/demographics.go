package model

// Race values carry the label used by the destination form's race checkboxes.
type Race string

const (
	RaceBlack             Race = "Black, including African American or Afro-Caribbean"
	RaceAsian             Race = "Asian, including South Asian"
	RaceNativeAmerican    Race = "Native American or Alaska Native"
	RacePacificIslander   Race = "Native Hawaiian or Pacific Islander"
	RaceWhite             Race = "White"
	RacePreferNotToAnswer Race = "Prefer not to answer"
	RaceOther             Race = "Other"
)

// Sex values carry the destination dropdown data-value.
type Sex string

const (
	SexMale    Sex = "Male"
	SexFemale  Sex = "Female"
	SexNeither Sex = "Neither male or female"
	SexUnknown Sex = "Unknown"
)

// Ethnicity values carry the destination dropdown data-value.
type Ethnicity string

const (
	EthnicityLatinx            Ethnicity = "Yes, Hispanic, Latino, or Latina"
	EthnicityNotLatinx         Ethnicity = "No, not Hispanic, Latino, or Latina"
	EthnicityPreferNotToAnswer Ethnicity = "Prefer not to answer"
)

// Answer returns the source intake-form answer to "Do you identify as
// Hispanic, Latino, or Latina?" that maps to e.
func (e Ethnicity) Answer() string {
	switch e {
	case EthnicityLatinx:
		return "Yes"
	case EthnicityNotLatinx:
		return "No"
	default:
		return "Prefer not to answer"
	}
}
