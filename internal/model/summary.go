package model

// CheckSummary counts validation outcomes for a single run of "check".
type CheckSummary struct {
	Date     string
	Total    int
	Valid    int
	Invalid  int
	Canceled int
	Repaired int
}

// Add tallies one outcome. Canceled records are counted separately and never
// as invalid.
func (s *CheckSummary) Add(o Outcome) {
	s.Total++
	switch o := o.(type) {
	case *Valid:
		if o.Appointment.Canceled {
			s.Canceled++
			return
		}
		s.Valid++
	case *Invalid:
		if o.Canceled {
			s.Canceled++
			return
		}
		s.Invalid++
	}
}
