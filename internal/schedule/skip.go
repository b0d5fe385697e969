package schedule

import "github.com/gyeh/vaxup/internal/model"

// Skip reasons.
const (
	ReasonCanceled         = "canceled"
	ReasonAlreadyScheduled = "already scheduled"
)

// SkipReason reports why a must not be submitted. Checks run in order and the
// first match wins: canceled, then confirmed, then a terminal note.
func SkipReason(a *model.Appointment) (string, bool) {
	if a.Canceled {
		return ReasonCanceled, true
	}
	if a.Scheduled() {
		return ReasonAlreadyScheduled, true
	}
	if a.Note != "" && a.Note != model.NoteNone {
		return a.Note.Reason(), true
	}
	return "", false
}

// group is the actionable appointments at one location.
type group struct {
	location     model.Location
	appointments []*model.Appointment
}

// partition splits appts into skip entries and per-location groups in
// canonical location order. Order within a group follows the input.
func partition(appts []model.Appointment) ([]Entry, []group) {
	var skipped []Entry
	byLoc := make(map[model.Location][]*model.Appointment)
	for i := range appts {
		a := &appts[i]
		if reason, skip := SkipReason(a); skip {
			e := entryFor(a, StatusSkipped)
			e.Reason = reason
			if a.ConfirmationID != nil {
				e.ConfirmationID = *a.ConfirmationID
			}
			skipped = append(skipped, e)
			continue
		}
		byLoc[a.Location] = append(byLoc[a.Location], a)
	}

	var groups []group
	for _, s := range model.AllSites {
		if list := byLoc[s.Location]; len(list) > 0 {
			groups = append(groups, group{location: s.Location, appointments: list})
		}
	}
	return skipped, groups
}

func entryFor(a *model.Appointment, s Status) Entry {
	return Entry{AppointmentID: a.ID, Location: a.Location, ScheduledAt: a.ScheduledAt, Status: s}
}
