package model

import "strings"

// Note tags a record that is in a known terminal state at the source. Any
// note other than NoteNone suppresses enrollment.
type Note string

const (
	NoteNone             Note = "none"
	NoteSecondDose       Note = "second_dose"
	NoteNoSlot           Note = "no_slot"
	NoteAlreadyScheduled Note = "already_scheduled"
	NoteIneligible       Note = "ineligible"
)

var noteReasons = map[Note]string{
	NoteNone:             "",
	NoteSecondDose:       "second dose already scheduled",
	NoteNoSlot:           "no slot available",
	NoteAlreadyScheduled: "already scheduled",
	NoteIneligible:       "not eligible",
}

// Reason is the human-readable skip reason for n.
func (n Note) Reason() string {
	return noteReasons[n]
}

// ParseNote resolves a stored note code. Empty input is NoteNone.
func ParseNote(v string) (Note, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return NoteNone, true
	}
	n := Note(v)
	if _, ok := noteReasons[n]; !ok {
		return "", false
	}
	return n, true
}
