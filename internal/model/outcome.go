package model

import (
	"fmt"
	"strings"
)

// FieldError is a single field that failed normalization or a cross-field
// rule. It is always repairable by editing the source record.
type FieldError struct {
	Field  string
	Raw    string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Reason, e.Raw)
}

// Outcome is the result of validating one RawRecord: either *Valid or
// *Invalid.
type Outcome interface {
	AppointmentID() int64
	outcome()
}

// Valid wraps a fully validated appointment.
type Valid struct {
	Appointment Appointment
}

// Invalid carries enough context to report and repair a record along with
// every field failure in field order.
type Invalid struct {
	ID          int64
	ScheduledAt string
	Location    string
	Canceled    bool
	Failures    []FieldError
	Raw         RawRecord
}

func (v *Valid) AppointmentID() int64   { return v.Appointment.ID }
func (i *Invalid) AppointmentID() int64 { return i.ID }

func (*Valid) outcome()   {}
func (*Invalid) outcome() {}

// Fields returns the names of the failing fields.
func (i *Invalid) Fields() []string {
	out := make([]string, len(i.Failures))
	for k, f := range i.Failures {
		out[k] = f.Field
	}
	return out
}

// Failed reports whether field is among the failures.
func (i *Invalid) Failed(field string) bool {
	for _, f := range i.Failures {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (i *Invalid) String() string {
	return strings.Join(i.Fields(), ",")
}
