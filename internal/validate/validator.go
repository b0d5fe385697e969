// Package validate turns raw source records into validated appointments.
package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gyeh/vaxup/internal/model"
	"github.com/gyeh/vaxup/internal/normalize"
)

// Validator applies Rules to raw records. It is safe for concurrent use and
// has no side effects.
type Validator struct {
	rules   Rules
	allowed map[string]bool
}

// New returns a Validator for r. Empty AllowedStates and HealthInsurance fall
// back to DefaultRules.
func New(r Rules) *Validator {
	d := DefaultRules()
	if len(r.AllowedStates) == 0 {
		r.AllowedStates = d.AllowedStates
	}
	if r.HealthInsurance == "" {
		r.HealthInsurance = d.HealthInsurance
	}
	return &Validator{rules: r, allowed: r.stateSet()}
}

// Rules returns the effective rules.
func (v *Validator) Rules() Rules { return v.rules }

// collector accumulates field failures in the order they are found.
type collector struct {
	raw      model.RawRecord
	failures []model.FieldError
}

func (c *collector) fail(field, reason string) {
	c.failures = append(c.failures, model.FieldError{Field: field, Raw: c.raw.Str(field), Reason: reason})
}

func (c *collector) required(field string) string {
	s, ok := normalize.Required(c.raw.Str(field))
	if !ok {
		c.fail(field, "required")
	}
	return s
}

func (c *collector) id() int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(c.raw.Str(model.FieldID)), 10, 64)
	if err != nil || id <= 0 {
		c.fail(model.FieldID, "must be a positive integer")
	}
	return id
}

func (c *collector) location() model.Location {
	loc, ok := model.LocationFromCalendar(c.raw.Str(model.FieldLocation))
	if !ok {
		c.fail(model.FieldLocation, "unknown vaccination site")
	}
	return loc
}

// Validate normalizes every field of r independently and applies the
// cross-field eligibility rule. Every failure is collected.
func (v *Validator) Validate(r model.RawRecord) model.Outcome {
	c := &collector{raw: r}
	var a model.Appointment

	id := c.id()
	a.ID = id

	scheduled, err := normalize.ScheduledAt(r.Str(model.FieldScheduledAt))
	if err != nil {
		c.fail(model.FieldScheduledAt, err.Error())
	}
	a.ScheduledAt = scheduled

	a.FirstName = c.required(model.FieldFirstName)
	a.LastName = c.required(model.FieldLastName)

	phone, err := normalize.Phone(r[model.FieldPhone])
	if err != nil {
		c.fail(model.FieldPhone, err.Error())
	}
	a.Phone = phone

	email, ok := normalize.Email(r.Str(model.FieldEmail))
	if !ok {
		c.fail(model.FieldEmail, "does not match the enrollment form's email pattern")
	}
	a.Email = email

	a.Location = c.location()

	dob, err := normalize.DateOfBirth(r.Str(model.FieldDateOfBirth))
	if err != nil {
		c.fail(model.FieldDateOfBirth, err.Error())
	} else if !scheduled.IsZero() && !v.eligible(dob, scheduled) {
		c.fail(model.FieldDateOfBirth, fmt.Sprintf("younger than %d on %s", v.rules.MinAgeYears, scheduled.Format("2006-01-02")))
	}
	a.DateOfBirth = dob

	a.StreetAddress = c.required(model.FieldStreetAddress)
	a.Apartment = normalize.Text(r.Str(model.FieldApartment))
	a.City = c.required(model.FieldCity)

	state := normalize.State(r.Str(model.FieldState), v.allowed)
	if !v.allowed[state] {
		c.fail(model.FieldState, fmt.Sprintf("must be one of %s", strings.Join(v.rules.AllowedStates, ", ")))
	}
	a.State = state

	zip, ok := normalize.ZipCode(r.Str(model.FieldZipCode))
	if !ok {
		c.fail(model.FieldZipCode, "must be five digits")
	}
	a.ZipCode = zip

	a.Race = normalize.Race(r.Str(model.FieldRace))
	a.Sex = normalize.Sex(r.Str(model.FieldSex))
	a.Ethnicity = normalize.Ethnicity(r.Str(model.FieldEthnicity))

	insured, ok := normalize.YesNo(r.Str(model.FieldHasHealthInsurance))
	if !ok && v.rules.HealthInsurance == InsuranceRequire {
		c.fail(model.FieldHasHealthInsurance, "answer yes or no")
	}
	a.HasHealthInsurance = insured

	a.Canceled = canceled(r)
	a.ConfirmationID = normalize.Text(r.Str(model.FieldConfirmationID))

	note, ok := model.ParseNote(r.Str(model.FieldNote))
	if !ok {
		c.fail(model.FieldNote, "unknown note")
	}
	a.Note = note

	if len(c.failures) > 0 {
		return &model.Invalid{
			ID:          id,
			ScheduledAt: r.Str(model.FieldScheduledAt),
			Location:    r.Str(model.FieldLocation),
			Canceled:    a.Canceled,
			Failures:    c.failures,
			Raw:         r,
		}
	}
	return &model.Valid{Appointment: a}
}

// ValidateAll validates records in order.
func (v *Validator) ValidateAll(records []model.RawRecord) []model.Outcome {
	out := make([]model.Outcome, len(records))
	for i, r := range records {
		out[i] = v.Validate(r)
	}
	return out
}

// eligible reports whether someone born on dob is at least MinAgeYears old on
// the appointment's calendar date. The boundary day is eligible. Dates are
// compared field by field so a Feb 29 appointment never rolls the cutoff
// into March.
func (v *Validator) eligible(dob, scheduled time.Time) bool {
	sy, sm, sd := scheduled.Date()
	by, bm, bd := dob.Date()
	cy := sy - v.rules.MinAgeYears
	switch {
	case by != cy:
		return by < cy
	case bm != sm:
		return bm < sm
	}
	return bd <= sd
}

func canceled(r model.RawRecord) bool {
	if b, ok := r[model.FieldCanceled].(bool); ok {
		return b
	}
	v, _ := normalize.YesNo(r.Str(model.FieldCanceled))
	return v
}
