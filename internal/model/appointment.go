package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Canonical field names. Every external field identifier is translated to one
// of these before validation.
const (
	FieldID                 = "id"
	FieldScheduledAt        = "scheduled_at"
	FieldFirstName          = "first_name"
	FieldLastName           = "last_name"
	FieldPhone              = "phone"
	FieldEmail              = "email"
	FieldLocation           = "location"
	FieldDateOfBirth        = "dob"
	FieldStreetAddress      = "street_address"
	FieldApartment          = "apartment"
	FieldCity               = "city"
	FieldState              = "state"
	FieldZipCode            = "zip_code"
	FieldRace               = "race"
	FieldSex                = "sex"
	FieldEthnicity          = "ethnicity"
	FieldHasHealthInsurance = "has_health_insurance"
	FieldCanceled           = "canceled"
	FieldConfirmationID     = "confirmation_id"
	FieldNote               = "note"
)

// Layouts shared by the normalizers and by Appointment.Record.
const (
	DateLayout      = "01/02/2006"
	TimeLayout      = "03:04 PM"
	LocalTimeLayout = "2006-01-02T15:04:05"
)

// RawRecord is one appointment as received from the source system, keyed by
// canonical field name. Values are strings or JSON primitives.
type RawRecord map[string]any

// Str returns the value at key rendered as a string. Missing and nil values
// are "".
func (r RawRecord) Str(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Clone returns a shallow copy of r.
func (r RawRecord) Clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Appointment is a validated applicant ready to be enrolled at the
// destination. It is rebuilt on every validation pass and never stored.
type Appointment struct {
	ID                 int64
	ScheduledAt        time.Time // wall clock, offset stripped, UTC location
	FirstName          string
	LastName           string
	Phone              *string // exactly 10 digits when set
	Email              string
	Location           Location
	DateOfBirth        time.Time
	StreetAddress      string
	Apartment          *string
	City               string
	State              string
	ZipCode            string
	Race               Race
	Sex                Sex
	Ethnicity          Ethnicity
	HasHealthInsurance bool
	Canceled           bool
	ConfirmationID     *string
	Note               Note
}

// DateStr is the appointment date as the destination date picker shows it.
func (a *Appointment) DateStr() string { return a.ScheduledAt.Format(DateLayout) }

// TimeStr is the appointment time slot label, e.g. "09:30 AM".
func (a *Appointment) TimeStr() string { return a.ScheduledAt.Format(TimeLayout) }

// DobStr is the date of birth as MM/DD/YYYY.
func (a *Appointment) DobStr() string { return a.DateOfBirth.Format(DateLayout) }

// Scheduled reports whether the destination has already accepted a.
func (a *Appointment) Scheduled() bool { return a.ConfirmationID != nil }

// Record renders a back into canonical source encoding. Validating the
// result yields an Appointment equal to a.
func (a *Appointment) Record() RawRecord {
	r := RawRecord{
		FieldID:                 a.ID,
		FieldScheduledAt:        a.ScheduledAt.Format(LocalTimeLayout),
		FieldFirstName:          a.FirstName,
		FieldLastName:           a.LastName,
		FieldEmail:              a.Email,
		FieldLocation:           a.Location.Calendar(),
		FieldDateOfBirth:        a.DobStr(),
		FieldStreetAddress:      a.StreetAddress,
		FieldCity:               a.City,
		FieldState:              a.State,
		FieldZipCode:            a.ZipCode,
		FieldRace:               string(a.Race),
		FieldSex:                string(a.Sex),
		FieldEthnicity:          a.Ethnicity.Answer(),
		FieldHasHealthInsurance: yesNo(a.HasHealthInsurance),
		FieldCanceled:           a.Canceled,
		FieldNote:               string(a.Note),
	}
	if a.Phone != nil {
		r[FieldPhone] = *a.Phone
	}
	if a.Apartment != nil {
		r[FieldApartment] = *a.Apartment
	}
	if a.ConfirmationID != nil {
		r[FieldConfirmationID] = *a.ConfirmationID
	}
	return r
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
