package acuity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gyeh/vaxup/internal/model"
)

// DefaultFormID is the "CHN Vaccine Scheduling Intake Form".
const DefaultFormID int64 = 1717791

// defaultFields maps intake field ids to canonical names. Names starting with
// "_" are on the form but unused; they are kept so CheckForms can tell drift
// from known questions.
var defaultFields = map[int64]string{
	9519119: model.FieldDateOfBirth,
	9519125: model.FieldStreetAddress,
	9519126: model.FieldApartment,
	9519128: model.FieldCity,
	9519129: model.FieldState,
	9519130: model.FieldZipCode,
	9519140: model.FieldRace,
	9519174: model.FieldEthnicity,
	9519161: model.FieldSex,
	9519166: model.FieldHasHealthInsurance,
	9765581: model.FieldConfirmationID,
	9765582: model.FieldNote,
	9517774: "_eligibility",
	9517872: "_certification",
	9517897: "_allergic_reaction",
	9519120: "_age",
	9605979: "_link",
	9605968: "_link",
}

// appointmentAttrs are canonical names stored on the appointment itself
// rather than on the intake form, keyed to their JSON attribute.
var appointmentAttrs = map[string]string{
	model.FieldFirstName: "firstName",
	model.FieldLastName:  "lastName",
	model.FieldEmail:     "email",
	model.FieldPhone:     "phone",
}

// Schema translates between Acuity identifiers and canonical field names. It
// is the only place that knows Acuity field ids.
type Schema struct {
	FormID int64
	Fields map[int64]string
}

// DefaultSchema returns the production form mapping.
func DefaultSchema() Schema {
	fields := make(map[int64]string, len(defaultFields))
	for k, v := range defaultFields {
		fields[k] = v
	}
	return Schema{FormID: DefaultFormID, Fields: fields}
}

// WithOverrides returns a copy of s with formID (when non-zero) replaced and
// each overridden canonical name moved to its new field id.
func (s Schema) WithOverrides(formID int64, fields map[int64]string) Schema {
	out := Schema{FormID: s.FormID, Fields: make(map[int64]string, len(s.Fields)+len(fields))}
	if formID != 0 {
		out.FormID = formID
	}
	moved := make(map[string]bool, len(fields))
	for _, v := range fields {
		moved[v] = true
	}
	for k, v := range s.Fields {
		if moved[v] && !strings.HasPrefix(v, "_") {
			continue
		}
		out.Fields[k] = v
	}
	for k, v := range fields {
		out.Fields[k] = v
	}
	return out
}

// FieldID returns the intake field id for a canonical name.
func (s Schema) FieldID(name string) (int64, bool) {
	if strings.HasPrefix(name, "_") {
		return 0, false
	}
	for id, n := range s.Fields {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// Editable reports whether name can be written back with EditAppointment.
func (s Schema) Editable(name string) bool {
	if _, ok := appointmentAttrs[name]; ok {
		return true
	}
	_, ok := s.FieldID(name)
	return ok
}

// Record converts an Acuity appointment into a canonical RawRecord. The
// second result is false when the appointment does not carry the configured
// intake form; the record then holds only appointment attributes.
func (s Schema) Record(a Appointment) (model.RawRecord, bool) {
	r := model.RawRecord{
		model.FieldID:          a.ID,
		model.FieldFirstName:   a.FirstName,
		model.FieldLastName:    a.LastName,
		model.FieldEmail:       a.Email,
		model.FieldPhone:       a.Phone,
		model.FieldScheduledAt: a.Datetime,
		model.FieldLocation:    a.Calendar,
		model.FieldCanceled:    a.Canceled,
	}
	for _, f := range a.Forms {
		if f.ID != s.FormID {
			continue
		}
		for _, v := range f.Values {
			name, ok := s.Fields[v.FieldID]
			if !ok || strings.HasPrefix(name, "_") {
				continue
			}
			r[name] = v.Value
		}
		return r, true
	}
	return r, false
}

// update splits canonical fields into appointment attributes and intake
// field updates. Unknown or read-only names are an error.
func (s Schema) update(fields map[string]string) (map[string]any, error) {
	body := make(map[string]any)
	var updates []fieldUpdate
	for name, value := range fields {
		if attr, ok := appointmentAttrs[name]; ok {
			body[attr] = value
			continue
		}
		id, ok := s.FieldID(name)
		if !ok {
			return nil, fmt.Errorf("field %q cannot be edited", name)
		}
		updates = append(updates, fieldUpdate{ID: id, Value: value})
	}
	if len(updates) > 0 {
		sort.Slice(updates, func(i, j int) bool { return updates[i].ID < updates[j].ID })
		body["fields"] = updates
	}
	return body, nil
}

// CheckForms verifies the configured intake form exists and every field on it
// is known to the schema.
func (s Schema) CheckForms(forms []IntakeForm) error {
	for _, f := range forms {
		if f.ID != s.FormID {
			continue
		}
		var unknown []string
		for _, field := range f.Fields {
			if _, ok := s.Fields[field.ID]; !ok {
				unknown = append(unknown, fmt.Sprintf("%d (%s)", field.ID, field.Name))
			}
		}
		if len(unknown) > 0 {
			return fmt.Errorf("intake form %d has unmapped fields: %s", s.FormID, strings.Join(unknown, ", "))
		}
		return nil
	}
	return fmt.Errorf("intake form %d not found", s.FormID)
}
