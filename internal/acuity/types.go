package acuity

// Appointment is the subset of the Acuity appointment resource vaxup reads.
type Appointment struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Datetime   string `json:"datetime"`
	Calendar   string `json:"calendar"`
	CalendarID int64  `json:"calendarID"`
	Canceled   bool   `json:"canceled"`
	Forms      []Form `json:"forms"`
}

// Form is one intake form attached to an appointment.
type Form struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Values []FormValue `json:"values"`
}

// FormValue is a single intake answer.
type FormValue struct {
	ID      int64  `json:"id"`
	FieldID int64  `json:"fieldID"`
	Name    string `json:"name"`
	Value   string `json:"value"`
}

// IntakeForm is a form definition from GET /forms.
type IntakeForm struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Fields []FormField `json:"fields"`
}

// FormField describes one question on an intake form.
type FormField struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Options  any    `json:"options"`
}

// fieldUpdate is an entry of the "fields" array in PUT /appointments/{id}.
type fieldUpdate struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}
