package enroller

import "github.com/gyeh/vaxup/internal/model"

// Enrollment is the destination form payload for one applicant. String
// values are the literal option values the form expects.
type Enrollment struct {
	AppointmentID int64  `json:"appointmentId"`
	Date          string `json:"date"` // MM/DD/YYYY
	Time          string `json:"time"` // hh:mm AM
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	DateOfBirth   string `json:"dateOfBirth"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile,omitempty"`
	Street        string `json:"street"`
	AptNo         string `json:"aptNo,omitempty"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
	Ethnicity     string `json:"ethnicity"`
	Sex           string `json:"sex"`
	Race          string `json:"race"`
	HaveInsurance bool   `json:"haveInsurance"`
	DryRun        bool   `json:"dryRun"`
}

// NewEnrollment builds the form payload for a.
func NewEnrollment(a *model.Appointment, dryRun bool) Enrollment {
	e := Enrollment{
		AppointmentID: a.ID,
		Date:          a.DateStr(),
		Time:          a.TimeStr(),
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		DateOfBirth:   a.DobStr(),
		Email:         a.Email,
		Street:        a.StreetAddress,
		City:          a.City,
		State:         a.State,
		Zip:           a.ZipCode,
		Ethnicity:     string(a.Ethnicity),
		Sex:           string(a.Sex),
		Race:          string(a.Race),
		HaveInsurance: a.HasHealthInsurance,
		DryRun:        dryRun,
	}
	if a.Phone != nil {
		e.Mobile = *a.Phone
	}
	if a.Apartment != nil {
		e.AptNo = *a.Apartment
	}
	return e
}

type sessionRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	LocationID string `json:"locationId"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
	Error     string `json:"error,omitempty"`
}

// SubmitResponse is the sidecar's answer to an enrollment.
type SubmitResponse struct {
	Success        bool   `json:"success"`
	ConfirmationID string `json:"confirmationId"`
	Stage          string `json:"stage,omitempty"` // form step that failed
	Error          string `json:"error,omitempty"`
}

type cancelRequest struct {
	sessionRequest
	ConfirmationID string `json:"confirmationId"`
}

type cancelResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the sidecar health check.
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	BrowserReady bool   `json:"browserReady"`
}
