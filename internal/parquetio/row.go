package parquetio

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gyeh/vaxup/internal/model"
	"github.com/gyeh/vaxup/internal/schedule"
)

// Check statuses. Enrollment rows use schedule.Status values.
const (
	StatusValid    = "valid"
	StatusInvalid  = "invalid"
	StatusCanceled = "canceled"
)

// ReportRow is one exported record from a check or enroll run.
type ReportRow struct {
	RunID          string  `parquet:"run_id"`
	AppointmentID  int64   `parquet:"appointment_id"`
	Location       string  `parquet:"location"`
	ScheduledAt    string  `parquet:"scheduled_at"`
	Status         string  `parquet:"status"`
	Reason         *string `parquet:"reason,optional"`
	Fields         *string `parquet:"fields,optional"` // comma-joined failing field names
	ConfirmationID *string `parquet:"confirmation_id,optional"`
}

// CheckRows converts validation outcomes into rows.
func CheckRows(runID uuid.UUID, outcomes []model.Outcome) []ReportRow {
	rows := make([]ReportRow, 0, len(outcomes))
	for _, o := range outcomes {
		row := ReportRow{RunID: runID.String(), AppointmentID: o.AppointmentID()}
		switch v := o.(type) {
		case *model.Valid:
			a := v.Appointment
			row.Location = a.Location.String()
			row.ScheduledAt = a.ScheduledAt.Format(model.LocalTimeLayout)
			row.Status = StatusValid
			if a.Canceled {
				row.Status = StatusCanceled
			}
			row.ConfirmationID = a.ConfirmationID
			if a.Note != model.NoteNone {
				row.Reason = optional(a.Note.Reason())
			}
		case *model.Invalid:
			row.Location = v.Location
			row.ScheduledAt = v.ScheduledAt
			row.Status = StatusInvalid
			if v.Canceled {
				row.Status = StatusCanceled
			}
			row.Fields = optional(v.String())
			reasons := make([]string, len(v.Failures))
			for i, f := range v.Failures {
				reasons[i] = f.Field + ": " + f.Reason
			}
			row.Reason = optional(strings.Join(reasons, "; "))
		}
		rows = append(rows, row)
	}
	return rows
}

// EnrollRows converts an enrollment report into rows.
func EnrollRows(rep *schedule.Report) []ReportRow {
	rows := make([]ReportRow, 0, len(rep.Entries))
	for _, e := range rep.Entries {
		row := ReportRow{
			RunID:          rep.RunID.String(),
			AppointmentID:  e.AppointmentID,
			Location:       e.Location.String(),
			Status:         string(e.Status),
			Reason:         optional(e.Reason),
			ConfirmationID: optional(e.ConfirmationID),
		}
		if !e.ScheduledAt.IsZero() {
			row.ScheduledAt = e.ScheduledAt.Format(model.LocalTimeLayout)
		}
		rows = append(rows, row)
	}
	return rows
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
