package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/gyeh/vaxup/internal/model"
)

// Status is the outcome of one appointment in an enrollment run.
type Status string

const (
	StatusScheduled       Status = "scheduled"
	StatusDryRun          Status = "dry_run"
	StatusSkipped         Status = "skipped"
	StatusFailed          Status = "failed"
	StatusWriteBackFailed Status = "write_back_failed"
)

// Entry records what happened to one appointment.
type Entry struct {
	AppointmentID  int64
	Location       model.Location
	ScheduledAt    time.Time
	Status         Status
	Reason         string
	ConfirmationID string
	Err            error
}

// Report is the result of one Enroll call.
type Report struct {
	RunID   uuid.UUID
	DryRun  bool
	Entries []Entry
	Started time.Time
	Elapsed time.Duration
}

// Count returns the number of entries with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == s {
			n++
		}
	}
	return n
}

// WriteBackFailures returns entries where the destination succeeded but the
// source was not updated.
func (r *Report) WriteBackFailures() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Status == StatusWriteBackFailed {
			out = append(out, e)
		}
	}
	return out
}

// OK reports whether nothing failed.
func (r *Report) OK() bool {
	return r.Count(StatusFailed) == 0 && r.Count(StatusWriteBackFailed) == 0
}
