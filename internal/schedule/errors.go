package schedule

import (
	"fmt"
	"time"

	"github.com/gyeh/vaxup/internal/model"
)

// SubmissionError means the destination did not complete an enrollment. The
// batch continues past it.
type SubmissionError struct {
	AppointmentID int64
	Location      model.Location
	ScheduledAt   time.Time
	Err           error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit %d (%s %s): %s", e.AppointmentID, e.Location, e.ScheduledAt.Format("01/02/2006 03:04 PM"), e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// WriteBackError means the destination accepted an action but the source
// system was not updated to match. The two systems now disagree and an
// operator has to reconcile them by hand.
type WriteBackError struct {
	AppointmentID  int64
	ConfirmationID string
	Err            error
}

func (e *WriteBackError) Error() string {
	return fmt.Sprintf("write back %d (confirmation %q): %s", e.AppointmentID, e.ConfirmationID, e.Err)
}

func (e *WriteBackError) Unwrap() error {
	return e.Err
}
