package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gyeh/vaxup/internal/model"
)

// Canceler removes an enrollment from the destination.
type Canceler interface {
	Cancel(ctx context.Context, a *model.Appointment) error
}

// ErrNotScheduled is returned when unenrolling an appointment with no
// confirmation id.
var ErrNotScheduled = errors.New("appointment is not scheduled at the destination")

// ErrCanceled is returned for any destination write against an appointment
// canceled at the source.
var ErrCanceled = errors.New("appointment is canceled at the source")

// Unenroll cancels a at the destination and then clears its confirmation id
// at the source. A failure of the second step is a *WriteBackError.
func Unenroll(ctx context.Context, c Canceler, src Source, log zerolog.Logger, a *model.Appointment) error {
	switch {
	case a.Canceled:
		return ErrCanceled
	case !a.Scheduled():
		return ErrNotScheduled
	}
	confirmation := *a.ConfirmationID

	if err := c.Cancel(ctx, a); err != nil {
		return fmt.Errorf("cancel %d at destination: %w", a.ID, err)
	}
	wctx, cancel := detached(ctx)
	defer cancel()
	if _, err := src.EditAppointment(wctx, a.ID, map[string]string{model.FieldConfirmationID: ""}); err != nil {
		log.Error().Err(err).Int64("appointment_id", a.ID).Str("confirmation_id", confirmation).
			Msg("DESTINATION CANCELED BUT SOURCE NOT UPDATED")
		return &WriteBackError{AppointmentID: a.ID, ConfirmationID: confirmation, Err: err}
	}
	log.Info().Int64("appointment_id", a.ID).Str("confirmation_id", confirmation).Msg("appointment unenrolled")
	return nil
}
