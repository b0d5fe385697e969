// Package journal keeps an append-only Postgres record of enrollment
// decisions. The source system stays authoritative; the journal exists so a
// destination confirmation is never lost when the source write-back fails.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/vaxup/internal/schedule"
	embedsql "github.com/gyeh/vaxup/internal/sql"
)

// Event is one stored journal row.
type Event struct {
	EventID        int64
	RunID          uuid.UUID
	AppointmentID  int64
	Location       string
	ScheduledAt    *time.Time
	Status         schedule.Status
	Reason         string
	ConfirmationID string
	DryRun         bool
	RecordedAt     time.Time
}

// Confirmation is the latest destination confirmation for an appointment.
type Confirmation struct {
	ID         string
	RecordedAt time.Time
}

// Recorder writes report entries to the journal. It satisfies
// schedule.Recorder.
type Recorder struct {
	pool *pgxpool.Pool
}

// NewRecorder returns a Recorder on pool. Migrations must already be applied.
func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// Record inserts one row for e.
func (r *Recorder) Record(ctx context.Context, runID uuid.UUID, dryRun bool, e schedule.Entry) error {
	var scheduled *time.Time
	if !e.ScheduledAt.IsZero() {
		t := e.ScheduledAt
		scheduled = &t
	}
	reason := e.Reason
	if reason == "" && e.Err != nil {
		reason = e.Err.Error()
	}
	var id int64
	err := r.pool.QueryRow(ctx, embedsql.InsertEnrollmentEvent,
		runID.String(), e.AppointmentID, e.Location.String(), scheduled,
		string(e.Status), reason, e.ConfirmationID, dryRun,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("journal appointment %d: %w", e.AppointmentID, err)
	}
	return nil
}

// LastConfirmation returns the most recent real (not dry-run) confirmation
// recorded for appointmentID. ok is false when there is none.
func (r *Recorder) LastConfirmation(ctx context.Context, appointmentID int64) (c Confirmation, ok bool, err error) {
	err = r.pool.QueryRow(ctx, embedsql.LastConfirmation, appointmentID).Scan(&c.ID, &c.RecordedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Confirmation{}, false, nil
	}
	if err != nil {
		return Confirmation{}, false, fmt.Errorf("last confirmation for %d: %w", appointmentID, err)
	}
	return c, true, nil
}

// RunEvents returns the rows of one run in insertion order.
func (r *Recorder) RunEvents(ctx context.Context, runID uuid.UUID) ([]Event, error) {
	rows, err := r.pool.Query(ctx, embedsql.RunEvents, runID.String())
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			ev     Event
			run    string
			status string
		)
		if err := rows.Scan(&ev.EventID, &run, &ev.AppointmentID, &ev.Location, &ev.ScheduledAt,
			&status, &ev.Reason, &ev.ConfirmationID, &ev.DryRun, &ev.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan run %s: %w", runID, err)
		}
		ev.RunID, err = uuid.Parse(run)
		if err != nil {
			return nil, fmt.Errorf("scan run %s: %w", runID, err)
		}
		ev.Status = schedule.Status(status)
		out = append(out, ev)
	}
	return out, rows.Err()
}
