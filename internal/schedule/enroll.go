// Package schedule enrolls validated appointments at the destination and
// records confirmations back at the source.
package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/vaxup/internal/model"
)

// Source is the write side of the source system.
type Source interface {
	EditAppointment(ctx context.Context, id int64, fields map[string]string) (model.RawRecord, error)
}

// Session is one authenticated destination session bound to a location.
type Session interface {
	Submit(ctx context.Context, a *model.Appointment, dryRun bool) (string, error)
	Close(ctx context.Context) error
}

// Destination opens destination sessions.
type Destination interface {
	OpenSession(ctx context.Context, loc model.Location) (Session, error)
}

// writeBackTimeout bounds source and journal writes that must finish after
// the run context is canceled.
const writeBackTimeout = 30 * time.Second

// detached returns a context that survives cancellation of ctx. Writes that
// follow an accepted enrollment run under it.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), writeBackTimeout)
}

// Recorder persists report entries as they are decided.
type Recorder interface {
	Record(ctx context.Context, runID uuid.UUID, dryRun bool, e Entry) error
}

// Orchestrator runs enrollment. Submissions are strictly sequential.
type Orchestrator struct {
	dest     Destination
	src      Source
	recorder Recorder
	log      zerolog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder journals every entry.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// New returns an Orchestrator writing confirmations to src.
func New(dest Destination, src Source, log zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{dest: dest, src: src, log: log}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Enroll submits every actionable appointment, one location group at a time.
// A failure of one appointment never stops the others. With dryRun the
// destination path is exercised but nothing is written to the source.
func (o *Orchestrator) Enroll(ctx context.Context, appts []model.Appointment, dryRun bool) *Report {
	rep := &Report{RunID: uuid.New(), DryRun: dryRun, Started: time.Now()}
	log := o.log.With().Str("run_id", rep.RunID.String()).Bool("dry_run", dryRun).Logger()

	skipped, groups := partition(appts)
	for _, e := range skipped {
		log.Info().Int64("appointment_id", e.AppointmentID).Str("reason", e.Reason).Msg("skipping appointment")
		o.add(ctx, rep, e)
	}

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			o.interrupted(ctx, rep, g.appointments, err)
			continue
		}
		o.enrollGroup(ctx, log, rep, g)
	}

	rep.Elapsed = time.Since(rep.Started)
	log.Info().
		Int("scheduled", rep.Count(StatusScheduled)).
		Int("dry_run", rep.Count(StatusDryRun)).
		Int("skipped", rep.Count(StatusSkipped)).
		Int("failed", rep.Count(StatusFailed)).
		Int("write_back_failed", rep.Count(StatusWriteBackFailed)).
		Str("duration", rep.Elapsed.String()).
		Msg("enrollment complete")
	return rep
}

func (o *Orchestrator) enrollGroup(ctx context.Context, log zerolog.Logger, rep *Report, g group) {
	log = log.With().Str("location", g.location.String()).Logger()
	log.Info().Int("appointments", len(g.appointments)).Msg("opening session")

	sess, err := o.dest.OpenSession(ctx, g.location)
	if err != nil {
		log.Error().Err(err).Msg("could not open session, failing location group")
		for _, a := range g.appointments {
			e := entryFor(a, StatusFailed)
			e.Err = &SubmissionError{AppointmentID: a.ID, Location: a.Location, ScheduledAt: a.ScheduledAt, Err: err}
			e.Reason = "session: " + err.Error()
			o.add(ctx, rep, e)
		}
		return
	}
	defer func() {
		cctx, cancel := detached(ctx)
		defer cancel()
		if err := sess.Close(cctx); err != nil {
			log.Warn().Err(err).Msg("session close failed")
		}
	}()

	for i, a := range g.appointments {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Int("remaining", len(g.appointments)-i).Msg("run interrupted, not submitting remaining appointments")
			o.interrupted(ctx, rep, g.appointments[i:], err)
			return
		}
		o.add(ctx, rep, o.enrollOne(ctx, log, sess, a, rep.DryRun))
	}
}

// interrupted fails appts without submitting them.
func (o *Orchestrator) interrupted(ctx context.Context, rep *Report, appts []*model.Appointment, cause error) {
	for _, a := range appts {
		e := entryFor(a, StatusFailed)
		e.Err = &SubmissionError{AppointmentID: a.ID, Location: a.Location, ScheduledAt: a.ScheduledAt, Err: cause}
		e.Reason = "interrupted before submission"
		o.add(ctx, rep, e)
	}
}

func (o *Orchestrator) enrollOne(ctx context.Context, log zerolog.Logger, sess Session, a *model.Appointment, dryRun bool) Entry {
	log = log.With().Int64("appointment_id", a.ID).Str("scheduled_at", a.DateStr()+" "+a.TimeStr()).Logger()

	confirmation, err := sess.Submit(ctx, a, dryRun)
	if err != nil {
		e := entryFor(a, StatusFailed)
		e.Err = &SubmissionError{AppointmentID: a.ID, Location: a.Location, ScheduledAt: a.ScheduledAt, Err: err}
		e.Reason = err.Error()
		log.Error().Err(err).Msg("submission failed")
		return e
	}

	if dryRun {
		e := entryFor(a, StatusDryRun)
		e.ConfirmationID = confirmation
		log.Info().Msg("dry run submission completed")
		return e
	}

	e := entryFor(a, StatusScheduled)
	e.ConfirmationID = confirmation
	wctx, cancel := detached(ctx)
	defer cancel()
	if _, err := o.src.EditAppointment(wctx, a.ID, map[string]string{model.FieldConfirmationID: confirmation}); err != nil {
		e.Status = StatusWriteBackFailed
		e.Err = &WriteBackError{AppointmentID: a.ID, ConfirmationID: confirmation, Err: err}
		e.Reason = "destination scheduled, source not updated: " + err.Error()
		log.Error().Err(err).Str("confirmation_id", confirmation).Msg("DESTINATION SCHEDULED BUT SOURCE NOT UPDATED")
		return e
	}
	log.Info().Str("confirmation_id", confirmation).Msg("appointment scheduled")
	return e
}

func (o *Orchestrator) add(ctx context.Context, rep *Report, e Entry) {
	rep.Entries = append(rep.Entries, e)
	if o.recorder == nil {
		return
	}
	rctx, cancel := detached(ctx)
	defer cancel()
	if err := o.recorder.Record(rctx, rep.RunID, rep.DryRun, e); err != nil {
		o.log.Warn().Err(err).Int64("appointment_id", e.AppointmentID).Msg("journal write failed")
	}
}
