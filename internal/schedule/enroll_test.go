package schedule

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/vaxup/internal/model"
)

type edit struct {
	id     int64
	fields map[string]string
}

type fakeSource struct {
	edits  []edit
	failOn map[int64]bool
}

func (s *fakeSource) EditAppointment(ctx context.Context, id int64, fields map[string]string) (model.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.failOn[id] {
		return nil, errors.New("acuity API returned 503")
	}
	s.edits = append(s.edits, edit{id: id, fields: fields})
	return model.RawRecord{model.FieldID: id}, nil
}

type fakeDestination struct {
	opened    []model.Location
	closed    []model.Location
	submitted []int64
	failOpen  map[model.Location]bool
	failOn    map[int64]bool
	onSubmit  func(id int64)
}

func (d *fakeDestination) OpenSession(_ context.Context, loc model.Location) (Session, error) {
	if d.failOpen[loc] {
		return nil, errors.New("login failed")
	}
	d.opened = append(d.opened, loc)
	return &fakeSession{dest: d, loc: loc}, nil
}

type fakeSession struct {
	dest *fakeDestination
	loc  model.Location
}

func (s *fakeSession) Submit(_ context.Context, a *model.Appointment, dryRun bool) (string, error) {
	if a.Location != s.loc {
		return "", fmt.Errorf("appointment %d submitted to %s session", a.ID, s.loc)
	}
	s.dest.submitted = append(s.dest.submitted, a.ID)
	if s.dest.onSubmit != nil {
		s.dest.onSubmit(a.ID)
	}
	if s.dest.failOn[a.ID] {
		return "", errors.New("timed out waiting for time slot")
	}
	if dryRun {
		return "", nil
	}
	return fmt.Sprintf("C-%d", a.ID), nil
}

func (s *fakeSession) Close(context.Context) error {
	s.dest.closed = append(s.dest.closed, s.loc)
	return nil
}

type fakeRecorder struct {
	entries []Entry
}

func (r *fakeRecorder) Record(ctx context.Context, _ uuid.UUID, _ bool, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.entries = append(r.entries, e)
	return nil
}

func appt(id int64, loc model.Location) model.Appointment {
	return model.Appointment{
		ID:          id,
		Location:    loc,
		ScheduledAt: time.Date(2021, 4, 22, 9, int(id%60), 0, 0, time.UTC),
		Note:        model.NoteNone,
	}
}

func strPtr(s string) *string { return &s }

func entryByID(t *testing.T, rep *Report, id int64) Entry {
	t.Helper()
	for _, e := range rep.Entries {
		if e.AppointmentID == id {
			return e
		}
	}
	t.Fatalf("no entry for appointment %d", id)
	return Entry{}
}

func TestEnroll_FailureDoesNotAbortBatch(t *testing.T) {
	dest := &fakeDestination{failOn: map[int64]bool{2: true}}
	src := &fakeSource{}
	o := New(dest, src, zerolog.Nop())

	rep := o.Enroll(context.Background(), []model.Appointment{appt(1, model.Harlem), appt(2, model.Harlem), appt(3, model.Harlem)}, false)

	if !reflect.DeepEqual(dest.submitted, []int64{1, 2, 3}) {
		t.Fatalf("submitted = %v, want [1 2 3]", dest.submitted)
	}
	if len(rep.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(rep.Entries))
	}
	if e := entryByID(t, rep, 2); e.Status != StatusFailed {
		t.Errorf("record 2 status = %s", e.Status)
	} else {
		var se *SubmissionError
		if !errors.As(e.Err, &se) || se.AppointmentID != 2 || se.Location != model.Harlem {
			t.Errorf("record 2 err = %v", e.Err)
		}
	}
	for _, id := range []int64{1, 3} {
		if e := entryByID(t, rep, id); e.Status != StatusScheduled || e.ConfirmationID != fmt.Sprintf("C-%d", id) {
			t.Errorf("record %d = %+v", id, e)
		}
	}
	if len(src.edits) != 2 {
		t.Fatalf("edits = %d, want 2", len(src.edits))
	}
	if src.edits[0].id != 1 || src.edits[0].fields[model.FieldConfirmationID] != "C-1" {
		t.Errorf("first edit = %+v", src.edits[0])
	}
	if rep.OK() {
		t.Error("report should not be OK")
	}
}

func TestEnroll_DryRunDoesNotWriteBack(t *testing.T) {
	dest := &fakeDestination{}
	src := &fakeSource{}
	rep := New(dest, src, zerolog.Nop()).Enroll(context.Background(), []model.Appointment{appt(1, model.EastNY), appt(2, model.Harlem)}, true)

	if len(dest.submitted) != 2 {
		t.Fatalf("submitted = %v, destination path must still run", dest.submitted)
	}
	if len(src.edits) != 0 {
		t.Fatalf("dry run produced %d source edits", len(src.edits))
	}
	if rep.Count(StatusDryRun) != 2 || !rep.DryRun {
		t.Errorf("dry run count = %d", rep.Count(StatusDryRun))
	}
}

func TestEnroll_SkipPolicy(t *testing.T) {
	canceledAndConfirmed := appt(1, model.Harlem)
	canceledAndConfirmed.Canceled = true
	canceledAndConfirmed.ConfirmationID = strPtr("C-9")

	confirmed := appt(2, model.Harlem)
	confirmed.ConfirmationID = strPtr("C-2")
	confirmed.Note = model.NoteNoSlot

	noted := appt(3, model.Harlem)
	noted.Note = model.NoteSecondDose

	dest := &fakeDestination{}
	src := &fakeSource{}
	rep := New(dest, src, zerolog.Nop()).Enroll(context.Background(), []model.Appointment{canceledAndConfirmed, confirmed, noted, appt(4, model.Harlem)}, false)

	want := map[int64]string{1: ReasonCanceled, 2: ReasonAlreadyScheduled, 3: "second dose already scheduled"}
	for id, reason := range want {
		e := entryByID(t, rep, id)
		if e.Status != StatusSkipped || e.Reason != reason {
			t.Errorf("record %d = %s %q, want skipped %q", id, e.Status, e.Reason, reason)
		}
	}
	if !reflect.DeepEqual(dest.submitted, []int64{4}) {
		t.Errorf("submitted = %v, want [4]", dest.submitted)
	}
	if e := entryByID(t, rep, 2); e.ConfirmationID != "C-2" {
		t.Errorf("skipped entry lost confirmation id: %+v", e)
	}
}

func TestEnroll_GroupsByLocation(t *testing.T) {
	dest := &fakeDestination{}
	appts := []model.Appointment{
		appt(1, model.SouthJamaica),
		appt(2, model.EastNY),
		appt(3, model.SouthJamaica),
		appt(4, model.Harlem),
		appt(5, model.EastNY),
	}
	New(dest, &fakeSource{}, zerolog.Nop()).Enroll(context.Background(), appts, false)

	wantLocs := []model.Location{model.EastNY, model.Harlem, model.SouthJamaica}
	if !reflect.DeepEqual(dest.opened, wantLocs) {
		t.Errorf("opened = %v, want %v", dest.opened, wantLocs)
	}
	if !reflect.DeepEqual(dest.closed, wantLocs) {
		t.Errorf("closed = %v, want %v", dest.closed, wantLocs)
	}
	if !reflect.DeepEqual(dest.submitted, []int64{2, 5, 4, 1, 3}) {
		t.Errorf("submitted = %v", dest.submitted)
	}
}

func TestEnroll_SessionFailureFailsOnlyItsGroup(t *testing.T) {
	dest := &fakeDestination{failOpen: map[model.Location]bool{model.EastNY: true}}
	rep := New(dest, &fakeSource{}, zerolog.Nop()).Enroll(context.Background(), []model.Appointment{appt(1, model.EastNY), appt(2, model.Harlem)}, false)

	if e := entryByID(t, rep, 1); e.Status != StatusFailed {
		t.Errorf("record 1 status = %s", e.Status)
	}
	if e := entryByID(t, rep, 2); e.Status != StatusScheduled {
		t.Errorf("record 2 status = %s", e.Status)
	}
}

func TestEnroll_WriteBackFailure(t *testing.T) {
	src := &fakeSource{failOn: map[int64]bool{1: true}}
	rec := &fakeRecorder{}
	rep := New(&fakeDestination{}, src, zerolog.Nop(), WithRecorder(rec)).
		Enroll(context.Background(), []model.Appointment{appt(1, model.Harlem), appt(2, model.Harlem)}, false)

	failures := rep.WriteBackFailures()
	if len(failures) != 1 || failures[0].AppointmentID != 1 {
		t.Fatalf("write back failures = %+v", failures)
	}
	var wb *WriteBackError
	if !errors.As(failures[0].Err, &wb) || wb.ConfirmationID != "C-1" {
		t.Errorf("err = %v", failures[0].Err)
	}
	if e := entryByID(t, rep, 2); e.Status != StatusScheduled {
		t.Errorf("record 2 status = %s", e.Status)
	}
	if len(rec.entries) != 2 {
		t.Errorf("recorded %d entries, want 2", len(rec.entries))
	}
}

func TestEnroll_InterruptAfterSubmitStillWritesBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dest := &fakeDestination{onSubmit: func(int64) { cancel() }}
	src := &fakeSource{}
	rec := &fakeRecorder{}
	appts := []model.Appointment{appt(1, model.Harlem), appt(2, model.Harlem), appt(3, model.SouthJamaica)}
	rep := New(dest, src, zerolog.Nop(), WithRecorder(rec)).Enroll(ctx, appts, false)

	if !reflect.DeepEqual(dest.submitted, []int64{1}) {
		t.Fatalf("submitted = %v, want only the first record", dest.submitted)
	}
	if e := entryByID(t, rep, 1); e.Status != StatusScheduled {
		t.Errorf("record 1 = %s %q, want scheduled", e.Status, e.Reason)
	}
	if len(src.edits) != 1 || src.edits[0].fields[model.FieldConfirmationID] != "C-1" {
		t.Errorf("edits = %+v, want the confirmation written back", src.edits)
	}
	for _, id := range []int64{2, 3} {
		e := entryByID(t, rep, id)
		if e.Status != StatusFailed || !errors.Is(e.Err, context.Canceled) {
			t.Errorf("record %d = %s %v, want failed with context.Canceled", id, e.Status, e.Err)
		}
	}
	if len(rec.entries) != 3 {
		t.Errorf("recorded %d entries, want 3", len(rec.entries))
	}
	if !reflect.DeepEqual(dest.closed, []model.Location{model.Harlem}) {
		t.Errorf("closed = %v", dest.closed)
	}
}

func TestUnenroll(t *testing.T) {
	ctx := context.Background()

	t.Run("clears confirmation", func(t *testing.T) {
		a := appt(1, model.Harlem)
		a.ConfirmationID = strPtr("C-1")
		c := &fakeCanceler{}
		src := &fakeSource{}
		if err := Unenroll(ctx, c, src, zerolog.Nop(), &a); err != nil {
			t.Fatalf("Unenroll: %v", err)
		}
		if c.calls != 1 || len(src.edits) != 1 || src.edits[0].fields[model.FieldConfirmationID] != "" {
			t.Errorf("calls = %d edits = %+v", c.calls, src.edits)
		}
	})

	t.Run("refuses canceled and unscheduled", func(t *testing.T) {
		c := &fakeCanceler{}
		a := appt(1, model.Harlem)
		if err := Unenroll(ctx, c, &fakeSource{}, zerolog.Nop(), &a); !errors.Is(err, ErrNotScheduled) {
			t.Errorf("err = %v, want ErrNotScheduled", err)
		}
		a.ConfirmationID = strPtr("C-1")
		a.Canceled = true
		if err := Unenroll(ctx, c, &fakeSource{}, zerolog.Nop(), &a); !errors.Is(err, ErrCanceled) {
			t.Errorf("err = %v, want ErrCanceled", err)
		}
		if c.calls != 0 {
			t.Errorf("destination called %d times", c.calls)
		}
	})

	t.Run("interrupt after cancel still clears", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		a := appt(1, model.Harlem)
		a.ConfirmationID = strPtr("C-1")
		src := &fakeSource{}
		if err := Unenroll(ctx, &fakeCanceler{onCancel: cancel}, src, zerolog.Nop(), &a); err != nil {
			t.Fatalf("Unenroll: %v", err)
		}
		if len(src.edits) != 1 {
			t.Errorf("edits = %d, want 1", len(src.edits))
		}
	})

	t.Run("write back failure", func(t *testing.T) {
		a := appt(1, model.Harlem)
		a.ConfirmationID = strPtr("C-1")
		err := Unenroll(ctx, &fakeCanceler{}, &fakeSource{failOn: map[int64]bool{1: true}}, zerolog.Nop(), &a)
		var wb *WriteBackError
		if !errors.As(err, &wb) {
			t.Fatalf("err = %v, want WriteBackError", err)
		}
	})
}

type fakeCanceler struct {
	calls    int
	onCancel func()
}

func (c *fakeCanceler) Cancel(context.Context, *model.Appointment) error {
	c.calls++
	if c.onCancel != nil {
		c.onCancel()
	}
	return nil
}
