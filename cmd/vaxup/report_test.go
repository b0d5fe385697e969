package main

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gyeh/vaxup/internal/journal"
	"github.com/gyeh/vaxup/internal/schedule"
)

func TestEventRows(t *testing.T) {
	run := uuid.New()
	at := time.Date(2021, 4, 22, 9, 30, 0, 0, time.UTC)
	rows := eventRows([]journal.Event{
		{RunID: run, AppointmentID: 1, Location: "HARLEM", ScheduledAt: &at, Status: schedule.StatusScheduled, ConfirmationID: "C-1"},
		{RunID: run, AppointmentID: 2, Location: "EAST_NY", Status: schedule.StatusSkipped, Reason: "canceled"},
	})

	if rows[0].ScheduledAt != "2021-04-22T09:30:00" || rows[0].ConfirmationID == nil || *rows[0].ConfirmationID != "C-1" || rows[0].Reason != nil {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].ScheduledAt != "" || rows[1].Reason == nil || *rows[1].Reason != "canceled" || rows[1].ConfirmationID != nil {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[1].RunID != run.String() {
		t.Errorf("run id = %s", rows[1].RunID)
	}
	// Pointers must not alias the loop variable.
	if rows[0].ConfirmationID == rows[1].ConfirmationID {
		t.Error("rows share a pointer")
	}
}
