package journal_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/vaxup/internal/db"
	"github.com/gyeh/vaxup/internal/journal"
	"github.com/gyeh/vaxup/internal/model"
	"github.com/gyeh/vaxup/internal/schedule"
)

const (
	testPort     = 15433
	testDB       = "vaxuptest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var testDSN string

func TestMain(m *testing.M) {
	if os.Getenv("VAXUP_PG_TESTS") != "1" {
		fmt.Fprintln(os.Stderr, "SKIP: set VAXUP_PG_TESTS=1 to run journal tests against embedded postgres")
		os.Exit(0)
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg := embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30 * time.Second),
	)
	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}
	os.Exit(code)
}

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS vaxup CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	n, err := db.ApplyMigrations(ctx, pool, zerolog.Nop())
	if err != nil {
		t.Fatalf("migrations: %v", err)
	}
	if n != 1 {
		t.Fatalf("applied %d migrations, want 1", n)
	}
	return pool
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	pool := setupDB(t)
	n, err := db.ApplyMigrations(context.Background(), pool, zerolog.Nop())
	if err != nil || n != 0 {
		t.Fatalf("second run applied %d, err %v", n, err)
	}
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	rec := journal.NewRecorder(setupDB(t))
	scheduled := time.Date(2021, 4, 22, 9, 30, 0, 0, time.UTC)

	dryRun := uuid.New()
	if err := rec.Record(ctx, dryRun, true, schedule.Entry{
		AppointmentID: 7, Location: model.Harlem, ScheduledAt: scheduled,
		Status: schedule.StatusDryRun, ConfirmationID: "DRY",
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, ok, err := rec.LastConfirmation(ctx, 7); err != nil || ok {
		t.Fatalf("dry run counted as confirmation: ok=%v err=%v", ok, err)
	}

	run := uuid.New()
	entries := []schedule.Entry{
		{AppointmentID: 7, Location: model.Harlem, ScheduledAt: scheduled, Status: schedule.StatusWriteBackFailed,
			ConfirmationID: "C-7", Err: errors.New("acuity API returned 502")},
		{AppointmentID: 8, Location: model.EastNY, Status: schedule.StatusSkipped, Reason: schedule.ReasonCanceled},
	}
	for _, e := range entries {
		if err := rec.Record(ctx, run, false, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	c, ok, err := rec.LastConfirmation(ctx, 7)
	if err != nil || !ok || c.ID != "C-7" {
		t.Fatalf("LastConfirmation = %+v %v %v", c, ok, err)
	}

	events, err := rec.RunEvents(ctx, run)
	if err != nil {
		t.Fatalf("RunEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Reason != "acuity API returned 502" || events[0].RunID != run {
		t.Errorf("first event = %+v", events[0])
	}
	if events[0].ScheduledAt == nil || !events[0].ScheduledAt.Equal(scheduled) {
		t.Errorf("scheduled_at = %v", events[0].ScheduledAt)
	}
	if events[1].ScheduledAt != nil || events[1].Location != "EAST_NY" {
		t.Errorf("second event = %+v", events[1])
	}
}
