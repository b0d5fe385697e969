package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/gyeh/vaxup/internal/acuity"
	"github.com/gyeh/vaxup/internal/config"
	"github.com/gyeh/vaxup/internal/db"
	"github.com/gyeh/vaxup/internal/enroller"
	"github.com/gyeh/vaxup/internal/journal"
	"github.com/gyeh/vaxup/internal/model"
	"github.com/gyeh/vaxup/internal/repair"
	"github.com/gyeh/vaxup/internal/schedule"
)

func newSource(log zerolog.Logger) *acuity.Client {
	return acuity.NewClient(cfg.AcuityUserID, cfg.AcuityAPIKey,
		acuity.WithBaseURL(cfg.AcuityBaseURL),
		acuity.WithSchema(cfg.Schema()),
		acuity.WithLogger(log),
	)
}

func newEnroller(log zerolog.Logger) *enroller.Client {
	return enroller.NewClient(cfg.EnrollerURL, cfg.Username, cfg.Password, enroller.WithLogger(log))
}

// destination adapts the sidecar client to schedule.Destination.
type destination struct {
	*enroller.Client
}

func (d destination) OpenSession(ctx context.Context, loc model.Location) (schedule.Session, error) {
	s, err := d.Client.OpenSession(ctx, loc)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// promptCredentials asks for whichever destination login values are missing.
// They are kept in memory only.
func promptCredentials(in io.Reader, out io.Writer) error {
	if !cfg.NeedsCredentials() {
		return nil
	}
	c := repair.NewConsole(in, out)
	if cfg.Username == "" {
		v, err := c.Ask("Enrollment site username")
		if err != nil {
			return fmt.Errorf("%w: read username: %v", config.ErrConfig, err)
		}
		cfg.Username = v
	}
	if cfg.Password == "" {
		v, err := c.Ask("Enrollment site password")
		if err != nil {
			return fmt.Errorf("%w: read password: %v", config.ErrConfig, err)
		}
		cfg.Password = v
	}
	return nil
}

// openJournal connects to the journal when a DSN is configured. The returned
// close func is never nil.
func openJournal(ctx context.Context) (*journal.Recorder, func(), error) {
	if cfg.JournalDSN == "" {
		return nil, func() {}, nil
	}
	pool, err := db.NewPool(ctx, cfg.JournalDSN)
	if err != nil {
		return nil, func() {}, err
	}
	return journal.NewRecorder(pool), pool.Close, nil
}
