package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/vaxup/internal/exitcode"
	"github.com/gyeh/vaxup/internal/logging"
	"github.com/gyeh/vaxup/internal/model"
	"github.com/gyeh/vaxup/internal/render"
	"github.com/gyeh/vaxup/internal/validate"
)

var checkIDRaw bool

var checkIDCmd = &cobra.Command{
	Use:   "check-id <id>",
	Short: "Show one appointment's validation result",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckID,
}

func init() {
	checkIDCmd.Flags().BoolVar(&checkIDRaw, "raw", false, "Print the untransformed Acuity JSON")
	rootCmd.AddCommand(checkIDCmd)
}

func runCheckID(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		log.Error().Str("id", args[0]).Msg("appointment id must be a positive integer")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateSource(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	src := newSource(log)

	if checkIDRaw {
		raw, err := src.GetAppointmentJSON(ctx, id)
		if err != nil {
			log.Error().Err(err).Msg("could not fetch appointment")
			os.Exit(exitcode.SourceError)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			buf.Reset()
			buf.Write(raw)
		}
		fmt.Fprintln(out, buf.String())
		return nil
	}

	rec, err := src.GetAppointment(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("could not fetch appointment")
		os.Exit(exitcode.SourceError)
	}

	confirmed := false
	switch o := validate.New(cfg.Rules()).Validate(rec).(type) {
	case *model.Valid:
		render.Appointment(out, &o.Appointment)
		confirmed = o.Appointment.Scheduled()
	case *model.Invalid:
		render.Invalid(out, []*model.Invalid{o})
		confirmed = rec.Str(model.FieldConfirmationID) != ""
	}

	if !confirmed {
		warnUnrecordedConfirmation(cmd, log, id)
	}
	return nil
}

// warnUnrecordedConfirmation reports a journaled confirmation the scheduler
// never received.
func warnUnrecordedConfirmation(cmd *cobra.Command, log zerolog.Logger, id int64) {
	ctx := cmd.Context()
	j, closeJournal, err := openJournal(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("journal unavailable")
		return
	}
	defer closeJournal()
	if j == nil {
		return
	}
	c, ok, err := j.LastConfirmation(ctx, id)
	if err != nil {
		log.Warn().Err(err).Msg("journal lookup failed")
		return
	}
	if ok {
		fmt.Fprintf(cmd.OutOrStdout(), "\nWARNING: the journal recorded confirmation %s at %s but the scheduler has none.\n",
			c.ID, c.RecordedAt.Format("2006-01-02 15:04:05 MST"))
	}
}
