package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gyeh/vaxup/internal/exitcode"
	"github.com/gyeh/vaxup/internal/logging"
	"github.com/gyeh/vaxup/internal/model"
	"github.com/gyeh/vaxup/internal/render"
	"github.com/gyeh/vaxup/internal/schedule"
	"github.com/gyeh/vaxup/internal/validate"
)

var unenrollCmd = &cobra.Command{
	Use:   "unenroll <id>",
	Short: "Cancel one confirmed enrollment and clear its confirmation id",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnenroll,
}

func init() {
	rootCmd.AddCommand(unenrollCmd)
}

func runUnenroll(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		log.Error().Str("id", args[0]).Msg("appointment id must be a positive integer")
		os.Exit(exitcode.UsageError)
	}
	if err := promptCredentials(cmd.InOrStdin(), cmd.ErrOrStderr()); err != nil {
		log.Error().Err(err).Msg("could not read credentials")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateDestination(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	src := newSource(log)
	raw, err := src.GetAppointment(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("could not fetch appointment")
		os.Exit(exitcode.SourceError)
	}

	appt, failures := validate.Target(raw)
	if failures != nil {
		render.Invalid(out, []*model.Invalid{{ID: id, Failures: failures, Raw: raw}})
		log.Error().Int64("appointment_id", id).Msg("appointment cannot be identified at the destination")
		os.Exit(exitcode.ValidationError)
	}

	err = schedule.Unenroll(ctx, newEnroller(log), src, log, appt)
	var wb *schedule.WriteBackError
	switch {
	case err == nil:
		fmt.Fprintf(out, "Appointment %d unenrolled.\n", id)
		return nil
	case errors.Is(err, schedule.ErrCanceled), errors.Is(err, schedule.ErrNotScheduled):
		log.Error().Err(err).Int64("appointment_id", id).Msg("cannot unenroll")
		os.Exit(exitcode.ValidationError)
	case errors.As(err, &wb):
		render.WriteBackWarning(out, []schedule.Entry{{AppointmentID: id, ConfirmationID: wb.ConfirmationID, Err: err}})
		os.Exit(exitcode.PartialSuccess)
	default:
		log.Error().Err(err).Int64("appointment_id", id).Msg("unenroll failed")
		os.Exit(exitcode.DestinationError)
	}
	return nil
}
