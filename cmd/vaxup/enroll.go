package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/vaxup/internal/config"
	"github.com/gyeh/vaxup/internal/exitcode"
	"github.com/gyeh/vaxup/internal/logging"
	"github.com/gyeh/vaxup/internal/model"
	"github.com/gyeh/vaxup/internal/parquetio"
	"github.com/gyeh/vaxup/internal/render"
	"github.com/gyeh/vaxup/internal/schedule"
	"github.com/gyeh/vaxup/internal/validate"
)

var enrollFlags struct {
	dryRun bool
	export string
}

var enrollCmd = &cobra.Command{
	Use:   "enroll <date>",
	Short: "Enroll the valid appointments on a date (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnroll,
}

func init() {
	f := enrollCmd.Flags()
	f.BoolVar(&enrollFlags.dryRun, "dry-run", false, "Fill the form but do not submit or write back confirmations")
	f.StringVar(&enrollFlags.export, "export", "", "Write the enrollment report to this Parquet file")
	rootCmd.AddCommand(enrollCmd)
}

func runEnroll(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	date, err := config.ParseRunDate(args[0])
	if err != nil {
		log.Error().Err(err).Msg("invalid date")
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
	records, err := src.GetAppointments(ctx, date, true)
	if err != nil {
		log.Error().Err(err).Msg("could not fetch appointments")
		os.Exit(exitcode.SourceError)
	}

	var (
		valid   []model.Appointment
		invalid []*model.Invalid
	)
	for _, o := range validate.New(cfg.Rules()).ValidateAll(records) {
		switch o := o.(type) {
		case *model.Valid:
			valid = append(valid, o.Appointment)
		case *model.Invalid:
			if !o.Canceled {
				invalid = append(invalid, o)
			}
		}
	}
	if len(invalid) > 0 {
		log.Warn().Int("invalid", len(invalid)).Msg("invalid appointments will not be submitted; run check --fix")
		render.Invalid(out, invalid)
	}

	ec := newEnroller(log)
	if _, err := ec.Health(ctx); err != nil {
		log.Error().Err(err).Msg("enrollment sidecar unavailable")
		os.Exit(exitcode.DestinationError)
	}

	var opts []schedule.Option
	rec, closeJournal, err := openJournal(ctx)
	if err != nil {
		log.Error().Err(err).Msg("journal connection failed")
		os.Exit(exitcode.JournalError)
	}
	if rec != nil {
		opts = append(opts, schedule.WithRecorder(rec))
	}

	rep := schedule.New(destination{ec}, src, log, opts...).Enroll(ctx, valid, enrollFlags.dryRun)
	render.EnrollReport(out, rep)

	if enrollFlags.export != "" {
		if err := parquetio.WriteReport(enrollFlags.export, parquetio.EnrollRows(rep)); err != nil {
			log.Error().Err(err).Msg("export failed")
		}
	}

	closeJournal()
	os.Exit(enrollExitCode(rep))
	return nil
}

// enrollExitCode maps a finished run to a process exit code. Per-record
// failures are reported, not exited on; only a run in which every attempted
// submission failed is treated as the destination being down.
func enrollExitCode(rep *schedule.Report) int {
	failed := rep.Count(schedule.StatusFailed)
	succeeded := rep.Count(schedule.StatusScheduled) + rep.Count(schedule.StatusDryRun) + rep.Count(schedule.StatusWriteBackFailed)
	if failed > 0 && succeeded == 0 {
		return exitcode.DestinationError
	}
	return exitcode.Success
}
