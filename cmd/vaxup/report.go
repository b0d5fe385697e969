package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gyeh/vaxup/internal/exitcode"
	"github.com/gyeh/vaxup/internal/journal"
	"github.com/gyeh/vaxup/internal/logging"
	"github.com/gyeh/vaxup/internal/model"
	"github.com/gyeh/vaxup/internal/parquetio"
	"github.com/gyeh/vaxup/internal/render"
)

var reportFlags struct {
	run      string
	location string
}

var reportCmd = &cobra.Command{
	Use:   "report [file.parquet]",
	Short: "Show a past run from an exported report or from the journal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.run, "run", "", "Read this run id from the journal instead of a file")
	f.StringVar(&reportFlags.location, "location", "", "Only show one site, e.g. HARLEM")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := cmd.Context()

	if (len(args) == 1) == (reportFlags.run != "") {
		log.Error().Msg("give either a report file or --run")
		os.Exit(exitcode.UsageError)
	}

	var rows []parquetio.ReportRow
	if len(args) == 1 {
		var err error
		rows, err = parquetio.ReadReport(args[0])
		if err != nil {
			log.Error().Err(err).Msg("could not read report")
			os.Exit(exitcode.UsageError)
		}
	} else {
		runID, err := uuid.Parse(reportFlags.run)
		if err != nil {
			log.Error().Err(err).Msg("--run must be a uuid")
			os.Exit(exitcode.UsageError)
		}
		if cfg.JournalDSN == "" {
			log.Error().Msg("--journal-dsn or VAXUP_JOURNAL_DSN is required with --run")
			os.Exit(exitcode.UsageError)
		}
		rec, closeJournal, err := openJournal(ctx)
		if err != nil {
			log.Error().Err(err).Msg("journal connection failed")
			os.Exit(exitcode.JournalError)
		}
		events, err := rec.RunEvents(ctx, runID)
		closeJournal()
		if err != nil {
			log.Error().Err(err).Msg("journal query failed")
			os.Exit(exitcode.JournalError)
		}
		rows = eventRows(events)
	}

	if reportFlags.location != "" {
		loc, ok := model.LocationByName(reportFlags.location)
		if !ok {
			log.Error().Str("location", reportFlags.location).Msg("unknown location")
			os.Exit(exitcode.UsageError)
		}
		rows = parquetio.AtLocation(rows, loc.String())
	}

	render.ReportRows(cmd.OutOrStdout(), rows)
	return nil
}

// eventRows converts journal events to the export row shape.
func eventRows(events []journal.Event) []parquetio.ReportRow {
	rows := make([]parquetio.ReportRow, len(events))
	for i, ev := range events {
		row := parquetio.ReportRow{
			RunID:         ev.RunID.String(),
			AppointmentID: ev.AppointmentID,
			Location:      ev.Location,
			Status:        string(ev.Status),
		}
		if ev.ScheduledAt != nil {
			row.ScheduledAt = ev.ScheduledAt.Format(model.LocalTimeLayout)
		}
		if ev.Reason != "" {
			row.Reason = &ev.Reason
		}
		if ev.ConfirmationID != "" {
			row.ConfirmationID = &ev.ConfirmationID
		}
		rows[i] = row
	}
	return rows
}
