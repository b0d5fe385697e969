package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gyeh/vaxup/internal/config"
	"github.com/gyeh/vaxup/internal/exitcode"
	"github.com/gyeh/vaxup/internal/logging"
	"github.com/gyeh/vaxup/internal/model"
	"github.com/gyeh/vaxup/internal/parquetio"
	"github.com/gyeh/vaxup/internal/render"
	"github.com/gyeh/vaxup/internal/repair"
	"github.com/gyeh/vaxup/internal/validate"
)

var checkFlags struct {
	fix     bool
	showAll bool
	export  string
}

var checkCmd = &cobra.Command{
	Use:   "check <date>",
	Short: "Validate the appointments on a date (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.BoolVar(&checkFlags.fix, "fix", false, "Interactively repair invalid records")
	f.BoolVar(&checkFlags.showAll, "show-all", false, "Also list valid and canceled records")
	f.StringVar(&checkFlags.export, "export", "", "Write one Parquet row per record to this file")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	date, err := config.ParseRunDate(args[0])
	if err != nil {
		log.Error().Err(err).Msg("invalid date")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateSource(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	src := newSource(log)
	records, err := src.GetAppointments(ctx, date, true)
	if err != nil {
		log.Error().Err(err).Msg("could not fetch appointments")
		os.Exit(exitcode.SourceError)
	}

	v := validate.New(cfg.Rules())
	outcomes := v.ValidateAll(records)
	summary := model.CheckSummary{Date: date}
	var (
		valid    []model.Appointment
		invalid  []*model.Invalid
		canceled []*model.Invalid
	)
	for _, o := range outcomes {
		summary.Add(o)
		switch o := o.(type) {
		case *model.Valid:
			valid = append(valid, o.Appointment)
		case *model.Invalid:
			if o.Canceled {
				canceled = append(canceled, o)
				continue
			}
			invalid = append(invalid, o)
		}
	}

	render.CheckSummary(out, summary)
	render.Invalid(out, invalid)
	if checkFlags.showAll {
		render.Valid(out, valid)
		render.Invalid(out, canceled)
	}

	if checkFlags.fix && len(invalid) > 0 {
		wf := repair.New(src, v, repair.NewConsole(cmd.InOrStdin(), out), out, log,
			repair.WithEditable(src.Schema().Editable))
		results := wf.RepairAll(ctx, invalid)
		render.RepairResults(out, results)

		byID := make(map[int64]model.Outcome, len(results))
		for _, r := range results {
			if r.State == repair.Committed {
				byID[r.ID] = r.Outcome
				if _, ok := r.Outcome.(*model.Valid); ok {
					summary.Repaired++
				}
			}
		}
		for i, o := range outcomes {
			if fixed, ok := byID[o.AppointmentID()]; ok {
				outcomes[i] = fixed
			}
		}
		render.CheckSummary(out, summary)
	}

	if checkFlags.export != "" {
		if err := parquetio.WriteReport(checkFlags.export, parquetio.CheckRows(uuid.New(), outcomes)); err != nil {
			log.Error().Err(err).Msg("export failed")
			os.Exit(exitcode.PartialSuccess)
		}
		log.Info().Str("path", checkFlags.export).Int("rows", len(outcomes)).Msg("report exported")
	}

	return nil
}
