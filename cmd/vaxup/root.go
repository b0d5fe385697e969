package main

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gyeh/vaxup/internal/acuity"
	"github.com/gyeh/vaxup/internal/config"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "vaxup",
	Short: "Validate, repair and enroll vaccination appointments",
	Long: "Reads appointments from the Acuity scheduler, validates them against the enrollment form's rules, " +
		"lets an operator repair bad records, and enrolls valid ones through the enrollment browser sidecar.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Values already in the environment win over .env.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		cfg.LoadEnv()
		if cfg.ConfigPath != "" {
			return cfg.LoadFromFile(cfg.ConfigPath)
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.ConfigPath, "config", "", "Path to YAML config file")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&cfg.AcuityBaseURL, "acuity-url", "", "Acuity API root (default "+acuity.DefaultBaseURL+")")
	pf.StringVar(&cfg.EnrollerURL, "enroller-url", "", "Enrollment sidecar URL (or set "+config.EnvEnrollerURL+")")
	pf.StringVar(&cfg.JournalDSN, "journal-dsn", "", "Postgres connection string for the enrollment journal (or set "+config.EnvJournalDSN+")")
}
