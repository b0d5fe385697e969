package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/vaxup/internal/db"
	"github.com/gyeh/vaxup/internal/exitcode"
	"github.com/gyeh/vaxup/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply enrollment journal migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := cmd.Context()

	if cfg.JournalDSN == "" {
		log.Error().Msg("--journal-dsn or VAXUP_JOURNAL_DSN is required")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.JournalDSN)
	if err != nil {
		log.Error().Err(err).Msg("journal connection failed")
		os.Exit(exitcode.JournalError)
	}
	defer pool.Close()

	if _, err := db.ApplyMigrations(ctx, pool, log); err != nil {
		log.Error().Err(err).Msg("migration failed")
		pool.Close()
		os.Exit(exitcode.JournalError)
	}
	return nil
}
