package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/vaxup/internal/exitcode"
	"github.com/gyeh/vaxup/internal/logging"
)

var checkSchemaCmd = &cobra.Command{
	Use:   "check-schema",
	Short: "Verify the Acuity intake form still matches the field table",
	Args:  cobra.NoArgs,
	RunE:  runCheckSchema,
}

func init() {
	rootCmd.AddCommand(checkSchemaCmd)
}

func runCheckSchema(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.ValidateSource(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	src := newSource(log)
	if err := src.CheckSchema(cmd.Context()); err != nil {
		log.Error().Err(err).Msg("schema check failed")
		os.Exit(exitcode.ValidationError)
	}
	s := src.Schema()
	fmt.Fprintf(cmd.OutOrStdout(), "Form %d matches: %d fields mapped.\n", s.FormID, len(s.Fields))
	return nil
}
