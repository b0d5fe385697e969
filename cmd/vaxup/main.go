package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/gyeh/vaxup/internal/exitcode"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
