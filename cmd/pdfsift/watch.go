package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfsift/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and process PDFs as they arrive",
	Long: `Watch a directory and process each new PDF as it appears. Files still
being copied in when their create event fires are retried until readable.

Runs until interrupted.

Examples:
  pdfsift watch ./inbox -o results`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		w := watch.New(watch.Config{
			Workers:   cfg.Workers,
			Processor: newProcessor(cfg, logger),
			Logger:    logger,
		})

		err = w.Run(cmd.Context(), args[0], outputDir)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
