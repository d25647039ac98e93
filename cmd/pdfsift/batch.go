package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfsift/internal/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Process every PDF in a directory",
	Long: `Process every PDF in a directory concurrently. Each document gets its
own subdirectory under the output directory, and a processing_results.json
report summarizing the run is written at the output root.

Per-document failures do not stop the batch; they appear as error entries
in the report.

Examples:
  pdfsift batch ./inbox
  pdfsift batch ./inbox -o results --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		coordinator := batch.New(batch.Config{
			Workers:   cfg.Workers,
			Processor: newProcessor(cfg, logger),
			Logger:    logger,
		})

		summary, err := coordinator.ProcessDirectory(cmd.Context(), args[0], outputDir)
		if err != nil {
			return err
		}
		if summary.Error != "" {
			return fmt.Errorf("%s", summary.Error)
		}

		fmt.Printf("processed %d PDFs: %d succeeded, %d failed\n",
			summary.TotalPDFs, summary.Successful, summary.Failed)
		fmt.Printf("report: %s\n", filepath.Join(outputDir, batch.ReportFileName))
		return nil
	},
}
