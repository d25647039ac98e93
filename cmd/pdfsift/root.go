package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfsift/internal/config"
	"github.com/jackzampolin/pdfsift/internal/processor"
	"github.com/jackzampolin/pdfsift/version"
)

var (
	cfgFile   string
	outputDir string
	workers   int
	maxPages  int
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "pdfsift",
	Short: "Classify PDFs and extract their content",
	Long: `Pdfsift inspects PDF documents, decides whether each one is a scanned
raster document or a born-digital vector document, and runs the matching
extraction pipeline.

Raster documents are rasterized page by page, converted to grayscale and
adaptively thresholded into clean binary page images. Vector documents
have their per-page text extracted alongside document metadata.

Results land in a per-document output directory; batch runs additionally
write a processing_results.json report.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.pdfsift/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputDir, "output", "o", "output", "directory processing results are written to",
	)
	rootCmd.PersistentFlags().IntVar(
		&workers, "workers", 0, "max concurrent page/document workers (overrides config)",
	)
	rootCmd.PersistentFlags().IntVar(
		&maxPages, "max-pages", 0, "cap on raster pages per document, 0 for all (overrides config)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig builds the effective config from file, env and flags.
func loadConfig() (*config.Config, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	if workers > 0 {
		cfg.Workers = workers
	}
	if maxPages > 0 {
		cfg.MaxPages = maxPages
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newLogger builds the process logger from the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// newProcessor wires a document processor from the effective config.
func newProcessor(cfg *config.Config, logger *slog.Logger) *processor.Processor {
	return processor.New(processor.Config{
		Workers:         cfg.Workers,
		MaxPages:        cfg.MaxPages,
		RasterThreshold: cfg.RasterThreshold,
		EdgeLow:         cfg.EdgeLowThreshold,
		EdgeHigh:        cfg.EdgeHighThreshold,
		BlockSize:       cfg.ThresholdBlockSize,
		C:               cfg.ThresholdC,
		Logger:          logger,
	})
}
