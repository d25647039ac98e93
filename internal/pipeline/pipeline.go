// Package pipeline implements the two type-specific extraction
// pipelines. Raster documents get per-page adaptive binarization, vector
// documents get per-page text extraction. Both fan pages out over a
// bounded set of goroutines; page failures are recorded and never abort
// the run.
package pipeline

import (
	"image"
	"log/slog"
)

// RasterDoc is what the raster pipeline needs from a document.
type RasterDoc interface {
	PageCount() int
	RenderPage(pageIndex int) (image.Image, error)
}

// VectorDoc is what the vector pipeline needs from a document.
type VectorDoc interface {
	PageCount() int
	PageText(pageIndex int) (string, error)
	Metadata() map[string]string
}

// Config holds shared pipeline parameters. Zero values select the
// reference defaults (4 workers, uncapped pages, 11/2 binarization).
type Config struct {
	// Workers bounds concurrent page jobs per pipeline invocation.
	Workers int

	// PageCap limits how many pages the raster pipeline processes.
	// 0 means all pages. The vector pipeline ignores it.
	PageCap int

	// BlockSize and C parameterize adaptive binarization.
	BlockSize int
	C         int

	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.BlockSize == 0 {
		c.BlockSize = 11
	}
	if c.C == 0 {
		c.C = 2
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// RasterReport summarizes a raster pipeline run.
type RasterReport struct {
	TotalPages int

	// PagesProcessed is the attempted page count, min(TotalPages,
	// PageCap). Pages that failed are still counted here; only
	// ProcessedImages reflects actual successes.
	PagesProcessed int

	// ProcessedImages lists output files of successful pages in
	// completion order.
	ProcessedImages []string
}

// VectorReport summarizes a vector pipeline run.
type VectorReport struct {
	TotalPages     int
	PagesProcessed int

	// TextContent holds one entry per page in page order. Pages whose
	// extraction failed contribute an empty string.
	TextContent []string

	// Metadata is the document Info dictionary, empty map when absent.
	Metadata map[string]string

	// PagesWithText counts entries that are non-empty after trimming;
	// TotalTextLength sums their lengths in characters.
	PagesWithText   int
	TotalTextLength int
}
