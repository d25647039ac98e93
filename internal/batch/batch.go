// Package batch runs the document pipeline over a directory of PDFs and
// aggregates per-document outcomes into a normalized JSON report.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jackzampolin/pdfsift/internal/processor"
)

// NoPDFsMessage is the result-level error for an input directory without
// any PDF files. The exact wording is part of the report contract.
const NoPDFsMessage = "No PDF files found in the input directory"

// ProcessedFile is one per-page artifact in a normalized result.
type ProcessedFile struct {
	PageNumber int    `json:"page_number"`
	FilePath   string `json:"file_path"`
	FileType   string `json:"file_type"`

	// ContentLength is set for text artifacts only, and may be 0 for
	// pages without text.
	ContentLength *int `json:"content_length,omitempty"`
}

// DocumentEntry is the normalized outcome for one document. Failed
// documents carry only pdf_name, pdf_path and error.
type DocumentEntry struct {
	Type           string            `json:"type,omitempty"`
	TotalPages     int               `json:"total_pages,omitempty"`
	ProcessedFiles []ProcessedFile   `json:"processed_files,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	PDFName        string            `json:"pdf_name"`
	PDFPath        string            `json:"pdf_path"`
	Error          string            `json:"error,omitempty"`
}

// Summary aggregates one batch run.
type Summary struct {
	TotalPDFs  int             `json:"total_pdfs"`
	Successful int             `json:"successful_processing"`
	Failed     int             `json:"failed_processing"`
	Results    []DocumentEntry `json:"results"`

	// Error is set instead of the counters when the run could not start,
	// e.g. when the input directory holds no PDFs. No report file is
	// written in that case.
	Error string `json:"error,omitempty"`
}

// Config configures a Coordinator.
type Config struct {
	// Workers bounds concurrent documents.
	Workers int

	// Processor handles individual documents.
	Processor *processor.Processor

	Logger *slog.Logger
}

// Coordinator fans documents out over a bounded worker set.
type Coordinator struct {
	workers   int
	processor *processor.Processor
	logger    *slog.Logger
}

// New creates a Coordinator.
func New(cfg Config) *Coordinator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		workers:   workers,
		processor: cfg.Processor,
		logger:    logger,
	}
}

// ProcessDirectory processes every PDF in inputDir into a per-document
// subdirectory of outputDir and writes processing_results.json there.
// Per-document failures become result entries; only an unwritable report
// is an error.
func (c *Coordinator) ProcessDirectory(ctx context.Context, inputDir, outputDir string) (*Summary, error) {
	paths, err := listPDFs(inputDir)
	if err != nil {
		c.logger.Warn("cannot scan input directory", "dir", inputDir, "error", err)
		return &Summary{Error: fmt.Sprintf("failed to read input directory: %v", err)}, nil
	}
	if len(paths) == 0 {
		return &Summary{Error: NoPDFsMessage}, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	runID := uuid.New().String()
	log := c.logger.With("run_id", runID)
	log.Info("starting batch run", "pdfs", len(paths), "workers", c.workers)

	results := make(chan DocumentEntry, len(paths))
	sem := make(chan struct{}, c.workers)

	for _, path := range paths {
		sem <- struct{}{} // acquire
		go func(pdfPath string) {
			defer func() { <-sem }() // release
			results <- c.processOne(ctx, pdfPath, outputDir, log)
		}(path)
	}

	entries := make([]DocumentEntry, 0, len(paths))
	for range paths {
		entries = append(entries, <-results)
	}

	// Counts are derived from the collected entries, not tracked while
	// jobs run.
	summary := &Summary{
		TotalPDFs: len(paths),
		Results:   entries,
	}
	for _, e := range entries {
		if e.Error == "" {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}

	reportPath, err := WriteReport(summary, outputDir)
	if err != nil {
		return nil, err
	}
	log.Info("batch run complete",
		"successful", summary.Successful, "failed", summary.Failed, "report", reportPath)

	return summary, nil
}

// processOne runs a single document, converting any failure into an
// error entry so sibling documents keep running.
func (c *Coordinator) processOne(ctx context.Context, path, outputDir string, log *slog.Logger) DocumentEntry {
	stem := docStem(path)
	result, err := c.processor.Process(ctx, path, filepath.Join(outputDir, stem))
	if err != nil {
		log.Warn("document failed", "path", path, "error", err)
		return DocumentEntry{
			PDFName: filepath.Base(path),
			PDFPath: path,
			Error:   err.Error(),
		}
	}

	entry := normalize(result)
	entry.PDFName = stem
	entry.PDFPath = path
	return entry
}

// listPDFs returns the files in dir with a case-insensitive .pdf suffix.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

// docStem returns the file name without its extension.
func docStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
