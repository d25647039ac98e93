// Package processor orchestrates single-document processing:
// classification followed by type-specific extraction.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackzampolin/pdfsift/internal/classify"
	"github.com/jackzampolin/pdfsift/internal/pdfdoc"
	"github.com/jackzampolin/pdfsift/internal/pipeline"
	"github.com/jackzampolin/pdfsift/internal/render"
)

// Config carries the tunables a Processor needs.
type Config struct {
	Workers         int
	MaxPages        int
	RasterThreshold float64
	EdgeLow         int
	EdgeHigh        int
	BlockSize       int
	C               int
	Logger          *slog.Logger
}

// Result is the outcome of processing one document. Exactly one of
// Raster or Vector is set, matching Type.
type Result struct {
	Type   classify.Type
	Raster *pipeline.RasterReport
	Vector *pipeline.VectorReport
}

// Processor classifies a document and runs the matching pipeline.
type Processor struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Processor.
func New(cfg Config) *Processor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{cfg: cfg, logger: logger}
}

// source joins the document reader and the rasterizer into the
// classifier's view of a document.
type source struct {
	*pdfdoc.Document
	*render.Rasterizer
}

// Process handles one document: create outDir, classify, dispatch.
// Classification and pipeline errors propagate; there is no recovery at
// this layer.
func (p *Processor) Process(ctx context.Context, path, outDir string) (*Result, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	doc, err := pdfdoc.Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	rasterizer := render.New(doc, p.logger)
	classifier := classify.New(classify.Config{
		RasterThreshold: p.cfg.RasterThreshold,
		EdgeLow:         p.cfg.EdgeLow,
		EdgeHigh:        p.cfg.EdgeHigh,
		Logger:          p.logger,
	})

	docType, err := classifier.Classify(source{doc, rasterizer})
	if err != nil {
		return nil, err
	}
	p.logger.Info("classified document", "path", path, "type", docType)

	pipeCfg := pipeline.Config{
		Workers:   p.cfg.Workers,
		PageCap:   p.cfg.MaxPages,
		BlockSize: p.cfg.BlockSize,
		C:         p.cfg.C,
		Logger:    p.logger,
	}

	switch docType {
	case classify.TypeRaster:
		report, err := pipeline.ProcessRaster(ctx, rasterizer, outDir, pipeCfg)
		if err != nil {
			return nil, err
		}
		return &Result{Type: docType, Raster: report}, nil
	default:
		report, err := pipeline.ProcessVector(ctx, doc, outDir, pipeCfg)
		if err != nil {
			return nil, err
		}
		return &Result{Type: docType, Vector: report}, nil
	}
}
