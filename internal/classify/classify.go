// Package classify decides whether a PDF document is primarily vector
// (text-based) or raster (scanned imagery).
package classify

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/jackzampolin/pdfsift/internal/imaging"
)

// Type is the classified document kind.
type Type string

const (
	TypeRaster Type = "raster"
	TypeVector Type = "vector"
)

// ErrClassify indicates the first page could not be read.
var ErrClassify = errors.New("cannot classify document")

// Source is the slice of a document the classifier needs.
type Source interface {
	// PageText returns extracted text for a zero-based page index.
	PageText(pageIndex int) (string, error)

	// RenderPage renders a zero-based page index to a bitmap.
	RenderPage(pageIndex int) (image.Image, error)
}

// Config configures a Classifier. Zero values select the reference
// thresholds (density 0.95, edges 100/200).
type Config struct {
	RasterThreshold float64
	EdgeLow         int
	EdgeHigh        int
	Logger          *slog.Logger
}

// Classifier implements the raster/vector heuristic.
type Classifier struct {
	rasterThreshold float64
	edgeLow         int
	edgeHigh        int
	logger          *slog.Logger
}

// New creates a Classifier.
func New(cfg Config) *Classifier {
	threshold := cfg.RasterThreshold
	if threshold == 0 {
		threshold = 0.95
	}
	low, high := cfg.EdgeLow, cfg.EdgeHigh
	if low == 0 {
		low = 100
	}
	if high == 0 {
		high = 200
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		rasterThreshold: threshold,
		edgeLow:         low,
		edgeHigh:        high,
		logger:          logger,
	}
}

// Classify inspects page 0 and returns the document type.
//
// Extractable text is decisive: a document with any text on its first
// page is vector even if it also carries heavy imagery. Only textless
// documents are rendered and measured for edge density; blank pages fall
// through to vector. The precedence rules and thresholds are load-bearing
// for reproducible classification across runs.
func (c *Classifier) Classify(doc Source) (Type, error) {
	text, err := doc.PageText(0)
	if err != nil {
		return "", fmt.Errorf("%w: first page text: %v", ErrClassify, err)
	}
	if strings.TrimSpace(text) != "" {
		c.logger.Debug("classified by text presence", "type", TypeVector)
		return TypeVector, nil
	}

	img, err := doc.RenderPage(0)
	if err != nil {
		return "", fmt.Errorf("%w: first page render: %v", ErrClassify, err)
	}

	edges := imaging.EdgeMap(img, c.edgeLow, c.edgeHigh)
	density := imaging.EdgeDensity(edges)
	c.logger.Debug("measured edge density", "density", density, "threshold", c.rasterThreshold)

	if density > c.rasterThreshold {
		return TypeRaster, nil
	}
	return TypeVector, nil
}
