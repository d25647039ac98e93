// Package render approximates PDF page rendering by compositing a page's
// embedded raster images onto a white canvas sized to its media box.
//
// Vector drawing operators, fonts and shading are NOT rendered. This is
// good enough to estimate how much of a page is scanned imagery, which is
// all the classifier and the raster pipeline need; do not expect visual
// fidelity.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"math"

	// Embedded images come in whatever codec the producer used.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/jackzampolin/pdfsift/internal/pdfdoc"
)

// ErrRender indicates unusable page geometry.
var ErrRender = errors.New("cannot render page")

// Rasterizer renders single pages of one document.
type Rasterizer struct {
	doc    *pdfdoc.Document
	logger *slog.Logger
}

// New creates a Rasterizer for doc.
func New(doc *pdfdoc.Document, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rasterizer{doc: doc, logger: logger}
}

// RenderPage renders a zero-based page index to a bitmap: a white canvas
// of the page's media-box size with each embedded image pasted at the
// origin in encounter order. Images that fail to decode are skipped.
func (r *Rasterizer) RenderPage(pageIndex int) (image.Image, error) {
	w, h, err := r.doc.MediaBox(pageIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrRender, pageIndex, err)
	}

	width, height := int(math.Round(w)), int(math.Round(h))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: page %d has degenerate media box %gx%g",
			ErrRender, pageIndex, w, h)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	images, err := r.doc.PageImages(pageIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrRender, pageIndex, err)
	}

	for _, embedded := range images {
		img, _, err := image.Decode(bytes.NewReader(embedded.Data))
		if err != nil {
			r.logger.Debug("skipping undecodable embedded image",
				"page", pageIndex, "name", embedded.Name, "type", embedded.FileType, "error", err)
			continue
		}
		// Pasted at the origin; the source transform matrix is not
		// applied, consistent with the approximation above.
		target := img.Bounds().Sub(img.Bounds().Min)
		draw.Draw(canvas, target, img, img.Bounds().Min, draw.Over)
	}

	return canvas, nil
}

// PageCount returns the page count of the underlying document.
func (r *Rasterizer) PageCount() int {
	return r.doc.PageCount()
}
