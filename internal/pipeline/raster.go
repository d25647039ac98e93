package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackzampolin/pdfsift/internal/imaging"
)

// ProcessRaster binarizes up to cfg.PageCap pages of doc into outDir,
// one `page_<n>_processed.png` per successful page (n is 1-based).
// Failed pages are logged and excluded from the report's file list;
// PagesProcessed keeps the attempted count either way.
func ProcessRaster(ctx context.Context, doc RasterDoc, outDir string, cfg Config) (*RasterReport, error) {
	cfg = cfg.withDefaults()

	total := doc.PageCount()
	pages := total
	if cfg.PageCap > 0 && cfg.PageCap < total {
		pages = cfg.PageCap
	}

	report := &RasterReport{
		TotalPages:     total,
		PagesProcessed: pages,
	}

	cfg.Logger.Debug("raster pipeline start", "total_pages", total, "pages", pages, "workers", cfg.Workers)

	type result struct {
		page int
		path string
		err  error
	}

	results := make(chan result, pages)
	sem := make(chan struct{}, cfg.Workers)

	for i := 0; i < pages; i++ {
		sem <- struct{}{} // acquire
		go func(page int) {
			defer func() { <-sem }() // release

			if err := ctx.Err(); err != nil {
				results <- result{page: page, err: err}
				return
			}
			path, err := processRasterPage(doc, page, outDir, cfg)
			results <- result{page: page, path: path, err: err}
		}(i)
	}

	for i := 0; i < pages; i++ {
		r := <-results
		if r.err != nil {
			cfg.Logger.Warn("raster page failed", "page", r.page+1, "error", r.err)
			continue
		}
		report.ProcessedImages = append(report.ProcessedImages, r.path)
	}

	cfg.Logger.Debug("raster pipeline done",
		"attempted", pages, "succeeded", len(report.ProcessedImages))

	return report, nil
}

// processRasterPage renders, binarizes and writes a single page.
func processRasterPage(doc RasterDoc, page int, outDir string, cfg Config) (string, error) {
	img, err := doc.RenderPage(page)
	if err != nil {
		return "", fmt.Errorf("render page %d: %w", page+1, err)
	}

	gray := imaging.Grayscale(img)
	binarized, err := imaging.AdaptiveThreshold(gray, cfg.BlockSize, cfg.C)
	if err != nil {
		return "", fmt.Errorf("binarize page %d: %w", page+1, err)
	}

	path := filepath.Join(outDir, fmt.Sprintf("page_%d_processed.png", page+1))
	if err := imaging.SavePNG(path, binarized); err != nil {
		return "", fmt.Errorf("write page %d image: %w", page+1, err)
	}
	return path, nil
}
