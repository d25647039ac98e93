package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ProcessVector extracts text from every page of doc into outDir, one
// `page_<n>_text.txt` per page with non-empty text (n is 1-based).
//
// Extraction failures degrade to empty text with a warning; they never
// abort the run. TextContent keeps page order no matter in which order
// page jobs complete.
func ProcessVector(ctx context.Context, doc VectorDoc, outDir string, cfg Config) (*VectorReport, error) {
	cfg = cfg.withDefaults()

	total := doc.PageCount()
	report := &VectorReport{
		TotalPages:     total,
		PagesProcessed: total,
		TextContent:    make([]string, total),
		Metadata:       doc.Metadata(),
	}
	if report.Metadata == nil {
		report.Metadata = map[string]string{}
	}

	cfg.Logger.Debug("vector pipeline start", "pages", total, "workers", cfg.Workers)

	type result struct {
		page int
		text string
	}

	results := make(chan result, total)
	sem := make(chan struct{}, cfg.Workers)

	for i := 0; i < total; i++ {
		sem <- struct{}{} // acquire
		go func(page int) {
			defer func() { <-sem }() // release
			results <- result{page: page, text: extractVectorPage(ctx, doc, page, outDir, cfg)}
		}(i)
	}

	for i := 0; i < total; i++ {
		r := <-results
		report.TextContent[r.page] = r.text
		if strings.TrimSpace(r.text) != "" {
			report.PagesWithText++
			report.TotalTextLength += utf8.RuneCountInString(r.text)
		}
	}

	cfg.Logger.Debug("vector pipeline done",
		"pages_with_text", report.PagesWithText, "total_text_length", report.TotalTextLength)

	return report, nil
}

// extractVectorPage extracts one page's text and writes it out when
// non-empty. All failures degrade to empty text or a missing file.
func extractVectorPage(ctx context.Context, doc VectorDoc, page int, outDir string, cfg Config) string {
	if err := ctx.Err(); err != nil {
		cfg.Logger.Warn("skipping page text extraction", "page", page+1, "error", err)
		return ""
	}

	text, err := doc.PageText(page)
	if err != nil {
		cfg.Logger.Warn("failed to extract page text", "page", page+1, "error", err)
		return ""
	}

	if strings.TrimSpace(text) != "" {
		path := filepath.Join(outDir, fmt.Sprintf("page_%d_text.txt", page+1))
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			cfg.Logger.Warn("failed to write page text", "page", page+1, "error", err)
		}
	}
	return text
}
