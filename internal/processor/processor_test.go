package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackzampolin/pdfsift/internal/classify"
	"github.com/jackzampolin/pdfsift/internal/pdfdoc"
	"github.com/jackzampolin/pdfsift/internal/testutil"
)

func TestProcessor_Process(t *testing.T) {
	t.Run("vector document", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "doc.pdf")
		outDir := filepath.Join(dir, "out")
		testutil.WritePDF(t, path, testutil.PDFSpec{
			PageTexts: []string{"Page one text", ""},
			Title:     "Vector Fixture",
		})

		p := New(Config{Workers: 2})
		result, err := p.Process(context.Background(), path, outDir)
		if err != nil {
			t.Fatalf("process: %v", err)
		}

		if result.Type != classify.TypeVector {
			t.Fatalf("type = %s, want vector", result.Type)
		}
		if result.Vector == nil || result.Raster != nil {
			t.Fatal("vector result must carry only a vector report")
		}
		if result.Vector.TotalPages != 2 {
			t.Errorf("total pages = %d, want 2", result.Vector.TotalPages)
		}
		if result.Vector.PagesWithText != 1 {
			t.Errorf("pages with text = %d, want 1", result.Vector.PagesWithText)
		}
		if result.Vector.Metadata["Title"] != "Vector Fixture" {
			t.Errorf("metadata = %v", result.Vector.Metadata)
		}
		if _, err := os.Stat(filepath.Join(outDir, "page_1_text.txt")); err != nil {
			t.Errorf("missing text output: %v", err)
		}
	})

	t.Run("raster document", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "scan.pdf")
		outDir := filepath.Join(dir, "out")
		// Textless fixture; a negative threshold forces the raster branch
		// regardless of the blank canvas's zero edge density.
		testutil.WritePDF(t, path, testutil.PDFSpec{
			PageTexts: []string{"", ""},
			Width:     60,
			Height:    40,
		})

		p := New(Config{Workers: 2, RasterThreshold: -1})
		result, err := p.Process(context.Background(), path, outDir)
		if err != nil {
			t.Fatalf("process: %v", err)
		}

		if result.Type != classify.TypeRaster {
			t.Fatalf("type = %s, want raster", result.Type)
		}
		if result.Raster == nil || result.Vector != nil {
			t.Fatal("raster result must carry only a raster report")
		}
		if result.Raster.PagesProcessed != 2 {
			t.Errorf("pages processed = %d, want 2", result.Raster.PagesProcessed)
		}
		for _, name := range []string{"page_1_processed.png", "page_2_processed.png"} {
			if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
				t.Errorf("missing raster output %s: %v", name, err)
			}
		}
	})

	t.Run("page cap applies to raster only", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "scan.pdf")
		testutil.WritePDF(t, path, testutil.PDFSpec{PageTexts: []string{"", "", ""}})

		p := New(Config{MaxPages: 1, RasterThreshold: -1})
		result, err := p.Process(context.Background(), path, filepath.Join(dir, "out"))
		if err != nil {
			t.Fatalf("process: %v", err)
		}
		if result.Raster.PagesProcessed != 1 {
			t.Errorf("pages processed = %d, want 1", result.Raster.PagesProcessed)
		}
		if result.Raster.TotalPages != 3 {
			t.Errorf("total pages = %d, want 3", result.Raster.TotalPages)
		}
	})

	t.Run("corrupt document propagates open error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.pdf")
		testutil.WriteCorruptPDF(t, path)

		p := New(Config{})
		if _, err := p.Process(context.Background(), path, filepath.Join(dir, "out")); !errors.Is(err, pdfdoc.ErrOpen) {
			t.Errorf("expected ErrOpen, got %v", err)
		}
	})

	t.Run("creates output directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "doc.pdf")
		outDir := filepath.Join(dir, "nested", "deep", "out")
		testutil.WritePDF(t, path, testutil.PDFSpec{PageTexts: []string{"hi"}})

		p := New(Config{})
		if _, err := p.Process(context.Background(), path, outDir); err != nil {
			t.Fatalf("process: %v", err)
		}
		if fi, err := os.Stat(outDir); err != nil || !fi.IsDir() {
			t.Errorf("output directory not created: %v", err)
		}
	})
}
