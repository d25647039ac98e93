package pdfdoc

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/pdfsift/internal/testutil"
)

func TestOpen(t *testing.T) {
	t.Run("reads structure and text", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.pdf")
		testutil.WritePDF(t, path, testutil.PDFSpec{
			PageTexts: []string{"Hello World", "", "Third page"},
			Title:     "Fixture",
			Author:    "pdfsift",
		})

		doc, err := Open(path)
		if err != nil {
			t.Fatalf("failed to open fixture: %v", err)
		}
		defer doc.Close()

		if doc.PageCount() != 3 {
			t.Errorf("expected 3 pages, got %d", doc.PageCount())
		}

		w, h, err := doc.MediaBox(0)
		if err != nil {
			t.Fatalf("media box: %v", err)
		}
		if w != 612 || h != 792 {
			t.Errorf("expected 612x792 media box, got %gx%g", w, h)
		}

		text, err := doc.PageText(0)
		if err != nil {
			t.Fatalf("page text: %v", err)
		}
		if !strings.Contains(text, "Hello World") {
			t.Errorf("expected first page text to contain %q, got %q", "Hello World", text)
		}

		empty, err := doc.PageText(1)
		if err != nil {
			t.Fatalf("page text: %v", err)
		}
		if strings.TrimSpace(empty) != "" {
			t.Errorf("expected empty second page, got %q", empty)
		}

		meta := doc.Metadata()
		if meta["Title"] != "Fixture" {
			t.Errorf("expected Title metadata, got %v", meta)
		}
		if meta["Author"] != "pdfsift" {
			t.Errorf("expected Author metadata, got %v", meta)
		}
	})

	t.Run("missing metadata yields empty map", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plain.pdf")
		testutil.WritePDF(t, path, testutil.PDFSpec{PageTexts: []string{"x"}})

		doc, err := Open(path)
		if err != nil {
			t.Fatalf("failed to open fixture: %v", err)
		}
		defer doc.Close()

		meta := doc.Metadata()
		if meta == nil {
			t.Fatal("metadata must never be nil")
		}
		if len(meta) != 0 {
			t.Errorf("expected empty metadata, got %v", meta)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.pdf")
		testutil.WriteCorruptPDF(t, path)

		if _, err := Open(path); !errors.Is(err, ErrOpen) {
			t.Errorf("expected ErrOpen, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Open(filepath.Join(t.TempDir(), "nope.pdf")); !errors.Is(err, ErrOpen) {
			t.Errorf("expected ErrOpen, got %v", err)
		}
	})
}

func TestDocument_PageImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	testutil.WritePDF(t, path, testutil.PDFSpec{PageTexts: []string{"no images here"}})

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open fixture: %v", err)
	}
	defer doc.Close()

	images, err := doc.PageImages(0)
	if err != nil {
		t.Fatalf("page images: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("expected no embedded images, got %d", len(images))
	}

	if _, err := doc.PageImages(5); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestDocument_PageText_OutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	testutil.WritePDF(t, path, testutil.PDFSpec{PageTexts: []string{"one"}})

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open fixture: %v", err)
	}
	defer doc.Close()

	if _, err := doc.PageText(1); err == nil {
		t.Error("expected out-of-range error")
	}
	if _, err := doc.PageText(-1); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestAssembleText(t *testing.T) {
	// Runs on one baseline join with a space across gaps; baseline
	// changes become newlines.
	got, err := textFromFixture(t, "Alpha Beta")
	if err != nil {
		t.Fatalf("fixture text: %v", err)
	}
	if !strings.Contains(got, "Alpha Beta") {
		t.Errorf("expected joined run, got %q", got)
	}
}

func textFromFixture(t *testing.T, text string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t.pdf")
	testutil.WritePDF(t, path, testutil.PDFSpec{PageTexts: []string{text}})
	doc, err := Open(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()
	return doc.PageText(0)
}
