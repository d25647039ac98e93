package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeVectorDoc serves canned page texts. Lower-numbered pages sleep
// longer so completion order inverts page order.
type fakeVectorDoc struct {
	texts    []string
	failing  map[int]bool
	metadata map[string]string
	stagger  bool
}

func (d *fakeVectorDoc) PageCount() int { return len(d.texts) }

func (d *fakeVectorDoc) PageText(pageIndex int) (string, error) {
	if d.stagger {
		time.Sleep(time.Duration(len(d.texts)-pageIndex) * 10 * time.Millisecond)
	}
	if d.failing[pageIndex] {
		return "", fmt.Errorf("page %d extraction failed", pageIndex)
	}
	return d.texts[pageIndex], nil
}

func (d *fakeVectorDoc) Metadata() map[string]string { return d.metadata }

func TestProcessVector(t *testing.T) {
	t.Run("preserves page order despite completion order", func(t *testing.T) {
		texts := []string{"first", "second", "third", "fourth", "fifth"}
		doc := &fakeVectorDoc{texts: texts, stagger: true}

		report, err := ProcessVector(context.Background(), doc, t.TempDir(), Config{Workers: 5})
		if err != nil {
			t.Fatalf("process: %v", err)
		}

		if len(report.TextContent) != len(texts) {
			t.Fatalf("content length %d, want %d", len(report.TextContent), len(texts))
		}
		for i, want := range texts {
			if report.TextContent[i] != want {
				t.Errorf("page %d text = %q, want %q", i, report.TextContent[i], want)
			}
		}
	})

	t.Run("counters track non-empty pages only", func(t *testing.T) {
		doc := &fakeVectorDoc{texts: []string{"hello", "", "  \n ", "wörld"}}

		report, err := ProcessVector(context.Background(), doc, t.TempDir(), Config{})
		if err != nil {
			t.Fatalf("process: %v", err)
		}

		if report.PagesWithText != 2 {
			t.Errorf("pages_with_text = %d, want 2", report.PagesWithText)
		}
		// "hello" (5) + "wörld" (5 runes, 6 bytes): lengths count characters.
		if report.TotalTextLength != 10 {
			t.Errorf("total_text_length = %d, want 10", report.TotalTextLength)
		}
		if report.TotalPages != 4 || report.PagesProcessed != 4 {
			t.Errorf("counts = %d/%d, want 4/4", report.TotalPages, report.PagesProcessed)
		}
	})

	t.Run("failed pages degrade to empty text", func(t *testing.T) {
		doc := &fakeVectorDoc{
			texts:   []string{"a", "b", "c"},
			failing: map[int]bool{1: true},
		}

		report, err := ProcessVector(context.Background(), doc, t.TempDir(), Config{})
		if err != nil {
			t.Fatalf("process: %v", err)
		}

		if report.TextContent[1] != "" {
			t.Errorf("failed page text = %q, want empty", report.TextContent[1])
		}
		if report.TextContent[0] != "a" || report.TextContent[2] != "c" {
			t.Errorf("sibling pages affected: %v", report.TextContent)
		}
		if report.PagesWithText != 2 {
			t.Errorf("pages_with_text = %d, want 2", report.PagesWithText)
		}
	})

	t.Run("writes files only for non-empty pages", func(t *testing.T) {
		outDir := t.TempDir()
		doc := &fakeVectorDoc{texts: []string{"content", "", "more"}}

		if _, err := ProcessVector(context.Background(), doc, outDir, Config{}); err != nil {
			t.Fatalf("process: %v", err)
		}

		for _, want := range []string{"page_1_text.txt", "page_3_text.txt"} {
			data, err := os.ReadFile(filepath.Join(outDir, want))
			if err != nil {
				t.Errorf("missing %s: %v", want, err)
				continue
			}
			if len(data) == 0 {
				t.Errorf("%s is empty", want)
			}
		}
		if _, err := os.Stat(filepath.Join(outDir, "page_2_text.txt")); !os.IsNotExist(err) {
			t.Error("empty page should not produce a file")
		}
	})

	t.Run("nil metadata becomes empty map", func(t *testing.T) {
		doc := &fakeVectorDoc{texts: []string{"x"}}

		report, err := ProcessVector(context.Background(), doc, t.TempDir(), Config{})
		if err != nil {
			t.Fatalf("process: %v", err)
		}
		if report.Metadata == nil {
			t.Error("metadata must never be nil")
		}
	})

	t.Run("metadata passed through verbatim", func(t *testing.T) {
		doc := &fakeVectorDoc{
			texts:    []string{"x"},
			metadata: map[string]string{"Title": "T", "Author": "A"},
		}

		report, err := ProcessVector(context.Background(), doc, t.TempDir(), Config{})
		if err != nil {
			t.Fatalf("process: %v", err)
		}
		if report.Metadata["Title"] != "T" || report.Metadata["Author"] != "A" {
			t.Errorf("metadata = %v", report.Metadata)
		}
	})
}
