package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackzampolin/pdfsift/internal/processor"
	"github.com/jackzampolin/pdfsift/internal/testutil"
)

func TestIsPDF(t *testing.T) {
	cases := map[string]bool{
		"doc.pdf":       true,
		"DOC.PDF":       true,
		"archive.tar":   false,
		"pdf":           false,
		"notes.pdf.bak": false,
	}
	for name, want := range cases {
		if got := isPDF(name); got != want {
			t.Errorf("isPDF(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWatcher_Run(t *testing.T) {
	t.Run("processes a dropped pdf", func(t *testing.T) {
		inDir := t.TempDir()
		outDir := t.TempDir()

		w := New(Config{
			Workers:    2,
			Processor:  processor.New(processor.Config{Workers: 2}),
			RetryDelay: 20 * time.Millisecond,
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- w.Run(ctx, inDir, outDir) }()

		// Give the watcher a moment to register before dropping the file.
		time.Sleep(100 * time.Millisecond)
		testutil.WritePDF(t, filepath.Join(inDir, "drop.pdf"), testutil.PDFSpec{
			PageTexts: []string{"dropped in"},
		})

		want := filepath.Join(outDir, "drop", "page_1_text.txt")
		deadline := time.After(5 * time.Second)
		for {
			if _, err := os.Stat(want); err == nil {
				break
			}
			select {
			case <-deadline:
				t.Fatalf("output %s never appeared", want)
			case <-time.After(50 * time.Millisecond):
			}
		}

		cancel()
		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("run returned %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("watcher did not stop after cancellation")
		}
	})

	t.Run("missing directory fails immediately", func(t *testing.T) {
		w := New(Config{Processor: processor.New(processor.Config{})})
		err := w.Run(context.Background(), filepath.Join(t.TempDir(), "nope"), t.TempDir())
		if err == nil {
			t.Error("expected an error for a missing watch directory")
		}
	})
}
