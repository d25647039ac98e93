// Package watch processes PDFs as they appear in a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/jackzampolin/pdfsift/internal/pdfdoc"
	"github.com/jackzampolin/pdfsift/internal/processor"
)

// Config configures a Watcher.
type Config struct {
	// Workers bounds concurrently processed documents.
	Workers int

	// Processor handles individual documents.
	Processor *processor.Processor

	// RetryAttempts and RetryDelay govern reopening files that are still
	// being written when their create event fires.
	RetryAttempts uint
	RetryDelay    time.Duration

	Logger *slog.Logger
}

// Watcher reacts to new PDFs in a directory and runs each through the
// document pipeline.
type Watcher struct {
	workers   int
	processor *processor.Processor
	attempts  uint
	delay     time.Duration
	logger    *slog.Logger
}

// New creates a Watcher.
func New(cfg Config) *Watcher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	attempts := cfg.RetryAttempts
	if attempts == 0 {
		attempts = 5
	}
	delay := cfg.RetryDelay
	if delay == 0 {
		delay = 200 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		workers:   workers,
		processor: cfg.Processor,
		attempts:  attempts,
		delay:     delay,
		logger:    logger,
	}
}

// Run watches inputDir until ctx is cancelled, processing each created
// PDF into a per-document subdirectory of outputDir. It blocks.
func (w *Watcher) Run(ctx context.Context, inputDir, outputDir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(inputDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", inputDir, err)
	}
	w.logger.Info("watching for new pdfs", "dir", inputDir, "workers", w.workers)

	sem := make(chan struct{}, w.workers)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopping watcher", "dir", inputDir)
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) || !isPDF(event.Name) {
				continue
			}
			sem <- struct{}{} // acquire
			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				defer func() { <-sem }() // release
				w.handle(ctx, path, outputDir)
			}(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// handle processes one newly created PDF. Open failures are retried
// because the create event often fires before the writer finishes.
func (w *Watcher) handle(ctx context.Context, path, outputDir string) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	outDir := filepath.Join(outputDir, stem)

	start := time.Now()
	err := retry.Do(
		func() error {
			_, err := w.processor.Process(ctx, path, outDir)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(w.attempts),
		retry.Delay(w.delay),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, pdfdoc.ErrOpen)
		}),
	)
	if err != nil {
		w.logger.Warn("failed to process pdf", "path", path, "error", err)
		return
	}
	w.logger.Info("processed pdf", "path", path, "out", outDir, "took", time.Since(start))
}

func isPDF(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}
