package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Writer persists artifacts under an output directory, one subdirectory per
// category, with parallel writes. File names come from the artifacts
// themselves, so scripts sort in creation order on disk.
type Writer struct {
	outDir  string
	workers int

	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks persistence work for operator reporting.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
}

// NewWriter creates a writer rooted at outDir.
func NewWriter(outDir string) *Writer {
	return &Writer{outDir: outDir, workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers sets the number of parallel writes.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns the persistence metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Write persists all artifacts. Category directories are created on demand.
func (w *Writer) Write(ctx context.Context, artifacts []Artifact) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, a := range artifacts {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeArtifact(a)
			}
		})
	}
	return eg.Wait()
}

// writeArtifact writes a single artifact file.
func (w *Writer) writeArtifact(a Artifact) error {
	dir := filepath.Join(w.outDir, string(a.Category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", a.FileName, err)
	}
	path := filepath.Join(dir, a.FileName)
	if err := os.WriteFile(path, []byte(a.Content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", a.FileName, err)
	}

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(a.Content))
	w.mu.Unlock()
	return nil
}
