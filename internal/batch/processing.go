package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/MeKo-Tech/blobcount/internal/counter"
	"github.com/MeKo-Tech/blobcount/internal/utils"
)

// FileResult holds the counting outcome for a single image file.
type FileResult struct {
	File         string             `json:"arquivo"`
	Path         string             `json:"caminho"`
	TotalObjects int                `json:"total_objetos"`
	Statistics   counter.Statistics `json:"estatisticas"`
	Objects      []counter.Object   `json:"objetos_detectados"`
	Duration     time.Duration      `json:"-"`
	Err          error              `json:"-"`
}

// fileJob is a single file handed to a worker.
type fileJob struct {
	index int
	path  string
}

// fileOutcome pairs a result with its input position so the batch can be
// reassembled in discovery order.
type fileOutcome struct {
	index  int
	result FileResult
}

// processFiles runs the counting pipeline over all files with a worker pool.
// Results come back in input order. Cancellation is checked between files
// only; a file already being processed runs to completion.
func processFiles(ctx context.Context, c *counter.Counter, files []string, cfg *Config, progress ProgressCallback) ([]FileResult, error) {
	if progress == nil {
		progress = NoOpProgressCallback{}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	progress.OnStart(len(files))
	defer progress.OnComplete()

	jobs := make(chan fileJob, len(files))
	outcomes := make(chan fileOutcome, len(files))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				outcomes <- fileOutcome{index: job.index, result: processOneFile(c, job.path, cfg)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, path := range files {
			select {
			case jobs <- fileJob{index: i, path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]FileResult, len(files))
	seen := make([]bool, len(files))
	processed := 0

	for outcome := range outcomes {
		results[outcome.index] = outcome.result
		seen[outcome.index] = true
		processed++

		if err := outcome.result.Err; err != nil {
			progress.OnError(processed, err)
			if !cfg.ContinueOnError {
				// Drain remaining work so the workers can exit.
				go func() {
					for range outcomes {
					}
				}()
				return nil, fmt.Errorf("processing %s: %w", outcome.result.Path, err)
			}
		}
		progress.OnProgress(processed, len(files))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// A worker that bailed out on cancellation leaves gaps; report them.
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("processing interrupted before %s", files[i])
		}
	}

	return results, nil
}

// processOneFile counts objects in a single file and optionally writes the
// annotated copy.
func processOneFile(c *counter.Counter, path string, cfg *Config) FileResult {
	start := time.Now()
	fr := FileResult{
		File: filepath.Base(path),
		Path: path,
	}

	res, err := c.ProcessFile(path)
	fr.Duration = time.Since(start)
	if err != nil {
		fr.Err = err
		fr.Objects = []counter.Object{}
		slog.Warn("file processing failed", "path", path, "error", err)
		return fr
	}

	fr.TotalObjects = res.TotalObjects
	fr.Statistics = res.Statistics
	fr.Objects = res.Objects

	if cfg.SaveAnnotated && cfg.OutputDir != "" && res.Annotated != nil {
		out := filepath.Join(cfg.OutputDir, annotatedName(path))
		if err := utils.SaveImage(res.Annotated, out); err != nil {
			slog.Warn("failed to save annotated image", "path", out, "error", err)
		}
	}

	slog.Debug("file processed",
		"path", path,
		"objects", fr.TotalObjects,
		"duration", fr.Duration)

	return fr
}

// annotatedName derives the annotated output file name, always as PNG.
func annotatedName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_annotated.png"
}
