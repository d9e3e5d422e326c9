// Package batch runs the object counting pipeline over many image files,
// with parallel workers, progress reporting and result persistence.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/blobcount/internal/counter"
)

// ResultsFileName is the batch results JSON written into the output directory.
const ResultsFileName = "resultados_lote.json"

// Processor orchestrates discovery, parallel counting and persistence.
type Processor struct {
	cfg     *Config
	counter *counter.Counter
}

// NewProcessor builds a batch processor, validating both the batch settings
// and the underlying pipeline configuration.
func NewProcessor(cfg *Config) (*Processor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid batch configuration: %w", err)
	}
	c, err := counter.New(cfg.Counter)
	if err != nil {
		return nil, err
	}
	return &Processor{cfg: cfg, counter: c}, nil
}

// Process discovers images under the given paths, counts objects in each and
// returns per-file results in discovery order. When an output directory is
// configured, annotated images and the results JSON are written there.
func (p *Processor) Process(ctx context.Context, paths []string) ([]FileResult, Summary, error) {
	files, err := discoverImageFiles(paths, p.cfg.Recursive, p.cfg.IncludePatterns, p.cfg.ExcludePatterns)
	if err != nil {
		return nil, Summary{}, err
	}
	if len(files) == 0 {
		return nil, Summary{}, fmt.Errorf("no image files found in the given paths")
	}

	slog.Info("starting batch processing", "files", len(files), "workers", p.cfg.Workers)

	if p.cfg.OutputDir != "" {
		if err := os.MkdirAll(p.cfg.OutputDir, 0o750); err != nil {
			return nil, Summary{}, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	progress := p.progressCallback()
	results, err := processFiles(ctx, p.counter, files, p.cfg, progress)
	if err != nil {
		return nil, Summary{}, err
	}

	summary := Summarize(results)
	slog.Info("batch processing finished",
		"processed", summary.ImagesProcessed,
		"failed", summary.ImagesFailed,
		"objects", summary.TotalObjects)

	if p.cfg.OutputDir != "" {
		if err := saveResults(results, p.cfg.OutputDir); err != nil {
			return nil, Summary{}, err
		}
	}

	return results, summary, nil
}

// progressCallback picks the configured progress reporter.
func (p *Processor) progressCallback() ProgressCallback {
	if !p.cfg.ShowProgress || p.cfg.Quiet {
		return NoOpProgressCallback{}
	}
	return NewConsoleProgressCallback(os.Stderr, "").
		WithUpdateInterval(p.cfg.ProgressInterval)
}

// saveResults writes the per-file results array as indented JSON. Failed
// files are skipped, matching the persisted format of successful runs only.
func saveResults(results []FileResult, outputDir string) error {
	persisted := make([]FileResult, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			persisted = append(persisted, r)
		}
	}

	data, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal batch results: %w", err)
	}

	path := filepath.Join(outputDir, ResultsFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write batch results: %w", err)
	}

	slog.Info("batch results saved", "path", path)
	return nil
}
