package batch

import (
	"fmt"
	"runtime"
	"time"

	"github.com/MeKo-Tech/blobcount/internal/counter"
)

// Config holds batch processing configuration.
type Config struct {
	// Counter is the per-image pipeline configuration shared by all workers.
	Counter counter.Config

	// Workers is the number of parallel workers (0 = NumCPU).
	Workers int

	// Recursive descends into subdirectories during discovery.
	Recursive bool

	// IncludePatterns and ExcludePatterns filter discovered files by base
	// name glob. Exclusion wins; an empty include list admits everything.
	IncludePatterns []string
	ExcludePatterns []string

	// OutputDir, when set, receives the annotated images and the batch
	// results JSON.
	OutputDir string

	// SaveAnnotated writes each image's annotated copy under OutputDir.
	SaveAnnotated bool

	// Format selects the output rendering: json, csv, or text.
	Format string

	// ShowProgress draws a console progress bar unless Quiet is set.
	ShowProgress     bool
	Quiet            bool
	ProgressInterval time.Duration

	// ContinueOnError records per-file failures instead of aborting the
	// whole batch on the first one.
	ContinueOnError bool
}

// DefaultConfig returns batch defaults around the default counter pipeline.
func DefaultConfig() *Config {
	return &Config{
		Counter:          counter.DefaultConfig(),
		Workers:          runtime.NumCPU(),
		Format:           "text",
		ProgressInterval: 100 * time.Millisecond,
	}
}

// Validate checks batch-level settings; the counter configuration is
// validated separately when the pipeline is built.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.Format {
	case "json", "csv", "text":
	default:
		return fmt.Errorf("invalid output format %q (must be one of: json, csv, text)", c.Format)
	}
	return nil
}
