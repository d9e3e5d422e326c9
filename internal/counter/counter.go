// Package counter implements the blob counting pipeline for industrial
// inspection images: preprocessing, segmentation, morphological cleanup,
// connected-component extraction, area filtering, and aggregate statistics.
package counter

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/MeKo-Tech/blobcount/internal/components"
	"github.com/MeKo-Tech/blobcount/internal/morph"
	"github.com/MeKo-Tech/blobcount/internal/preprocess"
	"github.com/MeKo-Tech/blobcount/internal/segment"
	"github.com/MeKo-Tech/blobcount/internal/utils"
)

// Counter runs the counting pipeline. It holds only immutable configuration
// and the precomputed structuring element, so a single instance is safe for
// concurrent use across goroutines.
type Counter struct {
	cfg    Config
	kernel morph.Kernel
}

// New builds a Counter, validating the configuration up front.
func New(cfg Config) (*Counter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid counter configuration: %w", err)
	}
	return &Counter{
		cfg:    cfg,
		kernel: morph.NewKernel(cfg.MorphKernelSize),
	}, nil
}

// Config returns a copy of the pipeline configuration.
func (c *Counter) Config() Config { return c.cfg }

// Process runs the full pipeline on an in-memory image. Every stage
// produces a fresh image; the input is never modified. The result's Binary
// image is the raw segmentation output, before morphological cleanup, as
// that is the intermediate callers inspect when tuning segmentation.
func (c *Counter) Process(img image.Image) (*Result, error) {
	gray := preprocess.Preprocess(img, c.cfg.SmoothKernel)

	binary, err := segment.Segment(gray, c.cfg.Segmentation, c.kernel)
	if err != nil {
		return nil, fmt.Errorf("segmentation failed: %w", err)
	}

	cleaned := morph.Open(binary, c.kernel, c.cfg.MorphIterations)
	cleaned = morph.Close(cleaned, c.kernel, c.cfg.MorphIterations)

	raw := components.Extract(cleaned)
	objects, stats := filterAndAggregate(raw, c.cfg.MinArea)

	slog.Debug("image processed",
		"strategy", c.cfg.Segmentation.Method.String(),
		"raw_components", len(raw),
		"objects", len(objects))

	return &Result{
		TotalObjects: len(objects),
		Statistics:   stats,
		Objects:      objects,
		Original:     img,
		Binary:       binary,
		Annotated:    Render(img, objects),
	}, nil
}

// ProcessFile loads an image from disk and processes it. An unreadable or
// undecodable file yields a nil result and an error; this is the only
// expected failure mode at this layer and callers must check it before
// using the result.
func (c *Counter) ProcessFile(path string) (*Result, error) {
	img, meta, err := utils.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("image unavailable: %w", err)
	}

	slog.Debug("image loaded", "path", meta.Path, "format", meta.Format,
		"width", meta.Width, "height", meta.Height)

	return c.Process(img)
}
