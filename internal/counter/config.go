package counter

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/blobcount/internal/preprocess"
	"github.com/MeKo-Tech/blobcount/internal/segment"
)

// Config holds the immutable pipeline configuration. It is validated once at
// Counter construction and never mutated afterwards.
type Config struct {
	// MinArea is the strict lower bound on component pixel area; components
	// with area equal to or below it are discarded.
	MinArea int

	// SmoothKernel is the Gaussian smoothing kernel size. Both dimensions
	// must be positive odd integers.
	SmoothKernel preprocess.KernelSize

	// MorphKernelSize is the side length of the flat square structuring
	// element used for cleanup (and for edge-map dilation).
	MorphKernelSize int

	// MorphIterations is how many erosions/dilations each opening and
	// closing applies. Zero disables morphological cleanup.
	MorphIterations int

	// Segmentation selects the binarization strategy and its parameters.
	Segmentation segment.Options
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MinArea:         50,
		SmoothKernel:    preprocess.KernelSize{Width: 5, Height: 5},
		MorphKernelSize: 3,
		MorphIterations: 2,
		Segmentation:    segment.DefaultOptions(),
	}
}

// Validate checks the configuration, failing fast before any image is
// processed.
func (c Config) Validate() error {
	if c.MinArea < 0 {
		return fmt.Errorf("minimum area must not be negative, got %d", c.MinArea)
	}
	if err := validateSmoothKernel(c.SmoothKernel); err != nil {
		return err
	}
	if c.MorphKernelSize < 1 {
		return fmt.Errorf("morphological kernel size must be at least 1, got %d", c.MorphKernelSize)
	}
	if c.MorphIterations < 0 {
		return fmt.Errorf("morphological iterations must not be negative, got %d", c.MorphIterations)
	}
	return validateSegmentation(c.Segmentation)
}

func validateSmoothKernel(k preprocess.KernelSize) error {
	if k.Width < 1 || k.Width%2 == 0 {
		return fmt.Errorf("smoothing kernel width must be a positive odd integer, got %d", k.Width)
	}
	if k.Height < 1 || k.Height%2 == 0 {
		return fmt.Errorf("smoothing kernel height must be a positive odd integer, got %d", k.Height)
	}
	return nil
}

func validateSegmentation(opts segment.Options) error {
	switch opts.Method {
	case segment.GlobalAuto:
	case segment.AdaptiveLocal:
		if opts.Adaptive.WindowSize < 3 || opts.Adaptive.WindowSize%2 == 0 {
			return fmt.Errorf("adaptive window size must be an odd integer of at least 3, got %d", opts.Adaptive.WindowSize)
		}
	case segment.EdgeBased:
		if opts.Edge.LowThreshold < 0 {
			return fmt.Errorf("edge low threshold must not be negative, got %d", opts.Edge.LowThreshold)
		}
		if opts.Edge.HighThreshold <= opts.Edge.LowThreshold {
			return errors.New("edge high threshold must be greater than the low threshold")
		}
	default:
		return fmt.Errorf("unknown segmentation method %d", int(opts.Method))
	}
	return nil
}
