// Package segment binarizes grayscale inspection images. Foreground pixels
// (candidate objects) are 255, background is 0. Three strategies are
// available; they share the same output convention but not the same
// semantics: GlobalAuto and AdaptiveLocal produce filled regions, EdgeBased
// produces dilated edge contours. Components extracted from an EdgeBased
// mask represent boundaries, so their areas are contour areas, not filled
// blob areas.
package segment

import (
	"fmt"
	"image"

	"github.com/MeKo-Tech/blobcount/internal/morph"
)

// Method selects the segmentation strategy.
type Method int

const (
	// GlobalAuto picks a single global threshold with Otsu's method and
	// marks darker pixels as foreground.
	GlobalAuto Method = iota
	// AdaptiveLocal thresholds each pixel against a Gaussian-weighted local
	// mean minus a constant offset.
	AdaptiveLocal
	// EdgeBased runs hysteresis edge detection and dilates the edge map once
	// with the configured structuring element.
	EdgeBased
)

// String returns the CLI/config spelling of the method.
func (m Method) String() string {
	switch m {
	case GlobalAuto:
		return "otsu"
	case AdaptiveLocal:
		return "adaptive"
	case EdgeBased:
		return "canny"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseMethod converts a config string into a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "otsu":
		return GlobalAuto, nil
	case "adaptive":
		return AdaptiveLocal, nil
	case "canny":
		return EdgeBased, nil
	default:
		return 0, fmt.Errorf("unknown segmentation method %q (must be one of: otsu, adaptive, canny)", s)
	}
}

// AdaptiveParams holds AdaptiveLocal strategy parameters.
type AdaptiveParams struct {
	WindowSize int // neighborhood side length, odd
	Offset     int // subtracted from the local weighted mean
}

// EdgeParams holds EdgeBased strategy parameters.
type EdgeParams struct {
	LowThreshold  int
	HighThreshold int
}

// Options bundles the selected method with the per-method parameters.
type Options struct {
	Method   Method
	Adaptive AdaptiveParams
	Edge     EdgeParams
}

// DefaultOptions returns the standard strategy parameters.
func DefaultOptions() Options {
	return Options{
		Method:   GlobalAuto,
		Adaptive: AdaptiveParams{WindowSize: 11, Offset: 2},
		Edge:     EdgeParams{LowThreshold: 50, HighThreshold: 150},
	}
}

// Segment binarizes a grayscale image using the configured strategy. The
// structuring element is only used by EdgeBased to close small gaps in the
// edge map. The input image is never modified.
func Segment(gray *image.Gray, opts Options, se morph.Kernel) (*image.Gray, error) {
	switch opts.Method {
	case GlobalAuto:
		return thresholdOtsu(gray), nil
	case AdaptiveLocal:
		return thresholdAdaptive(gray, opts.Adaptive), nil
	case EdgeBased:
		edges := detectEdges(gray, opts.Edge)
		return morph.Dilate(edges, se), nil
	default:
		return nil, fmt.Errorf("unknown segmentation method %d", int(opts.Method))
	}
}
