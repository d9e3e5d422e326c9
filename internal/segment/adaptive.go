package segment

import (
	"image"

	"github.com/MeKo-Tech/blobcount/internal/preprocess"
)

// thresholdAdaptive binarizes against a per-pixel threshold: the
// Gaussian-weighted mean of the surrounding window minus a constant offset.
// Pixels at or below their local threshold become foreground 255. There is
// no single global threshold; bright and dark areas adapt independently.
func thresholdAdaptive(gray *image.Gray, params AdaptiveParams) *image.Gray {
	window := params.WindowSize
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}

	// The Gaussian-weighted local mean is exactly a Gaussian smoothing of
	// the image with the window-derived sigma.
	mean := preprocess.GaussianBlur(gray, preprocess.KernelSize{Width: window, Height: window})

	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		m := mean.Pix[y*mean.Stride : y*mean.Stride+w]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x, v := range src {
			if int(v) <= int(m[x])-params.Offset {
				out[x] = 255
			}
		}
	}
	return dst
}
