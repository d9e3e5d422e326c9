// Package preprocess converts inspection images to smoothed grayscale for
// segmentation. Color inputs are reduced to luminance; smoothing is a
// separable Gaussian with a kernel-size-derived sigma so the same
// configuration always produces the same output.
package preprocess

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// KernelSize holds the Gaussian smoothing kernel dimensions.
// Both dimensions must be positive odd integers; this is validated by the
// pipeline configuration, not here.
type KernelSize struct {
	Width  int
	Height int
}

// SigmaForKernel derives the Gaussian standard deviation from a kernel size.
// This follows the conventional automatic derivation used by OpenCV when
// sigma is left unspecified.
func SigmaForKernel(size int) float64 {
	return 0.3*(float64(size-1)*0.5-1) + 0.8
}

// gaussianKernel1D builds a normalized 1D Gaussian kernel of the given size.
func gaussianKernel1D(size int) []float64 {
	sigma := SigmaForKernel(size)
	k := make([]float64, size)
	half := size / 2
	sum := 0.0
	for i := range k {
		x := float64(i - half)
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// Preprocess converts an image to grayscale and applies Gaussian smoothing
// with the given kernel size. The input is never modified.
func Preprocess(img image.Image, kernel KernelSize) *image.Gray {
	gray := ToGray(img)
	return GaussianBlur(gray, kernel)
}

// ToGray converts any image to single-channel grayscale. An input that is
// already grayscale is copied, not aliased.
func ToGray(img image.Image) *image.Gray {
	if src, ok := img.(*image.Gray); ok {
		dst := image.NewGray(src.Bounds())
		copy(dst.Pix, src.Pix)
		return dst
	}

	// imaging.Grayscale applies standard luminance weighting and returns an
	// NRGBA image with equal channels; collapse it to a single channel.
	flat := imaging.Grayscale(img)
	b := flat.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		for x := range b.Dx() {
			i := flat.PixOffset(b.Min.X+x, b.Min.Y+y)
			dst.Pix[y*dst.Stride+x] = flat.Pix[i]
		}
	}
	return dst
}

// GaussianBlur applies separable Gaussian smoothing with the given kernel
// size, replicating edge pixels at the border. A new image is returned.
func GaussianBlur(src *image.Gray, kernel KernelSize) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return image.NewGray(b)
	}

	kx := gaussianKernel1D(kernel.Width)
	ky := gaussianKernel1D(kernel.Height)
	halfX := kernel.Width / 2
	halfY := kernel.Height / 2

	// Horizontal pass into a float buffer, then vertical pass with rounding.
	tmp := make([]float64, w*h)
	for y := range h {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x := range w {
			sum := 0.0
			for i, kv := range kx {
				sx := clamp(x+i-halfX, 0, w-1)
				sum += kv * float64(row[sx])
			}
			tmp[y*w+x] = sum
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			sum := 0.0
			for i, kv := range ky {
				sy := clamp(y+i-halfY, 0, h-1)
				sum += kv * tmp[sy*w+x]
			}
			dst.Pix[y*dst.Stride+x] = uint8(math.Round(sum))
		}
	}
	return dst
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
