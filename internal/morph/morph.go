// Package morph implements binary morphological operations with a flat
// square structuring element. Images are single-channel with foreground 255
// and background 0; every operation returns a new image.
package morph

import "image"

// Kernel is a flat square structuring element. It is immutable and intended
// to be built once at pipeline construction.
type Kernel struct {
	size    int
	offsets [][2]int
}

// NewKernel builds a flat square structuring element of the given side
// length. All positions are active. Sizes below 1 are treated as 1.
func NewKernel(size int) Kernel {
	if size < 1 {
		size = 1
	}
	offsets := make([][2]int, 0, size*size)
	anchor := size / 2
	for dy := range size {
		for dx := range size {
			offsets = append(offsets, [2]int{dx - anchor, dy - anchor})
		}
	}
	return Kernel{size: size, offsets: offsets}
}

// Size returns the side length of the structuring element.
func (k Kernel) Size() int { return k.size }

// Dilate grows foreground regions: a pixel becomes foreground if any pixel
// under the structuring element is foreground.
func Dilate(src *image.Gray, k Kernel) *image.Gray {
	return apply(src, k, func(cur, v uint8) uint8 {
		if v > cur {
			return v
		}
		return cur
	}, 0)
}

// Erode shrinks foreground regions: a pixel stays foreground only if every
// in-bounds pixel under the structuring element is foreground.
func Erode(src *image.Gray, k Kernel) *image.Gray {
	return apply(src, k, func(cur, v uint8) uint8 {
		if v < cur {
			return v
		}
		return cur
	}, 255)
}

// Open applies iterations erosions followed by the same number of dilations,
// removing specks smaller than the structuring element footprint.
// Zero iterations returns an unmodified copy.
func Open(src *image.Gray, k Kernel, iterations int) *image.Gray {
	out := clone(src)
	for range iterations {
		out = Erode(out, k)
	}
	for range iterations {
		out = Dilate(out, k)
	}
	return out
}

// Close applies iterations dilations followed by the same number of
// erosions, filling small holes and bridging near-touching foreground.
// Zero iterations returns an unmodified copy.
func Close(src *image.Gray, k Kernel, iterations int) *image.Gray {
	out := clone(src)
	for range iterations {
		out = Dilate(out, k)
	}
	for range iterations {
		out = Erode(out, k)
	}
	return out
}

func apply(src *image.Gray, k Kernel, combine func(cur, v uint8) uint8, seed uint8) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			acc := seed
			for _, off := range k.offsets {
				nx, ny := x+off[0], y+off[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				acc = combine(acc, src.Pix[ny*src.Stride+nx])
			}
			dst.Pix[y*dst.Stride+x] = acc
		}
	}
	return dst
}

func clone(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()], src.Pix[y*src.Stride:y*src.Stride+b.Dx()])
	}
	return dst
}
