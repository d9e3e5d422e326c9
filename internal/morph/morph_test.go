package morph

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBinary(w, h int, fg [][2]int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for _, p := range fg {
		img.Pix[p[1]*img.Stride+p[0]] = 255
	}
	return img
}

func foregroundCount(img *image.Gray) int {
	n := 0
	for _, v := range img.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

func TestNewKernel(t *testing.T) {
	k := NewKernel(3)
	assert.Equal(t, 3, k.Size())
	assert.Len(t, k.offsets, 9)

	// Sizes below 1 collapse to a single-pixel kernel.
	k1 := NewKernel(0)
	assert.Equal(t, 1, k1.Size())
	assert.Len(t, k1.offsets, 1)
}

func TestDilate_ExpandsSinglePixel(t *testing.T) {
	img := newBinary(5, 5, [][2]int{{2, 2}})
	out := Dilate(img, NewKernel(3))

	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			require.Equal(t, uint8(255), out.GrayAt(x, y).Y, "(%d,%d)", x, y)
		}
	}
	assert.Equal(t, 9, foregroundCount(out))
}

func TestErode_ShrinksBlock(t *testing.T) {
	var fg [][2]int
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			fg = append(fg, [2]int{x, y})
		}
	}
	img := newBinary(5, 5, fg)
	out := Erode(img, NewKernel(3))

	assert.Equal(t, uint8(255), out.GrayAt(2, 2).Y)
	assert.Equal(t, 1, foregroundCount(out))
}

func TestOpen_RemovesSpeck(t *testing.T) {
	// A single isolated pixel is below the 3x3 footprint and must vanish.
	img := newBinary(8, 8, [][2]int{{4, 4}})
	out := Open(img, NewKernel(3), 1)
	assert.Equal(t, 0, foregroundCount(out))
}

func TestOpen_KeepsLargeRegion(t *testing.T) {
	var fg [][2]int
	for y := 1; y <= 5; y++ {
		for x := 1; x <= 5; x++ {
			fg = append(fg, [2]int{x, y})
		}
	}
	img := newBinary(8, 8, fg)
	out := Open(img, NewKernel(3), 1)
	assert.Positive(t, foregroundCount(out))
}

func TestClose_FillsHole(t *testing.T) {
	var fg [][2]int
	for y := 1; y <= 5; y++ {
		for x := 1; x <= 5; x++ {
			if x == 3 && y == 3 {
				continue
			}
			fg = append(fg, [2]int{x, y})
		}
	}
	img := newBinary(8, 8, fg)
	out := Close(img, NewKernel(3), 1)
	assert.Equal(t, uint8(255), out.GrayAt(3, 3).Y, "interior hole should be filled")
}

func TestZeroIterations_Identity(t *testing.T) {
	img := newBinary(6, 6, [][2]int{{1, 1}, {4, 4}})
	opened := Open(img, NewKernel(3), 0)
	closed := Close(img, NewKernel(3), 0)
	assert.Equal(t, img.Pix, opened.Pix)
	assert.Equal(t, img.Pix, closed.Pix)

	// Identity results are copies, not aliases.
	opened.Pix[0] = 255
	assert.Equal(t, uint8(0), img.Pix[0])
}

func TestOpen_InputNotMutated(t *testing.T) {
	img := newBinary(6, 6, [][2]int{{3, 3}})
	before := make([]uint8, len(img.Pix))
	copy(before, img.Pix)

	Open(img, NewKernel(3), 2)
	assert.Equal(t, before, img.Pix)
}
