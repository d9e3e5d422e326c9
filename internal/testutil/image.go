// Package testutil generates synthetic inspection images for tests: filled
// shapes with known geometry on a uniform contrasting background.
package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// Shape is a filled figure drawn into a synthetic scene.
type Shape interface {
	draw(img *image.RGBA, col color.Color)
	// PixelArea returns the exact number of pixels the shape covers.
	PixelArea() int
	// Center returns the geometric center in pixel coordinates.
	Center() (float64, float64)
}

// Rectangle is a filled axis-aligned rectangle.
type Rectangle struct {
	X, Y, W, H int
}

func (r Rectangle) draw(img *image.RGBA, col color.Color) {
	draw.Draw(img, image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H), &image.Uniform{C: col}, image.Point{}, draw.Src)
}

func (r Rectangle) PixelArea() int { return r.W * r.H }

func (r Rectangle) Center() (float64, float64) {
	return float64(r.X) + float64(r.W-1)/2, float64(r.Y) + float64(r.H-1)/2
}

// Circle is a filled circle rasterized over pixel centers.
type Circle struct {
	CX, CY, R int
}

func (c Circle) draw(img *image.RGBA, col color.Color) {
	for y := c.CY - c.R; y <= c.CY+c.R; y++ {
		for x := c.CX - c.R; x <= c.CX+c.R; x++ {
			dx, dy := x-c.CX, y-c.CY
			if dx*dx+dy*dy <= c.R*c.R {
				img.Set(x, y, col)
			}
		}
	}
}

func (c Circle) PixelArea() int {
	area := 0
	for y := -c.R; y <= c.R; y++ {
		for x := -c.R; x <= c.R; x++ {
			if x*x+y*y <= c.R*c.R {
				area++
			}
		}
	}
	return area
}

func (c Circle) Center() (float64, float64) { return float64(c.CX), float64(c.CY) }

// SceneConfig describes a synthetic scene.
type SceneConfig struct {
	Width      int
	Height     int
	Background color.Color
	Foreground color.Color
	Shapes     []Shape
}

// DefaultSceneConfig returns a light background with dark shapes, the
// polarity the counting pipeline expects.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Width:      200,
		Height:     200,
		Background: color.Gray{Y: 220},
		Foreground: color.Gray{Y: 30},
	}
}

// GenerateScene renders the configured shapes over the uniform background.
func GenerateScene(cfg SceneConfig) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: cfg.Background}, image.Point{}, draw.Src)
	for _, s := range cfg.Shapes {
		s.draw(img, cfg.Foreground)
	}
	return img
}

// UniformImage returns an image of a single intensity, i.e. all background.
func UniformImage(w, h int, y uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = y
	}
	return img
}

// WritePNG saves an image to path, failing the test on error.
func WritePNG(t *testing.T, img image.Image, path string) {
	t.Helper()

	f, err := os.Create(path) //nolint:gosec // G304: Test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() {
		require.NoError(t, f.Close())
	}()

	require.NoError(t, png.Encode(f, img), "Failed to encode PNG image")
}
