package segment

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/blobcount/internal/morph"
)

// bimodalImage returns a light background with a dark filled rectangle.
func bimodalImage(w, h int, dark image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	for y := dark.Min.Y; y < dark.Max.Y; y++ {
		for x := dark.Min.X; x < dark.Max.X; x++ {
			img.Pix[y*img.Stride+x] = 30
		}
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

func TestParseMethod(t *testing.T) {
	for s, want := range map[string]Method{
		"otsu":     GlobalAuto,
		"adaptive": AdaptiveLocal,
		"canny":    EdgeBased,
	} {
		got, err := ParseMethod(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, s, got.String())
	}

	_, err := ParseMethod("watershed")
	assert.Error(t, err)
}

func TestSegment_UnknownMethod(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	opts := DefaultOptions()
	opts.Method = Method(99)
	_, err := Segment(img, opts, morph.NewKernel(3))
	assert.Error(t, err)
}

func TestOtsuThreshold_SeparatesModes(t *testing.T) {
	img := bimodalImage(40, 40, image.Rect(10, 10, 30, 30))
	thresh := OtsuThreshold(img)
	assert.Greater(t, thresh, uint8(30))
	assert.Less(t, thresh, uint8(200))
}

func TestOtsuThreshold_UniformImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 77
	}
	// One class only; any threshold is as good as another, result must still
	// be deterministic.
	assert.Equal(t, OtsuThreshold(img), OtsuThreshold(img))
}

func TestSegment_GlobalAuto_DarkObjectsForeground(t *testing.T) {
	img := bimodalImage(40, 40, image.Rect(10, 10, 30, 30))
	out, err := Segment(img, DefaultOptions(), morph.NewKernel(3))
	require.NoError(t, err)

	assert.Equal(t, uint8(255), out.GrayAt(20, 20).Y, "dark object pixel is foreground")
	assert.Equal(t, uint8(0), out.GrayAt(2, 2).Y, "light background pixel is background")
	assert.Equal(t, 20*20, foregroundCount(out))
}

func TestSegment_AdaptiveLocal_DetectsLocalContrast(t *testing.T) {
	img := bimodalImage(60, 60, image.Rect(20, 20, 40, 40))
	opts := DefaultOptions()
	opts.Method = AdaptiveLocal

	out, err := Segment(img, opts, morph.NewKernel(3))
	require.NoError(t, err)

	// Adaptive thresholding responds to local transitions: the object
	// boundary region must be marked, the far background must not.
	assert.Positive(t, foregroundCount(out))
	assert.Equal(t, uint8(0), out.GrayAt(2, 2).Y)
}

func TestSegment_EdgeBased_MarksBoundariesOnly(t *testing.T) {
	img := bimodalImage(60, 60, image.Rect(20, 20, 40, 40))
	opts := DefaultOptions()
	opts.Method = EdgeBased

	out, err := Segment(img, opts, morph.NewKernel(3))
	require.NoError(t, err)

	fg := foregroundCount(out)
	assert.Positive(t, fg, "contours must be detected")
	assert.Less(t, fg, 20*20, "edge map must not fill the blob interior")
	assert.Equal(t, uint8(0), out.GrayAt(30, 30).Y, "blob center stays background")
	assert.Equal(t, uint8(0), out.GrayAt(5, 5).Y, "flat background stays background")
}

func TestSegment_Deterministic(t *testing.T) {
	img := bimodalImage(30, 30, image.Rect(5, 5, 25, 25))
	for _, m := range []Method{GlobalAuto, AdaptiveLocal, EdgeBased} {
		opts := DefaultOptions()
		opts.Method = m
		a, err := Segment(img, opts, morph.NewKernel(3))
		require.NoError(t, err)
		b, err := Segment(img, opts, morph.NewKernel(3))
		require.NoError(t, err)
		assert.Equal(t, a.Pix, b.Pix, "method %s", m)
	}
}

func TestDetectEdges_TinyImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	out := detectEdges(img, EdgeParams{LowThreshold: 50, HighThreshold: 150})
	assert.Equal(t, 0, foregroundCount(out))
}
