package counter

import (
	"image"
	"image/color"
	"strconv"

	"github.com/MeKo-Tech/blobcount/internal/utils"
)

var (
	boxColor   = color.RGBA{G: 255, A: 255}
	labelColor = color.RGBA{R: 255, A: 255}
)

// Render draws each object's bounding box and sequential ID over a copy of
// the original image. It is a pure function over the finalized object list;
// the counting pipeline does not depend on it. The ID label sits at
// (x, y-5) and is not clamped to the frame, so labels of objects touching
// the top border may fall outside the image.
func Render(original image.Image, objects []Object) *image.RGBA {
	if original == nil {
		return nil
	}
	b := original.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x-b.Min.X, y-b.Min.Y, original.At(x, y))
		}
	}

	for _, o := range objects {
		rect := image.Rect(o.X, o.Y, o.X+o.Width, o.Y+o.Height)
		utils.DrawRect(dst, rect, boxColor, 2)
		utils.DrawLabel(dst, strconv.Itoa(o.ID), o.X, o.Y-5, labelColor)
	}
	return dst
}
