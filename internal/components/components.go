// Package components labels connected foreground regions of a binary image
// and computes per-region statistics. Labeling is 8-connected and runs in
// time linear in the pixel count.
package components

import (
	"image"

	"github.com/MeKo-Tech/blobcount/internal/mempool"
	"github.com/MeKo-Tech/blobcount/internal/utils"
)

// Component is one labeled foreground region. The label reflects discovery
// order in a raster scan (top-to-bottom, left-to-right) starting at 1; the
// background is never emitted. Label values carry no meaning beyond
// distinctness and ordering of discovery.
type Component struct {
	Label    int
	Box      utils.Rect
	Area     int
	Centroid utils.Point
}

// eight-connected neighborhood
var neighbors = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Extract labels all 8-connected foreground components of a binary image
// (foreground = non-zero) and returns them in ascending label order with
// bounding box, pixel area, and mass centroid. No area filtering happens
// here; that is the caller's concern.
func Extract(binary *image.Gray) []Component {
	b := binary.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	mask := mempool.GetBool(w * h)
	defer mempool.PutBool(mask)
	for y := range h {
		row := binary.Pix[y*binary.Stride : y*binary.Stride+w]
		for x, v := range row {
			if v != 0 {
				mask[y*w+x] = true
			}
		}
	}

	labels := mempool.GetInt(w * h)
	defer mempool.PutInt(labels)

	var comps []Component
	queue := make([]int, 0, 256)
	label := 0

	for y := range h {
		for x := range w {
			idx := y*w + x
			if !mask[idx] || labels[idx] != 0 {
				continue
			}
			label++
			comps = append(comps, flood(mask, labels, queue, w, h, x, y, label))
		}
	}
	return comps
}

// flood grows one component from a seed pixel via BFS, accumulating its
// statistics along the way.
func flood(mask []bool, labels, queue []int, w, h, startX, startY, label int) Component {
	startIdx := startY*w + startX
	labels[startIdx] = label
	queue = append(queue[:0], startIdx)

	minX, minY := startX, startY
	maxX, maxY := startX, startY
	area := 0
	sumX, sumY := 0.0, 0.0

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		cx, cy := idx%w, idx/w

		area++
		sumX += float64(cx)
		sumY += float64(cy)
		if cx < minX {
			minX = cx
		}
		if cy < minY {
			minY = cy
		}
		if cx > maxX {
			maxX = cx
		}
		if cy > maxY {
			maxY = cy
		}

		for _, d := range neighbors {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			ni := ny*w + nx
			if mask[ni] && labels[ni] == 0 {
				labels[ni] = label
				queue = append(queue, ni)
			}
		}
	}

	return Component{
		Label: label,
		Box: utils.Rect{
			X:      minX,
			Y:      minY,
			Width:  maxX - minX + 1,
			Height: maxY - minY + 1,
		},
		Area:     area,
		Centroid: utils.Point{X: sumX / float64(area), Y: sumY / float64(area)},
	}
}
