package counter

import "github.com/MeKo-Tech/blobcount/internal/components"

// filterAndAggregate drops components at or below the minimum area and
// assigns sequential IDs in the order the components were labeled (raster
// scan order). The returned slice is never nil so the JSON projection is an
// empty array rather than null.
func filterAndAggregate(raw []components.Component, minArea int) ([]Object, Statistics) {
	objects := make([]Object, 0, len(raw))
	for _, c := range raw {
		if c.Area <= minArea {
			continue
		}
		objects = append(objects, Object{
			ID:       len(objects) + 1,
			X:        c.Box.X,
			Y:        c.Box.Y,
			Width:    c.Box.Width,
			Height:   c.Box.Height,
			Area:     c.Area,
			Centroid: [2]float64{c.Centroid.X, c.Centroid.Y},
		})
	}

	areas := make([]int, len(objects))
	for i, o := range objects {
		areas[i] = o.Area
	}
	return objects, areaStatistics(areas)
}
