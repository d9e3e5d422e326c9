package utils

import "image"

// Point represents a 2D coordinate in float space.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle in pixel coordinates, origin top-left.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ToImageRect converts a Rect to an image.Rectangle.
func (r Rect) ToImageRect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Contains reports whether the pixel (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Center returns the geometric center of the rectangle.
// Note this is the bounding-box center, not the mass centroid.
func (r Rect) Center() Point {
	return Point{
		X: float64(r.X) + float64(r.Width)/2,
		Y: float64(r.Y) + float64(r.Height)/2,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
