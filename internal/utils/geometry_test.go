package utils

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect_ToImageRect(t *testing.T) {
	r := Rect{X: 3, Y: 4, Width: 10, Height: 20}
	assert.Equal(t, image.Rect(3, 4, 13, 24), r.ToImageRect())
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}

	assert.True(t, r.Contains(0, 0))
	assert.True(t, r.Contains(9, 9))
	assert.False(t, r.Contains(10, 9), "right edge is exclusive")
	assert.False(t, r.Contains(9, 10), "bottom edge is exclusive")
	assert.False(t, r.Contains(-1, 5))
}

func TestRect_Center(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 20}
	c := r.Center()
	assert.InDelta(t, 5.0, c.X, 1e-9)
	assert.InDelta(t, 10.0, c.Y, 1e-9)
}

func TestRect_CenterOddSizes(t *testing.T) {
	r := Rect{X: 2, Y: 2, Width: 3, Height: 5}
	c := r.Center()
	assert.InDelta(t, 3.5, c.X, 1e-9)
	assert.InDelta(t, 4.5, c.Y, 1e-9)
}
