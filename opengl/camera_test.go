package opengl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestCameraTransform(t *testing.T) {
	t.Run("origin maps to the screen center", func(t *testing.T) {
		c := NewCamera(1200, 800)
		s := c.WorldToScreen(r2.Vec{})
		assert.Equal(t, r2.Vec{X: 600, Y: 400}, s)
	})

	t.Run("round trip", func(t *testing.T) {
		c := NewCamera(1200, 800)
		c.Pan(35, -18)
		c.ZoomBy(2.5)
		p := r2.Vec{X: -321.5, Y: 87.25}
		got := c.ScreenToWorld(c.WorldToScreen(p))
		assert.InDelta(t, p.X, got.X, 1e-9)
		assert.InDelta(t, p.Y, got.Y, 1e-9)
	})

	t.Run("zoom scales distances from the center", func(t *testing.T) {
		c := NewCamera(1000, 1000)
		c.ZoomBy(2)
		s := c.WorldToScreen(r2.Vec{X: 10})
		assert.Equal(t, r2.Vec{X: 520, Y: 500}, s)
	})
}

func TestCameraPan(t *testing.T) {
	c := NewCamera(1200, 800)
	before := c.WorldToScreen(r2.Vec{X: 50, Y: 50})
	c.Pan(100, -40)
	after := c.WorldToScreen(r2.Vec{X: 50, Y: 50})
	assert.InDelta(t, before.X+100, after.X, 1e-9)
	assert.InDelta(t, before.Y-40, after.Y, 1e-9)

	// Pan distance in world units shrinks as the zoom grows.
	c.Reset()
	c.ZoomBy(4)
	c.Pan(100, 0)
	assert.InDelta(t, 25, c.Offset.X, 1e-9)
}

func TestCameraZoomAt(t *testing.T) {
	t.Run("cursor position is a fixed point", func(t *testing.T) {
		c := NewCamera(1200, 800)
		c.Pan(-77, 13)
		at := r2.Vec{X: 900, Y: 120}
		w := c.ScreenToWorld(at)
		for _, f := range []float64{1.1, 1.1, 0.5, 3} {
			c.ZoomAt(f, at)
			got := c.WorldToScreen(w)
			assert.InDelta(t, at.X, got.X, 1e-6)
			assert.InDelta(t, at.Y, got.Y, 1e-6)
		}
	})

	t.Run("ignores non-positive factors", func(t *testing.T) {
		c := NewCamera(800, 600)
		c.ZoomAt(0, r2.Vec{X: 10, Y: 10})
		c.ZoomAt(-2, r2.Vec{X: 10, Y: 10})
		assert.Equal(t, 1.0, c.Zoom)
	})
}

func TestCameraReset(t *testing.T) {
	c := NewCamera(800, 600)
	c.Pan(123, 456)
	c.ZoomBy(0.25)
	c.Reset()
	assert.Equal(t, r2.Vec{}, c.Offset)
	assert.Equal(t, 1.0, c.Zoom)
	assert.Equal(t, r2.Vec{X: 400, Y: 300}, c.WorldToScreen(r2.Vec{}))
}

func TestCameraGLTransform(t *testing.T) {
	c := NewCamera(1200, 800)
	c.Pan(10, 20)
	scale, off := c.glTransform()

	// A world point on screen at (x, y) must land at the same point
	// expressed in normalized device coordinates, with y flipped.
	p := r2.Vec{X: 123, Y: -45}
	s := c.WorldToScreen(p)
	ndc := r2.Add(p, off)
	ndc = r2.Vec{X: ndc.X * scale.X, Y: ndc.Y * scale.Y}
	assert.InDelta(t, 2*s.X/c.Width-1, ndc.X, 1e-9)
	assert.InDelta(t, 1-2*s.Y/c.Height, ndc.Y, 1e-9)
}
