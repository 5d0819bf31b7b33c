package opengl

import "gonum.org/v1/gonum/spatial/r2"

// A Camera maps world coordinates to screen pixels:
//
//	screen = (world + Offset)·Zoom + screenCenter
//
// The screen origin is the top-left corner with y growing downward,
// matching the cursor coordinates reported by GLFW.
type Camera struct {
	Offset r2.Vec  // pan offset in world units
	Zoom   float64 // pixels per world unit
	Width  float64 // screen width in pixels
	Height float64 // screen height in pixels
}

// NewCamera returns a camera centered on the world origin at zoom 1.
func NewCamera(width, height int) Camera {
	return Camera{Zoom: 1, Width: float64(width), Height: float64(height)}
}

// WorldToScreen converts a world position to screen pixels.
func (c Camera) WorldToScreen(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(c.Zoom, r2.Add(p, c.Offset)), c.center())
}

// ScreenToWorld converts a screen position in pixels to world units.
func (c Camera) ScreenToWorld(p r2.Vec) r2.Vec {
	return r2.Sub(r2.Scale(1/c.Zoom, r2.Sub(p, c.center())), c.Offset)
}

// Pan shifts the view by a screen-pixel delta, so that dragging moves
// the world with the cursor.
func (c *Camera) Pan(dx, dy float64) {
	c.Offset = r2.Add(c.Offset, r2.Scale(1/c.Zoom, r2.Vec{X: dx, Y: dy}))
}

// ZoomAt scales the zoom by factor f, keeping the world point under
// the screen position at fixed. Non-positive factors are ignored.
func (c *Camera) ZoomAt(f float64, at r2.Vec) {
	if f <= 0 {
		return
	}
	w := c.ScreenToWorld(at)
	c.Zoom *= f
	c.Offset = r2.Sub(r2.Scale(1/c.Zoom, r2.Sub(at, c.center())), w)
}

// ZoomBy scales the zoom by factor f about the screen center.
func (c *Camera) ZoomBy(f float64) {
	c.ZoomAt(f, c.center())
}

// Reset recenters the world origin at zoom 1.
func (c *Camera) Reset() {
	c.Offset = r2.Vec{}
	c.Zoom = 1
}

// glTransform returns the scale and offset mapping world coordinates
// to normalized device coordinates: ndc = (world + offset)·scale.
// The y axis flips because NDC y grows upward.
func (c Camera) glTransform() (scale, offset r2.Vec) {
	return r2.Vec{X: 2 * c.Zoom / c.Width, Y: -2 * c.Zoom / c.Height}, c.Offset
}

func (c Camera) center() r2.Vec {
	return r2.Vec{X: c.Width / 2, Y: c.Height / 2}
}
