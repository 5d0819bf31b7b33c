package opengl

import (
	"github.com/orbworks/orrery"
	"gonum.org/v1/gonum/spatial/r2"
)

// A Source yields the bodies drawn each frame.
type Source interface {
	Snapshot() []orrery.View
}

// Controls binds interactive spawn and remove commands to the viewer.
// A nil function leaves its key unbound.
type Controls struct {
	Planet     func()           // A: planet on a random orbit
	PlanetAt   func(pos r2.Vec) // left click: planet at the cursor
	Asteroid   func()           // S: drifting asteroid
	RemoveLast func()           // D: remove the newest body
}

// Config holds the parameters of the OpenGL viewer.
type Config struct {
	Title     string
	Width     int     // window width in pixels
	Height    int     // window height in pixels
	MaxBodies int     // drawing buffer capacity; extra bodies are not drawn
	MinPixels float64 // smallest on-screen body radius; 0 means 2

	// Camera is the initial view. The zero value is replaced by a
	// camera centered on the origin at zoom 1.
	Camera Camera

	// Step advances the source by one frame. It runs on every loop
	// iteration; when TogglePause is set, pausing is the source's
	// business, otherwise the viewer stops calling Step while paused.
	Step func()

	// TogglePause flips the simulation's own pause state and reports
	// the new state. When nil the viewer pauses locally.
	TogglePause func() bool

	// StepOnce advances exactly one step of a paused simulation.
	// When nil, Step is used.
	StepOnce func()

	// Controls binds interactive commands; nil disables them all.
	Controls *Controls
}
