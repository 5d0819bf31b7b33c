//go:build !nogl

package opengl

import (
	"fmt"
	"math"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"gonum.org/v1/gonum/spatial/r2"
)

// zoomStep is the zoom factor of one key press or one scroll notch.
const zoomStep = 1.1

// Run opens a window and draws src until the window is closed.
// It must run on the main thread.
func Run(src Source, conf *Config) error {
	// init GLFW and OpenGL
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	w, err := glfw.CreateWindow(conf.Width, conf.Height, conf.Title, nil, nil)
	if err != nil {
		return err
	}
	w.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return err
	}
	glfw.SwapInterval(1) // pace the loop at the display rate

	// set background color and enable alpha blending
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	w.SwapBuffers()

	// initialize OpenGL objects
	minPixels := conf.MinPixels
	if minPixels <= 0 {
		minPixels = 2
	}
	d, err := newDisplay(conf.MaxBodies, minPixels)
	if err != nil {
		return err
	}

	cam := conf.Camera
	if cam.Zoom == 0 {
		cam = NewCamera(conf.Width, conf.Height)
	}
	ctl := conf.Controls
	if ctl == nil {
		ctl = &Controls{}
	}

	var (
		quit     bool
		paused   bool
		stepOnce bool
		dragging bool
		last     r2.Vec // cursor position at the last drag event
	)
	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press && !(key == glfw.KeyRight && action == glfw.Repeat) {
			return
		}
		switch key {
		case glfw.KeyEscape:
			quit = true
		case glfw.KeyP, glfw.KeySpace:
			if conf.TogglePause != nil {
				paused = conf.TogglePause()
			} else {
				paused = !paused
			}
		case glfw.KeyRight:
			stepOnce = true
		case glfw.KeyA:
			if ctl.Planet != nil {
				ctl.Planet()
			}
		case glfw.KeyS:
			if ctl.Asteroid != nil {
				ctl.Asteroid()
			}
		case glfw.KeyD:
			if ctl.RemoveLast != nil {
				ctl.RemoveLast()
			}
		case glfw.KeyR:
			cam.Reset()
		case glfw.KeyEqual, glfw.KeyKPAdd:
			cam.ZoomBy(zoomStep)
		case glfw.KeyMinus, glfw.KeyKPSubtract:
			cam.ZoomBy(1 / zoomStep)
		}
	})

	w.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		switch {
		case button == glfw.MouseButtonLeft && action == glfw.Press:
			if ctl.PlanetAt != nil {
				x, y := w.GetCursorPos()
				ctl.PlanetAt(cam.ScreenToWorld(r2.Vec{X: x, Y: y}))
			}
		case button == glfw.MouseButtonMiddle && action == glfw.Press:
			cam.Reset()
		case button == glfw.MouseButtonRight:
			dragging = action == glfw.Press
			if dragging {
				x, y := w.GetCursorPos()
				last = r2.Vec{X: x, Y: y}
			}
		}
	})

	w.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		if !dragging {
			return
		}
		cam.Pan(x-last.X, y-last.Y)
		last = r2.Vec{X: x, Y: y}
	})

	w.SetScrollCallback(func(w *glfw.Window, _, yo float64) {
		x, y := w.GetCursorPos()
		cam.ZoomAt(math.Pow(zoomStep, yo), r2.Vec{X: x, Y: y})
	})

	var lastTitle string
	for !(quit || w.ShouldClose()) {
		if stepOnce {
			stepOnce = false
			if paused {
				if conf.StepOnce != nil {
					conf.StepOnce()
				} else {
					conf.Step()
				}
			}
		}
		// With TogglePause set the simulation gates itself while paused.
		if conf.TogglePause != nil || !paused {
			conf.Step()
		}

		views := src.Snapshot()
		d.draw(views, cam)
		w.SwapBuffers()
		glfw.PollEvents()

		title := fmt.Sprintf("%s (%d bodies)", conf.Title, len(views))
		if paused {
			title += " [paused]"
		}
		if title != lastTitle {
			w.SetTitle(title)
			lastTitle = title
		}
	}
	return nil
}
