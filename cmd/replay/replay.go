// Command replay plays back a recorded simulation in an OpenGL window.
//
// Usage
//
// The replay command takes one required argument:
//  replay recording.h5
// It is the path to an HDF5 file written by the orrery command.
// Playback loops back to the first step after the last one.
//
// Interactive mode
//
// Playback can be paused and resumed with P or space. While in pause,
// pressing right arrow will advance a single frame.
// The right mouse button drags the view, the scroll wheel and the
// + and - keys zoom, and R or a middle click resets the camera.
// Pressing Esc or closing the window will quit.
package main

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/orbworks/orrery"
	"github.com/orbworks/orrery/hdf5"
	"github.com/orbworks/orrery/opengl"
)

const usage = `Usage: replay recording.h5

The only argument is required and is the path to an HDF5 recording
written by the orrery command.
`

// Window size of the playback viewer.
const (
	width  = 1200
	height = 800
)

func init() {
	// Most OpenGL functions have to run from the main thread.
	// This is needed to arrange that main() runs on main thread.
	// See https://github.com/golang/go/wiki/LockOSThread for more info.
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) != 2 {
		Fatal(fmt.Errorf("%d arguments provided (1 required)\n\n%s", len(os.Args)-1, usage))
	}

	log, err := zap.NewProduction()
	if err != nil {
		Fatal(err)
	}
	defer log.Sync()

	l, err := hdf5.NewLoader(os.Args[1])
	if err != nil {
		Fatal(err)
	}
	defer l.Close()

	log.Info("replaying",
		zap.String("input", os.Args[1]),
		zap.Int("steps", l.Steps()),
		zap.Int("max_bodies", l.MaxBodies()),
	)

	p := &player{loader: l, log: log}
	err = opengl.Run(p, &opengl.Config{
		Title:     "Orrery replay",
		Width:     width,
		Height:    height,
		MaxBodies: l.MaxBodies(),
		Step:      p.step,
	})
	if err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// A player feeds recorded frames to the viewer one step at a time.
type player struct {
	loader *hdf5.Loader
	log    *zap.Logger
	views  []orrery.View
}

// Snapshot returns the frame the player is on.
func (p *player) Snapshot() []orrery.View { return p.views }

// step advances the player to the next recorded frame.
func (p *player) step() {
	views, err := p.loader.Next()
	if err != nil {
		p.log.Warn("replay read failed", zap.Error(err))
		return
	}
	p.views = views
}
