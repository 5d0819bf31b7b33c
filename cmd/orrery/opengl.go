package main

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/orbworks/orrery"
	"github.com/orbworks/orrery/opengl"
)

// runOpenGL runs the simulation interactively in an OpenGL window.
func runOpenGL(conf *Config, w *orrery.World, sp *orrery.Spawner, log *zap.Logger) error {
	spawned := func(kind string) func(orrery.ID, error) {
		return func(id orrery.ID, err error) {
			if err != nil {
				log.Warn("spawn failed", zap.String("kind", kind), zap.Error(err))
				return
			}
			log.Debug("spawned", zap.String("kind", kind), zap.Uint64("id", uint64(id)))
		}
	}

	return opengl.Run(w, &opengl.Config{
		Title:       "Orrery",
		Width:       conf.WindowWidth,
		Height:      conf.WindowHeight,
		MaxBodies:   conf.MaxBodies,
		Step:        func() { logMerges(log, w.Tick()) },
		StepOnce:    func() { logMerges(log, w.Step()) },
		TogglePause: w.TogglePaused,
		Controls: &opengl.Controls{
			Planet:   func() { spawned("planet")(sp.AddPlanet()) },
			PlanetAt: func(pos r2.Vec) { spawned("planet")(sp.AddPlanetAt(pos)) },
			Asteroid: func() { spawned("asteroid")(sp.AddAsteroid()) },
			RemoveLast: func() {
				if w.RemoveLast() {
					log.Debug("removed last body", zap.Int("left", w.Len()))
				}
			},
		},
	})
}
