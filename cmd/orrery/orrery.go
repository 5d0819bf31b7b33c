// Command orrery runs a toy solar system: bodies attract each other
// following Newton's law of gravitation and merge on contact.
//
// Usage
//
// The orrery command takes one optional argument:
//  orrery [config_file]
// It is the path to a TOML config file.
// If no config file is specified, an interactive simulation
// with default parameters will run in an OpenGL window.
// If the config file sets Output, the simulation instead runs headless
// and records every step to that HDF5 file.
//
// Config file
//
// The config file is written in TOML. If you are not familiar with TOML, fear not!
// It's basically a modern version of INI. Very very simple.
// See https://github.com/toml-lang/toml for the full language spec.
//
// Interactive mode
//
// The simulation can be paused and resumed with P or space. While in
// pause, pressing right arrow will perform a single step.
// A spawns a planet on a random circular orbit, S spawns a drifting
// asteroid, D removes the most recently spawned body, and a left click
// spawns a planet at the cursor.
// The right mouse button drags the view, the scroll wheel and the
// + and - keys zoom, and R or a middle click resets the camera.
// Pressing Esc or closing the window will quit.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/orbworks/orrery"
)

const usage = `Usage: orrery [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, an interactive simulation
with default parameters will run in an OpenGL window.
`

func init() {
	// Most OpenGL functions have to run from the main thread.
	// This is needed to arrange that main() runs on main thread.
	// See https://github.com/golang/go/wiki/LockOSThread for more info.
	runtime.LockOSThread()
}

func main() {
	var conf *Config
	var err error
	switch len(os.Args) {
	case 1:
		conf = DefaultConf
	case 2:
		conf, err = ParseConfig(os.Args[1])
	default:
		err = fmt.Errorf("%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}

	log, err := newLogger(conf.Debug)
	if err != nil {
		Fatal(err)
	}
	defer log.Sync()

	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info("starting",
		zap.Int64("seed", seed),
		zap.Float64("g", conf.G),
		zap.Int("planets", conf.Planets),
		zap.Int("asteroids", conf.Asteroids),
	)

	w, sp, err := setup(conf, rand.New(rand.NewSource(seed)))
	if err != nil {
		Fatal(err)
	}

	// run interactively or record depending on config
	if conf.Output == "" {
		err = runOpenGL(conf, w, sp, log)
	} else {
		err = record(conf, w, log)
	}
	if err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// newLogger builds the process logger.
func newLogger(debug bool) (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	if debug {
		c = zap.NewDevelopmentConfig()
	}
	return c.Build()
}

// setup creates the world and spawns its initial population: the sun,
// then the configured numbers of planets and asteroids.
func setup(conf *Config, rng *rand.Rand) (*orrery.World, *orrery.Spawner, error) {
	w := orrery.NewWorld(conf.G)
	sp := &orrery.Spawner{
		World:    w,
		Rand:     rng,
		Extent:   r2.Vec{X: conf.WorldWidth, Y: conf.WorldHeight},
		OrbitMin: conf.OrbitMin,
		OrbitMax: conf.OrbitMax,
		DriftMax: conf.AsteroidDrift,
		Sun:      orrery.Class{Radius: conf.SunRadius, Mass: conf.SunMass, Color: [4]float32{1, 0.8, 0, 1}},
		Planet:   orrery.Class{Radius: conf.PlanetRadius, Mass: conf.PlanetMass, Color: [4]float32{0, 0.59, 1, 1}},
		Asteroid: orrery.Class{Radius: conf.AsteroidRadius, Mass: conf.AsteroidMass, Color: [4]float32{0.59, 0.59, 0.59, 1}},
	}
	if _, err := sp.AddSun(); err != nil {
		return nil, nil, err
	}
	for i := 0; i < conf.Planets; i++ {
		if _, err := sp.AddPlanet(); err != nil {
			return nil, nil, err
		}
	}
	for i := 0; i < conf.Asteroids; i++ {
		if _, err := sp.AddAsteroid(); err != nil {
			return nil, nil, err
		}
	}
	return w, sp, nil
}

// logMerges reports resolved merges through the logger.
func logMerges(log *zap.Logger, merges []orrery.Merge) {
	for _, m := range merges {
		log.Info("merge",
			zap.Uint64("winner", uint64(m.Winner)),
			zap.Uint64("loser", uint64(m.Loser)),
			zap.Float64("mass", m.Mass),
		)
	}
}
