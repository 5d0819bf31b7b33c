package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds the various parameters required for running a simulation.
type Config struct {
	// Output is either a filename (path) for the HDF5 output file,
	// or the empty string for an interactive OpenGL simulation.
	Output string
	Steps  int // number of recorded time steps (hdf5 only)

	Seed  int64 // PRNG seed; 0 means seed from the clock
	Debug bool  // log at debug level

	G float64 // gravitational constant

	// Initial population
	Planets   int // planets spawned at startup
	Asteroids int // asteroids spawned at startup

	// Asteroids spawn uniformly within ±WorldWidth and ±WorldHeight
	// of the origin.
	WorldWidth  float64 // unit: world units
	WorldHeight float64 // unit: world units

	// Sun parameters
	SunMass   float64
	SunRadius float64 // unit: world units

	// Planet parameters
	PlanetMass   float64
	PlanetRadius float64 // unit: world units
	OrbitMin     float64 // closest random orbit radius
	OrbitMax     float64 // farthest random orbit radius

	// Asteroid parameters
	AsteroidMass   float64
	AsteroidRadius float64 // unit: world units
	AsteroidDrift  float64 // largest velocity component at spawn

	// Window parameters (interactive mode)
	WindowWidth  int // unit: pixels
	WindowHeight int // unit: pixels

	// MaxBodies bounds the drawing buffers and the rows recorded per step.
	MaxBodies int
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Output:         "",
	Steps:          3600,
	Seed:           0,
	G:              0.66743,
	Planets:        6,
	Asteroids:      20,
	WorldWidth:     1200,
	WorldHeight:    800,
	SunMass:        10000,
	SunRadius:      20,
	PlanetMass:     5,
	PlanetRadius:   6,
	OrbitMin:       100,
	OrbitMax:       400,
	AsteroidMass:   1,
	AsteroidRadius: 3,
	AsteroidDrift:  2,
	WindowWidth:    1200,
	WindowHeight:   800,
	MaxBodies:      256,
}

// ParseConfig parses the TOML config file whose path is provided.
func ParseConfig(path string) (*Config, error) {
	// config file overwrites default parameters
	conf := *DefaultConf
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return nil, err
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// validate rejects parameters the simulation cannot run with.
func (conf *Config) validate() error {
	switch {
	case conf.G <= 0:
		return fmt.Errorf("config: G must be positive")
	case conf.SunMass <= 0 || conf.PlanetMass <= 0 || conf.AsteroidMass <= 0:
		return fmt.Errorf("config: masses must be positive")
	case conf.SunRadius <= 0 || conf.PlanetRadius <= 0 || conf.AsteroidRadius <= 0:
		return fmt.Errorf("config: radii must be positive")
	case conf.WorldWidth <= 0 || conf.WorldHeight <= 0:
		return fmt.Errorf("config: world extents must be positive")
	case conf.OrbitMin <= 0 || conf.OrbitMax < conf.OrbitMin:
		return fmt.Errorf("config: orbit range must be positive and ordered")
	case conf.AsteroidDrift < 0:
		return fmt.Errorf("config: asteroid drift must not be negative")
	case conf.Planets < 0 || conf.Asteroids < 0:
		return fmt.Errorf("config: initial population must not be negative")
	case conf.MaxBodies <= 0:
		return fmt.Errorf("config: max bodies must be positive")
	case conf.Output != "" && conf.Steps <= 0:
		return fmt.Errorf("config: steps must be positive when recording")
	case conf.Output == "" && (conf.WindowWidth <= 0 || conf.WindowHeight <= 0):
		return fmt.Errorf("config: window size must be positive")
	}
	return nil
}
