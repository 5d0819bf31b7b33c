package orrery

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// A Class holds the spawn-time parameters shared by bodies of one kind.
type Class struct {
	Radius float64
	Mass   float64
	Color  [4]float32
}

// A Spawner constructs suns, planets and asteroids and inserts them
// into a world. Planets are seeded on circular orbits around the
// world's primary; asteroids drift from random positions.
type Spawner struct {
	World *World
	Rand  *rand.Rand

	Extent   r2.Vec  // asteroid placement half-extents per axis
	OrbitMin float64 // closest planet orbit radius
	OrbitMax float64 // farthest planet orbit radius
	DriftMax float64 // largest asteroid velocity component

	Sun      Class
	Planet   Class
	Asteroid Class
}

// AddSun spawns the static central mass at the origin.
func (sp *Spawner) AddSun() (ID, error) {
	return sp.World.Spawn(&Body{
		Radius: sp.Sun.Radius,
		Mass:   sp.Sun.Mass,
		Static: true,
		Color:  sp.Sun.Color,
	})
}

// AddPlanet spawns a planet at a random angle and a random distance in
// [OrbitMin, OrbitMax] from the origin, on a circular orbit around the
// primary.
func (sp *Spawner) AddPlanet() (ID, error) {
	θ := 2 * math.Pi * sp.Rand.Float64()
	d := sp.OrbitMin + (sp.OrbitMax-sp.OrbitMin)*sp.Rand.Float64()
	sin, cos := math.Sincos(θ)
	return sp.AddPlanetAt(r2.Vec{X: d * cos, Y: d * sin})
}

// AddPlanetAt spawns a planet at pos with the speed of a circular
// orbit around the primary, √(G·M/d), directed perpendicular to the
// body's own radius vector (counterclockwise). It fails when the world
// has no primary or pos coincides with it.
func (sp *Spawner) AddPlanetAt(pos r2.Vec) (ID, error) {
	sun, ok := sp.World.Primary()
	if !ok {
		return 0, errors.New("orrery: no primary to orbit")
	}
	rel := r2.Sub(pos, sun.Pos)
	d := r2.Norm(rel)
	if d == 0 {
		return 0, errors.New("orrery: planet coincides with the primary")
	}
	v := math.Sqrt(sp.World.G * sun.Mass / d)
	return sp.World.Spawn(&Body{
		Pos:    pos,
		Vel:    r2.Scale(v/d, r2.Vec{X: -rel.Y, Y: rel.X}),
		Radius: sp.Planet.Radius,
		Mass:   sp.Planet.Mass,
		Color:  sp.Planet.Color,
	})
}

// AddAsteroid spawns an asteroid at a uniform random position within
// ±Extent with a small random drift.
func (sp *Spawner) AddAsteroid() (ID, error) {
	return sp.World.Spawn(&Body{
		Pos: r2.Vec{
			X: sp.uniform(-sp.Extent.X, sp.Extent.X),
			Y: sp.uniform(-sp.Extent.Y, sp.Extent.Y),
		},
		Vel: r2.Vec{
			X: sp.uniform(-sp.DriftMax, sp.DriftMax),
			Y: sp.uniform(-sp.DriftMax, sp.DriftMax),
		},
		Radius: sp.Asteroid.Radius,
		Mass:   sp.Asteroid.Mass,
		Color:  sp.Asteroid.Color,
	})
}

func (sp *Spawner) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*sp.Rand.Float64()
}
