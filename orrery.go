// Package orrery simulates a toy planetary system in a 2D world.
//
// Bodies attract each other following Newton's law of gravitation and
// merge on contact, the heavier body absorbing the lighter one while
// conserving mass and momentum. Static bodies (suns) act on others but
// never move and are never absorbed. The simulation is single-threaded:
// one Tick advances every body once, in spawn order.
package orrery

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// A World owns the live set of bodies and advances them tick by tick.
type World struct {
	// G is the gravitational constant. It scales every pairwise force
	// and the orbital speeds derived from it.
	G float64

	paused bool
	seq    ID
	bodies []*Body      // live set, in spawn order
	index  map[ID]*Body // identity of the live set
}

// A Merge records one resolved collision: the loser was removed from
// the world and its mass folded into the winner.
type Merge struct {
	Winner ID
	Loser  ID
	Mass   float64 // winner's mass after the merge
}

// NewWorld returns an empty world using gravitational constant g.
func NewWorld(g float64) *World {
	return &World{G: g, index: make(map[ID]*Body)}
}

// Spawn validates b, assigns it a fresh ID and adds it to the world.
// The world takes ownership of b. Bodies with non-positive mass or
// radius are rejected, as is a body that was already spawned.
func (w *World) Spawn(b *Body) (ID, error) {
	if b == nil {
		return 0, errors.New("orrery: spawn of nil body")
	}
	if b.id != 0 {
		return 0, fmt.Errorf("orrery: body %d already spawned", b.id)
	}
	if b.Mass <= 0 {
		return 0, fmt.Errorf("orrery: non-positive mass %v", b.Mass)
	}
	if b.Radius <= 0 {
		return 0, fmt.Errorf("orrery: non-positive radius %v", b.Radius)
	}
	w.seq++
	b.id = w.seq
	w.bodies = append(w.bodies, b)
	w.index[b.id] = b
	return b.id, nil
}

// RemoveLast removes the most recently spawned body still alive.
// It refuses to empty the world: with one body or none it reports false.
func (w *World) RemoveLast() bool {
	if len(w.bodies) <= 1 {
		return false
	}
	w.remove(w.bodies[len(w.bodies)-1])
	return true
}

// SetPaused sets the pause state. While paused, Tick does not touch
// the bodies; Snapshot and spawning keep working.
func (w *World) SetPaused(v bool) { w.paused = v }

// TogglePaused flips the pause state and returns the new state.
func (w *World) TogglePaused() bool {
	w.paused = !w.paused
	return w.paused
}

// Paused reports whether the world is paused.
func (w *World) Paused() bool { return w.paused }

// Len returns the number of live bodies.
func (w *World) Len() int { return len(w.bodies) }

// Snapshot returns read-only copies of the live bodies in spawn order.
// It works in any pause state.
func (w *World) Snapshot() []View {
	out := make([]View, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = b.view()
	}
	return out
}

// Primary returns the most massive static body, if any.
// Spawners use it as the focus for circular orbits.
func (w *World) Primary() (View, bool) {
	var best *Body
	for _, b := range w.bodies {
		if b.Static && (best == nil || b.Mass > best.Mass) {
			best = b
		}
	}
	if best == nil {
		return View{}, false
	}
	return best.view(), true
}

// Tick advances the simulation by one step and returns the merges it
// resolved, in resolution order. While paused it is a no-op and
// returns nil.
func (w *World) Tick() []Merge {
	if w.paused {
		return nil
	}
	return w.Step()
}

// Step advances the simulation by one step regardless of the pause
// state. It backs single-stepping through a paused simulation.
func (w *World) Step() []Merge {
	var merges []Merge
	// Iterate over a snapshot of the live set: bodies removed by a merge
	// are skipped, bodies spawned mid-tick wait until the next tick.
	for _, b := range w.snapshot() {
		if !w.alive(b) {
			continue
		}
		w.update(b, &merges)
	}
	return merges
}

// update advances a single body: accumulate gravity from every other
// live body, resolving overlaps on the way, then integrate and record
// the trail point. Static bodies do not move and do not initiate
// merges; overlaps involving one are resolved by the moving partner.
func (w *World) update(b *Body, merges *[]Merge) {
	if b.Static {
		return
	}
	var force r2.Vec
	for _, o := range w.snapshot() {
		if o.id == b.id || !w.alive(o) {
			continue
		}
		d := r2.Sub(o.Pos, b.Pos)
		dist := r2.Norm(d)
		if dist == 0 {
			// Coincident centers: no direction to pull along.
			continue
		}
		if dist < b.Radius+o.Radius {
			if m, ok := w.merge(b, o); ok {
				*merges = append(*merges, m)
			}
			if !w.alive(b) {
				// b was absorbed; its update ends here.
				return
			}
			continue
		}
		f := w.G * b.Mass * o.Mass / (dist * dist)
		force = r2.Add(force, r2.Scale(f/dist, d))
	}
	b.Vel = r2.Add(b.Vel, r2.Scale(1/b.Mass, force))
	b.Pos = r2.Add(b.Pos, b.Vel)
	b.trail.push(b.Pos)
}

// merge resolves an overlap between a and b. Static bodies never
// lose: a collision whose loser would be static is left unresolved
// and merge reports false. That covers a lighter static body against
// a heavier moving one, and two static bodies against each other.
func (w *World) merge(a, b *Body) (Merge, bool) {
	win, lose := a, b
	if beats(lose, win) {
		win, lose = lose, win
	}
	if lose.Static {
		return Merge{}, false
	}
	// Momentum first: the weights are the masses before the merge.
	sum := win.Mass + lose.Mass
	win.Vel = r2.Scale(1/sum, r2.Add(r2.Scale(win.Mass, win.Vel), r2.Scale(lose.Mass, lose.Vel)))
	win.Mass = sum
	win.Radius = math.Sqrt(win.Radius*win.Radius + lose.Radius*lose.Radius)
	w.remove(lose)
	return Merge{Winner: win.id, Loser: lose.id, Mass: win.Mass}, true
}

// beats reports whether x absorbs y when the two overlap: the heavier
// body wins, a static body wins a tie against a moving one, and
// between equals the body spawned first wins.
func beats(x, y *Body) bool {
	if x.Mass != y.Mass {
		return x.Mass > y.Mass
	}
	if x.Static != y.Static {
		return x.Static
	}
	return x.id < y.id
}

// remove deletes b from the live set.
func (w *World) remove(b *Body) {
	delete(w.index, b.id)
	for i, o := range w.bodies {
		if o.id == b.id {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

// alive reports whether b is still part of the live set.
func (w *World) alive(b *Body) bool {
	_, ok := w.index[b.id]
	return ok
}

// snapshot returns a copy of the live set for safe iteration while
// merges mutate w.bodies. Each caller gets its own copy: the tick
// loop and the per-body scan it runs are both iterating when a merge
// removes a body.
func (w *World) snapshot() []*Body {
	out := make([]*Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}
