package orrery

import "gonum.org/v1/gonum/spatial/r2"

// TrailCap is the number of past positions kept per body.
const TrailCap = 150

// An ID uniquely identifies a body within a World.
// IDs are assigned at spawn time and never reused. The zero ID
// marks a Body that has not been spawned yet.
type ID uint64

// A Body is one simulated mass. Callers fill in the exported fields
// and hand the Body to World.Spawn, which adopts it: from then on the
// world owns the Body and mutates it on every tick.
type Body struct {
	Pos    r2.Vec     // center, world units
	Vel    r2.Vec     // world units per tick
	Radius float64    // collision and display radius, world units
	Mass   float64    // strictly positive
	Static bool       // pinned: never moves, never absorbed
	Color  [4]float32 // RGBA display color

	id    ID
	trail trail
}

// ID returns the identity assigned at spawn time, or 0 if the body
// has not been spawned.
func (b *Body) ID() ID { return b.id }

// Trail returns a copy of the body's recent positions, oldest first.
func (b *Body) Trail() []r2.Vec { return b.trail.positions() }

// view returns a read-only copy of the body.
func (b *Body) view() View {
	return View{
		ID:     b.id,
		Pos:    b.Pos,
		Vel:    b.Vel,
		Radius: b.Radius,
		Mass:   b.Mass,
		Static: b.Static,
		Color:  b.Color,
		Trail:  b.trail.positions(),
	}
}

// A View is a read-only copy of a live body at a point in time.
type View struct {
	ID     ID
	Pos    r2.Vec
	Vel    r2.Vec
	Radius float64
	Mass   float64
	Static bool
	Color  [4]float32
	Trail  []r2.Vec // recent positions, oldest first
}

// A trail is a fixed-capacity ring of past positions.
// Once full, pushing a new position evicts the oldest.
type trail struct {
	buf  [TrailCap]r2.Vec
	head int // index of the oldest position
	n    int
}

func (t *trail) push(p r2.Vec) {
	if t.n < TrailCap {
		t.buf[(t.head+t.n)%TrailCap] = p
		t.n++
		return
	}
	t.buf[t.head] = p
	t.head = (t.head + 1) % TrailCap
}

// positions returns the stored positions in chronological order.
func (t *trail) positions() []r2.Vec {
	if t.n == 0 {
		return nil
	}
	out := make([]r2.Vec, t.n)
	for i := 0; i < t.n; i++ {
		out[i] = t.buf[(t.head+i)%TrailCap]
	}
	return out
}
