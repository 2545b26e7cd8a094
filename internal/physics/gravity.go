package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/dynamo"
)

// Gravity is softened Newtonian gravity between point masses.
// State: [x0, y0, ..., xn, yn, vx0, vy0, ..., vxn, vyn]
//
// With Theta > 0 accelerations come from a Barnes-Hut quadtree; Theta 0
// sums every pair exactly.
type Gravity struct {
	Masses    []float64
	G         float64
	Softening float64
	Theta     float64

	particles []*particle
	plane     barneshut.Plane
}

// parallelChunk is the smallest number of bodies worth a goroutine.
const parallelChunk = 64

type particle struct {
	pos  r2.Vec
	mass float64
}

func (p *particle) Coord2() r2.Vec { return p.pos }
func (p *particle) Mass() float64  { return p.mass }

func NewGravity(masses []float64, g, softening, theta float64) *Gravity {
	return &Gravity{
		Masses:    append([]float64(nil), masses...),
		G:         g,
		Softening: softening,
		Theta:     theta,
	}
}

func (g *Gravity) StateDim() int { return len(g.Masses) * 4 }

// Pack lays positions and velocities out as a state vector.
func Pack(pos, vel []r2.Vec) dynamo.State {
	n := len(pos)
	x := make(dynamo.State, n*4)
	for i := 0; i < n; i++ {
		x[i*2], x[i*2+1] = pos[i].X, pos[i].Y
		x[2*n+i*2], x[2*n+i*2+1] = vel[i].X, vel[i].Y
	}
	return x
}

// Position returns body i's position in x.
func Position(x dynamo.State, i int) r2.Vec {
	return r2.Vec{X: x[i*2], Y: x[i*2+1]}
}

// Velocity returns body i's velocity in x.
func Velocity(x dynamo.State, i int) r2.Vec {
	half := len(x) / 2
	return r2.Vec{X: x[half+i*2], Y: x[half+i*2+1]}
}

// accel is a barneshut.Force2 that returns the acceleration of p1 due to m2
// rather than a force, so massless bodies need no special casing. For a
// single particle p2 the separation is taken from the coordinates: the tree
// stores a leaf's centre divided by its mass.
func (g *Gravity) accel(p1, p2 barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
	if p2 != nil {
		if p1 == p2 {
			return r2.Vec{}
		}
		v = r2.Sub(p2.Coord2(), p1.Coord2())
	}
	d2 := v.X*v.X + v.Y*v.Y + g.Softening*g.Softening
	if d2 == 0 {
		return r2.Vec{}
	}
	return r2.Scale(g.G*m2/(d2*math.Sqrt(d2)), v)
}

func (g *Gravity) syncParticles(x dynamo.State) {
	n := len(g.Masses)
	if len(g.particles) != n {
		g.particles = make([]*particle, n)
		g.plane.Particles = make([]barneshut.Particle2, n)
		for i := range g.particles {
			g.particles[i] = &particle{}
			g.plane.Particles[i] = g.particles[i]
		}
	}
	for i, p := range g.particles {
		p.pos = Position(x, i)
		p.mass = g.Masses[i]
	}
}

func (g *Gravity) Derive(x dynamo.State, _ float64) dynamo.State {
	n := len(g.Masses)
	dx := make(dynamo.State, len(x))
	half := n * 2
	copy(dx[:half], x[half:])

	g.syncParticles(x)
	set := func(i int, a r2.Vec) { dx[half+i*2], dx[half+i*2+1] = a.X, a.Y }

	if g.Theta > 0 && n > 1 {
		if err := g.plane.Reset(); err == nil {
			dynamo.ParallelFor(n, parallelChunk, func(start, end int) {
				for i := start; i < end; i++ {
					set(i, g.plane.ForceOn(g.particles[i], g.Theta, g.accel))
				}
			})
			return dx
		}
	}

	dynamo.ParallelFor(n, parallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			p := g.particles[i]
			var a r2.Vec
			for j, q := range g.particles {
				if i == j {
					continue
				}
				a = r2.Add(a, g.accel(p, q, p.mass, q.mass, r2.Sub(q.pos, p.pos)))
			}
			set(i, a)
		}
	})
	return dx
}

// Energy is the total kinetic plus softened potential energy.
func (g *Gravity) Energy(x dynamo.State) float64 {
	n := len(g.Masses)
	ke, pe := 0.0, 0.0
	eps2 := g.Softening * g.Softening

	for i := 0; i < n; i++ {
		v := Velocity(x, i)
		ke += 0.5 * g.Masses[i] * r2.Dot(v, v)

		pi := Position(x, i)
		for j := i + 1; j < n; j++ {
			d := r2.Sub(Position(x, j), pi)
			r := math.Sqrt(r2.Dot(d, d) + eps2)
			if r == 0 {
				continue
			}
			pe -= g.G * g.Masses[i] * g.Masses[j] / r
		}
	}
	return ke + pe
}

func (g *Gravity) Momentum(x dynamo.State) r2.Vec {
	var p r2.Vec
	for i, m := range g.Masses {
		p = r2.Add(p, r2.Scale(m, Velocity(x, i)))
	}
	return p
}

func (g *Gravity) AngularMomentum(x dynamo.State) float64 {
	L := 0.0
	for i, m := range g.Masses {
		L += m * r2.Cross(Position(x, i), Velocity(x, i))
	}
	return L
}
