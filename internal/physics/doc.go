// Package physics provides the gravitational model behind the viewer.
//
// [Gravity] implements [dynamo.System] and [dynamo.Hamiltonian] for a set of
// point masses in the plane. Accelerations come from gonum's Barnes-Hut
// quadtree when Theta is positive, or from an exact pairwise sum when it is
// zero. Softening keeps close encounters finite.
//
//	g := physics.NewGravity(masses, 1, 0.01, 0.5)
//	x := physics.Pack(positions, velocities)
//	x = integrator.Step(g, x, t, dt)
//	energy := g.Energy(x)
package physics
