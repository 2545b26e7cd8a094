package integrators

import "github.com/san-kum/spacetime/internal/dynamo"

// The symplectic integrators below expect states laid out as all positions
// followed by all velocities, with the system's derivative following the same
// layout (velocities, then accelerations).

// Verlet is velocity Verlet: a full position update from the current
// acceleration, then a velocity update from the average of old and new.
type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	a0 := dyn.Derive(x, t)
	for i := 0; i < half; i++ {
		result[i] = x[i] + x[half+i]*dt + 0.5*a0[half+i]*dt*dt
		v.scratch[i] = result[i]
		v.scratch[half+i] = x[half+i]
	}

	a1 := dyn.Derive(v.scratch, t+dt)
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + 0.5*(a0[half+i]+a1[half+i])*dt
	}
	return result
}

// Leapfrog is kick-drift-kick leapfrog.
type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(l.scratch) != n {
		l.scratch = make(dynamo.State, n)
	}

	a0 := dyn.Derive(x, t)
	result := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		vHalf := x[half+i] + 0.5*dt*a0[half+i]
		result[i] = x[i] + vHalf*dt
		l.scratch[i] = result[i]
		l.scratch[half+i] = vHalf
	}

	a1 := dyn.Derive(l.scratch, t+dt)
	for i := 0; i < half; i++ {
		result[half+i] = l.scratch[half+i] + 0.5*dt*a1[half+i]
	}
	return result
}
