// Package dynamo provides the numerical primitives the simulation is built on.
//
//   - [State]: flat state vector
//   - [System]: ODE right-hand side dX/dt = f(X, t)
//   - [Integrator]: advances a State by one timestep
//   - [Hamiltonian]: systems that can report their total energy
//
// Values are NOT safe for concurrent use; callers serialise access.
package dynamo
