// Package control is the runtime control surface shared by the window and
// terminal front ends. Keys map to an [Action]; [Controls.Do] applies an
// action to the view and the simulation.
//
//	c := control.New(renderer, sim)
//	if a, ok := control.Lookup("g"); ok {
//	    c.Do(a)
//	}
package control
