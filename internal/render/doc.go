// Package render draws a live N-body simulation onto a 2D surface.
//
// The frame pipeline pulls one snapshot of bodies per tick and paints, in
// order:
//
//   - the tiled background (realistic mode only)
//   - the camera-aligned reference grid
//   - every body back to front: its smoothed trail, then the body itself
//   - the pointer overlay previewing a body being authored
//
// A [Renderer] owns the view state ([Camera], [Settings], [PointerOverlay])
// and a [Scheduler] that drives frames at a fixed rate. Drawing goes through
// the backend-neutral [Surface] interface; [DisplayList] and [Buffered]
// record frames so window and terminal backends can replay them on their own
// thread.
//
// # Coordinates
//
// World coordinates map to the surface with
//
//	screen = (world - offset) * zoom
//	world  = offset + screen / zoom
//
// Pointer overlay coordinates are already in surface space.
package render
