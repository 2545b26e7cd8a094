package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultGridSize is the grid cell size in world units.
const DefaultGridSize = 50.0

// GridLines returns how many vertical and horizontal lines cover a viewport.
// Two extra lines per axis keep the edges covered while panning.
func GridLines(viewW, viewH, cell float64) (vertical, horizontal int) {
	return int(math.Ceil(viewW/cell)) + 2, int(math.Ceil(viewH/cell)) + 2
}

// gridShift is the scroll offset of line 0 along one axis. math.Mod keeps the
// sign of the offset so the grid scrolls the same way on both sides of zero.
func gridShift(offset, cell float64) float64 {
	return -(cell + math.Mod(offset, cell))
}

// DrawGrid draws a camera-aligned reference grid across the whole surface.
func DrawGrid(s Surface, cam Camera, cell float64) {
	if cell <= 0 {
		cell = DefaultGridSize
	}
	w, h := s.Size()
	cols, rows := GridLines(w, h, cell)

	dx := gridShift(cam.Offset.X, cell)
	for i := cols - 1; i >= 0; i-- {
		x := float64(i)*cell + dx
		s.StrokeLine(r2.Vec{X: x, Y: 0}, r2.Vec{X: x, Y: h}, 1, ColGrid)
	}

	dy := gridShift(cam.Offset.Y, cell)
	for i := rows - 1; i >= 0; i-- {
		y := float64(i)*cell + dy
		s.StrokeLine(r2.Vec{X: 0, Y: y}, r2.Vec{X: w, Y: y}, 1, ColGrid)
	}
}
