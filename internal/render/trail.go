package render

import "gonum.org/v1/gonum/spatial/r2"

// minTrailPoints is the shortest path worth smoothing.
const minTrailPoints = 4

// TrailPath builds the smoothed screen-space curve for a chronological world
// path. Interior points act as control points with the curve passing through
// the midpoints between them; the last segment lands exactly on the newest
// point. Returns nil for paths shorter than four points.
func TrailPath(cam Camera, path []r2.Vec) *Path {
	n := len(path)
	if n < minTrailPoints {
		return nil
	}

	p := &Path{Segments: make([]QuadSegment, 0, n-2)}
	p.MoveTo(cam.WorldToScreen(path[0]))
	for i := 1; i < n-2; i++ {
		mid := r2.Scale(0.5, r2.Add(path[i], path[i+1]))
		p.QuadTo(cam.WorldToScreen(path[i]), cam.WorldToScreen(mid))
	}
	p.QuadTo(cam.WorldToScreen(path[n-2]), cam.WorldToScreen(path[n-1]))
	return p
}

// DrawTrail strokes a body's historical path.
func DrawTrail(s Surface, cam Camera, path []r2.Vec) {
	p := TrailPath(cam, path)
	if p == nil {
		return
	}
	s.StrokePath(p, 1, ColTrail)
}
