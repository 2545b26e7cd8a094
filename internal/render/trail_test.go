package render

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func pathOf(n int) []r2.Vec {
	pts := make([]r2.Vec, n)
	for i := range pts {
		pts[i] = r2.Vec{X: float64(i * 10), Y: float64(i * i)}
	}
	return pts
}

func TestTrailShortPathsDrawNothing(t *testing.T) {
	for n := 0; n <= 3; n++ {
		dl := NewDisplayList(800, 600)
		DrawTrail(dl, NewCamera(), pathOf(n))
		if len(dl.Commands) != 0 {
			t.Errorf("path of %d points: expected no draw calls, got %d", n, len(dl.Commands))
		}
	}
}

func TestTrailFourPoints(t *testing.T) {
	path := pathOf(4)
	dl := NewDisplayList(800, 600)
	DrawTrail(dl, NewCamera(), path)

	if len(dl.Commands) != 1 || dl.Commands[0].Op != OpStrokePath {
		t.Fatalf("expected exactly one stroked path, got %+v", dl.Commands)
	}
	p := dl.Commands[0].Path
	if p.Start != path[0] {
		t.Errorf("curve should start at the oldest point, got %v", p.Start)
	}
	if len(p.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(p.Segments))
	}

	mid := r2.Vec{X: (path[1].X + path[2].X) / 2, Y: (path[1].Y + path[2].Y) / 2}
	if p.Segments[0].Control != path[1] || p.Segments[0].End != mid {
		t.Errorf("first segment: expected ctrl %v end %v, got %+v", path[1], mid, p.Segments[0])
	}
	if p.Segments[1].Control != path[2] || p.Segments[1].End != path[3] {
		t.Errorf("last segment should end on the newest point, got %+v", p.Segments[1])
	}
	if dl.Commands[0].Width != 1 || dl.Commands[0].Color != ColTrail {
		t.Errorf("unexpected stroke style: %+v", dl.Commands[0])
	}
}

func TestTrailSegmentCount(t *testing.T) {
	for _, n := range []int{4, 5, 10, 120} {
		p := TrailPath(NewCamera(), pathOf(n))
		if len(p.Segments) != n-2 {
			t.Errorf("path of %d points: expected %d segments, got %d", n, n-2, len(p.Segments))
		}
		if p.End() != pathOf(n)[n-1] {
			t.Errorf("path of %d points does not reach the body", n)
		}
	}
}

func TestTrailUsesCamera(t *testing.T) {
	cam := Camera{Offset: r2.Vec{X: 5, Y: 5}, Zoom: 2}
	path := pathOf(4)
	p := TrailPath(cam, path)

	if p.Start != cam.WorldToScreen(path[0]) {
		t.Errorf("start not transformed: %v", p.Start)
	}
	if p.End() != cam.WorldToScreen(path[3]) {
		t.Errorf("end not transformed: %v", p.End())
	}
}

func TestPathFlatten(t *testing.T) {
	p := &Path{}
	p.MoveTo(r2.Vec{})
	p.QuadTo(r2.Vec{X: 5, Y: 10}, r2.Vec{X: 10, Y: 0})

	pts := p.Flatten(4)
	if len(pts) != 5 {
		t.Fatalf("expected 5 points, got %d", len(pts))
	}
	if pts[4] != (r2.Vec{X: 10, Y: 0}) {
		t.Errorf("flattened path should end on the segment end, got %v", pts[4])
	}
	if pts[2] != (r2.Vec{X: 5, Y: 5}) {
		t.Errorf("expected apex (5,5), got %v", pts[2])
	}
}
