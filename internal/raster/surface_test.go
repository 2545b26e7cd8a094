package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/render"
)

func isColor(c color.Color, want color.RGBA) bool {
	r, g, b, a := c.RGBA()
	wr, wg, wb, wa := want.RGBA()
	return r == wr && g == wg && b == wb && a == wa
}

func TestClearFillsBackground(t *testing.T) {
	s := New(10, 10)
	s.Clear()
	if !isColor(s.Image().At(5, 5), color.RGBA{255, 255, 255, 255}) {
		t.Errorf("expected white background, got %v", s.Image().At(5, 5))
	}
	if w, h := s.Size(); w != 10 || h != 10 {
		t.Errorf("unexpected size %vx%v", w, h)
	}
}

func TestFillCircle(t *testing.T) {
	s := New(40, 40)
	s.Clear()
	s.FillCircle(r2.Vec{X: 20, Y: 20}, 10, render.ColFocus)

	if !isColor(s.Image().At(20, 20), render.ColFocus) {
		t.Errorf("centre should be filled, got %v", s.Image().At(20, 20))
	}
	if !isColor(s.Image().At(2, 2), color.RGBA{255, 255, 255, 255}) {
		t.Errorf("corner should be untouched, got %v", s.Image().At(2, 2))
	}
}

func TestStrokeCircleLeavesCentre(t *testing.T) {
	s := New(40, 40)
	s.Clear()
	s.StrokeCircle(r2.Vec{X: 20, Y: 20}, 10, 2, color.RGBA{A: 255})

	if !isColor(s.Image().At(20, 20), color.RGBA{255, 255, 255, 255}) {
		t.Errorf("ring centre should stay clear, got %v", s.Image().At(20, 20))
	}
	if isColor(s.Image().At(30, 20), color.RGBA{255, 255, 255, 255}) {
		t.Error("ring edge should be painted")
	}
}

func TestStrokeLine(t *testing.T) {
	s := New(20, 20)
	s.Clear()
	s.StrokeLine(r2.Vec{X: 0, Y: 10}, r2.Vec{X: 20, Y: 10}, 4, color.RGBA{A: 255})
	if !isColor(s.Image().At(10, 10), color.RGBA{A: 255}) {
		t.Errorf("line should cover its axis, got %v", s.Image().At(10, 10))
	}
	if !isColor(s.Image().At(10, 2), color.RGBA{255, 255, 255, 255}) {
		t.Error("line should not reach far off its axis")
	}
}

func writePNG(t *testing.T, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTextures(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	tex := &render.Texture{Path: writePNG(t, 4, 4, red)}

	s := New(20, 20)
	s.Clear()
	s.FillPattern(tex, render.Rect{W: 20, H: 20})
	for _, p := range []image.Point{{0, 0}, {9, 13}, {19, 19}} {
		if !isColor(s.Image().At(p.X, p.Y), red) {
			t.Errorf("pattern should tile over %v", p)
		}
	}

	s.Clear()
	s.DrawImage(tex, render.Rect{X: 5, Y: 5, W: 10, H: 10})
	if !isColor(s.Image().At(10, 10), red) {
		t.Error("image should be scaled into place")
	}
	if !isColor(s.Image().At(1, 1), color.RGBA{255, 255, 255, 255}) {
		t.Error("image should stay inside its rectangle")
	}
}

func TestMissingTextureDegrades(t *testing.T) {
	s := New(20, 20)
	s.Clear()
	s.DrawImage(&render.Texture{Path: "/nonexistent.png"}, render.Rect{X: 0, Y: 0, W: 20, H: 20})
	if !isColor(s.Image().At(10, 10), render.ColBody) {
		t.Error("missing texture should fall back to a disc")
	}
}

func TestEncodePNG(t *testing.T) {
	s := New(8, 8)
	s.Clear()
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("unexpected width %d", img.Bounds().Dx())
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(50, 3)
	if r.Delay != 2 {
		t.Errorf("expected delay 2, got %d", r.Delay)
	}
	s := New(8, 8)
	for i := 0; i < 5; i++ {
		s.Clear()
		r.Add(s.Image())
	}
	if r.Len() != 3 {
		t.Errorf("expected 3 frames kept, got %d", r.Len())
	}

	path := filepath.Join(t.TempDir(), "out.gif")
	if err := r.Save(path); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("gif not written: %v", err)
	}

	r.Reset()
	if err := r.Encode(&bytes.Buffer{}); err == nil {
		t.Error("encoding an empty recording should fail")
	}
}
