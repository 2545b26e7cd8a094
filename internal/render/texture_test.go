package render

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stars.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 64, 32))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tex, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.Name != "stars" || tex.Width != 64 || tex.Height != 32 || tex.Path != path {
		t.Errorf("unexpected texture %+v", tex)
	}
}

func TestLoadTextureErrors(t *testing.T) {
	if _, err := LoadTexture(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "junk.png")
	os.WriteFile(path, []byte("not an image"), 0644)
	if _, err := LoadTexture(path); err == nil {
		t.Error("expected error for undecodable file")
	}
}
