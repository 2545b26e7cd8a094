package render

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
)

// LoadTexture reads an image header to build a Texture handle. Pixel data is
// left to the backend that draws it.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("render: open texture: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("render: decode texture %s: %w", path, err)
	}
	base := filepath.Base(path)
	return &Texture{
		Name:   strings.TrimSuffix(base, filepath.Ext(base)),
		Path:   path,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
