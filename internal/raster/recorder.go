package raster

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
)

// Recorder collects frames for an animated GIF.
type Recorder struct {
	// Delay between frames in hundredths of a second.
	Delay  int
	frames []*image.Paletted
	limit  int
}

// NewRecorder keeps at most limit frames; older frames are dropped.
func NewRecorder(fps, limit int) *Recorder {
	delay := 2
	if fps > 0 {
		delay = max(1, 100/fps)
	}
	return &Recorder{Delay: delay, limit: limit}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Add quantises img to the Plan 9 palette and appends it.
func (r *Recorder) Add(img image.Image) {
	b := img.Bounds()
	p := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	draw.FloydSteinberg.Draw(p, p.Bounds(), img, b.Min)
	r.frames = append(r.frames, p)
	if r.limit > 0 && len(r.frames) > r.limit {
		r.frames = r.frames[len(r.frames)-r.limit:]
	}
}

func (r *Recorder) Reset() { r.frames = nil }

func (r *Recorder) Encode(w io.Writer) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

// Save writes the recording to path.
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
