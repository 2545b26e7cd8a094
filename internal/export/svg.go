// Package export writes frames to files. SVGSurface records a frame as an SVG
// document that keeps the trail curves as real quadratic paths.
package export

import (
	"fmt"
	"html"
	"image/color"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/render"
)

// SVGSurface implements render.Surface by emitting SVG elements.
type SVGSurface struct {
	W, H       float64
	Background string

	defs     strings.Builder
	body     strings.Builder
	patterns map[string]string
}

func NewSVGSurface(w, h float64) *SVGSurface {
	return &SVGSurface{W: w, H: h, Background: "#ffffff", patterns: make(map[string]string)}
}

func (s *SVGSurface) Size() (float64, float64) { return s.W, s.H }

// Clear drops everything drawn so far.
func (s *SVGSurface) Clear() {
	s.defs.Reset()
	s.body.Reset()
	s.patterns = make(map[string]string)
}

// paint returns the colour attribute pair for attr ("fill" or "stroke").
func paint(attr string, c color.Color) string {
	if c == nil {
		c = color.Black
	}
	r, g, b, a := c.RGBA()
	out := fmt.Sprintf(`%s="#%02x%02x%02x"`, attr, r>>8, g>>8, b>>8)
	if a != 0xffff {
		out += fmt.Sprintf(` %s-opacity="%.3f"`, attr, float64(a)/0xffff)
	}
	return out
}

func (s *SVGSurface) FillCircle(c r2.Vec, r float64, clr color.Color) {
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" %s/>`+"\n", c.X, c.Y, r, paint("fill", clr))
}

func (s *SVGSurface) StrokeCircle(c r2.Vec, r, w float64, clr color.Color) {
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" %s stroke-width="%g"/>`+"\n",
		c.X, c.Y, r, paint("stroke", clr), w)
}

func (s *SVGSurface) StrokeLine(a, b r2.Vec, w float64, clr color.Color) {
	fmt.Fprintf(&s.body, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" %s stroke-width="%g"/>`+"\n",
		a.X, a.Y, b.X, b.Y, paint("stroke", clr), w)
}

func (s *SVGSurface) StrokePath(p *render.Path, w float64, clr color.Color) {
	var d strings.Builder
	fmt.Fprintf(&d, "M%.2f %.2f", p.Start.X, p.Start.Y)
	for _, seg := range p.Segments {
		fmt.Fprintf(&d, " Q%.2f %.2f %.2f %.2f", seg.Control.X, seg.Control.Y, seg.End.X, seg.End.Y)
	}
	fmt.Fprintf(&s.body, `<path d="%s" fill="none" %s stroke-width="%g"/>`+"\n", d.String(), paint("stroke", clr), w)
}

func (s *SVGSurface) DrawImage(t *render.Texture, dst render.Rect) {
	fmt.Fprintf(&s.body, `<image href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
		html.EscapeString(t.Path), dst.X, dst.Y, dst.W, dst.H)
}

// FillPattern defines one pattern per texture and fills dst with it.
func (s *SVGSurface) FillPattern(t *render.Texture, dst render.Rect) {
	id, ok := s.patterns[t.Path]
	if !ok {
		id = fmt.Sprintf("pattern%d", len(s.patterns))
		s.patterns[t.Path] = id
		w, h := float64(t.Width), float64(t.Height)
		if w <= 0 || h <= 0 {
			w, h = dst.W, dst.H
		}
		fmt.Fprintf(&s.defs, `<pattern id="%s" patternUnits="userSpaceOnUse" width="%g" height="%g">`+
			`<image href="%s" width="%g" height="%g"/></pattern>`+"\n",
			id, w, h, html.EscapeString(t.Path), w, h)
	}
	fmt.Fprintf(&s.body, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="url(#%s)"/>`+"\n",
		dst.X, dst.Y, dst.W, dst.H, id)
}

func (s *SVGSurface) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, s.W, s.H, s.W, s.H))
	if s.defs.Len() > 0 {
		sb.WriteString("<defs>\n" + s.defs.String() + "</defs>\n")
	}
	if s.Background != "" {
		sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.Background))
	}
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

// Bytes returns the complete document.
func (s *SVGSurface) Bytes() []byte { return []byte(s.String()) }
