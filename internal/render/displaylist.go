package render

import (
	"image/color"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// Op identifies a recorded drawing command.
type Op int

const (
	OpClear Op = iota
	OpFillCircle
	OpStrokeCircle
	OpStrokeLine
	OpStrokePath
	OpDrawImage
	OpFillPattern
)

// Command is one recorded Surface call. Only the fields relevant to Op are
// set.
type Command struct {
	Op      Op
	From    r2.Vec // circle centre or line start
	To      r2.Vec // line end
	Radius  float64
	Width   float64
	Color   color.Color
	Path    *Path
	Texture *Texture
	Rect    Rect
}

// DisplayList is a Surface that records commands instead of drawing them.
type DisplayList struct {
	W, H     float64
	Commands []Command
}

func NewDisplayList(w, h float64) *DisplayList {
	return &DisplayList{W: w, H: h, Commands: make([]Command, 0, 256)}
}

func (d *DisplayList) Size() (float64, float64) { return d.W, d.H }

// Clear drops everything recorded so far and records the clear itself.
func (d *DisplayList) Clear() {
	d.Commands = append(d.Commands[:0], Command{Op: OpClear})
}

func (d *DisplayList) FillCircle(c r2.Vec, r float64, clr color.Color) {
	d.Commands = append(d.Commands, Command{Op: OpFillCircle, From: c, Radius: r, Color: clr})
}

func (d *DisplayList) StrokeCircle(c r2.Vec, r, w float64, clr color.Color) {
	d.Commands = append(d.Commands, Command{Op: OpStrokeCircle, From: c, Radius: r, Width: w, Color: clr})
}

func (d *DisplayList) StrokeLine(a, b r2.Vec, w float64, clr color.Color) {
	d.Commands = append(d.Commands, Command{Op: OpStrokeLine, From: a, To: b, Width: w, Color: clr})
}

func (d *DisplayList) StrokePath(p *Path, w float64, clr color.Color) {
	d.Commands = append(d.Commands, Command{Op: OpStrokePath, Path: p, Width: w, Color: clr})
}

func (d *DisplayList) DrawImage(t *Texture, dst Rect) {
	d.Commands = append(d.Commands, Command{Op: OpDrawImage, Texture: t, Rect: dst})
}

func (d *DisplayList) FillPattern(t *Texture, dst Rect) {
	d.Commands = append(d.Commands, Command{Op: OpFillPattern, Texture: t, Rect: dst})
}

// Count returns how many recorded commands have the given op.
func (d *DisplayList) Count(op Op) int {
	n := 0
	for _, c := range d.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Replay issues every recorded command against dst, in order.
func (d *DisplayList) Replay(dst Surface) {
	for _, c := range d.Commands {
		switch c.Op {
		case OpClear:
			dst.Clear()
		case OpFillCircle:
			dst.FillCircle(c.From, c.Radius, c.Color)
		case OpStrokeCircle:
			dst.StrokeCircle(c.From, c.Radius, c.Width, c.Color)
		case OpStrokeLine:
			dst.StrokeLine(c.From, c.To, c.Width, c.Color)
		case OpStrokePath:
			dst.StrokePath(c.Path, c.Width, c.Color)
		case OpDrawImage:
			dst.DrawImage(c.Texture, c.Rect)
		case OpFillPattern:
			dst.FillPattern(c.Texture, c.Rect)
		}
	}
}

// Buffered is a double-buffered display list. Frames are drawn into the back
// list and become visible to Replay once Present is called, so a backend that
// must paint on its own thread never sees a half-drawn frame.
type Buffered struct {
	back *DisplayList

	mu    sync.Mutex
	front *DisplayList
	w, h  float64
}

func NewBuffered(w, h float64) *Buffered {
	return &Buffered{
		back:  NewDisplayList(w, h),
		front: NewDisplayList(w, h),
		w:     w,
		h:     h,
	}
}

// Resize changes the size reported to the next frame.
func (b *Buffered) Resize(w, h float64) {
	b.mu.Lock()
	b.w, b.h = w, h
	b.mu.Unlock()
}

func (b *Buffered) Size() (float64, float64) {
	return b.back.W, b.back.H
}

// Clear starts a new back frame at the current size.
func (b *Buffered) Clear() {
	b.mu.Lock()
	b.back.W, b.back.H = b.w, b.h
	b.mu.Unlock()
	b.back.Clear()
}

func (b *Buffered) FillCircle(c r2.Vec, r float64, clr color.Color) { b.back.FillCircle(c, r, clr) }
func (b *Buffered) StrokeCircle(c r2.Vec, r, w float64, clr color.Color) {
	b.back.StrokeCircle(c, r, w, clr)
}
func (b *Buffered) StrokeLine(a, z r2.Vec, w float64, clr color.Color) { b.back.StrokeLine(a, z, w, clr) }
func (b *Buffered) StrokePath(p *Path, w float64, clr color.Color)   { b.back.StrokePath(p, w, clr) }
func (b *Buffered) DrawImage(t *Texture, dst Rect)                    { b.back.DrawImage(t, dst) }
func (b *Buffered) FillPattern(t *Texture, dst Rect)                  { b.back.FillPattern(t, dst) }

// Present publishes the back frame.
func (b *Buffered) Present() {
	b.mu.Lock()
	b.front, b.back = b.back, b.front
	b.mu.Unlock()
}

// Replay paints the most recently presented frame onto dst.
func (b *Buffered) Replay(dst Surface) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.front.Replay(dst)
}

// Frame returns a copy of the most recently presented frame.
func (b *Buffered) Frame() *DisplayList {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := NewDisplayList(b.front.W, b.front.H)
	out.Commands = append(out.Commands, b.front.Commands...)
	return out
}
