// Package viz draws frames in the terminal.
//
// [Canvas] is a Braille sub-pixel grid: each character cell holds 2x4 dots,
// so a terminal of 80x24 cells gives 160x96 dots. [CanvasSurface] implements
// render.Surface on top of it so the frame renderer can target a terminal
// the same way it targets a window. Colours pass through a [Theme] because
// the renderer's palette assumes a light background.
//
// Braille cannot show images. Textured bodies degrade to filled discs and
// tiled backgrounds are skipped.
package viz
