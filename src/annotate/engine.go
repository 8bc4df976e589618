package annotate

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"

	"snip-annotate/src/history"
)

// Surface is the live preview the engine mirrors its drawing onto.
// DrawSegment must rasterize exactly like DrawSegment does on the bitmap;
// Reset replaces the whole preview with a copy of img.
type Surface interface {
	DrawSegment(seg Segment)
	Reset(img *image.RGBA)
}

// Engine owns the authoritative bitmap of a session and applies freehand
// strokes to it. Every stroke start checkpoints the bitmap into the history
// stack so Undo restores the state right before the latest stroke.
//
// The brush is latched at BeginStroke: a color change while a stroke is in
// progress only affects the next stroke.
type Engine struct {
	bitmap  *image.RGBA
	brush   Brush
	stroke  Brush
	last    *Point
	history *history.Stack
	surface Surface
}

// New creates an engine drawing on bitmap and resets the surface to it.
// A nil history gets a default-sized stack; a nil surface disables mirroring.
func New(bitmap *image.RGBA, brush Brush, hist *history.Stack, surface Surface) *Engine {
	if hist == nil {
		hist = history.New(history.DefaultLimit)
	}
	if surface == nil {
		surface = nopSurface{}
	}
	if brush.Width < 1 {
		brush.Width = 1
	}
	e := &Engine{
		bitmap:  bitmap,
		brush:   brush,
		history: hist,
		surface: surface,
	}
	e.surface.Reset(e.bitmap)
	return e
}

// BeginStroke checkpoints the bitmap and starts a stroke at p. No pixels change.
func (e *Engine) BeginStroke(p Point) {
	e.history.Push(clone.AsRGBA(e.bitmap))
	e.stroke = e.brush
	e.last = &p
}

// ExtendStroke draws the segment from the previous sample to p on both the
// bitmap and the surface. Without an active stroke it does nothing.
func (e *Engine) ExtendStroke(p Point) {
	if e.last == nil {
		return
	}
	seg := Segment{From: *e.last, To: p, Brush: e.stroke}
	DrawSegment(e.bitmap, seg)
	e.surface.DrawSegment(seg)
	e.last = &p
}

// EndStroke finishes the active stroke and reconciles the surface with the bitmap.
func (e *Engine) EndStroke() {
	if e.last == nil {
		return
	}
	e.last = nil
	e.surface.Reset(e.bitmap)
}

// Undo restores the bitmap captured at the most recent stroke start.
// It reports false and changes nothing when the history is empty.
// An in-progress stroke is abandoned.
func (e *Engine) Undo() bool {
	snap, ok := e.history.Pop()
	if !ok {
		return false
	}
	e.bitmap = snap
	e.last = nil
	e.surface.Reset(e.bitmap)
	return true
}

// SetColor changes the color used by strokes begun from now on.
func (e *Engine) SetColor(c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	e.brush.Color = color.RGBA{R: n.R, G: n.G, B: n.B, A: 255}
}

// Bitmap returns the authoritative bitmap. It is only valid until the next Undo.
func (e *Engine) Bitmap() *image.RGBA { return e.bitmap }

func (e *Engine) Brush() Brush { return e.brush }

// Stroking reports whether a stroke is in progress.
func (e *Engine) Stroking() bool { return e.last != nil }

func (e *Engine) HistoryLen() int { return e.history.Len() }

type nopSurface struct{}

func (nopSurface) DrawSegment(Segment) {}
func (nopSurface) Reset(*image.RGBA)   {}
