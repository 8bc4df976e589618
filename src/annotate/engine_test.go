package annotate

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/anthonynsimon/bild/clone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snip-annotate/src/history"
)

var blue = color.RGBA{B: 255, A: 255}

// mirrorSurface keeps its own RGBA copy, like the on-screen preview does.
type mirrorSurface struct {
	img      *image.RGBA
	segments int
	resets   int
}

func (s *mirrorSurface) DrawSegment(seg Segment) {
	s.segments++
	DrawSegment(s.img, seg)
}

func (s *mirrorSurface) Reset(img *image.RGBA) {
	s.resets++
	s.img = clone.AsRGBA(img)
}

func newCapture(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 200, 210, 220, 255
	}
	return img
}

func samePixels(a, b *image.RGBA) bool {
	return a.Bounds() == b.Bounds() && bytes.Equal(a.Pix, b.Pix)
}

func stroke(e *Engine, pts ...Point) {
	e.BeginStroke(pts[0])
	for _, p := range pts[1:] {
		e.ExtendStroke(p)
	}
	e.EndStroke()
}

func TestBeginStrokeDoesNotPaint(t *testing.T) {
	capture := newCapture(20, 20)
	e := New(clone.AsRGBA(capture), Brush{Color: red, Width: 3}, nil, nil)

	e.BeginStroke(Point{5, 5})
	assert.True(t, e.Stroking())
	assert.Equal(t, 1, e.HistoryLen())
	assert.True(t, samePixels(capture, e.Bitmap()))
}

func TestExtendWithoutStrokeIsNoop(t *testing.T) {
	capture := newCapture(20, 20)
	surface := &mirrorSurface{}
	e := New(clone.AsRGBA(capture), Brush{Color: red, Width: 3}, nil, surface)

	e.ExtendStroke(Point{10, 10})
	e.EndStroke()

	assert.True(t, samePixels(capture, e.Bitmap()))
	assert.Equal(t, 0, surface.segments)
	assert.Equal(t, 1, surface.resets)
}

func TestUndoInvertsExactlyOneStroke(t *testing.T) {
	e := New(newCapture(60, 40), Brush{Color: red, Width: 3}, nil, nil)

	stroke(e, Point{1, 1}, Point{30, 1})
	stroke(e, Point{1, 10}, Point{30, 20})
	afterTwo := clone.AsRGBA(e.Bitmap())
	stroke(e, Point{5, 30}, Point{50, 30}, Point{55, 5})
	require.False(t, samePixels(afterTwo, e.Bitmap()))

	require.True(t, e.Undo())
	assert.True(t, samePixels(afterTwo, e.Bitmap()))
}

func TestUndoOnEmptyHistoryIsNoop(t *testing.T) {
	capture := newCapture(10, 10)
	surface := &mirrorSurface{}
	e := New(clone.AsRGBA(capture), Brush{Color: red, Width: 3}, nil, surface)

	assert.False(t, e.Undo())
	assert.True(t, samePixels(capture, e.Bitmap()))
	assert.Equal(t, 1, surface.resets)
}

func TestHistoryIsBounded(t *testing.T) {
	const limit = history.DefaultLimit
	const strokes = limit + 7
	e := New(newCapture(strokes+2, 8), Brush{Color: red, Width: 1}, history.New(limit), nil)

	states := []*image.RGBA{clone.AsRGBA(e.Bitmap())}
	for i := 0; i < strokes; i++ {
		stroke(e, Point{i, 0}, Point{i, 7})
		states = append(states, clone.AsRGBA(e.Bitmap()))
	}

	for i := 0; i < limit; i++ {
		require.True(t, e.Undo())
	}
	assert.False(t, e.Undo(), "history should be exhausted after %d undos", limit)
	assert.True(t, samePixels(states[strokes-limit], e.Bitmap()))
	assert.False(t, samePixels(states[0], e.Bitmap()))
}

func TestSurfaceConvergesAfterStrokeAndUndo(t *testing.T) {
	surface := &mirrorSurface{}
	e := New(newCapture(50, 50), Brush{Color: red, Width: 3}, nil, surface)

	e.BeginStroke(Point{3, 3})
	e.ExtendStroke(Point{20, 40})
	e.ExtendStroke(Point{45, 10})
	assert.Equal(t, 2, surface.segments)
	e.EndStroke()
	assert.True(t, samePixels(e.Bitmap(), surface.img))

	e.SetColor(blue)
	stroke(e, Point{0, 49}, Point{49, 0})
	assert.True(t, samePixels(e.Bitmap(), surface.img))

	require.True(t, e.Undo())
	assert.True(t, samePixels(e.Bitmap(), surface.img))
}

func TestColorLatchedAtStrokeStart(t *testing.T) {
	e := New(newCapture(30, 10), Brush{Color: red, Width: 1}, nil, nil)

	e.BeginStroke(Point{0, 5})
	e.SetColor(blue)
	e.ExtendStroke(Point{10, 5})
	e.EndStroke()
	assert.Equal(t, red, e.Bitmap().RGBAAt(5, 5))

	stroke(e, Point{15, 5}, Point{25, 5})
	assert.Equal(t, blue, e.Bitmap().RGBAAt(20, 5))
	assert.Equal(t, blue, e.Brush().Color)
}

func TestUndoAbandonsActiveStroke(t *testing.T) {
	capture := newCapture(20, 20)
	e := New(clone.AsRGBA(capture), Brush{Color: red, Width: 1}, nil, nil)

	e.BeginStroke(Point{0, 0})
	e.ExtendStroke(Point{10, 10})
	require.True(t, e.Undo())
	assert.False(t, e.Stroking())

	e.ExtendStroke(Point{19, 0})
	assert.True(t, samePixels(capture, e.Bitmap()))
}

func TestSetColorDropsAlpha(t *testing.T) {
	e := New(newCapture(2, 2), Brush{Color: red, Width: 1}, nil, nil)
	e.SetColor(color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, e.Brush().Color)
}
