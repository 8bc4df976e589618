package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"snip-annotate/src/annotate"
	"snip-annotate/src/session"
)

// board turns pointer gestures over the preview into session events.
type board struct {
	widget.BaseWidget
	image   *canvas.Image
	cols    int // bitmap width in pixels
	rows    int // bitmap height in pixels
	post    func(session.Event)
	pressed bool
}

var _ fyne.Widget = (*board)(nil)
var _ fyne.Draggable = (*board)(nil)
var _ desktop.Mouseable = (*board)(nil)

func newBoard(img *canvas.Image, cols, rows int, post func(session.Event)) *board {
	b := &board{image: img, cols: cols, rows: rows, post: post}
	b.ExtendBaseWidget(b)
	return b
}

func (b *board) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.image)
}

func (b *board) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.pressed = true
	b.post(session.PointerDown{Point: b.toPoint(e.Position)})
}

func (b *board) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.release()
}

func (b *board) Dragged(e *fyne.DragEvent) {
	if !b.pressed {
		return
	}
	b.post(session.PointerMove{Point: b.toPoint(e.Position)})
}

// DragEnd and MouseUp can both fire for one release; only the first counts.
func (b *board) DragEnd() { b.release() }

func (b *board) release() {
	if !b.pressed {
		return
	}
	b.pressed = false
	b.post(session.PointerUp{})
}

// toPoint maps widget coordinates to bitmap pixels. The board is laid out at
// one fyne unit per pixel; if it is ever sized differently the position is
// scaled so strokes still land under the pointer.
func (b *board) toPoint(pos fyne.Position) annotate.Point {
	x, y := pos.X, pos.Y
	size := b.Size()
	if size.Width > 0 && b.cols > 0 {
		x = x * float32(b.cols) / size.Width
	}
	if size.Height > 0 && b.rows > 0 {
		y = y * float32(b.rows) / size.Height
	}
	return annotate.Point{X: int(x), Y: int(y)}
}
