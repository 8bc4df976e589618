package gui

import (
	"image"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/anthonynsimon/bild/clone"

	"snip-annotate/src/annotate"
)

// preview is the live preview surface: a private RGBA buffer shown through a
// canvas.Image. Once the window runs, every change is applied on the fyne
// thread; before that (while the session is being set up) changes apply inline.
type preview struct {
	buf     *image.RGBA
	image   *canvas.Image
	running atomic.Bool
}

func (p *preview) Reset(img *image.RGBA) {
	cp := clone.AsRGBA(img)
	p.apply(func() {
		p.buf = cp
		if p.image != nil {
			p.image.Image = cp
			p.image.Refresh()
		}
	})
}

func (p *preview) DrawSegment(seg annotate.Segment) {
	p.apply(func() {
		if p.buf == nil {
			return
		}
		annotate.DrawSegment(p.buf, seg)
		if p.image != nil {
			p.image.Refresh()
		}
	})
}

// attach creates the canvas object for the current buffer. Must be called on
// the main goroutine before the window is shown.
func (p *preview) attach() *canvas.Image {
	img := canvas.NewImageFromImage(p.buf)
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	if p.buf != nil {
		b := p.buf.Bounds()
		img.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	}
	p.image = img
	return img
}

// size is the pixel size of the current buffer.
func (p *preview) size() (int, int) {
	if p.buf == nil {
		return 0, 0
	}
	b := p.buf.Bounds()
	return b.Dx(), b.Dy()
}

func (p *preview) apply(fn func()) {
	if p.running.Load() {
		fyne.Do(fn)
		return
	}
	fn()
}
