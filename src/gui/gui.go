package gui

import (
	"context"
	"errors"
	"image/color"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/lucasb-eyer/go-colorful"

	"snip-annotate/src/export"
	"snip-annotate/src/logutil"
	"snip-annotate/src/session"
)

const (
	appID           = "io.github.snipannotate"
	windowTitle     = "Annotator"
	defaultFileName = "annotation.png"
)

// Editor is the annotation window. It is the session's preview surface and
// modal dialog provider; user input is posted to the event channel handed to
// Run.
type Editor struct {
	preview

	app    fyne.App
	win    fyne.Window
	events chan<- session.Event
	done   chan struct{}
	once   sync.Once

	color color.Color // last color offered in the picker, main goroutine only
}

// New creates the fyne application. No window exists until Run.
func New(initial color.Color) *Editor {
	return &Editor{
		app:   app.NewWithID(appID),
		done:  make(chan struct{}),
		color: initial,
	}
}

// Run builds the window around the current preview, starts loop on its own
// goroutine once the app is up, and blocks until the app quits. The app quits
// when loop returns.
func (e *Editor) Run(events chan<- session.Event, loop func()) {
	e.events = events
	e.win = e.app.NewWindow(windowTitle)
	e.win.SetPadded(false)

	cols, rows := e.size()
	board := newBoard(e.attach(), cols, rows, e.post)
	e.win.SetContent(layoutEditor(e.toolbar(), board))
	e.win.SetFixedSize(true)
	e.bindKeys()
	e.win.SetCloseIntercept(func() { e.post(session.CancelRequested{}) })

	e.app.Lifecycle().SetOnStarted(func() {
		go func() {
			loop()
			e.Quit()
		}()
	})

	e.running.Store(true)
	e.win.ShowAndRun()
}

// Quit stops the app and drops any further input. Safe from any goroutine.
func (e *Editor) Quit() {
	e.once.Do(func() {
		close(e.done)
		fyne.Do(e.app.Quit)
	})
}

// layoutEditor puts the toolbar above the board. The board is centered at its
// minimum size so a capture narrower than the toolbar is never stretched.
func layoutEditor(toolbar, board fyne.CanvasObject) fyne.CanvasObject {
	return container.NewBorder(toolbar, nil, nil, nil, container.NewCenter(board))
}

func (e *Editor) post(ev session.Event) {
	select {
	case e.events <- ev:
	case <-e.done:
	}
}

func (e *Editor) toolbar() fyne.CanvasObject {
	colorBtn := widget.NewButtonWithIcon("Color", theme.ColorPaletteIcon(), e.pickColor)
	undoBtn := widget.NewButtonWithIcon("Undo", theme.ContentUndoIcon(), func() {
		e.post(session.UndoRequested{})
	})
	copyBtn := widget.NewButtonWithIcon("Copy & Close", theme.ContentCopyIcon(), func() {
		e.post(session.ExportRequested{Target: export.TargetClipboard})
	})
	copyBtn.Importance = widget.HighImportance
	saveBtn := widget.NewButtonWithIcon("Save File", theme.DocumentSaveIcon(), func() {
		e.post(session.ExportRequested{Target: export.TargetFile})
	})
	return container.NewHBox(colorBtn, undoBtn, copyBtn, saveBtn)
}

func (e *Editor) bindKeys() {
	undo := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
	e.win.Canvas().AddShortcut(undo, func(fyne.Shortcut) {
		e.post(session.UndoRequested{})
	})
	e.win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			e.post(session.CancelRequested{})
		}
	})
}

func (e *Editor) pickColor() {
	picker := dialog.NewColorPicker("Brush color", "Choose the brush color", func(c color.Color) {
		brush, ok := brushColor(c)
		if !ok {
			log.Printf("gui: ignoring fully transparent color")
			return
		}
		e.color = brush
		e.post(session.ColorChangeRequested{Color: brush})
	}, e.win)
	picker.Advanced = true
	if e.color != nil {
		picker.SetColor(e.color)
	}
	picker.Show()
}

// brushColor converts a picked color to the opaque straight RGB a brush
// paints with. A fully transparent pick carries no hue and is rejected.
func brushColor(c color.Color) (color.RGBA, bool) {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return color.RGBA{}, false
	}
	r, g, b := cc.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, true
}

type saveResult struct {
	path string
	ok   bool
	err  error
}

// PromptSavePath shows the save dialog and blocks until the user answers.
func (e *Editor) PromptSavePath(ctx context.Context) (string, bool, error) {
	result := make(chan saveResult, 1)
	fyne.Do(func() {
		d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
			switch {
			case err != nil:
				result <- saveResult{err: err}
			case w == nil:
				result <- saveResult{}
			default:
				path := w.URI().Path()
				// The exporter writes the file itself; this empty placeholder is
				// removed if it appends an extension.
				if cerr := w.Close(); cerr != nil {
					log.Printf("gui: closing save target: %v", cerr)
				}
				result <- saveResult{path: path, ok: true}
			}
		}, e.win)
		d.SetFileName(defaultFileName)
		d.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
		d.Show()
	})

	select {
	case r := <-result:
		return r.path, r.ok, r.err
	case <-e.done:
		return "", false, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// ShowError shows a modal error over the editor. It does not wait for the
// user to dismiss it.
func (e *Editor) ShowError(title, message string) {
	log.Printf("gui: %s: %s", title, logutil.Truncate(message, 200))
	fyne.Do(func() {
		dialog.ShowError(errors.New(message), e.win)
	})
}

func (e *Editor) RequestFocus() {
	fyne.Do(func() {
		if e.win != nil {
			e.win.RequestFocus()
		}
	})
}
