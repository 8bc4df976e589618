package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"snip-annotate/src/annotate"
	"snip-annotate/src/export"
	"snip-annotate/src/history"
)

// PlatformServices is everything the controller needs from the host system.
// One implementation exists per platform; tests substitute fakes.
type PlatformServices interface {
	// Capture lets the user select a screen region and returns it as a bitmap.
	Capture(ctx context.Context) (*image.RGBA, error)
	// CopyImage places the PNG (also written at path) on the clipboard.
	CopyImage(ctx context.Context, path string, png []byte) error
	// PromptSavePath asks for a destination file. ok is false when dismissed.
	PromptSavePath(ctx context.Context) (path string, ok bool, err error)
	// ShowError reports a recoverable failure to the user.
	ShowError(title, message string)
	// Focus pulls the editor window to the front.
	Focus(ctx context.Context) error
	// ReleaseTopmost stops forcing the editor above other windows so child
	// dialogs can show on top of it.
	ReleaseTopmost()
}

type Options struct {
	Platform       PlatformServices
	Surface        annotate.Surface
	Brush          annotate.Brush
	HistoryLimit   int
	TempPath       string
	TopmostRelease time.Duration
}

// Controller is the session state machine. It owns the canvas engine and
// must only be driven from one goroutine.
type Controller struct {
	opts      Options
	state     State
	outcome   Outcome
	savedPath string
	engine    *annotate.Engine
	exporter  *export.Exporter
	activated bool
	release   *time.Timer
}

func New(opts Options) (*Controller, error) {
	if opts.Platform == nil {
		return nil, errors.New("Platform is required")
	}
	if opts.Brush.Width <= 0 {
		opts.Brush.Width = 3
	}
	return &Controller{
		opts:  opts,
		state: StateCapturing,
		exporter: &export.Exporter{
			TempPath:  opts.TempPath,
			Clipboard: opts.Platform,
			Prompt:    opts.Platform,
		},
	}, nil
}

// Start runs the capture. On success the session is Editing; on failure it
// is Closed with OutcomeAborted and the capture error is returned.
func (c *Controller) Start(ctx context.Context) error {
	if c.state != StateCapturing {
		return fmt.Errorf("cannot start session in state %s", c.state)
	}
	bitmap, err := c.opts.Platform.Capture(ctx)
	if err == nil && (bitmap == nil || bitmap.Bounds().Empty()) {
		err = errors.New("capture returned an empty image")
	}
	if err != nil {
		c.close(OutcomeAborted)
		return err
	}

	c.engine = annotate.New(bitmap, c.opts.Brush, history.New(c.opts.HistoryLimit), c.opts.Surface)
	c.state = StateEditing
	log.Printf("session: editing %dx%d capture", bitmap.Bounds().Dx(), bitmap.Bounds().Dy())
	return nil
}

// Activate performs the one-time focus coercion once the editor window is
// up, then releases the always-on-top hold after the configured delay.
func (c *Controller) Activate(ctx context.Context) {
	if c.state != StateEditing || c.activated {
		return
	}
	c.activated = true
	if err := c.opts.Platform.Focus(ctx); err != nil {
		log.Printf("session: focus coercion failed: %v", err)
	}
	if c.opts.TopmostRelease <= 0 {
		c.opts.Platform.ReleaseTopmost()
		return
	}
	c.release = time.AfterFunc(c.opts.TopmostRelease, c.opts.Platform.ReleaseTopmost)
}

// Handle applies one event. Events are ignored outside the Editing state.
func (c *Controller) Handle(ctx context.Context, ev Event) {
	if c.state != StateEditing {
		log.Printf("session: ignoring %s in state %s", ev.Type(), c.state)
		return
	}

	switch ev := ev.(type) {
	case PointerDown:
		c.engine.BeginStroke(ev.Point)
	case PointerMove:
		c.engine.ExtendStroke(ev.Point)
	case PointerUp:
		c.engine.EndStroke()
	case UndoRequested:
		if !c.engine.Undo() {
			log.Printf("session: nothing to undo")
		}
	case ColorChangeRequested:
		if ev.Color != nil {
			c.engine.SetColor(ev.Color)
		}
	case ExportRequested:
		c.export(ctx, ev)
	case CancelRequested:
		c.close(OutcomeCancelled)
	default:
		log.Printf("session: unknown event %s", ev.Type())
	}
}

func (c *Controller) export(ctx context.Context, ev ExportRequested) {
	c.engine.EndStroke()
	c.state = StateExporting

	path, err := c.exporter.Export(ctx, c.engine.Bitmap(), export.Request{Target: ev.Target, Path: ev.Path})
	switch {
	case err == nil:
		c.savedPath = path
		if ev.Target == export.TargetClipboard {
			c.close(OutcomeCopied)
		} else {
			c.close(OutcomeSaved)
		}
	case errors.Is(err, export.ErrSaveCancelled):
		c.state = StateEditing
	case errors.Is(err, export.ErrClipboardWriteFailed):
		log.Printf("session: %v", err)
		c.opts.Platform.ShowError("Error", fmt.Sprintf("Clipboard failed: %v", err))
		c.state = StateEditing
	default:
		log.Printf("session: export to %s failed: %v", ev.Target, err)
		c.opts.Platform.ShowError("Error", fmt.Sprintf("Save failed: %v", err))
		c.state = StateEditing
	}
}

func (c *Controller) close(o Outcome) {
	if c.release != nil {
		c.release.Stop()
	}
	c.state = StateClosed
	c.outcome = o
	log.Printf("session: closed (%s)", o)
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Outcome() Outcome { return c.outcome }

// SavedPath is the file written by the export that closed the session.
func (c *Controller) SavedPath() string { return c.savedPath }

// Bitmap returns the current annotated bitmap, or nil before a successful capture.
func (c *Controller) Bitmap() *image.RGBA {
	if c.engine == nil {
		return nil
	}
	return c.engine.Bitmap()
}

// Brush returns the brush new strokes will use.
func (c *Controller) Brush() annotate.Brush {
	if c.engine == nil {
		return c.opts.Brush
	}
	return c.engine.Brush()
}
