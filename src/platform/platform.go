package platform

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"runtime"

	"snip-annotate/src/clipboard"
	"snip-annotate/src/config"
	"snip-annotate/src/screenshot"
)

// Dialogs are the editor window's modal collaborators.
type Dialogs interface {
	PromptSavePath(ctx context.Context) (path string, ok bool, err error)
	ShowError(title, message string)
	RequestFocus()
}

// Services implements session.PlatformServices for the host it runs on.
type Services struct {
	Capturer  screenshot.Capturer
	Clipboard clipboard.Writer
	Dialogs   Dialogs
	Focuser   Focuser
}

// New detects the capture, clipboard and focus mechanisms for this host.
// It fails with screenshot.ErrUnsupportedPlatform when nothing can capture.
func New(cfg *config.Config, dialogs Dialogs) (*Services, error) {
	return newForHost(cfg, dialogs, runtime.GOOS, os.Getenv, nil)
}

func newForHost(cfg *config.Config, dialogs Dialogs, goos string, getenv func(string) string, run screenshot.Runner) (*Services, error) {
	captureBackend, err := screenshot.Detect(goos, getenv, cfg.CaptureBackend)
	if err != nil {
		return nil, err
	}
	capturer, err := screenshot.New(captureBackend, cfg.TempPath, run)
	if err != nil {
		return nil, err
	}

	clipBackend, err := clipboard.Detect(goos, getenv, cfg.ClipboardBackend)
	if err != nil {
		return nil, err
	}
	writer, err := clipboard.New(clipBackend, nil)
	if err != nil {
		return nil, err
	}

	log.Printf("platform: capture=%s clipboard=%s temp=%s", captureBackend, clipBackend, cfg.TempPath)
	return &Services{
		Capturer:  capturer,
		Clipboard: writer,
		Dialogs:   dialogs,
		Focuser:   NewFocuser(goos, getenv, processID(), run),
	}, nil
}

func (s *Services) Capture(ctx context.Context) (*image.RGBA, error) {
	return s.Capturer.Capture(ctx)
}

func (s *Services) CopyImage(ctx context.Context, path string, png []byte) error {
	return s.Clipboard.WriteImage(ctx, path, png)
}

// HoldClipboard keeps the process alive while it still serves a copied image.
// Call it after the window is gone; it returns at once for clipboards the OS owns.
func (s *Services) HoldClipboard(ctx context.Context) {
	if h, ok := s.Clipboard.(clipboard.Holder); ok {
		h.Hold(ctx)
	}
}

func (s *Services) PromptSavePath(ctx context.Context) (string, bool, error) {
	if s.Dialogs == nil {
		return "", false, fmt.Errorf("no save dialog available")
	}
	return s.Dialogs.PromptSavePath(ctx)
}

func (s *Services) ShowError(title, message string) {
	if s.Dialogs == nil {
		log.Printf("%s: %s", title, message)
		return
	}
	s.Dialogs.ShowError(title, message)
}

func (s *Services) Focus(ctx context.Context) error {
	if s.Dialogs != nil {
		s.Dialogs.RequestFocus()
	}
	if s.Focuser == nil {
		return nil
	}
	return s.Focuser.Raise(ctx)
}

func (s *Services) ReleaseTopmost() {
	if s.Focuser != nil {
		s.Focuser.Release()
	}
}
