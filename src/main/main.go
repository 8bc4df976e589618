package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"snip-annotate/src/annotate"
	"snip-annotate/src/config"
	"snip-annotate/src/eventloop"
	"snip-annotate/src/gui"
	"snip-annotate/src/logutil"
	"snip-annotate/src/platform"
	"snip-annotate/src/screenshot"
	"snip-annotate/src/session"
)

// eventBuffer bounds how far UI input may run ahead of the event loop.
const eventBuffer = 256

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logutil.Setup(cfg.EnableFileLogging, "")

	// SIGINT/SIGTERM cancel the session like Escape does
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	editor := gui.New(cfg.BrushColor)

	services, err := platform.New(cfg, editor)
	if err != nil {
		fmt.Fprintln(os.Stderr, captureFailureMessage(err))
		return
	}

	ctrl, err := session.New(session.Options{
		Platform:       services,
		Surface:        editor,
		Brush:          annotate.Brush{Color: cfg.BrushColor, Width: cfg.LineWidth},
		HistoryLimit:   cfg.HistoryLimit,
		TempPath:       cfg.TempPath,
		TopmostRelease: cfg.TopmostRelease,
	})
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	if err := ctrl.Start(ctx); err != nil {
		log.Printf("capture failed: %v", err)
		fmt.Fprintln(os.Stderr, captureFailureMessage(err))
		return
	}

	events := make(chan session.Event, eventBuffer)
	loop := eventloop.New(ctrl)
	editor.Run(events, func() {
		if err := loop.Run(ctx, events); err != nil {
			log.Printf("event loop stopped: %v", err)
		}
	})

	if msg := outcomeMessage(ctrl.Outcome(), ctrl.SavedPath()); msg != "" {
		fmt.Println(msg)
	}
	if ctrl.Outcome() == session.OutcomeCopied {
		services.HoldClipboard(ctx)
	}
}

func captureFailureMessage(err error) string {
	switch {
	case errors.Is(err, screenshot.ErrCaptureAborted):
		return "Capture cancelled or failed."
	case errors.Is(err, screenshot.ErrUnsupportedPlatform):
		return fmt.Sprintf("Screen capture is not supported here: %v", err)
	default:
		return fmt.Sprintf("Capture failed: %v", err)
	}
}

func outcomeMessage(o session.Outcome, savedPath string) string {
	switch o {
	case session.OutcomeCopied:
		return "Copied to clipboard."
	case session.OutcomeSaved:
		return fmt.Sprintf("Saved to %s.", savedPath)
	default:
		return ""
	}
}
