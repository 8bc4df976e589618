package platform

import (
	"context"
	"fmt"
	"log"

	"snip-annotate/src/screenshot"
)

// Focuser pulls this process's window in front of everything else and later
// lets go of that hold.
type Focuser interface {
	Raise(ctx context.Context) error
	Release()
}

// NewFocuser picks the window-manager mechanism: System Events on macOS,
// swaymsg on Sway. Elsewhere raising is left to the toolkit.
func NewFocuser(goos string, getenv func(string) string, pid int, run screenshot.Runner) Focuser {
	if run == nil {
		run = screenshot.ExecRunner
	}
	switch {
	case goos == "darwin":
		return &macFocuser{pid: pid, run: run}
	case getenv("SWAYSOCK") != "":
		return &swayFocuser{pid: pid, run: run}
	default:
		return nopFocuser{}
	}
}

// macFocuser makes the process frontmost; a window opened from a
// hotkey-launched process otherwise stays behind the focused app.
type macFocuser struct {
	pid int
	run screenshot.Runner
}

func (f *macFocuser) Raise(ctx context.Context) error {
	script := fmt.Sprintf(`tell app "System Events" to set frontmost of every process whose unix id is %d to true`, f.pid)
	_, err := f.run(ctx, "/usr/bin/osascript", "-e", script)
	return err
}

// Release is a no-op: frontmost is not sticky on macOS.
func (f *macFocuser) Release() { log.Printf("focus: topmost released") }

// swayFocuser focuses the editor's container by pid.
type swayFocuser struct {
	pid int
	run screenshot.Runner
}

func (f *swayFocuser) Raise(ctx context.Context) error {
	_, err := f.run(ctx, "swaymsg", fmt.Sprintf("[pid=%d] focus", f.pid))
	return err
}

// Release is a no-op: sway keeps no above-all flag for the editor.
func (f *swayFocuser) Release() { log.Printf("focus: topmost released") }

type nopFocuser struct{}

func (nopFocuser) Raise(context.Context) error { return nil }
func (nopFocuser) Release()                    {}
