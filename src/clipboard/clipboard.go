package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"golang.design/x/clipboard"
)

// ErrWriteFailed wraps every failure to place an image on the clipboard.
var ErrWriteFailed = errors.New("clipboard write failed")

// Backend names a clipboard mechanism.
type Backend string

const (
	BackendAuto      Backend = "auto"
	BackendOSAScript Backend = "osascript"
	BackendWlCopy    Backend = "wl-copy"
	BackendNative    Backend = "native"
)

// Writer places a PNG image on the system clipboard. path holds the same
// bytes as png for mechanisms that read from a file.
type Writer interface {
	WriteImage(ctx context.Context, path string, png []byte) error
}

// Command runs name with stdin and returns combined output.
type Command func(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)

// ExecCommand runs commands with os/exec.
func ExecCommand(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	return cmd.CombinedOutput()
}

// Detect resolves "auto" (or empty) to the platform mechanism: osascript on
// darwin, wl-copy on Wayland/Sway, the native library elsewhere.
func Detect(goos string, getenv func(string) string, requested string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(requested))); b {
	case "", BackendAuto:
	case BackendOSAScript, BackendWlCopy, BackendNative:
		return b, nil
	default:
		return "", fmt.Errorf("unknown clipboard backend %q", requested)
	}

	if goos == "darwin" {
		return BackendOSAScript, nil
	}
	if getenv("SWAYSOCK") != "" || getenv("XDG_SESSION_TYPE") == "wayland" || getenv("WAYLAND_DISPLAY") != "" {
		return BackendWlCopy, nil
	}
	return BackendNative, nil
}

// New returns the writer for backend. A nil run uses ExecCommand.
func New(backend Backend, run Command) (Writer, error) {
	if run == nil {
		run = ExecCommand
	}
	switch backend {
	case BackendOSAScript:
		return osascriptWriter{run: run}, nil
	case BackendWlCopy:
		return wlCopyWriter{run: run}, nil
	case BackendNative:
		return newNativeWriter(), nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q", backend)
	}
}

type osascriptWriter struct{ run Command }

func (w osascriptWriter) WriteImage(ctx context.Context, path string, png []byte) error {
	script := fmt.Sprintf(`set the clipboard to (read (POSIX file %q) as «class PNGf»)`, path)
	if out, err := w.run(ctx, nil, "osascript", "-e", script); err != nil {
		return fmt.Errorf("%w: osascript: %v: %s", ErrWriteFailed, err, strings.TrimSpace(string(out)))
	}
	return nil
}

type wlCopyWriter struct{ run Command }

func (w wlCopyWriter) WriteImage(ctx context.Context, path string, png []byte) error {
	if out, err := w.run(ctx, png, "wl-copy", "-t", "image/png"); err != nil {
		return fmt.Errorf("%w: wl-copy: %v: %s", ErrWriteFailed, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Holder is implemented by writers whose clipboard content is served by this
// process. Hold blocks until another client takes the clipboard or ctx ends.
type Holder interface {
	Hold(ctx context.Context)
}

// ownsSelection is true where the native library serves clipboard requests
// from this process (X11) instead of handing the data to the OS.
var ownsSelection = runtime.GOOS != "darwin" && runtime.GOOS != "windows"

// nativeWriter uses golang.design/x/clipboard, initialized on first use.
type nativeWriter struct {
	init  func() error
	write func(clipboard.Format, []byte) <-chan struct{}
	hold  bool

	once    sync.Once
	initErr error

	mu   sync.Mutex
	held <-chan struct{}
}

func newNativeWriter() *nativeWriter {
	return &nativeWriter{init: clipboard.Init, write: clipboard.Write, hold: ownsSelection}
}

func (w *nativeWriter) WriteImage(ctx context.Context, path string, png []byte) error {
	w.once.Do(func() { w.initErr = w.init() })
	if w.initErr != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, w.initErr)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	// The channel closes when another client overwrites the clipboard.
	changed := w.write(clipboard.FmtImage, png)
	if w.hold {
		w.held = changed
	}
	return nil
}

// Hold keeps serving the last written image until it is replaced. It returns
// at once when nothing was written or the OS owns the data.
func (w *nativeWriter) Hold(ctx context.Context) {
	w.mu.Lock()
	held := w.held
	w.mu.Unlock()
	if held == nil {
		return
	}
	log.Printf("clipboard: serving image until another client takes the clipboard")
	select {
	case <-held:
		log.Printf("clipboard: ownership lost")
	case <-ctx.Done():
	}
}
