package screenshot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	// ErrCaptureAborted means the capture tool produced no usable image,
	// typically because the user dismissed the region selection.
	ErrCaptureAborted = errors.New("capture aborted")
	// ErrUnsupportedPlatform means no capture backend is available here.
	ErrUnsupportedPlatform = errors.New("unsupported platform: this tool targets macOS and Sway/Wayland")
)

// Capturer produces the bitmap a session starts from.
type Capturer interface {
	Capture(ctx context.Context) (*image.RGBA, error)
}

// Runner executes an external command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// New returns the capturer for backend, writing captures to tempPath.
// A nil run uses ExecRunner.
func New(backend Backend, tempPath string, run Runner) (Capturer, error) {
	if run == nil {
		run = ExecRunner
	}
	switch backend {
	case BackendMacOS:
		return &macCapturer{tempPath: tempPath, run: run}, nil
	case BackendSway:
		return &swayCapturer{tempPath: tempPath, run: run}, nil
	case BackendDisplay:
		return &displayCapturer{tempPath: tempPath, grab: grabPrimaryDisplay}, nil
	default:
		return nil, fmt.Errorf("%w: backend %q", ErrUnsupportedPlatform, backend)
	}
}

// macCapturer uses screencapture's interactive selection.
type macCapturer struct {
	tempPath string
	run      Runner
}

func (c *macCapturer) Capture(ctx context.Context) (*image.RGBA, error) {
	removeStale(c.tempPath)
	// screencapture exits 0 when the user presses Escape; the missing file tells us.
	if _, err := c.run(ctx, "screencapture", "-i", c.tempPath); err != nil {
		log.Printf("screencapture failed: %v", err)
	}
	return Load(c.tempPath)
}

// swayCapturer selects a region with slurp and grabs it with grim.
type swayCapturer struct {
	tempPath string
	run      Runner
}

func (c *swayCapturer) Capture(ctx context.Context) (*image.RGBA, error) {
	removeStale(c.tempPath)
	out, err := c.run(ctx, "slurp")
	if err != nil {
		log.Printf("slurp selection failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCaptureAborted, err)
	}
	selection := strings.TrimSpace(string(out))
	if selection == "" {
		return nil, ErrCaptureAborted
	}
	if _, err := c.run(ctx, "grim", "-g", selection, c.tempPath); err != nil {
		log.Printf("grim failed for region %q: %v", selection, err)
	}
	return Load(c.tempPath)
}

// Load decodes the capture file at path into an opaque RGBA bitmap.
// A missing or empty file is ErrCaptureAborted.
func Load(path string) (*image.RGBA, error) {
	st, err := os.Stat(path)
	if err != nil || st.Size() == 0 {
		return nil, ErrCaptureAborted
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCaptureAborted, path, err)
	}
	return dropAlpha(img), nil
}

// dropAlpha keeps the straight (non-premultiplied) RGB values and makes every
// pixel opaque.
func dropAlpha(img image.Image) *image.RGBA {
	src := imaging.Clone(img)
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := src.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			dst.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return dst
}

func removeStale(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("could not remove stale capture %s: %v", path, err)
	}
}
