package screenshot

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		env       map[string]string
		requested string
		want      Backend
		wantErr   error
	}{
		{name: "darwin", goos: "darwin", want: BackendMacOS},
		{name: "sway socket", goos: "linux", env: map[string]string{"SWAYSOCK": "/run/sway.sock"}, want: BackendSway},
		{name: "wayland session", goos: "linux", env: map[string]string{"XDG_SESSION_TYPE": "wayland"}, want: BackendSway},
		{name: "x11 unsupported", goos: "linux", env: map[string]string{"XDG_SESSION_TYPE": "x11"}, wantErr: ErrUnsupportedPlatform},
		{name: "windows unsupported", goos: "windows", wantErr: ErrUnsupportedPlatform},
		{name: "explicit display", goos: "windows", requested: "display", want: BackendDisplay},
		{name: "explicit overrides detection", goos: "darwin", requested: "Sway", want: BackendSway},
		{name: "auto keyword", goos: "darwin", requested: "auto", want: BackendMacOS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			got, err := Detect(tt.goos, getenv, tt.requested)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDetectUnknownBackend(t *testing.T) {
	if _, err := Detect("linux", func(string) string { return "" }, "x11grab"); err == nil {
		t.Fatal("Expected error for unknown backend")
	}
}

func TestLoadMissingAndEmpty(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.png")); !errors.Is(err, ErrCaptureAborted) {
		t.Fatalf("Expected ErrCaptureAborted for missing file, got %v", err)
	}

	empty := filepath.Join(dir, "empty.png")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); !errors.Is(err, ErrCaptureAborted) {
		t.Fatalf("Expected ErrCaptureAborted for empty file, got %v", err)
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(garbage); !errors.Is(err, ErrCaptureAborted) {
		t.Fatalf("Expected ErrCaptureAborted for undecodable file, got %v", err)
	}
}

func TestLoadDropsAlpha(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.png")
	src := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	src.SetNRGBA(1, 1, color.NRGBA{R: 100, G: 50, B: 25, A: 64})
	src.SetNRGBA(3, 2, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	writePNG(t, path, src)

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("Unexpected bounds %v", img.Bounds())
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{R: 100, G: 50, B: 25, A: 255}) {
		t.Fatalf("Expected straight RGB with opaque alpha, got %#v", got)
	}
	if got := img.RGBAAt(3, 2); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Fatalf("Unexpected pixel %#v", got)
	}
}

type fakeRunner struct {
	calls [][]string
	fn    func(name string, args []string) ([]byte, error)
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.fn(name, args)
}

func TestSwayCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snip_temp.png")
	r := &fakeRunner{fn: func(name string, args []string) ([]byte, error) {
		if name == "slurp" {
			return []byte("10,20 30x40\n"), nil
		}
		writePNG(t, args[len(args)-1], image.NewRGBA(image.Rect(0, 0, 30, 40)))
		return nil, nil
	}}

	c, err := New(BackendSway, path, r.run)
	if err != nil {
		t.Fatal(err)
	}
	img, err := c.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 40 {
		t.Fatalf("Unexpected size %v", img.Bounds())
	}
	if len(r.calls) != 2 || r.calls[1][0] != "grim" || r.calls[1][2] != "10,20 30x40" {
		t.Fatalf("Unexpected commands %v", r.calls)
	}
}

func TestSwayCaptureSelectionCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snip_temp.png")
	r := &fakeRunner{fn: func(name string, args []string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}}

	c, _ := New(BackendSway, path, r.run)
	if _, err := c.Capture(context.Background()); !errors.Is(err, ErrCaptureAborted) {
		t.Fatalf("Expected ErrCaptureAborted, got %v", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("grim must not run after a cancelled selection, calls=%v", r.calls)
	}
}

func TestMacCaptureIgnoresStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snip_temp.png")
	writePNG(t, path, image.NewRGBA(image.Rect(0, 0, 5, 5)))

	// User pressed Escape: screencapture writes nothing.
	r := &fakeRunner{fn: func(name string, args []string) ([]byte, error) { return nil, nil }}
	c, _ := New(BackendMacOS, path, r.run)
	if _, err := c.Capture(context.Background()); !errors.Is(err, ErrCaptureAborted) {
		t.Fatalf("Expected ErrCaptureAborted, got %v", err)
	}
	if r.calls[0][0] != "screencapture" || r.calls[0][1] != "-i" {
		t.Fatalf("Unexpected command %v", r.calls[0])
	}
}

func TestDisplayCaptureWritesTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snip_temp.png")
	c := &displayCapturer{tempPath: path, grab: func() (*image.RGBA, error) {
		img := image.NewRGBA(image.Rect(0, 0, 8, 6))
		img.SetRGBA(2, 2, color.RGBA{R: 9, A: 255})
		return img, nil
	}}

	img, err := c.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if got := img.RGBAAt(2, 2); got != (color.RGBA{R: 9, A: 255}) {
		t.Fatalf("Unexpected pixel %#v", got)
	}
	if st, err := os.Stat(path); err != nil || st.Size() == 0 {
		t.Fatalf("Expected temp file to be written, err=%v", err)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New(Backend("nope"), "/tmp/x.png", nil); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("Expected ErrUnsupportedPlatform, got %v", err)
	}
}
