package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

var (
	// ErrClipboardWriteFailed is returned when the clipboard collaborator fails.
	// The session stays open.
	ErrClipboardWriteFailed = errors.New("clipboard write failed")
	// ErrSaveCancelled is returned when the user dismisses the save prompt.
	// It is a silent no-op, not a failure.
	ErrSaveCancelled = errors.New("save cancelled")
)

// Target selects where an export goes.
type Target int

const (
	TargetClipboard Target = iota
	TargetFile
)

func (t Target) String() string {
	switch t {
	case TargetClipboard:
		return "clipboard"
	case TargetFile:
		return "file"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// Request describes one export. Path is only used for TargetFile; when empty
// the save prompt is asked for one.
type Request struct {
	Target Target
	Path   string
}

// Clipboard hands an encoded PNG to the system clipboard.
type Clipboard interface {
	CopyImage(ctx context.Context, path string, png []byte) error
}

// SavePrompt asks the user for a destination. ok is false when cancelled.
type SavePrompt interface {
	PromptSavePath(ctx context.Context) (path string, ok bool, err error)
}

// Exporter serializes bitmaps to PNG for the clipboard or a file.
type Exporter struct {
	TempPath  string
	Clipboard Clipboard
	Prompt    SavePrompt
}

// Export writes bitmap to req's target and returns the path that was written.
func (e *Exporter) Export(ctx context.Context, bitmap *image.RGBA, req Request) (string, error) {
	switch req.Target {
	case TargetClipboard:
		return e.toClipboard(ctx, bitmap)
	case TargetFile:
		return e.toFile(ctx, bitmap, req.Path)
	default:
		return "", fmt.Errorf("unknown export target %v", req.Target)
	}
}

func (e *Exporter) toClipboard(ctx context.Context, bitmap *image.RGBA) (string, error) {
	if e.Clipboard == nil {
		return "", fmt.Errorf("%w: no clipboard available", ErrClipboardWriteFailed)
	}
	data, err := Encode(bitmap)
	if err != nil {
		return "", err
	}
	// The clipboard mechanism may read the file instead of the bytes.
	if err := os.WriteFile(e.TempPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", e.TempPath, err)
	}
	if err := e.Clipboard.CopyImage(ctx, e.TempPath, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrClipboardWriteFailed, err)
	}
	log.Printf("export: copied %dx%d image to clipboard (%d bytes)", bitmap.Bounds().Dx(), bitmap.Bounds().Dy(), len(data))
	return e.TempPath, nil
}

func (e *Exporter) toFile(ctx context.Context, bitmap *image.RGBA, path string) (string, error) {
	if path == "" {
		if e.Prompt == nil {
			return "", errors.New("no save prompt available")
		}
		chosen, ok, err := e.Prompt.PromptSavePath(ctx)
		if err != nil {
			return "", fmt.Errorf("save prompt failed: %w", err)
		}
		if !ok || chosen == "" {
			return "", ErrSaveCancelled
		}
		path = chosen
	}
	chosen := path
	if filepath.Ext(path) == "" {
		path += ".png"
	}

	data, err := Encode(bitmap)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if chosen != path {
		removePlaceholder(chosen)
	}
	log.Printf("export: saved %dx%d image to %s", bitmap.Bounds().Dx(), bitmap.Bounds().Dy(), path)
	return path, nil
}

// removePlaceholder deletes the empty file a save dialog may have created at
// the name the user typed before ".png" was appended. Files with content are
// left alone.
func removePlaceholder(path string) {
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() || st.Size() != 0 {
		return
	}
	if err := os.Remove(path); err != nil {
		log.Printf("export: could not remove placeholder %s: %v", path, err)
	}
}

// Encode serializes img as PNG.
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}
