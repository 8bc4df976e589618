package screenshot

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/kbinani/screenshot"
)

// displayCapturer grabs the whole primary display without a region
// selection. It still goes through the temp file so the path contract holds
// for every backend.
type displayCapturer struct {
	tempPath string
	grab     func() (*image.RGBA, error)
}

func (c *displayCapturer) Capture(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	removeStale(c.tempPath)
	img, err := c.grab()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureAborted, err)
	}
	if err := imaging.Save(img, c.tempPath); err != nil {
		return nil, fmt.Errorf("failed to write capture to %s: %w", c.tempPath, err)
	}
	return Load(c.tempPath)
}

// grabPrimaryDisplay captures display 0.
func grabPrimaryDisplay() (*image.RGBA, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, fmt.Errorf("no active displays found")
	}
	bounds := screenshot.GetDisplayBounds(0)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display: %v", err)
	}
	return img, nil
}
