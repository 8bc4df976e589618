package screenshot

import (
	"fmt"
	"strings"
)

// Backend names a capture mechanism.
type Backend string

const (
	BackendAuto    Backend = "auto"
	BackendMacOS   Backend = "macos"
	BackendSway    Backend = "sway"
	BackendDisplay Backend = "display"
)

// Detect picks the capture backend. An explicit requested backend wins;
// "auto" (or empty) chooses macOS screencapture on darwin and slurp+grim on
// Sway/Wayland sessions. The display backend is only used when requested.
func Detect(goos string, getenv func(string) string, requested string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(requested))); b {
	case "", BackendAuto:
	case BackendMacOS, BackendSway, BackendDisplay:
		return b, nil
	default:
		return "", fmt.Errorf("unknown capture backend %q", requested)
	}

	if goos == "darwin" {
		return BackendMacOS, nil
	}
	if getenv("SWAYSOCK") != "" || getenv("XDG_SESSION_TYPE") == "wayland" {
		return BackendSway, nil
	}
	return "", ErrUnsupportedPlatform
}
