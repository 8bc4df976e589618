package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultTempPath       = "/tmp/snip_temp.png"
	DefaultLineWidth      = 3
	DefaultHistoryLimit   = 40
	DefaultTopmostRelease = 200 * time.Millisecond

	ConfigPathEnvVar = "SNIP_ANNOTATE"

	BackendAuto = "auto"
)

// DefaultBrushColor is the accent color strokes start with.
var DefaultBrushColor = color.RGBA{R: 255, A: 255}

var namedColors = map[string]string{
	"red":    "#ff0000",
	"green":  "#00ff00",
	"blue":   "#0000ff",
	"yellow": "#ffff00",
	"black":  "#000000",
	"white":  "#ffffff",
	"orange": "#ffa500",
}

type LoadOptions struct {
	TempPathOverride   string
	BrushColorOverride string
}

type Config struct {
	TempPath          string
	BrushColor        color.RGBA
	LineWidth         int
	HistoryLimit      int
	CaptureBackend    string
	ClipboardBackend  string
	TopmostRelease    time.Duration
	EnableFileLogging bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use SNIP_ANNOTATE env var as a path to a config file
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	tempPath := getEnvWithDefault("SNIP_TEMP_PATH", DefaultTempPath)
	if override := strings.TrimSpace(opts.TempPathOverride); override != "" {
		tempPath = override
	}

	brushValue := os.Getenv("BRUSH_COLOR")
	if override := strings.TrimSpace(opts.BrushColorOverride); override != "" {
		brushValue = override
	}
	brush := DefaultBrushColor
	if brushValue != "" {
		if c, err := ParseColor(brushValue); err == nil {
			brush = c
		}
	}

	releaseMs := getPositiveInt("TOPMOST_RELEASE_MS", int(DefaultTopmostRelease/time.Millisecond))

	cfg := &Config{
		TempPath:          tempPath,
		BrushColor:        brush,
		LineWidth:         getPositiveInt("LINE_WIDTH", DefaultLineWidth),
		HistoryLimit:      getPositiveInt("HISTORY_LIMIT", DefaultHistoryLimit),
		CaptureBackend:    resolveBackend(os.Getenv("CAPTURE_BACKEND")),
		ClipboardBackend:  resolveBackend(os.Getenv("CLIPBOARD_BACKEND")),
		TopmostRelease:    time.Duration(releaseMs) * time.Millisecond,
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
	}

	return cfg, nil
}

// ParseColor accepts a small set of color names or a hex value ("#rrggbb" or "#rgb").
func ParseColor(value string) (color.RGBA, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if hex, ok := namedColors[v]; ok {
		v = hex
	}
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(ConfigPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func resolveBackend(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return BackendAuto
	}
	return v
}

func getPositiveInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
