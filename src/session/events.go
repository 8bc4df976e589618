package session

import (
	"image/color"

	"snip-annotate/src/annotate"
	"snip-annotate/src/export"
)

// Event is one user action delivered to the controller.
type Event interface {
	Type() string
}

// Event type constants for logging and dispatch
const (
	TypePointerDown          = "PointerDown"
	TypePointerMove          = "PointerMove"
	TypePointerUp            = "PointerUp"
	TypeUndoRequested        = "UndoRequested"
	TypeColorChangeRequested = "ColorChangeRequested"
	TypeExportRequested      = "ExportRequested"
	TypeCancelRequested      = "CancelRequested"
)

// PointerDown - primary button pressed on the canvas, starts a stroke
type PointerDown struct {
	Point annotate.Point
}

func (e PointerDown) Type() string { return TypePointerDown }

// PointerMove - pointer dragged with the button held
type PointerMove struct {
	Point annotate.Point
}

func (e PointerMove) Type() string { return TypePointerMove }

// PointerUp - primary button released, ends the stroke
type PointerUp struct{}

func (e PointerUp) Type() string { return TypePointerUp }

// UndoRequested - toolbar button or Ctrl/Cmd+Z
type UndoRequested struct{}

func (e UndoRequested) Type() string { return TypeUndoRequested }

// ColorChangeRequested - user picked a new brush color
type ColorChangeRequested struct {
	Color color.Color
}

func (e ColorChangeRequested) Type() string { return TypeColorChangeRequested }

// ExportRequested - copy to clipboard or save to file
type ExportRequested struct {
	Target export.Target
	Path   string // optional, file target only
}

func (e ExportRequested) Type() string { return TypeExportRequested }

// CancelRequested - Escape or window close
type CancelRequested struct{}

func (e CancelRequested) Type() string { return TypeCancelRequested }
