package session

// State is the lifecycle phase of a session.
type State int

const (
	StateCapturing State = iota
	StateEditing
	StateExporting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateCapturing:
		return "Capturing"
	case StateEditing:
		return "Editing"
	case StateExporting:
		return "Exporting"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Outcome records how a closed session ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeAborted
	OutcomeCancelled
	OutcomeCopied
	OutcomeSaved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAborted:
		return "aborted"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeCopied:
		return "copied"
	case OutcomeSaved:
		return "saved"
	default:
		return "none"
	}
}
