package form

import (
	"github.com/haskel/cancerform/internal/features"
	"github.com/haskel/cancerform/internal/predictor"
)

// Phase is the submission status of a form.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of a Controller.
type State struct {
	Names   []string
	Values  features.Set
	Info    *predictor.ModelInfo
	Result  *predictor.Result
	Loading bool
	Error   string
	Phase   Phase
	Ready   bool
}

// Invalid reports whether a field holds a non-empty value that does not
// parse. Empty fields are never flagged.
func (s State) Invalid(name string) bool {
	return !features.Valid(s.Values[name])
}

// Filled returns how many fields hold a valid number.
func (s State) Filled() int {
	n := 0
	for _, name := range s.Names {
		if _, err := features.Parse(s.Values[name]); err == nil {
			n++
		}
	}
	return n
}

// Disclaimer is shown under every prediction.
const Disclaimer = "This tool is for educational purposes only and is not a substitute " +
	"for professional medical diagnosis. Always consult a qualified healthcare provider."
