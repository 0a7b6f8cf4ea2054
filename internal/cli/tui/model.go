package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/haskel/cancerform/internal/form"
)

// Config holds TUI configuration
type Config struct {
	// Form must be created but not yet initialized; the TUI fetches the
	// feature names itself.
	Form      *form.Controller
	ExportDir string
	APIURL    string
}

// Model represents the TUI state
type Model struct {
	config Config
	ctx    context.Context
	cancel context.CancelFunc

	// One input per feature, in service order.
	inputs []textinput.Model
	focus  int

	// UI state
	width      int
	height     int
	fetching   bool
	submitting bool
	notice     string
}

// NewModel creates a new TUI model. Cancelling ctx, or quitting, aborts
// in-flight requests.
func NewModel(ctx context.Context, cfg Config) Model {
	ctx, cancel := context.WithCancel(ctx)
	return Model{
		config:   cfg,
		ctx:      ctx,
		cancel:   cancel,
		fetching: true,
	}
}

func newInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "0.0"
	ti.CharLimit = 24
	ti.Width = 12
	ti.SetValue(value)
	return ti
}

// buildInputs creates inputs for the fetched feature names.
func (m *Model) buildInputs() {
	st := m.config.Form.State()

	m.inputs = make([]textinput.Model, len(st.Names))
	for i, name := range st.Names {
		m.inputs[i] = newInput(st.Values[name])
	}
	m.focus = 0
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

// syncInputs copies controller values back into the inputs after a
// wholesale replacement such as load-sample or clear.
func (m *Model) syncInputs() {
	st := m.config.Form.State()
	for i, name := range st.Names {
		if i < len(m.inputs) {
			m.inputs[i].SetValue(st.Values[name])
			m.inputs[i].CursorEnd()
		}
	}
}

func (m *Model) setFocus(i int) {
	if len(m.inputs) == 0 {
		return
	}
	n := len(m.inputs)
	i = ((i % n) + n) % n

	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}
