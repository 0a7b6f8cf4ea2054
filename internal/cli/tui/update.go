package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/haskel/cancerform/internal/form"
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadFeatures(m.ctx, m.config.Form),
		loadModelInfo(m.ctx, m.config.Form),
		textinput.Blink,
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case featuresMsg:
		m.fetching = false
		if msg.err == nil {
			m.buildInputs()
		}
		return m, nil

	case modelInfoMsg:
		// Failures are logged by the controller and never shown.
		return m, nil

	case predictMsg:
		m.submitting = false
		if msg.err == nil {
			m.notice = ""
		}
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.notice = "Exported to " + msg.path
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.cancel()
		return m, tea.Quit

	case "tab", "down", "enter":
		m.setFocus(m.focus + 1)
		return m, nil

	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return m, nil

	case "ctrl+s":
		if m.submitting || m.fetching {
			return m, nil
		}
		m.notice = ""
		if !m.config.Form.Ready() {
			// Sets the validation message without a network call.
			if _, err := m.config.Form.Submit(m.ctx); err != nil && !errors.Is(err, form.ErrNotReady) {
				m.notice = err.Error()
			}
			return m, nil
		}
		m.submitting = true
		return m, submit(m.ctx, m.config.Form)

	case "ctrl+l":
		if m.submitting {
			return m, nil
		}
		m.config.Form.LoadSample()
		m.syncInputs()
		m.notice = "Sample data loaded"
		return m, nil

	case "ctrl+x":
		if m.submitting {
			return m, nil
		}
		m.config.Form.Clear()
		m.syncInputs()
		m.notice = ""
		return m, nil

	case "ctrl+e":
		return m, export(m.config.Form, m.config.ExportDir)
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused input and copies the new
// value into the controller.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.inputs) == 0 || m.submitting {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	names := m.config.Form.Names()
	if m.focus < len(names) {
		if err := m.config.Form.SetField(names[m.focus], m.inputs[m.focus].Value()); err != nil {
			m.notice = err.Error()
		}
	}

	return m, cmd
}
