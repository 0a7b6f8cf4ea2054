package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haskel/cancerform/internal/form"
)

// Messages for tea.Cmd
type featuresMsg struct {
	err error
}

type modelInfoMsg struct {
	err error
}

type predictMsg struct {
	err error
}

type exportMsg struct {
	path string
	err  error
}

// loadFeatures fetches the feature names as tea.Cmd
func loadFeatures(ctx context.Context, f *form.Controller) tea.Cmd {
	return func() tea.Msg {
		return featuresMsg{err: f.LoadFeatures(ctx)}
	}
}

// loadModelInfo fetches the model description as tea.Cmd
func loadModelInfo(ctx context.Context, f *form.Controller) tea.Cmd {
	return func() tea.Msg {
		return modelInfoMsg{err: f.LoadModelInfo(ctx)}
	}
}

// submit posts the form as tea.Cmd
func submit(ctx context.Context, f *form.Controller) tea.Cmd {
	return func() tea.Msg {
		_, err := f.Submit(ctx)
		return predictMsg{err: err}
	}
}

func export(f *form.Controller, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := f.ExportFile(dir)
		return exportMsg{path: path, err: err}
	}
}
