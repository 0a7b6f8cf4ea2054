package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/haskel/cancerform/internal/features"
	"github.com/haskel/cancerform/internal/form"
	"github.com/haskel/cancerform/internal/predictor"
)

const (
	labelWidth = 26
	barWidth   = 30
	// Below this width groups are stacked instead of side by side.
	wideLayout = 130
)

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	st := m.config.Form.State()

	var sections []string

	// Title bar
	sections = append(sections, m.renderTitleBar())

	if st.Info != nil {
		sections = append(sections, m.renderModelInfo(st.Info))
	}

	// Error display
	if st.Error != "" {
		sections = append(sections, errorStyle.Render("Error: "+st.Error))
	}

	if m.fetching {
		sections = append(sections, helpStyle.Render("  Fetching feature names..."))
	} else if len(m.inputs) > 0 {
		sections = append(sections, m.renderGroups(st))
		sections = append(sections, m.renderSubmitLine(st))
	}

	if st.Result != nil {
		sections = append(sections, m.renderResult(st.Result))
	}

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render("  "+m.notice))
	}

	// Footer
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar() string {
	title := titleStyle.Render("BREAST CANCER DETECTION")

	right := helpStyle.Render(m.config.APIURL)

	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if spacing < 1 {
		spacing = 1
	}

	return fmt.Sprintf("%s%s%s", title, strings.Repeat(" ", spacing), right)
}

func (m Model) renderModelInfo(info *predictor.ModelInfo) string {
	lines := []string{
		sectionHeaderStyle.Render(info.ModelType) + labelStyle.Render(fmt.Sprintf("  %d features", info.FeaturesCount)),
	}
	if info.Description != "" {
		lines = append(lines, valueStyle.Render(info.Description))
	}
	return infoStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderGroups(st form.State) string {
	index := make(map[string]int, len(st.Names))
	for i, name := range st.Names {
		index[name] = i
	}

	var columns []string
	for _, g := range features.GroupsFor(st.Names) {
		lines := []string{sectionHeaderStyle.Render(g.Title)}
		for _, name := range g.Names {
			lines = append(lines, m.renderField(st, name, index[name]))
		}
		columns = append(columns, groupStyle.Render(strings.Join(lines, "\n")))
	}

	if m.width >= wideLayout {
		return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, columns...)
}

func (m Model) renderField(st form.State, name string, i int) string {
	label := fmt.Sprintf("%-*s", labelWidth, truncate(features.Label(name), labelWidth-2))

	style := labelStyle
	marker := " "
	switch {
	case st.Invalid(name):
		style = invalidLabelStyle
		marker = invalidLabelStyle.Render("✗")
	case i == m.focus:
		style = focusedLabelStyle
	}

	cursor := " "
	if i == m.focus {
		cursor = focusedLabelStyle.Render("›")
	}

	return fmt.Sprintf("%s%s %s%s", cursor, style.Render(label), m.inputs[i].View(), marker)
}

func (m Model) renderSubmitLine(st form.State) string {
	counter := fmt.Sprintf("%d/%d fields filled", st.Filled(), len(st.Names))

	var action string
	switch {
	case m.submitting:
		action = noticeStyle.Render("Predicting...")
	case st.Ready:
		action = benignStyle.Render("Ready: ctrl+s to predict")
	default:
		action = labelStyle.Render("Fill every field to predict")
	}

	return fmt.Sprintf("  %s  %s", valueStyle.Render(counter), action)
}

func (m Model) renderResult(r *predictor.Result) string {
	classStyle := benignStyle
	if r.IsMalignant() {
		classStyle = malignantStyle
	}

	lines := []string{
		classStyle.Render(r.Title()),
		m.renderProgressBar("Confidence", r.Confidence, barWidth, classColor(r.IsMalignant())),
		fmt.Sprintf("%s %s   %s %s",
			labelStyle.Render("Malignant:"), valueStyle.Render(formatPercent(r.Probabilities.Malignant)),
			labelStyle.Render("Benign:"), valueStyle.Render(formatPercent(r.Probabilities.Benign)),
		),
		helpStyle.Width(barWidth + 30).Render(form.Disclaimer),
	}

	return resultStyle.BorderForeground(classColor(r.IsMalignant())).Render(strings.Join(lines, "\n"))
}

func (m Model) renderProgressBar(label string, percent float64, width int, color lipgloss.Color) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledBar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyBar := progressBarEmptyStyle.Render(strings.Repeat("░", width-filled))

	return fmt.Sprintf("%s [%s%s] %s", labelStyle.Render(label), filledBar, emptyBar, formatPercent(percent))
}

func (m Model) renderFooter() string {
	return helpStyle.Render("  tab/↑↓:move ctrl+s:predict ctrl+l:sample ctrl+x:clear ctrl+e:export esc:quit")
}

// formatPercent prints the value as received, without rounding.
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
