// Package tui shows a spinner while an apply run is in flight and a summary
// once it finishes.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kodo/internal/apply"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

type summaryMsg struct {
	apply.Summary
}

type errorMsg struct{ err error }

type phase int

const (
	phaseProcessing phase = iota
	phaseSummary
	phaseError
)

// Runner produces the apply summary; it runs once, off the UI loop.
type Runner func() (apply.Summary, error)

// Model is the bubbletea model for apply mode.
type Model struct {
	run     Runner
	spinner spinner.Model
	phase   phase
	summary apply.Summary
	err     error
}

// New creates the apply-mode model.
func New(run Runner) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{run: run, spinner: s, phase: phaseProcessing}
}

// Err returns the terminal error, if the run failed.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		summary, err := m.run()
		if err != nil {
			return errorMsg{err}
		}
		return summaryMsg{summary}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case summaryMsg:
		m.phase = phaseSummary
		m.summary = msg.Summary
		return m, tea.Quit

	case errorMsg:
		m.phase = phaseError
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.phase == phaseProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.phase {
	case phaseProcessing:
		return fmt.Sprintf("%s Applying...", m.spinner.View())
	case phaseError:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	case phaseSummary:
		return renderSummary(m.summary)
	default:
		return ""
	}
}

func renderSummary(s apply.Summary) string {
	var b strings.Builder

	if s.Message != "" {
		b.WriteString(headerStyle.Render(s.Message))
		b.WriteString("\n")
	}

	section := func(style lipgloss.Style, title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString(style.Render(title))
		b.WriteString("\n")
		for _, item := range items {
			fmt.Fprintf(&b, "  %s\n", item)
		}
	}
	section(successStyle, "Created:", s.Created)
	section(successStyle, "Modified:", s.Modified)
	section(errorStyle, "Failed:", s.Failed)

	if s.Message == "" && len(s.Created) == 0 && len(s.Modified) == 0 && len(s.Failed) == 0 {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}
	return b.String()
}
