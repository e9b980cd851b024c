// Package ui renders kodo's terminal output: styled status lines on stderr,
// colorized unified diffs and markdown.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("222"))

	diffAddStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	diffDelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	diffHunkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	diffHeaderStyle = lipgloss.NewStyle().Bold(true)
)

func Header(format string, a ...any) {
	fmt.Fprintln(os.Stderr, headerStyle.Render(fmt.Sprintf(format, a...)))
}

func Info(format string, a ...any) {
	fmt.Fprintln(os.Stderr, infoStyle.Render(fmt.Sprintf(format, a...)))
}

func Success(format string, a ...any) {
	fmt.Fprintln(os.Stderr, successStyle.Render(fmt.Sprintf(format, a...)))
}

func Warning(format string, a ...any) {
	fmt.Fprintln(os.Stderr, warningStyle.Render(fmt.Sprintf(format, a...)))
}

func Error(format string, a ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf(format, a...)))
}

func Path(format string, a ...any) {
	fmt.Fprintln(os.Stderr, "  "+pathStyle.Render(fmt.Sprintf(format, a...)))
}

// RenderDiff colorizes a unified diff line by line: additions green, removals
// red, hunk markers cyan, file headers bold. Context lines pass through.
func RenderDiff(diff string) string {
	if diff == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")
	out := make([]string, len(lines))
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			out[i] = diffHeaderStyle.Render(l)
		case strings.HasPrefix(l, "@@"):
			out[i] = diffHunkStyle.Render(l)
		case strings.HasPrefix(l, "+"):
			out[i] = diffAddStyle.Render(l)
		case strings.HasPrefix(l, "-"):
			out[i] = diffDelStyle.Render(l)
		default:
			out[i] = l
		}
	}
	return strings.Join(out, "\n") + "\n"
}

// PrintDiff writes a colorized diff to stdout.
func PrintDiff(diff string) {
	fmt.Print(RenderDiff(diff))
}
