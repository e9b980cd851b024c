package ui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

var markdownRenderer *glamour.TermRenderer

func init() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Fall back to plain text when the renderer cannot initialize.
		markdownRenderer = nil
		return
	}
	markdownRenderer = r
}

// Markdown renders markdown for the terminal, returning the input unchanged
// when rendering is unavailable.
func Markdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// PrintMarkdown renders markdown and writes it to stdout.
func PrintMarkdown(content string) {
	fmt.Print(Markdown(content))
}
