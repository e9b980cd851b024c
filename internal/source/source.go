// Package source retrieves the raw text to process in apply mode.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"

	"kodo/internal/ui"
)

// Provider reads raw model output from stdin when piped, otherwise from the
// system clipboard.
type Provider struct{}

// New creates a Provider.
func New() *Provider {
	return &Provider{}
}

// GetContent returns the text to process. An empty result means there is
// nothing to do, not an error.
func (p *Provider) GetContent() (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		ui.Header("--- Reading from stdin ---")
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(content), nil
	}

	ui.Header("--- Reading from clipboard ---")
	content, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	return content, nil
}

// ReadClipboard returns clipboard text, used by the REPL /paste command.
func ReadClipboard() (string, error) {
	content, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return content, nil
}
