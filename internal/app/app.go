// Package app orchestrates the application: it wires configuration, state,
// the model client and the tools, then runs the mode the flags selected.
package app

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"kodo/internal/agent"
	"kodo/internal/apply"
	"kodo/internal/cli"
	"kodo/internal/config"
	"kodo/internal/fs"
	"kodo/internal/llm"
	"kodo/internal/source"
	"kodo/internal/state"
	"kodo/internal/tools"
	"kodo/internal/tui"
	"kodo/internal/ui"
)

// App holds the wired collaborators for one run.
type App struct {
	flags *cli.Config
	cfg   config.Config
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

// New creates an App from parsed flags.
func New(flags *cli.Config) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.Model != "" {
		cfg.Model = flags.Model
	}
	return &App{flags: flags, cfg: cfg}, nil
}

// Run executes the mode the flags selected.
func (a *App) Run(ctx context.Context) (err error) {
	// Centralized panic recovery to provide stack traces for unexpected errors.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	if a.flags.Dir != "" {
		if err := os.Chdir(a.flags.Dir); err != nil {
			return fmt.Errorf("change to project directory: %w", err)
		}
	}

	switch {
	case a.flags.Undo:
		return a.undoLastOperation()
	case a.flags.Redo:
		return a.redoLastOperation()
	case a.flags.Apply:
		return a.applyFromSource()
	default:
		return a.runAgent(ctx)
	}
}

// runAgent starts the chat loop, or a single turn for --one-shot.
func (a *App) runAgent(ctx context.Context) error {
	apiKey := a.cfg.APIKey()
	if apiKey == "" {
		return fmt.Errorf("no API key found; set %s", a.cfg.APIKeyEnv)
	}

	client, err := llm.New(llm.Config{
		Model:      a.cfg.Model,
		FixerModel: a.cfg.FixerModel,
		BaseURL:    a.cfg.BaseURL,
		APIKey:     apiKey,
	})
	if err != nil {
		return err
	}

	manager, err := state.New()
	if err != nil {
		return fmt.Errorf("initialize state manager: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	registry := tools.NewRegistry(&tools.Env{
		Config:  a.cfg,
		LLM:     client,
		State:   manager,
		WorkDir: wd,
	})

	ag := agent.New(client, registry)
	if a.flags.OneShot != "" {
		return ag.RunOnce(ctx, a.flags.OneShot)
	}
	return ag.Run(ctx)
}

// applyFromSource reads model output from stdin or the clipboard, plans the
// changes and applies them behind the spinner UI.
func (a *App) applyFromSource() error {
	content, err := source.New().GetContent()
	if err != nil {
		return err
	}
	if content == "" {
		ui.Warning("Source is empty. Nothing to process.")
		return nil
	}

	resolver, err := fs.NewPathResolver(a.flags.LookupDirs)
	if err != nil {
		return err
	}

	manager, err := state.New()
	if err != nil {
		return fmt.Errorf("initialize state manager: %w", err)
	}

	run := func() (apply.Summary, error) {
		changes, failures, err := apply.Plan(content, resolver)
		if err != nil {
			return apply.Summary{}, err
		}
		if len(changes) == 0 && len(failures) == 0 {
			return apply.Summary{Message: "No changes found."}, nil
		}
		return apply.Run(changes, failures, manager)
	}

	model, err := tea.NewProgram(tui.New(run)).Run()
	if err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	if m, ok := model.(tui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

func (a *App) undoLastOperation() error {
	manager, err := state.New()
	if err != nil {
		return fmt.Errorf("initialize state manager: %w", err)
	}

	restored, err := manager.Undo()
	if err != nil {
		return err
	}
	if len(restored) == 0 {
		ui.Warning("Nothing to undo.")
		return nil
	}

	ui.Header("--- Reverted last operation ---")
	for _, path := range restored {
		ui.Path("- %s", path)
	}
	return nil
}

func (a *App) redoLastOperation() error {
	manager, err := state.New()
	if err != nil {
		return fmt.Errorf("initialize state manager: %w", err)
	}

	restored, err := manager.Redo()
	if err != nil {
		return err
	}
	if len(restored) == 0 {
		ui.Warning("Nothing to redo.")
		return nil
	}

	ui.Header("--- Redone last reverted operation ---")
	for _, path := range restored {
		ui.Path("- %s", path)
	}
	return nil
}
