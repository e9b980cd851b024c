// Package agent runs the interactive conversation loop: user input goes to
// the model, the model answers with tool calls, tool results feed back into
// the conversation until the model talks to the user.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"kodo/internal/jsonx"
	"kodo/internal/llm"
	"kodo/internal/source"
	"kodo/internal/tools"
	"kodo/internal/ui"
)

// toolCall is one requested tool invocation.
type toolCall struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// envelope is the JSON shape the model must respond with.
type envelope struct {
	ToolCalls []toolCall `json:"tool_calls"`
}

// formatNudges bounds how often a turn re-asks for valid JSON before giving
// control back to the user.
const formatNudges = 3

// Agent holds the conversation and its collaborators.
type Agent struct {
	client   *llm.Client
	registry *tools.Registry

	messages []llm.Message
	attached string
}

// New creates an agent with a fresh conversation.
func New(client *llm.Client, registry *tools.Registry) *Agent {
	return &Agent{
		client:   client,
		registry: registry,
		messages: []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}},
	}
}

// RunOnce processes a single instruction and returns.
func (a *Agent) RunOnce(ctx context.Context, instruction string) error {
	return a.processTurn(ctx, instruction)
}

// Run starts the interactive loop. It returns when the user quits or stdin
// closes.
func (a *Agent) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := historyFile()
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	ui.Info("Model: %s. Type /quit to exit, /reset to clear the conversation, /usage for token counts, /paste to attach clipboard text.", a.client.Model())

	for {
		input, err := line.Prompt("> ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if done := a.handleCommand(input); done {
			return nil
		}
		if strings.HasPrefix(input, "/") {
			continue
		}

		if err := a.processTurn(ctx, input); err != nil {
			ui.Error("%v", err)
		}
	}
}

// handleCommand processes REPL commands; it reports whether the loop should
// exit.
func (a *Agent) handleCommand(input string) bool {
	switch input {
	case "exit", "quit", "/quit":
		return true
	case "/reset":
		a.messages = []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}
		a.client.ResetUsage()
		ui.Info("Conversation reset.")
	case "/usage":
		prompt, completion := a.client.Usage()
		ui.Info("Tokens used: %d prompt, %d completion.", prompt, completion)
	case "/paste":
		content, err := source.ReadClipboard()
		if err != nil {
			ui.Warning("Could not read clipboard: %v", err)
			return false
		}
		a.attached = content
		ui.Info("Attached %d characters from the clipboard to your next message.", len(content))
	}
	return false
}

// processTurn runs one user turn: the model may chain several rounds of tool
// calls; a talk_to_user call, a format failure, or the nudge budget ends it.
func (a *Agent) processTurn(ctx context.Context, input string) error {
	if a.attached != "" {
		input = fmt.Sprintf("%s\n\nAttached content:\n%s", input, a.attached)
		a.attached = ""
	}
	a.messages = append(a.messages, llm.Message{Role: llm.RoleUser, Content: input})

	nudges := 0
	for {
		response, err := a.complete(ctx)
		if err != nil {
			return err
		}

		var env envelope
		if err := jsonx.Decode(ctx, response, &env, a.client); err != nil {
			ui.Error("Invalid JSON response from the model: %v", err)
			return nil
		}

		// Keep the raw response in context so the model sees what it said.
		a.messages = append(a.messages, llm.Message{Role: llm.RoleAssistant, Content: response})

		if len(env.ToolCalls) == 0 {
			nudges++
			if nudges >= formatNudges {
				ui.Warning("Model kept answering without tool calls; returning to input.")
				return nil
			}
			a.messages = append(a.messages, llm.Message{Role: llm.RoleUser, Content: formatReminder})
			continue
		}

		if done := a.dispatchAll(ctx, env.ToolCalls); done {
			return nil
		}
	}
}

// complete streams the model response, echoing deltas, and falls back to a
// non-streaming completion when the stream cannot be established.
func (a *Agent) complete(ctx context.Context) (string, error) {
	opts := llm.Options{JSONObject: true}
	response, err := a.client.Stream(ctx, a.messages, opts, func(delta string) {
		fmt.Print(delta)
	})
	fmt.Println()
	if err != nil {
		ui.Warning("Streaming failed, falling back to regular completion: %v", err)
		response, err = a.client.Complete(ctx, a.messages, opts)
		if err != nil {
			return "", fmt.Errorf("completion: %w", err)
		}
	}
	return response, nil
}

// dispatchAll runs the requested tool calls in order. It reports whether the
// turn is over (talk_to_user was called).
func (a *Agent) dispatchAll(ctx context.Context, calls []toolCall) bool {
	for _, call := range calls {
		result, err := a.registry.Dispatch(ctx, call.Name, call.Parameters)
		if err != nil {
			note := fmt.Sprintf("Tool call '%s' failed: %v", call.Name, err)
			ui.Warning("%s", note)
			a.messages = append(a.messages, llm.Message{Role: llm.RoleUser, Content: note})
			continue
		}

		a.messages = append(a.messages, llm.Message{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("Tool '%s' result:\n%s", call.Name, result),
		})

		if call.Name == "talk_to_user" {
			ui.PrintMarkdown(result)
			return true
		}
	}
	return false
}

func historyFile() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "kodo_history")
	}
	dir := filepath.Join(base, "kodo")
	os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "history")
}
