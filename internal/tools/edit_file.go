package tools

import (
	"context"
	"fmt"
	"path/filepath"

	"kodo/internal/editblock"
	"kodo/internal/fs"
	"kodo/internal/llm"
	"kodo/internal/state"
	"kodo/internal/ui"
)

// editPrompt is the producer-facing format contract: the model must emit
// search/replace blocks whose SEARCH sections are verbatim copies of the
// current code.
const editPrompt = `Act as an expert software developer.
Always use best practices when coding.
Respect and use existing conventions, libraries, etc that are already present in the code base.
Take requests for changes to the supplied code.

Once you understand the request you MUST:

1. Think step-by-step and explain the needed changes in a few short sentences.

2. Return the changes as *SEARCH/REPLACE blocks* in this exact format:
   <<<<<<< SEARCH
   [exact lines to find in current code]
   =======
   [new code to replace those lines]
   >>>>>>> REPLACE

Important:
- Make sure SEARCH sections EXACTLY match existing code: every space, tab and
  newline, with indentation and line endings preserved as-is.
- To create a new file, use one block with an empty SEARCH section.
- For moving code, use two blocks: one to remove it from the old location,
  one to insert it at the new location.
- Each block should be focused and minimal; if one block depends on another,
  combine them into a single block.
- Copy code into SEARCH sections exactly as it appears. Do not clean up or
  reformat whitespace.`

const editExampleRequest = "Change factorial() to use math.factorial"

const editExampleResponse = `Here are the *SEARCH/REPLACE blocks*:

<<<<<<< SEARCH
from flask import Flask
=======
import math
from flask import Flask
>>>>>>> REPLACE

<<<<<<< SEARCH
    return str(factorial(n))
=======
    return str(math.factorial(n))
>>>>>>> REPLACE`

// editFile asks the model for search/replace blocks against the target file
// and applies them through the edit-block engine. A rejected outcome reports
// the failing edit so the agent can regenerate blocks; nothing is written.
func editFile(ctx context.Context, env *Env, params map[string]any) (string, error) {
	target, ok := stringParam(params, "target_file")
	if !ok || target == "" {
		return "", fmt.Errorf("edit_file: missing target_file parameter")
	}
	instructions, ok := stringParam(params, "instructions")
	if !ok || instructions == "" {
		return "", fmt.Errorf("edit_file: missing instructions parameter")
	}
	if env.LLM == nil {
		return "", fmt.Errorf("edit_file: no model client configured")
	}

	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(env.WorkDir, target)
	}

	// Missing file reads as the empty string: that is how "create a new
	// file" enters the engine.
	code, err := fs.ReadOrEmpty(path)
	if err != nil {
		return "", err
	}

	ui.Info("Editing %s: %s", target, instructions)
	response, err := env.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: editPrompt},
		{Role: llm.RoleUser, Content: editExampleRequest},
		{Role: llm.RoleAssistant, Content: editExampleResponse},
		{Role: llm.RoleUser, Content: fmt.Sprintf("Code:\n%s\n\n%s", code, instructions)},
	}, llm.Options{})
	if err != nil {
		return "", fmt.Errorf("edit_file: %w", err)
	}

	edits, diags := editblock.Parse(response)
	for _, d := range diags {
		ui.Warning("Skipped malformed block at offset %d (%s)", d.Offset, d.Reason)
	}
	if len(edits) == 0 {
		return "", fmt.Errorf("edit_file: response for %s contained no complete edit blocks", target)
	}

	outcome := editblock.Apply(code, edits)
	if !outcome.Applied {
		// All-or-nothing: no partial buffer is ever persisted.
		return "", fmt.Errorf("edit_file: edit %d rejected (%s); search text was: %q",
			outcome.FailedIndex, outcome.Reason, outcome.SearchPreview)
	}
	for _, adv := range outcome.Advisories {
		ui.Warning("Edit %d matched more than once; applied at the leftmost occurrence", adv.Index)
	}

	if outcome.Content == code {
		return fmt.Sprintf("No changes needed for %s.", target), nil
	}

	if err := persistEdit(env, path, code, outcome.Content); err != nil {
		return "", fmt.Errorf("edit_file: %w", err)
	}

	diff, err := editblock.Unified(code, outcome.Content)
	if err != nil {
		return "", fmt.Errorf("edit_file: render diff: %w", err)
	}
	ui.Success("Applied %d edit(s) to %s", outcome.AppliedCount, target)
	ui.PrintDiff(diff)

	return fmt.Sprintf("Applied %d edit(s) to %s:\n%s", outcome.AppliedCount, target, diff), nil
}

// persistEdit writes the new content atomically and records before/after
// snapshots for undo.
func persistEdit(env *Env, path, before, after string) error {
	op := state.Operation{Path: path, Action: state.ActionModify}
	if before == "" {
		op.Action = state.ActionCreate
	}

	if env.State != nil {
		if before != "" {
			id, err := env.State.Snapshot(before)
			if err != nil {
				return err
			}
			op.Before = id
		}
		id, err := env.State.Snapshot(after)
		if err != nil {
			return err
		}
		op.After = id
	}

	if err := fs.WriteAtomic(path, after); err != nil {
		return err
	}

	if env.State != nil {
		return env.State.Write([]state.Operation{op})
	}
	return nil
}
