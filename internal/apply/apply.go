// Package apply turns pasted model output into file changes: fenced code
// blocks with a path hint either carry search/replace edit blocks, which run
// through the edit-block engine, or replace the whole file.
package apply

import (
	"fmt"
	"strings"

	"kodo/internal/editblock"
	"kodo/internal/fs"
	"kodo/internal/state"
	"kodo/internal/ui"
)

// Change is one planned, not yet persisted, file change.
type Change struct {
	Path   string
	Before string
	After  string
}

// Failure is one block that could not be applied.
type Failure struct {
	Path   string
	Reason string
}

// Summary reports an apply run for display.
type Summary struct {
	Created  []string
	Modified []string
	Failed   []string
	Message  string
}

// Plan parses content and computes the resulting file changes without
// touching disk. Blocks without a usable path hint are ignored; a rejected
// edit set becomes a Failure, never a partial change.
func Plan(content string, resolver *fs.PathResolver) ([]Change, []Failure, error) {
	blocks, err := extractCodeBlocks([]byte(content))
	if err != nil {
		return nil, nil, fmt.Errorf("parse markdown: %w", err)
	}

	// Later blocks for the same file build on earlier ones.
	pending := map[string]string{}
	var order []string
	var failures []Failure

	for _, block := range blocks {
		target := pathFromHint(block.hint)
		if target == "" {
			continue
		}
		path := resolver.Resolve(target)

		current, seen := pending[path]
		if !seen {
			current, err = fs.ReadOrEmpty(path)
			if err != nil {
				failures = append(failures, Failure{Path: path, Reason: err.Error()})
				continue
			}
		}

		next, failure := applyBlock(current, block.content)
		if failure != "" {
			failures = append(failures, Failure{Path: path, Reason: failure})
			continue
		}
		if !seen {
			order = append(order, path)
		}
		pending[path] = next
	}

	var changes []Change
	for _, path := range order {
		before, err := fs.ReadOrEmpty(path)
		if err != nil {
			failures = append(failures, Failure{Path: path, Reason: err.Error()})
			continue
		}
		if pending[path] == before {
			continue
		}
		changes = append(changes, Change{Path: path, Before: before, After: pending[path]})
	}
	return changes, failures, nil
}

// applyBlock applies one code block to the current buffer. Blocks containing
// edit-block markers go through the engine; anything else replaces the file.
func applyBlock(current, blockContent string) (next string, failure string) {
	if !strings.Contains(blockContent, editblock.SearchMarker) {
		return blockContent, ""
	}

	edits, diags := editblock.Parse(blockContent)
	for _, d := range diags {
		ui.Warning("Skipped malformed block at offset %d (%s)", d.Offset, d.Reason)
	}
	if len(edits) == 0 {
		return "", "no complete edit blocks found"
	}

	outcome := editblock.Apply(current, edits)
	if !outcome.Applied {
		return "", fmt.Sprintf("edit %d rejected (%s); search text was: %q",
			outcome.FailedIndex, outcome.Reason, outcome.SearchPreview)
	}
	for _, adv := range outcome.Advisories {
		ui.Warning("Edit %d matched more than once; applied at the leftmost occurrence", adv.Index)
	}
	return outcome.Content, ""
}

// Run persists planned changes atomically, records history for undo and
// returns a display summary. Rejected blocks reported by Plan never reach
// disk.
func Run(changes []Change, failures []Failure, manager *state.Manager) (Summary, error) {
	var summary Summary
	var ops []state.Operation

	for _, change := range changes {
		op := state.Operation{Path: change.Path, Action: state.ActionModify}
		created := change.Before == ""
		if created {
			op.Action = state.ActionCreate
		}

		if manager != nil {
			if !created {
				id, err := manager.Snapshot(change.Before)
				if err != nil {
					return summary, err
				}
				op.Before = id
			}
			id, err := manager.Snapshot(change.After)
			if err != nil {
				return summary, err
			}
			op.After = id
		}

		if err := fs.WriteAtomic(change.Path, change.After); err != nil {
			summary.Failed = append(summary.Failed, change.Path)
			continue
		}
		if created {
			summary.Created = append(summary.Created, change.Path)
		} else {
			summary.Modified = append(summary.Modified, change.Path)
		}
		ops = append(ops, op)
	}

	for _, f := range failures {
		summary.Failed = append(summary.Failed, fmt.Sprintf("%s (%s)", f.Path, f.Reason))
	}

	if manager != nil && len(ops) > 0 {
		if err := manager.Write(ops); err != nil {
			return summary, err
		}
	}
	return summary, nil
}
