// Package state records applied file operations so they can be undone and
// redone. Each operation keeps full before/after content snapshots; undo and
// redo restore exact bytes rather than replaying edits.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"kodo/internal/fs"
)

const (
	stateDirName    = ".kodo"
	stateFileName   = "state.json"
	snapshotDirName = "snapshots"
)

// Action values for Operation.
const (
	ActionCreate = "create"
	ActionModify = "modify"
)

// Operation is one applied file change. Before is empty when the file did not
// exist prior to the operation.
type Operation struct {
	Path   string `json:"path"`
	Action string `json:"action"`
	Before string `json:"before,omitempty"` // snapshot id
	After  string `json:"after"`            // snapshot id
}

// HistoryEntry is one run of the tool.
type HistoryEntry struct {
	ID         string      `json:"id"`
	Timestamp  int64       `json:"timestamp"`
	Operations []Operation `json:"operations"`
}

type stateFile struct {
	History      []HistoryEntry `json:"history"`
	CurrentIndex int            `json:"current_index"`
}

// Manager owns the state file and snapshot store under the project root.
type Manager struct {
	dir       string
	statePath string
	state     stateFile
}

// findProjectRoot prefers the git toplevel, falling back to the working
// directory.
func findProjectRoot() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err == nil {
		return strings.TrimSpace(string(out)), nil
	}
	return os.Getwd()
}

// New creates and loads a state manager.
func New() (*Manager, error) {
	root, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("locate project root: %w", err)
	}
	return NewAt(root)
}

// NewAt creates a manager rooted at the given directory.
func NewAt(root string) (*Manager, error) {
	dir := filepath.Join(root, stateDirName)
	if err := os.MkdirAll(filepath.Join(dir, snapshotDirName), 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	m := &Manager{
		dir:       dir,
		statePath: filepath.Join(dir, stateFileName),
		state:     stateFile{CurrentIndex: -1},
	}
	if err := m.load(); err != nil {
		// A damaged state file should not block the tool; start fresh.
		m.state = stateFile{CurrentIndex: -1}
	}
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, &m.state)
}

func (m *Manager) save() error {
	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return err
	}
	return fs.WriteAtomic(m.statePath, string(data))
}

// Snapshot stores content and returns its snapshot id.
func (m *Manager) Snapshot(content string) (string, error) {
	id := uuid.NewString()
	path := filepath.Join(m.dir, snapshotDirName, id)
	if err := fs.WriteAtomic(path, content); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return id, nil
}

func (m *Manager) readSnapshot(id string) (string, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, snapshotDirName, id))
	if err != nil {
		return "", fmt.Errorf("read snapshot %s: %w", id, err)
	}
	return string(data), nil
}

// Write appends one history entry. Any redo tail beyond the current position
// is discarded.
func (m *Manager) Write(ops []Operation) error {
	if len(ops) == 0 {
		return nil
	}
	if m.state.CurrentIndex < len(m.state.History)-1 {
		m.state.History = m.state.History[:m.state.CurrentIndex+1]
	}
	m.state.History = append(m.state.History, HistoryEntry{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC().Unix(),
		Operations: ops,
	})
	m.state.CurrentIndex++
	return m.save()
}

// Undo restores the files of the most recent entry to their before state and
// moves the history pointer back. It returns the restored paths.
func (m *Manager) Undo() ([]string, error) {
	if m.state.CurrentIndex < 0 {
		return nil, nil
	}
	entry := m.state.History[m.state.CurrentIndex]

	var restored []string
	for _, op := range entry.Operations {
		if op.Before == "" {
			if err := os.Remove(op.Path); err != nil && !os.IsNotExist(err) {
				return restored, fmt.Errorf("remove %s: %w", op.Path, err)
			}
		} else {
			content, err := m.readSnapshot(op.Before)
			if err != nil {
				return restored, err
			}
			if err := fs.WriteAtomic(op.Path, content); err != nil {
				return restored, err
			}
		}
		restored = append(restored, op.Path)
	}

	m.state.CurrentIndex--
	if err := m.save(); err != nil {
		return restored, err
	}
	return restored, nil
}

// Redo re-applies the next entry's after state and advances the pointer.
func (m *Manager) Redo() ([]string, error) {
	next := m.state.CurrentIndex + 1
	if next >= len(m.state.History) {
		return nil, nil
	}
	entry := m.state.History[next]

	var restored []string
	for _, op := range entry.Operations {
		content, err := m.readSnapshot(op.After)
		if err != nil {
			return restored, err
		}
		if err := fs.WriteAtomic(op.Path, content); err != nil {
			return restored, err
		}
		restored = append(restored, op.Path)
	}

	m.state.CurrentIndex = next
	if err := m.save(); err != nil {
		return restored, err
	}
	return restored, nil
}
