package apply

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kodo/internal/fs"
	"kodo/internal/state"
)

func resolverAt(t *testing.T, dir string) *fs.PathResolver {
	t.Helper()
	r, err := fs.NewPathResolver([]string{dir})
	require.NoError(t, err)
	return r
}

func TestPlanWholeFileBlock(t *testing.T) {
	dir := t.TempDir()
	content := "`main.go`\n\n```go\npackage main\n\nfunc main() {}\n```\n"

	changes, failures, err := Plan(content, resolverAt(t, dir))
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, changes, 1)
	assert.Equal(t, filepath.Join(dir, "main.go"), changes[0].Path)
	assert.Equal(t, "", changes[0].Before)
	assert.Equal(t, "package main\n\nfunc main() {}\n", changes[0].After)
}

func TestPlanEditBlocks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(target, []byte("old line\nkeep\n"), 0644))

	content := "`a.go`\n\n```\n<<<<<<< SEARCH\nold line\n=======\nnew line\n>>>>>>> REPLACE\n```\n"
	changes, failures, err := Plan(content, resolverAt(t, dir))
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, changes, 1)
	assert.Equal(t, "new line\nkeep\n", changes[0].After)
}

func TestPlanRejectedEditsBecomeFailures(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(target, []byte("actual content\n"), 0644))

	content := "`a.go`\n\n```\n<<<<<<< SEARCH\nnever present\n=======\nx\n>>>>>>> REPLACE\n```\n"
	changes, failures, err := Plan(content, resolverAt(t, dir))
	require.NoError(t, err)
	assert.Empty(t, changes)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Reason, "no match")
}

func TestPlanIgnoresBlocksWithoutHint(t *testing.T) {
	content := "Some explanation.\n\n```go\npackage orphan\n```\n"
	changes, failures, err := Plan(content, resolverAt(t, t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.Empty(t, failures)
}

func TestPlanHintWithSpacesIsNotAPath(t *testing.T) {
	content := "Run `go test ./...` first.\n\n```\noutput\n```\n"
	changes, _, err := Plan(content, resolverAt(t, t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestPlanSequentialBlocksForSameFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "s.txt")
	require.NoError(t, os.WriteFile(target, []byte("AB"), 0644))

	content := "`s.txt`\n\n```\n<<<<<<< SEARCH\nA\n=======\n1\n>>>>>>> REPLACE\n```\n\n" +
		"`s.txt`\n\n```\n<<<<<<< SEARCH\n1\n=======\n2\n>>>>>>> REPLACE\n```\n"
	changes, failures, err := Plan(content, resolverAt(t, dir))
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, changes, 1)
	assert.Equal(t, "2B", changes[0].After)
}

func TestRunWritesAndRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	mgr, err := state.NewAt(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "new.txt")
	summary, err := Run([]Change{{Path: path, Before: "", After: "hello\n"}}, nil, mgr)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, summary.Created)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))

	// The run is undoable.
	restored, err := mgr.Undo()
	require.NoError(t, err)
	assert.Equal(t, []string{path}, restored)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunReportsFailures(t *testing.T) {
	summary, err := Run(nil, []Failure{{Path: "x.go", Reason: "no match"}}, nil)
	require.NoError(t, err)
	require.Len(t, summary.Failed, 1)
	assert.Contains(t, summary.Failed[0], "x.go")
	assert.Contains(t, summary.Failed[0], "no match")
}

func TestPathFromHint(t *testing.T) {
	cases := map[string]string{
		"`path/to/file.go`":      "path/to/file.go",
		"Update `a.go` like so:": "a.go",
		"Run `go run main.go`":   "",
		"no backticks here":      "",
		"``":                     "",
	}
	for hint, want := range cases {
		assert.Equal(t, want, pathFromHint(hint), "hint %q", hint)
	}
}
