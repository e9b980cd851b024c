package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kodo/internal/config"
)

func testEnv(t *testing.T) *Env {
	t.Helper()
	return &Env{
		Config:  config.Default(),
		WorkDir: t.TempDir(),
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	r := NewRegistry(testEnv(t))
	_, err := r.Dispatch(context.Background(), "does_not_exist", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

func TestNamesAreSorted(t *testing.T) {
	r := NewRegistry(testEnv(t))
	names := r.Names()
	assert.Contains(t, names, "edit_file")
	assert.Contains(t, names, "talk_to_user")
	assert.IsType(t, []string{}, names)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestTalkToUser(t *testing.T) {
	r := NewRegistry(testEnv(t))
	out, err := r.Dispatch(context.Background(), "talk_to_user", map[string]any{"message": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}

func TestReadFileRange(t *testing.T) {
	env := testEnv(t)
	path := filepath.Join(env.WorkDir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\nfour\n"), 0644))

	r := NewRegistry(env)
	out, err := r.Dispatch(context.Background(), "read_file", map[string]any{
		"filename":   "f.txt",
		"start_line": float64(2), // JSON numbers decode to float64
		"end_line":   float64(3),
	})
	require.NoError(t, err)
	assert.Contains(t, out, "2: two")
	assert.Contains(t, out, "3: three")
	assert.NotContains(t, out, "1: one")
}

func TestReadFileWholeFile(t *testing.T) {
	env := testEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.WorkDir, "f.txt"), []byte("abc\n"), 0644))

	r := NewRegistry(env)
	out, err := r.Dispatch(context.Background(), "read_file", map[string]any{"filename": "f.txt"})
	require.NoError(t, err)
	assert.Equal(t, "abc\n", out)
}

func TestReadFileMissing(t *testing.T) {
	r := NewRegistry(testEnv(t))
	_, err := r.Dispatch(context.Background(), "read_file", map[string]any{"filename": "nope.txt"})
	assert.Error(t, err)
}

func TestListFiles(t *testing.T) {
	env := testEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.WorkDir, "a.go"), []byte("l1\nl2\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(env.WorkDir, "sub"), 0755))

	r := NewRegistry(env)
	out, err := r.Dispatch(context.Background(), "list_files", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "a.go")
	assert.Contains(t, out, "sub")
	// Directories sort before files.
	assert.Less(t, strings.Index(out, "sub"), strings.Index(out, "a.go"))
}

func TestGrepSearch(t *testing.T) {
	env := testEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.WorkDir, "x.go"), []byte("package x\nfunc Hit() {}\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(env.WorkDir, "node_modules"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(env.WorkDir, "node_modules", "y.go"), []byte("func Hit() {}\n"), 0644))

	r := NewRegistry(env)
	out, err := r.Dispatch(context.Background(), "grep_search", map[string]any{"pattern": "Hit"})
	require.NoError(t, err)
	assert.Contains(t, out, "x.go:2")
	// Ignored directories are skipped.
	assert.NotContains(t, out, "node_modules")
}

func TestGrepSearchNoMatches(t *testing.T) {
	r := NewRegistry(testEnv(t))
	out, err := r.Dispatch(context.Background(), "grep_search", map[string]any{"pattern": "absent"})
	require.NoError(t, err)
	assert.Equal(t, "No matches found.", out)
}

func TestGrepSearchInvalidRegex(t *testing.T) {
	r := NewRegistry(testEnv(t))
	_, err := r.Dispatch(context.Background(), "grep_search", map[string]any{"pattern": "("})
	assert.Error(t, err)
}

func TestSearchFiles(t *testing.T) {
	env := testEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.WorkDir, "handler.go"), []byte("func handler() {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(env.WorkDir, "other.txt"), []byte("nothing\n"), 0644))

	r := NewRegistry(env)
	out, err := r.Dispatch(context.Background(), "search_files", map[string]any{"pattern": "handler"})
	require.NoError(t, err)
	assert.Contains(t, out, "handler.go")
	assert.Contains(t, out, "line 1")
	assert.NotContains(t, out, "other.txt")
}

func TestExecShell(t *testing.T) {
	r := NewRegistry(testEnv(t))
	out, err := r.Dispatch(context.Background(), "exec_shell", map[string]any{"command": "echo hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestExecShellFailureReportedInOutput(t *testing.T) {
	r := NewRegistry(testEnv(t))
	out, err := r.Dispatch(context.Background(), "exec_shell", map[string]any{"command": "exit 3"})
	require.NoError(t, err)
	assert.Contains(t, out, "command failed")
}

func TestIntParamTolerance(t *testing.T) {
	params := map[string]any{"a": float64(7), "b": "12", "c": "x"}
	v, ok := intParam(params, "a")
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	v, ok = intParam(params, "b")
	assert.True(t, ok)
	assert.Equal(t, 12, v)
	_, ok = intParam(params, "c")
	assert.False(t, ok)
	_, ok = intParam(params, "missing")
	assert.False(t, ok)
}
