// Package tools implements the operations the model can invoke and the
// registry that dispatches them by name.
package tools

import (
	"context"
	"fmt"
	"sort"

	"kodo/internal/config"
	"kodo/internal/llm"
	"kodo/internal/state"
)

// Env carries the collaborators tools may need. Pure tools ignore it.
type Env struct {
	Config  config.Config
	LLM     *llm.Client
	State   *state.Manager
	WorkDir string
}

// Func is one callable tool. Parameters arrive as decoded JSON; the returned
// string goes back into the conversation for the model to read.
type Func func(ctx context.Context, env *Env, params map[string]any) (string, error)

// Registry maps tool names to implementations.
type Registry struct {
	env   *Env
	tools map[string]Func
}

// NewRegistry builds a registry with every built-in tool registered.
func NewRegistry(env *Env) *Registry {
	r := &Registry{env: env, tools: map[string]Func{}}
	r.Register("edit_file", editFile)
	r.Register("exec_shell", execShell)
	r.Register("read_file", readFile)
	r.Register("list_files", listFiles)
	r.Register("grep_search", grepSearch)
	r.Register("search_files", searchFiles)
	r.Register("talk_to_user", talkToUser)
	return r
}

// Register adds or replaces a tool.
func (r *Registry) Register(name string, fn Func) {
	r.tools[name] = fn
}

// Names lists registered tools in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the named tool. An unknown name is an error for the model to
// read, never a crash.
func (r *Registry) Dispatch(ctx context.Context, name string, params map[string]any) (string, error) {
	fn, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	if params == nil {
		params = map[string]any{}
	}
	return fn(ctx, r.env, params)
}

// stringParam fetches a string parameter.
func stringParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intParam fetches an integer parameter, tolerating the float64 that JSON
// decoding produces and numeric strings the model sometimes sends.
func intParam(params map[string]any, key string) (int, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		var parsed int
		if _, err := fmt.Sscanf(n, "%d", &parsed); err == nil {
			return parsed, true
		}
	}
	return 0, false
}
