package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// readFile returns file contents, optionally limited to a 1-indexed line
// range and prefixed with line numbers.
func readFile(ctx context.Context, env *Env, params map[string]any) (string, error) {
	filename, ok := stringParam(params, "filename")
	if !ok || filename == "" {
		return "", fmt.Errorf("read_file: missing filename parameter")
	}

	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(env.WorkDir, filename)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("read_file: file not found: %s", filename)
		}
		return "", fmt.Errorf("read_file: %w", err)
	}

	startLine, hasStart := intParam(params, "start_line")
	endLine, hasEnd := intParam(params, "end_line")
	if !hasStart && !hasEnd {
		return string(data), nil
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	total := len(lines)

	start := 1
	if hasStart {
		start = startLine
	}
	end := total
	if hasEnd {
		end = endLine
	}
	if start < 1 {
		start = 1
	}
	if end > total {
		end = total
	}
	if start > total {
		return "", fmt.Errorf("read_file: start line %d is beyond the end of the file (%d lines)", start, total)
	}
	if start > end {
		return "", fmt.Errorf("read_file: start line %d is greater than end line %d", start, end)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File: %s (lines %d-%d of %d)\n", filename, start, end, total)
	for i := start; i <= end; i++ {
		fmt.Fprintf(&b, "%4d: %s\n", i, lines[i-1])
	}
	return b.String(), nil
}
