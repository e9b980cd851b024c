package tools

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// listFiles lists one directory with per-file line counts and sizes,
// directories first.
func listFiles(ctx context.Context, env *Env, params map[string]any) (string, error) {
	dir, ok := stringParam(params, "directory_path")
	if !ok || dir == "" {
		dir = "."
	}
	path := dir
	if !filepath.IsAbs(path) {
		path = filepath.Join(env.WorkDir, dir)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("list_files: directory not found: %s", dir)
		}
		return "", fmt.Errorf("list_files: %w", err)
	}

	type row struct {
		name  string
		isDir bool
		lines int
		size  int64
	}
	rows := make([]row, 0, len(entries))
	for _, e := range entries {
		r := row{name: e.Name(), isDir: e.IsDir()}
		if !e.IsDir() {
			if info, err := e.Info(); err == nil {
				r.size = info.Size()
			}
			r.lines = countLines(filepath.Join(path, e.Name()))
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].isDir != rows[j].isDir {
			return rows[i].isDir
		}
		return strings.ToLower(rows[i].name) < strings.ToLower(rows[j].name)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Contents of %s:\n\n", path)
	fmt.Fprintf(&b, "%-30s %-10s %-9s %s\n", "Name", "Type", "Lines", "Size")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, r := range rows {
		name := r.name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		if r.isDir {
			fmt.Fprintf(&b, "%-30s %-10s %-9s %s\n", name, "directory", "-", "-")
		} else {
			fmt.Fprintf(&b, "%-30s %-10s %-9d %d B\n", name, "file", r.lines, r.size)
		}
	}
	return b.String(), nil
}

func countLines(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		count++
	}
	return count
}
