package tools

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// searchFiles finds files whose names match a regex and reports any content
// lines matching the same pattern.
func searchFiles(ctx context.Context, env *Env, params map[string]any) (string, error) {
	pattern, ok := stringParam(params, "pattern")
	if !ok || pattern == "" {
		return "", fmt.Errorf("search_files: missing pattern parameter")
	}
	dir, ok := stringParam(params, "directory")
	if !ok || dir == "" {
		dir = "."
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("search_files: invalid regex: %w", err)
	}

	root := dir
	if !filepath.IsAbs(root) {
		root = filepath.Join(env.WorkDir, dir)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return "", fmt.Errorf("search_files: directory not found: %s", dir)
	}

	type match struct {
		file  string
		lines []string
	}
	var matches []match

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && (env.Config.IsIgnoredDir(d.Name()) || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !re.MatchString(d.Name()) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		matches = append(matches, match{file: rel, lines: matchingLines(path, re)})
		return nil
	})
	if walkErr != nil {
		return "", fmt.Errorf("search_files: %w", walkErr)
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No files matching %q under %s.", pattern, dir), nil
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].file < matches[j].file })

	var b strings.Builder
	fmt.Fprintf(&b, "Files matching %q under %s:\n", pattern, dir)
	for _, m := range matches {
		fmt.Fprintf(&b, "- %s\n", m.file)
		for _, l := range m.lines {
			fmt.Fprintf(&b, "    %s\n", l)
		}
	}
	return b.String(), nil
}

func matchingLines(path string, re *regexp.Regexp) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if re.MatchString(scanner.Text()) {
			lines = append(lines, fmt.Sprintf("line %d: %s", lineNo, strings.TrimSpace(scanner.Text())))
		}
	}
	return lines
}
