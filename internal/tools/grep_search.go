package tools

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// grepSearch searches file contents under the project directory for a regex,
// optionally filtering by a file-name glob. Ignored directories are skipped.
func grepSearch(ctx context.Context, env *Env, params map[string]any) (string, error) {
	pattern, ok := stringParam(params, "pattern")
	if !ok || pattern == "" {
		return "", fmt.Errorf("grep_search: missing pattern parameter")
	}
	filePattern, ok := stringParam(params, "file_pattern")
	if !ok || filePattern == "" {
		filePattern = "*"
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("grep_search: invalid regex: %w", err)
	}

	var results []string
	root := env.WorkDir
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			if path != root && env.Config.IsIgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if matched, _ := filepath.Match(filePattern, d.Name()); !matched {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		results = append(results, grepFile(path, rel, re)...)
		return nil
	})
	if walkErr != nil {
		return "", fmt.Errorf("grep_search: %w", walkErr)
	}

	if len(results) == 0 {
		return "No matches found.", nil
	}
	return strings.Join(results, "\n"), nil
}

func grepFile(path, rel string, re *regexp.Regexp) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var matches []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if re.MatchString(line) {
			matches = append(matches, fmt.Sprintf("%s:%d: %s", rel, lineNo, strings.TrimRight(line, " \t")))
		}
	}
	return matches
}
